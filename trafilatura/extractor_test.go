package trafilatura_test

import (
	"testing"

	"github.com/fwojciec/veracity"
	"github.com/fwojciec/veracity/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Extractor implements veracity.Extractor at compile time.
var _ veracity.Extractor = (*trafilatura.Extractor)(nil)

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts title from meta tags", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head>
<title>Council Approves Budget - City News</title>
<meta property="og:title" content="Council Approves Transit Budget">
</head>
<body>
<nav>Navigation here</nav>
<main>
<h1>Council Approves Transit Budget</h1>
<p>The city council voted on Tuesday to approve a new budget for public transit.</p>
</main>
<footer>Footer content</footer>
</body>
</html>`

		article, err := trafilatura.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.NotEmpty(t, article.Title)
	})

	t.Run("extracts main content as plain text", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body>
<nav><a href="/">Home</a><a href="/news">News</a></nav>
<article>
<h1>Budget Vote</h1>
<p>This is important reporting that should be extracted from the page.</p>
<p>The measure passed seven to two after a lengthy public comment period.</p>
</article>
<aside>Sidebar content</aside>
<footer>Copyright 2024</footer>
</body>
</html>`

		article, err := trafilatura.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.Contains(t, article.Body, "important reporting")
		assert.NotContains(t, article.Body, "<p>")
	})

	t.Run("removes footer boilerplate", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body>
<article>
<h1>Article Title</h1>
<p>Article body with substantive content for readers.</p>
</article>
<footer>
<p>Copyright 2024 Example Corp</p>
<nav>Privacy | Terms | Contact</nav>
</footer>
</body>
</html>`

		article, err := trafilatura.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.Contains(t, article.Body, "substantive content")
		assert.NotContains(t, article.Body, "Copyright 2024 Example Corp")
	})

	t.Run("returns empty article for empty input", func(t *testing.T) {
		t.Parallel()

		article, err := trafilatura.NewExtractor().Extract("")

		require.NoError(t, err)
		assert.Empty(t, article.Body)
	})

	t.Run("handles minimal valid HTML", func(t *testing.T) {
		t.Parallel()

		article, err := trafilatura.NewExtractor().Extract(`<html><body><p>Simple content</p></body></html>`)

		require.NoError(t, err)
		assert.Contains(t, article.Body, "Simple content")
	})
}
