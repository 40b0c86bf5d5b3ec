package veracity

import "context"

// Article holds the title and raw body text extracted from an HTML page.
// It is transient: the body is normalized and the article discarded.
type Article struct {
	Title string
	Body  string
}

// Fetcher retrieves HTML documents from URLs.
type Fetcher interface {
	// Fetch issues a single request for url and returns the HTML body.
	// The context controls timeout and cancellation.
	// Returns EEXTRACTION for HTTP, content-type and network failures and
	// ETIMEOUT when the deadline passes.
	Fetch(ctx context.Context, url string) (html string, err error)
}

// Extractor turns an HTML document into article text.
type Extractor interface {
	// Extract returns a best-effort title and body. It does not judge
	// whether the body is long enough; that is the caller's job.
	Extract(html string) (*Article, error)
}
