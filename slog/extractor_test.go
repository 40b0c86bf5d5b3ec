package slog_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/fwojciec/veracity"
	"github.com/fwojciec/veracity/mock"
	vslog "github.com/fwojciec/veracity/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("logs title and length at debug level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		inner := &mock.Extractor{
			ExtractFn: func(html string) (*veracity.Article, error) {
				return &veracity.Article{Title: "Headline", Body: "café"}, nil
			},
		}

		article, err := vslog.NewLoggingExtractor(inner, logger).Extract("<html></html>")

		require.NoError(t, err)
		assert.Equal(t, "Headline", article.Title)
		output := buf.String()
		assert.Contains(t, output, "extract")
		assert.Contains(t, output, "title=Headline")
		assert.Contains(t, output, "length=4")
	})

	t.Run("stays quiet at info level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Extractor{
			ExtractFn: func(html string) (*veracity.Article, error) {
				return &veracity.Article{}, nil
			},
		}

		_, err := vslog.NewLoggingExtractor(inner, logger).Extract("<html></html>")

		require.NoError(t, err)
		assert.Empty(t, buf.String())
	})
}
