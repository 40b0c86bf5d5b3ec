// Package http provides the HTTP transport for veracity: an outbound Fetcher
// for article pages and an inbound gin server exposing the analysis API.
package http

import (
	"bufio"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/veracity"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout is the hard deadline for a single page fetch.
const DefaultFetchTimeout = 30 * time.Second

// DefaultMaxBodySize caps how much of a page body is read.
const DefaultMaxBodySize = 5 << 20

// Browser-like request headers. Some publishers refuse requests that do not
// look like they come from a browser.
var defaultHeaders = map[string]string{
	"User-Agent":                "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language":           "en-US,en;q=0.5",
	"Accept-Encoding":           "gzip, deflate",
	"Upgrade-Insecure-Requests": "1",
}

// Ensure Fetcher implements veracity.Fetcher at compile time.
var _ veracity.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML documents with a single GET request. It never
// retries; retry policy belongs to callers.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	maxBodySize int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the deadline for a fetch.
// Defaults to DefaultFetchTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithMaxBodySize sets how many bytes of the body are read. Anything beyond
// is discarded.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// WithClient sets the underlying HTTP client.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:      &http.Client{},
		timeout:     DefaultFetchTimeout,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves the HTML content from the given URL.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", veracity.Reasonf(veracity.EINVALID, veracity.ReasonInvalidURL,
			"Invalid URL format. Please provide a valid HTTP or HTTPS URL.").Wrap(err)
	}
	for k, v := range defaultHeaders {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", transportError(err)
	}
	defer resp.Body.Close()

	if err := CheckStatus(resp.StatusCode); err != nil {
		return "", err
	}
	contentType := resp.Header.Get("Content-Type")
	if err := CheckContentType(contentType); err != nil {
		return "", err
	}

	body, err := f.decode(resp, contentType)
	switch {
	case errors.Is(err, io.EOF):
		// Nothing to sniff: the page is empty and the length check reports it.
		return "", nil
	case isTimeout(err):
		return "", transportError(err)
	case err != nil:
		return "", veracity.Reasonf(veracity.EEXTRACTION, veracity.ReasonFetchFailed,
			"Failed to read the page content. Please verify the URL is accessible.").Wrap(err)
	}
	html, err := io.ReadAll(io.LimitReader(body, f.maxBodySize))
	if err != nil {
		return "", transportError(err)
	}
	return string(html), nil
}

// decode undoes the content encoding we asked for and converts the body to
// UTF-8.
func (f *Fetcher) decode(resp *http.Response, contentType string) (io.Reader, error) {
	var r io.Reader = resp.Body
	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "gzip", "x-gzip":
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		r = gz
	case "deflate":
		// Servers disagree on whether deflate means zlib-wrapped or raw.
		br := bufio.NewReader(r)
		if isZlibHeader(br) {
			zr, err := zlib.NewReader(br)
			if err != nil {
				return nil, err
			}
			r = zr
		} else {
			r = flate.NewReader(br)
		}
	}
	return charset.NewReader(r, contentType)
}

func isZlibHeader(br *bufio.Reader) bool {
	hdr, err := br.Peek(2)
	if err != nil {
		return false
	}
	return hdr[0]&0x0f == 8 && (uint16(hdr[0])<<8|uint16(hdr[1]))%31 == 0
}

// CheckStatus maps a non-2xx HTTP status to an extraction error.
func CheckStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusForbidden:
		return veracity.Reasonf(veracity.EEXTRACTION, veracity.ReasonForbidden,
			"Access denied. The website may be blocking automated requests.")
	case code == http.StatusNotFound:
		return veracity.Reasonf(veracity.EEXTRACTION, veracity.ReasonNotFound,
			"Article not found. Please check the URL and try again.")
	case code >= 500:
		return veracity.Reasonf(veracity.EEXTRACTION, veracity.ReasonServerUnavailable,
			"The website is currently unavailable. Please try again later.")
	default:
		return veracity.Reasonf(veracity.EEXTRACTION, veracity.ReasonFetchFailed,
			"Failed to fetch URL (%d). Please verify the URL is accessible.", code)
	}
}

// CheckContentType rejects responses that do not declare an HTML document.
func CheckContentType(contentType string) error {
	if !strings.Contains(strings.ToLower(contentType), "text/html") {
		return veracity.Reasonf(veracity.EEXTRACTION, veracity.ReasonNotHTML,
			"The URL does not point to a web page. Please provide a link to an article.")
	}
	return nil
}

// transportError classifies a failure that happened before or while reading
// the response.
func transportError(err error) error {
	if isTimeout(err) {
		return veracity.Reasonf(veracity.ETIMEOUT, veracity.ReasonTimeout,
			"Request timed out. The website may be slow to respond.").Wrap(err)
	}
	return veracity.Reasonf(veracity.EEXTRACTION, veracity.ReasonNetworkUnreachable,
		"Unable to access the URL. Please check your internet connection and try again.").Wrap(fmt.Errorf("fetch: %w", err))
}

func isTimeout(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) ||
		(errors.As(err, &netErr) && netErr.Timeout())
}
