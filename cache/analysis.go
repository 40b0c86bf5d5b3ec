// Package cache provides an in-memory analysis cache backed by go-cache.
package cache

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/veracity"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// Ensure AnalysisService implements veracity.AnalysisService at compile time.
var _ veracity.AnalysisService = (*AnalysisService)(nil)

// AnalysisService caches successful results of the wrapped service for a
// fixed TTL. Concurrent requests for the same input share one analysis.
// Failures are never cached.
type AnalysisService struct {
	next  veracity.AnalysisService
	cache *gocache.Cache
	group singleflight.Group
}

// NewAnalysisService wraps next with a cache whose entries live for ttl.
func NewAnalysisService(next veracity.AnalysisService, ttl time.Duration) *AnalysisService {
	return &AnalysisService{
		next:  next,
		cache: gocache.New(ttl, 2*ttl),
	}
}

// Analyze returns a cached result for req when one exists. Cached results are
// shared between callers and must not be modified.
//
// The shared analysis runs detached from any single caller's context; each
// caller stops waiting when its own ctx is done.
func (s *AnalysisService) Analyze(ctx context.Context, req *veracity.Request) (*veracity.Result, error) {
	key := Key(req)
	if v, ok := s.cache.Get(key); ok {
		return v.(*veracity.Result), nil
	}

	ch := s.group.DoChan(key, func() (any, error) {
		result, err := s.next.Analyze(context.WithoutCancel(ctx), req)
		if err != nil {
			return nil, err
		}
		s.cache.SetDefault(key, result)
		return result, nil
	})

	select {
	case <-ctx.Done():
		return nil, veracity.Reasonf(veracity.ETIMEOUT, veracity.ReasonTimeout,
			"Analysis timed out. Please try again.").Wrap(ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*veracity.Result), nil
	}
}

// Key returns the cache key for req. Requests that would produce the same
// prompt share a key: the text when present (plus the cited URL), otherwise
// the URL alone.
func Key(req *veracity.Request) string {
	d := xxhash.New()
	url := strings.TrimSpace(req.URL)
	if req.InputType() == veracity.InputText {
		_, _ = d.WriteString("text\x00")
		_, _ = d.WriteString(req.Text)
		_, _ = d.WriteString("\x00")
	} else {
		_, _ = d.WriteString("url\x00")
	}
	_, _ = d.WriteString(url)
	return strconv.FormatUint(d.Sum64(), 16)
}
