package main

import (
	vhttp "github.com/fwojciec/veracity/http"
	"golang.org/x/sync/errgroup"
)

// Run executes the serve command. It blocks until the context is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	opts := []vhttp.ServerOption{vhttp.WithLogger(deps.Logger)}
	if deps.History != nil {
		opts = append(opts, vhttp.WithAnalysisWriter(deps.History), vhttp.WithHistory(deps.History))
	}
	if c.Rate > 0 {
		opts = append(opts, vhttp.WithLimiter(vhttp.NewClientLimiter(c.Rate, c.Burst)))
	}
	if len(c.CORSOrigin) > 0 {
		opts = append(opts, vhttp.WithAllowOrigins(c.CORSOrigin...))
	}

	s := vhttp.NewServer(deps.Analyses, opts...)
	s.Addr = c.Addr
	if err := s.Open(); err != nil {
		return err
	}
	deps.Logger.Info("listening", "url", s.URL())

	g, ctx := errgroup.WithContext(deps.Ctx)
	g.Go(func() error {
		<-ctx.Done()
		deps.Logger.Info("shutting down")
		return s.Close()
	})
	return g.Wait()
}
