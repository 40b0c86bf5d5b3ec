package mock

import (
	"context"

	"github.com/fwojciec/veracity"
)

var _ veracity.Generator = (*Generator)(nil)

// Generator is a mock implementation of veracity.Generator.
type Generator struct {
	GenerateFn func(ctx context.Context, prompt string, opts veracity.GenerateOptions) (*veracity.Result, error)
}

func (g *Generator) Generate(ctx context.Context, prompt string, opts veracity.GenerateOptions) (*veracity.Result, error) {
	return g.GenerateFn(ctx, prompt, opts)
}
