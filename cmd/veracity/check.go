package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/veracity"
)

// Run executes the check command.
func (c *CheckCmd) Run(deps *Dependencies) error {
	req := &veracity.Request{Text: c.Text, URL: c.URL}

	result, err := deps.Analyses.Analyze(deps.Ctx, req)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", veracity.ErrorMessage(err))
		return err
	}

	if deps.History != nil {
		a := &veracity.Analysis{
			Result:    result,
			SourceURL: strings.TrimSpace(c.URL),
			InputType: req.InputType(),
			CreatedAt: time.Now(),
		}
		if err := deps.History.SaveAnalysis(context.WithoutCancel(deps.Ctx), a); err != nil {
			deps.Logger.Warn("save analysis", "err", err)
		}
	}

	enc := json.NewEncoder(deps.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
