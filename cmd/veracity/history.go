package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/veracity"
)

// Run executes the history list command.
func (c *HistoryListCmd) Run(deps *Dependencies) error {
	filter := veracity.AnalysisFilter{Limit: c.Limit}
	if c.Type != "" {
		inputType := veracity.InputType(c.Type)
		if inputType != veracity.InputText && inputType != veracity.InputURL {
			fmt.Fprintf(deps.Stderr, "error: --type must be text or url\n")
			return veracity.Errorf(veracity.EINVALID, "invalid input type %q", c.Type)
		}
		filter.InputType = &inputType
	}

	analyses, err := deps.History.FindAnalyses(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", veracity.ErrorMessage(err))
		return err
	}

	if c.JSON {
		if analyses == nil {
			analyses = []*veracity.Analysis{}
		}
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(analyses)
	}

	if len(analyses) == 0 {
		fmt.Fprintln(deps.Stdout, "No analyses found. Use 'veracity check' to analyze an article.")
		return nil
	}

	for _, a := range analyses {
		fmt.Fprintf(deps.Stdout, "%s  %s  %-4s  %s (%.0f%%)",
			a.ID, a.CreatedAt.Local().Format("2006-01-02 15:04"), a.InputType, a.Result.Verdict, a.Result.Confidence)
		if a.SourceURL != "" {
			fmt.Fprintf(deps.Stdout, "  %s", a.SourceURL)
		}
		fmt.Fprintln(deps.Stdout)
	}
	return nil
}

// Run executes the history delete command.
func (c *HistoryDeleteCmd) Run(deps *Dependencies) error {
	if err := deps.History.DeleteAnalysis(deps.Ctx, c.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", veracity.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Deleted analysis %s\n", c.ID)
	return nil
}

// Run executes the history clear command.
func (c *HistoryClearCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return veracity.Errorf(veracity.EINVALID, "use --force to confirm deletion")
	}
	if err := deps.History.DeleteAnalyses(deps.Ctx); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", veracity.ErrorMessage(err))
		return err
	}
	fmt.Fprintln(deps.Stdout, "Deleted all analyses")
	return nil
}
