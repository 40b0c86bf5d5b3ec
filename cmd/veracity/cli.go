package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/veracity"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	Analyses veracity.AnalysisService
	History  veracity.HistoryService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	APIKey       string        `name:"api-key" env:"GEMINI_API_KEY,GOOGLE_GENERATIVE_AI_API_KEY" help:"Gemini API key"`
	Model        string        `default:"gemini-2.5-flash" env:"VERACITY_MODEL" help:"Gemini model name"`
	Extractor    string        `enum:"goquery,readability,trafilatura" default:"goquery" help:"HTML extractor (goquery, readability, trafilatura)"`
	FetchTimeout time.Duration `default:"30s" help:"Timeout for fetching article URLs"`
	FetchRetries int           `default:"0" help:"Retries when the article's server is unavailable (5xx)"`
	CacheTTL     time.Duration `name:"cache-ttl" default:"0" help:"Reuse results for identical requests for this long (0 disables caching)"`
	Grounding    bool          `default:"true" negatable:"" help:"Let the model consult web search while verifying claims"`
	LogFormat    string        `enum:"text,json" default:"text" env:"VERACITY_LOG_FORMAT" help:"Log format (text, json)"`
	LogLevel     string        `default:"info" env:"VERACITY_LOG_LEVEL" help:"Log level (debug, info, warn, error)"`

	Serve   ServeCmd   `cmd:"" help:"Serve the analysis API over HTTP"`
	Check   CheckCmd   `cmd:"" help:"Analyze one article and print the result as JSON"`
	History HistoryCmd `cmd:"" help:"Inspect or clear past analyses"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr       string   `default:":8080" env:"VERACITY_ADDR" help:"Listen address"`
	Rate       float64  `default:"1" help:"Analyze requests per second allowed per client (0 disables limiting)"`
	Burst      int      `default:"5" help:"Burst size for the per-client limit"`
	CORSOrigin []string `name:"cors-origin" env:"VERACITY_CORS_ORIGINS" help:"Allowed browser origin (repeatable)"`
}

// CheckCmd is the "check" subcommand.
type CheckCmd struct {
	URL  string `help:"Article URL" xor:"input"`
	Text string `help:"Article text" xor:"input"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	List   HistoryListCmd   `cmd:"" default:"1" help:"List recent analyses"`
	Delete HistoryDeleteCmd `cmd:"" help:"Delete one analysis"`
	Clear  HistoryClearCmd  `cmd:"" help:"Delete all analyses"`
}

// HistoryListCmd is the "history list" subcommand.
type HistoryListCmd struct {
	Type  string `help:"Only show analyses of this input type (text, url)"`
	Limit int    `short:"n" default:"0" help:"Maximum number of analyses to show"`
	JSON  bool   `help:"Print analyses as JSON"`
}

// HistoryDeleteCmd is the "history delete" subcommand.
type HistoryDeleteCmd struct {
	ID string `arg:"" help:"Analysis ID"`
}

// HistoryClearCmd is the "history clear" subcommand.
type HistoryClearCmd struct {
	Force bool `help:"Confirm deletion"`
}
