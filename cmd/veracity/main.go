package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/veracity"
	"github.com/fwojciec/veracity/analyze"
	"github.com/fwojciec/veracity/cache"
	"github.com/fwojciec/veracity/gemini"
	"github.com/fwojciec/veracity/goquery"
	vhttp "github.com/fwojciec/veracity/http"
	"github.com/fwojciec/veracity/readability"
	vslog "github.com/fwojciec/veracity/slog"
	"github.com/fwojciec/veracity/sqlite"
	"github.com/fwojciec/veracity/trafilatura"
	"github.com/joho/godotenv"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loadDotenv()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by the history service.
	DB *sqlite.DB

	// Generator overrides the Gemini backend. Used for end-to-end testing.
	Generator veracity.Generator

	// Services wired by Run.
	Analyses veracity.AnalysisService
	History  veracity.HistoryService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("veracity"),
		kong.Description("Check news articles for authenticity"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'veracity --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger, err := newLogger(stderr, cli.LogFormat, cli.LogLevel)
	if err != nil {
		return err
	}
	deps.Logger = logger

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set VERACITY_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.History = vslog.NewLoggingHistoryService(sqlite.NewHistoryService(m.DB), logger)
	deps.History = m.History

	// Only the pipeline commands need the fetcher and generator.
	cmd := strings.Fields(kongCtx.Command())[0]
	if cmd == "serve" || cmd == "check" {
		analyzer, err := m.newAnalyzer(ctx, cli, logger, stderr)
		if err != nil {
			return err
		}
		var analyses veracity.AnalysisService = analyzer
		if cli.CacheTTL > 0 {
			analyses = cache.NewAnalysisService(analyzer, cli.CacheTTL)
		}
		m.Analyses = vslog.NewLoggingAnalysisService(analyses, logger)
		deps.Analyses = m.Analyses
	}

	return kongCtx.Run(deps)
}

// newAnalyzer wires the pipeline stages from the global flags.
func (m *Main) newAnalyzer(ctx context.Context, cli *CLI, logger *slog.Logger, stderr io.Writer) (*analyze.Analyzer, error) {
	var fetcher veracity.Fetcher = vslog.NewLoggingFetcher(vhttp.NewFetcher(vhttp.WithTimeout(cli.FetchTimeout)), logger)
	if cli.FetchRetries > 0 {
		fetcher = vhttp.NewRetryFetcher(fetcher, retryDelays(cli.FetchRetries), logger)
	}
	extractor := vslog.NewLoggingExtractor(newExtractor(cli.Extractor), logger)

	var generator veracity.Generator
	switch {
	case m.Generator != nil:
		generator = m.Generator
	case cli.APIKey != "":
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cli.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		generator = vslog.NewLoggingGenerator(gemini.NewGenerator(client, cli.Model), logger)
	default:
		// Requests fail with a config error until a key is provided.
		logger.Warn("GEMINI_API_KEY not set; analyses will fail. Get a key at https://aistudio.google.com/apikey")
	}

	a := analyze.New(fetcher, extractor, generator)
	a.Options.Grounding = cli.Grounding
	return a, nil
}

// retryDelays returns n exponential backoff delays starting at one second.
func retryDelays(n int) []time.Duration {
	delays := make([]time.Duration, n)
	for i := range delays {
		delays[i] = time.Second << i
	}
	return delays
}

// newExtractor returns the HTML extractor registered under name.
func newExtractor(name string) veracity.Extractor {
	switch name {
	case "readability":
		return readability.NewExtractor()
	case "trafilatura":
		return trafilatura.NewExtractor()
	default:
		return goquery.NewExtractor()
	}
}

// newLogger builds the process logger from the --log-format and --log-level
// flags.
func newLogger(w io.Writer, format, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// loadDotenv reads .env.local and .env into the environment, if present.
// Variables already set take precedence.
func loadDotenv() {
	for _, name := range []string{".env.local", ".env"} {
		_ = godotenv.Load(name)
	}
}

func defaultDBPath() string {
	if path := os.Getenv("VERACITY_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "veracity.db"
	}
	dir := filepath.Join(home, ".veracity")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "veracity.db")
}
