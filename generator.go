package veracity

import "context"

// Fixed generation settings.
const (
	DefaultTemperature     = 0.1
	DefaultMaxOutputTokens = 4000
)

// ErrMissingCredential is returned when no generative backend is configured.
var ErrMissingCredential = &Error{
	Code:    ECONFIG,
	Reason:  ReasonMissingCredential,
	Message: "Gemini API key is not configured. Please set the GEMINI_API_KEY environment variable.",
}

// GenerateOptions configures a single generation call.
type GenerateOptions struct {
	Temperature     float32
	MaxOutputTokens int32

	// Grounding lets the backend consult live sources while answering.
	Grounding bool
}

// DefaultGenerateOptions returns the options used for every analysis.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Temperature:     DefaultTemperature,
		MaxOutputTokens: DefaultMaxOutputTokens,
		Grounding:       true,
	}
}

// Generator produces a Result from a prompt using a schema-constrained
// generative backend.
type Generator interface {
	// Generate returns a Result that has passed Result.Validate.
	// Returns EMODEL for auth, quota and schema failures and ETIMEOUT when
	// the deadline passes.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (*Result, error)
}
