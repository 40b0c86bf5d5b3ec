// Package gemini implements veracity.Generator on top of the Google Gemini
// API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/fwojciec/veracity"
	"google.golang.org/genai"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-2.5-flash"

// Ensure Generator implements veracity.Generator at compile time.
var _ veracity.Generator = (*Generator)(nil)

// Generator implements veracity.Generator using Google Gemini.
type Generator struct {
	client *genai.Client
	model  string
}

// NewGenerator creates a new Generator. An empty model selects DefaultModel.
func NewGenerator(client *genai.Client, model string) *Generator {
	if model == "" {
		model = DefaultModel
	}
	return &Generator{client: client, model: model}
}

// Generate asks the model for an authenticity verdict and returns it once it
// has been decoded strictly and validated.
func (g *Generator) Generate(ctx context.Context, prompt string, opts veracity.GenerateOptions) (*veracity.Result, error) {
	if g.client == nil {
		return nil, veracity.ErrMissingCredential
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		BuildConfig(opts),
	)
	if err != nil {
		return nil, ClassifyError(err)
	}
	if resp == nil {
		return nil, veracity.Errorf(veracity.EINTERNAL, "gemini returned nil result")
	}

	result, err := ParseResult(resp.Text())
	if err != nil {
		return nil, err
	}
	if len(result.Sources) == 0 {
		result.Sources = GroundingSources(resp)
	}
	return result, nil
}

// BuildSchema returns the response schema mirroring veracity.Result.
func BuildSchema() *genai.Schema {
	lo, hi := 0.0, 100.0

	statuses := make([]string, len(veracity.ClaimStatuses))
	for i, s := range veracity.ClaimStatuses {
		statuses[i] = string(s)
	}
	verdicts := make([]string, len(veracity.Tiers))
	for i, t := range veracity.Tiers {
		verdicts[i] = string(t.Verdict)
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"verdict": {
				Type:        genai.TypeString,
				Description: "Overall authenticity verdict, one of: " + strings.Join(verdicts, ", "),
			},
			"confidence": {
				Type:        genai.TypeNumber,
				Description: "Confidence score 0-100",
				Minimum:     &lo,
				Maximum:     &hi,
			},
			"summary": {
				Type:        genai.TypeString,
				Description: "Brief summary of the assessment",
			},
			"claims": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"text":        {Type: genai.TypeString, Description: "The specific claim"},
						"status":      {Type: genai.TypeString, Enum: statuses},
						"explanation": {Type: genai.TypeString, Description: "Explanation of verification status"},
					},
					Required:         []string{"text", "status", "explanation"},
					PropertyOrdering: []string{"text", "status", "explanation"},
				},
			},
			"reasoning": {
				Type:        genai.TypeString,
				Description: "Detailed explanation of the analysis",
			},
			"sources": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"title": {Type: genai.TypeString},
						"url":   {Type: genai.TypeString},
					},
					Required:         []string{"title", "url"},
					PropertyOrdering: []string{"title", "url"},
				},
			},
		},
		Required:         resultFields,
		PropertyOrdering: resultFields,
	}
}

var resultFields = []string{"verdict", "confidence", "summary", "claims", "reasoning", "sources"}

// BuildConfig returns the GenerateContentConfig for opts.
//
// The Gemini API refuses a response schema alongside the search tool, so a
// grounded request carries the schema as a system instruction instead and
// relies on ParseResult to enforce it.
func BuildConfig(opts veracity.GenerateOptions) *genai.GenerateContentConfig {
	temp := opts.Temperature
	config := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: opts.MaxOutputTokens,
	}

	if !opts.Grounding {
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = BuildSchema()
		return config
	}

	config.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	config.SystemInstruction = &genai.Content{
		Parts: []*genai.Part{{Text: schemaInstruction}},
	}
	return config
}

var schemaInstruction = mustSchemaInstruction()

// mustSchemaInstruction panics if the static response schema cannot be
// marshaled.
func mustSchemaInstruction() string {
	schema, err := json.Marshal(BuildSchema())
	if err != nil {
		panic(fmt.Sprintf("gemini: marshal response schema: %v", err))
	}
	return "Respond with a single JSON object and nothing else. It must conform to this JSON schema: " + string(schema)
}

// ParseResult decodes model output into a Result. Unknown or missing fields
// and out-of-range values are schema violations; nothing is coerced.
func ParseResult(text string) (*veracity.Result, error) {
	data := []byte(stripFence(text))

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, schemaViolation(fmt.Errorf("decode response: %w", err))
	}
	if err := requireFields("response", fields, resultFields); err != nil {
		return nil, schemaViolation(err)
	}
	for _, name := range []string{"claims", "sources"} {
		var items []map[string]json.RawMessage
		if err := json.Unmarshal(fields[name], &items); err != nil {
			return nil, schemaViolation(fmt.Errorf("decode %s: %w", name, err))
		}
		required := responseSchema.Properties[name].Items.Required
		for i, item := range items {
			if err := requireFields(fmt.Sprintf("%s[%d]", name, i), item, required); err != nil {
				return nil, schemaViolation(err)
			}
		}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var result veracity.Result
	if err := dec.Decode(&result); err != nil {
		return nil, schemaViolation(fmt.Errorf("decode response: %w", err))
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}
	return &result, nil
}

var responseSchema = BuildSchema()

// requireFields reports the first of names that is absent from fields or set
// to JSON null.
func requireFields(where string, fields map[string]json.RawMessage, names []string) error {
	for _, name := range names {
		raw, ok := fields[name]
		if !ok {
			return fmt.Errorf("%s: missing field %q", where, name)
		}
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return fmt.Errorf("%s: field %q is null", where, name)
		}
	}
	return nil
}

// stripFence removes a Markdown code fence around the JSON payload, which
// models tend to add when no response MIME type is enforced.
func stripFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

func schemaViolation(err error) error {
	return veracity.Reasonf(veracity.EMODEL, veracity.ReasonSchemaViolation,
		"The analysis service returned an invalid response. Please try again.").Wrap(err)
}

// GroundingSources returns the web sources the model consulted, deduplicated
// by URL.
func GroundingSources(resp *genai.GenerateContentResponse) []veracity.Source {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].GroundingMetadata == nil {
		return nil
	}

	var sources []veracity.Source
	seen := make(map[string]bool)
	for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" || seen[chunk.Web.URI] {
			continue
		}
		seen[chunk.Web.URI] = true
		title := chunk.Web.Title
		if title == "" {
			title = chunk.Web.URI
		}
		sources = append(sources, veracity.Source{Title: title, URL: chunk.Web.URI})
	}
	return sources
}

// ClassifyError maps a Gemini client error onto the veracity error model.
func ClassifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return veracity.Reasonf(veracity.ETIMEOUT, veracity.ReasonTimeout,
			"Analysis timed out. Please try again with a shorter article.").Wrap(err)
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden:
			return authFailed(err)
		case apiErr.Code == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED":
			return rateLimited(err)
		case apiErr.Code == http.StatusRequestTimeout || apiErr.Code == http.StatusGatewayTimeout:
			return veracity.Reasonf(veracity.ETIMEOUT, veracity.ReasonTimeout,
				"Analysis timed out. Please try again with a shorter article.").Wrap(err)
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "api key") || strings.Contains(msg, "api_key") ||
		strings.Contains(msg, "unauthenticated") || strings.Contains(msg, "permission_denied"):
		return authFailed(err)
	case strings.Contains(msg, "quota") || strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "resource_exhausted"):
		return rateLimited(err)
	}
	return veracity.Errorf(veracity.EINTERNAL, "Analysis failed due to an unexpected error. Please try again later.").Wrap(err)
}

func authFailed(err error) error {
	return veracity.Reasonf(veracity.EMODEL, veracity.ReasonAuthFailed,
		"Gemini API key is missing or invalid. Please check your GEMINI_API_KEY environment variable.").Wrap(err)
}

func rateLimited(err error) error {
	return veracity.Reasonf(veracity.EMODEL, veracity.ReasonRateLimited,
		"Service temporarily unavailable due to high demand. Please try again in a few minutes.").Wrap(err)
}
