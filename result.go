package veracity

import (
	"math"
	"strings"
)

// Verdict is an authenticity tier label.
type Verdict string

// Authenticity tiers, from most to least trustworthy.
const (
	VerdictHighlyAuthentic    Verdict = "Highly Authentic"
	VerdictMostlyAuthentic    Verdict = "Mostly Authentic"
	VerdictPartiallyAuthentic Verdict = "Partially Authentic"
	VerdictLikelyMisleading   Verdict = "Likely Misleading"
	VerdictHighlyMisleading   Verdict = "Highly Misleading"
	VerdictUnverified         Verdict = "Unverified"
)

// Tier is a verdict together with its confidence band (inclusive).
type Tier struct {
	Verdict     Verdict
	Min         int
	Max         int
	Description string
}

// Tiers lists the authenticity scale in descending order of confidence.
var Tiers = []Tier{
	{VerdictHighlyAuthentic, 90, 100, "Well-sourced, verified facts, reputable publication, balanced reporting"},
	{VerdictMostlyAuthentic, 70, 89, "Generally accurate with minor issues or unverified details"},
	{VerdictPartiallyAuthentic, 50, 69, "Mix of accurate and questionable information"},
	{VerdictLikelyMisleading, 30, 49, "Significant inaccuracies, poor sourcing, or biased presentation"},
	{VerdictHighlyMisleading, 10, 29, "Mostly false information or deliberately deceptive"},
	{VerdictUnverified, 0, 9, "Insufficient information to make a determination"},
}

// TierFor returns the tier whose band contains confidence.
// Values outside [0,100] return false.
func TierFor(confidence float64) (Tier, bool) {
	if math.IsNaN(confidence) || confidence < 0 || confidence > 100 {
		return Tier{}, false
	}
	for _, t := range Tiers {
		if confidence >= float64(t.Min) {
			return t, true
		}
	}
	return Tier{}, false
}

// ClaimStatus is the verification status of a single claim.
type ClaimStatus string

// Claim statuses.
const (
	ClaimVerified     ClaimStatus = "verified"
	ClaimContradicted ClaimStatus = "contradicted"
	ClaimUnverified   ClaimStatus = "unverified"
)

// ClaimStatuses lists every valid claim status.
var ClaimStatuses = []ClaimStatus{ClaimVerified, ClaimContradicted, ClaimUnverified}

// Valid reports whether s is one of the defined statuses.
func (s ClaimStatus) Valid() bool {
	switch s {
	case ClaimVerified, ClaimContradicted, ClaimUnverified:
		return true
	}
	return false
}

// Claim is a specific claim from the article and its verification outcome.
type Claim struct {
	Text        string      `json:"text"`
	Status      ClaimStatus `json:"status"`
	Explanation string      `json:"explanation"`
}

// Source is an external reference used during verification.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Result is the structured authenticity verdict for one article.
type Result struct {
	Verdict    string   `json:"verdict"`
	Confidence float64  `json:"confidence"`
	Summary    string   `json:"summary"`
	Claims     []Claim  `json:"claims"`
	Reasoning  string   `json:"reasoning"`
	Sources    []Source `json:"sources"`
}

// Validate returns a schema violation error if the result breaks the declared
// ranges or enums. Nothing is coerced.
func (r *Result) Validate() error {
	if strings.TrimSpace(r.Verdict) == "" {
		return schemaViolation("verdict required")
	}
	if math.IsNaN(r.Confidence) || r.Confidence < 0 || r.Confidence > 100 {
		return schemaViolation("confidence %v outside [0,100]", r.Confidence)
	}
	for i, c := range r.Claims {
		if !c.Status.Valid() {
			return schemaViolation("claims[%d].status %q not one of verified, contradicted, unverified", i, c.Status)
		}
	}
	return nil
}

func schemaViolation(format string, args ...any) error {
	return Reasonf(EMODEL, ReasonSchemaViolation,
		"The analysis service returned an invalid response. Please try again.").
		Wrap(Errorf(EMODEL, format, args...))
}
