package veracity

import (
	"fmt"
	"strings"
)

const promptPreamble = `You are a professional fact-checker and news authenticity analyst with expertise in journalism, media literacy, and information verification. Your role is to provide accurate, evidence-based assessments of news articles.`

const promptFramework = `ANALYSIS FRAMEWORK:

1. CONTENT ASSESSMENT:
   - Identify the main claims, facts, and assertions
   - Distinguish between factual statements and opinions/analysis
   - Check for proper attribution and sourcing within the article
   - Evaluate the logical consistency of the narrative

2. SOURCE CREDIBILITY:
   - Assess the reputation and track record of the publication
   - Consider the author's credentials and expertise
   - Evaluate the publication date and timeliness
   - Check for editorial standards and correction policies

3. FACT VERIFICATION:
   - Cross-reference key claims with authoritative sources
   - Look for corroboration from multiple independent sources
   - Check official statements, government records, or primary sources
   - Verify quotes, statistics, and specific details

4. BIAS AND PRESENTATION:
   - Identify potential bias in language or framing
   - Check for balanced reporting and multiple perspectives
   - Look for sensationalism or misleading headlines
   - Assess whether context is appropriately provided`

const promptGuidelines = `IMPORTANT GUIDELINES:
- Be conservative in your assessments - err on the side of caution
- Consider the difference between "unverified" and "false" - lack of evidence is not proof of falsehood
- Legitimate news sources can have different perspectives while still being authentic
- Focus on factual accuracy rather than political or ideological alignment
- Consider the article's purpose (news reporting vs. opinion vs. analysis)
- Account for the complexity of breaking news where details may still be emerging

For each claim analysis:
- "verified": Confirmed by multiple reliable sources or official records
- "contradicted": Directly refuted by credible evidence
- "unverified": Insufficient evidence available, but not necessarily false

Provide specific, actionable reasoning for your assessment. Include relevant source URLs that support your analysis.`

// BuildPrompt assembles the analysis instructions for article text. The
// source URL line is included only when sourceURL is non-empty. Identical
// inputs always produce identical output.
func BuildPrompt(text, sourceURL string) string {
	var sb strings.Builder
	sb.WriteString(promptPreamble)
	sb.WriteString("\n\n")
	if sourceURL != "" {
		fmt.Fprintf(&sb, "SOURCE URL: %s\n", sourceURL)
	}
	sb.WriteString("\nARTICLE TO ANALYZE:\n")
	sb.WriteString(text)
	sb.WriteString("\n\n")
	sb.WriteString(promptFramework)
	sb.WriteString("\n\nAUTHENTICITY SCALE:\n")
	for _, t := range Tiers {
		fmt.Fprintf(&sb, "- %q (%d-%d%%): %s\n", string(t.Verdict), t.Min, t.Max, t.Description)
	}
	sb.WriteString("\n")
	sb.WriteString(promptGuidelines)
	return sb.String()
}
