package gemini

import (
	"encoding/json"
	"fmt"

	"github.com/fundihub/fundihub/internal/ai/schema"
	"google.golang.org/genai"
)

// flowSpec names a flow and pairs its input and output schemas. Both flow
// specs are constructed once at package init and never mutated, so they are
// safe to share across concurrent invocations.
type flowSpec struct {
	name   string
	input  *genai.Schema
	output *genai.Schema
}

var (
	quoteAnalysisFlow = flowSpec{
		name:   "quote_analysis",
		input:  quoteAnalysisInputSchema,
		output: quoteAnalysisOutputSchema,
	}

	smartLeadsFlow = flowSpec{
		name:   "smart_leads",
		input:  smartLeadsInputSchema,
		output: smartLeadsOutputSchema,
	}
)

// validateInput checks the caller-supplied payload against the flow's input
// schema. Static typing alone is not trusted: the payload is round-tripped
// through JSON and validated field by field, so a malformed snapshot is
// rejected before any external call is made.
func validateInput(flow flowSpec, input any) error {
	raw, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("%s: encode input: %w", flow.name, err)
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return fmt.Errorf("%s: decode input: %w", flow.name, err)
	}

	if err := schema.Validate(flow.input, value); err != nil {
		return fmt.Errorf("%s: invalid input: %w", flow.name, err)
	}

	return nil
}
