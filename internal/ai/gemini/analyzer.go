package gemini

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fundihub/fundihub/internal/ai"
	"go.uber.org/zap"
)

// Analyzer implements ai.QuoteAnalyzer on top of Gemini.
type Analyzer struct {
	adapter *adapter
	logger  *zap.Logger
}

// NewAnalyzer creates the quote-analysis flow.
func NewAnalyzer(generator structuredGenerator, logger *zap.Logger, maxLogLength int) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Analyzer{
		adapter: newAdapter(generator, logger, maxLogLength),
		logger:  logger,
	}
}

// AnalyzeJobQuotes validates the input, renders the prompt, invokes the model
// and cross-checks the reply against the input quotes. A best-value decision
// is mandatory, so any empty or malformed model output fails the call with
// ai.ErrEmptyAnalysis instead of returning a partial result.
func (a *Analyzer) AnalyzeJobQuotes(ctx context.Context, input *ai.QuoteAnalysisInput) (*ai.QuoteAnalysis, error) {
	if input == nil {
		return nil, fmt.Errorf("quote analysis input is required")
	}

	if err := validateInput(quoteAnalysisFlow, input); err != nil {
		return nil, err
	}

	prompt := renderQuoteAnalysisPrompt(input)

	raw, ok := a.adapter.invoke(ctx, quoteAnalysisFlow, prompt)
	if !ok {
		return nil, ai.ErrEmptyAnalysis
	}

	var result ai.QuoteAnalysis
	if err := json.Unmarshal(raw, &result); err != nil {
		a.logger.Warn("analysis output did not decode into result type", zap.Error(err))
		return nil, ai.ErrEmptyAnalysis
	}

	if err := checkQuoteCoverage(input, &result); err != nil {
		a.logger.Warn("analysis output does not cover the input quotes", zap.Error(err))
		return nil, ai.ErrEmptyAnalysis
	}

	a.logger.Info("quote analysis completed",
		zap.String("job_title", input.Job.Title),
		zap.Int("quote_count", len(input.Quotes)),
		zap.String("best_value_quote_id", result.BestValueQuoteID),
	)

	return &result, nil
}

// checkQuoteCoverage enforces well-formedness the output schema cannot: the
// pros/cons list must contain exactly one entry per input quote id, and the
// best-value id must name one of the input quotes.
func checkQuoteCoverage(input *ai.QuoteAnalysisInput, result *ai.QuoteAnalysis) error {
	known := make(map[string]bool, len(input.Quotes))
	for _, quote := range input.Quotes {
		known[quote.ID] = false
	}

	if len(result.ProsCons) != len(input.Quotes) {
		return fmt.Errorf("expected %d pros/cons entries, got %d", len(input.Quotes), len(result.ProsCons))
	}

	for _, entry := range result.ProsCons {
		seen, exists := known[entry.QuoteID]
		if !exists {
			return fmt.Errorf("pros/cons references unknown quote id %q", entry.QuoteID)
		}
		if seen {
			return fmt.Errorf("pros/cons references quote id %q twice", entry.QuoteID)
		}
		known[entry.QuoteID] = true
	}

	if _, exists := known[result.BestValueQuoteID]; !exists {
		return fmt.Errorf("best value quote id %q is not an input quote", result.BestValueQuoteID)
	}

	return nil
}
