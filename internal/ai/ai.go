// Package ai defines the inputs, outputs and contracts of the marketplace AI
// flows. Implementations live in subpackages, one per model provider.
package ai

import (
	"context"
	"errors"

	"github.com/fundihub/fundihub/internal/marketplace"
)

// ErrEmptyAnalysis reports that the quote analysis flow obtained no usable
// model output. Unlike smart leads, quote analysis has no meaningful empty
// result, so the flow fails instead of degrading.
var ErrEmptyAnalysis = errors.New("quote analysis produced no output")

// QuoteAnalysisInput is everything the quote analysis flow needs: the job
// being quoted and the quotes submitted for it.
type QuoteAnalysisInput struct {
	Job    marketplace.JobDetails     `json:"job" mapstructure:"job"`
	Quotes []marketplace.QuoteSummary `json:"quotes" mapstructure:"quotes"`
}

// QuoteProsCons lists the strengths and weaknesses of a single quote.
type QuoteProsCons struct {
	QuoteID string   `json:"quoteId" mapstructure:"quoteId"`
	Pros    []string `json:"pros" mapstructure:"pros"`
	Cons    []string `json:"cons" mapstructure:"cons"`
}

// QuoteAnalysis is the structured result of comparing all quotes on a job.
// ProsCons carries exactly one entry per input quote, and BestValueQuoteID
// names one of the input quotes.
type QuoteAnalysis struct {
	Summary          string          `json:"summary" mapstructure:"summary"`
	ProsCons         []QuoteProsCons `json:"prosCons" mapstructure:"prosCons"`
	BestValueQuoteID string          `json:"bestValueQuoteId" mapstructure:"bestValueQuoteId"`
}

// SmartLeadsInput pairs a provider profile with the open jobs to rank for it.
type SmartLeadsInput struct {
	Profile marketplace.ProviderProfileSummary `json:"profile" mapstructure:"profile"`
	Jobs    []marketplace.AvailableJobSummary  `json:"jobs" mapstructure:"jobs"`
}

// LeadRecommendation is a single ranked job suggestion for a provider.
// Confidence is a 0-100 match score.
type LeadRecommendation struct {
	JobID      string  `json:"jobId" mapstructure:"jobId"`
	Reason     string  `json:"reason" mapstructure:"reason"`
	Confidence float64 `json:"confidence" mapstructure:"confidence"`
}

// QuoteAnalyzer compares the quotes on a job and picks the best value.
type QuoteAnalyzer interface {
	AnalyzeJobQuotes(ctx context.Context, input *QuoteAnalysisInput) (*QuoteAnalysis, error)
}

// LeadFinder ranks open jobs for a provider. An empty slice is a valid
// result: it means no job was a confident match.
type LeadFinder interface {
	FindSmartLeads(ctx context.Context, input *SmartLeadsInput) ([]LeadRecommendation, error)
}
