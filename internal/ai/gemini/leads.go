package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/fundihub/fundihub/internal/ai"
	"go.uber.org/zap"
)

// Recommender implements ai.LeadFinder on top of Gemini.
type Recommender struct {
	adapter *adapter
	logger  *zap.Logger
}

// NewRecommender creates the smart-leads flow.
func NewRecommender(generator structuredGenerator, logger *zap.Logger, maxLogLength int) *Recommender {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Recommender{
		adapter: newAdapter(generator, logger, maxLogLength),
		logger:  logger,
	}
}

// FindSmartLeads validates the input, renders the prompt and invokes the
// model. Unlike quote analysis, an empty model output is a legitimate outcome
// here: no leads means no leads, so the flow degrades to an empty slice
// instead of failing.
func (r *Recommender) FindSmartLeads(ctx context.Context, input *ai.SmartLeadsInput) ([]ai.LeadRecommendation, error) {
	if input == nil {
		return nil, fmt.Errorf("smart leads input is required")
	}

	if err := validateInput(smartLeadsFlow, input); err != nil {
		return nil, err
	}

	if len(input.Jobs) == 0 {
		return []ai.LeadRecommendation{}, nil
	}

	prompt := renderSmartLeadsPrompt(input)

	raw, ok := r.adapter.invoke(ctx, smartLeadsFlow, prompt)
	if !ok {
		r.logger.Info("no usable model output, returning no leads",
			zap.String("business_name", input.Profile.BusinessName),
		)
		return []ai.LeadRecommendation{}, nil
	}

	var result struct {
		Recommendations []ai.LeadRecommendation `json:"recommendations"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		r.logger.Warn("leads output did not decode into result type", zap.Error(err))
		return []ai.LeadRecommendation{}, nil
	}

	recommendations := result.Recommendations
	if recommendations == nil {
		recommendations = []ai.LeadRecommendation{}
	}

	// Stable sort keeps the model's ordering for equal confidence, so
	// identical model output always produces identical results.
	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Confidence > recommendations[j].Confidence
	})

	r.logger.Info("smart leads completed",
		zap.String("business_name", input.Profile.BusinessName),
		zap.Int("candidate_jobs", len(input.Jobs)),
		zap.Int("recommendations", len(recommendations)),
	)

	return recommendations, nil
}
