package marketplace

// JobDetails is a read-only snapshot of a posted job as supplied by the
// job read service. The AI layer never mutates or persists it.
type JobDetails struct {
	ID          string `json:"id,omitempty" mapstructure:"id"`
	Title       string `json:"title" mapstructure:"title"`
	Description string `json:"description" mapstructure:"description"`
}

// ProviderReputation carries the denormalized reputation data attached to a
// quote at the time it was submitted.
type ProviderReputation struct {
	BusinessName    string  `json:"businessName" mapstructure:"businessName"`
	Rating          float64 `json:"rating" mapstructure:"rating"`
	ReviewCount     int     `json:"reviewCount" mapstructure:"reviewCount"`
	YearsExperience int     `json:"yearsExperience" mapstructure:"yearsExperience"`
}

// QuoteSummary is a snapshot of a single quote submitted for a job.
type QuoteSummary struct {
	ID       string             `json:"id" mapstructure:"id"`
	Amount   float64            `json:"amount" mapstructure:"amount"`
	Currency string             `json:"currency" mapstructure:"currency"`
	Message  string             `json:"message,omitempty" mapstructure:"message"`
	Provider ProviderReputation `json:"provider" mapstructure:"provider"`
}

// QuoteIDs returns the identifiers of the provided quotes in input order.
func QuoteIDs(quotes []QuoteSummary) []string {
	ids := make([]string, 0, len(quotes))
	for _, q := range quotes {
		ids = append(ids, q.ID)
	}
	return ids
}
