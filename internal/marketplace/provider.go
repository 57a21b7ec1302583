package marketplace

// ProviderProfileSummary is a snapshot of a provider (fundi) profile used as
// the subject of a smart-leads lookup.
type ProviderProfileSummary struct {
	ID           string   `json:"id,omitempty" mapstructure:"id"`
	BusinessName string   `json:"businessName" mapstructure:"businessName"`
	Category     string   `json:"category" mapstructure:"category"`
	Specialties  []string `json:"specialties,omitempty" mapstructure:"specialties"`
	Skills       []string `json:"skills,omitempty" mapstructure:"skills"`
	Location     string   `json:"location" mapstructure:"location"`
	Bio          string   `json:"bio,omitempty" mapstructure:"bio"`
}

// AvailableJobSummary is a snapshot of an open job offered to providers as a
// potential lead. Budget is optional; jobs are frequently posted without one.
type AvailableJobSummary struct {
	ID          string   `json:"id" mapstructure:"id"`
	Title       string   `json:"title" mapstructure:"title"`
	Description string   `json:"description" mapstructure:"description"`
	Category    string   `json:"category" mapstructure:"category"`
	Location    string   `json:"location" mapstructure:"location"`
	Budget      *float64 `json:"budget,omitempty" mapstructure:"budget"`
}

// JobIDs returns the identifiers of the provided jobs in input order.
func JobIDs(jobs []AvailableJobSummary) []string {
	ids := make([]string, 0, len(jobs))
	for _, j := range jobs {
		ids = append(ids, j.ID)
	}
	return ids
}
