package gemini

import "google.golang.org/genai"

// maxLeadRecommendations caps the smart-leads result. The cap is enforced by
// the output schema itself: a reply with more entries is non-conformant and
// degrades to an empty lead list.
const maxLeadRecommendations = 5

var quoteAnalysisInputSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"job": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"id":          {Type: genai.TypeString},
				"title":       {Type: genai.TypeString},
				"description": {Type: genai.TypeString},
			},
			Required: []string{"title", "description"},
		},
		"quotes": {
			Type:     genai.TypeArray,
			MinItems: genai.Ptr(int64(1)),
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"id":       {Type: genai.TypeString},
					"amount":   {Type: genai.TypeNumber, Minimum: genai.Ptr(0.0)},
					"currency": {Type: genai.TypeString},
					"message":  {Type: genai.TypeString},
					"provider": {
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"businessName":    {Type: genai.TypeString},
							"rating":          {Type: genai.TypeNumber, Minimum: genai.Ptr(0.0), Maximum: genai.Ptr(5.0)},
							"reviewCount":     {Type: genai.TypeInteger, Minimum: genai.Ptr(0.0)},
							"yearsExperience": {Type: genai.TypeInteger, Minimum: genai.Ptr(0.0)},
						},
						Required: []string{"businessName"},
					},
				},
				Required: []string{"id", "amount", "currency", "provider"},
			},
		},
	},
	Required: []string{"job", "quotes"},
}

var quoteAnalysisOutputSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"summary": {
			Type:        genai.TypeString,
			Description: "Two-sentence overall comparison of the quotes.",
		},
		"prosCons": {
			Type:        genai.TypeArray,
			Description: "One entry per quote, keyed by the quote id given in the prompt.",
			MinItems:    genai.Ptr(int64(1)),
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"quoteId": {Type: genai.TypeString},
					"pros":    {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
					"cons":    {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
				},
				Required: []string{"quoteId", "pros", "cons"},
			},
		},
		"bestValueQuoteId": {
			Type:        genai.TypeString,
			Description: "Id of the single quote that is the best overall value.",
		},
	},
	Required: []string{"summary", "prosCons", "bestValueQuoteId"},
}

var smartLeadsInputSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"profile": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"id":           {Type: genai.TypeString},
				"businessName": {Type: genai.TypeString},
				"category":     {Type: genai.TypeString},
				"specialties":  {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
				"skills":       {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
				"location":     {Type: genai.TypeString},
				"bio":          {Type: genai.TypeString},
			},
			Required: []string{"businessName", "category", "location"},
		},
		"jobs": {
			Type: genai.TypeArray,
			// A provider with no open jobs to rank is a valid request.
			Nullable: genai.Ptr(true),
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"id":          {Type: genai.TypeString},
					"title":       {Type: genai.TypeString},
					"description": {Type: genai.TypeString},
					"category":    {Type: genai.TypeString},
					"location":    {Type: genai.TypeString},
					"budget":      {Type: genai.TypeNumber, Minimum: genai.Ptr(0.0)},
				},
				Required: []string{"id", "title", "description", "category", "location"},
			},
		},
	},
	Required: []string{"profile", "jobs"},
}

var smartLeadsOutputSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"recommendations": {
			Type:     genai.TypeArray,
			MaxItems: genai.Ptr(int64(maxLeadRecommendations)),
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"jobId": {Type: genai.TypeString},
					"reason": {
						Type:        genai.TypeString,
						Description: "One or two sentences on why the job fits this provider.",
					},
					"confidence": {
						Type:        genai.TypeNumber,
						Description: "Match confidence from 0 to 100.",
						Minimum:     genai.Ptr(0.0),
						Maximum:     genai.Ptr(100.0),
					},
				},
				Required: []string{"jobId", "reason", "confidence"},
			},
		},
	},
	Required: []string{"recommendations"},
}
