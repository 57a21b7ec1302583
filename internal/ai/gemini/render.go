package gemini

import (
	"strconv"
	"strings"

	_ "embed"

	"github.com/fundihub/fundihub/internal/ai"
	"github.com/fundihub/fundihub/internal/marketplace"
)

//go:embed prompt_quote_analysis.md
var quoteAnalysisTemplate string

//go:embed prompt_smart_leads.md
var smartLeadsTemplate string

const (
	noBudgetText  = "Not specified"
	noMessageText = "(no message)"
	noneText      = "none"
)

// Rendering is plain placeholder substitution. strings.Replacer performs a
// single pass over the template, so substituted values are never re-scanned:
// a quote message containing "{{JOB_TITLE}}" stays literal text.

func renderQuoteAnalysisPrompt(input *ai.QuoteAnalysisInput) string {
	var blocks strings.Builder
	for _, quote := range input.Quotes {
		blocks.WriteString(renderQuoteBlock(quote))
		blocks.WriteString("\n")
	}

	return strings.NewReplacer(
		"{{JOB_TITLE}}", input.Job.Title,
		"{{JOB_DESCRIPTION}}", input.Job.Description,
		"{{QUOTE_COUNT}}", strconv.Itoa(len(input.Quotes)),
		"{{QUOTE_BLOCKS}}", blocks.String(),
	).Replace(quoteAnalysisTemplate)
}

func renderQuoteBlock(quote marketplace.QuoteSummary) string {
	message := quote.Message
	if strings.TrimSpace(message) == "" {
		message = noMessageText
	}

	var b strings.Builder
	b.WriteString("Quote " + quote.ID + ":\n")
	b.WriteString("- Amount: " + quote.Currency + " " + formatNumber(quote.Amount) + "\n")
	b.WriteString("- Provider: " + quote.Provider.BusinessName +
		" (rating " + formatNumber(quote.Provider.Rating) + "/5 from " +
		strconv.Itoa(quote.Provider.ReviewCount) + " reviews, " +
		strconv.Itoa(quote.Provider.YearsExperience) + " years of experience)\n")
	b.WriteString("- Message: " + message + "\n")
	return b.String()
}

func renderSmartLeadsPrompt(input *ai.SmartLeadsInput) string {
	var blocks strings.Builder
	for _, job := range input.Jobs {
		blocks.WriteString(renderJobBlock(job))
		blocks.WriteString("\n")
	}

	bio := input.Profile.Bio
	if strings.TrimSpace(bio) == "" {
		bio = noneText
	}

	return strings.NewReplacer(
		"{{BUSINESS_NAME}}", input.Profile.BusinessName,
		"{{CATEGORY}}", input.Profile.Category,
		"{{SPECIALTIES}}", joinOrNone(input.Profile.Specialties),
		"{{SKILLS}}", joinOrNone(input.Profile.Skills),
		"{{LOCATION}}", input.Profile.Location,
		"{{BIO}}", bio,
		"{{MAX_RECOMMENDATIONS}}", strconv.Itoa(maxLeadRecommendations),
		"{{JOB_BLOCKS}}", blocks.String(),
	).Replace(smartLeadsTemplate)
}

func renderJobBlock(job marketplace.AvailableJobSummary) string {
	budget := noBudgetText
	if job.Budget != nil {
		budget = formatNumber(*job.Budget)
	}

	var b strings.Builder
	b.WriteString("Job " + job.ID + ": " + job.Title + "\n")
	b.WriteString("- Category: " + job.Category + "\n")
	b.WriteString("- Location: " + job.Location + "\n")
	b.WriteString("- Budget: " + budget + "\n")
	b.WriteString("- Description: " + job.Description + "\n")
	return b.String()
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return noneText
	}
	return strings.Join(values, ", ")
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
