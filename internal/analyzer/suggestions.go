package analyzer

import (
	"regexp"
	"strings"

	"github.com/yoockh/resumeats/internal/models"
)

const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"

	CategoryKeywords   = "keywords"
	CategoryContent    = "content"
	CategoryFormatting = "formatting"

	minActionVerbs  = 10
	minResumeWords  = 200
	maxResumeWords  = 800
	suggestKeywords = 5
)

var reQuantified = regexp.MustCompile(`(?i)\d+%|\$\d+|\d+\+|\d+\s*(years?|months?)`)

// Suggestions applies the rules in a fixed order; each adds at most one entry.
func Suggestions(resumeText string, ka KeywordAnalysis) []models.Suggestion {
	out := []models.Suggestion{}

	if len(ka.MissingKeywords) > 0 {
		n := min(len(ka.MissingKeywords), suggestKeywords)
		words := make([]string, 0, n)
		for _, kw := range ka.MissingKeywords[:n] {
			words = append(words, kw.Keyword)
		}
		out = append(out, models.Suggestion{
			Text:     "Add missing keywords: " + strings.Join(words, ", "),
			Category: CategoryKeywords,
			Priority: PriorityHigh,
		})
	}

	if ka.ActionVerbCount < minActionVerbs {
		out = append(out, models.Suggestion{
			Text:     `Use more action verbs like "developed", "implemented", "optimized", "delivered" to make your resume more dynamic`,
			Category: CategoryContent,
			Priority: PriorityMedium,
		})
	}

	if !HasQuantifiedAchievement(resumeText) {
		out = append(out, models.Suggestion{
			Text:     `Add quantified achievements with specific numbers, percentages, and metrics (e.g., "increased performance by 25%")`,
			Category: CategoryContent,
			Priority: PriorityHigh,
		})
	}

	switch wc := WordCount(resumeText); {
	case wc < minResumeWords:
		out = append(out, models.Suggestion{
			Text:     "Expand your resume by adding more details about your responsibilities and achievements",
			Category: CategoryFormatting,
			Priority: PriorityMedium,
		})
	case wc > maxResumeWords:
		out = append(out, models.Suggestion{
			Text:     "Condense your resume by removing less relevant information to keep it concise",
			Category: CategoryFormatting,
			Priority: PriorityMedium,
		})
	}

	return out
}

func HasQuantifiedAchievement(text string) bool {
	return reQuantified.MatchString(text)
}
