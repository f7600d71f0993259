// Package analyzer holds the deterministic resume heuristics. Nothing in
// here performs I/O.
package analyzer

import (
	"strings"
	"unicode/utf8"

	"github.com/yoockh/resumeats/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	maxKeywords     = 10
	minKeywordRunes = 3
	skillMultiplier = 1.2

	heuristicCategory   = "general"
	heuristicRelevance  = 1.0
	heuristicImportance = 0.5
)

var actionVerbs = map[string]struct{}{
	"developed":   {},
	"implemented": {},
	"managed":     {},
	"led":         {},
	"designed":    {},
	"built":       {},
	"optimized":   {},
	"improved":    {},
	"delivered":   {},
	"created":     {},
}

// KeywordAnalysis is the keyword/ratio half of an analysis, produced either by
// the model or by Heuristic.
type KeywordAnalysis struct {
	MatchedKeywords   []models.MatchedKeyword
	MissingKeywords   []models.MissingKeyword
	Skills            []string
	Technologies      []string
	ActionVerbs       []string
	KeywordMatchRatio float64
	SkillMatchRatio   float64
	ActionVerbCount   int
}

// Lower folds text with Unicode rules. A Caser is stateful, so one is built per call.
func Lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// Tokenize splits on whitespace after lower-casing. Punctuation stays attached.
func Tokenize(s string) []string {
	return strings.Fields(Lower(s))
}

// Heuristic compares the two texts token by token.
func Heuristic(resume, jobDescription string) KeywordAnalysis {
	resumeTokens := Tokenize(resume)
	jobTokens := Tokenize(jobDescription)

	resumeSet := toSet(resumeTokens)
	jobSet := toSet(jobTokens)

	var common []string
	seen := make(map[string]struct{})
	for _, tok := range resumeTokens {
		if _, ok := jobSet[tok]; !ok {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		common = append(common, tok)
	}

	var absent []string
	seen = make(map[string]struct{})
	for _, tok := range jobTokens {
		if _, ok := resumeSet[tok]; ok {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		absent = append(absent, tok)
	}

	ratio := 0.0
	if len(jobTokens) > 0 {
		ratio = float64(len(common)) / float64(len(jobTokens))
	}

	out := KeywordAnalysis{
		MatchedKeywords:   []models.MatchedKeyword{},
		MissingKeywords:   []models.MissingKeyword{},
		KeywordMatchRatio: ratio,
		SkillMatchRatio:   SkillRatio(ratio),
		ActionVerbCount:   CountActionVerbs(resumeTokens),
	}
	for _, kw := range keywordList(common) {
		out.MatchedKeywords = append(out.MatchedKeywords, models.MatchedKeyword{
			Keyword: kw, Category: heuristicCategory, Relevance: heuristicRelevance,
		})
	}
	for _, kw := range keywordList(absent) {
		out.MissingKeywords = append(out.MissingKeywords, models.MissingKeyword{
			Keyword: kw, Category: heuristicCategory, Importance: heuristicImportance,
		})
	}
	return out
}

// SkillRatio scales the keyword ratio and caps it at 1.
func SkillRatio(keywordRatio float64) float64 {
	r := keywordRatio * skillMultiplier
	if r > 1 {
		return 1
	}
	return r
}

func CountActionVerbs(tokens []string) int {
	n := 0
	for _, tok := range tokens {
		if _, ok := actionVerbs[tok]; ok {
			n++
		}
	}
	return n
}

func keywordList(tokens []string) []string {
	out := make([]string, 0, maxKeywords)
	for _, tok := range tokens {
		if utf8.RuneCountInString(tok) < minKeywordRunes {
			continue
		}
		out = append(out, tok)
		if len(out) == maxKeywords {
			break
		}
	}
	return out
}

func toSet(tokens []string) map[string]struct{} {
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}
