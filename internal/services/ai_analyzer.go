package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yoockh/resumeats/internal/analyzer"
	"github.com/yoockh/resumeats/internal/models"
	"github.com/yoockh/resumeats/internal/providers/llm"
	"github.com/yoockh/resumeats/internal/utils"
)

const (
	DefaultAITimeout = 30 * time.Second

	aiTemperature       = 0.3
	aiMaxTokens         = 2000
	aiOptimizeMaxTokens = 3000

	fallbackOverallScore = 75
	fallbackKeywordLimit = 10
)

var errNoProvider = errors.New("no llm provider configured")

// Outcome is the result of a keyword analysis. It is either an *AIOutcome or a
// *HeuristicOutcome.
type Outcome interface {
	Analysis() analyzer.KeywordAnalysis
	Source() models.AnalysisSource
	outcome()
}

type AIOutcome struct {
	Result analyzer.KeywordAnalysis
}

func (o *AIOutcome) Analysis() analyzer.KeywordAnalysis { return o.Result }
func (o *AIOutcome) Source() models.AnalysisSource     { return models.SourceAI }
func (*AIOutcome) outcome()                             {}

// HeuristicOutcome carries the reason the model result was not used.
type HeuristicOutcome struct {
	Result analyzer.KeywordAnalysis
	Reason error
}

func (o *HeuristicOutcome) Analysis() analyzer.KeywordAnalysis { return o.Result }
func (o *HeuristicOutcome) Source() models.AnalysisSource     { return models.SourceHeuristic }
func (*HeuristicOutcome) outcome()                             {}

// Assistant is the model-backed half of the analysis pipeline.
type Assistant interface {
	// Analyze never fails; model errors degrade to the heuristic.
	Analyze(ctx context.Context, resumeText, jobDescription string) Outcome
	Suggest(ctx context.Context, resumeText, jobDescription string, jobKeywords []string) models.OptimizationAnalysis
	Optimize(ctx context.Context, resumeText, jobDescription, focus string) (string, error)
}

type AIAnalyzer struct {
	provider llm.Provider
	timeout  time.Duration
	log      *logrus.Logger
}

// NewAIAnalyzer accepts a nil provider; every call then takes the fallback path.
// A non-positive timeout is replaced by DefaultAITimeout.
func NewAIAnalyzer(provider llm.Provider, timeout time.Duration, log *logrus.Logger) *AIAnalyzer {
	if log == nil {
		log = logrus.New()
	}
	if timeout <= 0 {
		timeout = DefaultAITimeout
	}
	return &AIAnalyzer{provider: provider, timeout: timeout, log: log}
}

const analyzePrompt = `Analyze the following resume and job description to extract keywords, skills, and other relevant information.

Resume Text:
%s

Job Description:
%s

Please provide a JSON response with the following structure:
{
  "matchedKeywords": [
    {"keyword": "React", "category": "technology", "relevance": 0.9}
  ],
  "missingKeywords": [
    {"keyword": "MongoDB", "category": "technology", "importance": 0.7}
  ],
  "skills": ["React", "JavaScript"],
  "technologies": ["React", "Node.js"],
  "actionVerbs": ["developed", "implemented"],
  "keywordMatchRatio": 0.65,
  "skillMatchRatio": 0.7,
  "actionVerbCount": 15
}

Focus on:
1. Technical skills and technologies
2. Soft skills and competencies
3. Industry-specific terms
4. Action verbs and achievements
5. Education and certifications
6. Experience levels and years

Return only valid JSON without any additional text.`

func (a *AIAnalyzer) Analyze(ctx context.Context, resumeText, jobDescription string) Outcome {
	res, err := a.analyzeWithModel(ctx, resumeText, jobDescription)
	if err == nil {
		return &AIOutcome{Result: res}
	}
	if !errors.Is(err, errNoProvider) {
		a.log.WithError(err).Warn("ai analysis failed, using heuristic")
	}
	return &HeuristicOutcome{Result: analyzer.Heuristic(resumeText, jobDescription), Reason: err}
}

func (a *AIAnalyzer) analyzeWithModel(ctx context.Context, resumeText, jobDescription string) (analyzer.KeywordAnalysis, error) {
	raw, err := a.complete(ctx, llm.Request{
		Prompt:      fmt.Sprintf(analyzePrompt, resumeText, jobDescription),
		Temperature: aiTemperature,
		MaxTokens:   aiMaxTokens,
		JSON:        true,
	})
	if err != nil {
		return analyzer.KeywordAnalysis{}, err
	}

	var resp keywordResponse
	if err := json.Unmarshal([]byte(stripFences(raw)), &resp); err != nil {
		return analyzer.KeywordAnalysis{}, fmt.Errorf("decode model response: %w", err)
	}
	return resp.toAnalysis()
}

type modelKeyword struct {
	Keyword    string   `json:"keyword"`
	Category   string   `json:"category"`
	Relevance  *float64 `json:"relevance"`
	Importance *float64 `json:"importance"`
}

// keywordResponse uses pointers so absent fields can be told apart from zero values.
type keywordResponse struct {
	MatchedKeywords   *[]modelKeyword `json:"matchedKeywords"`
	MissingKeywords   *[]modelKeyword `json:"missingKeywords"`
	Skills            []string        `json:"skills"`
	Technologies      []string        `json:"technologies"`
	ActionVerbs       []string        `json:"actionVerbs"`
	KeywordMatchRatio *float64        `json:"keywordMatchRatio"`
	SkillMatchRatio   *float64        `json:"skillMatchRatio"`
	ActionVerbCount   *int            `json:"actionVerbCount"`
}

func (r keywordResponse) toAnalysis() (analyzer.KeywordAnalysis, error) {
	switch {
	case r.MatchedKeywords == nil:
		return analyzer.KeywordAnalysis{}, errors.New("matchedKeywords missing")
	case r.MissingKeywords == nil:
		return analyzer.KeywordAnalysis{}, errors.New("missingKeywords missing")
	case r.KeywordMatchRatio == nil || !unitInterval(*r.KeywordMatchRatio):
		return analyzer.KeywordAnalysis{}, errors.New("keywordMatchRatio missing or outside [0,1]")
	case r.SkillMatchRatio == nil || !unitInterval(*r.SkillMatchRatio):
		return analyzer.KeywordAnalysis{}, errors.New("skillMatchRatio missing or outside [0,1]")
	case r.ActionVerbCount == nil || *r.ActionVerbCount < 0:
		return analyzer.KeywordAnalysis{}, errors.New("actionVerbCount missing or negative")
	}

	out := analyzer.KeywordAnalysis{
		MatchedKeywords:   make([]models.MatchedKeyword, 0, len(*r.MatchedKeywords)),
		MissingKeywords:   make([]models.MissingKeyword, 0, len(*r.MissingKeywords)),
		Skills:            r.Skills,
		Technologies:      r.Technologies,
		ActionVerbs:       r.ActionVerbs,
		KeywordMatchRatio: *r.KeywordMatchRatio,
		SkillMatchRatio:   *r.SkillMatchRatio,
		ActionVerbCount:   *r.ActionVerbCount,
	}
	for _, k := range *r.MatchedKeywords {
		if strings.TrimSpace(k.Keyword) == "" {
			return analyzer.KeywordAnalysis{}, errors.New("empty matched keyword")
		}
		out.MatchedKeywords = append(out.MatchedKeywords, models.MatchedKeyword{
			Keyword:   k.Keyword,
			Category:  k.Category,
			Relevance: clampUnit(k.Relevance),
		})
	}
	for _, k := range *r.MissingKeywords {
		if strings.TrimSpace(k.Keyword) == "" {
			return analyzer.KeywordAnalysis{}, errors.New("empty missing keyword")
		}
		out.MissingKeywords = append(out.MissingKeywords, models.MissingKeyword{
			Keyword:    k.Keyword,
			Category:   k.Category,
			Importance: clampUnit(k.Importance),
		})
	}
	return out, nil
}

const suggestSystem = "You are an expert resume optimization specialist. Provide detailed, actionable suggestions for improving resumes to match job requirements."

const suggestPrompt = `Analyze this resume and job description to provide optimization suggestions:

RESUME:
%s

JOB DESCRIPTION:
%s

Please provide:
1. Missing keywords that should be added
2. Skills that should be emphasized
3. Experience gaps to address
4. Suggested improvements for each section
5. ATS optimization recommendations

Format your response as JSON with the following structure:
{
  "missingKeywords": ["keyword1", "keyword2"],
  "skillsToEmphasize": ["skill1", "skill2"],
  "experienceGaps": ["gap1", "gap2"],
  "sectionImprovements": {
    "summary": "suggestion",
    "experience": "suggestion",
    "skills": "suggestion",
    "education": "suggestion"
  },
  "atsOptimization": "suggestion",
  "overallScore": 85
}`

func (a *AIAnalyzer) Suggest(ctx context.Context, resumeText, jobDescription string, jobKeywords []string) models.OptimizationAnalysis {
	raw, err := a.complete(ctx, llm.Request{
		System:      suggestSystem,
		Prompt:      fmt.Sprintf(suggestPrompt, resumeText, jobDescription),
		Temperature: aiTemperature,
		MaxTokens:   aiMaxTokens,
		JSON:        true,
	})
	if err == nil {
		var out models.OptimizationAnalysis
		if err = json.Unmarshal([]byte(stripFences(raw)), &out); err == nil {
			out.Source = models.SourceAI
			out.MissingKeywords = nonNil(out.MissingKeywords)
			out.SkillsToEmphasize = nonNil(out.SkillsToEmphasize)
			out.ExperienceGaps = nonNil(out.ExperienceGaps)
			return out
		}
	}
	if !errors.Is(err, errNoProvider) {
		a.log.WithError(err).Warn("ai suggestions failed, using defaults")
	}
	return fallbackOptimization(jobKeywords)
}

func fallbackOptimization(jobKeywords []string) models.OptimizationAnalysis {
	missing := jobKeywords
	if len(missing) > fallbackKeywordLimit {
		missing = missing[:fallbackKeywordLimit]
	}
	return models.OptimizationAnalysis{
		MissingKeywords:   nonNil(missing),
		SkillsToEmphasize: []string{},
		ExperienceGaps:    []string{},
		SectionImprovements: models.SectionImprovements{
			Summary:    "Consider adding a professional summary highlighting key achievements",
			Experience: "Quantify your achievements with specific metrics",
			Skills:     "Include more technical skills relevant to the job",
			Education:  "Add relevant certifications or courses",
		},
		ATSOptimization: "Ensure consistent formatting and include relevant keywords",
		OverallScore:    fallbackOverallScore,
		Source:          models.SourceHeuristic,
	}
}

const optimizeSystem = "You are a professional resume writer. Optimize resumes to match job requirements while maintaining authenticity and professionalism."

const optimizePrompt = `Optimize this resume to better match the job description:

ORIGINAL RESUME:
%s

JOB DESCRIPTION:
%s

OPTIMIZATION FOCUS: %s

Please provide an optimized version of the resume that:
1. Includes relevant keywords from the job description
2. Emphasizes matching skills and experience
3. Uses action verbs and quantifiable achievements
4. Maintains professional formatting
5. Is ATS-friendly

Return the optimized resume text directly without additional commentary.`

func (a *AIAnalyzer) Optimize(ctx context.Context, resumeText, jobDescription, focus string) (string, error) {
	const op = "AIAnalyzer.Optimize"

	if strings.TrimSpace(focus) == "" {
		focus = "General optimization"
	}
	out, err := a.complete(ctx, llm.Request{
		System:      optimizeSystem,
		Prompt:      fmt.Sprintf(optimizePrompt, resumeText, jobDescription, focus),
		Temperature: aiTemperature,
		MaxTokens:   aiOptimizeMaxTokens,
	})
	if errors.Is(err, errNoProvider) {
		return "", utils.E(utils.CodeUnavailable, op, "AI service is not configured", err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "", utils.E(utils.CodeTimeout, op, "AI service timed out", err)
	}
	if err != nil {
		return "", utils.E(utils.CodeUnavailable, op, "AI service unavailable", err)
	}
	return strings.TrimSpace(out), nil
}

func (a *AIAnalyzer) complete(ctx context.Context, req llm.Request) (string, error) {
	if a.provider == nil {
		return "", errNoProvider
	}
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	out, err := a.provider.Complete(ctx, req)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out) == "" {
		return "", llm.ErrEmptyCompletion
	}
	return out, nil
}

// stripFences removes a surrounding ```json ... ``` block if the model added one.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func unitInterval(f float64) bool { return f >= 0 && f <= 1 }

func clampUnit(f *float64) float64 {
	if f == nil {
		return 0
	}
	return min(1, max(0, *f))
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
