package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Resume struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID string             `bson:"user_id" json:"userId"`

	Title            string          `bson:"title" json:"title"`
	Content          string          `bson:"content" json:"content"`
	JobDescription   string          `bson:"job_description,omitempty" json:"jobDescription,omitempty"`
	Analysis         *ResumeAnalysis `bson:"analysis,omitempty" json:"analysis,omitempty"`
	OptimizedContent string          `bson:"optimized_content,omitempty" json:"optimizedContent,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// ResumePatch lists the fields an update touches; nil fields are left alone.
type ResumePatch struct {
	Title            *string
	Content          *string
	JobDescription   *string
	Analysis         *ResumeAnalysis
	OptimizedContent *string
}

type ResumeAnalysisKind string

const (
	ResumeAnalysisScored       ResumeAnalysisKind = "scored"
	ResumeAnalysisOptimization ResumeAnalysisKind = "optimization"
)

// ResumeAnalysis holds exactly one payload, selected by Kind.
type ResumeAnalysis struct {
	Kind         ResumeAnalysisKind    `bson:"kind" json:"kind"`
	Scored       *ScoredAnalysis       `bson:"scored,omitempty" json:"scored,omitempty"`
	Optimization *OptimizationAnalysis `bson:"optimization,omitempty" json:"optimization,omitempty"`
	AnalyzedAt   time.Time             `bson:"analyzed_at" json:"analyzedAt"`
}

var ErrResumeAnalysisShape = errors.New("resume analysis payload does not match its kind")

func (a *ResumeAnalysis) Validate() error {
	if a == nil {
		return nil
	}
	switch a.Kind {
	case ResumeAnalysisScored:
		if a.Scored == nil || a.Optimization != nil {
			return ErrResumeAnalysisShape
		}
	case ResumeAnalysisOptimization:
		if a.Optimization == nil || a.Scored != nil {
			return ErrResumeAnalysisShape
		}
	default:
		return ErrResumeAnalysisShape
	}
	return nil
}

type SectionPresence struct {
	Contact    bool `bson:"contact" json:"contact"`
	Summary    bool `bson:"summary" json:"summary"`
	Experience bool `bson:"experience" json:"experience"`
	Education  bool `bson:"education" json:"education"`
	Skills     bool `bson:"skills" json:"skills"`
}

type ResumeStructure struct {
	Sections       SectionPresence `bson:"sections" json:"sections"`
	WordCount      int             `bson:"word_count" json:"wordCount"`
	HasNumbers     bool            `bson:"has_numbers" json:"hasNumbers"`
	HasActionVerbs bool            `bson:"has_action_verbs" json:"hasActionVerbs"`
	Completeness   float64         `bson:"completeness" json:"completeness"`
}

type ScoredAnalysis struct {
	ATSScore             int             `bson:"ats_score" json:"atsScore"`
	ImprovementPotential int             `bson:"improvement_potential" json:"improvementPotential"`
	KeywordMatchRatio    float64         `bson:"keyword_match_ratio" json:"keywordMatchRatio"`
	SkillMatchRatio      float64         `bson:"skill_match_ratio" json:"skillMatchRatio"`
	ActionVerbCount      int             `bson:"action_verb_count" json:"actionVerbCount"`
	MatchedKeywords      []string        `bson:"matched_keywords" json:"matchedKeywords"`
	MissingKeywords      []string        `bson:"missing_keywords" json:"missingKeywords"`
	Suggestions          []Suggestion    `bson:"suggestions" json:"suggestions"`
	ReadabilityScore     int             `bson:"readability_score" json:"readabilityScore"`
	Structure            ResumeStructure `bson:"structure" json:"structure"`
}

type SectionImprovements struct {
	Summary    string `bson:"summary" json:"summary"`
	Experience string `bson:"experience" json:"experience"`
	Skills     string `bson:"skills" json:"skills"`
	Education  string `bson:"education" json:"education"`
}

// OptimizationAnalysis is the free-form improvement advice produced by the model.
type OptimizationAnalysis struct {
	MissingKeywords     []string            `bson:"missing_keywords" json:"missingKeywords"`
	SkillsToEmphasize   []string            `bson:"skills_to_emphasize" json:"skillsToEmphasize"`
	ExperienceGaps      []string            `bson:"experience_gaps" json:"experienceGaps"`
	SectionImprovements SectionImprovements `bson:"section_improvements" json:"sectionImprovements"`
	ATSOptimization     string              `bson:"ats_optimization" json:"atsOptimization"`
	OverallScore        int                 `bson:"overall_score" json:"overallScore"`
	Source              AnalysisSource      `bson:"source" json:"source"`
}
