package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	FileTypePDF  = "pdf"
	FileTypeTXT  = "txt"
	FileTypeDOCX = "docx"
)

func ValidFileType(t string) bool {
	switch t {
	case FileTypePDF, FileTypeTXT, FileTypeDOCX:
		return true
	}
	return false
}

// AnalysisSource records which path produced the keyword metrics.
type AnalysisSource string

const (
	SourceAI        AnalysisSource = "ai"
	SourceHeuristic AnalysisSource = "heuristic"
)

type MatchedKeyword struct {
	Keyword   string  `bson:"keyword" json:"keyword"`
	Category  string  `bson:"category" json:"category"`
	Relevance float64 `bson:"relevance" json:"relevance"`
}

type MissingKeyword struct {
	Keyword    string  `bson:"keyword" json:"keyword"`
	Category   string  `bson:"category" json:"category"`
	Importance float64 `bson:"importance" json:"importance"`
}

type Suggestion struct {
	Text     string `bson:"text" json:"text"`
	Category string `bson:"category" json:"category"`
	Priority string `bson:"priority" json:"priority"` // high|medium|low
}

// Analysis is one scored resume/job-description comparison. It is never
// mutated after insert.
type Analysis struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID string             `bson:"user_id" json:"user"`

	ResumeText     string `bson:"resume_text,omitempty" json:"resumeText,omitempty"`
	JobDescription string `bson:"job_description,omitempty" json:"jobDescription,omitempty"`
	FileName       string `bson:"file_name" json:"fileName"`
	FileType       string `bson:"file_type" json:"fileType"`

	ATSScore             int              `bson:"ats_score" json:"atsScore"`
	MatchedKeywords      []MatchedKeyword `bson:"matched_keywords" json:"matchedKeywords"`
	MissingKeywords      []MissingKeyword `bson:"missing_keywords" json:"missingKeywords"`
	Suggestions          []Suggestion     `bson:"suggestions" json:"suggestions"`
	ReadabilityScore     int              `bson:"readability_score" json:"readabilityScore"`
	ModelConfidence      float64          `bson:"model_confidence" json:"modelConfidence"`
	ImprovementPotential int              `bson:"improvement_potential" json:"improvementPotential"`
	KeywordMatchRatio    float64          `bson:"keyword_match_ratio" json:"keywordMatchRatio"`
	SkillMatchRatio      float64          `bson:"skill_match_ratio" json:"skillMatchRatio"`
	ActionVerbCount      int              `bson:"action_verb_count" json:"actionVerbCount"`
	Source               AnalysisSource   `bson:"analysis_source" json:"analysisSource"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// AnalysisSummary is the slim projection returned by the recent-analyses stats block.
type AnalysisSummary struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	ATSScore  int                `bson:"ats_score" json:"atsScore"`
	FileName  string             `bson:"file_name" json:"fileName"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

type ScoreBucket struct {
	ID    any `bson:"_id" json:"_id"` // lower bound, or "Other"
	Count int `bson:"count" json:"count"`
}

type AnalysisStats struct {
	TotalAnalyses     int64             `json:"totalAnalyses"`
	AverageScore      int               `json:"averageScore"`
	ScoreDistribution []ScoreBucket     `json:"scoreDistribution"`
	RecentAnalyses    []AnalysisSummary `json:"recentAnalyses"`
}

// Pagination mirrors the paging block of list responses.
type Pagination struct {
	Current int   `json:"current"`
	Pages   int   `json:"pages"`
	Total   int64 `json:"total"`
	HasNext bool  `json:"hasNext"`
	HasPrev bool  `json:"hasPrev"`
}

func NewPagination(page, limit int, total int64) Pagination {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{
		Current: page,
		Pages:   pages,
		Total:   total,
		HasNext: int64(page*limit) < total,
		HasPrev: page > 1,
	}
}

// AnalysisExport is the downloadable snapshot of one analysis.
type AnalysisExport struct {
	FileName             string           `json:"fileName"`
	FileType             string           `json:"fileType"`
	ATSScore             int              `json:"atsScore"`
	MatchedKeywords      []MatchedKeyword `json:"matchedKeywords"`
	MissingKeywords      []MissingKeyword `json:"missingKeywords"`
	Suggestions          []Suggestion     `json:"suggestions"`
	ReadabilityScore     int              `json:"readabilityScore"`
	ModelConfidence      float64          `json:"modelConfidence"`
	ImprovementPotential int              `json:"improvementPotential"`
	CreatedAt            time.Time        `json:"createdAt"`
	ExportedAt           time.Time        `json:"exportedAt"`
}

func (a *Analysis) Export(now time.Time) AnalysisExport {
	return AnalysisExport{
		FileName:             a.FileName,
		FileType:             a.FileType,
		ATSScore:             a.ATSScore,
		MatchedKeywords:      a.MatchedKeywords,
		MissingKeywords:      a.MissingKeywords,
		Suggestions:          a.Suggestions,
		ReadabilityScore:     a.ReadabilityScore,
		ModelConfidence:      a.ModelConfidence,
		ImprovementPotential: a.ImprovementPotential,
		CreatedAt:            a.CreatedAt,
		ExportedAt:           now,
	}
}
