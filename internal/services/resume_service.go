package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/yoockh/resumeats/internal/analyzer"
	"github.com/yoockh/resumeats/internal/models"
	mongorepo "github.com/yoockh/resumeats/internal/repositories/mongo"
	"github.com/yoockh/resumeats/internal/utils"
)

type CreateResumeInput struct {
	Title          string
	Content        string
	JobDescription string
}

type ResumeService interface {
	Create(ctx context.Context, userID string, in CreateResumeInput) (*models.Resume, error)
	List(ctx context.Context, userID string) ([]models.Resume, error)
	Get(ctx context.Context, userID, id string) (*models.Resume, error)
	Update(ctx context.Context, userID, id string, patch models.ResumePatch) (*models.Resume, error)
	Delete(ctx context.Context, userID, id string) error
	// Analyze stores a scored or optimization analysis on the resume.
	Analyze(ctx context.Context, userID, id string, kind models.ResumeAnalysisKind) (*models.Resume, error)
	// Optimize stores a model rewrite as optimizedContent. It is a separate
	// write from Analyze; concurrent calls on one resume are last-write-wins.
	Optimize(ctx context.Context, userID, id, focus string) (*models.Resume, error)
}

type resumeService struct {
	repo mongorepo.ResumeRepository
	ai   Assistant
	now  func() time.Time
}

func NewResumeService(repo mongorepo.ResumeRepository, ai Assistant) ResumeService {
	return &resumeService{repo: repo, ai: ai, now: func() time.Time { return time.Now().UTC() }}
}

func (s *resumeService) Create(ctx context.Context, userID string, in CreateResumeInput) (*models.Resume, error) {
	const op = "ResumeService.Create"

	in.Title = strings.TrimSpace(in.Title)
	var v utils.Violations
	if in.Title == "" {
		v.Add("title", "Title is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		v.Add("content", "Content is required")
	}
	if err := v.Err(op); err != nil {
		return nil, err
	}

	now := s.now()
	r := &models.Resume{
		UserID:         userID,
		Title:          in.Title,
		Content:        in.Content,
		JobDescription: in.JobDescription,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create resume", err)
	}
	return r, nil
}

func (s *resumeService) List(ctx context.Context, userID string) ([]models.Resume, error) {
	const op = "ResumeService.List"

	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list resumes", err)
	}
	return rows, nil
}

func (s *resumeService) Get(ctx context.Context, userID, id string) (*models.Resume, error) {
	const op = "ResumeService.Get"

	r, err := s.repo.GetForUser(ctx, id, userID)
	if err != nil {
		return nil, resumeErr(op, "failed to get resume", err)
	}
	return r, nil
}

func (s *resumeService) Update(ctx context.Context, userID, id string, patch models.ResumePatch) (*models.Resume, error) {
	const op = "ResumeService.Update"

	var v utils.Violations
	if patch.Title != nil {
		t := strings.TrimSpace(*patch.Title)
		if t == "" {
			v.Add("title", "Title cannot be empty")
		}
		patch.Title = &t
	}
	if patch.Content != nil && strings.TrimSpace(*patch.Content) == "" {
		v.Add("content", "Content cannot be empty")
	}
	if patch.Analysis != nil {
		if err := patch.Analysis.Validate(); err != nil {
			v.Add("analysis", err.Error())
		}
	}
	if err := v.Err(op); err != nil {
		return nil, err
	}

	r, err := s.repo.Update(ctx, id, userID, patch)
	if err != nil {
		return nil, resumeErr(op, "failed to update resume", err)
	}
	return r, nil
}

func (s *resumeService) Delete(ctx context.Context, userID, id string) error {
	const op = "ResumeService.Delete"

	if err := s.repo.DeleteForUser(ctx, id, userID); err != nil {
		return resumeErr(op, "failed to delete resume", err)
	}
	return nil
}

func (s *resumeService) Analyze(ctx context.Context, userID, id string, kind models.ResumeAnalysisKind) (*models.Resume, error) {
	const op = "ResumeService.Analyze"

	if kind == "" {
		kind = models.ResumeAnalysisScored
	}
	if kind != models.ResumeAnalysisScored && kind != models.ResumeAnalysisOptimization {
		return nil, utils.Validation(op, utils.FieldError{Field: "mode", Message: "Mode must be scored or optimization"})
	}

	r, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(r.JobDescription) == "" {
		return nil, utils.Validation(op, utils.FieldError{Field: "jobDescription", Message: "Job description is required"})
	}

	result := &models.ResumeAnalysis{Kind: kind, AnalyzedAt: s.now()}
	switch kind {
	case models.ResumeAnalysisScored:
		result.Scored = scoreResume(r.Content, r.JobDescription)
	case models.ResumeAnalysisOptimization:
		jobKeywords := analyzer.ExtractKeywords(r.JobDescription, analyzer.DefaultKeywordLimit)
		opt := s.ai.Suggest(ctx, r.Content, r.JobDescription, jobKeywords)
		result.Optimization = &opt
	}

	return s.Update(ctx, userID, id, models.ResumePatch{Analysis: result})
}

func scoreResume(content, jobDescription string) *models.ScoredAnalysis {
	ka := analyzer.Heuristic(content, jobDescription)
	score := analyzer.Score(ka.KeywordMatchRatio, ka.SkillMatchRatio, ka.ActionVerbCount)

	out := &models.ScoredAnalysis{
		ATSScore:             score,
		ImprovementPotential: analyzer.ImprovementPotential(score),
		KeywordMatchRatio:    ka.KeywordMatchRatio,
		SkillMatchRatio:      ka.SkillMatchRatio,
		ActionVerbCount:      ka.ActionVerbCount,
		MatchedKeywords:      make([]string, 0, len(ka.MatchedKeywords)),
		MissingKeywords:      make([]string, 0, len(ka.MissingKeywords)),
		Suggestions:          analyzer.Suggestions(content, ka),
		ReadabilityScore:     analyzer.Readability(content),
		Structure:            analyzer.AnalyzeStructure(content),
	}
	for _, k := range ka.MatchedKeywords {
		out.MatchedKeywords = append(out.MatchedKeywords, k.Keyword)
	}
	for _, k := range ka.MissingKeywords {
		out.MissingKeywords = append(out.MissingKeywords, k.Keyword)
	}
	return out
}

func (s *resumeService) Optimize(ctx context.Context, userID, id, focus string) (*models.Resume, error) {
	r, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(r.JobDescription) == "" {
		return nil, utils.Validation("ResumeService.Optimize", utils.FieldError{Field: "jobDescription", Message: "Job description is required"})
	}

	text, err := s.ai.Optimize(ctx, r.Content, r.JobDescription, focus)
	if err != nil {
		return nil, err
	}
	return s.Update(ctx, userID, id, models.ResumePatch{OptimizedContent: &text})
}

func resumeErr(op, msg string, err error) error {
	if errors.Is(err, utils.ErrNotFound) {
		return utils.E(utils.CodeNotFound, op, "Resume not found", err)
	}
	return utils.E(utils.CodeInternal, op, msg, err)
}
