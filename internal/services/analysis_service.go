package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yoockh/resumeats/internal/analyzer"
	"github.com/yoockh/resumeats/internal/cache"
	"github.com/yoockh/resumeats/internal/models"
	mongorepo "github.com/yoockh/resumeats/internal/repositories/mongo"
	"github.com/yoockh/resumeats/internal/utils"
)

const (
	recentAnalysesLimit = 20
	defaultPageSize     = 10
	maxPageSize         = 100
	maxPage             = 1 << 20

	confidenceAI        = 95.0
	confidenceHeuristic = 70.0
)

type AnalyzeInput struct {
	ResumeText     string
	JobDescription string
	FileName       string
	FileType       string
}

type AnalysisService interface {
	Analyze(ctx context.Context, userID string, in AnalyzeInput) (*models.Analysis, error)
	Recent(ctx context.Context, userID string) ([]models.Analysis, error)
	List(ctx context.Context, userID string, page, limit int) ([]models.Analysis, models.Pagination, error)
	Get(ctx context.Context, userID, id string) (*models.Analysis, error)
	Delete(ctx context.Context, userID, id string) error
	Stats(ctx context.Context, userID string) (*models.AnalysisStats, error)
	Export(ctx context.Context, userID, id string) (*models.AnalysisExport, error)
}

type analysisService struct {
	repo     mongorepo.AnalysisRepository
	ai       Assistant
	cache    cache.Cache
	statsTTL time.Duration
	log      *logrus.Logger
	now      func() time.Time
}

func NewAnalysisService(repo mongorepo.AnalysisRepository, ai Assistant, c cache.Cache, statsTTL time.Duration, log *logrus.Logger) AnalysisService {
	if c == nil {
		c = cache.Noop{}
	}
	if log == nil {
		log = logrus.New()
	}
	return &analysisService{
		repo:     repo,
		ai:       ai,
		cache:    c,
		statsTTL: statsTTL,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *analysisService) Analyze(ctx context.Context, userID string, in AnalyzeInput) (*models.Analysis, error) {
	const op = "AnalysisService.Analyze"

	var v utils.Violations
	if strings.TrimSpace(in.ResumeText) == "" {
		v.Add("resumeText", "Resume text is required")
	}
	if strings.TrimSpace(in.JobDescription) == "" {
		v.Add("jobDescription", "Job description is required")
	}
	if strings.TrimSpace(in.FileName) == "" {
		v.Add("fileName", "File name is required")
	}
	if !models.ValidFileType(in.FileType) {
		v.Add("fileType", "File type must be pdf, docx, or txt")
	}
	if err := v.Err(op); err != nil {
		return nil, err
	}

	outcome := s.ai.Analyze(ctx, in.ResumeText, in.JobDescription)
	ka := outcome.Analysis()
	score := analyzer.Score(ka.KeywordMatchRatio, ka.SkillMatchRatio, ka.ActionVerbCount)

	a := &models.Analysis{
		UserID:               userID,
		ResumeText:           in.ResumeText,
		JobDescription:       in.JobDescription,
		FileName:             in.FileName,
		FileType:             in.FileType,
		ATSScore:             score,
		MatchedKeywords:      ka.MatchedKeywords,
		MissingKeywords:      ka.MissingKeywords,
		Suggestions:          analyzer.Suggestions(in.ResumeText, ka),
		ReadabilityScore:     analyzer.Readability(in.ResumeText),
		ModelConfidence:      modelConfidence(outcome.Source()),
		ImprovementPotential: analyzer.ImprovementPotential(score),
		KeywordMatchRatio:    ka.KeywordMatchRatio,
		SkillMatchRatio:      ka.SkillMatchRatio,
		ActionVerbCount:      ka.ActionVerbCount,
		Source:               outcome.Source(),
		CreatedAt:            s.now(),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to save analysis", err)
	}
	s.invalidateStats(ctx, userID)
	return a, nil
}

func modelConfidence(src models.AnalysisSource) float64 {
	if src == models.SourceAI {
		return confidenceAI
	}
	return confidenceHeuristic
}

func (s *analysisService) Recent(ctx context.Context, userID string) ([]models.Analysis, error) {
	const op = "AnalysisService.Recent"

	rows, err := s.repo.ListByUser(ctx, userID, 0, recentAnalysesLimit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list analyses", err)
	}
	return rows, nil
}

func (s *analysisService) List(ctx context.Context, userID string, page, limit int) ([]models.Analysis, models.Pagination, error) {
	const op = "AnalysisService.List"

	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	rows, err := s.repo.ListByUser(ctx, userID, int64(page-1)*int64(limit), int64(limit))
	if err != nil {
		return nil, models.Pagination{}, utils.E(utils.CodeInternal, op, "failed to list analyses", err)
	}
	total, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, models.Pagination{}, utils.E(utils.CodeInternal, op, "failed to count analyses", err)
	}
	return rows, models.NewPagination(page, limit, total), nil
}

func (s *analysisService) Get(ctx context.Context, userID, id string) (*models.Analysis, error) {
	const op = "AnalysisService.Get"

	a, err := s.repo.GetForUser(ctx, id, userID)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeNotFound, op, "Analysis not found", err)
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to get analysis", err)
	}
	return a, nil
}

func (s *analysisService) Delete(ctx context.Context, userID, id string) error {
	const op = "AnalysisService.Delete"

	err := s.repo.DeleteForUser(ctx, id, userID)
	if errors.Is(err, utils.ErrNotFound) {
		return utils.E(utils.CodeNotFound, op, "Analysis not found", err)
	}
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to delete analysis", err)
	}
	s.invalidateStats(ctx, userID)
	return nil
}

func (s *analysisService) Stats(ctx context.Context, userID string) (*models.AnalysisStats, error) {
	const op = "AnalysisService.Stats"

	key := cache.StatsKey(userID)
	var cached models.AnalysisStats
	hit, err := s.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("stats cache read failed")
	}
	if hit {
		return &cached, nil
	}

	st, err := s.repo.Stats(ctx, userID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to compute stats", err)
	}
	if err := s.cache.SetJSON(ctx, key, st, s.statsTTL); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("stats cache write failed")
	}
	return st, nil
}

func (s *analysisService) Export(ctx context.Context, userID, id string) (*models.AnalysisExport, error) {
	a, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	exp := a.Export(s.now())
	return &exp, nil
}

func (s *analysisService) invalidateStats(ctx context.Context, userID string) {
	if err := s.cache.Del(ctx, cache.StatsKey(userID)); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("stats cache invalidation failed")
	}
}
