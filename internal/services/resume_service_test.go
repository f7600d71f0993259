package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoockh/resumeats/internal/models"
	"github.com/yoockh/resumeats/internal/utils"
)

func newResumeFixture(ai Assistant) (ResumeService, *models.Resume) {
	svc := NewResumeService(newFakeResumeRepo(), ai)
	r, err := svc.Create(context.Background(), "u1", CreateResumeInput{
		Title:          " Backend CV ",
		Content:        sampleResume,
		JobDescription: sampleJob,
	})
	if err != nil {
		panic(err)
	}
	return svc, r
}

func TestResumeCreateValidation(t *testing.T) {
	svc := NewResumeService(newFakeResumeRepo(), NewAIAnalyzer(nil, time.Second, nil))

	_, err := svc.Create(context.Background(), "u1", CreateResumeInput{})
	var ae *utils.AppError
	require.ErrorAs(t, err, &ae)
	assert.Len(t, ae.Fields, 2)
}

func TestResumeAnalyzeScored(t *testing.T) {
	svc, r := newResumeFixture(NewAIAnalyzer(nil, time.Second, nil))
	assert.Equal(t, "Backend CV", r.Title)

	out, err := svc.Analyze(context.Background(), "u1", r.ID.Hex(), "")
	require.NoError(t, err)

	require.NotNil(t, out.Analysis)
	require.NoError(t, out.Analysis.Validate())
	assert.Equal(t, models.ResumeAnalysisScored, out.Analysis.Kind)
	assert.Nil(t, out.Analysis.Optimization)
	assert.Equal(t, 36, out.Analysis.Scored.ATSScore)
	assert.Contains(t, out.Analysis.Scored.MatchedKeywords, "node.js")
	assert.Equal(t, 18, out.Analysis.Scored.Structure.WordCount)
}

func TestResumeAnalyzeOptimization(t *testing.T) {
	svc, r := newResumeFixture(NewAIAnalyzer(nil, time.Second, nil))

	out, err := svc.Analyze(context.Background(), "u1", r.ID.Hex(), models.ResumeAnalysisOptimization)
	require.NoError(t, err)

	require.NoError(t, out.Analysis.Validate())
	assert.Nil(t, out.Analysis.Scored)
	assert.Equal(t, 75, out.Analysis.Optimization.OverallScore)
	assert.Contains(t, out.Analysis.Optimization.MissingKeywords, "leadership")

	_, err = svc.Analyze(context.Background(), "u1", r.ID.Hex(), "freeform")
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestResumeUpdateRejectsMismatchedAnalysis(t *testing.T) {
	svc, r := newResumeFixture(NewAIAnalyzer(nil, time.Second, nil))

	_, err := svc.Update(context.Background(), "u1", r.ID.Hex(), models.ResumePatch{
		Analysis: &models.ResumeAnalysis{Kind: models.ResumeAnalysisScored, Optimization: &models.OptimizationAnalysis{}},
	})
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestResumeOptimize(t *testing.T) {
	svc, r := newResumeFixture(NewAIAnalyzer(respond("Better resume", nil), time.Second, nil))

	out, err := svc.Optimize(context.Background(), "u1", r.ID.Hex(), "leadership")
	require.NoError(t, err)
	assert.Equal(t, "Better resume", out.OptimizedContent)

	_, err = svc.Optimize(context.Background(), "u2", r.ID.Hex(), "")
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}
