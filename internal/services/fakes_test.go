package services

import (
	"context"
	"io"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yoockh/resumeats/internal/models"
	"github.com/yoockh/resumeats/internal/providers/llm"
	"github.com/yoockh/resumeats/internal/utils"
)

type fakeProvider struct {
	fn    func(ctx context.Context, req llm.Request) (string, error)
	calls []llm.Request
}

func (p *fakeProvider) Complete(ctx context.Context, req llm.Request) (string, error) {
	p.calls = append(p.calls, req)
	return p.fn(ctx, req)
}

func (p *fakeProvider) Close() error { return nil }

type fakeAnalysisRepo struct {
	mu       sync.Mutex
	rows     []models.Analysis
	lastSkip int64
}

func (r *fakeAnalysisRepo) Create(_ context.Context, a *models.Analysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = primitive.NewObjectID()
	r.rows = append(r.rows, *a)
	return nil
}

func (r *fakeAnalysisRepo) ListByUser(_ context.Context, userID string, skip, limit int64) ([]models.Analysis, error) {
	r.lastSkip = skip
	var out []models.Analysis
	for i := len(r.rows) - 1; i >= 0; i-- {
		if r.rows[i].UserID == userID {
			out = append(out, r.rows[i])
		}
	}
	if skip >= int64(len(out)) {
		return []models.Analysis{}, nil
	}
	out = out[skip:]
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeAnalysisRepo) CountByUser(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, a := range r.rows {
		if a.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *fakeAnalysisRepo) GetForUser(_ context.Context, id, userID string) (*models.Analysis, error) {
	for i := range r.rows {
		if r.rows[i].ID.Hex() == id && r.rows[i].UserID == userID {
			a := r.rows[i]
			return &a, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (r *fakeAnalysisRepo) DeleteForUser(_ context.Context, id, userID string) error {
	for i := range r.rows {
		if r.rows[i].ID.Hex() == id && r.rows[i].UserID == userID {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return utils.ErrNotFound
}

func (r *fakeAnalysisRepo) Stats(_ context.Context, userID string) (*models.AnalysisStats, error) {
	n, _ := r.CountByUser(context.Background(), userID)
	return &models.AnalysisStats{TotalAnalyses: n}, nil
}

type fakeCache struct {
	data    map[string]any
	deletes []string
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string]any{}} }

func (c *fakeCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	v, ok := c.data[key]
	if !ok {
		return false, nil
	}
	*(dst.(*models.AnalysisStats)) = *(v.(*models.AnalysisStats))
	return true, nil
}

func (c *fakeCache) SetJSON(_ context.Context, key string, val any, _ time.Duration) error {
	c.data[key] = val
	return nil
}

func (c *fakeCache) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
		c.deletes = append(c.deletes, k)
	}
	return nil
}

type fakeChatRepo struct {
	rows map[string]*models.ChatSession
}

func newFakeChatRepo() *fakeChatRepo { return &fakeChatRepo{rows: map[string]*models.ChatSession{}} }

func (r *fakeChatRepo) Create(_ context.Context, s *models.ChatSession) error {
	s.ID = primitive.NewObjectID()
	cp := *s
	r.rows[s.ID.Hex()] = &cp
	return nil
}

func (r *fakeChatRepo) ListByUser(_ context.Context, userID string, _ int64) ([]models.ChatSession, error) {
	var out []models.ChatSession
	for _, s := range r.rows {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeChatRepo) GetForUser(_ context.Context, id, userID string) (*models.ChatSession, error) {
	s, ok := r.rows[id]
	if !ok || s.UserID != userID {
		return nil, utils.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeChatRepo) AppendMessages(_ context.Context, id, userID string, msgs []models.ChatMessage, atsScore *int, at time.Time) (*models.ChatSession, error) {
	s, ok := r.rows[id]
	if !ok || s.UserID != userID {
		return nil, utils.ErrNotFound
	}
	s.Messages = append(s.Messages, msgs...)
	if atsScore != nil {
		s.ATSScore = atsScore
	}
	s.UpdatedAt = at
	cp := *s
	return &cp, nil
}

func (r *fakeChatRepo) DeleteForUser(_ context.Context, id, userID string) error {
	s, ok := r.rows[id]
	if !ok || s.UserID != userID {
		return utils.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

type fakeResumeRepo struct {
	rows map[string]*models.Resume
}

func newFakeResumeRepo() *fakeResumeRepo { return &fakeResumeRepo{rows: map[string]*models.Resume{}} }

func (r *fakeResumeRepo) Create(_ context.Context, res *models.Resume) error {
	res.ID = primitive.NewObjectID()
	cp := *res
	r.rows[res.ID.Hex()] = &cp
	return nil
}

func (r *fakeResumeRepo) ListByUser(_ context.Context, userID string) ([]models.Resume, error) {
	var out []models.Resume
	for _, res := range r.rows {
		if res.UserID == userID {
			out = append(out, *res)
		}
	}
	return out, nil
}

func (r *fakeResumeRepo) GetForUser(_ context.Context, id, userID string) (*models.Resume, error) {
	res, ok := r.rows[id]
	if !ok || res.UserID != userID {
		return nil, utils.ErrNotFound
	}
	cp := *res
	return &cp, nil
}

func (r *fakeResumeRepo) Update(_ context.Context, id, userID string, p models.ResumePatch) (*models.Resume, error) {
	res, ok := r.rows[id]
	if !ok || res.UserID != userID {
		return nil, utils.ErrNotFound
	}
	if p.Title != nil {
		res.Title = *p.Title
	}
	if p.Content != nil {
		res.Content = *p.Content
	}
	if p.JobDescription != nil {
		res.JobDescription = *p.JobDescription
	}
	if p.Analysis != nil {
		res.Analysis = p.Analysis
	}
	if p.OptimizedContent != nil {
		res.OptimizedContent = *p.OptimizedContent
	}
	res.UpdatedAt = time.Now().UTC()
	cp := *res
	return &cp, nil
}

func (r *fakeResumeRepo) DeleteForUser(_ context.Context, id, userID string) error {
	res, ok := r.rows[id]
	if !ok || res.UserID != userID {
		return utils.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

type fakeUserRepo struct {
	byEmail map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo { return &fakeUserRepo{byEmail: map[string]*models.User{}} }

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	if _, ok := r.byEmail[u.Email]; ok {
		return utils.ErrDuplicate
	}
	cp := *u
	r.byEmail[u.Email] = &cp
	return nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, utils.ErrNotFound
}

type fakeUploader struct {
	objects map[string][]byte
	err     error
}

func (u *fakeUploader) Upload(_ context.Context, name, _ string, r io.Reader) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if u.objects == nil {
		u.objects = map[string][]byte{}
	}
	u.objects[name] = b
	return "gs://test/" + name, nil
}
