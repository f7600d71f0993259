package routes

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yoockh/resumeats/internal/models"
	"github.com/yoockh/resumeats/internal/utils"
)

// memStore backs every repository interface the router needs.
type memStore struct {
	mu       sync.Mutex
	analyses []models.Analysis
	chats    map[string]*models.ChatSession
	resumes  map[string]*models.Resume
	users    map[string]*models.User
}

func newMemStore() *memStore {
	return &memStore{
		chats:   map[string]*models.ChatSession{},
		resumes: map[string]*models.Resume{},
		users:   map[string]*models.User{},
	}
}

type memAnalyses struct{ s *memStore }

func (r memAnalyses) Create(_ context.Context, a *models.Analysis) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a.ID = primitive.NewObjectID()
	r.s.analyses = append(r.s.analyses, *a)
	return nil
}

func (r memAnalyses) ListByUser(_ context.Context, userID string, skip, limit int64) ([]models.Analysis, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Analysis
	for i := len(r.s.analyses) - 1; i >= 0; i-- {
		a := r.s.analyses[i]
		if a.UserID == userID {
			a.ResumeText, a.JobDescription = "", ""
			out = append(out, a)
		}
	}
	if skip >= int64(len(out)) {
		return nil, nil
	}
	out = out[skip:]
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memAnalyses) CountByUser(_ context.Context, userID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, a := range r.s.analyses {
		if a.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r memAnalyses) GetForUser(_ context.Context, id, userID string) (*models.Analysis, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.analyses {
		if a.ID.Hex() == id && a.UserID == userID {
			return &a, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (r memAnalyses) DeleteForUser(_ context.Context, id, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, a := range r.s.analyses {
		if a.ID.Hex() == id && a.UserID == userID {
			r.s.analyses = append(r.s.analyses[:i], r.s.analyses[i+1:]...)
			return nil
		}
	}
	return utils.ErrNotFound
}

func (r memAnalyses) Stats(ctx context.Context, userID string) (*models.AnalysisStats, error) {
	n, _ := r.CountByUser(ctx, userID)
	return &models.AnalysisStats{TotalAnalyses: n, ScoreDistribution: []models.ScoreBucket{}, RecentAnalyses: []models.AnalysisSummary{}}, nil
}

type memChats struct{ s *memStore }

func (r memChats) Create(_ context.Context, c *models.ChatSession) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.ID = primitive.NewObjectID()
	cp := *c
	r.s.chats[c.ID.Hex()] = &cp
	return nil
}

func (r memChats) ListByUser(_ context.Context, userID string, limit int64) ([]models.ChatSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.ChatSession
	for _, c := range r.s.chats {
		if c.UserID == userID {
			cp := *c
			cp.Messages = nil
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r memChats) GetForUser(_ context.Context, id, userID string) (*models.ChatSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.chats[id]
	if !ok || c.UserID != userID {
		return nil, utils.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r memChats) AppendMessages(_ context.Context, id, userID string, msgs []models.ChatMessage, atsScore *int, at time.Time) (*models.ChatSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.chats[id]
	if !ok || c.UserID != userID {
		return nil, utils.ErrNotFound
	}
	c.Messages = append(c.Messages, msgs...)
	if atsScore != nil {
		c.ATSScore = atsScore
	}
	c.UpdatedAt = at
	cp := *c
	return &cp, nil
}

func (r memChats) DeleteForUser(_ context.Context, id, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.chats[id]
	if !ok || c.UserID != userID {
		return utils.ErrNotFound
	}
	delete(r.s.chats, id)
	return nil
}

type memResumes struct{ s *memStore }

func (r memResumes) Create(_ context.Context, res *models.Resume) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	res.ID = primitive.NewObjectID()
	cp := *res
	r.s.resumes[res.ID.Hex()] = &cp
	return nil
}

func (r memResumes) ListByUser(_ context.Context, userID string) ([]models.Resume, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Resume
	for _, res := range r.s.resumes {
		if res.UserID == userID {
			out = append(out, *res)
		}
	}
	return out, nil
}

func (r memResumes) GetForUser(_ context.Context, id, userID string) (*models.Resume, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	res, ok := r.s.resumes[id]
	if !ok || res.UserID != userID {
		return nil, utils.ErrNotFound
	}
	cp := *res
	return &cp, nil
}

func (r memResumes) Update(_ context.Context, id, userID string, p models.ResumePatch) (*models.Resume, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	res, ok := r.s.resumes[id]
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

func (r memResumes) DeleteForUser(_ context.Context, id, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	res, ok := r.s.resumes[id]
	if !ok || res.UserID != userID {
		return utils.ErrNotFound
	}
	delete(r.s.resumes, id)
	return nil
}

type memUsers struct{ s *memStore }

func (r memUsers) Create(_ context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.users {
		if x.Email == u.Email {
			return utils.ErrDuplicate
		}
	}
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (r memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *u
	return &cp, nil
}
