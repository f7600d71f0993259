package routes

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoockh/resumeats/internal/api/handlers"
	"github.com/yoockh/resumeats/internal/models"
	"github.com/yoockh/resumeats/internal/services"
)

const (
	sampleResume = "Developed and implemented REST APIs using Node.js and managed a team of 3 engineers, improved performance by 25%"
	sampleJob    = "Looking for a Node.js developer with REST API experience and team leadership skills"

	maxUpload = 5 << 20
)

type testServer struct {
	t     *testing.T
	r     *gin.Engine
	store *memStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log, _ := test.NewNullLogger()
	store := newMemStore()
	tokens := services.NewTokenService("test-secret", time.Hour)
	ai := services.NewAIAnalyzer(nil, time.Second, log)

	r := NewRouter(Deps{
		Logger:        log,
		Tokens:        tokens,
		ShowErrorText: true,

		Health:   handlers.NewHealthHandler(time.Now()),
		Auth:     handlers.NewAuthHandler(services.NewUserService(memUsers{store}, tokens)),
		Upload:   handlers.NewUploadHandler(services.NewUploadService(maxUpload, t.TempDir(), nil, log), maxUpload),
		Analysis: handlers.NewAnalysisHandler(services.NewAnalysisService(memAnalyses{store}, ai, nil, time.Minute, log)),
		Resume:   handlers.NewResumeHandler(services.NewResumeService(memResumes{store}, ai)),
		AI:       handlers.NewAIHandler(ai),
		Chat:     handlers.NewChatHandler(services.NewChatService(memChats{store})),
	})
	return &testServer{t: t, r: r, store: store}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.r.ServeHTTP(w, req)
	return w
}

func (s *testServer) register(email string) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/auth/register", "", gin.H{"name": "Test", "email": email, "password": "secret123"})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &out))
	return out.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst), w.Body.String())
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var out map[string]any
	decode(t, w, &out)
	assert.Equal(t, "OK", out["status"])
	assert.Contains(t, out, "uptime")
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/analyze", "/api/resume/stats", "/api/chat/history", "/api/auth/me"} {
		w := s.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)

		w = s.do(http.MethodGet, path, "not.a.token", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)
	tok := s.register("a@example.com")

	w := s.do(http.MethodGet, "/api/auth/me", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password")

	w = s.do(http.MethodPost, "/api/auth/register", "", gin.H{"name": "Again", "email": "a@example.com", "password": "secret123"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "a@example.com", "password": "nope-nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "a@example.com", "password": "secret123"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAnalyzeEndToEnd(t *testing.T) {
	s := newTestServer(t)
	tok := s.register("a@example.com")

	w := s.do(http.MethodPost, "/api/analyze", tok, gin.H{
		"resumeText": sampleResume, "jobDescription": sampleJob, "fileName": "cv.pdf", "fileType": "pdf",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var created struct {
		Success    bool                    `json:"success"`
		AnalysisID string                  `json:"analysisId"`
		Analysis   handlers.AnalysisResult `json:"analysis"`
	}
	decode(t, w, &created)
	assert.True(t, created.Success)
	assert.Equal(t, 36, created.Analysis.ATSScore)
	assert.Equal(t, 64, created.Analysis.ImprovementPotential)
	assert.GreaterOrEqual(t, created.Analysis.ActionVerbCount, 2)

	w = s.do(http.MethodGet, "/api/analyze", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "resumeText")

	w = s.do(http.MethodGet, "/api/analyze/"+created.AnalysisID, tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var full struct {
		Analysis models.Analysis `json:"analysis"`
	}
	decode(t, w, &full)
	assert.Equal(t, sampleResume, full.Analysis.ResumeText)

	w = s.do(http.MethodGet, "/api/resume/export/"+created.AnalysisID, tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="resume-analysis-`+created.AnalysisID+`.json"`, w.Header().Get("Content-Disposition"))
	var exp models.AnalysisExport
	decode(t, w, &exp)
	assert.Equal(t, full.Analysis.ATSScore, exp.ATSScore)
	assert.Equal(t, full.Analysis.MatchedKeywords, exp.MatchedKeywords)
	assert.Equal(t, full.Analysis.MissingKeywords, exp.MissingKeywords)
	assert.Equal(t, full.Analysis.Suggestions, exp.Suggestions)

	w = s.do(http.MethodGet, "/api/resume/analyses?page=1&limit=5", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Pagination models.Pagination `json:"pagination"`
	}
	decode(t, w, &page)
	assert.Equal(t, models.Pagination{Current: 1, Pages: 1, Total: 1}, page.Pagination)

	w = s.do(http.MethodGet, "/api/resume/stats", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalAnalyses":1`)
}

func TestAnalyzeValidationListsEveryField(t *testing.T) {
	s := newTestServer(t)
	tok := s.register("a@example.com")

	w := s.do(http.MethodPost, "/api/analyze", tok, gin.H{"fileType": "rtf"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var out handlers.APIError
	decode(t, w, &out)
	assert.Equal(t, "INVALID_ARGUMENT", string(out.Code))
	assert.Len(t, out.Details, 4)
	assert.Empty(t, s.store.analyses)
}

func TestAnalysisOwnershipIsHidden(t *testing.T) {
	s := newTestServer(t)
	owner := s.register("owner@example.com")
	other := s.register("other@example.com")

	w := s.do(http.MethodPost, "/api/analyze", owner, gin.H{
		"resumeText": sampleResume, "jobDescription": sampleJob, "fileName": "cv.txt", "fileType": "txt",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var created struct {
		AnalysisID string `json:"analysisId"`
	}
	decode(t, w, &created)

	foreign := s.do(http.MethodGet, "/api/analyze/"+created.AnalysisID, other, nil)
	missing := s.do(http.MethodGet, "/api/analyze/000000000000000000000000", other, nil)
	assert.Equal(t, http.StatusNotFound, foreign.Code)
	assert.Equal(t, missing.Code, foreign.Code)
	assert.JSONEq(t, missing.Body.String(), foreign.Body.String())

	w = s.do(http.MethodDelete, "/api/resume/analyses/"+created.AnalysisID, other, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = s.do(http.MethodDelete, "/api/resume/analyses/"+created.AnalysisID, owner, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func multipartRequest(t *testing.T, path, token, field, fileName, contentType string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+fileName+`"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestUpload(t *testing.T) {
	s := newTestServer(t)
	tok := s.register("a@example.com")

	w := httptest.NewRecorder()
	s.r.ServeHTTP(w, multipartRequest(t, "/api/upload", tok, "resume", "cv.txt", "text/plain", []byte(sampleResume)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out map[string]any
	decode(t, w, &out)
	assert.Equal(t, sampleResume, out["text"])
	assert.Equal(t, "txt", out["fileType"])

	w = httptest.NewRecorder()
	s.r.ServeHTTP(w, multipartRequest(t, "/api/upload/job-description", tok, "jobDescription", "jd.txt", "application/octet-stream", []byte(sampleJob)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "extractedText")

	w = httptest.NewRecorder()
	big := bytes.Repeat([]byte("a"), 6<<20)
	s.r.ServeHTTP(w, multipartRequest(t, "/api/upload", tok, "resume", "cv.txt", "text/plain", big))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "FILE_TOO_LARGE")

	w = httptest.NewRecorder()
	s.r.ServeHTTP(w, multipartRequest(t, "/api/upload", tok, "resume", "cv.png", "image/png", []byte("png")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "UNSUPPORTED_FILE_TYPE")

	w = httptest.NewRecorder()
	s.r.ServeHTTP(w, multipartRequest(t, "/api/upload", tok, "resume", "blank.txt", "text/plain", []byte("   \n ")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No text content found")

	w = httptest.NewRecorder()
	s.r.ServeHTTP(w, multipartRequest(t, "/api/upload", tok, "other", "cv.txt", "text/plain", []byte(sampleResume)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatAppendAcrossRequests(t *testing.T) {
	s := newTestServer(t)
	tok := s.register("a@example.com")

	w := s.do(http.MethodPost, "/api/chat", tok, gin.H{
		"messages": []gin.H{{"role": "user", "content": "first"}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var first struct {
		Session models.ChatSession `json:"session"`
	}
	decode(t, w, &first)

	time.Sleep(5 * time.Millisecond)
	w = s.do(http.MethodPost, "/api/chat", tok, gin.H{
		"sessionId": first.Session.ID.Hex(),
		"messages":  []gin.H{{"role": "assistant", "content": "second"}, {"role": "user", "content": "third"}},
		"atsScore":  72,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var second struct {
		Session models.ChatSession `json:"session"`
	}
	decode(t, w, &second)

	var contents []string
	for _, m := range second.Session.Messages {
		contents = append(contents, m.Content)
	}
	assert.Equal(t, []string{"first", "second", "third"}, contents)
	assert.True(t, second.Session.UpdatedAt.After(first.Session.UpdatedAt))

	w = s.do(http.MethodGet, "/api/chat/history", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `"messages"`)

	w = s.do(http.MethodPost, "/api/chat", tok, gin.H{"sessionId": "bad-id", "messages": []gin.H{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/chat", tok, gin.H{"title": "no messages"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodDelete, "/api/chat/"+first.Session.ID.Hex(), tok, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(http.MethodGet, "/api/chat/"+first.Session.ID.Hex(), tok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResumeRecordLifecycle(t *testing.T) {
	s := newTestServer(t)
	tok := s.register("a@example.com")

	w := s.do(http.MethodPost, "/api/resume", tok, gin.H{"title": "Backend", "content": sampleResume, "jobDescription": sampleJob})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Resume models.Resume `json:"resume"`
	}
	decode(t, w, &created)
	id := created.Resume.ID.Hex()

	w = s.do(http.MethodPost, "/api/resume/"+id+"/analyze", tok, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var analyzed struct {
		Resume models.Resume `json:"resume"`
	}
	decode(t, w, &analyzed)
	require.NotNil(t, analyzed.Resume.Analysis)
	assert.Equal(t, models.ResumeAnalysisScored, analyzed.Resume.Analysis.Kind)
	assert.Equal(t, 36, analyzed.Resume.Analysis.Scored.ATSScore)

	w = s.do(http.MethodPut, "/api/resume/"+id, tok, gin.H{"title": "Renamed"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"Renamed"`)

	// optimize needs a configured model
	w = s.do(http.MethodPost, "/api/resume/"+id+"/optimize", tok, gin.H{"optimizationFocus": "skills"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = s.do(http.MethodGet, "/api/resume", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, strings.Count(w.Body.String(), `"title":"Renamed"`))

	w = s.do(http.MethodDelete, "/api/resume/"+id, tok, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(http.MethodGet, "/api/resume/"+id, tok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAIAnalyzeFallsBackWithoutModel(t *testing.T) {
	s := newTestServer(t)
	tok := s.register("a@example.com")

	w := s.do(http.MethodPost, "/api/ai/analyze", tok, gin.H{"resumeText": sampleResume, "jobDescription": sampleJob})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out struct {
		Analysis struct {
			JobKeywords             []string                    `json:"jobKeywords"`
			ResumeAnalysis          models.ResumeStructure      `json:"resumeAnalysis"`
			OptimizationSuggestions models.OptimizationAnalysis `json:"optimizationSuggestions"`
		} `json:"analysis"`
	}
	decode(t, w, &out)
	assert.Contains(t, out.Analysis.JobKeywords, "leadership")
	assert.Equal(t, 75, out.Analysis.OptimizationSuggestions.OverallScore)
	assert.True(t, out.Analysis.ResumeAnalysis.HasNumbers)

	w = s.do(http.MethodPost, "/api/ai/analyze", tok, gin.H{"resumeText": sampleResume})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
