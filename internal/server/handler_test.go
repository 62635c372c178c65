package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mindguard/internal/config"
	"mindguard/internal/core"
	"mindguard/internal/storage"
	"mindguard/pkg"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePipeline struct {
	moods    pkg.MoodLog
	moodsErr error
	err      error
	seen     []int
}

func (f *fakePipeline) HandleMessage(_ context.Context, conv *pkg.Conversation, text string) (*core.ProcessorOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.seen = append(f.seen, conv.Len())
	conv.Append(pkg.RoleUser, text)
	conv.Append(pkg.RoleAssistant, "echo: "+text)
	return &core.ProcessorOutput{
		Reply:   "echo: " + text,
		Emotion: pkg.EmotionPositive,
		Bucket:  pkg.MoodPositive,
	}, nil
}

func (f *fakePipeline) LoadMoods(context.Context) (pkg.MoodLog, error) {
	return f.moods, f.moodsErr
}

func newTestRouter(p ChatPipeline) (*gin.Engine, *storage.SessionManager) {
	gin.SetMode(gin.TestMode)
	sessions := storage.NewSessionManager(0)
	cfg := config.ServerConfig{AllowedOrigins: []string{"http://localhost:3000"}}
	return NewRouter(cfg, NewChatHandler(p, sessions, zerolog.Nop()), zerolog.Nop()), sessions
}

func postChat(t *testing.T, r http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestPostChat_CreatesSession(t *testing.T) {
	p := &fakePipeline{}
	r, sessions := newTestRouter(p)

	w := postChat(t, r, `{"message":"I am feeling happy today"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var res ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.NotEmpty(t, res.SessionID)
	assert.Equal(t, "echo: I am feeling happy today", res.Reply)
	assert.Equal(t, "positive", res.Emotion)
	assert.Equal(t, "positive", res.Mood)
	assert.False(t, res.Distress)
	assert.Equal(t, 1, sessions.Len())
}

func TestPostChat_ReusesSession(t *testing.T) {
	p := &fakePipeline{}
	r, sessions := newTestRouter(p)

	w := postChat(t, r, `{"message":"first"}`)
	var first ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))

	w = postChat(t, r, `{"session_id":"`+first.SessionID+`","message":"second"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var second ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))

	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Equal(t, []int{0, 2}, p.seen)
	assert.Equal(t, 1, sessions.Len())
}

func TestPostChat_UnknownSessionStartsFresh(t *testing.T) {
	r, _ := newTestRouter(&fakePipeline{})

	w := postChat(t, r, `{"session_id":"does-not-exist","message":"hi"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var res ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.NotEqual(t, "does-not-exist", res.SessionID)
}

func TestPostChat_BadRequests(t *testing.T) {
	p := &fakePipeline{}
	r, _ := newTestRouter(p)

	for _, body := range []string{`{"message":""}`, `{"message":"   "}`, `not json`} {
		w := postChat(t, r, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
	assert.Empty(t, p.seen)
}

func TestPostChat_PipelineError(t *testing.T) {
	r, _ := newTestRouter(&fakePipeline{err: errors.New("flow misconfigured")})

	w := postChat(t, r, `{"message":"hello"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetMoods(t *testing.T) {
	p := &fakePipeline{moods: pkg.MoodLog{
		"2025-03-15": {Positive: 1, Negative: 2},
		"2025-03-14": {Neutral: 3},
	}}
	r, _ := newTestRouter(p)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/moods", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var res MoodsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Len(t, res.Days, 2)
	assert.Equal(t, "2025-03-14", res.Days[0].Date)
	assert.Equal(t, "2025-03-15", res.Days[1].Date)
	require.NotNil(t, res.Latest)
	assert.Equal(t, DayMoodResponse{Date: "2025-03-15", Positive: 1, Negative: 2}, *res.Latest)
	assert.Equal(t, MoodTotalsResponse{Positive: 1, Neutral: 3, Negative: 2}, res.Totals)
}

func TestGetMoods_Empty(t *testing.T) {
	r, _ := newTestRouter(&fakePipeline{moods: pkg.MoodLog{}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/moods", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var res MoodsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Empty(t, res.Days)
	assert.Nil(t, res.Latest)
}

func TestGetMoods_CorruptStore(t *testing.T) {
	r, _ := newTestRouter(&fakePipeline{moodsErr: storage.ErrCorruptStore})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/moods", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSessionLifecycle(t *testing.T) {
	r, sessions := newTestRouter(&fakePipeline{})

	w := postChat(t, r, `{"message":"hello"}`)
	var res ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/sessions/"+res.SessionID, nil))
	require.Equal(t, http.StatusOK, w.Code)
	var stats storage.SessionStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.TurnCount)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/sessions/"+res.SessionID, nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, sessions.Len())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/sessions/"+res.SessionID, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/sessions/"+res.SessionID, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetHealth(t *testing.T) {
	r, _ := newTestRouter(&fakePipeline{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestCORSAllowList(t *testing.T) {
	r, _ := newTestRouter(&fakePipeline{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	r.ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
