package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhad/kbase/internal/models"
	"github.com/xhad/kbase/pkg/query"
	"github.com/xhad/kbase/server"
)

type stubAsker struct {
	answer string
	err    error
}

func (a stubAsker) Ask(_ context.Context, prompt string) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	return a.answer + ": " + prompt, nil
}

type stubRows struct {
	rows []models.Row
	err  error
}

func (s stubRows) List(context.Context) ([]models.Row, error) {
	return s.rows, s.err
}

func knowledgeBase() []models.Row {
	return []models.Row{
		{Content: "The secret code for Mercy Shop is: PURPLE-UNICORN-42.", Metadata: models.Metadata{"category": "test"}},
		{
			Content:  "Profile ID: 1\nUser Type: freelancer\nFull Name: Jane Smith\n",
			Metadata: models.Metadata{"category": "profile", "user_type": "freelancer"},
		},
	}
}

func newServer(asker server.Asker, rows server.RowLister) *server.Server {
	return server.NewWithConfig(server.ServerConfig{
		Asker:    asker,
		Rows:     rows,
		Answerer: query.NewAnswerer(nil),
	})
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestPing(t *testing.T) {
	rec := do(t, newServer(stubAsker{}, stubRows{}).Handler(), http.MethodGet, "/api/rag/ping", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"pong"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(server.RequestIDHeader))
}

func TestRequestIDIsEchoed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(server.RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	newServer(stubAsker{}, stubRows{}).Handler().ServeHTTP(rec, req)

	assert.Equal(t, "OK", rec.Body.String())
	assert.Equal(t, "abc-123", rec.Header().Get(server.RequestIDHeader))
}

func TestAsk(t *testing.T) {
	tests := []struct {
		name   string
		asker  stubAsker
		body   string
		status int
		want   string
	}{
		{
			name:   "answers",
			asker:  stubAsker{answer: "ok"},
			body:   `{"prompt":"what is the code?"}`,
			status: http.StatusOK,
			want:   `{"response":"ok: what is the code?"}`,
		},
		{
			name:   "missing prompt",
			body:   `{}`,
			status: http.StatusBadRequest,
			want:   `{"error":"Missing prompt"}`,
		},
		{
			name:   "malformed body",
			body:   `not json`,
			status: http.StatusBadRequest,
			want:   `{"error":"Missing prompt"}`,
		},
		{
			name:   "pipeline failure",
			asker:  stubAsker{err: errors.New("store down")},
			body:   `{"prompt":"hello"}`,
			status: http.StatusInternalServerError,
			want:   `{"error":"RAG processing failed"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newServer(tt.asker, stubRows{}).Handler(), http.MethodPost, "/api/rag/ask", tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.JSONEq(t, tt.want, rec.Body.String())
		})
	}
}

func TestAnswer(t *testing.T) {
	h := newServer(stubAsker{}, stubRows{rows: knowledgeBase()}).Handler()

	rec := do(t, h, http.MethodPost, "/api/kb/answer", `{"query":"mercy shop"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "The secret code for Mercy Shop is: PURPLE-UNICORN-42.", decode(t, rec)["answer"])

	rec = do(t, h, http.MethodPost, "/api/kb/answer", `{"query":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	failing := newServer(stubAsker{}, stubRows{err: errors.New("boom")}).Handler()
	rec = do(t, failing, http.MethodPost, "/api/kb/answer", `{"query":"mercy"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestFreelancerExists(t *testing.T) {
	h := newServer(stubAsker{}, stubRows{rows: knowledgeBase()}).Handler()

	rec := do(t, h, http.MethodGet, "/api/kb/freelancers?name=JANE", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"exists":true,"name":"jane smith"}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/kb/freelancers?name=bob", "")
	assert.JSONEq(t, `{"exists":false,"name":""}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/kb/freelancers", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newServer(stubAsker{}, stubRows{}).Handler()
	do(t, h, http.MethodGet, "/api/rag/ping", "")

	rec := do(t, h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{path="/api/rag/ping",status="200"}`)
}

func TestWebSocket(t *testing.T) {
	ts := httptest.NewServer(newServer(stubAsker{answer: "ws"}, stubRows{}).Handler())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(server.Message{Type: server.MessageAsk, Content: "hi"}))
	var reply server.Message
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, server.Message{Type: server.MessageResponse, Content: "ws: hi"}, reply)

	require.NoError(t, conn.WriteJSON(server.Message{Type: "chat", Content: "hi"}))
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, server.MessageError, reply.Type)
}

// slowAsker delays the prompt "slow" and records how many asks overlap.
type slowAsker struct {
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func (a *slowAsker) Ask(_ context.Context, prompt string) (string, error) {
	n := a.inFlight.Add(1)
	defer a.inFlight.Add(-1)
	if n > a.maxInFlight.Load() {
		a.maxInFlight.Store(n)
	}
	if prompt == "slow" {
		time.Sleep(50 * time.Millisecond)
	}
	return prompt, nil
}

func TestWebSocketAnswersInOrder(t *testing.T) {
	asker := &slowAsker{}
	ts := httptest.NewServer(newServer(asker, stubRows{}).Handler())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(server.Message{Type: server.MessageAsk, Content: "slow"}))
	require.NoError(t, conn.WriteJSON(server.Message{Type: server.MessageAsk, Content: "fast"}))

	var first, second server.Message
	require.NoError(t, conn.ReadJSON(&first))
	require.NoError(t, conn.ReadJSON(&second))
	assert.Equal(t, "slow", first.Content)
	assert.Equal(t, "fast", second.Content)
	assert.Equal(t, int32(1), asker.maxInFlight.Load())
}
