package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/noyes"
	httpadapter "github.com/aretw0/noyes/internal/adapters/http"
	"github.com/aretw0/noyes/internal/logging"
	"github.com/aretw0/noyes/pkg/domain"
	"github.com/aretw0/noyes/pkg/dsl"
)

func newTestServer(t *testing.T) (*httptest.Server, *domain.Questionnaire) {
	t.Helper()
	b := dsl.New("mood-check").Access(domain.AccessPublic)
	b.Add("ask").Question("Feeling good?").Yes("yay").No("nay")
	b.Add("yay").Terminal("Great!")
	b.Add("nay").Terminal("Hang in there.")

	graph, q, err := b.Build(context.Background())
	require.NoError(t, err)

	engine := noyes.New(graph)
	srv := httptest.NewServer(httpadapter.NewHandler(engine, logging.NewNop()))
	t.Cleanup(srv.Close)
	return srv, q
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

type runPayload struct {
	Run  domain.Run  `json:"run"`
	Node domain.Node `json:"node"`
}

type errorPayload struct {
	Error    string   `json:"error"`
	Expected []string `json:"expected"`
	Reasons  []string `json:"reasons"`
}

func TestServer_Healthz(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_RunLifecycle(t *testing.T) {
	srv, q := newTestServer(t)

	resp := postJSON(t, fmt.Sprintf("%s/questionnaires/%s/runs", srv.URL, q.ID),
		map[string]string{"session_key": "s1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	started := decode[runPayload](t, resp)
	assert.Equal(t, "ask", started.Node.ID)
	assert.False(t, started.Run.Complete)

	resp = postJSON(t, fmt.Sprintf("%s/runs/%s/answers", srv.URL, started.Run.ID),
		map[string]string{"answer": "yes"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	answered := decode[runPayload](t, resp)
	assert.Equal(t, "yay", answered.Node.ID)
	assert.True(t, answered.Run.Complete)

	// History preserves the walk.
	histResp, err := http.Get(fmt.Sprintf("%s/runs/%s/history", srv.URL, started.Run.ID))
	require.NoError(t, err)
	defer histResp.Body.Close()
	steps := decode[[]domain.Step](t, histResp)
	require.Len(t, steps, 2)
	assert.Equal(t, "ask", steps[0].NodeID)
	assert.Equal(t, "yay", steps[1].NodeID)

	// Answering a closed run conflicts.
	resp = postJSON(t, fmt.Sprintf("%s/runs/%s/answers", srv.URL, started.Run.ID),
		map[string]string{"answer": "no"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestServer_InvalidAnswer(t *testing.T) {
	srv, q := newTestServer(t)

	resp := postJSON(t, fmt.Sprintf("%s/questionnaires/%s/runs", srv.URL, q.ID),
		map[string]string{"session_key": "s1"})
	started := decode[runPayload](t, resp)

	resp = postJSON(t, fmt.Sprintf("%s/runs/%s/answers", srv.URL, started.Run.ID),
		map[string]string{"answer": "maybe"})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	payload := decode[errorPayload](t, resp)
	assert.Equal(t, []string{"yes", "no"}, payload.Expected)
}

func TestServer_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/questionnaires/ghost/runs",
		map[string]string{"session_key": "s1"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	histResp, err := http.Get(srv.URL + "/runs/ghost/history")
	require.NoError(t, err)
	defer histResp.Body.Close()
	assert.Equal(t, http.StatusNotFound, histResp.StatusCode)
}

func TestServer_IdentityRequired(t *testing.T) {
	srv, q := newTestServer(t)

	resp := postJSON(t, fmt.Sprintf("%s/questionnaires/%s/runs", srv.URL, q.ID),
		map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_Resume(t *testing.T) {
	srv, q := newTestServer(t)
	url := fmt.Sprintf("%s/questionnaires/%s/runs", srv.URL, q.ID)

	first := decode[runPayload](t, postJSON(t, url,
		map[string]any{"session_key": "s1", "resume": true}))
	second := decode[runPayload](t, postJSON(t, url,
		map[string]any{"session_key": "s1", "resume": true}))
	assert.Equal(t, first.Run.ID, second.Run.ID, "open run must be resumed")

	fresh := decode[runPayload](t, postJSON(t, url,
		map[string]any{"session_key": "s1"}))
	assert.NotEqual(t, first.Run.ID, fresh.Run.ID, "resume off always starts fresh")
}

func TestServer_Validate(t *testing.T) {
	b := dsl.New("broken").Access(domain.AccessPublic)
	b.Add("ask").Question("?").Yes("ask") // no NO edge
	graph, q, err := b.Build(context.Background())
	require.NoError(t, err)

	engine := noyes.New(graph)
	srv := httptest.NewServer(httpadapter.NewHandler(engine, logging.NewNop()))
	t.Cleanup(srv.Close)

	resp := postJSON(t, fmt.Sprintf("%s/questionnaires/%s/validate", srv.URL, q.ID), nil)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	payload := decode[errorPayload](t, resp)
	assert.NotEmpty(t, payload.Reasons)
}
