package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runnerStub struct {
	reply      string
	err        error
	sessionIDs []string
	messages   []string
}

func (r *runnerStub) RunTurn(_ context.Context, sessionID, userText string) (string, error) {
	r.sessionIDs = append(r.sessionIDs, sessionID)
	r.messages = append(r.messages, userText)
	if r.err != nil {
		return "", r.err
	}
	return r.reply, nil
}

func doChat(t *testing.T, e http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestChat_ReturnsReplyAndKeepsSessionID(t *testing.T) {
	stub := &runnerStub{reply: "here are your programs"}
	e := newServer(stub, prometheus.NewRegistry())

	rec := doChat(t, e, `{"session_id": "abc", "message": "MS in CS"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "abc", resp.SessionID)
	assert.Equal(t, "here are your programs", resp.Reply)
	assert.Equal(t, []string{"abc"}, stub.sessionIDs)
	assert.Equal(t, []string{"MS in CS"}, stub.messages)
}

func TestChat_GeneratesSessionIDWhenAbsent(t *testing.T) {
	stub := &runnerStub{reply: "ok"}
	e := newServer(stub, prometheus.NewRegistry())

	rec := doChat(t, e, `{"message": "hello"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SessionID)
}

func TestChat_EmptyMessageIsBadRequest(t *testing.T) {
	stub := &runnerStub{reply: "ok"}
	e := newServer(stub, prometheus.NewRegistry())

	rec := doChat(t, e, `{"session_id": "abc", "message": "  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, stub.messages)
}

func TestChat_TurnFailureIsBadGateway(t *testing.T) {
	stub := &runnerStub{err: errors.New("model overloaded")}
	e := newServer(stub, prometheus.NewRegistry())

	rec := doChat(t, e, `{"session_id": "abc", "message": "hi"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "model overloaded")
}

func TestHealthz(t *testing.T) {
	e := newServer(&runnerStub{}, prometheus.NewRegistry())
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestMetricsEndpointServesRegistry(t *testing.T) {
	registry := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "gradpath_test_counter", Help: "test"})
	registry.MustRegister(counter)
	counter.Inc()

	e := newServer(&runnerStub{}, registry)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "gradpath_test_counter 1")
}
