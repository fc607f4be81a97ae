package bridge

import (
	"context"
	"encoding/json"
	"io"
	"match-handler/game"
	"match-handler/launcher"
	"match-handler/matchconfig"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   string
}

type fakeBridge struct {
	mu       sync.Mutex
	requests []recordedRequest
	server   *httptest.Server
}

func newFakeBridge(t *testing.T, handlers map[string]http.HandlerFunc) *fakeBridge {
	t.Helper()
	fb := &fakeBridge{}
	fb.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		fb.mu.Lock()
		fb.requests = append(fb.requests, recordedRequest{Method: r.Method, Path: r.URL.Path, Body: string(body)})
		fb.mu.Unlock()

		if handler, ok := handlers[r.Method+" "+r.URL.Path]; ok {
			handler(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(fb.server.Close)
	return fb
}

func (fb *fakeBridge) Requests() []recordedRequest {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]recordedRequest(nil), fb.requests...)
}

func writeJson(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, fb *fakeBridge) *Client {
	t.Helper()
	client, err := NewClient(fb.server.URL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestClient_StartAndShutDownTrackStarted(t *testing.T) {
	fb := newFakeBridge(t, nil)
	client := newTestClient(t, fb)
	ctx := context.Background()

	assert.False(t, client.HasStarted())
	require.NoError(t, client.StartMatch(ctx))
	assert.True(t, client.HasStarted())

	require.NoError(t, client.ShutDown(ctx, true))
	assert.False(t, client.HasStarted())

	requests := fb.Requests()
	require.Len(t, requests, 2)
	assert.Equal(t, "/match/start", requests[0].Path)
	assert.Equal(t, http.MethodPost, requests[1].Method)
	assert.Equal(t, "/shutdown", requests[1].Path)
	assert.JSONEq(t, `{"kill_all_processes":true}`, requests[1].Body)
}

func TestClient_ConnectSendsPreference(t *testing.T) {
	fb := newFakeBridge(t, nil)
	client := newTestClient(t, fb)

	pref := launcher.Preference{Kind: launcher.KindEpic, UseLoginTricks: true}
	require.NoError(t, client.Connect(context.Background(), pref))

	requests := fb.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, "/connect", requests[0].Path)
	assert.JSONEq(t, `{"preferred_launcher":"epic","use_login_tricks":true}`, requests[0].Body)
}

func TestClient_LoadMatchConfigWrapsEarlyStart(t *testing.T) {
	fb := newFakeBridge(t, nil)
	client := newTestClient(t, fb)

	config := &matchconfig.MatchConfig{GameMap: "DFHStadium"}
	require.NoError(t, client.LoadMatchConfig(context.Background(), config, 5))

	requests := fb.Requests()
	require.Len(t, requests, 1)
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(requests[0].Body), &body))
	assert.JSONEq(t, `5`, string(body["early_start_seconds"]))
	assert.Contains(t, string(body["match_config"]), "DFHStadium")
}

func TestClient_ErrorResponseCarriesBridgeMessage(t *testing.T) {
	fb := newFakeBridge(t, map[string]http.HandlerFunc{
		"POST /bots/launch": func(w http.ResponseWriter, r *http.Request) {
			writeJson(w, http.StatusInternalServerError, errorResponse{Error: "bot process crashed"})
		},
	})
	client := newTestClient(t, fb)

	err := client.LaunchBotProcesses(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bot process crashed")
	assert.Contains(t, err.Error(), "/bots/launch")
}

func TestClient_StartFailureKeepsNotStarted(t *testing.T) {
	fb := newFakeBridge(t, map[string]http.HandlerFunc{
		"POST /match/start": func(w http.ResponseWriter, r *http.Request) {
			writeJson(w, http.StatusConflict, errorResponse{Error: "not connected"})
		},
	})
	client := newTestClient(t, fb)

	require.Error(t, client.StartMatch(context.Background()))
	assert.False(t, client.HasStarted())
}

func TestClient_TryReceiveAgentMetadata(t *testing.T) {
	fb := newFakeBridge(t, map[string]http.HandlerFunc{
		"POST /bots/metadata": func(w http.ResponseWriter, r *http.Request) {
			writeJson(w, http.StatusOK, metadataResponse{Received: 3})
		},
	})
	client := newTestClient(t, fb)

	received, err := client.TryReceiveAgentMetadata(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, received)
}

func TestClient_RenderingEndpoints(t *testing.T) {
	fb := newFakeBridge(t, nil)
	client := newTestClient(t, fb)
	ctx := context.Background()

	require.NoError(t, client.Render(ctx, game.TextGroup("STORY", 20, 200, 4, "hello", game.Color("white"))))
	require.NoError(t, client.ClearScreen(ctx, "STORY"))

	requests := fb.Requests()
	require.Len(t, requests, 2)
	assert.Equal(t, "/render", requests[0].Path)
	assert.Contains(t, requests[0].Body, "hello")
	assert.Equal(t, http.MethodDelete, requests[1].Method)
	assert.Equal(t, "/render/STORY", requests[1].Path)
}

func TestClient_LoadAppearance(t *testing.T) {
	fb := newFakeBridge(t, map[string]http.HandlerFunc{
		"POST /appearance": func(w http.ResponseWriter, r *http.Request) {
			writeJson(w, http.StatusOK, matchconfig.LoadoutConfig{CarId: 23, TeamColorId: 11})
		},
	})
	client := newTestClient(t, fb)

	loadout, err := client.LoadAppearance("bots/psyonix/appearance.cfg", matchconfig.Team(1))
	require.NoError(t, err)
	assert.Equal(t, 23, loadout.CarId)
	assert.Equal(t, 11, loadout.TeamColorId)

	requests := fb.Requests()
	require.Len(t, requests, 1)
	assert.JSONEq(t, `{"path":"bots/psyonix/appearance.cfg","team":1}`, requests[0].Body)
}

func TestClient_WaitReady(t *testing.T) {
	var calls int
	var mu sync.Mutex
	fb := newFakeBridge(t, map[string]http.HandlerFunc{
		"GET /health": func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			defer mu.Unlock()
			calls++
			writeJson(w, http.StatusOK, healthResponse{Ok: calls >= 2})
		},
	})
	client := newTestClient(t, fb)

	require.NoError(t, client.WaitReady(context.Background(), 5*time.Second))
}

func TestClient_WaitReadyTimesOut(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)
	defer client.Close()

	err = client.WaitReady(context.Background(), 600*time.Millisecond)
	assert.ErrorIs(t, err, ErrBridgeUnavailable)
}
