package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creeper-desktop/internal/adapter/primary/dispatch"
	"creeper-desktop/internal/adapter/secondary/listening"
	"creeper-desktop/internal/adapter/secondary/permission"
	"creeper-desktop/internal/adapter/secondary/repository"
	"creeper-desktop/internal/adapter/secondary/window"
	"creeper-desktop/internal/domain"
	"creeper-desktop/internal/usecase"
)

type countingTerminator struct{ calls int }

func (c *countingTerminator) Exit() { c.calls++ }

type testEnv struct {
	handler http.Handler
	window  *window.MemoryWindow
	term    *countingTerminator
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	d := dispatch.New(
		usecase.NewConfigUseCase(repository.NewMemoryRepository()),
		usecase.NewChunkUseCase(),
		usecase.NewPermissionUseCase(permission.NewAlwaysGranted()),
	)
	w := window.NewMemoryWindow(true)
	q := listening.NewToggleQueue()
	term := &countingTerminator{}
	tray := usecase.NewTrayUseCase(w, q, term, domain.WindowShown)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	tray.Start(ctx)

	srv := NewServer(d, tray, "127.0.0.1:0", WithIntents(q), WithVisibility(w))
	return testEnv{handler: srv.Handler(), window: w, term: term}
}

func (e testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestServer_InvokeGetAndSetConfig(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/invoke/get_config", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, map[string]any{"chunk_duration": float64(60)}, body["result"])

	rec = env.do(t, http.MethodPost, "/api/invoke/set_config", `{"key":"chunk_duration","value":"90"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/config", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(90), decodeBody(t, rec)["chunk_duration"])
}

func TestServer_PutConfig(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPut, "/api/config", `{"key":"chunk_duration","value":"45"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(45), decodeBody(t, rec)["chunk_duration"])

	rec = env.do(t, http.MethodPut, "/api/config", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_PutConfigMissingFields(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPut, "/api/config", `{"value":"30"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid arguments: missing key")

	rec = env.do(t, http.MethodPut, "/api/config", `{"key":"chunk_duration"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid arguments: missing value")

	rec = env.do(t, http.MethodPost, "/api/invoke/set_config", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid arguments: missing key", decodeBody(t, rec)["error"])

	rec = env.do(t, http.MethodGet, "/api/config", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(60), decodeBody(t, rec)["chunk_duration"])
}

func TestServer_InvokeValidateAudioChunk(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/invoke/validate_audio_chunk",
		`{"chunk":{"data":"abc","timestamp":0,"duration":1,"format":"wav"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["result"])

	rec = env.do(t, http.MethodPost, "/api/invoke/validate_audio_chunk",
		`{"chunk":{"data":"abc","timestamp":0,"duration":0,"format":"wav"}}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["ok"])
	assert.Equal(t, "Duration must be greater than 0", body["error"])
}

func TestServer_InvokeUnknownCommand(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/invoke/format_disk", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "unknown command: format_disk", decodeBody(t, rec)["error"])
}

func TestServer_Commands(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/commands", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["commands"], 4)
}

func TestServer_TrayEvents(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/tray/close", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, env.window.Visible())
	assert.Equal(t, 0, env.term.calls)

	rec = env.do(t, http.MethodGet, "/api/window", "")
	body := decodeBody(t, rec)
	assert.Equal(t, "hidden", body["state"])
	assert.Equal(t, false, body["visible"])

	rec = env.do(t, http.MethodPost, "/api/tray/toggle", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, env.window.Visible())

	rec = env.do(t, http.MethodGet, "/api/tray/intents", "")
	assert.Equal(t, float64(1), decodeBody(t, rec)["toggles"])
	rec = env.do(t, http.MethodGet, "/api/tray/intents", "")
	assert.Equal(t, float64(0), decodeBody(t, rec)["toggles"])

	rec = env.do(t, http.MethodPost, "/api/tray/quit", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, env.term.calls)

	rec = env.do(t, http.MethodPost, "/api/tray/show", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestServer_TrayErrors(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/tray/minimize", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	env.window.Destroy()
	rec = env.do(t, http.MethodPost, "/api/tray/show", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "window is not available")
}
