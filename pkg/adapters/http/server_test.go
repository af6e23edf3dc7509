package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/companion"
	"github.com/aretw0/companion/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAsker struct {
	texts   []string
	sources []string
	out     companion.Outcome
	err     error
}

func (f *fakeAsker) Ask(ctx context.Context, text, source string) (companion.Outcome, error) {
	f.texts = append(f.texts, text)
	f.sources = append(f.sources, source)
	return f.out, f.err
}

func TestSubmit(t *testing.T) {
	t.Run("Returns Outcome", func(t *testing.T) {
		asker := &fakeAsker{out: companion.Outcome{
			ID:       "sub-1",
			Actions:  domain.ActionList{domain.OpenApp{App: "firefox"}},
			Statuses: []string{"Opened firefox"},
			Status:   "Opened firefox",
		}}
		handler := NewHandler(asker)

		req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(`{"text": "  open firefox "}`))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "sub-1", resp["id"])
		assert.Equal(t, "Opened firefox", resp["status"])
		assert.Equal(t, false, resp["quit"])
		assert.Equal(t, []any{map[string]any{"action": "open_app", "app": "firefox"}}, resp["actions"])

		assert.Equal(t, []string{"open firefox"}, asker.texts)
		assert.Equal(t, []string{SourceHTTP}, asker.sources)
	})

	t.Run("Empty Outcome Encodes Empty Lists", func(t *testing.T) {
		handler := NewHandler(&fakeAsker{})
		req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(`{"text": "hmm"}`))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"statuses":[]`)
		assert.Contains(t, w.Body.String(), `"actions":[]`)
	})

	t.Run("Rejects Bad Bodies", func(t *testing.T) {
		asker := &fakeAsker{}
		handler := NewHandler(asker)

		for name, body := range map[string]string{
			"Not JSON":   `open firefox`,
			"Blank Text": `{"text": "   "}`,
			"No Text":    `{}`,
		} {
			t.Run(name, func(t *testing.T) {
				req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(body))
				w := httptest.NewRecorder()
				handler.ServeHTTP(w, req)
				assert.Equal(t, http.StatusBadRequest, w.Code)
			})
		}
		assert.Empty(t, asker.texts)
	})

	t.Run("Rejects Oversized Text", func(t *testing.T) {
		handler := NewHandler(&fakeAsker{})
		body := `{"text": "` + strings.Repeat("a", 5000) + `"}`
		req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(body))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("Cancelled Submission", func(t *testing.T) {
		handler := NewHandler(&fakeAsker{err: context.Canceled})
		req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(`{"text": "open vlc"}`))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestHealthAndInfo(t *testing.T) {
	handler := NewHandler(&fakeAsker{})

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/info", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), strings.TrimSpace(companion.Version))
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "companion_test_total",
		Help: "Test counter.",
	})
	reg.MustRegister(counter)
	counter.Inc()

	handler := NewHandler(&fakeAsker{}, WithGatherer(reg))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "companion_test_total 1")
}

func TestMethodNotAllowed(t *testing.T) {
	handler := NewHandler(&fakeAsker{})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/submit", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
