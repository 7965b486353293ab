package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cronwizard/internal/store"
)

func newTestServer(t *testing.T, token string) *Server {
	t.Helper()
	st, err := store.Open(context.Background(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	s := NewServer("127.0.0.1:0", token, st, st, slog.New(slog.DiscardHandler), time.UTC)
	s.now = func() time.Time { return time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC) }
	return s
}

func do(t *testing.T, s *Server, method, path string, body any, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestCronRender(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, "")
	rec := do(t, s, http.MethodPost, "/v1/cron/render", map[string]any{
		"fields": map[string]any{
			"hour": map[string]any{"type": "single", "values": []int{7}},
		},
		"count": 2,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	res := decode[cronPreviewResponse](t, rec)
	assert.True(t, res.Valid)
	assert.Equal(t, "* 7 * * *", res.Expr)
	assert.Equal(t, []string{"2026-10-18T07:00:00Z", "2026-10-18T07:01:00Z"}, res.NextTimes)
}

func TestCronRender_List(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, "")
	rec := do(t, s, http.MethodPost, "/v1/cron/render", map[string]any{
		"fields": map[string]any{
			"minute":      map[string]any{"type": "list", "values": []int{5, 10, 15, 10}},
			"day_of_week": map[string]any{"type": "interval", "values": []int{2}},
		},
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "5,10,15 * * * */2", decode[cronPreviewResponse](t, rec).Expr)
}

func TestCronRender_Invalid(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, "")
	tests := []map[string]any{
		{"hour": map[string]any{"type": "single", "values": []int{25}}},
		{"second": map[string]any{"type": "all"}},
		{"month": map[string]any{"type": "range", "values": []int{1}}},
		{
			"dow":         map[string]any{"type": "single", "values": []int{1}},
			"day_of_week": map[string]any{"type": "single", "values": []int{5}},
		},
	}
	for _, fields := range tests {
		rec := do(t, s, http.MethodPost, "/v1/cron/render", map[string]any{"fields": fields}, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, decode[cronPreviewResponse](t, rec).Valid)
	}
}

func TestCronPreview(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, "")
	rec := do(t, s, http.MethodPost, "/v1/cron/preview", map[string]any{"expr": "0 0 1 * *", "count": 1}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"2026-11-01T00:00:00Z"}, decode[cronPreviewResponse](t, rec).NextTimes)

	rec = do(t, s, http.MethodPost, "/v1/cron/preview", map[string]any{"expr": "61 * * * *"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[cronPreviewResponse](t, rec).Valid)

	rec = do(t, s, http.MethodPost, "/v1/cron/preview", map[string]any{"expr": " "}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestJobsLifecycle(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, "")
	rec := do(t, s, http.MethodPost, "/v1/jobs", map[string]any{
		"comment": "====== nightly",
		"command": "/bin/nightly.ksh",
		"cron":    "0 2 * * *",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[jobResponse](t, rec)
	assert.Equal(t, "0 2 * * * /bin/nightly.ksh", created.Line)

	rec = do(t, s, http.MethodGet, "/v1/jobs/", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]jobResponse](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	rec = do(t, s, http.MethodGet, "/v1/jobs/"+created.ID+"/", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "====== nightly", decode[jobResponse](t, rec).Comment)

	rec = do(t, s, http.MethodDelete, "/v1/jobs/"+created.ID+"/", nil, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, s, http.MethodGet, "/v1/jobs/"+created.ID+"/", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateJob_Validation(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, "")
	bodies := []map[string]any{
		{"command": "", "cron": "* * * * *"},
		{"command": "true", "cron": ""},
		{"command": "true", "cron": "* * *"},
		{"command": "a\nb", "cron": "* * * * *"},
	}
	for _, body := range bodies {
		rec := do(t, s, http.MethodPost, "/v1/jobs", body, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestAuthMiddleware(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, "secret")
	rec := do(t, s, http.MethodGet, "/v1/jobs/", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, s, http.MethodGet, "/v1/jobs/", nil, http.Header{"Authorization": {"Bearer wrong"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, s, http.MethodGet, "/v1/jobs/", nil, http.Header{"Authorization": {"Bearer secret"}})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodGet, "/v1/jobs/?token=secret", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
