package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth(t *testing.T) {
	var got struct {
		userID  int64
		canEdit bool
	}
	handler := Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := GetActor(r.Context())
		require.True(t, ok)
		got.userID, got.canEdit = actor.UserID, actor.CanEdit
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name    string
		userID  string
		canEdit string
		status  int
		edit    bool
	}{
		{name: "missing", status: http.StatusUnauthorized},
		{name: "not a number", userID: "abc", status: http.StatusUnauthorized},
		{name: "negative", userID: "-5", status: http.StatusUnauthorized},
		{name: "viewer", userID: "7", status: http.StatusNoContent},
		{name: "editor", userID: "7", canEdit: "true", status: http.StatusNoContent, edit: true},
		{name: "garbage flag", userID: "7", canEdit: "yes please", status: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.userID != "" {
				req.Header.Set(HeaderUserID, tt.userID)
			}
			if tt.canEdit != "" {
				req.Header.Set(HeaderCanEdit, tt.canEdit)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusNoContent {
				assert.Equal(t, int64(7), got.userID)
				assert.Equal(t, tt.edit, got.canEdit)
			}
		})
	}
}

type recordedRequest struct {
	method string
	route  string
	status int
}

type fakeMetrics struct {
	mu       sync.Mutex
	requests []recordedRequest
	limited  []string
}

func (m *fakeMetrics) ObserveHTTPRequest(method, route string, status int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, recordedRequest{method: method, route: route, status: status})
}

func (m *fakeMetrics) IncRateLimited(route string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.limited = append(m.limited, route)
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	m := &fakeMetrics{}
	r := mux.NewRouter()
	r.Use(MetricsMiddleware(m))
	r.HandleFunc("/slots/{slotId}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/slots/abc", nil))

	require.Len(t, m.requests, 1)
	assert.Equal(t, recordedRequest{method: http.MethodGet, route: "/slots/{slotId}", status: http.StatusNotFound}, m.requests[0])
}

func TestRateLimiter(t *testing.T) {
	m := &fakeMetrics{}
	rl := NewRateLimiter(1, 2, m)
	now := time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	call := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":5000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1"))
	assert.Equal(t, http.StatusOK, call("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1"))
	assert.Equal(t, http.StatusOK, call("10.0.0.2"), "limits are per client")
	assert.Len(t, m.limited, 1)

	now = now.Add(15 * time.Minute)
	assert.Equal(t, 2, rl.prune(10*time.Minute))
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	assert.Equal(t, "203.0.113.5", clientIP(req))
}
