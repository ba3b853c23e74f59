package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHandler(t *testing.T) {
	storage := Check{Name: "storage", Ping: func(context.Context) error { return nil }}
	verifier := Check{Name: "verifier", Ping: func(context.Context) error { return errors.New("connection refused") }}
	slow := Check{Name: "slow", Ping: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}}

	tt := []struct {
		name     string
		checks   []Check
		code     int
		healthy  bool
		subjects map[string]string
	}{
		{
			name:     "no checks",
			code:     http.StatusOK,
			healthy:  true,
			subjects: map[string]string{},
		},
		{
			name:     "healthy",
			checks:   []Check{storage},
			code:     http.StatusOK,
			healthy:  true,
			subjects: map[string]string{"storage": "ok"},
		},
		{
			name:     "unhealthy",
			checks:   []Check{storage, verifier},
			code:     http.StatusInternalServerError,
			subjects: map[string]string{"storage": "ok", "verifier": "connection refused"},
		},
		{
			name:     "timeout",
			checks:   []Check{slow},
			code:     http.StatusInternalServerError,
			subjects: map[string]string{"slow": context.DeadlineExceeded.Error()},
		},
	}

	for i := range tt {
		tc := tt[i]

		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/health", nil)

			Handler(50*time.Millisecond, tc.checks...)(w, r)

			require.Equal(t, tc.code, w.Code)
			require.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var report Report
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
			require.Equal(t, "dev", report.Version)
			require.Equal(t, tc.healthy, report.Healthy)
			require.Equal(t, tc.subjects, report.Subjects)
		})
	}
}

func TestRelease(t *testing.T) {
	require.Equal(t, "dev-undefined", Release())
}
