// Package health serves the liveness report of the service and its dependencies.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Set with -ldflags "-X github.com/Decentr-net/agora/internal/health.version=...".
// nolint:gochecknoglobals
var (
	version = "dev"
	commit  = "undefined"
)

// nolint:gochecknoglobals
var log = logrus.WithField("layer", "api").WithField("package", "health")

const statusOK = "ok"

// Release identifies the build, e.g. in sentry events.
func Release() string {
	return version + "-" + commit
}

// Check is a named dependency probe.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

// Report is the body of health response. Subjects holds "ok" or the error of every check.
type Report struct {
	Version  string            `json:"version"`
	Commit   string            `json:"commit"`
	Healthy  bool              `json:"healthy"`
	Subjects map[string]string `json:"subjects"`
}

// Handler runs all checks concurrently within timeout. Any failed check makes the response 500.
func Handler(timeout time.Duration, checks ...Check) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		report := Report{
			Version:  version,
			Commit:   commit,
			Healthy:  true,
			Subjects: make(map[string]string, len(checks)),
		}

		var (
			gr errgroup.Group
			mu sync.Mutex
		)

		for i := range checks {
			c := checks[i]
			gr.Go(func() error {
				status := statusOK
				if err := c.Ping(ctx); err != nil {
					log.WithError(err).WithField("subject", c.Name).Error("health check failed")
					status = err.Error()
				}

				mu.Lock()
				defer mu.Unlock()

				report.Subjects[c.Name] = status
				report.Healthy = report.Healthy && status == statusOK

				return nil
			})
		}
		_ = gr.Wait()

		code := http.StatusOK
		if !report.Healthy {
			code = http.StatusInternalServerError
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)

		if err := json.NewEncoder(w).Encode(report); err != nil {
			log.WithError(err).Error("failed to write health report")
		}
	}
}
