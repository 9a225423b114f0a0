package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shuldan/ioc/pkg/container"
	"github.com/shuldan/ioc/pkg/contracts"
)

type report struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// NewHandler serves the health report and bean snapshots of root:
//
//	GET /health           probes every contracts.HealthChecker bean
//	GET /beans            every bean in the tree
//	GET /beans/{context}  beans of one context
func NewHandler(root *container.Context, log contracts.Logger, checkTimeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		log.Debug("health check endpoint hit", "remote_addr", req.RemoteAddr)

		ctx, cancel := context.WithTimeout(req.Context(), checkTimeout)
		defer cancel()

		rep := check(ctx, root, log)
		status := http.StatusOK
		if rep.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, rep)
	})

	r.Get("/beans", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, root.Snapshot())
	})

	r.Get("/beans/{context}", func(w http.ResponseWriter, req *http.Request) {
		name := chi.URLParam(req, "context")
		beans := make([]container.BeanInfo, 0)
		for _, b := range root.Snapshot() {
			if b.Context == name {
				beans = append(beans, b)
			}
		}
		if len(beans) == 0 {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no beans in context " + name})
			return
		}
		writeJSON(w, http.StatusOK, beans)
	})

	return r
}

func check(ctx context.Context, root *container.Context, log contracts.Logger) report {
	rep := report{Status: "ok", Checks: map[string]string{}}

	checkers, err := container.GetBeans[contracts.HealthChecker](root)
	if err != nil {
		log.Warn("health checkers unavailable", "error", err)
		rep.Status = "failing"
		rep.Checks["container"] = err.Error()
		return rep
	}

	sort.Slice(checkers, func(i, j int) bool { return checkers[i].Name() < checkers[j].Name() })
	for _, c := range checkers {
		if err := c.Check(ctx); err != nil {
			rep.Status = "failing"
			rep.Checks[c.Name()] = err.Error()
			continue
		}
		rep.Checks[c.Name()] = "ok"
	}
	return rep
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
