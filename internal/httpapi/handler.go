package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/personaworks/report-gateway/internal/chain"
	"github.com/personaworks/report-gateway/internal/httputil"
	"github.com/personaworks/report-gateway/internal/report"
	"github.com/personaworks/report-gateway/internal/telemetry"
)

// Handler serves the report generation API. One instance is shared by all
// requests; the coordinator and cache carry their own synchronization.
type Handler struct {
	chain   *chain.Coordinator
	cache   *report.Cache
	metrics *telemetry.Metrics
}

func NewHandler(c *chain.Coordinator, cache *report.Cache, metrics *telemetry.Metrics) *Handler {
	return &Handler{chain: c, cache: cache, metrics: metrics}
}

// Routes mounts the API onto r. apiMiddlewares wrap the /api subtree only,
// so rate limiting never throttles health probes.
func (h *Handler) Routes(r chi.Router, apiMiddlewares ...func(http.Handler) http.Handler) {
	r.Get("/health", h.Health)
	r.Route("/api", func(r chi.Router) {
		r.Use(apiMiddlewares...)
		r.Post("/generate-report", h.GenerateReport)
		r.Get("/generate-report/stream", h.StreamReport)
		r.Get("/providers/status", h.ProviderStatus)
	})
}

// GenerateReport runs one chain traversal for every requested module and
// returns the merged fragment as a single JSON object.
func (h *Handler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	reqID := w.Header().Get("X-Request-ID")
	began := time.Now()

	var params report.GenerateParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		httputil.WriteBadRequestError(w, reqID, "Invalid request body")
		return
	}
	if err := params.Validate(); err != nil {
		httputil.WriteBadRequestError(w, reqID, err.Error())
		return
	}

	modules := params.RequestedModules()
	key := report.KeyFor(&params)

	// Refinement requests carry new instructions, so the cache cannot
	// answer them.
	if params.Extra == "" {
		if cached, ok := h.cache.Lookup(key, modules); ok {
			if h.metrics != nil {
				h.metrics.RecordCacheHit()
				h.metrics.RecordRequest("cache", "success", params.Lang, float64(time.Since(began).Milliseconds()))
			}
			slog.Info("request served from cache",
				"request_id", reqID,
				"mbti", key.MBTI,
				"modules", len(modules),
			)
			h.writeFragment(w, cached)
			return
		}
	}

	frag, err := h.chain.Generate(r.Context(), &params, modules)
	if err != nil {
		slog.Error("report generation failed",
			"request_id", reqID,
			"mbti", key.MBTI,
			"lang", params.Lang,
			"error", err,
		)
		httputil.WriteGenerateFailure(w, reqID, err.Error())
		return
	}

	h.cache.Merge(key, frag)
	if h.metrics != nil {
		for module := range frag {
			h.metrics.RecordModuleEmitted(module)
		}
	}
	slog.Info("request completed",
		"request_id", reqID,
		"mbti", key.MBTI,
		"lang", params.Lang,
		"modules", len(frag),
		"duration_ms", time.Since(began).Milliseconds(),
	)
	h.writeFragment(w, frag)
}

// Health reports process liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// ProviderStatus exposes per-provider outcome counts in chain order. The
// counts are observability only; they never gate routing.
func (h *Handler) ProviderStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"chain":     h.chain.Order(),
		"providers": h.chain.Snapshot(),
	})
}

func (h *Handler) writeFragment(w http.ResponseWriter, frag report.Fragment) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(frag); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}
