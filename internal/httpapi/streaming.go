package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/personaworks/report-gateway/internal/httputil"
	"github.com/personaworks/report-gateway/internal/report"
)

// streamEvent is the payload of a "module" SSE event.
type streamEvent struct {
	Module  string          `json:"module"`
	Content json.RawMessage `json:"content"`
}

// StreamReport delivers the report module by module over SSE. Each module
// is one chain traversal, so the first sections reach the client while the
// later ones are still generating. EventSource only speaks GET, so the
// personality data rides in the query string.
func (h *Handler) StreamReport(w http.ResponseWriter, r *http.Request) {
	reqID := w.Header().Get("X-Request-ID")

	params := paramsFromQuery(r)
	if err := params.Validate(); err != nil {
		httputil.WriteBadRequestError(w, reqID, err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		httputil.WriteInternalError(w, reqID, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	modules := params.RequestedModules()
	key := report.KeyFor(params)

	// Provider calls run on a detached context so a dropped EventSource
	// does not abort an in-flight generation mid-module; the per-provider
	// timeout still bounds every call. The client's context is only
	// consulted between modules.
	genCtx := context.WithoutCancel(r.Context())

	for _, module := range modules {
		if r.Context().Err() != nil {
			slog.Info("stream client disconnected", "request_id", reqID, "module", module)
			return
		}

		frag, err := h.streamModule(genCtx, params, key, module)
		if err != nil {
			slog.Error("stream module failed",
				"request_id", reqID,
				"module", module,
				"error", err,
			)
			writeSSE(w, flusher, "error", httputil.APIError{
				Error:   "Failed to generate report",
				Details: err.Error(),
			})
			return
		}

		content, ok := frag[module]
		if !ok {
			// The provider answered but skipped the module. Key presence is
			// the only success signal, so there is nothing to deliver; move
			// on rather than emit an empty section.
			slog.Warn("provider response skipped module", "request_id", reqID, "module", module)
			continue
		}
		writeSSE(w, flusher, "module", streamEvent{Module: module, Content: content})
		if h.metrics != nil {
			h.metrics.RecordModuleEmitted(module)
		}
	}

	writeSSE(w, flusher, "done", map[string]bool{"ok": true})
}

// streamModule produces a single module, from cache when possible.
func (h *Handler) streamModule(ctx context.Context, params *report.GenerateParams, key report.CacheKey, module string) (report.Fragment, error) {
	if params.Extra == "" {
		if cached, ok := h.cache.Lookup(key, []string{module}); ok {
			if h.metrics != nil {
				h.metrics.RecordCacheHit()
			}
			return cached, nil
		}
	}
	frag, err := h.chain.Generate(ctx, params, []string{module})
	if err != nil {
		return nil, err
	}
	h.cache.Merge(key, frag)
	return frag, nil
}

func paramsFromQuery(r *http.Request) *report.GenerateParams {
	q := r.URL.Query()
	params := &report.GenerateParams{
		MBTI:     q.Get("mbti"),
		MainType: report.FlexString(q.Get("mainType")),
		Subtype:  report.FlexString(q.Get("subtype")),
		Lang:     q.Get("lang"),
		Model:    q.Get("model"),
		Provider: q.Get("provider"),
		Extra:    q.Get("extra"),
	}
	if raw := q.Get("modules"); raw != "" {
		for _, m := range strings.Split(raw, ",") {
			if m = strings.TrimSpace(m); m != "" {
				params.Modules = append(params.Modules, m)
			}
		}
	}
	return params
}

func writeSSE(w http.ResponseWriter, flusher http.Flusher, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("failed to marshal SSE payload", "event", event, "error", err)
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	flusher.Flush()
}
