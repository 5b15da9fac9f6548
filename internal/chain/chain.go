package chain

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/personaworks/report-gateway/internal/config"
	"github.com/personaworks/report-gateway/internal/prompt"
	"github.com/personaworks/report-gateway/internal/provider"
	"github.com/personaworks/report-gateway/internal/quality"
	"github.com/personaworks/report-gateway/internal/report"
	"github.com/personaworks/report-gateway/internal/telemetry"
)

// IncompleteError marks a parsed provider response that is missing
// requested modules. Only produced when completeness validation is on.
type IncompleteError struct {
	Provider string
	Missing  []string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("response missing modules: %s", strings.Join(e.Missing, ", "))
}

// ValidateFunc decides whether a parsed provider response counts as
// success for the requested modules. Returning an error advances the
// chain as if the provider had failed.
type ValidateFunc func(requested []string, frag report.Fragment) error

// RequireAll is the completeness hook: every requested module must be
// present. The historical behavior (any parsed JSON is success) is the
// nil hook.
func RequireAll(providerName string) ValidateFunc {
	return func(requested []string, frag report.Fragment) error {
		if missing := report.Missing(requested, frag); len(missing) > 0 {
			return &IncompleteError{Provider: providerName, Missing: missing}
		}
		return nil
	}
}

// Coordinator walks the fixed provider order until one call succeeds.
// This is the single definition of the fallback graph: adapters carry no
// fallback knowledge of their own. One attempt per provider per
// traversal, no backoff, no cross-request breaker — every request
// restarts the chain at its entry point.
type Coordinator struct {
	cfg      func() config.ChainConfig
	adapters func() map[string]provider.Adapter
	stats    *Stats
	metrics  *telemetry.Metrics
}

// New creates a coordinator. cfg and adapters are getters so config
// hot-reload swaps both without restarting in-flight traversals.
func New(cfg func() config.ChainConfig, adapters func() map[string]provider.Adapter, stats *Stats, metrics *telemetry.Metrics) *Coordinator {
	return &Coordinator{cfg: cfg, adapters: adapters, stats: stats, metrics: metrics}
}

// Order returns the current chain order.
func (c *Coordinator) Order() []string {
	cfg := c.cfg()
	out := make([]string, len(cfg.Order))
	copy(out, cfg.Order)
	return out
}

// Generate runs one chain traversal asking for exactly the given modules.
// params must already be validated. The entry provider is
// params.Provider when it names a chain member; entering mid-chain skips
// the providers before it and never loops back. The terminal provider's
// error is returned unchanged when every attempt fails.
func (c *Coordinator) Generate(ctx context.Context, params *report.GenerateParams, modules []string) (report.Fragment, error) {
	cfg := c.cfg()
	adapters := c.adapters()
	began := time.Now()

	systemPrompt := prompt.BuildSystemPrompt(params.Lang, params.MBTI, string(params.MainType), string(params.Subtype), modules)
	userPrompt := prompt.BuildUserPrompt(params.Lang, params.MBTI, string(params.MainType), string(params.Subtype), modules, params.Extra)

	order := cfg.Order
	start := 0
	if params.Provider != "" {
		found := false
		for i, name := range order {
			if name == params.Provider {
				start, found = i, true
				break
			}
		}
		if !found {
			slog.Warn("requested provider not in chain, starting from the top", "provider", params.Provider)
		}
	}

	var lastErr error
	for i := start; i < len(order); i++ {
		name := order[i]
		terminal := i == len(order)-1

		adapter, ok := adapters[name]
		if !ok {
			lastErr = fmt.Errorf("provider %q not configured", name)
			c.recordFailure(name, lastErr, i, order, terminal)
			if terminal {
				c.recordRequest(name, "error", params.Lang, began)
				return nil, lastErr
			}
			continue
		}

		req := &provider.Request{SystemPrompt: systemPrompt, UserPrompt: userPrompt}
		// The override targets the entry provider only; model names are
		// not portable across vendors.
		if i == start {
			req.Model = params.Model
		}

		frag, err := c.callProvider(ctx, adapter, req, cfg.ProviderTimeout)
		if err == nil && cfg.RequireComplete {
			err = RequireAll(name)(modules, frag)
		}
		if err != nil {
			lastErr = err
			c.recordFailure(name, err, i, order, terminal)
			slog.Warn("provider failed",
				"provider", name,
				"terminal", terminal,
				"error", err,
			)
			if terminal {
				c.recordRequest(name, "error", params.Lang, began)
				return nil, lastErr
			}
			continue
		}

		if cfg.AutoRefine {
			frag = c.refine(ctx, adapter, params, modules, frag, cfg.ProviderTimeout)
		}

		c.stats.RecordSuccess(name)
		if c.metrics != nil {
			c.metrics.RecordAttempt(name, "success")
		}
		c.recordRequest(name, "success", params.Lang, began)
		slog.Info("chain succeeded", "provider", name, "position", i, "modules", len(modules))
		return frag, nil
	}

	// Unreachable with a non-empty order; guard for an empty chain config.
	if lastErr == nil {
		lastErr = fmt.Errorf("no providers configured")
	}
	return nil, lastErr
}

func (c *Coordinator) callProvider(ctx context.Context, adapter provider.Adapter, req *provider.Request, timeout time.Duration) (report.Fragment, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return adapter.Generate(callCtx, req)
}

// refine runs the quality check over a successful fragment and retries
// the same provider once with a refine prompt when it is flagged. The
// original fragment survives a failed retry.
func (c *Coordinator) refine(ctx context.Context, adapter provider.Adapter, params *report.GenerateParams, modules []string, frag report.Fragment, timeout time.Duration) report.Fragment {
	base, _ := report.BaseMBTI(params.MBTI)
	checker := quality.NewChecker(
		prompt.BannedWords(params.Lang),
		prompt.Anchors(params.Lang, base, string(params.MainType), string(params.Subtype)),
	)
	module, issues := checker.Check(modules, frag)
	if module == "" {
		return frag
	}

	slog.Info("quality check flagged output, refining",
		"provider", adapter.Name(),
		"module", module,
		"issues", len(issues),
	)

	refineUser := prompt.BuildRefineUserPrompt(params.Lang, params.MBTI, string(params.MainType), string(params.Subtype), modules, module, issues)
	req := &provider.Request{
		SystemPrompt: prompt.BuildSystemPrompt(params.Lang, params.MBTI, string(params.MainType), string(params.Subtype), modules),
		UserPrompt:   refineUser,
	}
	refined, err := c.callProvider(ctx, adapter, req, timeout)
	if err != nil {
		slog.Warn("refine attempt failed, keeping original output",
			"provider", adapter.Name(), "error", err)
		return frag
	}
	return report.Merge(frag, refined)
}

func (c *Coordinator) recordRequest(provider, status, lang string, began time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.RecordRequest(provider, status, lang, float64(time.Since(began).Milliseconds()))
}

func (c *Coordinator) recordFailure(name string, err error, pos int, order []string, terminal bool) {
	c.stats.RecordFailure(name, err)
	if c.metrics == nil {
		return
	}
	c.metrics.RecordAttempt(name, "failure")
	if !terminal {
		c.metrics.RecordFallback(name, order[pos+1])
	}
}

// Snapshot returns per-provider outcome counts in chain order.
func (c *Coordinator) Snapshot() []ProviderStatus {
	return c.stats.Snapshot(c.cfg().Order)
}
