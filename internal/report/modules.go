package report

// allModules is the canonical order of top-level report sections. Schema
// fragments, full-report requests, and streaming delivery all follow this
// order.
var allModules = []string{
	"traits",
	"overviewSection",
	"combo",
	"decoding",
	"ranking",
	"pastFuture",
	"subjective",
	"career",
	"growth",
	"relationships",
	"summary",
	"guide",
	"prompt",
}

var knownModules = func() map[string]bool {
	m := make(map[string]bool, len(allModules))
	for _, name := range allModules {
		m[name] = true
	}
	return m
}()

// AllModules returns a copy of the canonical module list.
func AllModules() []string {
	out := make([]string, len(allModules))
	copy(out, allModules)
	return out
}

// KnownModule reports whether name is a renderable report section.
func KnownModule(name string) bool {
	return knownModules[name]
}

// FilterModules drops unknown names and duplicates, preserving request order.
func FilterModules(names []string) []string {
	var out []string
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if knownModules[name] && !seen[name] {
			out = append(out, name)
			seen[name] = true
		}
	}
	return out
}
