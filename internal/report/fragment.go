package report

import "encoding/json"

// Fragment is a partial report keyed by module name. Presence of a key is
// the only success signal for a module: no module ever holds null or an
// empty object to mean "pending".
type Fragment map[string]json.RawMessage

// Merge shallow-merges in over cur per top-level key and returns a new
// Fragment. Neither input is mutated; nil inputs are fine. This is the
// incremental-merge reducer the streaming client applies per event, kept
// transport-independent so it can be tested without a stream.
func Merge(cur, in Fragment) Fragment {
	out := make(Fragment, len(cur)+len(in))
	for k, v := range cur {
		out[k] = v
	}
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Missing returns the requested module names absent from f, in request order.
func Missing(requested []string, f Fragment) []string {
	var out []string
	for _, name := range requested {
		if _, ok := f[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}

// Subset returns the fragment restricted to the named modules, and whether
// every one of them was present.
func Subset(f Fragment, modules []string) (Fragment, bool) {
	out := make(Fragment, len(modules))
	complete := true
	for _, name := range modules {
		if v, ok := f[name]; ok {
			out[name] = v
		} else {
			complete = false
		}
	}
	return out, complete
}
