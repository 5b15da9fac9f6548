package quality

import (
	"fmt"
	"strings"

	"github.com/personaworks/report-gateway/internal/report"
)

// Checker scans generated report fragments for the failure modes the
// refine prompt exists to fix: banned generic trait words slipping
// through, and anchor words the prompt demanded never appearing.
type Checker struct {
	banned  []string
	anchors []string
}

// NewChecker creates a checker for one request's word lists.
func NewChecker(banned, anchors []string) *Checker {
	return &Checker{banned: banned, anchors: anchors}
}

// Check scans frag in requested order and returns the first offending
// module with its itemized issues, or ("", nil) when the fragment is
// clean. Banned words are checked per module; anchor presence is checked
// across the whole fragment and attributed to the first generated module.
func (c *Checker) Check(requested []string, frag report.Fragment) (string, []string) {
	var firstPresent string
	for _, name := range requested {
		raw, ok := frag[name]
		if !ok {
			continue
		}
		if firstPresent == "" {
			firstPresent = name
		}
		var issues []string
		text := string(raw)
		for _, word := range c.banned {
			if strings.Contains(text, word) {
				issues = append(issues, fmt.Sprintf("contains banned word %q", word))
			}
		}
		if len(issues) > 0 {
			return name, issues
		}
	}

	if firstPresent != "" && len(c.anchors) > 0 && !c.anchorsPresent(frag) {
		return firstPresent, []string{"none of the required anchor words appear"}
	}
	return "", nil
}

func (c *Checker) anchorsPresent(frag report.Fragment) bool {
	for _, raw := range frag {
		text := string(raw)
		for _, a := range c.anchors {
			if strings.Contains(text, a) {
				return true
			}
		}
	}
	return false
}
