package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMissingPersonality is returned when any of the three required
// personality fields is absent. The text is the client-visible message.
var ErrMissingPersonality = errors.New("Missing personality data (mbti, mainType, subtype are required)")

// GenerateParams is the request to the orchestration layer. It is built
// per HTTP request and discarded after the chain traversal.
type GenerateParams struct {
	MBTI     string     `json:"mbti"`
	MainType FlexString `json:"mainType"`
	Subtype  FlexString `json:"subtype"`
	Lang     string     `json:"lang,omitempty"`
	Modules  []string   `json:"modules,omitempty"`
	// Model overrides the entry provider's default model id. It does not
	// survive a fallback: vendor model names are not portable.
	Model string `json:"model,omitempty"`
	// Provider names the chain entry point. Empty means the first
	// provider in the configured order.
	Provider string `json:"provider,omitempty"`
	// Extra is a free-text refinement instruction appended to the user
	// prompt under a REFINE marker (regenerate / "fix this" flows).
	Extra string `json:"extra,omitempty"`
}

// FlexString accepts both JSON strings and JSON numbers. The web client
// sends Enneagram types either way depending on where the value came from.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string { return string(f) }

var mbtiTypes = map[string]bool{
	"INTJ": true, "INTP": true, "ENTJ": true, "ENTP": true,
	"INFJ": true, "INFP": true, "ENFJ": true, "ENFP": true,
	"ISTJ": true, "ISFJ": true, "ESTJ": true, "ESFJ": true,
	"ISTP": true, "ISFP": true, "ESTP": true, "ESFP": true,
}

// wings is the fixed Enneagram adjacency table: a wing is one of the two
// neighbours on the circle.
var wings = map[int][2]int{
	1: {9, 2}, 2: {1, 3}, 3: {2, 4}, 4: {3, 5}, 5: {4, 6},
	6: {5, 7}, 7: {6, 8}, 8: {7, 9}, 9: {8, 1},
}

// BaseMBTI strips an optional identity suffix ("-A"/"-T" or a bare
// trailing "A"/"T") and reports whether the remaining code is one of the
// 16 canonical types.
func BaseMBTI(s string) (string, bool) {
	code := strings.ToUpper(strings.TrimSpace(s))
	if i := strings.IndexByte(code, '-'); i > 0 {
		code = code[:i]
	} else if len(code) == 5 && (code[4] == 'A' || code[4] == 'T') {
		code = code[:4]
	}
	if mbtiTypes[code] {
		return code, true
	}
	return "", false
}

// ValidWing reports whether sub is a wing of main per the adjacency table.
func ValidWing(main, sub int) bool {
	w, ok := wings[main]
	if !ok {
		return false
	}
	return sub == w[0] || sub == w[1]
}

// Validate normalizes the params in place and returns a client-facing
// error when they cannot produce a report request. Unknown module names
// are silently dropped; a modules list that drops to empty is an error
// because the caller explicitly asked for nothing renderable.
func (p *GenerateParams) Validate() error {
	if strings.TrimSpace(p.MBTI) == "" || p.MainType == "" || p.Subtype == "" {
		return ErrMissingPersonality
	}

	if _, ok := BaseMBTI(p.MBTI); !ok {
		return fmt.Errorf("invalid mbti type: %q", p.MBTI)
	}

	main, err := strconv.Atoi(string(p.MainType))
	if err != nil || main < 1 || main > 9 {
		return fmt.Errorf("invalid enneagram main type: %q", p.MainType)
	}
	sub, err := strconv.Atoi(string(p.Subtype))
	if err != nil || sub < 1 || sub > 9 {
		return fmt.Errorf("invalid enneagram subtype: %q", p.Subtype)
	}
	if !ValidWing(main, sub) {
		return fmt.Errorf("subtype %d is not a wing of type %d", sub, main)
	}

	switch p.Lang {
	case "":
		p.Lang = "zh"
	case "zh", "en":
	default:
		return fmt.Errorf("unsupported lang: %q", p.Lang)
	}

	if p.Modules != nil {
		filtered := FilterModules(p.Modules)
		if len(filtered) == 0 {
			return errors.New("modules contains no known report sections")
		}
		p.Modules = filtered
	}

	return nil
}

// RequestedModules returns the module list the chain should ask for:
// the validated subset, or every known module when none were named.
func (p *GenerateParams) RequestedModules() []string {
	if len(p.Modules) == 0 {
		return AllModules()
	}
	return p.Modules
}
