package prompt

import "strings"

// moduleSchemas maps each report section to its literal JSON-shape
// template. Field annotations carry word-count ceilings the model must
// respect. The system prompt embeds the fragments for exactly the
// requested modules, comma-joined in request order.
var moduleSchemas = map[string]string{
	"traits": `"traits": [{"title": "<trait name, <= 6 words>", "desc": "<concrete scenario-grounded description, <= 30 words>"}, "... exactly 4 items"]`,

	"overviewSection": `"overviewSection": {"headline": "<one-line persona headline, <= 12 words>", "paragraphs": ["<paragraph, <= 60 words>", "... 2 items"]}`,

	"combo": `"combo": {"title": "<combination name, <= 8 words>", "synergy": "<how the MBTI and Enneagram types reinforce each other, <= 50 words>", "tension": "<where they pull apart, <= 50 words>"}`,

	"decoding": `"decoding": [{"point": "<behavioral signal, <= 8 words>", "desc": "<what it reveals, <= 30 words>"}, "... exactly 3 items"]`,

	"ranking": `"ranking": [{"area": "<life area, <= 5 words>", "score": "<integer 1-10>", "desc": "<justification, <= 25 words>"}, "... exactly 5 items"]`,

	"pastFuture": `"pastFuture": {"past": "<likely formative pattern, <= 45 words>", "future": "<probable growth trajectory, <= 45 words>"}`,

	"subjective": `"subjective": {"selfView": "<how they see themselves, <= 35 words>", "othersView": "<how others experience them, <= 35 words>", "gap": "<the mismatch, <= 25 words>"}`,

	"career": `"career": {"strengths": [{"title": "<strength, <= 6 words>", "desc": "<workplace scenario, <= 30 words>"}, "... exactly 3 items"], "suggestions": ["<specific role or field, <= 8 words>", "... 4 items"]}`,

	"growth": `"growth": [{"title": "<growth lever, <= 8 words>", "desc": "<actionable first step, <= 30 words>"}, "... exactly 3 items"]`,

	"relationships": `"relationships": {"style": "<attachment and communication style, <= 40 words>", "tips": [{"title": "<tip, <= 8 words>", "desc": "<concrete situation and move, <= 30 words>"}, "... exactly 3 items"]}`,

	"summary": `"summary": {"text": "<integrative closing portrait, <= 80 words>", "keyword": "<single defining word>"}`,

	"guide": `"guide": [{"title": "<daily practice, <= 8 words>", "desc": "<when and how to apply it, <= 30 words>"}, "... exactly 3 items"]`,

	"prompt": `"prompt": {"question": "<one reflective journaling question, <= 25 words>", "hint": "<what to pay attention to while answering, <= 25 words>"}`,
}

// SchemaFragment concatenates the schema templates for the named modules,
// comma-joined in request order. Unknown names contribute nothing. The
// output is deterministic: identical input yields byte-identical output.
func SchemaFragment(modules []string) string {
	var parts []string
	for _, name := range modules {
		if tmpl, ok := moduleSchemas[name]; ok {
			parts = append(parts, tmpl)
		}
	}
	return strings.Join(parts, ",\n")
}
