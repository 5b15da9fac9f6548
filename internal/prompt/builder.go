package prompt

import (
	"fmt"
	"strings"

	"github.com/personaworks/report-gateway/internal/report"
)

// Builders are pure string construction: no I/O, no failure mode, and
// byte-identical output for identical input.

const commonRules = `You are a senior personality analyst writing a paid-grade MBTI x Enneagram report.
Tone: precise, warm, never flattering, never clinical.
Never produce medical, diagnostic, or self-harm related content; if a section would require it, write a neutral growth-oriented alternative instead.
Output STRICT JSON only: one single JSON object, no markdown fences, no commentary before or after, no trailing commas.`

const langRulesZH = `所有字符串必须使用中文。唯一例外是专有名词与 MBTI 代码（如 INTJ），出现时必须立即用中文括号注释，例如 "INTJ（建筑师型）"。`

const langRulesEN = `Every string must be written in English. The only exception is proper nouns; MBTI codes like INTJ need no gloss. Chinese characters are forbidden outside proper nouns.`

const qualityGuard = `Quality guard: generic trait words are banned (list follows in the user message). Every claim must be grounded in a concrete, recognizable everyday scenario rather than an abstract label.`

// BuildSystemPrompt assembles the system prompt: common rules, language
// rules, quality guard, and the literal JSON schema fragment for exactly
// the requested modules.
func BuildSystemPrompt(lang, mbti, mainType, subtype string, modules []string) string {
	langRules := langRulesEN
	if lang == "zh" {
		langRules = langRulesZH
	}

	var b strings.Builder
	b.WriteString(commonRules)
	b.WriteString("\n\n")
	b.WriteString(langRules)
	b.WriteString("\n\n")
	b.WriteString(qualityGuard)
	b.WriteString("\n\nThe JSON object must contain exactly these top-level keys, shaped as follows:\n{\n")
	b.WriteString(SchemaFragment(modules))
	b.WriteString("\n}")
	return b.String()
}

// BuildUserPrompt assembles the user prompt: task statement, language
// exclusivity, anchor words, banned words, and the module coverage
// instruction. When extra is non-empty it is appended verbatim under a
// REFINE marker so the model sees the original constraints plus the fix
// instructions.
func BuildUserPrompt(lang, mbti, mainType, subtype string, modules []string, extra string) string {
	var b strings.Builder
	b.WriteString(taskStatement(lang, mbti, mainType, subtype))
	b.WriteString("\n\n")
	b.WriteString(languageConstraint(lang))

	base, _ := report.BaseMBTI(mbti)
	if anchors := Anchors(lang, base, mainType, subtype); len(anchors) > 0 {
		b.WriteString("\n\nAnchor words — each must appear at least once across titles or descriptions: ")
		b.WriteString(strings.Join(anchors, ", "))
	}

	b.WriteString("\n\nBanned words — never use any of these: ")
	b.WriteString(strings.Join(BannedWords(lang), ", "))

	b.WriteString("\n\nCover every one of these modules and no others: ")
	b.WriteString(strings.Join(modules, ", "))

	if extra != "" {
		b.WriteString("\n\nREFINE: ")
		b.WriteString(extra)
	}
	return b.String()
}

// BuildRefineUserPrompt is the regeneration variant: it names the
// offending module and the itemized issues found in the previous attempt.
func BuildRefineUserPrompt(lang, mbti, mainType, subtype string, modules []string, module string, issues []string) string {
	var fix strings.Builder
	fmt.Fprintf(&fix, "the %q module of your previous answer failed the quality check. Issues: ", module)
	for i, issue := range issues {
		if i > 0 {
			fix.WriteString("; ")
		}
		fmt.Fprintf(&fix, "(%d) %s", i+1, issue)
	}
	fix.WriteString(". Regenerate with these fixed while keeping every original constraint.")
	return BuildUserPrompt(lang, mbti, mainType, subtype, modules, fix.String())
}

func taskStatement(lang, mbti, mainType, subtype string) string {
	if lang == "zh" {
		return fmt.Sprintf("请为 MBTI 类型 %s、九型人格主型 %s（侧翼 %s）的用户生成人格分析报告。", mbti, mainType, subtype)
	}
	return fmt.Sprintf("Generate a personality analysis report for a user with MBTI type %s and Enneagram type %s wing %s.", mbti, mainType, subtype)
}

func languageConstraint(lang string) string {
	if lang == "zh" {
		return "输出语言必须全部为中文，英文仅允许出现在专有名词与 MBTI 代码中，且必须立即附中文注释。"
	}
	return "Write exclusively in English. Chinese characters are forbidden outside proper nouns."
}
