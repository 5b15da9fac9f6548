package prompt

// Banned generic trait words. The quality guard in the system prompt
// forbids these outright; the post-generation quality check scans output
// for them. Every entry is a word models reach for when they have nothing
// concrete to say.

var bannedWordsZH = []string{
	"完美主义",
	"追求卓越",
	"情商高",
	"乐于助人",
	"有责任心",
	"善于沟通",
	"富有创造力",
	"积极向上",
	"全面发展",
	"独一无二",
}

var bannedWordsEN = []string{
	"perfectionist",
	"hard-working",
	"people person",
	"team player",
	"detail-oriented",
	"well-rounded",
	"go-getter",
	"passionate",
	"unique individual",
	"great communicator",
}

// BannedWords returns the banned generic-word list for lang.
func BannedWords(lang string) []string {
	if lang == "zh" {
		return bannedWordsZH
	}
	return bannedWordsEN
}
