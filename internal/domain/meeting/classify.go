package meeting

import "strings"

// technicalKeywords are the title fragments that mark a technical meeting.
// Matching is case-insensitive substring, so bracketed variants are listed
// explicitly.
var technicalKeywords = []string{
	"тех.встреча",
	"тех. встреча",
	"техвстреча",
	"тех встреча",
	"технич. встреча",
	"техничиская встреча",
	"техническая встреча",
	"техническая",
	"technical meeting",
	"тех.вкс",
	"тех. вкс",
	"тех.созвон",
	"тех. созвон",
	"тех созвон",
	"[тех встреча]",
	"(тех встреча)",
	"техконсультация",
	"тех.консультация",
	"технические вопросы",
}

// IsTechnical reports whether the title denotes a technical meeting.
func IsTechnical(title string) bool {
	lower := strings.ToLower(title)
	for _, k := range technicalKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// IsExcludedPlanning reports whether the title is one of the recurring
// support planning meetings that never get announced or synced. Exact match
// only, not substring, so an unrelated meeting sharing a word is never
// excluded.
func IsExcludedPlanning(title string) bool {
	t := strings.TrimSpace(strings.ToLower(title))
	return t == "support планёрка" || t == "большая планерка"
}
