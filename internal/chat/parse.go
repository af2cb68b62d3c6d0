package chat

import (
	"regexp"
	"strings"
)

var (
	suggestionLine  = regexp.MustCompile(`💡[^\n]*`)
	suggestionQuote = regexp.MustCompile(`"([^"]+)"`)
)

// ParseReply strips the suggestion lines from a model reply. A suggestion
// line starts with 💡 and carries the chips as "quoted" strings up to the end
// of the line.
func ParseReply(text string) (clean string, suggestions []string) {
	clean = suggestionLine.ReplaceAllStringFunc(text, func(line string) string {
		for _, m := range suggestionQuote.FindAllStringSubmatch(line, -1) {
			suggestions = append(suggestions, m[1])
		}
		return ""
	})
	return strings.TrimSpace(clean), suggestions
}
