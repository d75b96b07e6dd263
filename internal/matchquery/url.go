package matchquery

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	urlTeamsPattern = regexp.MustCompile(`/([a-zA-Z-]+)-vs-([a-zA-Z-]+)-`)
	leadingDigits   = regexp.MustCompile(`^\d+`)
)

// urlNumberPatterns are tried in order; the first hit names the match.
var urlNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+(?:st|nd|rd|th))-(?:test|odi|t20i|match)`),
	regexp.MustCompile(`(?i)(final|semi-final|qualifier)`),
	regexp.MustCompile(`(?i)(only)-(?:test|odi|t20i)`),
}

// FinalOrdinal ranks finals and semi-finals after any numbered match.
const FinalOrdinal = 999

// ExtractTeams returns the two team names encoded in a match URL as
// "/<team>-vs-<team>-", title cased with hyphens replaced by spaces. It
// returns an empty slice when the URL does not carry teams.
func ExtractTeams(url string) []string {
	m := urlTeamsPattern.FindStringSubmatch(url)
	if m == nil {
		return []string{}
	}

	title := cases.Title(language.English)
	return []string{
		title.String(strings.ReplaceAll(m[1], "-", " ")),
		title.String(strings.ReplaceAll(m[2], "-", " ")),
	}
}

// ExtractMatchNumber returns the match label of a URL ("1st", "final",
// "only", ...) or "" when there is none.
func ExtractMatchNumber(url string) string {
	for _, p := range urlNumberPatterns {
		if m := p.FindStringSubmatch(url); m != nil {
			return m[1]
		}
	}
	return ""
}

// MatchOrdinal converts the match label of a URL to a number: "only" is 1,
// finals are FinalOrdinal, "5th" is 5 and anything else is 0.
func MatchOrdinal(url string) int {
	label := strings.ToLower(ExtractMatchNumber(url))
	switch label {
	case "":
		return 0
	case "only":
		return 1
	case "final", "semi-final":
		return FinalOrdinal
	}

	n, err := strconv.Atoi(leadingDigits.FindString(label))
	if err != nil {
		return 0
	}
	return n
}
