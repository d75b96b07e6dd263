package matchquery

import (
	"regexp"
	"strings"

	"cricket-query/internal/domain"
)

// teamPatterns hold the country vocabulary followed by the franchise one.
var teamPatterns = []*regexp.Regexp{
	regexp.MustCompile(`india|australia|england|pakistan|south africa|new zealand|sri lanka|bangladesh|zimbabwe|west indies`),
	regexp.MustCompile(`mumbai|chennai|bangalore|delhi|kolkata|punjab|rajasthan|hyderabad|deccan`),
}

var (
	yearPattern         = regexp.MustCompile(`\b(?:19|20)\d{2}(?:/\d{2})?\b`)
	queryOrdinalPattern = regexp.MustCompile(`\b(\d+(?:st|nd|rd|th))\s*(?:test|odi|t20|match)\b`)
	queryKeywordPattern = regexp.MustCompile(`\b(final|semi-final|qualifier|only)\b`)
)

// LastMatch is the MatchNumber recorded when a query asks for the last match
// of a series.
const LastMatch = "last"

// Query is the structured form of a natural-language match query. Fields are
// extracted independently of one another.
type Query struct {
	Format      domain.Format `json:"format"`
	Teams       []string      `json:"teams"`
	Year        string        `json:"year"`
	MatchNumber string        `json:"match_number"`
	Original    string        `json:"original_query"`
}

func ParseQuery(query string) Query {
	lower := strings.ToLower(query)

	q := Query{
		Format:   detectFormat(lower),
		Teams:    []string{},
		Original: query,
	}

	for _, p := range teamPatterns {
		q.Teams = append(q.Teams, p.FindAllString(lower, -1)...)
	}

	q.Year = yearPattern.FindString(query)

	if strings.Contains(lower, LastMatch) {
		q.MatchNumber = LastMatch
	} else if m := queryOrdinalPattern.FindStringSubmatch(lower); m != nil {
		q.MatchNumber = m[1]
	} else if m := queryKeywordPattern.FindStringSubmatch(lower); m != nil {
		q.MatchNumber = m[1]
	}

	return q
}

// detectFormat picks the first format whose keywords occur in the lowercased
// query and defaults to Test.
func detectFormat(lower string) domain.Format {
	keywords := []struct {
		format domain.Format
		words  []string
	}{
		{domain.FormatODI, []string{"odi", "one day"}},
		{domain.FormatT20I, []string{"t20", "twenty20"}},
		{domain.FormatIPL, []string{"ipl", "indian premier league"}},
	}

	for _, k := range keywords {
		for _, w := range k.words {
			if strings.Contains(lower, w) {
				return k.format
			}
		}
	}
	return domain.FormatTest
}
