package matchquery

import (
	"fmt"
	"testing"

	"cricket-query/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ashesSeries() []domain.MatchRecord {
	labels := []string{"1st", "2nd", "3rd", "4th", "5th"}
	records := make([]domain.MatchRecord, 0, len(labels))
	for _, l := range labels {
		records = append(records, domain.MatchRecord{
			Format:     domain.FormatTest,
			URL:        scorecard("the-ashes-2023-1336037", "england-vs-australia", l+"-test"),
			SeriesName: "The Ashes, 2023",
			Season:     "2023",
		})
	}
	return records
}

func TestSearchLastTestRanksHighestOrdinalFirst(t *testing.T) {
	tables := Tables{domain.FormatTest: ashesSeries()}

	results, err := Search(tables, "last test ashes 2023", 5)
	require.NoError(t, err)
	require.Len(t, results, 5)

	assert.Equal(t, "5th", results[0].MatchLabel)
	assert.InDelta(t, 0.9, results[0].Score, 1e-9)
	assert.Equal(t, []string{"England", "Australia"}, results[0].Teams)
	assert.Equal(t, "The Ashes, 2023", results[0].SeriesName)
	assert.Equal(t, "2023", results[0].Season)

	for i, want := range []string{"5th", "4th", "3rd", "2nd", "1st"} {
		assert.Equal(t, want, results[i].MatchLabel)
	}
}

func TestSearchSpecificOrdinal(t *testing.T) {
	tables := Tables{domain.FormatTest: ashesSeries()}

	results, err := Search(tables, "5th test ashes 2023", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "5th", results[0].MatchLabel)
	assert.InDelta(t, 0.95, results[0].Score, 1e-9)
}

func TestSearchTopKAndOrdering(t *testing.T) {
	records := ashesSeries()
	for i := 0; i < 4; i++ {
		records = append(records, domain.MatchRecord{
			URL:        scorecard(fmt.Sprintf("the-ashes-%d", 2001+i*4), "australia-vs-england", "1st-test"),
			SeriesName: fmt.Sprintf("The Ashes, %d", 2001+i*4),
		})
	}
	records = append(records, domain.MatchRecord{URL: "https://example.com/unrelated"})
	tables := Tables{domain.FormatTest: records}

	for _, k := range []int{1, 2, 3, 5, 8, 20} {
		t.Run(fmt.Sprint(k), func(t *testing.T) {
			results, err := Search(tables, "last test ashes 2023", k)
			require.NoError(t, err)
			assert.LessOrEqual(t, len(results), k)
			for i, r := range results {
				assert.Greater(t, r.Score, MinScore)
				if i > 0 {
					assert.GreaterOrEqual(t, results[i-1].Score, r.Score)
				}
				assert.NotEqual(t, "https://example.com/unrelated", r.URL)
			}
		})
	}
}

func TestSearchDefaultTopK(t *testing.T) {
	records := append(ashesSeries(), ashesSeries()...)
	results, err := Search(Tables{domain.FormatTest: records}, "ashes 2023", 0)
	require.NoError(t, err)
	assert.Len(t, results, DefaultTopK)
}

func TestSearchEqualScoresKeepTableOrder(t *testing.T) {
	a := domain.MatchRecord{URL: "https://example.com/a", SeriesName: "The Ashes, 2023"}
	b := domain.MatchRecord{URL: "https://example.com/b", SeriesName: "The Ashes, 2023"}

	results, err := Search(Tables{domain.FormatTest: {a, b}}, "ashes 2023", 5)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, []string{a.URL, b.URL}, []string{results[0].URL, results[1].URL})

	results, err = Search(Tables{domain.FormatTest: {b, a}}, "ashes 2023", 5)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, []string{b.URL, a.URL}, []string{results[0].URL, results[1].URL})
}

func TestSearchSelectsTableByFormat(t *testing.T) {
	odi := domain.MatchRecord{
		URL:        scorecard("wc-2019", "india-vs-australia", "14th-match"),
		SeriesName: "ICC Cricket World Cup, 2019",
		Season:     "2019",
	}
	tables := Tables{
		domain.FormatTest: ashesSeries(),
		domain.FormatODI:  {odi},
	}

	results, err := Search(tables, "odi india australia 2019", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, odi.URL, results[0].URL)
	assert.Equal(t, []string{"India", "Australia"}, results[0].Teams)
	assert.Equal(t, "14th", results[0].MatchLabel)
}

func TestSearchNoMatch(t *testing.T) {
	tables := Tables{domain.FormatTest: ashesSeries()}

	for _, q := range []string{"", "   "} {
		results, err := Search(tables, q, 5)
		require.NoError(t, err)
		assert.Empty(t, results)
	}

	results, err := Search(Tables{domain.FormatTest: {{URL: "https://example.com/x"}}}, "ashes 2023", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchMissingTable(t *testing.T) {
	_, err := Search(Tables{domain.FormatTest: ashesSeries()}, "ipl final 2020", 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTableMissing)
}

func TestSearchDeterministic(t *testing.T) {
	tables := Tables{domain.FormatTest: ashesSeries()}

	first, err := Search(tables, "last test ashes 2023", 3)
	require.NoError(t, err)
	second, err := Search(tables, "last test ashes 2023", 3)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
