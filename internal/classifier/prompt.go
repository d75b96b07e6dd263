package classifier

import (
	"fmt"
	"strings"
)

const systemPrompt = "You route cricket questions to tools. Answer with a single JSON object and nothing else."

const instructionsTemplate = `Decide which tools should answer this cricket query and what each selected tool should be asked.

Query: %q

Available tools:
%s
More than one tool may be selected. For every selected tool give concrete instructions:

1. opinion_rag: five varied search queries for a corpus of human-written blog posts, debates and opinion pieces, plus the aspect to analyse.
2. database_facts: exactly which statistics to fetch, for example a batter's average in tests or across all formats.
3. live_data: which live information is needed, such as scores, commentary or match timings.
4. historical_match: the dates, tournament and teams that identify the match.
5. visualization: the chart type and the data it needs, for example a bar comparison, a line trend or a wagon wheel.

Respond in exactly this JSON shape:
{
  "tools_needed": ["tool1", "tool2"],
  "reasoning": "why these tools were selected",
  "tool_instructions": {
    "opinion_rag": {"rag_queries": ["q1", "q2", "q3", "q4", "q5"], "analysis_focus": "aspect to analyse"},
    "database_facts": {"sql_requirement": "data to fetch", "specific_fields": ["field1"], "filters": "conditions"},
    "live_data": {"data_type": "scores|commentary|weather|standings", "specific_matches": "match criteria"},
    "historical_match": {"date_range": "dates or periods", "tournament": "tournament name", "teams": ["team"]},
    "visualization": {"chart_type": "bar|line|pie|scatter|heatmap", "x_axis": "x data", "y_axis": "y data", "comparison_type": "what to compare"}
  },
  "confidence": 0.95,
  "query_type": "factual|opinion|live|historical|visual"
}

Only include tool_instructions for the selected tools.`

// BuildPrompt renders the tool-selection instructions for query.
func BuildPrompt(query string) string {
	var catalogue strings.Builder
	for i, t := range Tools {
		fmt.Fprintf(&catalogue, "%d. %s: %s\n", i+1, t.Key, t.Description)
	}
	return fmt.Sprintf(instructionsTemplate, query, catalogue.String())
}

// stripFences removes a markdown code fence wrapped around the model output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 && !strings.ContainsAny(s[:nl], "{[") {
		// language tag line, e.g. ```json
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
