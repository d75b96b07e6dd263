package classifier

// Tool is one downstream tool of the question-answering pipeline that a
// query can be routed to.
type Tool struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Purpose     string `json:"purpose"`
}

const (
	ToolOpinionRAG      = "opinion_rag"
	ToolDatabaseFacts   = "database_facts"
	ToolLiveData        = "live_data"
	ToolHistoricalMatch = "historical_match"
	ToolVisualization   = "visualization"
)

// Tools is the catalogue offered to the model, in prompt order.
var Tools = []Tool{
	{
		Key:         ToolOpinionRAG,
		Name:        "Opinion Analysis Tool",
		Description: "For subjective analysis, comparisons, explanations, 'why' questions",
		Purpose:     "Generate 5 search queries for RAG system",
	},
	{
		Key:         ToolDatabaseFacts,
		Name:        "Database Facts Tool",
		Description: "For direct factual data like runs, averages, records, 'who has more'",
		Purpose:     "Convert to SQL query requirement",
	},
	{
		Key:         ToolLiveData,
		Name:        "Live Data Tool",
		Description: "For current/ongoing matches, today's games, live scores",
		Purpose:     "Fetch real-time cricket data",
	},
	{
		Key:         ToolHistoricalMatch,
		Name:        "Historical Match Tool",
		Description: "For specific past matches, tournaments, dates",
		Purpose:     "Find specific match records",
	},
	{
		Key:         ToolVisualization,
		Name:        "Visualization Tool",
		Description: "For queries asking for charts, graphs, trends, visual data",
		Purpose:     "Generate charts and graphs",
	},
}

func LookupTool(key string) (Tool, bool) {
	for _, t := range Tools {
		if t.Key == key {
			return t, true
		}
	}
	return Tool{}, false
}
