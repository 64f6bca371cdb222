package graph

// Step names a node in the audit trail. Values match what older clients of the
// search API already persist and display.
type Step string

const (
	StepVectorStoreRetrieval  Step = "vector_store_retrieval"
	StepVectorStoreEvaluation Step = "vector_store_evaluation"
	StepWebSearchRetrieval    Step = "web_search_retrieval"
	StepLLMGeneration         Step = "llm_generation"
)

// Tool names recorded with every persisted message.
const (
	ToolVectorSearch = "vector_search"
	ToolWebSearch    = "web_search"
)

// Origin is where a piece of evidence came from. It is kept for auditing only.
type Origin string

const (
	OriginVector Origin = "vector"
	OriginWeb    Origin = "web"
)

// Evidence is one unit of text considered as support for a recommendation.
type Evidence struct {
	Content string  `json:"content"`
	Score   float64 `json:"score"`
	Origin  Origin  `json:"origin"`
}

// Product is a single recommended item with the reason it was picked.
type Product struct {
	Name   string `json:"product_name"`
	Reason string `json:"reason_for_recommendation"`
}

// Recommendation is the structured generator output.
type Recommendation struct {
	Products         []Product `json:"products"`
	ReasoningSummary string    `json:"reasoning_summary"`
}

// State is threaded through every node of one workflow run. It is owned by a
// single Engine.Run call and never shared between requests.
type State struct {
	Query            string
	Namespace        string
	SessionID        int64
	Evidence         []Evidence
	PerformWebSearch bool
	Steps            []Step
	Result           *Recommendation
}

// NewState builds the START state for a query.
func NewState(query, namespace string, sessionID int64) *State {
	return &State{
		Query:     query,
		Namespace: namespace,
		SessionID: sessionID,
		Evidence:  []Evidence{},
		Steps:     []Step{},
	}
}

func (s *State) log(step Step) {
	s.Steps = append(s.Steps, step)
}

// ToolsUsed is the tools-used trace for this run: vector search always, web
// search when the fallback branch was taken.
func (s *State) ToolsUsed() []string {
	tools := []string{ToolVectorSearch}
	if s.PerformWebSearch {
		tools = append(tools, ToolWebSearch)
	}
	return tools
}

// Contents returns the evidence texts in order.
func (s *State) Contents() []string {
	out := make([]string, len(s.Evidence))
	for i, e := range s.Evidence {
		out[i] = e.Content
	}
	return out
}
