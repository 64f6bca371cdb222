package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// Completer is the part of Client the adapters need.
type Completer interface {
	Complete(ctx context.Context, system, user string, jsonMode bool) (string, error)
}

// Grader asks the model for a {"score": "yes"|"no"} verdict.
type Grader struct {
	llm Completer
}

func NewGrader(llm Completer) *Grader {
	return &Grader{llm: llm}
}

// Grade returns the raw score. A reply that is not the expected JSON yields an
// empty score, which the workflow treats as irrelevant; only a failed call is
// an error.
func (g *Grader) Grade(ctx context.Context, query, content string) (string, error) {
	reply, err := g.llm.Complete(ctx, graderSystemPrompt, fmt.Sprintf(graderUserPrompt, content, query), true)
	if err != nil {
		return "", err
	}
	var out struct {
		Score string `json:"score"`
	}
	if err := json.Unmarshal([]byte(reply), &out); err != nil {
		slog.Debug("grader reply is not json", slog.String("reply", truncate(reply, 200)))
		return "", nil
	}
	return out.Score, nil
}

// Recommender asks the model for a JSON recommendation.
type Recommender struct {
	llm Completer
}

func NewRecommender(llm Completer) *Recommender {
	return &Recommender{llm: llm}
}

func (r *Recommender) Generate(ctx context.Context, query, formattedEvidence string) (string, error) {
	return r.llm.Complete(ctx, recommendSystemPrompt, fmt.Sprintf(recommendUserPrompt, query, formattedEvidence), true)
}
