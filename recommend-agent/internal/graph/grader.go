package graph

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Verdict is the binary relevance classification of one evidence item.
type Verdict int

const (
	Irrelevant Verdict = iota
	Relevant
)

func (v Verdict) String() string {
	if v == Relevant {
		return "relevant"
	}
	return "irrelevant"
}

// GradeModel is the boundary to the relevance classifier. It returns the raw
// verdict text; an error means the classifier could not be called at all.
type GradeModel interface {
	Grade(ctx context.Context, query, content string) (string, error)
}

// VerdictFromModel maps a raw classifier answer to a verdict. Only "yes"
// (ignoring case and surrounding whitespace) is relevant; empty, malformed or
// any other answer is irrelevant so grader noise never blocks the pipeline.
func VerdictFromModel(raw string) Verdict {
	if strings.EqualFold(strings.TrimSpace(raw), "yes") {
		return Relevant
	}
	return Irrelevant
}

// RelevanceGrader classifies evidence against the query.
type RelevanceGrader struct {
	model       GradeModel
	concurrency int
	timeout     time.Duration
}

// NewRelevanceGrader grades up to concurrency items at once; anything below 2
// grades sequentially in retrieval order.
func NewRelevanceGrader(model GradeModel, concurrency int) *RelevanceGrader {
	if concurrency < 1 {
		concurrency = 1
	}
	return &RelevanceGrader{model: model, concurrency: concurrency}
}

// WithTimeout bounds every classifier call by d.
func (g *RelevanceGrader) WithTimeout(d time.Duration) *RelevanceGrader {
	g.timeout = d
	return g
}

func (g *RelevanceGrader) Grade(ctx context.Context, query string, item Evidence) (Verdict, error) {
	ctx, cancel := withTimeout(ctx, g.timeout)
	defer cancel()

	raw, err := g.model.Grade(ctx, query, item.Content)
	if err != nil {
		return Irrelevant, fmt.Errorf("%w: %w", ErrGradingUnavailable, err)
	}
	return VerdictFromModel(raw), nil
}

// GradeAll returns one verdict per item, index-aligned with items regardless of
// the order concurrent calls complete in.
func (g *RelevanceGrader) GradeAll(ctx context.Context, query string, items []Evidence) ([]Verdict, error) {
	verdicts := make([]Verdict, len(items))
	if g.concurrency == 1 {
		for i, item := range items {
			v, err := g.Grade(ctx, query, item)
			if err != nil {
				return nil, err
			}
			verdicts[i] = v
		}
		return verdicts, nil
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.concurrency)
	for i, item := range items {
		eg.Go(func() error {
			v, err := g.Grade(egCtx, query, item)
			if err != nil {
				return err
			}
			verdicts[i] = v
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return verdicts, nil
}

// Route is the branch taken after grading.
type Route int

const (
	RouteGenerate Route = iota
	RouteWebSearch
)

func (r Route) String() string {
	switch r {
	case RouteGenerate:
		return "generate"
	case RouteWebSearch:
		return "web_search"
	default:
		return fmt.Sprintf("route(%d)", int(r))
	}
}

// Partition splits items by verdict, keeping retrieval order in both halves.
func Partition(items []Evidence, verdicts []Verdict) (kept, dropped []Evidence) {
	kept = []Evidence{}
	for i, item := range items {
		if verdicts[i] == Relevant {
			kept = append(kept, item)
		} else {
			dropped = append(dropped, item)
		}
	}
	return kept, dropped
}

// Decide applies the routing policy to s: a single irrelevant item is enough to
// request a web search. Evidence is replaced by the kept items either way.
func Decide(s *State, verdicts []Verdict) Route {
	kept, dropped := Partition(s.Evidence, verdicts)
	route := RouteGenerate
	if len(dropped) > 0 {
		s.PerformWebSearch = true
		s.log(StepVectorStoreEvaluation)
		route = RouteWebSearch
	}
	s.Evidence = kept
	return route
}
