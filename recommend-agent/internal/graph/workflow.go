package graph

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Divas-Gupta30/rekomme/recommend-agent/internal/metrics"
)

// Timeouts bound each external call. Zero means no bound beyond the caller's
// context.
type Timeouts struct {
	Retrieve  time.Duration
	Grade     time.Duration
	WebSearch time.Duration
	Generate  time.Duration
}

// Options tune an Engine. The zero value is usable.
type Options struct {
	TopK             int
	GradeConcurrency int
	Timeouts         Timeouts
	Logger           *slog.Logger
}

// Ports are the external services the workflow depends on. They must be safe
// for concurrent use: one Engine serves many requests at once.
type Ports struct {
	Index     IndexSearcher
	Grader    GradeModel
	WebSearch WebSearcher
	Generator GenerateModel
	Recorder  Recorder
}

// Engine runs the fixed recommendation graph:
//
//	retrieve -> grade -> generate
//	                 \-> web search -> generate
type Engine struct {
	retriever *Retriever
	grader    *RelevanceGrader
	web       *WebSearch
	generator *Generator
	timeouts  Timeouts
	logger    *slog.Logger
}

func New(p Ports, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		retriever: NewRetriever(p.Index, opts.TopK),
		grader:    NewRelevanceGrader(p.Grader, opts.GradeConcurrency).WithTimeout(opts.Timeouts.Grade),
		web:       NewWebSearch(p.WebSearch),
		generator: NewGenerator(p.Generator, p.Recorder, logger),
		timeouts:  opts.Timeouts,
		logger:    logger,
	}
}

// Run executes one workflow for query. On a fatal error no state is returned;
// the error is a *StepError carrying the steps completed so far.
func (e *Engine) Run(ctx context.Context, query, namespace string, sessionID int64) (*State, error) {
	s := NewState(query, namespace, sessionID)
	start := time.Now()
	err := e.run(ctx, s)
	metrics.WorkflowRunsTotal.WithLabelValues(metrics.Status(err)).Inc()
	if err != nil {
		e.logger.Error("workflow failed",
			slog.Int64("session_id", sessionID),
			slog.String("namespace", namespace),
			slog.Any("err", err))
		return nil, err
	}
	e.logger.Info("workflow finished",
		slog.Int64("session_id", sessionID),
		slog.Any("steps", s.Steps),
		slog.Int("products", len(s.Result.Products)),
		slog.Duration("took", time.Since(start)))
	return s, nil
}

func (e *Engine) run(ctx context.Context, s *State) error {
	if err := e.exec(ctx, s, StepVectorStoreRetrieval, e.retrieveNode); err != nil {
		return err
	}

	var route Route
	err := e.exec(ctx, s, StepVectorStoreEvaluation, func(ctx context.Context, s *State) error {
		var err error
		route, err = e.gradeNode(ctx, s)
		return err
	})
	if err != nil {
		return err
	}

	switch route {
	case RouteWebSearch:
		metrics.WebSearchFallbacksTotal.Inc()
		if err := e.exec(ctx, s, StepWebSearchRetrieval, e.webSearchNode); err != nil {
			return err
		}
	case RouteGenerate:
	default:
		return &StepError{Step: StepVectorStoreEvaluation, Steps: s.Steps, Err: fmt.Errorf("unknown route %s", route)}
	}

	return e.exec(ctx, s, StepLLMGeneration, e.generateNode)
}

type node func(ctx context.Context, s *State) error

func (e *Engine) exec(ctx context.Context, s *State, step Step, n node) error {
	start := time.Now()
	err := n(ctx, s)
	metrics.WorkflowStepDuration.WithLabelValues(string(step), metrics.Status(err)).Observe(time.Since(start).Seconds())
	if err != nil {
		steps := make([]Step, len(s.Steps))
		copy(steps, s.Steps)
		return &StepError{Step: step, Steps: steps, Err: err}
	}
	e.logger.Debug("step finished",
		slog.String("step", string(step)),
		slog.Int("evidence", len(s.Evidence)),
		slog.Duration("took", time.Since(start)))
	return nil
}

func (e *Engine) retrieveNode(ctx context.Context, s *State) error {
	ctx, cancel := withTimeout(ctx, e.timeouts.Retrieve)
	defer cancel()

	evidence, err := e.retriever.Search(ctx, s.Query, s.Namespace)
	if err != nil {
		return err
	}
	s.Evidence = evidence
	s.log(StepVectorStoreRetrieval)
	return nil
}

func (e *Engine) gradeNode(ctx context.Context, s *State) (Route, error) {
	verdicts, err := e.grader.GradeAll(ctx, s.Query, s.Evidence)
	if err != nil {
		return RouteGenerate, err
	}
	for _, v := range verdicts {
		metrics.GradingVerdictsTotal.WithLabelValues(v.String()).Inc()
	}
	return Decide(s, verdicts), nil
}

// webSearchNode replaces the evidence with web results. Vector items that
// passed grading are dropped: the fallback is a full replacement.
func (e *Engine) webSearchNode(ctx context.Context, s *State) error {
	ctx, cancel := withTimeout(ctx, e.timeouts.WebSearch)
	defer cancel()

	evidence, err := e.web.Search(ctx, s.Query)
	if err != nil {
		return err
	}
	s.Evidence = evidence
	s.log(StepWebSearchRetrieval)
	return nil
}

func (e *Engine) generateNode(ctx context.Context, s *State) error {
	genCtx, cancel := withTimeout(ctx, e.timeouts.Generate)
	defer cancel()

	rec, err := e.generator.Generate(genCtx, s.Query, s.Evidence)
	if err != nil {
		return err
	}
	s.Result = rec
	e.generator.Record(ctx, s)
	s.log(StepLLMGeneration)
	return nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
