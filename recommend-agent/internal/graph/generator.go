package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Divas-Gupta30/rekomme/recommend-agent/internal/metrics"
)

// GenerateModel is the boundary to the generation model. It returns the raw
// model text; parsing into a Recommendation happens here, not in the adapter.
type GenerateModel interface {
	Generate(ctx context.Context, query, formattedEvidence string) (string, error)
}

// Sender identifies who authored a recorded message.
type Sender string

const (
	SenderUser   Sender = "user"
	SenderSystem Sender = "system"
)

// Message is one recorded interaction.
type Message struct {
	Content    string
	SessionID  int64
	References []string
	Sender     Sender
	ToolsUsed  []string
}

// Recorder persists messages. Failures are logged by the caller, never fatal.
type Recorder interface {
	RecordMessage(ctx context.Context, msg Message) error
}

// Generator turns evidence into a structured recommendation and records the
// exchange.
type Generator struct {
	model    GenerateModel
	recorder Recorder
	logger   *slog.Logger
}

func NewGenerator(model GenerateModel, recorder Recorder, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{model: model, recorder: recorder, logger: logger}
}

// FormatEvidence renders evidence as a 1-based numbered list, one item per line.
func FormatEvidence(items []Evidence) string {
	var b strings.Builder
	for i, e := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %s", i+1, e.Content)
	}
	return b.String()
}

// Generate asks the model for a recommendation. A model failure or a reply
// that does not parse is fatal and nothing is recorded.
func (g *Generator) Generate(ctx context.Context, query string, evidence []Evidence) (*Recommendation, error) {
	raw, err := g.model.Generate(ctx, query, FormatEvidence(evidence))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationUnavailable, err)
	}
	return ParseRecommendation(raw)
}

// Record writes the user query and the serialized answer as two independent
// messages. A failed write is logged and does not stop the other.
func (g *Generator) Record(ctx context.Context, s *State) {
	if g.recorder == nil {
		return
	}
	tools := s.ToolsUsed()
	answer, err := json.Marshal(s.Result)
	if err != nil {
		// Recommendation only holds strings; this cannot fail in practice.
		g.logger.Error("marshal recommendation", slog.Any("err", err))
		return
	}

	msgs := []Message{
		{Content: s.Query, SessionID: s.SessionID, References: []string{}, Sender: SenderUser, ToolsUsed: tools},
		{Content: string(answer), SessionID: s.SessionID, References: s.Contents(), Sender: SenderSystem, ToolsUsed: tools},
	}
	for _, m := range msgs {
		if err := g.recorder.RecordMessage(ctx, m); err != nil {
			g.logger.Warn("record message",
				slog.Int64("session_id", s.SessionID),
				slog.String("sender", string(m.Sender)),
				slog.Any("err", fmt.Errorf("%w: %w", ErrPersistence, err)))
			metrics.RecorderFailuresTotal.WithLabelValues(string(m.Sender)).Inc()
		}
	}
}

type wireProduct struct {
	Name   *string `json:"product_name"`
	Reason *string `json:"reason_for_recommendation"`
}

type wireRecommendation struct {
	Products         *[]wireProduct `json:"products"`
	ReasoningSummary *string        `json:"reasoning_summary"`
}

// ParseRecommendation decodes the model reply. The reply may be wrapped in a
// Markdown code fence. Every field is required; products may be an empty list.
func ParseRecommendation(raw string) (*Recommendation, error) {
	body := stripCodeFence(raw)
	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	var w wireRecommendation
	if err := dec.Decode(&w); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationParse, err)
	}
	if w.Products == nil {
		return nil, fmt.Errorf("%w: missing products", ErrGenerationParse)
	}
	if w.ReasoningSummary == nil {
		return nil, fmt.Errorf("%w: missing reasoning_summary", ErrGenerationParse)
	}

	rec := &Recommendation{
		Products:         make([]Product, 0, len(*w.Products)),
		ReasoningSummary: *w.ReasoningSummary,
	}
	for i, p := range *w.Products {
		if p.Name == nil || p.Reason == nil {
			return nil, fmt.Errorf("%w: product %d missing name or reason", ErrGenerationParse, i)
		}
		rec.Products = append(rec.Products, Product{Name: *p.Name, Reason: *p.Reason})
	}
	return rec, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// drop the info string, e.g. "json"
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
