package graph

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

type fakeIndex struct {
	hits []ScoredText
	err  error

	mu        sync.Mutex
	namespace string
	k         int
}

func (f *fakeIndex) Search(ctx context.Context, query, namespace string, k int) ([]ScoredText, error) {
	f.mu.Lock()
	f.namespace, f.k = namespace, k
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]ScoredText(nil), f.hits...), nil
}

// fakeGrader answers from verdicts keyed by content; unknown content gets def.
type fakeGrader struct {
	verdicts map[string]string
	def      string
	err      error
	delay    func(content string) time.Duration

	mu    sync.Mutex
	calls []string
}

func (f *fakeGrader) Grade(ctx context.Context, query, content string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, content)
	f.mu.Unlock()
	if f.delay != nil {
		select {
		case <-time.After(f.delay(content)):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.err != nil {
		return "", f.err
	}
	if v, ok := f.verdicts[content]; ok {
		return v, nil
	}
	return f.def, nil
}

type fakeWeb struct {
	snippets []string
	err      error
	calls    int
}

func (f *fakeWeb) Search(ctx context.Context, query string) ([]string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.snippets, nil
}

type fakeGenerator struct {
	reply string
	err   error
	block bool

	calls     int
	evidence  string
	lastQuery string
}

func (f *fakeGenerator) Generate(ctx context.Context, query, formattedEvidence string) (string, error) {
	f.calls++
	f.lastQuery, f.evidence = query, formattedEvidence
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakeRecorder struct {
	failOn map[int]bool

	attempts int
	messages []Message
}

func (f *fakeRecorder) RecordMessage(ctx context.Context, msg Message) error {
	f.attempts++
	if f.failOn[f.attempts] {
		return errors.New("insert failed")
	}
	f.messages = append(f.messages, msg)
	return nil
}

const okReply = `{"products":[{"product_name":"Sony WH-1000XM5","reason_for_recommendation":"best in class noise cancelling"}],"reasoning_summary":"most praised in threads"}`

func sixHits() []ScoredText {
	hits := make([]ScoredText, 6)
	for i := range hits {
		hits[i] = ScoredText{Content: fmt.Sprintf("doc-%d", i), Score: 0.9 - float64(i)*0.1}
	}
	return hits
}
