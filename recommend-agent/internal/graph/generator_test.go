package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatEvidence(t *testing.T) {
	assert.Equal(t, "", FormatEvidence(nil))
	assert.Equal(t, "1. first\n2. second", FormatEvidence([]Evidence{{Content: "first"}, {Content: "second"}}))
}

func TestParseRecommendation(t *testing.T) {
	t.Run("plain json", func(t *testing.T) {
		rec, err := ParseRecommendation(okReply)
		require.NoError(t, err)
		assert.Equal(t, []Product{{Name: "Sony WH-1000XM5", Reason: "best in class noise cancelling"}}, rec.Products)
		assert.Equal(t, "most praised in threads", rec.ReasoningSummary)
	})

	t.Run("fenced json", func(t *testing.T) {
		rec, err := ParseRecommendation("```json\n" + okReply + "\n```")
		require.NoError(t, err)
		assert.Len(t, rec.Products, 1)
	})

	t.Run("empty products", func(t *testing.T) {
		rec, err := ParseRecommendation(`{"products":[],"reasoning_summary":""}`)
		require.NoError(t, err)
		assert.NotNil(t, rec.Products)
		assert.Empty(t, rec.Products)
	})

	failures := map[string]string{
		"prose":            "I recommend the Bose QC45.",
		"missing products": `{"reasoning_summary":"x"}`,
		"null products":    `{"products":null,"reasoning_summary":"x"}`,
		"missing summary":  `{"products":[]}`,
		"product no name":  `{"products":[{"reason_for_recommendation":"r"}],"reasoning_summary":"x"}`,
		"wrong type":       `{"products":"Bose","reasoning_summary":"x"}`,
		"empty":            "",
	}
	for name, raw := range failures {
		t.Run(name, func(t *testing.T) {
			_, err := ParseRecommendation(raw)
			assert.ErrorIs(t, err, ErrGenerationParse)
		})
	}
}

func TestGenerator_RecordSkippedWithoutRecorder(t *testing.T) {
	g := NewGenerator(&fakeGenerator{reply: okReply}, nil, nil)
	s := NewState("q", "", 1)
	s.Result = &Recommendation{Products: []Product{}}

	assert.NotPanics(t, func() { g.Record(context.Background(), s) })
}

func TestGenerator_FirstWriteFailureStillWritesSecond(t *testing.T) {
	rec := &fakeRecorder{failOn: map[int]bool{1: true}}
	g := NewGenerator(&fakeGenerator{reply: okReply}, rec, nil)
	s := NewState("q", "", 1)
	s.Result = &Recommendation{Products: []Product{}}

	g.Record(context.Background(), s)

	assert.Equal(t, 2, rec.attempts)
	require.Len(t, rec.messages, 1)
	assert.Equal(t, SenderSystem, rec.messages[0].Sender)
}
