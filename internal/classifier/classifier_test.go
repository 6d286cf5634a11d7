package classifier

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"talkitout/internal/models"
)

// stubGenerator scripts the external service for tests.
type stubGenerator struct {
	enabled bool
	reply   string
	err     error
	prompts []string
}

func (s *stubGenerator) Enabled() bool { return s.enabled }

func (s *stubGenerator) Generate(_ context.Context, _, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.reply, s.err
}

func TestClassifyUnconfiguredReturnsSafeDefault(t *testing.T) {
	c := NewClassifier(&stubGenerator{enabled: false}, zap.NewNop())

	got := c.Classify(context.Background(), "anything", false)

	assert.Equal(t, models.SafeDefault(), got)
}

func TestClassifyParsesWellFormedResponse(t *testing.T) {
	stub := &stubGenerator{
		enabled: true,
		reply:   `{"sentiment": "negative", "risk_tags": ["self-harm", "severe-stress"], "severity": 3}`,
	}
	c := NewClassifier(stub, zap.NewNop())

	got := c.Classify(context.Background(), "I can't handle this anymore", false)

	assert.Equal(t, models.SentimentNegative, got.Sentiment)
	assert.Equal(t, []models.RiskTag{models.TagSelfHarm, models.TagSevereStress}, got.RiskTags)
	assert.Equal(t, models.SeverityHigh, got.Severity)
}

func TestClassifyStripsCodeFences(t *testing.T) {
	stub := &stubGenerator{
		enabled: true,
		reply:   "```json\n{\"sentiment\": \"positive\", \"risk_tags\": [], \"severity\": 1}\n```",
	}
	c := NewClassifier(stub, zap.NewNop())

	got := c.Classify(context.Background(), "great day!", false)

	assert.Equal(t, models.SentimentPositive, got.Sentiment)
	assert.Empty(t, got.RiskTags)
	assert.Equal(t, models.SeverityLow, got.Severity)
}

func TestClassifyNeverFails(t *testing.T) {
	cases := map[string]*stubGenerator{
		"network error":     {enabled: true, err: errors.New("connection refused")},
		"malformed json":    {enabled: true, reply: "sorry, I can't do that"},
		"unknown sentiment": {enabled: true, reply: `{"sentiment": "angry", "risk_tags": [], "severity": 1}`},
		"severity too high": {enabled: true, reply: `{"sentiment": "neutral", "risk_tags": [], "severity": 7}`},
		"unknown tag":       {enabled: true, reply: `{"sentiment": "neutral", "risk_tags": ["bullying"], "severity": 2}`},
		"empty response":    {enabled: true, reply: ""},
	}

	for name, stub := range cases {
		t.Run(name, func(t *testing.T) {
			c := NewClassifier(stub, zap.NewNop())

			got := c.Classify(context.Background(), "some message", false)

			assert.Equal(t, models.SafeDefault(), got)
			require.NoError(t, got.Validate())
		})
	}
}

func TestClassifyPseudonymizesBeforeSending(t *testing.T) {
	stub := &stubGenerator{
		enabled: true,
		reply:   `{"sentiment": "neutral", "risk_tags": [], "severity": 1}`,
	}
	c := NewClassifier(stub, zap.NewNop())

	c.Classify(context.Background(), "my name is Dana and my email is d@x.com", false)

	require.Len(t, stub.prompts, 1)
	assert.Contains(t, stub.prompts[0], "[NAME]")
	assert.Contains(t, stub.prompts[0], "[EMAIL]")
	assert.NotContains(t, stub.prompts[0], "Dana")
	assert.NotContains(t, stub.prompts[0], "d@x.com")
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence(`{"a":1}`))
}
