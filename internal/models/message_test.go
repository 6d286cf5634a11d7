package models

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassificationValidate(t *testing.T) {
	valid := Classification{
		Sentiment: SentimentNegative,
		RiskTags:  []RiskTag{TagSelfHarm, TagSevereStress},
		Severity:  SeverityHigh,
	}
	assert.NoError(t, valid.Validate())

	cases := map[string]Classification{
		"unknown sentiment": {Sentiment: "angry", RiskTags: []RiskTag{}, Severity: SeverityLow},
		"severity too high": {Sentiment: SentimentNeutral, RiskTags: []RiskTag{}, Severity: 7},
		"severity zero":     {Sentiment: SentimentNeutral, RiskTags: []RiskTag{}, Severity: 0},
		"unknown tag":       {Sentiment: SentimentNegative, RiskTags: []RiskTag{"sadness"}, Severity: SeverityMedium},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, c.Validate())
		})
	}
}

func TestSafeDefault(t *testing.T) {
	c := SafeDefault()
	assert.Equal(t, SentimentNeutral, c.Sentiment)
	assert.Equal(t, SeverityLow, c.Severity)
	assert.Empty(t, c.RiskTags)
	assert.NoError(t, c.Validate())
}

func TestSetClassification(t *testing.T) {
	msg := &Message{UserID: 1, Role: RoleUser, Text: "hello"}
	msg.SetClassification(Classification{
		Sentiment: SentimentNegative,
		RiskTags:  []RiskTag{TagSelfHarm},
		Severity:  SeverityHigh,
	})

	require.NotNil(t, msg.Sentiment)
	assert.Equal(t, SentimentNegative, *msg.Sentiment)
	require.NotNil(t, msg.Severity)
	assert.Equal(t, SeverityHigh, *msg.Severity)
	assert.Equal(t, pq.StringArray{"self-harm"}, msg.RiskTags)
}

func TestSetClassificationEmptyTags(t *testing.T) {
	msg := &Message{}
	msg.SetClassification(SafeDefault())
	assert.NotNil(t, msg.RiskTags)
	assert.Len(t, msg.RiskTags, 0)
}
