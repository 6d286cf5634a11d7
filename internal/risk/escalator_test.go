package risk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"talkitout/internal/models"
)

func TestEscalateHighSeverityPrependsCrisisMessage(t *testing.T) {
	got := Escalate("take a deep breath", models.SeverityHigh)

	assert.True(t, strings.HasPrefix(got, CrisisMessage))
	assert.True(t, strings.HasSuffix(got, "\n\ntake a deep breath"))
}

func TestEscalateBelowThresholdReturnsReplyUnchanged(t *testing.T) {
	assert.Equal(t, "sounds tough", Escalate("sounds tough", models.SeverityLow))
	assert.Equal(t, "sounds tough", Escalate("sounds tough", models.SeverityMedium))
}

func TestShouldFlagRequiresBothConditions(t *testing.T) {
	cases := []struct {
		name string
		c    models.Classification
		want bool
	}{
		{"high severity without tags", models.Classification{Sentiment: models.SentimentNegative, RiskTags: []models.RiskTag{}, Severity: models.SeverityHigh}, false},
		{"medium severity with tag", models.Classification{Sentiment: models.SentimentNegative, RiskTags: []models.RiskTag{models.TagSevereStress}, Severity: models.SeverityMedium}, true},
		{"low severity with tag", models.Classification{Sentiment: models.SentimentNegative, RiskTags: []models.RiskTag{models.TagSelfHarm}, Severity: models.SeverityLow}, false},
		{"high severity with tags", models.Classification{Sentiment: models.SentimentNegative, RiskTags: []models.RiskTag{models.TagSelfHarm, models.TagSevereStress}, Severity: models.SeverityHigh}, true},
		{"safe default", models.SafeDefault(), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ShouldFlag(tc.c))
		})
	}
}
