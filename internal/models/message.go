package models

import (
	"fmt"
	"time"

	"github.com/lib/pq"
)

// Sentiment of a single user message, as reported by the classifier.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	}
	return false
}

// Severity is an ordinal risk level. Comparisons are numeric: High > Medium > Low.
type Severity int

const (
	SeverityLow    Severity = 1
	SeverityMedium Severity = 2
	SeverityHigh   Severity = 3
)

func (s Severity) Valid() bool {
	return s >= SeverityLow && s <= SeverityHigh
}

// RiskTag is one entry of the closed risk vocabulary.
type RiskTag string

const (
	TagSelfHarm     RiskTag = "self-harm"
	TagSevereStress RiskTag = "severe-stress"
	TagHarmToOthers RiskTag = "harm-to-others"
	TagOverreliance RiskTag = "overreliance"
)

func (t RiskTag) Valid() bool {
	switch t {
	case TagSelfHarm, TagSevereStress, TagHarmToOthers, TagOverreliance:
		return true
	}
	return false
}

// Classification is the per-message result produced by the classifier.
// It is embedded on the user message that spawned it and never mutated.
type Classification struct {
	Sentiment Sentiment `json:"sentiment"`
	RiskTags  []RiskTag `json:"risk_tags"`
	Severity  Severity  `json:"severity"`
}

// Validate checks enum membership and bounds on a classification decoded
// from an external service response.
func (c Classification) Validate() error {
	if !c.Sentiment.Valid() {
		return fmt.Errorf("unknown sentiment %q", c.Sentiment)
	}
	if !c.Severity.Valid() {
		return fmt.Errorf("severity %d out of range", c.Severity)
	}
	for _, tag := range c.RiskTags {
		if !tag.Valid() {
			return fmt.Errorf("unknown risk tag %q", tag)
		}
	}
	return nil
}

// SafeDefault is what callers get whenever classification is unavailable:
// assume low-risk neutral rather than blocking the conversation.
func SafeDefault() Classification {
	return Classification{Sentiment: SentimentNeutral, RiskTags: []RiskTag{}, Severity: SeverityLow}
}

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents one conversation turn stored in the 'messages' table.
// The body is encrypted at rest; Text carries the decrypted value in memory
// and is never written to the database as-is.
type Message struct {
	ID            int64          `db:"id" json:"id"`
	UserID        int64          `db:"user_id" json:"user_id"`
	Role          string         `db:"role" json:"role"`
	TextEncrypted string         `db:"text_encrypted" json:"-"`
	Text          string         `db:"-" json:"text"`
	Sentiment     *Sentiment     `db:"sentiment" json:"sentiment,omitempty"`
	RiskTags      pq.StringArray `db:"risk_tags" json:"risk_tags,omitempty"`
	Severity      *Severity      `db:"severity" json:"severity,omitempty"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
}

// SetClassification embeds a classification onto a user message before it is saved.
func (m *Message) SetClassification(c Classification) {
	sentiment := c.Sentiment
	severity := c.Severity
	m.Sentiment = &sentiment
	m.Severity = &severity
	m.RiskTags = make(pq.StringArray, 0, len(c.RiskTags))
	for _, tag := range c.RiskTags {
		m.RiskTags = append(m.RiskTags, string(tag))
	}
}
