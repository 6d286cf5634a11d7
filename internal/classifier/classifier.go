// Package classifier scores user messages for sentiment and risk via the
// external generation service. Its public boundary never fails: every failure
// path degrades to the safe default so a classifier outage can never block
// the chat flow.
package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"talkitout/internal/metrics"
	"talkitout/internal/models"
	"talkitout/internal/pseudonymizer"
)

// TextGenerator is the single external capability the classifier depends on:
// given a prompt, return generated text.
type TextGenerator interface {
	Enabled() bool
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Failure reasons, kept inspectable for logs and metrics even though they
// never surface to callers.
const (
	reasonUnconfigured  = "unconfigured"
	reasonRequestFailed = "request_failed"
	reasonBadJSON       = "bad_json"
	reasonBadSchema     = "bad_schema"
)

type classifyError struct {
	reason string
	err    error
}

func (e *classifyError) Error() string {
	if e.err == nil {
		return e.reason
	}
	return fmt.Sprintf("%s: %v", e.reason, e.err)
}

func (e *classifyError) Unwrap() error { return e.err }

const instructionPrompt = `You are a classification service for a student support chat. Analyze the student message below and respond with ONLY a JSON object, no other text:
{"sentiment": "positive" | "neutral" | "negative", "risk_tags": [], "severity": 1 | 2 | 3}
risk_tags may only contain: "self-harm", "severe-stress", "harm-to-others", "overreliance".
severity: 1 = low concern, 2 = moderate concern, 3 = immediate safety concern.`

type Classifier struct {
	llm    TextGenerator
	logger *zap.Logger
}

func NewClassifier(llm TextGenerator, logger *zap.Logger) *Classifier {
	return &Classifier{llm: llm, logger: logger}
}

// Classify returns a classification for text, or the safe default
// (neutral, no tags, low severity) when the service is unconfigured or any
// step of the call fails. It never returns an error.
func (c *Classifier) Classify(ctx context.Context, text string, allowExternalPII bool) models.Classification {
	result, err := c.classifyOnce(ctx, text, allowExternalPII)
	if err != nil {
		var cerr *classifyError
		reason := reasonRequestFailed
		if errors.As(err, &cerr) {
			reason = cerr.reason
		}
		metrics.IncClassifierFailure(reason)
		if reason != reasonUnconfigured {
			c.logger.Warn("Classification failed, using safe default",
				zap.String("reason", reason),
				zap.Error(err))
		}
		return models.SafeDefault()
	}
	return result
}

// classifyOnce performs the single-shot call: pseudonymize, prompt, strip
// code fences, decode, validate.
func (c *Classifier) classifyOnce(ctx context.Context, text string, allowExternalPII bool) (models.Classification, error) {
	if !c.llm.Enabled() {
		return models.Classification{}, &classifyError{reason: reasonUnconfigured}
	}

	sanitized := pseudonymizer.Pseudonymize(text, allowExternalPII)
	prompt := instructionPrompt + "\n\nStudent message:\n" + sanitized

	raw, err := c.llm.Generate(ctx, "", prompt)
	if err != nil {
		return models.Classification{}, &classifyError{reason: reasonRequestFailed, err: err}
	}

	var result models.Classification
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &result); err != nil {
		return models.Classification{}, &classifyError{reason: reasonBadJSON, err: err}
	}
	if err := result.Validate(); err != nil {
		return models.Classification{}, &classifyError{reason: reasonBadSchema, err: err}
	}
	if result.RiskTags == nil {
		result.RiskTags = []models.RiskTag{}
	}
	return result, nil
}

// stripCodeFence removes optional markdown fencing some models wrap around
// JSON responses.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
