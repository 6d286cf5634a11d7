package responder

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"talkitout/internal/models"
)

type stubGenerator struct {
	enabled bool
	reply   string
	err     error
	system  string
	prompt  string
}

func (s *stubGenerator) Enabled() bool { return s.enabled }

func (s *stubGenerator) Generate(_ context.Context, system, prompt string) (string, error) {
	s.system = system
	s.prompt = prompt
	return s.reply, s.err
}

type stubHistory struct {
	messages []*models.Message
	err      error
	userID   int64
	beforeID int64
}

func (s *stubHistory) RecentMessagesBefore(userID, beforeID int64, _ int) ([]*models.Message, error) {
	s.userID = userID
	s.beforeID = beforeID
	return s.messages, s.err
}

func TestGenerateUnconfiguredFallback(t *testing.T) {
	r := NewResponder(&stubGenerator{enabled: false}, &stubHistory{}, 10, zap.NewNop())

	got := r.Generate(context.Background(), 1, "hello", 0, false)

	assert.Equal(t, NotConfiguredReply, got)
}

func TestGenerateErrorFallback(t *testing.T) {
	stub := &stubGenerator{enabled: true, err: errors.New("timeout")}
	r := NewResponder(stub, &stubHistory{}, 10, zap.NewNop())

	got := r.Generate(context.Background(), 1, "hello", 0, false)

	assert.Equal(t, ErrorReply, got)
}

func TestGenerateEmptyReplyFallback(t *testing.T) {
	stub := &stubGenerator{enabled: true, reply: "   \n"}
	r := NewResponder(stub, &stubHistory{}, 10, zap.NewNop())

	got := r.Generate(context.Background(), 1, "hello", 0, false)

	assert.Equal(t, ClarifyReply, got)
}

func TestGenerateTrimsReply(t *testing.T) {
	stub := &stubGenerator{enabled: true, reply: "  that sounds hard.  \n"}
	r := NewResponder(stub, &stubHistory{}, 10, zap.NewNop())

	got := r.Generate(context.Background(), 1, "hello", 0, false)

	assert.Equal(t, "that sounds hard.", got)
}

func TestGenerateRendersHistoryChronologically(t *testing.T) {
	// Storage hands back newest first.
	history := &stubHistory{messages: []*models.Message{
		{Role: models.RoleAssistant, Text: "how did the test go?"},
		{Role: models.RoleUser, Text: "I have a test tomorrow"},
	}}
	stub := &stubGenerator{enabled: true, reply: "good luck!"}
	r := NewResponder(stub, history, 10, zap.NewNop())

	r.Generate(context.Background(), 1, "it went ok", 0, false)

	first := strings.Index(stub.prompt, "Student: I have a test tomorrow")
	second := strings.Index(stub.prompt, "Assistant: how did the test go?")
	require.GreaterOrEqual(t, first, 0)
	require.GreaterOrEqual(t, second, 0)
	assert.Less(t, first, second)
	assert.True(t, strings.HasSuffix(stub.prompt, "Student: it went ok"))
}

func TestGeneratePseudonymizesCurrentMessage(t *testing.T) {
	stub := &stubGenerator{enabled: true, reply: "thanks for sharing"}
	r := NewResponder(stub, &stubHistory{}, 10, zap.NewNop())

	r.Generate(context.Background(), 1, "my name is Dana", 0, false)

	assert.Contains(t, stub.prompt, "[NAME]")
	assert.NotContains(t, stub.prompt, "Dana")
}

func TestGeneratePseudonymizesHistoryLines(t *testing.T) {
	// Stored history holds raw text; earlier turns may carry PII too.
	history := &stubHistory{messages: []*models.Message{
		{Role: models.RoleAssistant, Text: "thanks for telling me"},
		{Role: models.RoleUser, Text: "my name is Dana, email dana@mail.com"},
	}}
	stub := &stubGenerator{enabled: true, reply: "I'm listening"}
	r := NewResponder(stub, history, 10, zap.NewNop())

	r.Generate(context.Background(), 1, "I still feel anxious", 0, false)

	assert.Contains(t, stub.prompt, "[NAME]")
	assert.Contains(t, stub.prompt, "[EMAIL]")
	assert.NotContains(t, stub.prompt, "dana@mail.com")
}

func TestGenerateBoundsWindowToEarlierMessages(t *testing.T) {
	history := &stubHistory{}
	stub := &stubGenerator{enabled: true, reply: "got it"}
	r := NewResponder(stub, history, 10, zap.NewNop())

	r.Generate(context.Background(), 9, "hello", 42, false)

	assert.Equal(t, int64(9), history.userID)
	assert.Equal(t, int64(42), history.beforeID)
}

func TestGenerateSurvivesHistoryError(t *testing.T) {
	stub := &stubGenerator{enabled: true, reply: "I'm listening"}
	r := NewResponder(stub, &stubHistory{err: errors.New("db down")}, 10, zap.NewNop())

	got := r.Generate(context.Background(), 1, "hello", 0, false)

	assert.Equal(t, "I'm listening", got)
}
