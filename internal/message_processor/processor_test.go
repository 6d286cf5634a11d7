package message_processor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"talkitout/internal/models"
	"talkitout/internal/responder"
	"talkitout/internal/risk"
)

type stubClassifier struct {
	result models.Classification
}

func (s *stubClassifier) Classify(context.Context, string, bool) models.Classification {
	return s.result
}

type stubGenerator struct {
	reply    string
	beforeID int64
}

func (s *stubGenerator) Generate(_ context.Context, _ int64, _ string, beforeID int64, _ bool) string {
	s.beforeID = beforeID
	return s.reply
}

type memMessageRepo struct {
	messages []*models.Message
	nextID   int64
	saveErr  error
}

func (r *memMessageRepo) SaveMessage(msg *models.Message) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.nextID++
	msg.ID = r.nextID
	msg.CreatedAt = time.Now()
	stored := *msg
	r.messages = append(r.messages, &stored)
	return nil
}

func (r *memMessageRepo) RecentMessages(userID int64, limit int) ([]*models.Message, error) {
	var out []*models.Message
	for i := len(r.messages) - 1; i >= 0 && len(out) < limit; i-- {
		if r.messages[i].UserID == userID {
			out = append(out, r.messages[i])
		}
	}
	return out, nil
}

func (r *memMessageRepo) RecentMessagesBefore(userID, beforeID int64, limit int) ([]*models.Message, error) {
	var out []*models.Message
	for i := len(r.messages) - 1; i >= 0 && len(out) < limit; i-- {
		if r.messages[i].UserID == userID && r.messages[i].ID < beforeID {
			out = append(out, r.messages[i])
		}
	}
	return out, nil
}

func (r *memMessageRepo) CountUserMessagesSince(int64, time.Time) (int, error) {
	return 0, nil
}

func (r *memMessageRepo) CountUserMessagesBySentimentSince(int64, models.Sentiment, time.Time) (int, error) {
	return 0, nil
}

func (r *memMessageRepo) DeleteByUser(int64) error { return nil }

type memFlagRepo struct {
	flags  []*models.RiskFlag
	nextID int64
}

func (r *memFlagRepo) CreateFlag(flag *models.RiskFlag) error {
	r.nextID++
	flag.ID = r.nextID
	flag.CreatedAt = time.Now()
	stored := *flag
	r.flags = append(r.flags, &stored)
	return nil
}

func (r *memFlagRepo) GetAllFlags() ([]*models.RiskFlag, error) { return r.flags, nil }

func (r *memFlagRepo) GetFlagsByStatus(models.FlagStatus) ([]*models.RiskFlag, error) {
	return r.flags, nil
}

func (r *memFlagRepo) GetFlagsByTag(models.RiskTag) ([]*models.RiskFlag, error) {
	return r.flags, nil
}

func (r *memFlagRepo) GetFlagByID(int64) (*models.RiskFlag, error) { return nil, errors.New("not found") }

func (r *memFlagRepo) UpdateFlagReview(int64, models.FlagStatus, string, *string, *time.Time) error {
	return nil
}

func (r *memFlagRepo) DeleteByUser(int64) error { return nil }

func newTestProcessor(c *stubClassifier, g *stubGenerator) (*Processor, *memMessageRepo, *memFlagRepo) {
	messageRepo := &memMessageRepo{}
	flagRepo := &memFlagRepo{}
	p := NewProcessor(c, g, messageRepo, flagRepo, nil, zap.NewNop())
	return p, messageRepo, flagRepo
}

func TestProcessTurnHighRiskCreatesFlagAndEscalates(t *testing.T) {
	c := &stubClassifier{result: models.Classification{
		Sentiment: models.SentimentNegative,
		RiskTags:  []models.RiskTag{models.TagSelfHarm, models.TagSevereStress},
		Severity:  models.SeverityHigh,
	}}
	g := &stubGenerator{reply: "I'm really glad you told me."}
	p, _, flagRepo := newTestProcessor(c, g)
	user := &models.User{ID: 7}

	result, err := p.ProcessTurn(context.Background(), user, "I can't handle this anymore, I want to disappear")
	require.NoError(t, err)

	require.Len(t, flagRepo.flags, 1)
	flag := flagRepo.flags[0]
	assert.Equal(t, int64(7), flag.UserID)
	assert.Equal(t, result.UserMessage.ID, flag.MessageID)
	assert.Equal(t, models.SeverityHigh, flag.Severity)
	assert.Equal(t, models.FlagOpen, flag.Status)
	assert.ElementsMatch(t, []string{"self-harm", "severe-stress"}, []string(flag.Tags))

	assert.True(t, result.FlagCreated)
	assert.True(t, strings.HasPrefix(result.AssistantMessage.Text, risk.CrisisMessage))
	assert.Contains(t, result.AssistantMessage.Text, "I'm really glad you told me.")
}

func TestProcessTurnLowRiskNoFlagNoPrefix(t *testing.T) {
	c := &stubClassifier{result: models.Classification{
		Sentiment: models.SentimentPositive,
		RiskTags:  []models.RiskTag{},
		Severity:  models.SeverityLow,
	}}
	g := &stubGenerator{reply: "That's wonderful, good luck!"}
	p, _, flagRepo := newTestProcessor(c, g)
	user := &models.User{ID: 7}

	result, err := p.ProcessTurn(context.Background(), user, "I'm excited about my math test tomorrow!")
	require.NoError(t, err)

	assert.Empty(t, flagRepo.flags)
	assert.False(t, result.FlagCreated)
	assert.Equal(t, "That's wonderful, good luck!", result.AssistantMessage.Text)
}

func TestProcessTurnHighSeverityWithoutTagsDoesNotFlag(t *testing.T) {
	c := &stubClassifier{result: models.Classification{
		Sentiment: models.SentimentNegative,
		RiskTags:  []models.RiskTag{},
		Severity:  models.SeverityHigh,
	}}
	g := &stubGenerator{reply: "that sounds heavy"}
	p, _, flagRepo := newTestProcessor(c, g)

	result, err := p.ProcessTurn(context.Background(), &models.User{ID: 1}, "everything is too much")
	require.NoError(t, err)

	// Severity alone never flags, but escalation still applies.
	assert.Empty(t, flagRepo.flags)
	assert.False(t, result.FlagCreated)
	assert.True(t, strings.HasPrefix(result.AssistantMessage.Text, risk.CrisisMessage))
}

func TestProcessTurnRecordsUserMessageBeforeAssistant(t *testing.T) {
	c := &stubClassifier{result: models.SafeDefault()}
	g := &stubGenerator{reply: "hello!"}
	p, messageRepo, _ := newTestProcessor(c, g)

	result, err := p.ProcessTurn(context.Background(), &models.User{ID: 3}, "hi there")
	require.NoError(t, err)

	require.Len(t, messageRepo.messages, 2)
	assert.Equal(t, models.RoleUser, messageRepo.messages[0].Role)
	assert.Equal(t, models.RoleAssistant, messageRepo.messages[1].Role)
	assert.Less(t, result.UserMessage.ID, result.AssistantMessage.ID)

	// The generator's history window is bounded by the stored user message.
	assert.Equal(t, result.UserMessage.ID, g.beforeID)

	// The classification is embedded on the stored user message.
	require.NotNil(t, messageRepo.messages[0].Sentiment)
	assert.Equal(t, models.SentimentNeutral, *messageRepo.messages[0].Sentiment)
	require.NotNil(t, messageRepo.messages[0].Severity)
	assert.Equal(t, models.SeverityLow, *messageRepo.messages[0].Severity)
}

// stubLLM scripts the external generation service for turns that run through
// the real responder.
type stubLLM struct {
	reply   string
	prompts []string
}

func (s *stubLLM) Enabled() bool { return true }

func (s *stubLLM) Generate(_ context.Context, _, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.reply, nil
}

func TestProcessTurnPromptNeverLeaksStoredPII(t *testing.T) {
	messageRepo := &memMessageRepo{}
	llm := &stubLLM{reply: "I'm here for you."}
	gen := responder.NewResponder(llm, messageRepo, 10, zap.NewNop())
	c := &stubClassifier{result: models.SafeDefault()}
	p := NewProcessor(c, gen, messageRepo, &memFlagRepo{}, nil, zap.NewNop())
	user := &models.User{ID: 5}

	_, err := p.ProcessTurn(context.Background(), user, "my name is Dana and my email is dana@example.com")
	require.NoError(t, err)
	_, err = p.ProcessTurn(context.Background(), user, "I still feel anxious")
	require.NoError(t, err)

	require.Len(t, llm.prompts, 2)

	// The first turn's message is already stored when the reply is
	// generated; it must appear in its own prompt exactly once.
	assert.NotContains(t, llm.prompts[0], "Recent conversation")
	assert.Equal(t, 1, strings.Count(llm.prompts[0], "[NAME]"))
	assert.Equal(t, 1, strings.Count(llm.prompts[0], "[EMAIL]"))

	// The second turn renders the first exchange from history, sanitized.
	assert.Contains(t, llm.prompts[1], "Recent conversation")
	assert.Contains(t, llm.prompts[1], "[EMAIL]")
	assert.NotContains(t, llm.prompts[1], "Dana")
	assert.NotContains(t, llm.prompts[1], "dana@example.com")
}

func TestProcessTurnStorageErrorSurfaces(t *testing.T) {
	c := &stubClassifier{result: models.SafeDefault()}
	g := &stubGenerator{reply: "hello!"}
	messageRepo := &memMessageRepo{saveErr: errors.New("disk full")}
	p := NewProcessor(c, g, messageRepo, &memFlagRepo{}, nil, zap.NewNop())

	_, err := p.ProcessTurn(context.Background(), &models.User{ID: 3}, "hi")
	assert.Error(t, err)
}
