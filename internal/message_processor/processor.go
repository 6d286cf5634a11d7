// Package message_processor runs the full workflow for one inbound chat turn:
// classify, persist the user message, record a risk flag when the policy
// fires, generate a reply, escalate, persist the assistant message.
package message_processor

import (
	"context"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"talkitout/internal/metrics"
	"talkitout/internal/models"
	"talkitout/internal/repository"
	"talkitout/internal/risk"
)

// MessageClassifier scores a user message. Implementations never fail: the
// classifier coerces every failure to the safe default.
type MessageClassifier interface {
	Classify(ctx context.Context, text string, allowExternalPII bool) models.Classification
}

// ReplyGenerator produces the assistant reply. Implementations never fail:
// the responder returns a fallback string instead. beforeMessageID is the id
// of the current turn's stored user message, which bounds the history window.
type ReplyGenerator interface {
	Generate(ctx context.Context, userID int64, text string, beforeMessageID int64, allowExternalPII bool) string
}

// FlagNotifier is told about newly created high-severity flags. May be nil.
type FlagNotifier interface {
	NotifyFlagCreated(flag *models.RiskFlag)
}

// TurnResult is what one processed chat turn produces: the stored user
// message (with its embedded classification), the stored assistant reply
// (already crisis-escalated), and whether a risk flag was recorded.
type TurnResult struct {
	UserMessage      *models.Message `json:"user_message"`
	AssistantMessage *models.Message `json:"assistant_message"`
	FlagCreated      bool            `json:"flag_created"`
}

type Processor struct {
	classifier  MessageClassifier
	generator   ReplyGenerator
	messageRepo repository.MessageRepository
	flagRepo    repository.RiskFlagRepository
	notifier    FlagNotifier
	logger      *zap.Logger

	// Per-user serialization: two rapid turns from the same user must not
	// interleave, or the second generator call may read a history window
	// that is missing the first assistant reply.
	userLocks sync.Map // int64 -> *sync.Mutex
}

func NewProcessor(
	classifier MessageClassifier,
	generator ReplyGenerator,
	messageRepo repository.MessageRepository,
	flagRepo repository.RiskFlagRepository,
	notifier FlagNotifier,
	logger *zap.Logger,
) *Processor {
	return &Processor{
		classifier:  classifier,
		generator:   generator,
		messageRepo: messageRepo,
		flagRepo:    flagRepo,
		notifier:    notifier,
		logger:      logger,
	}
}

// ProcessTurn executes one chat turn. The user message is durably recorded
// before the reply is generated so the generator's history window is
// consistent. Classifier and generator failures degrade inside their own
// packages; the only errors returned here are storage errors.
func (p *Processor) ProcessTurn(ctx context.Context, user *models.User, text string) (*TurnResult, error) {
	lock := p.lockFor(user.ID)
	lock.Lock()
	defer lock.Unlock()

	metrics.IncChatTurn()

	classification := p.classifier.Classify(ctx, text, user.AllowExternalPII)

	userMsg := &models.Message{
		UserID: user.ID,
		Role:   models.RoleUser,
		Text:   text,
	}
	userMsg.SetClassification(classification)
	if err := p.messageRepo.SaveMessage(userMsg); err != nil {
		return nil, err
	}

	flagCreated := false
	if risk.ShouldFlag(classification) {
		flag := &models.RiskFlag{
			UserID:    user.ID,
			MessageID: userMsg.ID,
			Tags:      userMsg.RiskTags,
			Severity:  classification.Severity,
			Status:    models.FlagOpen,
		}
		if err := p.flagRepo.CreateFlag(flag); err != nil {
			// The turn still completes: losing a flag is logged loudly but
			// must not cost the student their reply.
			p.logger.Error("Failed to create risk flag",
				zap.Int64("user_id", user.ID),
				zap.Int64("message_id", userMsg.ID),
				zap.Error(err))
		} else {
			flagCreated = true
			metrics.IncRiskFlagCreated(strconv.Itoa(int(flag.Severity)))
			p.logger.Info("Risk flag created",
				zap.Int64("flag_id", flag.ID),
				zap.Int64("user_id", user.ID),
				zap.Int("severity", int(flag.Severity)))
			if p.notifier != nil && flag.Severity >= risk.EscalationThreshold {
				p.notifier.NotifyFlagCreated(flag)
			}
		}
	}

	reply := p.generator.Generate(ctx, user.ID, text, userMsg.ID, user.AllowExternalPII)
	reply = risk.Escalate(reply, classification.Severity)

	assistantMsg := &models.Message{
		UserID: user.ID,
		Role:   models.RoleAssistant,
		Text:   reply,
	}
	if err := p.messageRepo.SaveMessage(assistantMsg); err != nil {
		return nil, err
	}

	return &TurnResult{
		UserMessage:      userMsg,
		AssistantMessage: assistantMsg,
		FlagCreated:      flagCreated,
	}, nil
}

func (p *Processor) lockFor(userID int64) *sync.Mutex {
	if lock, ok := p.userLocks.Load(userID); ok {
		return lock.(*sync.Mutex)
	}
	lock, _ := p.userLocks.LoadOrStore(userID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}
