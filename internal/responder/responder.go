// Package responder builds the assistant reply for one chat turn. Like the
// classifier it never fails at its public boundary: every failure path
// returns one of the fixed fallback strings, so the student always gets a
// reply.
package responder

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"talkitout/internal/models"
	"talkitout/internal/pseudonymizer"
)

// Fixed fallback replies. Which one the student sees distinguishes "the AI
// companion is not set up" from "the AI companion had a hiccup".
const (
	NotConfiguredReply = "I'm here to listen, but my AI companion features aren't set up right now. If something is weighing on you, please reach out to a trusted adult or your school counselor."
	ErrorReply         = "I'm sorry, I'm having trouble responding right now. Please try again in a moment — and if you need to talk to someone urgently, please reach out to a trusted adult."
	ClarifyReply       = "I'm not sure I understood that. Could you tell me a bit more about what's on your mind?"
)

const systemPrompt = `You are a warm, supportive companion for school students in a wellbeing app called TalkItOut. You listen, validate feelings, and gently encourage healthy habits and reaching out to trusted adults (family, teachers, school counselors).
You are not a clinician: never diagnose, never prescribe, never present yourself as a substitute for professional help. Keep replies short, kind, and concrete.`

// TextGenerator is the single external capability the responder depends on.
type TextGenerator interface {
	Enabled() bool
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// HistoryStore supplies the recent conversation window, newest first. The
// window is bounded by beforeID: the caller has already stored the current
// turn's message, and it must not show up in its own history.
type HistoryStore interface {
	RecentMessagesBefore(userID, beforeID int64, limit int) ([]*models.Message, error)
}

type Responder struct {
	llm          TextGenerator
	history      HistoryStore
	historyLimit int
	logger       *zap.Logger
}

func NewResponder(llm TextGenerator, history HistoryStore, historyLimit int, logger *zap.Logger) *Responder {
	if historyLimit <= 0 {
		historyLimit = 10
	}
	return &Responder{llm: llm, history: history, historyLimit: historyLimit, logger: logger}
}

// Generate produces the assistant reply for the user's current message. It
// reads history only; persisting the exchange is the caller's job.
// beforeMessageID is the id of the current turn's already-stored message so
// the window never renders the turn in flight.
func (r *Responder) Generate(ctx context.Context, userID int64, text string, beforeMessageID int64, allowExternalPII bool) string {
	if !r.llm.Enabled() {
		return NotConfiguredReply
	}

	prompt := r.buildPrompt(userID, text, beforeMessageID, allowExternalPII)

	reply, err := r.llm.Generate(ctx, systemPrompt, prompt)
	if err != nil {
		r.logger.Warn("Reply generation failed, using fallback", zap.Int64("user_id", userID), zap.Error(err))
		return ErrorReply
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return ClarifyReply
	}
	return reply
}

// buildPrompt renders the recent history window as alternating
// Student:/Assistant: lines followed by the pseudonymized current message.
// Every line that leaves the process goes through the pseudonymizer: stored
// history holds raw text, and earlier turns may carry PII just like the
// current one.
func (r *Responder) buildPrompt(userID int64, text string, beforeMessageID int64, allowExternalPII bool) string {
	recent, err := r.history.RecentMessagesBefore(userID, beforeMessageID, r.historyLimit)
	if err != nil {
		// A missing window degrades the reply quality, not the turn.
		r.logger.Warn("Failed to load history window", zap.Int64("user_id", userID), zap.Error(err))
		recent = nil
	}

	var b strings.Builder
	if len(recent) > 0 {
		b.WriteString("Recent conversation:\n")
		// Newest-first from storage, rendered chronologically.
		for i := len(recent) - 1; i >= 0; i-- {
			msg := recent[i]
			speaker := "Student"
			if msg.Role == models.RoleAssistant {
				speaker = "Assistant"
			}
			b.WriteString(speaker)
			b.WriteString(": ")
			b.WriteString(pseudonymizer.Pseudonymize(msg.Text, allowExternalPII))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString("Student: ")
	b.WriteString(pseudonymizer.Pseudonymize(text, allowExternalPII))
	return b.String()
}
