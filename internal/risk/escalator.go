// Package risk holds the escalation and flagging policy: the crisis-message
// threshold, the flag-creation rule, and the overreliance detector. The
// thresholds live here as named constants so tests can pin them.
package risk

import "talkitout/internal/models"

// EscalationThreshold is the minimum severity that triggers the crisis
// message prefix.
const EscalationThreshold = models.SeverityHigh

// CrisisMessage is prepended to the assistant reply on high-severity turns.
const CrisisMessage = "It sounds like you're going through something really difficult right now. You don't have to face this alone — please talk to a trusted adult, your school counselor, or call your local crisis helpline right away. If you are in immediate danger, call emergency services."

// Escalate prepends the crisis message to reply when severity is at or above
// the escalation threshold; otherwise the reply passes through unchanged.
func Escalate(reply string, severity models.Severity) string {
	if severity >= EscalationThreshold {
		return CrisisMessage + "\n\n" + reply
	}
	return reply
}

// FlagThreshold is the minimum severity for risk flag creation.
const FlagThreshold = models.SeverityMedium

// ShouldFlag reports whether a classification warrants a counselor-facing
// risk flag. Both conditions must hold: severity at or above the threshold
// AND at least one risk tag. Neither alone is enough.
func ShouldFlag(c models.Classification) bool {
	return c.Severity >= FlagThreshold && len(c.RiskTags) > 0
}
