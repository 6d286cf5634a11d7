package risk

import (
	"time"

	"talkitout/internal/models"
)

// Overreliance thresholds.
const (
	// Rule A: more than this many user messages in the trailing 24 hours.
	DailyMessageLimit = 30
	// Rule B: more than this many user messages in the trailing 7 days ...
	WeeklyMessageGate = 10
	// ... of which more than this share carry negative sentiment.
	NegativeShareLimit = 0.7
)

// UsageCounter supplies message counts over trailing windows.
type UsageCounter interface {
	CountUserMessagesSince(userID int64, since time.Time) (int, error)
	CountUserMessagesBySentimentSince(userID int64, sentiment models.Sentiment, since time.Time) (int, error)
}

// OverrelianceDetector is a read-only, advisory check over stored history.
// It does not create flags or alter conversation behavior; callers (the
// counselor dashboard) act on the signal.
type OverrelianceDetector struct {
	counter UsageCounter
	now     func() time.Time
}

func NewOverrelianceDetector(counter UsageCounter) *OverrelianceDetector {
	return &OverrelianceDetector{counter: counter, now: time.Now}
}

// Detect returns true when either usage rule fires. Insufficient history for
// Rule B's count gate yields false, never an approximation.
func (d *OverrelianceDetector) Detect(userID int64) (bool, error) {
	now := d.now()

	dayCount, err := d.counter.CountUserMessagesSince(userID, now.Add(-24*time.Hour))
	if err != nil {
		return false, err
	}
	if dayCount > DailyMessageLimit {
		return true, nil
	}

	weekAgo := now.Add(-7 * 24 * time.Hour)
	weekCount, err := d.counter.CountUserMessagesSince(userID, weekAgo)
	if err != nil {
		return false, err
	}
	if weekCount <= WeeklyMessageGate {
		return false, nil
	}

	negative, err := d.counter.CountUserMessagesBySentimentSince(userID, models.SentimentNegative, weekAgo)
	if err != nil {
		return false, err
	}
	return float64(negative)/float64(weekCount) > NegativeShareLimit, nil
}
