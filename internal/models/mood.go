package models

import "time"

// Mood is the student-selected value of a check-in.
type Mood string

const (
	MoodGreat      Mood = "great"
	MoodGood       Mood = "good"
	MoodOkay       Mood = "okay"
	MoodLow        Mood = "low"
	MoodStruggling Mood = "struggling"
)

func (m Mood) Valid() bool {
	switch m {
	case MoodGreat, MoodGood, MoodOkay, MoodLow, MoodStruggling:
		return true
	}
	return false
}

// MoodEntry is one mood check-in stored in the 'mood_entries' table.
type MoodEntry struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Mood      Mood      `db:"mood" json:"mood"`
	Note      string    `db:"note" json:"note,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
