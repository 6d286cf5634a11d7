package models

import "time"

// Pomodoro session kinds.
const (
	PomodoroFocus = "focus"
	PomodoroBreak = "break"
)

// PomodoroSession is one completed or abandoned timer run stored in the
// 'pomodoro_sessions' table.
type PomodoroSession struct {
	ID              int64     `db:"id" json:"id"`
	UserID          int64     `db:"user_id" json:"user_id"`
	Kind            string    `db:"kind" json:"kind"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	Completed       bool      `db:"completed" json:"completed"`
	StartedAt       time.Time `db:"started_at" json:"started_at"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
