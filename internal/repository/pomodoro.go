package repository

import (
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"talkitout/internal/models"
)

// PomodoroStats summarizes a user's focus activity since a point in time.
type PomodoroStats struct {
	FocusMinutes      int `db:"focus_minutes" json:"focus_minutes"`
	CompletedSessions int `db:"completed_sessions" json:"completed_sessions"`
}

type PomodoroRepository interface {
	CreateSession(session *models.PomodoroSession) error
	GetSessions(userID int64, limit int) ([]*models.PomodoroSession, error)
	GetStatsSince(userID int64, since time.Time) (*PomodoroStats, error)
	DeleteByUser(userID int64) error
}

type pomodoroRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewPomodoroRepository(db *sqlx.DB, logger *zap.Logger) PomodoroRepository {
	return &pomodoroRepository{db: db, logger: logger}
}

func (r *pomodoroRepository) CreateSession(session *models.PomodoroSession) error {
	query := `INSERT INTO pomodoro_sessions (user_id, kind, duration_minutes, completed, started_at)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	return r.db.QueryRowx(query, session.UserID, session.Kind, session.DurationMinutes,
		session.Completed, session.StartedAt).StructScan(session)
}

func (r *pomodoroRepository) GetSessions(userID int64, limit int) ([]*models.PomodoroSession, error) {
	var sessions []*models.PomodoroSession
	query := `SELECT id, user_id, kind, duration_minutes, completed, started_at, created_at
	          FROM pomodoro_sessions WHERE user_id = $1 ORDER BY started_at DESC LIMIT $2`
	err := r.db.Select(&sessions, query, userID, limit)
	return sessions, err
}

func (r *pomodoroRepository) GetStatsSince(userID int64, since time.Time) (*PomodoroStats, error) {
	var stats PomodoroStats
	query := `SELECT
	            COALESCE(SUM(duration_minutes) FILTER (WHERE kind = $1 AND completed), 0) AS focus_minutes,
	            COALESCE(COUNT(*) FILTER (WHERE completed), 0) AS completed_sessions
	          FROM pomodoro_sessions WHERE user_id = $2 AND started_at >= $3`
	err := r.db.Get(&stats, query, models.PomodoroFocus, userID, since)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *pomodoroRepository) DeleteByUser(userID int64) error {
	query := `DELETE FROM pomodoro_sessions WHERE user_id = $1`
	_, err := r.db.Exec(query, userID)
	return err
}
