package repository

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"talkitout/internal/models"
)

type MoodRepository interface {
	CreateEntry(entry *models.MoodEntry) error
	GetEntries(userID int64, limit int) ([]*models.MoodEntry, error)
	DeleteByUser(userID int64) error
}

type moodRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewMoodRepository(db *sqlx.DB, logger *zap.Logger) MoodRepository {
	return &moodRepository{db: db, logger: logger}
}

func (r *moodRepository) CreateEntry(entry *models.MoodEntry) error {
	query := `INSERT INTO mood_entries (user_id, mood, note) VALUES ($1, $2, $3) RETURNING id, created_at`
	return r.db.QueryRowx(query, entry.UserID, entry.Mood, entry.Note).StructScan(entry)
}

func (r *moodRepository) GetEntries(userID int64, limit int) ([]*models.MoodEntry, error) {
	var entries []*models.MoodEntry
	query := `SELECT id, user_id, mood, note, created_at FROM mood_entries
	          WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`
	err := r.db.Select(&entries, query, userID, limit)
	return entries, err
}

func (r *moodRepository) DeleteByUser(userID int64) error {
	query := `DELETE FROM mood_entries WHERE user_id = $1`
	_, err := r.db.Exec(query, userID)
	return err
}
