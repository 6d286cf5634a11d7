package repository

import (
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"talkitout/internal/models"
)

type RiskFlagRepository interface {
	CreateFlag(flag *models.RiskFlag) error
	GetAllFlags() ([]*models.RiskFlag, error)
	GetFlagsByStatus(status models.FlagStatus) ([]*models.RiskFlag, error)
	GetFlagsByTag(tag models.RiskTag) ([]*models.RiskFlag, error)
	GetFlagByID(id int64) (*models.RiskFlag, error)
	UpdateFlagReview(id int64, status models.FlagStatus, reviewedBy string, notes *string, resolvedAt *time.Time) error
	DeleteByUser(userID int64) error
}

type riskFlagRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewRiskFlagRepository(db *sqlx.DB, logger *zap.Logger) RiskFlagRepository {
	return &riskFlagRepository{db: db, logger: logger}
}

func (r *riskFlagRepository) CreateFlag(flag *models.RiskFlag) error {
	query := `INSERT INTO risk_flags (user_id, message_id, tags, severity, status)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	return r.db.QueryRowx(query, flag.UserID, flag.MessageID, flag.Tags, flag.Severity, flag.Status).StructScan(flag)
}

const flagColumns = `id, user_id, message_id, tags, severity, status, reviewed_by, notes, resolved_at, created_at`

func (r *riskFlagRepository) GetAllFlags() ([]*models.RiskFlag, error) {
	var flags []*models.RiskFlag
	query := `SELECT ` + flagColumns + ` FROM risk_flags ORDER BY created_at DESC`
	err := r.db.Select(&flags, query)
	return flags, err
}

func (r *riskFlagRepository) GetFlagsByStatus(status models.FlagStatus) ([]*models.RiskFlag, error) {
	var flags []*models.RiskFlag
	query := `SELECT ` + flagColumns + ` FROM risk_flags WHERE status = $1 ORDER BY created_at DESC`
	err := r.db.Select(&flags, query, status)
	return flags, err
}

func (r *riskFlagRepository) GetFlagsByTag(tag models.RiskTag) ([]*models.RiskFlag, error) {
	var flags []*models.RiskFlag
	query := `SELECT ` + flagColumns + ` FROM risk_flags WHERE $1 = ANY(tags) ORDER BY created_at DESC`
	err := r.db.Select(&flags, query, tag)
	return flags, err
}

func (r *riskFlagRepository) GetFlagByID(id int64) (*models.RiskFlag, error) {
	var flag models.RiskFlag
	query := `SELECT ` + flagColumns + ` FROM risk_flags WHERE id = $1`
	err := r.db.Get(&flag, query, id)
	if err != nil {
		return nil, err
	}
	return &flag, nil
}

func (r *riskFlagRepository) UpdateFlagReview(id int64, status models.FlagStatus, reviewedBy string, notes *string, resolvedAt *time.Time) error {
	query := `UPDATE risk_flags SET status = $1, reviewed_by = $2, notes = COALESCE($3, notes), resolved_at = $4 WHERE id = $5`
	_, err := r.db.Exec(query, status, reviewedBy, notes, resolvedAt, id)
	return err
}

func (r *riskFlagRepository) DeleteByUser(userID int64) error {
	query := `DELETE FROM risk_flags WHERE user_id = $1`
	_, err := r.db.Exec(query, userID)
	return err
}
