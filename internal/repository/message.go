package repository

import (
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"talkitout/internal/crypto"
	"talkitout/internal/models"
)

type MessageRepository interface {
	SaveMessage(msg *models.Message) error
	RecentMessages(userID int64, limit int) ([]*models.Message, error)
	RecentMessagesBefore(userID, beforeID int64, limit int) ([]*models.Message, error)
	CountUserMessagesSince(userID int64, since time.Time) (int, error)
	CountUserMessagesBySentimentSince(userID int64, sentiment models.Sentiment, since time.Time) (int, error)
	DeleteByUser(userID int64) error
}

type messageRepository struct {
	db     *sqlx.DB
	cipher *crypto.TextCipher
	logger *zap.Logger
}

func NewMessageRepository(db *sqlx.DB, cipher *crypto.TextCipher, logger *zap.Logger) MessageRepository {
	return &messageRepository{db: db, cipher: cipher, logger: logger}
}

// SaveMessage appends one conversation turn. The body is encrypted before it
// touches the database; msg.Text keeps the plaintext for the caller.
func (r *messageRepository) SaveMessage(msg *models.Message) error {
	encrypted, err := r.cipher.Encrypt(msg.Text)
	if err != nil {
		return err
	}
	msg.TextEncrypted = encrypted

	query := `INSERT INTO messages (user_id, role, text_encrypted, sentiment, risk_tags, severity)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`
	return r.db.QueryRowx(query, msg.UserID, msg.Role, msg.TextEncrypted,
		msg.Sentiment, msg.RiskTags, msg.Severity).StructScan(msg)
}

// RecentMessages returns up to limit messages for the user, newest first,
// with bodies decrypted.
func (r *messageRepository) RecentMessages(userID int64, limit int) ([]*models.Message, error) {
	query := `SELECT id, user_id, role, text_encrypted, sentiment, risk_tags, severity, created_at
	          FROM messages WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2`
	return r.selectDecrypted(query, userID, limit)
}

// RecentMessagesBefore is RecentMessages bounded to messages older than
// beforeID. The responder uses it so the turn in flight never appears in its
// own history window.
func (r *messageRepository) RecentMessagesBefore(userID, beforeID int64, limit int) ([]*models.Message, error) {
	query := `SELECT id, user_id, role, text_encrypted, sentiment, risk_tags, severity, created_at
	          FROM messages WHERE user_id = $1 AND id < $2 ORDER BY created_at DESC, id DESC LIMIT $3`
	return r.selectDecrypted(query, userID, beforeID, limit)
}

func (r *messageRepository) selectDecrypted(query string, args ...interface{}) ([]*models.Message, error) {
	var messages []*models.Message
	if err := r.db.Select(&messages, query, args...); err != nil {
		return nil, err
	}

	for _, msg := range messages {
		text, err := r.cipher.Decrypt(msg.TextEncrypted)
		if err != nil {
			r.logger.Error("Failed to decrypt message body", zap.Int64("message_id", msg.ID), zap.Error(err))
			continue
		}
		msg.Text = text
	}
	return messages, nil
}

func (r *messageRepository) CountUserMessagesSince(userID int64, since time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM messages WHERE user_id = $1 AND role = $2 AND created_at >= $3`
	err := r.db.Get(&count, query, userID, models.RoleUser, since)
	return count, err
}

func (r *messageRepository) CountUserMessagesBySentimentSince(userID int64, sentiment models.Sentiment, since time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM messages WHERE user_id = $1 AND role = $2 AND sentiment = $3 AND created_at >= $4`
	err := r.db.Get(&count, query, userID, models.RoleUser, sentiment, since)
	return count, err
}

// DeleteByUser removes the user's entire message history. Risk flags are
// intentionally untouched: a history clear never erases counselor evidence.
func (r *messageRepository) DeleteByUser(userID int64) error {
	query := `DELETE FROM messages WHERE user_id = $1`
	_, err := r.db.Exec(query, userID)
	return err
}
