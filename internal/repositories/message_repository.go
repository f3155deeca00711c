package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"samevibe-service/internal/models"
)

// MessageRepository defines interactions for chat messages.
type MessageRepository interface {
	CreateMessage(ctx context.Context, chatID int, senderID int, text string, attachment *string) (models.Message, error)
	ListMessages(ctx context.Context, chatID int) ([]models.Message, error)
	GetMessage(ctx context.Context, messageID int) (models.Message, error)
	UpdateMessage(ctx context.Context, messageID int, text string, attachment *string) (models.Message, error)
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// CreateMessage stores a message in a chat.
func (r *MessageRepo) CreateMessage(ctx context.Context, chatID int, senderID int, text string, attachment *string) (models.Message, error) {
	var msg models.Message
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO messages (chat_id, sender_id, text, attachment) VALUES ($1, $2, $3, $4)
         RETURNING id, chat_id, sender_id, text, attachment, created_at, updated_at`,
		chatID, senderID, text, attachment).StructScan(&msg)
	return msg, err
}

// ListMessages returns chat messages ordered by creation time ascending.
func (r *MessageRepo) ListMessages(ctx context.Context, chatID int) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs,
		`SELECT id, chat_id, sender_id, text, attachment, created_at, updated_at
         FROM messages WHERE chat_id=$1 ORDER BY created_at ASC`, chatID)
	return msgs, err
}

// GetMessage retrieves a single message.
func (r *MessageRepo) GetMessage(ctx context.Context, messageID int) (models.Message, error) {
	var msg models.Message
	err := r.db.GetContext(ctx, &msg,
		`SELECT id, chat_id, sender_id, text, attachment, created_at, updated_at FROM messages WHERE id=$1`, messageID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, ErrMessageNotFound
	}
	return msg, err
}

// UpdateMessage rewrites the mutable fields of a message. The sender
// check happens in the handler; storage only enforces existence.
func (r *MessageRepo) UpdateMessage(ctx context.Context, messageID int, text string, attachment *string) (models.Message, error) {
	var msg models.Message
	err := r.db.QueryRowxContext(ctx,
		`UPDATE messages SET text=$1, attachment=$2, updated_at=NOW() WHERE id=$3
         RETURNING id, chat_id, sender_id, text, attachment, created_at, updated_at`,
		text, attachment, messageID).StructScan(&msg)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, ErrMessageNotFound
	}
	return msg, err
}
