package repositories

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"

	"samevibe-service/internal/models"
)

// ChatRepository abstracts chat persistence.
type ChatRepository interface {
	CreateOrGetChat(ctx context.Context, userID int, otherID int) (models.Chat, bool, error)
	GetChat(ctx context.Context, chatID int) (models.Chat, error)
	IsParticipant(ctx context.Context, chatID int, userID int) (bool, error)
	ListChatViews(ctx context.Context, userID int) ([]models.ChatView, error)
	GetChatView(ctx context.Context, chatID int, forUserID int) (models.ChatView, error)
	DeleteChatBetween(ctx context.Context, userID int, otherID int) error
	TouchChat(ctx context.Context, chatID int) error
}

// ChatRepo is a sqlx implementation of ChatRepository.
type ChatRepo struct {
	db *sqlx.DB
}

// NewChatRepo constructs a ChatRepo.
func NewChatRepo(db *sqlx.DB) *ChatRepo {
	return &ChatRepo{db: db}
}

// CreateOrGetChat returns the chat for the unordered pair, creating it
// when absent. The bool reports whether a new row was inserted. Two
// racing creators both reach the INSERT; the unique constraint decides,
// and the loser re-reads the winner's row.
func (r *ChatRepo) CreateOrGetChat(ctx context.Context, userID int, otherID int) (models.Chat, bool, error) {
	if userID == otherID {
		return models.Chat{}, false, errors.New("cannot create chat with self")
	}
	participants := []int{userID, otherID}
	sort.Ints(participants)
	user1, user2 := participants[0], participants[1]

	var chat models.Chat
	query := `SELECT id, user1_id, user2_id, created_at, updated_at FROM chats WHERE user1_id=$1 AND user2_id=$2`
	err := r.db.GetContext(ctx, &chat, query, user1, user2)
	if err == nil {
		return chat, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.Chat{}, false, err
	}

	err = r.db.QueryRowxContext(ctx,
		`INSERT INTO chats (user1_id, user2_id) VALUES ($1, $2)
         RETURNING id, user1_id, user2_id, created_at, updated_at`,
		user1, user2).StructScan(&chat)
	if err != nil {
		if isUniqueViolation(err) {
			if err := r.db.GetContext(ctx, &chat, query, user1, user2); err != nil {
				return models.Chat{}, false, err
			}
			return chat, false, nil
		}
		return models.Chat{}, false, err
	}
	return chat, true, nil
}

// GetChat fetches a chat by id.
func (r *ChatRepo) GetChat(ctx context.Context, chatID int) (models.Chat, error) {
	var chat models.Chat
	err := r.db.GetContext(ctx, &chat,
		`SELECT id, user1_id, user2_id, created_at, updated_at FROM chats WHERE id=$1`, chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Chat{}, ErrChatNotFound
	}
	return chat, err
}

// IsParticipant checks whether a user belongs to the chat.
func (r *ChatRepo) IsParticipant(ctx context.Context, chatID int, userID int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM chats WHERE id=$1 AND (user1_id=$2 OR user2_id=$2))`, chatID, userID)
	return exists, err
}

type chatViewRow struct {
	ID         int        `db:"id"`
	User1ID    int        `db:"user1_id"`
	User2ID    int        `db:"user2_id"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
	OtherID    int        `db:"other_id"`
	FirstName  string     `db:"first_name"`
	LastName   string     `db:"last_name"`
	Avatar     string     `db:"avatar"`
	LastText   *string    `db:"last_text"`
	LastTime   *time.Time `db:"last_time"`
	LastSender *int       `db:"last_sender"`
}

const chatViewQuery = `SELECT c.id, c.user1_id, c.user2_id, c.created_at, c.updated_at,
       u.id AS other_id, u.first_name, u.last_name, COALESCE(p.photo, '') AS avatar,
       m.text AS last_text, m.created_at AS last_time, m.sender_id AS last_sender
  FROM chats c
  JOIN users u ON u.id = CASE WHEN c.user1_id=$1 THEN c.user2_id ELSE c.user1_id END
  LEFT JOIN profiles p ON p.user_id = u.id
  LEFT JOIN LATERAL (
       SELECT text, created_at, sender_id FROM messages
        WHERE chat_id = c.id ORDER BY created_at DESC LIMIT 1
  ) m ON TRUE`

// ListChatViews returns the caller's chats in read representation,
// newest activity first.
func (r *ChatRepo) ListChatViews(ctx context.Context, userID int) ([]models.ChatView, error) {
	rows, err := r.db.QueryxContext(ctx,
		chatViewQuery+` WHERE c.user1_id=$1 OR c.user2_id=$1
         ORDER BY COALESCE(m.created_at, c.created_at) DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.ChatView
	for rows.Next() {
		var row chatViewRow
		if err := rows.StructScan(&row); err != nil {
			return nil, err
		}
		result = append(result, row.toView())
	}
	return result, rows.Err()
}

// GetChatView returns one chat in read representation from the given
// user's perspective.
func (r *ChatRepo) GetChatView(ctx context.Context, chatID int, forUserID int) (models.ChatView, error) {
	var row chatViewRow
	err := r.db.GetContext(ctx, &row, chatViewQuery+` WHERE c.id=$2`, forUserID, chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ChatView{}, ErrChatNotFound
	}
	if err != nil {
		return models.ChatView{}, err
	}
	return row.toView(), nil
}

// DeleteChatBetween removes the chat for the unordered pair, if any.
// Messages cascade.
func (r *ChatRepo) DeleteChatBetween(ctx context.Context, userID int, otherID int) error {
	participants := []int{userID, otherID}
	sort.Ints(participants)
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM chats WHERE user1_id=$1 AND user2_id=$2`, participants[0], participants[1])
	return err
}

// TouchChat bumps the chat's updated_at.
func (r *ChatRepo) TouchChat(ctx context.Context, chatID int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE chats SET updated_at=NOW() WHERE id=$1`, chatID)
	return err
}

func (row chatViewRow) toView() models.ChatView {
	return models.ChatView{
		ID:        row.ID,
		User1:     row.User1ID,
		User2:     row.User2ID,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
		OtherUser: models.OtherUser{
			ID:        row.OtherID,
			FirstName: row.FirstName,
			LastName:  row.LastName,
			Avatar:    row.Avatar,
		},
		LastMessage:         row.LastText,
		LastTime:            row.LastTime,
		LastMessageSenderID: row.LastSender,
	}
}
