package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"samevibe-service/internal/models"
)

// FriendshipRepository abstracts friendship persistence.
type FriendshipRepository interface {
	Create(ctx context.Context, fromUserID int, toUserID int) (models.Friendship, error)
	List(ctx context.Context, userID int, category string) ([]models.FriendshipView, error)
	Accept(ctx context.Context, fromUserID int, toUserID int) (models.Friendship, error)
	Delete(ctx context.Context, userID int, otherID int) error
	GetBetween(ctx context.Context, userID int, otherID int) (models.Friendship, error)
}

// FriendshipRepo is a sqlx implementation of FriendshipRepository.
type FriendshipRepo struct {
	db *sqlx.DB
}

// NewFriendshipRepo constructs a FriendshipRepo.
func NewFriendshipRepo(db *sqlx.DB) *FriendshipRepo {
	return &FriendshipRepo{db: db}
}

// Create inserts a pending request. The pair-order-independent unique
// index rejects a second row for the same two users regardless of
// direction; that surfaces as ErrFriendshipExists.
func (r *FriendshipRepo) Create(ctx context.Context, fromUserID int, toUserID int) (models.Friendship, error) {
	if fromUserID == toUserID {
		return models.Friendship{}, errors.New("cannot befriend yourself")
	}
	var fs models.Friendship
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO friendships (from_user_id, to_user_id, status) VALUES ($1, $2, $3)
         RETURNING id, from_user_id, to_user_id, status, created_at`,
		fromUserID, toUserID, models.FriendshipPending).StructScan(&fs)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Friendship{}, ErrFriendshipExists
		}
		return models.Friendship{}, err
	}
	return fs, nil
}

// List returns friendship rows for the user serialized from their
// perspective, filtered by category.
func (r *FriendshipRepo) List(ctx context.Context, userID int, category string) ([]models.FriendshipView, error) {
	query := `SELECT f.status, f.from_user_id, f.to_user_id,
             u.id AS other_id, u.first_name, u.last_name, COALESCE(p.photo, '') AS avatar
        FROM friendships f
        JOIN users u ON u.id = CASE WHEN f.from_user_id=$1 THEN f.to_user_id ELSE f.from_user_id END
        LEFT JOIN profiles p ON p.user_id = u.id
       WHERE `
	var args []interface{}
	switch category {
	case "accepted":
		query += `(f.from_user_id=$1 OR f.to_user_id=$1) AND f.status=$2`
		args = []interface{}{userID, models.FriendshipAccepted}
	case "sended":
		query += `f.from_user_id=$1 AND f.status=$2`
		args = []interface{}{userID, models.FriendshipPending}
	case "received":
		query += `f.to_user_id=$1 AND f.status=$2`
		args = []interface{}{userID, models.FriendshipPending}
	default:
		query += `(f.from_user_id=$1 OR f.to_user_id=$1)`
		args = []interface{}{userID}
	}
	query += ` ORDER BY f.created_at DESC`

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.FriendshipView
	for rows.Next() {
		var (
			view     models.FriendshipView
			from, to int
		)
		if err := rows.Scan(&view.Status, &from, &to,
			&view.Other.ID, &view.Other.FirstName, &view.Other.LastName, &view.Other.Avatar); err != nil {
			return nil, err
		}
		view.OtherID = view.Other.ID
		result = append(result, view)
	}
	return result, rows.Err()
}

// Accept moves a pending request addressed to toUserID into the
// accepted state. Only the exact directed pending row matches, so a
// requester cannot accept their own request.
func (r *FriendshipRepo) Accept(ctx context.Context, fromUserID int, toUserID int) (models.Friendship, error) {
	var fs models.Friendship
	err := r.db.QueryRowxContext(ctx,
		`UPDATE friendships SET status=$1
          WHERE from_user_id=$2 AND to_user_id=$3 AND status=$4
         RETURNING id, from_user_id, to_user_id, status, created_at`,
		models.FriendshipAccepted, fromUserID, toUserID, models.FriendshipPending).StructScan(&fs)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Friendship{}, ErrFriendshipNotFound
	}
	return fs, err
}

// Delete removes the friendship between the two users in either
// direction.
func (r *FriendshipRepo) Delete(ctx context.Context, userID int, otherID int) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM friendships
          WHERE (from_user_id=$1 AND to_user_id=$2) OR (from_user_id=$2 AND to_user_id=$1)`,
		userID, otherID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrFriendshipNotFound
	}
	return nil
}

// GetBetween returns the friendship row between two users, if any.
func (r *FriendshipRepo) GetBetween(ctx context.Context, userID int, otherID int) (models.Friendship, error) {
	var fs models.Friendship
	err := r.db.GetContext(ctx, &fs,
		`SELECT id, from_user_id, to_user_id, status, created_at FROM friendships
          WHERE (from_user_id=$1 AND to_user_id=$2) OR (from_user_id=$2 AND to_user_id=$1)`,
		userID, otherID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Friendship{}, ErrFriendshipNotFound
	}
	return fs, err
}
