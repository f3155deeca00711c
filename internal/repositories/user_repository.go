package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"samevibe-service/internal/models"
)

// UserRepository abstracts user and profile persistence.
type UserRepository interface {
	CreateUser(ctx context.Context, username, email, passwordHash, firstName, lastName string) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	GetByID(ctx context.Context, userID int) (models.User, error)
	GetProfile(ctx context.Context, userID int) (models.User, models.Profile, error)
	UpdateProfile(ctx context.Context, userID int, update models.ProfileView) error
	GetOtherUser(ctx context.Context, userID int) (models.OtherUser, error)
	ListOtherUsers(ctx context.Context, excludeUserID int) ([]models.MatchedUser, error)
}

// UserRepo is a sqlx implementation of UserRepository.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// CreateUser inserts a user together with its empty profile row.
func (r *UserRepo) CreateUser(ctx context.Context, username, email, passwordHash, firstName, lastName string) (models.User, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.User{}, err
	}
	defer tx.Rollback()

	var user models.User
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO users (username, email, password_hash, first_name, last_name)
         VALUES ($1, $2, $3, $4, $5)
         RETURNING id, username, email, password_hash, first_name, last_name, created_at`,
		username, email, passwordHash, firstName, lastName).StructScan(&user)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrUsernameTaken
		}
		return models.User{}, err
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO profiles (user_id) VALUES ($1)`, user.ID); err != nil {
		return models.User{}, err
	}

	return user, tx.Commit()
}

// GetByUsername fetches a user by username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user,
		`SELECT id, username, email, password_hash, first_name, last_name, created_at FROM users WHERE username=$1`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, userID int) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user,
		`SELECT id, username, email, password_hash, first_name, last_name, created_at FROM users WHERE id=$1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// GetProfile fetches a user together with its profile extension.
func (r *UserRepo) GetProfile(ctx context.Context, userID int) (models.User, models.Profile, error) {
	user, err := r.GetByID(ctx, userID)
	if err != nil {
		return models.User{}, models.Profile{}, err
	}

	var profile models.Profile
	err = r.db.GetContext(ctx, &profile, `SELECT user_id, photo, gender FROM profiles WHERE user_id=$1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		profile = models.Profile{UserID: userID}
		err = nil
	}
	return user, profile, err
}

// UpdateProfile applies the writable profile fields.
func (r *UserRepo) UpdateProfile(ctx context.Context, userID int, update models.ProfileView) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET first_name=$1, last_name=$2, email=$3 WHERE id=$4`,
		update.User.FirstName, update.User.LastName, update.User.Email, userID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO profiles (user_id, photo, gender) VALUES ($1, $2, $3)
         ON CONFLICT (user_id) DO UPDATE SET photo=EXCLUDED.photo, gender=EXCLUDED.gender`,
		userID, update.Photo, update.Gender); err != nil {
		return err
	}
	return tx.Commit()
}

// GetOtherUser returns the short representation used in chat and
// friendship payloads.
func (r *UserRepo) GetOtherUser(ctx context.Context, userID int) (models.OtherUser, error) {
	var other models.OtherUser
	err := r.db.GetContext(ctx, &other,
		`SELECT u.id, u.first_name, u.last_name, COALESCE(p.photo, '') AS avatar
         FROM users u LEFT JOIN profiles p ON p.user_id = u.id
         WHERE u.id=$1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.OtherUser{}, ErrUserNotFound
	}
	return other, err
}

// ListOtherUsers returns every user except the caller, with gender, as
// search-result skeletons. Percentage and status are filled by the caller.
func (r *UserRepo) ListOtherUsers(ctx context.Context, excludeUserID int) ([]models.MatchedUser, error) {
	rows, err := r.db.QueryxContext(ctx,
		`SELECT u.id, u.username, u.first_name, u.last_name, u.email, p.gender
         FROM users u LEFT JOIN profiles p ON p.user_id = u.id
         WHERE u.id <> $1
         ORDER BY u.id`, excludeUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.MatchedUser
	for rows.Next() {
		var m models.MatchedUser
		if err := rows.Scan(&m.ID, &m.Username, &m.FirstName, &m.LastName, &m.Email, &m.Gender); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}
