package models

import "time"

// User is an account row. PasswordHash never leaves the service.
type User struct {
	ID           int       `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Profile is the one-to-one extension of a user.
type Profile struct {
	UserID int    `db:"user_id" json:"-"`
	Photo  string `db:"photo" json:"photo"`
	Gender *bool  `db:"gender" json:"gender"`
}

// ProfileView is the API shape for GET/PATCH /profile.
type ProfileView struct {
	User   ProfileUser `json:"user"`
	Photo  string      `json:"photo"`
	Gender *bool       `json:"gender"`
}

type ProfileUser struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// OtherUser is the short user representation embedded in chat and
// friendship payloads.
type OtherUser struct {
	ID        int    `db:"id" json:"id"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
	Avatar    string `db:"avatar" json:"avatar"`
}

// MatchedUser is a search result with tag overlap percentage and the
// friendship status between the caller and the user, when any.
type MatchedUser struct {
	ID         int     `json:"id"`
	Username   string  `json:"username"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	Email      string  `json:"email"`
	Gender     *bool   `json:"gender"`
	Percentage int     `json:"percentage"`
	Status     *string `json:"status"`
}
