package models

import "time"

// Friendship statuses. "sended" is the pending state the requester
// creates; only the recipient may move it to "accepted".
const (
	FriendshipPending  = "sended"
	FriendshipAccepted = "accepted"
)

// Friendship is a directed edge: FromUserID asked ToUserID.
type Friendship struct {
	ID         int       `db:"id" json:"id"`
	FromUserID int       `db:"from_user_id" json:"from_user"`
	ToUserID   int       `db:"to_user_id" json:"to_user"`
	Status     string    `db:"status" json:"status"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// FriendshipView serializes a friendship from the caller's perspective.
type FriendshipView struct {
	Status  string    `json:"status"`
	OtherID int       `json:"other_id"`
	Other   OtherUser `json:"other"`
}
