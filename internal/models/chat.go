package models

import "time"

// Chat is a one-to-one conversation. Participants are stored in
// canonical order: User1ID < User2ID.
type Chat struct {
	ID        int       `db:"id" json:"id"`
	User1ID   int       `db:"user1_id" json:"user1"`
	User2ID   int       `db:"user2_id" json:"user2"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ChatView is the read representation returned by the chat list endpoint
// and carried on chat_update fan-out events.
type ChatView struct {
	ID                  int        `json:"id"`
	User1               int        `json:"user1"`
	User2               int        `json:"user2"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	OtherUser           OtherUser  `json:"other_user"`
	LastMessage         *string    `json:"last_message"`
	LastTime            *time.Time `json:"last_time"`
	LastMessageSenderID *int       `json:"last_message_sender_id"`
}
