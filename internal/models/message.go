package models

import "time"

// Message is a single chat message. Attachment is an optional URL.
type Message struct {
	ID         int       `db:"id" json:"id"`
	ChatID     int       `db:"chat_id" json:"chat"`
	SenderID   int       `db:"sender_id" json:"sender"`
	Text       string    `db:"text" json:"text"`
	Attachment *string   `db:"attachment" json:"attachment"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
