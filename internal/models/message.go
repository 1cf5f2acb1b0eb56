package models

import "time"

type Message struct {
	ID         int64     `db:"id" json:"id"`
	SenderID   int64     `db:"sender_id" json:"senderId"`
	ReceiverID int64     `db:"receiver_id" json:"receiverId"`
	Content    string    `db:"content" json:"content"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// MessageView is a message joined with both participants.
type MessageView struct {
	Message
	Sender   Participant `db:"sender" json:"sender"`
	Receiver Participant `db:"receiver" json:"receiver"`
}
