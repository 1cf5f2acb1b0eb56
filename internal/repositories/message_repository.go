package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"social-service/internal/models"
)

type MessageRepository interface {
	Create(ctx context.Context, senderID, receiverID int64, content string) (*models.Message, error)
	ListForUser(ctx context.Context, userID int64) ([]models.MessageView, error)
}

type messageRepository struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, senderID, receiverID int64, content string) (*models.Message, error) {
	var msg models.Message
	err := r.db.QueryRowxContext(ctx, `
INSERT INTO messages (sender_id, receiver_id, content)
VALUES ($1, $2, $3)
RETURNING id, sender_id, receiver_id, content, created_at, updated_at
`, senderID, receiverID, content).StructScan(&msg)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListForUser returns every message userID sent or received, newest first.
func (r *messageRepository) ListForUser(ctx context.Context, userID int64) ([]models.MessageView, error) {
	msgs := []models.MessageView{}
	err := r.db.SelectContext(ctx, &msgs, `
SELECT m.id, m.sender_id, m.receiver_id, m.content, m.created_at, m.updated_at,
       s.id AS "sender.id", s.username AS "sender.username",
       r.id AS "receiver.id", r.username AS "receiver.username"
FROM messages m
JOIN users s ON s.id = m.sender_id
JOIN users r ON r.id = m.receiver_id
WHERE m.sender_id=$1 OR m.receiver_id=$1
ORDER BY m.created_at DESC, m.id DESC
`, userID)
	return msgs, err
}
