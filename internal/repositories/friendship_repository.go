package repositories

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"social-service/internal/db"
	"social-service/internal/models"
)

type FriendshipRepository interface {
	Create(ctx context.Context, userID, friendID int64) (*models.Friendship, error)
	GetByID(ctx context.Context, id int64) (*models.Friendship, error)
	FindBetween(ctx context.Context, a, b int64) (*models.Friendship, error)
	AreFriends(ctx context.Context, a, b int64) (bool, error)
	UpdateStatus(ctx context.Context, id int64, status models.FriendshipStatus) (*models.Friendship, error)
	Delete(ctx context.Context, id int64) error
	ListFriends(ctx context.Context, userID int64) ([]models.UserSummary, error)
	ListIncoming(ctx context.Context, userID int64) ([]models.IncomingRequest, error)
	ListOutgoing(ctx context.Context, userID int64) ([]models.OutgoingRequest, error)
}

type friendshipRepository struct {
	db *sqlx.DB
}

func NewFriendshipRepository(db *sqlx.DB) FriendshipRepository {
	return &friendshipRepository{db: db}
}

const friendshipColumns = "id, user_id, friend_id, status, created_at, updated_at"

func (r *friendshipRepository) Create(ctx context.Context, userID, friendID int64) (*models.Friendship, error) {
	var f models.Friendship
	err := r.db.QueryRowxContext(ctx, `
INSERT INTO friendships (user_id, friend_id, status)
VALUES ($1, $2, 'pending')
RETURNING `+friendshipColumns, userID, friendID).StructScan(&f)
	if err != nil {
		if db.IsUniqueViolation(err, db.FriendshipPairKey) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return &f, nil
}

func (r *friendshipRepository) GetByID(ctx context.Context, id int64) (*models.Friendship, error) {
	var f models.Friendship
	if err := r.db.GetContext(ctx, &f, "SELECT "+friendshipColumns+" FROM friendships WHERE id=$1", id); err != nil {
		return nil, err
	}
	return &f, nil
}

// FindBetween returns the edge joining a and b in either direction, or sql.ErrNoRows.
func (r *friendshipRepository) FindBetween(ctx context.Context, a, b int64) (*models.Friendship, error) {
	var f models.Friendship
	err := r.db.GetContext(ctx, &f, `
SELECT `+friendshipColumns+`
FROM friendships
WHERE (user_id=$1 AND friend_id=$2) OR (user_id=$2 AND friend_id=$1)
LIMIT 1
`, a, b)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *friendshipRepository) AreFriends(ctx context.Context, a, b int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
SELECT EXISTS(
SELECT 1 FROM friendships
WHERE ((user_id=$1 AND friend_id=$2) OR (user_id=$2 AND friend_id=$1))
AND status='accepted'
)
`, a, b)
	return exists, err
}

func (r *friendshipRepository) UpdateStatus(ctx context.Context, id int64, status models.FriendshipStatus) (*models.Friendship, error) {
	var f models.Friendship
	err := r.db.QueryRowxContext(ctx, `
UPDATE friendships SET status=$2, updated_at=NOW()
WHERE id=$1
RETURNING `+friendshipColumns, id, string(status)).StructScan(&f)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *friendshipRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM friendships WHERE id=$1", id)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *friendshipRepository) ListFriends(ctx context.Context, userID int64) ([]models.UserSummary, error) {
	friends := []models.UserSummary{}
	err := r.db.SelectContext(ctx, &friends, `
SELECT u.id, u.username, u.profile_picture
FROM friendships f
JOIN users u ON u.id = CASE WHEN f.user_id=$1 THEN f.friend_id ELSE f.user_id END
WHERE (f.user_id=$1 OR f.friend_id=$1) AND f.status='accepted'
ORDER BY u.id
`, userID)
	return friends, err
}

func (r *friendshipRepository) ListIncoming(ctx context.Context, userID int64) ([]models.IncomingRequest, error) {
	reqs := []models.IncomingRequest{}
	err := r.db.SelectContext(ctx, &reqs, `
SELECT f.id, f.user_id, f.friend_id, f.status, f.created_at, f.updated_at,
       u.id AS "user.id", u.username AS "user.username", u.profile_picture AS "user.profile_picture"
FROM friendships f
JOIN users u ON u.id = f.user_id
WHERE f.friend_id=$1 AND f.status='pending'
ORDER BY f.created_at DESC
`, userID)
	return reqs, err
}

func (r *friendshipRepository) ListOutgoing(ctx context.Context, userID int64) ([]models.OutgoingRequest, error) {
	reqs := []models.OutgoingRequest{}
	err := r.db.SelectContext(ctx, &reqs, `
SELECT id, friend_id, status, created_at
FROM friendships
WHERE user_id=$1 AND status='pending'
ORDER BY created_at DESC
`, userID)
	return reqs, err
}
