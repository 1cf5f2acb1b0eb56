package repositories

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"social-service/internal/db"
	"social-service/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, username, passwordHash string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ListExcept(ctx context.Context, id int64) ([]models.UserSummary, error)
	SetProfilePicture(ctx context.Context, id int64, url string) error
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = "id, username, password_hash, profile_picture, created_at, updated_at"

func (r *userRepository) Create(ctx context.Context, username, passwordHash string) (*models.User, error) {
	var user models.User
	err := r.db.QueryRowxContext(ctx, `
INSERT INTO users (username, password_hash)
VALUES ($1, $2)
RETURNING `+userColumns, username, passwordHash).StructScan(&user)
	if err != nil {
		if db.IsUniqueViolation(err, db.UsersUsernameKey) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, "SELECT "+userColumns+" FROM users WHERE id=$1", id)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, "SELECT "+userColumns+" FROM users WHERE username=$1", username)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ListExcept(ctx context.Context, id int64) ([]models.UserSummary, error) {
	users := []models.UserSummary{}
	err := r.db.SelectContext(ctx, &users, `
SELECT id, username, profile_picture
FROM users
WHERE id <> $1
ORDER BY id
`, id)
	return users, err
}

func (r *userRepository) SetProfilePicture(ctx context.Context, id int64, url string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE users SET profile_picture=$2, updated_at=NOW() WHERE id=$1", id, url)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
