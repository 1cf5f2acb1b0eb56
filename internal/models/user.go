package models

import "time"

type User struct {
	ID             int64     `db:"id" json:"id"`
	Username       string    `db:"username" json:"username"`
	PasswordHash   string    `db:"password_hash" json:"-"`
	ProfilePicture *string   `db:"profile_picture" json:"profilePicture"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}

// UserSummary is the public projection of a User.
type UserSummary struct {
	ID             int64   `db:"id" json:"id"`
	Username       string  `db:"username" json:"username"`
	ProfilePicture *string `db:"profile_picture" json:"profilePicture"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, ProfilePicture: u.ProfilePicture}
}

// Participant is the minimal identity attached to a message.
type Participant struct {
	ID       int64  `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
}
