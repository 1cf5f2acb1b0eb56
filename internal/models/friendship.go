package models

import "time"

type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "pending"
	FriendshipAccepted FriendshipStatus = "accepted"
	// FriendshipBlocked is a valid stored value, but no operation sets it yet.
	FriendshipBlocked FriendshipStatus = "blocked"
)

// Friendship is a directed edge: UserID requested, FriendID is the target.
type Friendship struct {
	ID        int64            `db:"id" json:"id"`
	UserID    int64            `db:"user_id" json:"userId"`
	FriendID  int64            `db:"friend_id" json:"friendId"`
	Status    FriendshipStatus `db:"status" json:"status"`
	CreatedAt time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time        `db:"updated_at" json:"updatedAt"`
}

// Involves reports whether userID is either side of the edge.
func (f *Friendship) Involves(userID int64) bool {
	return f.UserID == userID || f.FriendID == userID
}

// OtherParty returns the id on the opposite side from userID.
func (f *Friendship) OtherParty(userID int64) int64 {
	if f.UserID == userID {
		return f.FriendID
	}
	return f.UserID
}

// IncomingRequest is a pending friendship with the requester attached.
type IncomingRequest struct {
	Friendship
	User UserSummary `db:"user" json:"user"`
}

// OutgoingRequest is the trimmed view of a pending friendship the caller sent.
type OutgoingRequest struct {
	ID        int64            `db:"id" json:"id"`
	FriendID  int64            `db:"friend_id" json:"friendId"`
	Status    FriendshipStatus `db:"status" json:"status"`
	CreatedAt time.Time        `db:"created_at" json:"createdAt"`
}
