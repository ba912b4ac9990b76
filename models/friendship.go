// File: /models/friendship.go
package models

import (
	"time"

	"gorm.io/gorm"
)

type FriendshipStatus string

const (
	FriendshipStatusPending  FriendshipStatus = "pending"
	FriendshipStatusAccepted FriendshipStatus = "accepted"
)

// Relationship labels returned by user search, relative to the caller.
const (
	RelationFriends         = "friends"
	RelationRequestSent     = "request_sent"
	RelationRequestReceived = "request_received"
	RelationNone            = "none"
)

// Friendship is the single row for an unordered pair of users. User1ID is
// always the smaller id so the unique index covers both directions.
type Friendship struct {
	ID          uint             `json:"id" gorm:"primaryKey"`
	User1ID     string           `json:"-" gorm:"not null;size:191;uniqueIndex:uk_friendships_pair"`
	User2ID     string           `json:"-" gorm:"not null;size:191;uniqueIndex:uk_friendships_pair"`
	RequesterID string           `json:"requester_id" gorm:"not null;size:191;index"`
	AddresseeID string           `json:"addressee_id" gorm:"not null;size:191;index"`
	Status      FriendshipStatus `json:"status" gorm:"not null;default:'pending';size:20"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func (Friendship) TableName() string {
	return "friendships"
}

// BeforeCreate keeps the pair ordered regardless of who sent the request
func (f *Friendship) BeforeCreate(_ *gorm.DB) error {
	f.User1ID, f.User2ID = OrderedPair(f.RequesterID, f.AddresseeID)
	if f.Status == "" {
		f.Status = FriendshipStatusPending
	}
	return nil
}

func OrderedPair(a, b string) (string, string) {
	if a > b {
		return b, a
	}
	return a, b
}

// OtherUser resolves the counterpart of userID in this row.
func (f *Friendship) OtherUser(userID string) string {
	if f.RequesterID == userID {
		return f.AddresseeID
	}
	return f.RequesterID
}

func (f *Friendship) Involves(userID string) bool {
	return f.RequesterID == userID || f.AddresseeID == userID
}

// RelationFor labels the row from the point of view of callerID.
func (f *Friendship) RelationFor(callerID string) string {
	if f == nil {
		return RelationNone
	}
	switch {
	case f.Status == FriendshipStatusAccepted:
		return RelationFriends
	case f.RequesterID == callerID:
		return RelationRequestSent
	default:
		return RelationRequestReceived
	}
}

// FriendRequestView is a pending request joined with the counterpart's profile
type FriendRequestView struct {
	ID             uint      `json:"id"`
	UserID         string    `json:"user_id"`
	FullName       string    `json:"full_name"`
	Email          string    `json:"email"`
	ProfilePicture *string   `json:"profile_picture"`
	FitnessLevel   *string   `json:"fitness_level"`
	CreatedAt      time.Time `json:"created_at"`
}

type FriendView struct {
	FriendID       string    `json:"friend_id"`
	FullName       string    `json:"full_name"`
	Email          string    `json:"email"`
	ProfilePicture *string   `json:"profile_picture"`
	FitnessLevel   *string   `json:"fitness_level"`
	TotalWorkouts  int       `json:"total_workouts"`
	TotalPoints    int       `json:"total_points"`
	CurrentStreak  int       `json:"current_streak"`
	FriendsSince   time.Time `json:"friends_since"`
}

type UserSearchResult struct {
	ID               string  `json:"id"`
	FullName         string  `json:"full_name"`
	Email            string  `json:"email"`
	ProfilePicture   *string `json:"profile_picture"`
	FitnessLevel     *string `json:"fitness_level"`
	TotalWorkouts    int     `json:"total_workouts"`
	CurrentStreak    int     `json:"current_streak"`
	FriendshipStatus string  `json:"friendship_status"`
}
