// File: /models/user.go
package models

import (
	"time"
)

type User struct {
	ID                   string    `json:"id" gorm:"primaryKey;size:191"`
	FullName             string    `json:"full_name" gorm:"not null;size:255;index"`
	Email                string    `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Password             string    `json:"-" gorm:"not null;size:255"`
	Phone                *string   `json:"phone" gorm:"size:50"`
	ProfilePicture       *string   `json:"profile_picture" gorm:"size:500"`
	Bio                  *string   `json:"bio" gorm:"type:text"`
	FitnessLevel         *string   `json:"fitness_level" gorm:"size:50"`
	TotalWorkouts        int       `json:"total_workouts" gorm:"not null;default:0"`
	TotalPoints          int       `json:"total_points" gorm:"not null;default:0"`
	CurrentStreak        int       `json:"current_streak" gorm:"not null;default:0"`
	LongestStreak        int       `json:"longest_streak" gorm:"not null;default:0"`
	AllowFriendRequests  bool      `json:"allow_friend_requests" gorm:"not null;default:true"`
	ShowWorkoutToFriends bool      `json:"show_workout_to_friends" gorm:"not null;default:true"`
	CompeteInLeaderboard bool      `json:"compete_in_leaderboard" gorm:"not null;default:true"`
	IsActive             bool      `json:"is_active" gorm:"not null;default:true;index"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`

	Workouts []Workout `json:"-" gorm:"foreignKey:UserID"`
}

func (User) TableName() string {
	return "users"
}

// UserSummary is the public slice of a user embedded in other payloads.
type UserSummary struct {
	ID             string  `json:"id"`
	FullName       string  `json:"full_name"`
	Email          string  `json:"email"`
	Phone          *string `json:"phone,omitempty"`
	ProfilePicture *string `json:"profile_picture"`
	Bio            *string `json:"bio,omitempty"`
	FitnessLevel   *string `json:"fitness_level"`
}

// UserProfile is what GET /users/profile/:id and PUT /users/profile return
type UserProfile struct {
	ID                   string    `json:"id"`
	FullName             string    `json:"full_name"`
	Email                string    `json:"email"`
	Phone                *string   `json:"phone"`
	ProfilePicture       *string   `json:"profile_picture"`
	Bio                  *string   `json:"bio"`
	FitnessLevel         *string   `json:"fitness_level"`
	TotalWorkouts        int       `json:"total_workouts"`
	TotalPoints          int       `json:"total_points"`
	CurrentStreak        int       `json:"current_streak"`
	LongestStreak        int       `json:"longest_streak"`
	AllowFriendRequests  bool      `json:"allow_friend_requests"`
	ShowWorkoutToFriends bool      `json:"show_workout_to_friends"`
	CompeteInLeaderboard bool      `json:"compete_in_leaderboard"`
	FriendsCount         int64     `json:"friends_count"`
	CreatedAt            time.Time `json:"created_at"`
}

type UserStats struct {
	TotalWorkouts int   `json:"total_workouts"`
	TotalPoints   int   `json:"total_points"`
	CurrentStreak int   `json:"current_streak"`
	LongestStreak int   `json:"longest_streak"`
	FriendsCount  int64 `json:"friends_count"`
}

// DailySummary is one row of the weekly summary.
type DailySummary struct {
	Date          string `json:"date"`
	WorkoutCount  int64  `json:"workout_count"`
	TotalDuration int64  `json:"total_duration"`
	TotalCalories int64  `json:"total_calories"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:             u.ID,
		FullName:       u.FullName,
		Email:          u.Email,
		Phone:          u.Phone,
		ProfilePicture: u.ProfilePicture,
		Bio:            u.Bio,
		FitnessLevel:   u.FitnessLevel,
	}
}

func (u *User) Profile(friendsCount int64) UserProfile {
	return UserProfile{
		ID:                   u.ID,
		FullName:             u.FullName,
		Email:                u.Email,
		Phone:                u.Phone,
		ProfilePicture:       u.ProfilePicture,
		Bio:                  u.Bio,
		FitnessLevel:         u.FitnessLevel,
		TotalWorkouts:        u.TotalWorkouts,
		TotalPoints:          u.TotalPoints,
		CurrentStreak:        u.CurrentStreak,
		LongestStreak:        u.LongestStreak,
		AllowFriendRequests:  u.AllowFriendRequests,
		ShowWorkoutToFriends: u.ShowWorkoutToFriends,
		CompeteInLeaderboard: u.CompeteInLeaderboard,
		FriendsCount:         friendsCount,
		CreatedAt:            u.CreatedAt,
	}
}
