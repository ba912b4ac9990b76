// File: /models/group.go
package models

import (
	"time"
)

type GroupRole string

const (
	GroupRoleAdmin  GroupRole = "admin"
	GroupRoleMember GroupRole = "member"
)

func (r GroupRole) Valid() bool {
	return r == GroupRoleAdmin || r == GroupRoleMember
}

type Group struct {
	ID          string    `json:"id" gorm:"primaryKey;size:191"`
	Name        string    `json:"name" gorm:"not null;size:255"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedBy   string    `json:"created_by" gorm:"not null;size:191;index"`
	CreatedAt   time.Time `json:"created_at"`

	Members []GroupMember `json:"-" gorm:"foreignKey:GroupID"`
}

// "groups" is a reserved word in MySQL 8
func (Group) TableName() string {
	return "training_groups"
}

type GroupMember struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	GroupID  string    `json:"group_id" gorm:"not null;size:191;uniqueIndex:uk_group_members_group_user"`
	UserID   string    `json:"user_id" gorm:"not null;size:191;uniqueIndex:uk_group_members_group_user;index"`
	Role     GroupRole `json:"role" gorm:"not null;default:'member';size:20"`
	JoinedAt time.Time `json:"joined_at" gorm:"autoCreateTime"`
}

func (GroupMember) TableName() string {
	return "group_members"
}

// GroupListItem is a group as seen by one of its members.
type GroupListItem struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedBy   string    `json:"created_by"`
	CreatorName string    `json:"creator_name"`
	CreatedAt   time.Time `json:"created_at"`
	Role        GroupRole `json:"role"`
	MemberCount int64     `json:"member_count"`
}

type WorkoutDetail struct {
	WorkoutType string `json:"workout_type"`
	WorkoutName string `json:"workout_name"`
}

// GroupMemberStats is one leaderboard row for the current week
type GroupMemberStats struct {
	ID             string          `json:"id"`
	FullName       string          `json:"full_name"`
	Email          string          `json:"email"`
	ProfilePicture *string         `json:"profile_picture"`
	CurrentStreak  int             `json:"current_streak"`
	Role           GroupRole       `json:"role"`
	JoinedAt       time.Time       `json:"joined_at"`
	WeeklyWorkouts int             `json:"weekly_workouts"`
	WorkoutDetails []WorkoutDetail `json:"workout_details" gorm:"-"`
}
