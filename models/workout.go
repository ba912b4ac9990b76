// File: /models/workout.go
package models

import (
	"time"
)

type ReactionType string

const (
	ReactionLike   ReactionType = "like"
	ReactionFire   ReactionType = "fire"
	ReactionStrong ReactionType = "strong"
	ReactionClap   ReactionType = "clap"
)

func (r ReactionType) Valid() bool {
	switch r {
	case ReactionLike, ReactionFire, ReactionStrong, ReactionClap:
		return true
	}
	return false
}

// WorkoutPoints is awarded for every logged workout, independent of its content.
const WorkoutPoints = 10

// DateLayout is the stored format of workout_date.
const DateLayout = "2006-01-02"

type Workout struct {
	ID             string    `json:"id" gorm:"primaryKey;size:191"`
	UserID         string    `json:"user_id" gorm:"not null;size:191;index:idx_workouts_user_date,priority:1"`
	WorkoutName    string    `json:"workout_name" gorm:"not null;size:255"`
	WorkoutType    *string   `json:"workout_type" gorm:"size:100"`
	Description    *string   `json:"description" gorm:"type:text"`
	Duration       *int      `json:"duration"`        // minutes
	CaloriesBurned *int      `json:"calories_burned"` // kcal
	WorkoutDate    string    `json:"workout_date" gorm:"not null;size:10;index:idx_workouts_user_date,priority:2"`
	WorkoutTime    *string   `json:"workout_time" gorm:"size:8"`
	Notes          *string   `json:"notes" gorm:"type:text"`
	IsPublic       bool      `json:"is_public" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at" gorm:"index"`
	UpdatedAt      time.Time `json:"updated_at"`

	Exercises []Exercise `json:"exercises,omitempty" gorm:"foreignKey:WorkoutID"`
}

func (Workout) TableName() string {
	return "workouts"
}

type Exercise struct {
	ID           uint     `json:"id" gorm:"primaryKey"`
	WorkoutID    string   `json:"workout_id" gorm:"not null;size:191;index"`
	ExerciseName string   `json:"exercise_name" gorm:"not null;size:255"`
	Sets         *int     `json:"sets"`
	Reps         *int     `json:"reps"`
	Weight       *float64 `json:"weight"`
	RestTime     *int     `json:"rest_time"` // seconds
	Notes        *string  `json:"notes" gorm:"type:text"`
	Position     int      `json:"position" gorm:"not null;default:0"`
}

func (Exercise) TableName() string {
	return "exercises"
}

type Reaction struct {
	ID           uint         `json:"id" gorm:"primaryKey"`
	WorkoutID    string       `json:"workout_id" gorm:"not null;size:191;uniqueIndex:uk_workout_reactions_workout_user"`
	UserID       string       `json:"user_id" gorm:"not null;size:191;uniqueIndex:uk_workout_reactions_workout_user"`
	ReactionType ReactionType `json:"reaction_type" gorm:"not null;size:20"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (Reaction) TableName() string {
	return "workout_reactions"
}

type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	WorkoutID string    `json:"workout_id" gorm:"not null;size:191;index"`
	UserID    string    `json:"user_id" gorm:"not null;size:191"`
	Comment   string    `json:"comment" gorm:"not null;type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (Comment) TableName() string {
	return "workout_comments"
}

// WorkoutSummary is a workout annotated with its owner and interaction counts
type WorkoutSummary struct {
	Workout
	FullName       string  `json:"full_name,omitempty" gorm:"column:owner_name"`
	ProfilePicture *string `json:"profile_picture,omitempty" gorm:"column:owner_picture"`
	ReactionCount  int64   `json:"reaction_count"`
	CommentCount   int64   `json:"comment_count"`
}

type CommentView struct {
	Comment
	FullName       string  `json:"full_name" gorm:"column:author_name"`
	ProfilePicture *string `json:"profile_picture" gorm:"column:author_picture"`
}

// ExerciseInput is one nested entry of a create-workout request.
type ExerciseInput struct {
	ExerciseName string   `json:"exercise_name"`
	Sets         *int     `json:"sets"`
	Reps         *int     `json:"reps"`
	Weight       *float64 `json:"weight"`
	RestTime     *int     `json:"rest_time"`
	Notes        *string  `json:"notes"`
}

type CreateWorkoutInput struct {
	WorkoutName    string          `json:"workout_name"`
	WorkoutType    *string         `json:"workout_type"`
	Description    *string         `json:"description"`
	Duration       *int            `json:"duration"`
	CaloriesBurned *int            `json:"calories_burned"`
	WorkoutDate    string          `json:"workout_date"`
	WorkoutTime    *string         `json:"workout_time"`
	Notes          *string         `json:"notes"`
	IsPublic       *bool           `json:"is_public"`
	Exercises      []ExerciseInput `json:"exercises"`
}

// CreateWorkoutResult reports which nested exercises were dropped.
type CreateWorkoutResult struct {
	ID               string `json:"id"`
	ExercisesSaved   int    `json:"exercises_saved"`
	SkippedExercises []int  `json:"skipped_exercises"`
}
