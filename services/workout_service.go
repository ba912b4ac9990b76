// File: /services/workout_service.go
package services

import (
	"context"
	"fitcrew-api/cache"
	"fitcrew-api/events"
	"fitcrew-api/metrics"
	"fitcrew-api/models"
	"fitcrew-api/repositories"
	"fitcrew-api/utils"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultWorkoutsLimit = 10
	DefaultFeedLimit     = 20
	MaxPageSize          = 100
)

type WorkoutService struct {
	db          *gorm.DB
	workoutRepo *repositories.WorkoutRepository
	bus         *events.Bus
	cache       cache.StatsCache
	now         func() time.Time
}

// WorkoutDetails is a single workout with owner, counts and ordered exercises.
type WorkoutDetails struct {
	models.WorkoutSummary
	Exercises []models.Exercise `json:"exercises"`
}

func NewWorkoutService(db *gorm.DB, workoutRepo *repositories.WorkoutRepository, bus *events.Bus, statsCache cache.StatsCache) *WorkoutService {
	return &WorkoutService{
		db:          db,
		workoutRepo: workoutRepo,
		bus:         bus,
		cache:       statsCache,
		now:         time.Now,
	}
}

// Create stores a workout with its exercises and awards points to the owner,
// all in one transaction. Exercises without a name are skipped and reported.
func (s *WorkoutService) Create(ctx context.Context, ownerID string, in models.CreateWorkoutInput) (*models.CreateWorkoutResult, error) {
	workout, err := s.buildWorkout(ownerID, in)
	if err != nil {
		return nil, err
	}

	exercises := make([]models.Exercise, 0, len(in.Exercises))
	skipped := make([]int, 0)
	for i, ex := range in.Exercises {
		name := strings.TrimSpace(ex.ExerciseName)
		if name == "" {
			skipped = append(skipped, i)
			continue
		}
		exercises = append(exercises, models.Exercise{
			WorkoutID:    workout.ID,
			ExerciseName: name,
			Sets:         ex.Sets,
			Reps:         ex.Reps,
			Weight:       ex.Weight,
			RestTime:     ex.RestTime,
			Notes:        utils.NilIfBlank(ex.Notes),
			Position:     i,
		})
	}

	logged := events.WorkoutLogged{
		WorkoutID: workout.ID,
		UserID:    ownerID,
		Points:    models.WorkoutPoints,
		LoggedAt:  s.now(),
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.workoutRepo.WithTx(tx)
		if err := repo.Create(ctx, workout); err != nil {
			return err
		}
		if err := repo.CreateExercises(ctx, exercises); err != nil {
			return err
		}
		return s.bus.Dispatch(ctx, tx, logged)
	})
	if err != nil {
		return nil, fmt.Errorf("create workout: %w", err)
	}

	s.cache.Invalidate(ctx, ownerID)
	s.bus.Publish(ctx, logged)

	return &models.CreateWorkoutResult{
		ID:               workout.ID,
		ExercisesSaved:   len(exercises),
		SkippedExercises: skipped,
	}, nil
}

func (s *WorkoutService) buildWorkout(ownerID string, in models.CreateWorkoutInput) (*models.Workout, error) {
	name := strings.TrimSpace(in.WorkoutName)
	if name == "" {
		return nil, newError(ErrInvalidInput, "Workout name is required")
	}

	date := strings.TrimSpace(in.WorkoutDate)
	if date == "" {
		date = s.now().Format(models.DateLayout)
	} else if _, err := time.Parse(models.DateLayout, date); err != nil {
		return nil, newError(ErrInvalidInput, "Workout date must be in YYYY-MM-DD format")
	}

	var workoutTime *string
	if t := utils.NilIfBlank(in.WorkoutTime); t != nil {
		if !utils.IsValidWorkoutTime(*t) {
			return nil, newError(ErrInvalidInput, "Workout time must be in HH:MM or HH:MM:SS format")
		}
		normalized := *t
		if len(normalized) == 5 {
			normalized += ":00"
		}
		workoutTime = &normalized
	}

	if (in.Duration != nil && *in.Duration < 0) || (in.CaloriesBurned != nil && *in.CaloriesBurned < 0) {
		return nil, newError(ErrInvalidInput, "Duration and calories must not be negative")
	}

	isPublic := true
	if in.IsPublic != nil {
		isPublic = *in.IsPublic
	}

	return &models.Workout{
		ID:             uuid.New().String(),
		UserID:         ownerID,
		WorkoutName:    name,
		WorkoutType:    utils.NilIfBlank(in.WorkoutType),
		Description:    utils.NilIfBlank(in.Description),
		Duration:       in.Duration,
		CaloriesBurned: in.CaloriesBurned,
		WorkoutDate:    date,
		WorkoutTime:    workoutTime,
		Notes:          utils.NilIfBlank(in.Notes),
		IsPublic:       isPublic,
	}, nil
}

func (s *WorkoutService) ListMine(ctx context.Context, ownerID string, limit, offset int) ([]models.WorkoutSummary, error) {
	if limit <= 0 {
		limit = DefaultWorkoutsLimit
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := s.workoutRepo.ListByUser(ctx, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	return rows, nil
}

func (s *WorkoutService) GetDetails(ctx context.Context, workoutID string) (*WorkoutDetails, error) {
	summary, err := s.workoutRepo.FindSummary(ctx, workoutID)
	if err != nil {
		if isNotFound(err) {
			return nil, newError(ErrNotFound, "Workout not found")
		}
		return nil, fmt.Errorf("find workout: %w", err)
	}
	exercises, err := s.workoutRepo.ListExercises(ctx, workoutID)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	return &WorkoutDetails{WorkoutSummary: *summary, Exercises: exercises}, nil
}

// Delete removes an owned workout with its exercises, reactions and comments.
// Counters are left as they are.
func (s *WorkoutService) Delete(ctx context.Context, workoutID, ownerID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.workoutRepo.WithTx(tx)
		if _, err := repo.FindOwned(ctx, workoutID, ownerID); err != nil {
			if isNotFound(err) {
				return newError(ErrNotFound, "Workout not found")
			}
			return err
		}
		return repo.Delete(ctx, workoutID)
	})
	if err == nil || isServiceError(err) {
		return err
	}
	return fmt.Errorf("delete workout: %w", err)
}

func (s *WorkoutService) Today(ctx context.Context, ownerID string) ([]models.Workout, error) {
	rows, err := s.workoutRepo.ListByDate(ctx, ownerID, s.now().Format(models.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("list today's workouts: %w", err)
	}
	return rows, nil
}

func (s *WorkoutService) FriendsFeed(ctx context.Context, callerID string, limit int) ([]models.WorkoutSummary, error) {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	rows, err := s.workoutRepo.FriendsFeed(ctx, callerID, limit)
	if err != nil {
		return nil, fmt.Errorf("friends feed: %w", err)
	}
	return rows, nil
}

// React records or replaces userID's reaction to a workout
func (s *WorkoutService) React(ctx context.Context, workoutID, userID string, reactionType models.ReactionType) error {
	if !reactionType.Valid() {
		return newError(ErrInvalidInput, "Invalid reaction type")
	}
	if err := s.requireWorkout(ctx, workoutID); err != nil {
		return err
	}
	reaction := &models.Reaction{
		WorkoutID:    workoutID,
		UserID:       userID,
		ReactionType: reactionType,
	}
	if err := s.workoutRepo.UpsertReaction(ctx, reaction); err != nil {
		return fmt.Errorf("save reaction: %w", err)
	}
	metrics.Reactions.WithLabelValues(string(reactionType)).Inc()
	return nil
}

func (s *WorkoutService) Comment(ctx context.Context, workoutID, userID, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, newError(ErrInvalidInput, "Comment cannot be empty")
	}
	if err := s.requireWorkout(ctx, workoutID); err != nil {
		return nil, err
	}
	comment := &models.Comment{WorkoutID: workoutID, UserID: userID, Comment: text}
	if err := s.workoutRepo.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("save comment: %w", err)
	}
	return comment, nil
}

func (s *WorkoutService) ListComments(ctx context.Context, workoutID string) ([]models.CommentView, error) {
	if err := s.requireWorkout(ctx, workoutID); err != nil {
		return nil, err
	}
	rows, err := s.workoutRepo.ListComments(ctx, workoutID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return rows, nil
}

func (s *WorkoutService) requireWorkout(ctx context.Context, workoutID string) error {
	exists, err := s.workoutRepo.Exists(ctx, workoutID)
	if err != nil {
		return fmt.Errorf("find workout: %w", err)
	}
	if !exists {
		return newError(ErrNotFound, "Workout not found")
	}
	return nil
}
