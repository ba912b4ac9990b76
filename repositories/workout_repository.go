// File: /repositories/workout_repository.go
package repositories

import (
	"context"
	"fitcrew-api/models"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WorkoutRepository struct {
	db *gorm.DB
}

func NewWorkoutRepository(db *gorm.DB) *WorkoutRepository {
	return &WorkoutRepository{db: db}
}

func (r *WorkoutRepository) WithTx(tx *gorm.DB) *WorkoutRepository {
	return &WorkoutRepository{db: tx}
}

const summaryColumns = `w.*, u.full_name AS owner_name, u.profile_picture AS owner_picture,
	(SELECT COUNT(*) FROM workout_reactions r WHERE r.workout_id = w.id) AS reaction_count,
	(SELECT COUNT(*) FROM workout_comments c WHERE c.workout_id = w.id) AS comment_count`

func (r *WorkoutRepository) summaries(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("workouts w").
		Select(summaryColumns).
		Joins("JOIN users u ON u.id = w.user_id")
}

func (r *WorkoutRepository) Create(ctx context.Context, workout *models.Workout) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(workout).Error
}

func (r *WorkoutRepository) CreateExercises(ctx context.Context, exercises []models.Exercise) error {
	if len(exercises) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&exercises).Error
}

func (r *WorkoutRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Workout{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *WorkoutRepository) FindOwned(ctx context.Context, id, userID string) (*models.Workout, error) {
	var workout models.Workout
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&workout).Error
	if err != nil {
		return nil, err
	}
	return &workout, nil
}

// FindSummary loads one workout with owner and counts; exercises are not included.
func (r *WorkoutRepository) FindSummary(ctx context.Context, id string) (*models.WorkoutSummary, error) {
	var rows []models.WorkoutSummary
	if err := r.summaries(ctx).Where("w.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

func (r *WorkoutRepository) ListExercises(ctx context.Context, workoutID string) ([]models.Exercise, error) {
	exercises := make([]models.Exercise, 0)
	err := r.db.WithContext(ctx).Where("workout_id = ?", workoutID).Order("position ASC, id ASC").Find(&exercises).Error
	return exercises, err
}

func (r *WorkoutRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.WorkoutSummary, error) {
	rows := make([]models.WorkoutSummary, 0)
	err := r.summaries(ctx).
		Where("w.user_id = ?", userID).
		Order("w.workout_date DESC, w.created_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	return rows, err
}

// ListByDate returns userID's workouts dated date, latest workout_time first.
func (r *WorkoutRepository) ListByDate(ctx context.Context, userID, date string) ([]models.Workout, error) {
	workouts := make([]models.Workout, 0)
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND workout_date = ?", userID, date).
		Order("workout_time DESC, created_at DESC").
		Find(&workouts).Error
	return workouts, err
}

// FriendsFeed returns public workouts of accepted friends who share their workouts.
func (r *WorkoutRepository) FriendsFeed(ctx context.Context, userID string, limit int) ([]models.WorkoutSummary, error) {
	rows := make([]models.WorkoutSummary, 0)
	err := r.summaries(ctx).
		Joins(`JOIN friendships f ON f.status = ? AND
			((f.user1_id = ? AND f.user2_id = w.user_id) OR (f.user2_id = ? AND f.user1_id = w.user_id))`,
			models.FriendshipStatusAccepted, userID, userID).
		Where("w.is_public = ? AND u.show_workout_to_friends = ? AND u.is_active = ?", true, true, true).
		Order("w.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// Delete removes a workout and everything hanging off it.
func (r *WorkoutRepository) Delete(ctx context.Context, id string) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("workout_id = ?", id).Delete(&models.Exercise{}).Error; err != nil {
		return err
	}
	if err := db.Where("workout_id = ?", id).Delete(&models.Reaction{}).Error; err != nil {
		return err
	}
	if err := db.Where("workout_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&models.Workout{}).Error
}

// UpsertReaction keeps a single reaction per (workout, user); the latest type wins.
func (r *WorkoutRepository) UpsertReaction(ctx context.Context, reaction *models.Reaction) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "workout_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"reaction_type", "updated_at"}),
	}).Create(reaction).Error
}

func (r *WorkoutRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *WorkoutRepository) ListComments(ctx context.Context, workoutID string) ([]models.CommentView, error) {
	rows := make([]models.CommentView, 0)
	err := r.db.WithContext(ctx).
		Table("workout_comments c").
		Select("c.*, u.full_name AS author_name, u.profile_picture AS author_picture").
		Joins("JOIN users u ON u.id = c.user_id").
		Where("c.workout_id = ?", workoutID).
		Order("c.created_at ASC, c.id ASC").
		Scan(&rows).Error
	return rows, err
}

// DistinctDates lists the days userID logged at least one workout, oldest first.
func (r *WorkoutRepository) DistinctDates(ctx context.Context, userID string) ([]string, error) {
	dates := make([]string, 0)
	err := r.db.WithContext(ctx).Model(&models.Workout{}).
		Where("user_id = ?", userID).
		Distinct("workout_date").
		Order("workout_date ASC").
		Pluck("workout_date", &dates).Error
	return dates, err
}

// DailyTotals aggregates userID's workouts per day from since onwards.
func (r *WorkoutRepository) DailyTotals(ctx context.Context, userID string, since time.Time) ([]models.DailySummary, error) {
	rows := make([]models.DailySummary, 0)
	err := r.db.WithContext(ctx).Model(&models.Workout{}).
		Select(`workout_date AS date, COUNT(*) AS workout_count,
			COALESCE(SUM(duration), 0) AS total_duration,
			COALESCE(SUM(calories_burned), 0) AS total_calories`).
		Where("user_id = ? AND workout_date >= ?", userID, since.Format(models.DateLayout)).
		Group("workout_date").
		Order("workout_date ASC").
		Scan(&rows).Error
	return rows, err
}
