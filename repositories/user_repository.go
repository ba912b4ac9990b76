// File: /repositories/user_repository.go
package repositories

import (
	"context"
	"fitcrew-api/models"
	"strings"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx returns a copy bound to tx
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// Update applies a column map to a single user
func (r *UserRepository) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates).Error
}

// IncrementCounters bumps total_workouts and total_points atomically.
func (r *UserRepository) IncrementCounters(ctx context.Context, id string, workouts, points int) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"total_workouts": gorm.Expr("total_workouts + ?", workouts),
		"total_points":   gorm.Expr("total_points + ?", points),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *UserRepository) UpdateStreaks(ctx context.Context, id string, current, longest int) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"current_streak": current,
		"longest_streak": longest,
	}).Error
}

func (r *UserRepository) ListActive(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("created_at ASC").Find(&users).Error
	return users, err
}

// likeEscaper makes % and _ literal in LIKE patterns. '!' is used as the escape
// character since a backslash is read differently by MySQL and Postgres literals.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// Search matches full_name or email case-insensitively among active users.
func (r *UserRepository) Search(ctx context.Context, callerID, query string, limit int) ([]models.User, error) {
	var users []models.User
	pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND id <> ?", true, callerID).
		Where("(LOWER(full_name) LIKE ? ESCAPE '!' OR LOWER(email) LIKE ? ESCAPE '!')", pattern, pattern).
		Order("full_name ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}
