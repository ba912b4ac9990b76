// File: /repositories/friendship_repository.go
package repositories

import (
	"context"
	"fitcrew-api/models"

	"gorm.io/gorm"
)

type FriendshipRepository struct {
	db *gorm.DB
}

func NewFriendshipRepository(db *gorm.DB) *FriendshipRepository {
	return &FriendshipRepository{db: db}
}

func (r *FriendshipRepository) WithTx(tx *gorm.DB) *FriendshipRepository {
	return &FriendshipRepository{db: tx}
}

func (r *FriendshipRepository) Create(ctx context.Context, f *models.Friendship) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *FriendshipRepository) FindByID(ctx context.Context, id uint) (*models.Friendship, error) {
	var f models.Friendship
	if err := r.db.WithContext(ctx).First(&f, id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

// FindByPair returns the row for {a, b} in either direction
func (r *FriendshipRepository) FindByPair(ctx context.Context, a, b string) (*models.Friendship, error) {
	u1, u2 := models.OrderedPair(a, b)
	var f models.Friendship
	if err := r.db.WithContext(ctx).Where("user1_id = ? AND user2_id = ?", u1, u2).First(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

// FindForUser returns every row linking userID to one of others.
func (r *FriendshipRepository) FindForUser(ctx context.Context, userID string, others []string) ([]models.Friendship, error) {
	var rows []models.Friendship
	if len(others) == 0 {
		return rows, nil
	}
	err := r.db.WithContext(ctx).
		Where("(user1_id = ? AND user2_id IN ?) OR (user2_id = ? AND user1_id IN ?)", userID, others, userID, others).
		Find(&rows).Error
	return rows, err
}

func (r *FriendshipRepository) MarkAccepted(ctx context.Context, f *models.Friendship) error {
	f.Status = models.FriendshipStatusAccepted
	return r.db.WithContext(ctx).Model(f).Update("status", models.FriendshipStatusAccepted).Error
}

func (r *FriendshipRepository) Delete(ctx context.Context, f *models.Friendship) error {
	return r.db.WithContext(ctx).Delete(&models.Friendship{}, f.ID).Error
}

// ListIncoming returns pending requests addressed to userID, newest first
func (r *FriendshipRepository) ListIncoming(ctx context.Context, userID string) ([]models.FriendRequestView, error) {
	return r.listPending(ctx, "f.addressee_id", "f.requester_id", userID)
}

// ListOutgoing returns pending requests sent by userID, newest first
func (r *FriendshipRepository) ListOutgoing(ctx context.Context, userID string) ([]models.FriendRequestView, error) {
	return r.listPending(ctx, "f.requester_id", "f.addressee_id", userID)
}

func (r *FriendshipRepository) listPending(ctx context.Context, selfCol, otherCol, userID string) ([]models.FriendRequestView, error) {
	rows := make([]models.FriendRequestView, 0)
	err := r.db.WithContext(ctx).
		Table("friendships f").
		Select("f.id, u.id AS user_id, u.full_name, u.email, u.profile_picture, u.fitness_level, f.created_at").
		Joins("JOIN users u ON u.id = "+otherCol).
		Where(selfCol+" = ? AND f.status = ?", userID, models.FriendshipStatusPending).
		Order("f.created_at DESC").
		Order("f.id DESC").
		Scan(&rows).Error
	return rows, err
}

const otherSideExpr = "CASE WHEN f.user1_id = ? THEN f.user2_id ELSE f.user1_id END"

// ListFriends resolves the counterpart of every accepted row touching userID.
func (r *FriendshipRepository) ListFriends(ctx context.Context, userID string) ([]models.FriendView, error) {
	rows := make([]models.FriendView, 0)
	err := r.db.WithContext(ctx).
		Table("friendships f").
		Select(`u.id AS friend_id, u.full_name, u.email, u.profile_picture, u.fitness_level,
			u.total_workouts, u.total_points, u.current_streak, f.updated_at AS friends_since`).
		Joins("JOIN users u ON u.id = "+otherSideExpr, userID).
		Where("(f.user1_id = ? OR f.user2_id = ?) AND f.status = ?", userID, userID, models.FriendshipStatusAccepted).
		Order("u.full_name ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *FriendshipRepository) CountFriends(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Friendship{}).
		Where("(user1_id = ? OR user2_id = ?) AND status = ?", userID, userID, models.FriendshipStatusAccepted).
		Count(&count).Error
	return count, err
}
