// File: /repositories/group_repository.go
package repositories

import (
	"context"
	"fitcrew-api/models"

	"gorm.io/gorm"
)

type GroupRepository struct {
	db *gorm.DB
}

// MemberWorkout is one workout logged by a group member
type MemberWorkout struct {
	UserID      string
	WorkoutType *string
	WorkoutName string
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

func (r *GroupRepository) WithTx(tx *gorm.DB) *GroupRepository {
	return &GroupRepository{db: tx}
}

func (r *GroupRepository) Create(ctx context.Context, group *models.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *GroupRepository) FindByID(ctx context.Context, id string) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// Delete removes the group together with its memberships.
func (r *GroupRepository) Delete(ctx context.Context, id string) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("group_id = ?", id).Delete(&models.GroupMember{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&models.Group{}).Error
}

func (r *GroupRepository) AddMember(ctx context.Context, member *models.GroupMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *GroupRepository) FindMember(ctx context.Context, groupID, userID string) (*models.GroupMember, error) {
	var member models.GroupMember
	err := r.db.WithContext(ctx).Where("group_id = ? AND user_id = ?", groupID, userID).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *GroupRepository) RemoveMember(ctx context.Context, groupID, userID string) error {
	return r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&models.GroupMember{}).Error
}

func (r *GroupRepository) UpdateRole(ctx context.Context, groupID, userID string, role models.GroupRole) error {
	return r.db.WithContext(ctx).Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Update("role", role).Error
}

func (r *GroupRepository) CountMembers(ctx context.Context, groupID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.GroupMember{}).Where("group_id = ?", groupID).Count(&count).Error
	return count, err
}

func (r *GroupRepository) CountAdmins(ctx context.Context, groupID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.GroupMember{}).
		Where("group_id = ? AND role = ?", groupID, models.GroupRoleAdmin).
		Count(&count).Error
	return count, err
}

// ListForUser returns every group userID belongs to, newest first
func (r *GroupRepository) ListForUser(ctx context.Context, userID string) ([]models.GroupListItem, error) {
	rows := make([]models.GroupListItem, 0)
	err := r.db.WithContext(ctx).
		Table("training_groups g").
		Select(`g.id, g.name, g.description, g.created_by, g.created_at, gm.role,
			COALESCE(u.full_name, '') AS creator_name,
			(SELECT COUNT(*) FROM group_members m WHERE m.group_id = g.id) AS member_count`).
		Joins("JOIN group_members gm ON gm.group_id = g.id AND gm.user_id = ?", userID).
		Joins("LEFT JOIN users u ON u.id = g.created_by").
		Order("g.created_at DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *GroupRepository) ListMembers(ctx context.Context, groupID string) ([]models.GroupMemberStats, error) {
	rows := make([]models.GroupMemberStats, 0)
	err := r.db.WithContext(ctx).
		Table("group_members gm").
		Select("u.id, u.full_name, u.email, u.profile_picture, u.current_streak, gm.role, gm.joined_at").
		Joins("JOIN users u ON u.id = gm.user_id").
		Where("gm.group_id = ?", groupID).
		Scan(&rows).Error
	return rows, err
}

// MemberWorkoutsSince lists workouts of the group's members dated on or after since (YYYY-MM-DD).
func (r *GroupRepository) MemberWorkoutsSince(ctx context.Context, groupID, since string) ([]MemberWorkout, error) {
	var rows []MemberWorkout
	err := r.db.WithContext(ctx).
		Table("workouts w").
		Select("w.user_id, w.workout_type, w.workout_name").
		Joins("JOIN group_members gm ON gm.user_id = w.user_id AND gm.group_id = ?", groupID).
		Where("w.workout_date >= ?", since).
		Order("w.workout_date ASC, w.created_at ASC").
		Scan(&rows).Error
	return rows, err
}
