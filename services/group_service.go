// File: /services/group_service.go
package services

import (
	"context"
	"fitcrew-api/models"
	"fitcrew-api/repositories"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	msgSoleAdminLeave  = "You are the only admin. Please assign another admin before leaving or delete the group."
	msgSoleAdminRemove = "Cannot remove the only admin of the group"
	msgSoleAdminDemote = "Cannot demote the only admin of the group"
)

type GroupService struct {
	db        *gorm.DB
	groupRepo *repositories.GroupRepository
	userRepo  *repositories.UserRepository
	now       func() time.Time
}

func NewGroupService(db *gorm.DB, groupRepo *repositories.GroupRepository, userRepo *repositories.UserRepository) *GroupService {
	return &GroupService{
		db:        db,
		groupRepo: groupRepo,
		userRepo:  userRepo,
		now:       time.Now,
	}
}

// WeekStart returns midnight of the most recent Sunday in now's location.
// A Sunday maps to itself.
func WeekStart(now time.Time) time.Time {
	y, m, d := now.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return midnight.AddDate(0, 0, -int(now.Weekday()))
}

// Create makes a group with creatorID as its first admin
func (s *GroupService) Create(ctx context.Context, name, description, creatorID string) (*models.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, newError(ErrInvalidInput, "Group name is required")
	}

	group := &models.Group{
		ID:          uuid.New().String(),
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedBy:   creatorID,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.groupRepo.WithTx(tx)
		if err := repo.Create(ctx, group); err != nil {
			return err
		}
		return repo.AddMember(ctx, &models.GroupMember{
			GroupID: group.ID,
			UserID:  creatorID,
			Role:    models.GroupRoleAdmin,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}
	return group, nil
}

func (s *GroupService) ListForUser(ctx context.Context, userID string) ([]models.GroupListItem, error) {
	rows, err := s.groupRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return rows, nil
}

// GetMembers returns the weekly leaderboard of a group the caller belongs to.
func (s *GroupService) GetMembers(ctx context.Context, groupID, callerID string) ([]models.GroupMemberStats, error) {
	if _, err := s.findGroup(ctx, groupID); err != nil {
		return nil, err
	}
	if _, err := s.membership(ctx, s.groupRepo, groupID, callerID); err != nil {
		if isServiceKind(err, ErrNotFound) {
			return nil, newError(ErrForbidden, "You are not a member of this group")
		}
		return nil, err
	}

	members, err := s.groupRepo.ListMembers(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	since := WeekStart(s.now()).Format(models.DateLayout)
	workouts, err := s.groupRepo.MemberWorkoutsSince(ctx, groupID, since)
	if err != nil {
		return nil, fmt.Errorf("load member workouts: %w", err)
	}

	type tally struct {
		count   int
		seen    map[models.WorkoutDetail]bool
		details []models.WorkoutDetail
	}
	tallies := make(map[string]*tally, len(members))
	for _, w := range workouts {
		t := tallies[w.UserID]
		if t == nil {
			t = &tally{seen: map[models.WorkoutDetail]bool{}}
			tallies[w.UserID] = t
		}
		t.count++
		detail := models.WorkoutDetail{WorkoutType: "Other", WorkoutName: w.WorkoutName}
		if w.WorkoutType != nil && strings.TrimSpace(*w.WorkoutType) != "" {
			detail.WorkoutType = *w.WorkoutType
		}
		if !t.seen[detail] {
			t.seen[detail] = true
			t.details = append(t.details, detail)
		}
	}

	for i := range members {
		members[i].WorkoutDetails = []models.WorkoutDetail{}
		if t := tallies[members[i].ID]; t != nil {
			members[i].WeeklyWorkouts = t.count
			members[i].WorkoutDetails = t.details
		}
	}
	sort.SliceStable(members, func(i, j int) bool {
		if members[i].WeeklyWorkouts != members[j].WeeklyWorkouts {
			return members[i].WeeklyWorkouts > members[j].WeeklyWorkouts
		}
		return members[i].FullName < members[j].FullName
	})
	return members, nil
}

func (s *GroupService) AddMember(ctx context.Context, groupID, actorID, newUserID string) (*models.GroupMember, error) {
	newUserID = strings.TrimSpace(newUserID)
	if newUserID == "" {
		return nil, newError(ErrInvalidInput, "User ID is required")
	}
	if _, err := s.findGroup(ctx, groupID); err != nil {
		return nil, err
	}
	if err := s.requireAdmin(ctx, s.groupRepo, groupID, actorID, "Only admins can add members"); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.FindByID(ctx, newUserID); err != nil {
		if isNotFound(err) {
			return nil, newError(ErrNotFound, "User not found")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	member := &models.GroupMember{GroupID: groupID, UserID: newUserID, Role: models.GroupRoleMember}
	err := s.mutateMembers(ctx, groupID, msgSoleAdminRemove, func(repo *repositories.GroupRepository) error {
		if _, err := repo.FindMember(ctx, groupID, newUserID); err == nil {
			return newError(ErrConflict, "User is already a member of this group")
		} else if !isNotFound(err) {
			return err
		}
		if err := repo.AddMember(ctx, member); err != nil {
			if isDuplicateKey(err) {
				return newError(ErrConflict, "User is already a member of this group")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return member, nil
}

// RemoveMember lets an admin remove anyone, and anyone remove themselves.
func (s *GroupService) RemoveMember(ctx context.Context, groupID, actorID, targetID string) error {
	if actorID == targetID {
		return s.Leave(ctx, groupID, actorID)
	}
	if _, err := s.findGroup(ctx, groupID); err != nil {
		return err
	}
	if err := s.requireAdmin(ctx, s.groupRepo, groupID, actorID, "Only admins can remove members"); err != nil {
		return err
	}
	return s.mutateMembers(ctx, groupID, msgSoleAdminRemove, func(repo *repositories.GroupRepository) error {
		if _, err := s.membership(ctx, repo, groupID, targetID); err != nil {
			return err
		}
		return repo.RemoveMember(ctx, groupID, targetID)
	})
}

func (s *GroupService) UpdateMemberRole(ctx context.Context, groupID, actorID, targetID string, role models.GroupRole) error {
	if !role.Valid() {
		return newError(ErrInvalidInput, "Role must be admin or member")
	}
	if _, err := s.findGroup(ctx, groupID); err != nil {
		return err
	}
	if err := s.requireAdmin(ctx, s.groupRepo, groupID, actorID, "Only admins can change roles"); err != nil {
		return err
	}
	return s.mutateMembers(ctx, groupID, msgSoleAdminDemote, func(repo *repositories.GroupRepository) error {
		member, err := s.membership(ctx, repo, groupID, targetID)
		if err != nil {
			return err
		}
		if member.Role == role {
			return nil
		}
		return repo.UpdateRole(ctx, groupID, targetID, role)
	})
}

func (s *GroupService) Leave(ctx context.Context, groupID, userID string) error {
	if _, err := s.findGroup(ctx, groupID); err != nil {
		return err
	}
	return s.mutateMembers(ctx, groupID, msgSoleAdminLeave, func(repo *repositories.GroupRepository) error {
		member, err := s.membership(ctx, repo, groupID, userID)
		if err != nil {
			return err
		}
		if member.Role == models.GroupRoleAdmin {
			admins, err := repo.CountAdmins(ctx, groupID)
			if err != nil {
				return err
			}
			if admins <= 1 {
				return newError(ErrInvalidOperation, msgSoleAdminLeave)
			}
		}
		return repo.RemoveMember(ctx, groupID, userID)
	})
}

func (s *GroupService) Delete(ctx context.Context, groupID, actorID string) error {
	if _, err := s.findGroup(ctx, groupID); err != nil {
		return err
	}
	if err := s.requireAdmin(ctx, s.groupRepo, groupID, actorID, "Only admins can delete groups"); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.groupRepo.WithTx(tx).Delete(ctx, groupID)
	})
	if err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	return nil
}

// mutateMembers runs fn in a transaction and checks the admin invariant
// before committing.
func (s *GroupService) mutateMembers(ctx context.Context, groupID, violation string, fn func(repo *repositories.GroupRepository) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.groupRepo.WithTx(tx)
		if err := fn(repo); err != nil {
			return err
		}
		return ensureAdminInvariant(ctx, repo, groupID, violation)
	})
	if err == nil || isServiceError(err) {
		return err
	}
	return fmt.Errorf("update group members: %w", err)
}

// ensureAdminInvariant fails when the group still has members but no admin.
func ensureAdminInvariant(ctx context.Context, repo *repositories.GroupRepository, groupID, violation string) error {
	members, err := repo.CountMembers(ctx, groupID)
	if err != nil {
		return err
	}
	if members == 0 {
		return nil
	}
	admins, err := repo.CountAdmins(ctx, groupID)
	if err != nil {
		return err
	}
	if admins == 0 {
		return newError(ErrInvalidOperation, violation)
	}
	return nil
}

func (s *GroupService) findGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group, err := s.groupRepo.FindByID(ctx, groupID)
	if err != nil {
		if isNotFound(err) {
			return nil, newError(ErrNotFound, "Group not found")
		}
		return nil, fmt.Errorf("find group: %w", err)
	}
	return group, nil
}

func (s *GroupService) membership(ctx context.Context, repo *repositories.GroupRepository, groupID, userID string) (*models.GroupMember, error) {
	member, err := repo.FindMember(ctx, groupID, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, newError(ErrNotFound, "User is not a member of this group")
		}
		return nil, fmt.Errorf("find membership: %w", err)
	}
	return member, nil
}

func (s *GroupService) requireAdmin(ctx context.Context, repo *repositories.GroupRepository, groupID, userID, message string) error {
	member, err := repo.FindMember(ctx, groupID, userID)
	if err != nil {
		if isNotFound(err) {
			return newError(ErrForbidden, message)
		}
		return fmt.Errorf("find membership: %w", err)
	}
	if member.Role != models.GroupRoleAdmin {
		return newError(ErrForbidden, message)
	}
	return nil
}
