// File: /services/friend_service.go
package services

import (
	"context"
	"fitcrew-api/cache"
	"fitcrew-api/events"
	"fitcrew-api/metrics"
	"fitcrew-api/models"
	"fitcrew-api/repositories"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"
)

const (
	minSearchLength = 2
	searchLimit     = 20
)

type FriendService struct {
	db             *gorm.DB
	userRepo       *repositories.UserRepository
	friendshipRepo *repositories.FriendshipRepository
	bus            *events.Bus
	mailer         Mailer
	cache          cache.StatsCache
}

func NewFriendService(
	db *gorm.DB,
	userRepo *repositories.UserRepository,
	friendshipRepo *repositories.FriendshipRepository,
	bus *events.Bus,
	mailer Mailer,
	statsCache cache.StatsCache,
) *FriendService {
	return &FriendService{
		db:             db,
		userRepo:       userRepo,
		friendshipRepo: friendshipRepo,
		bus:            bus,
		mailer:         mailer,
		cache:          statsCache,
	}
}

// SendRequest creates a pending friendship from requesterID to targetID.
func (s *FriendService) SendRequest(ctx context.Context, requesterID, targetID string) (*models.Friendship, error) {
	targetID = strings.TrimSpace(targetID)
	if targetID == "" {
		return nil, newError(ErrInvalidInput, "Friend ID is required")
	}
	if requesterID == targetID {
		return nil, newError(ErrInvalidOperation, "Cannot send friend request to yourself")
	}

	target, err := s.userRepo.FindByID(ctx, targetID)
	if err != nil {
		if isNotFound(err) {
			return nil, newError(ErrNotFound, "User not found")
		}
		return nil, fmt.Errorf("find target user: %w", err)
	}
	if !target.IsActive {
		return nil, newError(ErrNotFound, "User not found")
	}

	if _, err := s.friendshipRepo.FindByPair(ctx, requesterID, targetID); err == nil {
		return nil, newError(ErrConflict, "Friend request already exists")
	} else if !isNotFound(err) {
		return nil, fmt.Errorf("check friendship: %w", err)
	}

	if !target.AllowFriendRequests {
		return nil, newError(ErrForbidden, "This user is not accepting friend requests")
	}

	friendship := &models.Friendship{
		RequesterID: requesterID,
		AddresseeID: targetID,
		Status:      models.FriendshipStatusPending,
	}
	if err := s.friendshipRepo.Create(ctx, friendship); err != nil {
		if isDuplicateKey(err) {
			return nil, newError(ErrConflict, "Friend request already exists")
		}
		return nil, fmt.Errorf("create friend request: %w", err)
	}
	metrics.FriendRequests.WithLabelValues("sent").Inc()

	if requester, err := s.userRepo.FindByID(ctx, requesterID); err == nil {
		s.mailer.SendFriendRequest(target.Email, target.FullName, requester.FullName)
	}
	return friendship, nil
}

// CheckFriendship returns the row linking a and b, in either direction
func (s *FriendService) CheckFriendship(ctx context.Context, a, b string) (*models.Friendship, error) {
	f, err := s.friendshipRepo.FindByPair(ctx, a, b)
	if err != nil {
		if isNotFound(err) {
			return nil, newError(ErrNotFound, "Friendship not found")
		}
		return nil, fmt.Errorf("find friendship: %w", err)
	}
	return f, nil
}

func (s *FriendService) ListIncoming(ctx context.Context, userID string) ([]models.FriendRequestView, error) {
	rows, err := s.friendshipRepo.ListIncoming(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list incoming requests: %w", err)
	}
	return rows, nil
}

func (s *FriendService) ListOutgoing(ctx context.Context, userID string) ([]models.FriendRequestView, error) {
	rows, err := s.friendshipRepo.ListOutgoing(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list outgoing requests: %w", err)
	}
	return rows, nil
}

// Accept flips a pending request to accepted. Only the addressee may accept;
// accepting twice is a no-op.
func (s *FriendService) Accept(ctx context.Context, callerID string, requestID uint) (*models.Friendship, error) {
	f, err := s.findRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if f.AddresseeID != callerID {
		return nil, newError(ErrForbidden, "Only the recipient can accept this request")
	}
	if f.Status == models.FriendshipStatusAccepted {
		return f, nil
	}

	accepted := events.FriendshipAccepted{
		FriendshipID: f.ID,
		RequesterID:  f.RequesterID,
		AddresseeID:  f.AddresseeID,
		AcceptedAt:   time.Now(),
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.friendshipRepo.WithTx(tx).MarkAccepted(ctx, f); err != nil {
			return err
		}
		return s.bus.Dispatch(ctx, tx, accepted)
	})
	if err != nil {
		return nil, fmt.Errorf("accept friend request: %w", err)
	}

	metrics.FriendRequests.WithLabelValues("accepted").Inc()
	s.cache.Invalidate(ctx, f.RequesterID, f.AddresseeID)
	s.bus.Publish(ctx, accepted)
	return f, nil
}

// Reject deletes a request. Either side may do it: the addressee declines,
// the requester cancels.
func (s *FriendService) Reject(ctx context.Context, callerID string, requestID uint) error {
	f, err := s.findRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if !f.Involves(callerID) {
		return newError(ErrForbidden, "You cannot modify this friend request")
	}
	if err := s.friendshipRepo.Delete(ctx, f); err != nil {
		return fmt.Errorf("reject friend request: %w", err)
	}
	metrics.FriendRequests.WithLabelValues("rejected").Inc()
	if f.Status == models.FriendshipStatusAccepted {
		s.cache.Invalidate(ctx, f.RequesterID, f.AddresseeID)
	}
	return nil
}

func (s *FriendService) ListFriends(ctx context.Context, userID string) ([]models.FriendView, error) {
	rows, err := s.friendshipRepo.ListFriends(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}
	return rows, nil
}

func (s *FriendService) Remove(ctx context.Context, userID, otherID string) error {
	f, err := s.friendshipRepo.FindByPair(ctx, userID, otherID)
	if err != nil {
		if isNotFound(err) {
			return newError(ErrNotFound, "Friendship not found")
		}
		return fmt.Errorf("find friendship: %w", err)
	}
	if f.Status != models.FriendshipStatusAccepted {
		return newError(ErrNotFound, "Friendship not found")
	}
	if err := s.friendshipRepo.Delete(ctx, f); err != nil {
		return fmt.Errorf("remove friend: %w", err)
	}
	s.cache.Invalidate(ctx, userID, otherID)
	return nil
}

// Search finds active users by name or email and labels each with its
// relationship to callerID.
func (s *FriendService) Search(ctx context.Context, callerID, query string) ([]models.UserSearchResult, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minSearchLength {
		return nil, newError(ErrInvalidInput, "Search query must be at least 2 characters")
	}

	users, err := s.userRepo.Search(ctx, callerID, query, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}

	ids := make([]string, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}
	rows, err := s.friendshipRepo.FindForUser(ctx, callerID, ids)
	if err != nil {
		return nil, fmt.Errorf("load friendships: %w", err)
	}
	byOther := make(map[string]*models.Friendship, len(rows))
	for i := range rows {
		byOther[rows[i].OtherUser(callerID)] = &rows[i]
	}

	results := make([]models.UserSearchResult, 0, len(users))
	for _, u := range users {
		results = append(results, models.UserSearchResult{
			ID:               u.ID,
			FullName:         u.FullName,
			Email:            u.Email,
			ProfilePicture:   u.ProfilePicture,
			FitnessLevel:     u.FitnessLevel,
			TotalWorkouts:    u.TotalWorkouts,
			CurrentStreak:    u.CurrentStreak,
			FriendshipStatus: byOther[u.ID].RelationFor(callerID),
		})
	}
	return results, nil
}

func (s *FriendService) findRequest(ctx context.Context, id uint) (*models.Friendship, error) {
	f, err := s.friendshipRepo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, newError(ErrNotFound, "Friend request not found")
		}
		return nil, fmt.Errorf("find friend request: %w", err)
	}
	return f, nil
}
