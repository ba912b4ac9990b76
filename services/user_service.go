// File: /services/user_service.go
package services

import (
	"context"
	"fitcrew-api/cache"
	"fitcrew-api/models"
	"fitcrew-api/repositories"
	"fitcrew-api/utils"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type UserService struct {
	userRepo       *repositories.UserRepository
	friendshipRepo *repositories.FriendshipRepository
	workoutRepo    *repositories.WorkoutRepository
	credentials    *CredentialService
	mailer         Mailer
	cache          cache.StatsCache
	now            func() time.Time
}

type SignupInput struct {
	FullName string  `json:"full_name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Phone    *string `json:"phone"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResult struct {
	Token string             `json:"token"`
	User  models.UserSummary `json:"user"`
}

// UpdateProfileInput lists the only fields a user may change on their profile.
// Nil means "leave as is".
type UpdateProfileInput struct {
	FullName             *string `json:"full_name"`
	Phone                *string `json:"phone"`
	Bio                  *string `json:"bio"`
	ProfilePicture       *string `json:"profile_picture"`
	FitnessLevel         *string `json:"fitness_level"`
	AllowFriendRequests  *bool   `json:"allow_friend_requests"`
	ShowWorkoutToFriends *bool   `json:"show_workout_to_friends"`
	CompeteInLeaderboard *bool   `json:"compete_in_leaderboard"`
}

func NewUserService(
	userRepo *repositories.UserRepository,
	friendshipRepo *repositories.FriendshipRepository,
	workoutRepo *repositories.WorkoutRepository,
	credentials *CredentialService,
	mailer Mailer,
	statsCache cache.StatsCache,
) *UserService {
	return &UserService{
		userRepo:       userRepo,
		friendshipRepo: friendshipRepo,
		workoutRepo:    workoutRepo,
		credentials:    credentials,
		mailer:         mailer,
		cache:          statsCache,
		now:            time.Now,
	}
}

func (s *UserService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.FullName == "" || in.Email == "" || in.Password == "" {
		return nil, newError(ErrInvalidInput, "Please provide all required fields")
	}
	if !utils.IsValidEmail(in.Email) {
		return nil, newError(ErrInvalidInput, "Please provide a valid email")
	}

	exists, err := s.userRepo.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, newError(ErrConflict, "User already exists with this email")
	}

	hashed, err := s.credentials.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:                   uuid.New().String(),
		FullName:             in.FullName,
		Email:                in.Email,
		Password:             hashed,
		Phone:                utils.NilIfBlank(in.Phone),
		AllowFriendRequests:  true,
		ShowWorkoutToFriends: true,
		CompeteInLeaderboard: true,
		IsActive:             true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if isDuplicateKey(err) {
			return nil, newError(ErrConflict, "User already exists with this email")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.credentials.IssueToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	s.mailer.SendWelcome(user.Email, user.FullName)

	summary := user.Summary()
	summary.Bio, summary.ProfilePicture, summary.FitnessLevel = nil, nil, nil
	return &AuthResult{Token: token, User: summary}, nil
}

func (s *UserService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, newError(ErrInvalidInput, "Please provide email and password")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil, newError(ErrUnauthenticated, "Invalid credentials")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !user.IsActive || !s.credentials.CheckPassword(user.Password, in.Password) {
		return nil, newError(ErrUnauthenticated, "Invalid credentials")
	}

	token, err := s.credentials.IssueToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user.Summary()}, nil
}

// Authenticate resolves a bearer token to an active user id.
func (s *UserService) Authenticate(ctx context.Context, token string) (*Claims, error) {
	claims, err := s.credentials.ParseToken(token)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if isNotFound(err) {
			return nil, newError(ErrUnauthenticated, "Invalid token")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !user.IsActive {
		return nil, newError(ErrUnauthenticated, "Account is deactivated")
	}
	return claims, nil
}

func (s *UserService) Stats(ctx context.Context, userID string) (*models.UserStats, error) {
	if stats, ok := s.cache.Get(ctx, userID); ok {
		return stats, nil
	}

	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	friends, err := s.friendshipRepo.CountFriends(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count friends: %w", err)
	}

	stats := &models.UserStats{
		TotalWorkouts: user.TotalWorkouts,
		TotalPoints:   user.TotalPoints,
		CurrentStreak: user.CurrentStreak,
		LongestStreak: user.LongestStreak,
		FriendsCount:  friends,
	}
	s.cache.Set(ctx, userID, stats)
	return stats, nil
}

// WeeklySummary returns per-day totals for the last seven days, oldest first
func (s *UserService) WeeklySummary(ctx context.Context, userID string) ([]models.DailySummary, error) {
	since := s.now().AddDate(0, 0, -7)
	rows, err := s.workoutRepo.DailyTotals(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("weekly summary: %w", err)
	}
	return rows, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*models.UserProfile, error) {
	updates := map[string]interface{}{}
	if in.FullName != nil {
		name := strings.TrimSpace(*in.FullName)
		if name == "" {
			return nil, newError(ErrInvalidInput, "Full name cannot be empty")
		}
		updates["full_name"] = name
	}
	if in.Phone != nil {
		updates["phone"] = utils.NilIfBlank(in.Phone)
	}
	if in.Bio != nil {
		updates["bio"] = *in.Bio
	}
	if in.ProfilePicture != nil {
		updates["profile_picture"] = utils.NilIfBlank(in.ProfilePicture)
	}
	if in.FitnessLevel != nil {
		updates["fitness_level"] = utils.NilIfBlank(in.FitnessLevel)
	}
	if in.AllowFriendRequests != nil {
		updates["allow_friend_requests"] = *in.AllowFriendRequests
	}
	if in.ShowWorkoutToFriends != nil {
		updates["show_workout_to_friends"] = *in.ShowWorkoutToFriends
	}
	if in.CompeteInLeaderboard != nil {
		updates["compete_in_leaderboard"] = *in.CompeteInLeaderboard
	}
	if len(updates) == 0 {
		return nil, newError(ErrInvalidInput, "No valid fields to update")
	}

	if _, err := s.findUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, userID, updates); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return s.GetProfile(ctx, userID)
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	friends, err := s.friendshipRepo.CountFriends(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count friends: %w", err)
	}
	profile := user.Profile(friends)
	return &profile, nil
}

// Deactivate hides the account; rows are kept.
func (s *UserService) Deactivate(ctx context.Context, userID string) error {
	if _, err := s.findUser(ctx, userID); err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, userID, map[string]interface{}{"is_active": false}); err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}
	s.cache.Invalidate(ctx, userID)
	return nil
}

func (s *UserService) findUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, newError(ErrNotFound, "User not found")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}
