// File: /services/stats_service.go
package services

import (
	"context"
	"fitcrew-api/cache"
	"fitcrew-api/events"
	"fitcrew-api/metrics"
	"fitcrew-api/models"
	"fitcrew-api/repositories"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type StatsService struct {
	userRepo    *repositories.UserRepository
	workoutRepo *repositories.WorkoutRepository
	cache       cache.StatsCache
	log         logrus.FieldLogger
}

func NewStatsService(userRepo *repositories.UserRepository, workoutRepo *repositories.WorkoutRepository, statsCache cache.StatsCache, log logrus.FieldLogger) *StatsService {
	return &StatsService{
		userRepo:    userRepo,
		workoutRepo: workoutRepo,
		cache:       statsCache,
		log:         log,
	}
}

// Register subscribes the counter updates to bus.
func (s *StatsService) Register(bus *events.Bus) {
	bus.Subscribe(events.WorkoutLoggedName, s.HandleWorkoutLogged)
}

// HandleWorkoutLogged bumps the owner's counters inside the creating transaction
func (s *StatsService) HandleWorkoutLogged(ctx context.Context, tx *gorm.DB, e events.Event) error {
	logged, ok := e.(events.WorkoutLogged)
	if !ok {
		return fmt.Errorf("unexpected event %T", e)
	}
	if err := s.userRepo.WithTx(tx).IncrementCounters(ctx, logged.UserID, 1, logged.Points); err != nil {
		return fmt.Errorf("increment counters for %s: %w", logged.UserID, err)
	}
	metrics.WorkoutsLogged.Inc()
	return nil
}

// RecomputeStreaks refreshes current and longest streaks for every active user
// and returns how many rows changed.
func (s *StatsService) RecomputeStreaks(ctx context.Context, today time.Time) (int, error) {
	start := time.Now()
	defer func() {
		metrics.StreakRecomputeDuration.Observe(time.Since(start).Seconds())
	}()

	users, err := s.userRepo.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("list active users: %w", err)
	}

	updated := 0
	for i := range users {
		changed, err := s.recompute(ctx, &users[i], today)
		if err != nil {
			return updated, err
		}
		if changed {
			updated++
		}
	}
	return updated, nil
}

func (s *StatsService) recompute(ctx context.Context, user *models.User, today time.Time) (bool, error) {
	dates, err := s.workoutRepo.DistinctDates(ctx, user.ID)
	if err != nil {
		return false, fmt.Errorf("load workout dates for %s: %w", user.ID, err)
	}

	current, longest := ComputeStreaks(dates, today)
	if user.LongestStreak > longest {
		longest = user.LongestStreak
	}
	if current == user.CurrentStreak && longest == user.LongestStreak {
		return false, nil
	}

	if err := s.userRepo.UpdateStreaks(ctx, user.ID, current, longest); err != nil {
		return false, fmt.Errorf("update streaks for %s: %w", user.ID, err)
	}
	s.cache.Invalidate(ctx, user.ID)
	s.log.WithFields(logrus.Fields{
		"user_id":        user.ID,
		"current_streak": current,
		"longest_streak": longest,
	}).Debug("Streak updated")
	return true, nil
}

// ComputeStreaks derives streaks from workout dates (YYYY-MM-DD, any order,
// duplicates allowed). The current streak counts consecutive days ending today,
// or yesterday when nothing has been logged yet today.
func ComputeStreaks(dates []string, today time.Time) (current, longest int) {
	days := make(map[time.Time]bool, len(dates))
	for _, d := range dates {
		t, err := time.Parse(models.DateLayout, d)
		if err != nil {
			continue
		}
		days[t] = true
	}
	if len(days) == 0 {
		return 0, 0
	}

	sorted := make([]time.Time, 0, len(days))
	for d := range days {
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	run := 0
	for i, d := range sorted {
		if i > 0 && sorted[i-1].AddDate(0, 0, 1).Equal(d) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	y, m, dd := today.Date()
	cursor := time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
	if !days[cursor] {
		cursor = cursor.AddDate(0, 0, -1)
	}
	for days[cursor] {
		current++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return current, longest
}
