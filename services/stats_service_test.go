package services

import (
	"fitcrew-api/events"
	"fitcrew-api/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStreaks(t *testing.T) {
	today := time.Date(2026, 10, 16, 21, 0, 0, 0, time.UTC)
	tests := []struct {
		name            string
		dates           []string
		current, longest int
	}{
		{"no workouts", nil, 0, 0},
		{"only today", []string{"2026-10-16"}, 1, 1},
		{"ends yesterday still counts", []string{"2026-10-14", "2026-10-15"}, 2, 2},
		{"gap breaks current", []string{"2026-10-12", "2026-10-13", "2026-10-14"}, 0, 3},
		{"duplicates and order ignored", []string{"2026-10-16", "2026-10-15", "2026-10-16", "2026-10-14"}, 3, 3},
		{"longest in the past", []string{"2026-09-01", "2026-09-02", "2026-09-03", "2026-09-04", "2026-10-16"}, 1, 4},
		{"across month boundary", []string{"2026-09-30", "2026-10-01"}, 0, 2},
		{"garbage skipped", []string{"yesterday", "2026-10-16"}, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current, longest := ComputeStreaks(tt.dates, today)
			assert.Equal(t, tt.current, current, "current")
			assert.Equal(t, tt.longest, longest, "longest")
		})
	}
}

func TestRecomputeStreaksNeverLowersLongest(t *testing.T) {
	env := setupTestEnv(t)
	alice := createTestUser(t, env, "Alice")
	bob := createTestUser(t, env, "Bob")
	today := time.Date(2026, 10, 16, 6, 0, 0, 0, time.UTC)

	for _, d := range []string{"2026-10-14", "2026-10-15", "2026-10-16"} {
		logWorkout(t, env, alice, models.CreateWorkoutInput{WorkoutDate: d})
	}
	require.NoError(t, env.userRepo.UpdateStreaks(env.ctx, bob.ID, 0, 9))
	logWorkout(t, env, bob, models.CreateWorkoutInput{WorkoutDate: "2026-10-15"})

	updated, err := env.stats.RecomputeStreaks(env.ctx, today)
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	a := reloadUser(t, env, alice.ID)
	assert.Equal(t, 3, a.CurrentStreak)
	assert.Equal(t, 3, a.LongestStreak)

	b := reloadUser(t, env, bob.ID)
	assert.Equal(t, 1, b.CurrentStreak)
	assert.Equal(t, 9, b.LongestStreak)

	updated, err = env.stats.RecomputeStreaks(env.ctx, today)
	require.NoError(t, err)
	assert.Zero(t, updated, "second run is a no-op")
}

func TestHandleWorkoutLoggedRejectsOtherEvents(t *testing.T) {
	env := setupTestEnv(t)
	err := env.stats.HandleWorkoutLogged(env.ctx, env.db, events.FriendshipAccepted{})
	assert.Error(t, err)
}

func TestHandleWorkoutLoggedFailsForUnknownUser(t *testing.T) {
	env := setupTestEnv(t)
	err := env.stats.HandleWorkoutLogged(env.ctx, env.db, events.WorkoutLogged{UserID: "missing", Points: models.WorkoutPoints})
	assert.Error(t, err)
}
