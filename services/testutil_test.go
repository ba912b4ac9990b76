package services

import (
	"context"
	"fitcrew-api/cache"
	"fitcrew-api/database"
	"fitcrew-api/events"
	"fitcrew-api/logger"
	"fitcrew-api/models"
	"fitcrew-api/repositories"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type sentMail struct {
	kind string
	to   string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *recordingMailer) SendWelcome(email, _ string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{kind: "welcome", to: email})
}

func (m *recordingMailer) SendFriendRequest(toEmail, _, _ string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{kind: "friend_request", to: toEmail})
}

type memoryStatsCache struct {
	mu    sync.Mutex
	items map[string]models.UserStats
}

func newMemoryStatsCache() *memoryStatsCache {
	return &memoryStatsCache{items: map[string]models.UserStats{}}
}

func (c *memoryStatsCache) Get(_ context.Context, userID string) (*models.UserStats, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	stats, ok := c.items[userID]
	if !ok {
		return nil, false
	}
	return &stats, true
}

func (c *memoryStatsCache) Set(_ context.Context, userID string, stats *models.UserStats) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[userID] = *stats
}

func (c *memoryStatsCache) Invalidate(_ context.Context, userIDs ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range userIDs {
		delete(c.items, id)
	}
}

var _ cache.StatsCache = (*memoryStatsCache)(nil)

type testEnv struct {
	ctx         context.Context
	db          *gorm.DB
	userRepo    *repositories.UserRepository
	workoutRepo *repositories.WorkoutRepository
	users       *UserService
	friends     *FriendService
	groups      *GroupService
	workouts    *WorkoutService
	stats       *StatsService
	mailer      *recordingMailer
	cache       *memoryStatsCache
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := logger.Discard()
	db, err := database.Open("sqlite", ":memory:", "silent", log)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	require.NoError(t, database.Migrate(db, log))

	userRepo := repositories.NewUserRepository(db)
	friendshipRepo := repositories.NewFriendshipRepository(db)
	groupRepo := repositories.NewGroupRepository(db)
	workoutRepo := repositories.NewWorkoutRepository(db)

	mailer := &recordingMailer{}
	statsCache := newMemoryStatsCache()
	bus := events.NewBus(nil, log)
	credentials := NewCredentialService("test-secret", time.Hour)

	stats := NewStatsService(userRepo, workoutRepo, statsCache, log)
	stats.Register(bus)

	return &testEnv{
		ctx:         context.Background(),
		db:          db,
		userRepo:    userRepo,
		workoutRepo: workoutRepo,
		users:       NewUserService(userRepo, friendshipRepo, workoutRepo, credentials, mailer, statsCache),
		friends:     NewFriendService(db, userRepo, friendshipRepo, bus, mailer, statsCache),
		groups:      NewGroupService(db, groupRepo, userRepo),
		workouts:    NewWorkoutService(db, workoutRepo, bus, statsCache),
		stats:       stats,
		mailer:      mailer,
		cache:       statsCache,
	}
}

// createTestUser inserts an active user directly, skipping password hashing.
func createTestUser(t *testing.T, env *testEnv, fullName string) *models.User {
	t.Helper()

	if fullName == "" {
		fullName = gofakeit.Name()
	}
	user := &models.User{
		ID:                   uuid.New().String(),
		FullName:             fullName,
		Email:                strings.ToLower(uuid.New().String()[:8]) + "@example.com",
		Password:             "not-a-hash",
		AllowFriendRequests:  true,
		ShowWorkoutToFriends: true,
		CompeteInLeaderboard: true,
		IsActive:             true,
	}
	require.NoError(t, env.userRepo.Create(env.ctx, user))
	return user
}

func makeFriends(t *testing.T, env *testEnv, a, b *models.User) {
	t.Helper()

	f, err := env.friends.SendRequest(env.ctx, a.ID, b.ID)
	require.NoError(t, err)
	_, err = env.friends.Accept(env.ctx, b.ID, f.ID)
	require.NoError(t, err)
}

func reloadUser(t *testing.T, env *testEnv, id string) *models.User {
	t.Helper()

	user, err := env.userRepo.FindByID(env.ctx, id)
	require.NoError(t, err)
	return user
}

func logWorkout(t *testing.T, env *testEnv, owner *models.User, in models.CreateWorkoutInput) string {
	t.Helper()

	if in.WorkoutName == "" {
		in.WorkoutName = gofakeit.RandomString([]string{"Leg day", "Tempo run", "Yoga flow"})
	}
	res, err := env.workouts.Create(env.ctx, owner.ID, in)
	require.NoError(t, err)
	return res.ID
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }
func boolPtr(b bool) *bool    { return &b }
