package routes

import (
	"bytes"
	"encoding/json"
	"fitcrew-api/cache"
	"fitcrew-api/config"
	"fitcrew-api/database"
	"fitcrew-api/events"
	"fitcrew-api/models"
	"fitcrew-api/repositories"
	"fitcrew-api/services"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testEnv struct {
	router *gin.Engine
	logs   *test.Hook
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	db, err := database.Open("sqlite", ":memory:", "silent", log)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db, log))

	userRepo := repositories.NewUserRepository(db)
	friendshipRepo := repositories.NewFriendshipRepository(db)
	groupRepo := repositories.NewGroupRepository(db)
	workoutRepo := repositories.NewWorkoutRepository(db)

	statsCache := cache.NoopStatsCache{}
	bus := events.NewBus(nil, log)
	mailer := services.NewEmailService(&config.Config{}, log)
	credentials := services.NewCredentialService("test-secret", time.Hour)
	services.NewStatsService(userRepo, workoutRepo, statsCache, log).Register(bus)

	router := NewRouter(Services{
		Users:    services.NewUserService(userRepo, friendshipRepo, workoutRepo, credentials, mailer, statsCache),
		Friends:  services.NewFriendService(db, userRepo, friendshipRepo, bus, mailer, statsCache),
		Groups:   services.NewGroupService(db, groupRepo, userRepo),
		Workouts: services.NewWorkoutService(db, workoutRepo, bus, statsCache),
	}, log)

	return &testEnv{router: router, logs: hook}
}

func performJSONRequest(t *testing.T, env *testEnv, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	var out envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, rec.Code, rec.Body.String())
}

type signedUp struct {
	token string
	id    string
}

func signup(t *testing.T, env *testEnv, name, email string) signedUp {
	t.Helper()

	rec, body := performJSONRequest(t, env, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"full_name": name,
		"email":     email,
		"password":  "secret123",
	})
	assertStatus(t, rec, http.StatusCreated)

	var result services.AuthResult
	require.NoError(t, json.Unmarshal(body.Data, &result))
	require.NotEmpty(t, result.Token)
	return signedUp{token: result.Token, id: result.User.ID}
}

func listGroups(t *testing.T, env *testEnv, token string) []models.GroupListItem {
	t.Helper()

	rec, body := performJSONRequest(t, env, http.MethodGet, "/api/groups", token, nil)
	assertStatus(t, rec, http.StatusOK)
	var groups []models.GroupListItem
	require.NoError(t, json.Unmarshal(body.Data, &groups))
	return groups
}

func TestMorningCrewScenario(t *testing.T) {
	env := setupTestEnv(t)
	ana := signup(t, env, "Ana Lima", "ana@example.com")
	ben := signup(t, env, "Ben Ortiz", "ben@example.com")

	rec, body := performJSONRequest(t, env, http.MethodPost, "/api/groups", ana.token, map[string]string{
		"name": "Morning Crew",
	})
	assertStatus(t, rec, http.StatusCreated)
	var group models.Group
	require.NoError(t, json.Unmarshal(body.Data, &group))
	assert.Equal(t, "Morning Crew", group.Name)

	rec, _ = performJSONRequest(t, env, http.MethodPost, "/api/groups/"+group.ID+"/members", ana.token, map[string]string{
		"userId": ben.id,
	})
	assertStatus(t, rec, http.StatusCreated)

	for _, token := range []string{ana.token, ben.token} {
		groups := listGroups(t, env, token)
		require.Len(t, groups, 1)
		assert.EqualValues(t, 2, groups[0].MemberCount)
	}

	rec, body = performJSONRequest(t, env, http.MethodPost, "/api/groups/"+group.ID+"/leave", ana.token, nil)
	assertStatus(t, rec, http.StatusBadRequest)
	assert.False(t, body.Success)
	assert.Contains(t, body.Message, "only admin")

	rec, _ = performJSONRequest(t, env, http.MethodPut, "/api/groups/"+group.ID+"/members/"+ben.id, ana.token, map[string]string{
		"role": "admin",
	})
	assertStatus(t, rec, http.StatusOK)

	rec, body = performJSONRequest(t, env, http.MethodPost, "/api/groups/"+group.ID+"/leave", ana.token, nil)
	assertStatus(t, rec, http.StatusOK)
	assert.True(t, body.Success)

	assert.Empty(t, listGroups(t, env, ana.token))
	groups := listGroups(t, env, ben.token)
	require.Len(t, groups, 1)
	assert.EqualValues(t, 1, groups[0].MemberCount)
	assert.Equal(t, models.GroupRoleAdmin, groups[0].Role)
}

func TestFriendRequestOverHTTP(t *testing.T) {
	env := setupTestEnv(t)
	ana := signup(t, env, "Ana Lima", "ana@example.com")
	ben := signup(t, env, "Ben Ortiz", "ben@example.com")

	rec, body := performJSONRequest(t, env, http.MethodPost, "/api/friends/request", ana.token, map[string]string{
		"friend_id": ben.id,
	})
	assertStatus(t, rec, http.StatusCreated)
	var friendship models.Friendship
	require.NoError(t, json.Unmarshal(body.Data, &friendship))

	rec, _ = performJSONRequest(t, env, http.MethodPost, "/api/friends/request", ben.token, map[string]string{
		"friend_id": ana.id,
	})
	assertStatus(t, rec, http.StatusBadRequest)

	accept := "/api/friends/requests/" + strconv.FormatUint(uint64(friendship.ID), 10) + "/accept"
	rec, _ = performJSONRequest(t, env, http.MethodPut, accept, ana.token, nil)
	assertStatus(t, rec, http.StatusForbidden)

	rec, _ = performJSONRequest(t, env, http.MethodPut, accept, ben.token, nil)
	assertStatus(t, rec, http.StatusOK)

	rec, body = performJSONRequest(t, env, http.MethodGet, "/api/friends", ana.token, nil)
	assertStatus(t, rec, http.StatusOK)
	var friends []models.FriendView
	require.NoError(t, json.Unmarshal(body.Data, &friends))
	require.Len(t, friends, 1)
	assert.Equal(t, ben.id, friends[0].FriendID)

	rec, _ = performJSONRequest(t, env, http.MethodGet, "/api/friends/search?query=a", ana.token, nil)
	assertStatus(t, rec, http.StatusBadRequest)
}

func TestWorkoutOverHTTP(t *testing.T) {
	env := setupTestEnv(t)
	ana := signup(t, env, "Ana Lima", "ana@example.com")

	rec, body := performJSONRequest(t, env, http.MethodPost, "/api/workouts", ana.token, map[string]interface{}{
		"workout_name": "Leg day",
		"exercises": []map[string]interface{}{
			{"exercise_name": "Squat", "sets": 5, "reps": 5},
			{"exercise_name": ""},
		},
	})
	assertStatus(t, rec, http.StatusCreated)
	var created models.CreateWorkoutResult
	require.NoError(t, json.Unmarshal(body.Data, &created))
	assert.Equal(t, 1, created.ExercisesSaved)
	assert.Equal(t, []int{1}, created.SkippedExercises)

	rec, _ = performJSONRequest(t, env, http.MethodPost, "/api/workouts/"+created.ID+"/reaction", ana.token, map[string]string{
		"reaction_type": "fire",
	})
	assertStatus(t, rec, http.StatusOK)

	rec, _ = performJSONRequest(t, env, http.MethodPost, "/api/workouts/"+created.ID+"/reaction", ana.token, map[string]string{
		"reaction_type": "meh",
	})
	assertStatus(t, rec, http.StatusBadRequest)

	rec, body = performJSONRequest(t, env, http.MethodGet, "/api/workouts/"+created.ID, ana.token, nil)
	assertStatus(t, rec, http.StatusOK)
	var details services.WorkoutDetails
	require.NoError(t, json.Unmarshal(body.Data, &details))
	assert.EqualValues(t, 1, details.ReactionCount)
	require.Len(t, details.Exercises, 1)

	rec, body = performJSONRequest(t, env, http.MethodGet, "/api/users/stats", ana.token, nil)
	assertStatus(t, rec, http.StatusOK)
	var stats models.UserStats
	require.NoError(t, json.Unmarshal(body.Data, &stats))
	assert.Equal(t, 1, stats.TotalWorkouts)
	assert.Equal(t, models.WorkoutPoints, stats.TotalPoints)

	rec, _ = performJSONRequest(t, env, http.MethodGet, "/api/workouts/does-not-exist", ana.token, nil)
	assertStatus(t, rec, http.StatusNotFound)
}

func TestAuthRequired(t *testing.T) {
	env := setupTestEnv(t)

	rec, body := performJSONRequest(t, env, http.MethodGet, "/api/friends", "", nil)
	assertStatus(t, rec, http.StatusUnauthorized)
	assert.False(t, body.Success)

	rec, _ = performJSONRequest(t, env, http.MethodGet, "/api/friends", "not-a-token", nil)
	assertStatus(t, rec, http.StatusUnauthorized)

	rec, body = performJSONRequest(t, env, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "nobody@example.com",
		"password": "secret123",
	})
	assertStatus(t, rec, http.StatusUnauthorized)
	assert.Equal(t, "Invalid credentials", body.Message)
}

func TestDeactivatedTokenIsRejected(t *testing.T) {
	env := setupTestEnv(t)
	ana := signup(t, env, "Ana Lima", "ana@example.com")

	rec, _ := performJSONRequest(t, env, http.MethodDelete, "/api/users/account", ana.token, nil)
	assertStatus(t, rec, http.StatusOK)

	rec, _ = performJSONRequest(t, env, http.MethodGet, "/api/users/stats", ana.token, nil)
	assertStatus(t, rec, http.StatusUnauthorized)
}

func TestHealthAndRequestLogging(t *testing.T) {
	env := setupTestEnv(t)

	rec, body := performJSONRequest(t, env, http.MethodGet, "/health", "", nil)
	assertStatus(t, rec, http.StatusOK)
	assert.True(t, body.Success)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	entry := env.logs.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "Request completed", entry.Message)
	assert.Equal(t, http.StatusOK, entry.Data["status"])
	assert.Equal(t, "/health", entry.Data["path"])
}

func TestJSONContentTypeRequired(t *testing.T) {
	env := setupTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString("email=a"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assertStatus(t, rec, http.StatusBadRequest)
}
