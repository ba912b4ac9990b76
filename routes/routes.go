// File: /routes/routes.go
package routes

import (
	"fitcrew-api/controllers"
	"fitcrew-api/middleware"
	"fitcrew-api/services"
	"fitcrew-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Services bundles what the HTTP layer needs.
type Services struct {
	Users    *services.UserService
	Friends  *services.FriendService
	Groups   *services.GroupService
	Workouts *services.WorkoutService
}

// NewRouter builds the gin engine with the full middleware chain.
func NewRouter(svc Services, log logrus.FieldLogger) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(log),
		middleware.RequestLogger(log),
		middleware.ErrorHandler(log),
		middleware.PrometheusMiddleware(),
		middleware.CORS(),
		middleware.SecurityHeaders(),
	)
	SetupRoutes(r, svc)
	return r
}

func SetupRoutes(r *gin.Engine, svc Services) {
	// Controllers
	authController := controllers.NewAuthController(svc.Users)
	userController := controllers.NewUserController(svc.Users)
	friendController := controllers.NewFriendController(svc.Friends)
	groupController := controllers.NewGroupController(svc.Groups)
	workoutController := controllers.NewWorkoutController(svc.Workouts)

	health := func(c *gin.Context) {
		utils.SendSuccess(c, "FitCrew API is running", gin.H{"status": "OK"})
	}
	r.GET("/health", health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(middleware.ValidateJSON())
	api.GET("/health", health)

	// Auth routes (public)
	auth := api.Group("/auth")
	{
		auth.POST("/signup", authController.Signup)
		auth.POST("/login", authController.Login)
	}

	// Protected routes
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(svc.Users))
	{
		users := protected.Group("/users")
		{
			users.GET("/stats", userController.GetStats)
			users.GET("/weekly-summary", userController.GetWeeklySummary)
			users.PUT("/profile", userController.UpdateProfile)
			users.GET("/profile/:id", userController.GetProfile)
			users.DELETE("/account", userController.Deactivate)
		}

		friends := protected.Group("/friends")
		{
			friends.POST("/request", friendController.SendFriendRequest)
			friends.GET("/requests", friendController.GetFriendRequests)
			friends.GET("/requests/sent", friendController.GetSentRequests)
			friends.PUT("/requests/:id/accept", friendController.AcceptFriendRequest)
			friends.DELETE("/requests/:id/reject", friendController.RejectFriendRequest)
			friends.GET("", friendController.GetFriends)
			friends.GET("/search", friendController.SearchUsers)
			friends.DELETE("/:friend_id", friendController.RemoveFriend)
		}

		groups := protected.Group("/groups")
		{
			groups.POST("", groupController.CreateGroup)
			groups.GET("", groupController.GetUserGroups)
			groups.GET("/:id/members", groupController.GetGroupMembers)
			groups.POST("/:id/members", groupController.AddMember)
			groups.PUT("/:id/members/:memberId", groupController.UpdateMemberRole)
			groups.DELETE("/:id/members/:memberId", groupController.RemoveMember)
			groups.POST("/:id/leave", groupController.LeaveGroup)
			groups.DELETE("/:id", groupController.DeleteGroup)
		}

		workouts := protected.Group("/workouts")
		{
			workouts.POST("", workoutController.CreateWorkout)
			workouts.GET("/my-workouts", workoutController.GetMyWorkouts)
			workouts.GET("/today", workoutController.GetTodayWorkouts)
			workouts.GET("/friends-feed", workoutController.GetFriendsFeed)
			workouts.GET("/:id", workoutController.GetWorkoutDetails)
			workouts.DELETE("/:id", workoutController.DeleteWorkout)
			workouts.POST("/:id/reaction", workoutController.AddReaction)
			workouts.POST("/:id/comment", workoutController.AddComment)
			workouts.GET("/:id/comments", workoutController.GetComments)
		}
	}
}
