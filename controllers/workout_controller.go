// File: /controllers/workout_controller.go
package controllers

import (
	"fitcrew-api/models"
	"fitcrew-api/services"
	"fitcrew-api/utils"

	"github.com/gin-gonic/gin"
)

type WorkoutController struct {
	workouts *services.WorkoutService
}

func NewWorkoutController(workouts *services.WorkoutService) *WorkoutController {
	return &WorkoutController{workouts: workouts}
}

type ReactionRequest struct {
	ReactionType models.ReactionType `json:"reaction_type"`
}

type CommentRequest struct {
	Comment string `json:"comment"`
}

func (wc *WorkoutController) CreateWorkout(c *gin.Context) {
	var req models.CreateWorkoutInput
	if !bindJSON(c, &req) {
		return
	}

	result, err := wc.workouts.Create(c.Request.Context(), c.GetString("user_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendCreated(c, "Workout logged successfully", result)
}

func (wc *WorkoutController) GetMyWorkouts(c *gin.Context) {
	limit := utils.ParseBoundedInt(c.Query("limit"), services.DefaultWorkoutsLimit, services.MaxPageSize)
	offset := utils.ParseBoundedInt(c.Query("offset"), 0, 0)

	workouts, err := wc.workouts.ListMine(c.Request.Context(), c.GetString("user_id"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, "", workouts)
}

func (wc *WorkoutController) GetTodayWorkouts(c *gin.Context) {
	workouts, err := wc.workouts.Today(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, "", workouts)
}

func (wc *WorkoutController) GetFriendsFeed(c *gin.Context) {
	limit := utils.ParseBoundedInt(c.Query("limit"), services.DefaultFeedLimit, services.MaxPageSize)

	feed, err := wc.workouts.FriendsFeed(c.Request.Context(), c.GetString("user_id"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, "", feed)
}

func (wc *WorkoutController) GetWorkoutDetails(c *gin.Context) {
	details, err := wc.workouts.GetDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, "", details)
}

func (wc *WorkoutController) DeleteWorkout(c *gin.Context) {
	if err := wc.workouts.Delete(c.Request.Context(), c.Param("id"), c.GetString("user_id")); err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, "Workout deleted successfully", nil)
}

func (wc *WorkoutController) AddReaction(c *gin.Context) {
	var req ReactionRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := wc.workouts.React(c.Request.Context(), c.Param("id"), c.GetString("user_id"), req.ReactionType); err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, "Reaction added successfully", nil)
}

func (wc *WorkoutController) AddComment(c *gin.Context) {
	var req CommentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := wc.workouts.Comment(c.Request.Context(), c.Param("id"), c.GetString("user_id"), req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendCreated(c, "Comment added successfully", comment)
}

func (wc *WorkoutController) GetComments(c *gin.Context) {
	comments, err := wc.workouts.ListComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, "", comments)
}
