// File: /controllers/user_controller.go
package controllers

import (
	"fitcrew-api/services"
	"fitcrew-api/utils"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

func (uc *UserController) GetStats(c *gin.Context) {
	stats, err := uc.users.Stats(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, "", stats)
}

func (uc *UserController) GetWeeklySummary(c *gin.Context) {
	summary, err := uc.users.WeeklySummary(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, "", summary)
}

func (uc *UserController) UpdateProfile(c *gin.Context) {
	var req services.UpdateProfileInput
	if !bindJSON(c, &req) {
		return
	}

	profile, err := uc.users.UpdateProfile(c.Request.Context(), c.GetString("user_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, "Profile updated successfully", profile)
}

func (uc *UserController) GetProfile(c *gin.Context) {
	profile, err := uc.users.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, "", profile)
}

func (uc *UserController) Deactivate(c *gin.Context) {
	if err := uc.users.Deactivate(c.Request.Context(), c.GetString("user_id")); err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, "Account deactivated", nil)
}
