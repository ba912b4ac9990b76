// File: /controllers/auth_controller.go
package controllers

import (
	"fitcrew-api/services"
	"fitcrew-api/utils"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	users *services.UserService
}

func NewAuthController(users *services.UserService) *AuthController {
	return &AuthController{users: users}
}

func (ac *AuthController) Signup(c *gin.Context) {
	var req services.SignupInput
	if !bindJSON(c, &req) {
		return
	}

	result, err := ac.users.Signup(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendCreated(c, "", result)
}

func (ac *AuthController) Login(c *gin.Context) {
	var req services.LoginInput
	if !bindJSON(c, &req) {
		return
	}

	result, err := ac.users.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, "", result)
}
