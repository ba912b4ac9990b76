// File: /controllers/friend_controller.go
package controllers

import (
	"fitcrew-api/services"
	"fitcrew-api/utils"
	"strconv"

	"github.com/gin-gonic/gin"
)

type FriendController struct {
	friends *services.FriendService
}

func NewFriendController(friends *services.FriendService) *FriendController {
	return &FriendController{friends: friends}
}

type SendFriendRequestRequest struct {
	FriendID string `json:"friend_id"`
}

func (fc *FriendController) SendFriendRequest(c *gin.Context) {
	var req SendFriendRequestRequest
	if !bindJSON(c, &req) {
		return
	}

	friendship, err := fc.friends.SendRequest(c.Request.Context(), c.GetString("user_id"), req.FriendID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendCreated(c, "Friend request sent successfully", friendship)
}

func (fc *FriendController) GetFriendRequests(c *gin.Context) {
	requests, err := fc.friends.ListIncoming(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, "", requests)
}

func (fc *FriendController) GetSentRequests(c *gin.Context) {
	requests, err := fc.friends.ListOutgoing(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, "", requests)
}

func (fc *FriendController) AcceptFriendRequest(c *gin.Context) {
	requestID, ok := parseRequestID(c)
	if !ok {
		return
	}

	if _, err := fc.friends.Accept(c.Request.Context(), c.GetString("user_id"), requestID); err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, "Friend request accepted", nil)
}

func (fc *FriendController) RejectFriendRequest(c *gin.Context) {
	requestID, ok := parseRequestID(c)
	if !ok {
		return
	}

	if err := fc.friends.Reject(c.Request.Context(), c.GetString("user_id"), requestID); err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, "Friend request rejected", nil)
}

func (fc *FriendController) GetFriends(c *gin.Context) {
	friends, err := fc.friends.ListFriends(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, "", friends)
}

func (fc *FriendController) RemoveFriend(c *gin.Context) {
	if err := fc.friends.Remove(c.Request.Context(), c.GetString("user_id"), c.Param("friend_id")); err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, "Friend removed successfully", nil)
}

func (fc *FriendController) SearchUsers(c *gin.Context) {
	results, err := fc.friends.Search(c.Request.Context(), c.GetString("user_id"), c.Query("query"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, "", results)
}

func parseRequestID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid request ID")
		return 0, false
	}
	return uint(id), true
}
