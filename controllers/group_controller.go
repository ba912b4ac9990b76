// File: /controllers/group_controller.go
package controllers

import (
	"fitcrew-api/models"
	"fitcrew-api/services"
	"fitcrew-api/utils"

	"github.com/gin-gonic/gin"
)

type GroupController struct {
	groups *services.GroupService
}

func NewGroupController(groups *services.GroupService) *GroupController {
	return &GroupController{groups: groups}
}

type CreateGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type AddMemberRequest struct {
	UserID string `json:"userId"`
}

type UpdateRoleRequest struct {
	Role models.GroupRole `json:"role"`
}

func (gc *GroupController) CreateGroup(c *gin.Context) {
	var req CreateGroupRequest
	if !bindJSON(c, &req) {
		return
	}

	group, err := gc.groups.Create(c.Request.Context(), req.Name, req.Description, c.GetString("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendCreated(c, "Group created successfully", group)
}

func (gc *GroupController) GetUserGroups(c *gin.Context) {
	groups, err := gc.groups.ListForUser(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, "", groups)
}

func (gc *GroupController) GetGroupMembers(c *gin.Context) {
	members, err := gc.groups.GetMembers(c.Request.Context(), c.Param("id"), c.GetString("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, "", members)
}

func (gc *GroupController) AddMember(c *gin.Context) {
	var req AddMemberRequest
	if !bindJSON(c, &req) {
		return
	}

	member, err := gc.groups.AddMember(c.Request.Context(), c.Param("id"), c.GetString("user_id"), req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendCreated(c, "Member added successfully", member)
}

func (gc *GroupController) UpdateMemberRole(c *gin.Context) {
	var req UpdateRoleRequest
	if !bindJSON(c, &req) {
		return
	}

	err := gc.groups.UpdateMemberRole(c.Request.Context(), c.Param("id"), c.GetString("user_id"), c.Param("memberId"), req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, "Member role updated", nil)
}

func (gc *GroupController) RemoveMember(c *gin.Context) {
	if err := gc.groups.RemoveMember(c.Request.Context(), c.Param("id"), c.GetString("user_id"), c.Param("memberId")); err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, "Member removed successfully", nil)
}

func (gc *GroupController) LeaveGroup(c *gin.Context) {
	if err := gc.groups.Leave(c.Request.Context(), c.Param("id"), c.GetString("user_id")); err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, "Left group successfully", nil)
}

func (gc *GroupController) DeleteGroup(c *gin.Context) {
	if err := gc.groups.Delete(c.Request.Context(), c.Param("id"), c.GetString("user_id")); err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, "Group deleted successfully", nil)
}
