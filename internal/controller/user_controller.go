package controller

import (
	"strconv"

	"js_learning_backend/internal/model"
	"js_learning_backend/internal/service"
	"js_learning_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// List godoc
// @Summary 用户名册
// @Description 管理员按角色分页查询用户
// @Tags 用户管理
// @Produce  json
// @Security BearerAuth
// @Param   role query string false "角色过滤 student/teacher/admin" default(student)
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Router /api/admin/users [get]
func (c *UserController) List(ctx *gin.Context) {
	role := model.UserRole(ctx.DefaultQuery("role", string(model.Student)))
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	users, total, err := c.UserService.GetUsers(role, page, limit)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	for i := range users {
		users[i].Password = ""
	}

	util.Success(ctx, util.PageResponse{
		List:  users,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// UpdateProfile godoc
// @Summary 更新个人资料
// @Tags 用户
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.ProfileReq true "资料字段"
// @Success 200 {object} util.Response{data=model.User} "成功"
// @Failure 409 {object} util.Response "用户名已被占用"
// @Router /api/profile [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req service.ProfileReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.UpdateProfile(claims.UserID, req)
	if err != nil {
		if err == util.ErrUsernameRegistered {
			util.Error(ctx, 409, err.Error())
			return
		}
		handleServiceError(ctx, err)
		return
	}
	user.Password = ""
	util.Success(ctx, user)
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// ChangePassword godoc
// @Summary 修改密码
// @Tags 用户
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body ChangePasswordRequest true "新旧密码"
// @Success 200 {object} util.Response "成功"
// @Failure 400 {object} util.Response "旧密码错误"
// @Router /api/profile/password [put]
func (c *UserController) ChangePassword(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.UserService.ChangePassword(claims.UserID, req.OldPassword, req.NewPassword); err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"changed": true})
}

// SetDisabledRequest 停用/启用账号请求
type SetDisabledRequest struct {
	Disabled *bool `json:"disabled" binding:"required"`
}

// SetDisabled godoc
// @Summary 停用或启用账号
// @Tags 用户管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "用户ID"
// @Param   body body SetDisabledRequest true "停用标记"
// @Success 200 {object} util.Response "成功"
// @Router /api/admin/users/{id}/disabled [put]
func (c *UserController) SetDisabled(ctx *gin.Context) {
	userID := util.MustParseUint(ctx.Param("id"))

	var req SetDisabledRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.UserService.SetDisabled(userID, *req.Disabled); err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"disabled": *req.Disabled})
}

// SetRoleRequest 调整角色请求
type SetRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=student teacher admin"`
}

// SetRole godoc
// @Summary 调整用户角色
// @Tags 用户管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "用户ID"
// @Param   body body SetRoleRequest true "目标角色"
// @Success 200 {object} util.Response "成功"
// @Router /api/admin/users/{id}/role [put]
func (c *UserController) SetRole(ctx *gin.Context) {
	userID := util.MustParseUint(ctx.Param("id"))

	var req SetRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.UserService.SetRole(userID, model.UserRole(req.Role)); err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"role": req.Role})
}
