package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cchuang/regent/internal/app/models/dto"
	"github.com/cchuang/regent/internal/app/services"
	"github.com/cchuang/regent/internal/middleware"
	"github.com/cchuang/regent/internal/pkg/helpers"
)

// UserController handles account administration
type UserController struct {
	userService *services.UserService
}

// NewUserController creates a new UserController
func NewUserController(userService *services.UserService) *UserController {
	return &UserController{userService: userService}
}

func userIDParam(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		middleware.HandleBindingError(ctx, err)
		return 0, false
	}
	return id, true
}

// ListUsers returns a page of accounts
// @Summary List accounts
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Param search query string false "Substring match on username or role"
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse}
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Router /users [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	identity := middleware.IdentityFromContext(ctx)
	page, size := helpers.ParsePaginationParams(ctx, helpers.DefaultPageSize)

	users, pagination, err := c.userService.List(ctx, identity, ctx.Query("search"), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.PagedResponse{
			Items:      users,
			Pagination: pagination,
		},
		Timestamp: time.Now(),
	})
}

// GetUser returns one account
// @Summary Get an account
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=models.User}
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/{id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	identity := middleware.IdentityFromContext(ctx)
	id, ok := userIDParam(ctx)
	if !ok {
		return
	}

	user, err := c.userService.Get(ctx, identity, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      user,
		Timestamp: time.Now(),
	})
}

// CreateUser adds an account
// @Summary Create an account
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateUserRequest true "Account information"
// @Success 201 {object} dto.APIResponse{data=models.User}
// @Failure 409 {object} dto.ErrorResponse "Username already exists"
// @Router /users [post]
func (c *UserController) CreateUser(ctx *gin.Context) {
	identity := middleware.IdentityFromContext(ctx)

	var req dto.CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	user, err := c.userService.Create(ctx, identity, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      user,
		Timestamp: time.Now(),
	})
}

// UpdateUser rewrites an account
// @Summary Update an account
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body dto.UpdateUserRequest true "Account information"
// @Success 200 {object} dto.APIResponse{data=models.User}
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/{id} [put]
func (c *UserController) UpdateUser(ctx *gin.Context) {
	identity := middleware.IdentityFromContext(ctx)
	id, ok := userIDParam(ctx)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	user, err := c.userService.Update(ctx, identity, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      user,
		Timestamp: time.Now(),
	})
}

// ChangePassword replaces an account password
// @Summary Change an account password
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body dto.ChangePasswordRequest true "Password change"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.ErrorResponse "Current password incorrect"
// @Router /users/{id}/password [put]
func (c *UserController) ChangePassword(ctx *gin.Context) {
	identity := middleware.IdentityFromContext(ctx)
	id, ok := userIDParam(ctx)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	if err := c.userService.ChangePassword(ctx, identity, id, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Message:   "Password changed",
		Timestamp: time.Now(),
	})
}

// DeleteUser removes an account
// @Summary Delete an account
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse
// @Failure 409 {object} dto.ErrorResponse "Cannot delete own account"
// @Router /users/{id} [delete]
func (c *UserController) DeleteUser(ctx *gin.Context) {
	identity := middleware.IdentityFromContext(ctx)
	id, ok := userIDParam(ctx)
	if !ok {
		return
	}

	if err := c.userService.Delete(ctx, identity, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Message:   "User deleted",
		Timestamp: time.Now(),
	})
}
