package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cchuang/regent/internal/app/models/dto"
	"github.com/cchuang/regent/internal/app/repositories"
	"github.com/cchuang/regent/internal/app/services"
	"github.com/cchuang/regent/internal/middleware"
	"github.com/cchuang/regent/internal/pkg/helpers"
)

// TeacherController handles teacher record operations
type TeacherController struct {
	teacherService *services.TeacherService
}

// NewTeacherController creates a new TeacherController
func NewTeacherController(teacherService *services.TeacherService) *TeacherController {
	return &TeacherController{teacherService: teacherService}
}

// ListTeachers returns a page of teachers
// @Summary List teachers
// @Tags teachers
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Param search query string false "Substring match on name, number, email, phone or position"
// @Param departmentId query int false "Filter by department"
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse}
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Router /teachers [get]
func (c *TeacherController) ListTeachers(ctx *gin.Context) {
	identity := middleware.IdentityFromContext(ctx)
	page, size := helpers.ParsePaginationParams(ctx, helpers.DefaultPageSize)

	opts := repositories.TeacherListOptions{Search: ctx.Query("search")}
	if deptIDStr := ctx.Query("departmentId"); deptIDStr != "" {
		deptID, err := strconv.ParseInt(deptIDStr, 10, 64)
		if err != nil {
			middleware.HandleBindingError(ctx, err)
			return
		}
		opts.DepartmentID = deptID
	}

	teachers, pagination, err := c.teacherService.List(ctx, identity, opts, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.PagedResponse{
			Items:      teachers,
			Pagination: pagination,
		},
		Timestamp: time.Now(),
	})
}

// GetTeacher returns one teacher record
// @Summary Get a teacher
// @Tags teachers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Teacher number"
// @Success 200 {object} dto.APIResponse{data=models.Teacher}
// @Failure 404 {object} dto.ErrorResponse "Teacher not found"
// @Router /teachers/{id} [get]
func (c *TeacherController) GetTeacher(ctx *gin.Context) {
	identity := middleware.IdentityFromContext(ctx)

	teacher, err := c.teacherService.Get(ctx, identity, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      teacher,
		Timestamp: time.Now(),
	})
}

// CreateTeacher adds a teacher record
// @Summary Create a teacher
// @Tags teachers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.TeacherRequest true "Teacher information"
// @Success 201 {object} dto.APIResponse{data=models.Teacher}
// @Failure 409 {object} dto.ErrorResponse "Teacher ID already exists"
// @Router /teachers [post]
func (c *TeacherController) CreateTeacher(ctx *gin.Context) {
	identity := middleware.IdentityFromContext(ctx)

	var req dto.TeacherRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	teacher, err := c.teacherService.Create(ctx, identity, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      teacher,
		Timestamp: time.Now(),
	})
}

// UpdateTeacher rewrites a teacher record
// @Summary Update a teacher
// @Tags teachers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Teacher number"
// @Param request body dto.TeacherRequest true "Teacher information"
// @Success 200 {object} dto.APIResponse{data=models.Teacher}
// @Failure 404 {object} dto.ErrorResponse "Teacher not found"
// @Router /teachers/{id} [put]
func (c *TeacherController) UpdateTeacher(ctx *gin.Context) {
	identity := middleware.IdentityFromContext(ctx)

	var req dto.TeacherRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	teacher, err := c.teacherService.Update(ctx, identity, ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      teacher,
		Timestamp: time.Now(),
	})
}

// DeleteTeacher removes a teacher record
// @Summary Delete a teacher
// @Tags teachers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Teacher number"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Router /teachers/{id} [delete]
func (c *TeacherController) DeleteTeacher(ctx *gin.Context) {
	identity := middleware.IdentityFromContext(ctx)

	if err := c.teacherService.Delete(ctx, identity, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Message:   "Teacher deleted",
		Timestamp: time.Now(),
	})
}
