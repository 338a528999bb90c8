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

// ClassController handles class operations
type ClassController struct {
	classService *services.ClassService
}

// NewClassController creates a new ClassController
func NewClassController(classService *services.ClassService) *ClassController {
	return &ClassController{classService: classService}
}

func classIDParam(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		middleware.HandleBindingError(ctx, err)
		return 0, false
	}
	return id, true
}

// ListClasses returns a page of classes
// @Summary List classes
// @Tags classes
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Param search query string false "Substring match on class name"
// @Param departmentId query int false "Filter by department"
// @Param grade query int false "Filter by grade"
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse}
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Router /classes [get]
func (c *ClassController) ListClasses(ctx *gin.Context) {
	identity := middleware.IdentityFromContext(ctx)
	page, size := helpers.ParsePaginationParams(ctx, helpers.DefaultPageSize)

	opts := repositories.ClassListOptions{Search: ctx.Query("search")}
	if deptIDStr := ctx.Query("departmentId"); deptIDStr != "" {
		deptID, err := strconv.ParseInt(deptIDStr, 10, 64)
		if err != nil {
			middleware.HandleBindingError(ctx, err)
			return
		}
		opts.DepartmentID = deptID
	}
	if gradeStr := ctx.Query("grade"); gradeStr != "" {
		grade, err := strconv.Atoi(gradeStr)
		if err != nil {
			middleware.HandleBindingError(ctx, err)
			return
		}
		opts.Grade = grade
	}

	classes, pagination, err := c.classService.List(ctx, identity, opts, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.PagedResponse{
			Items:      classes,
			Pagination: pagination,
		},
		Timestamp: time.Now(),
	})
}

// MyClass returns the class attached to the caller
// @Summary Get the caller's class
// @Tags classes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.Class}
// @Failure 404 {object} dto.ErrorResponse "No class attached to the account"
// @Router /classes/my-class [get]
func (c *ClassController) MyClass(ctx *gin.Context) {
	identity := middleware.IdentityFromContext(ctx)

	class, err := c.classService.MyClass(ctx, identity)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      class,
		Timestamp: time.Now(),
	})
}

// GetClass returns one class
// @Summary Get a class
// @Tags classes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Class ID"
// @Success 200 {object} dto.APIResponse{data=models.Class}
// @Failure 404 {object} dto.ErrorResponse "Class not found"
// @Router /classes/{id} [get]
func (c *ClassController) GetClass(ctx *gin.Context) {
	identity := middleware.IdentityFromContext(ctx)
	id, ok := classIDParam(ctx)
	if !ok {
		return
	}

	class, err := c.classService.Get(ctx, identity, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      class,
		Timestamp: time.Now(),
	})
}

// GetClassStudents returns the roster of one class
// @Summary List the students of a class
// @Tags classes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Class ID"
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse}
// @Failure 404 {object} dto.ErrorResponse "Class not found"
// @Router /classes/{id}/students [get]
func (c *ClassController) GetClassStudents(ctx *gin.Context) {
	identity := middleware.IdentityFromContext(ctx)
	id, ok := classIDParam(ctx)
	if !ok {
		return
	}
	page, size := helpers.ParsePaginationParams(ctx, helpers.RosterPageSize)

	students, pagination, err := c.classService.Roster(ctx, identity, id, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.PagedResponse{
			Items:      students,
			Pagination: pagination,
		},
		Timestamp: time.Now(),
	})
}

// CreateClass adds a class
// @Summary Create a class
// @Tags classes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ClassRequest true "Class information"
// @Success 201 {object} dto.APIResponse{data=models.Class}
// @Failure 409 {object} dto.ErrorResponse "Class name or head teacher conflict"
// @Router /classes [post]
func (c *ClassController) CreateClass(ctx *gin.Context) {
	identity := middleware.IdentityFromContext(ctx)

	var req dto.ClassRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	class, err := c.classService.Create(ctx, identity, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      class,
		Timestamp: time.Now(),
	})
}

// UpdateClass rewrites a class
// @Summary Update a class
// @Tags classes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Class ID"
// @Param request body dto.ClassRequest true "Class information"
// @Success 200 {object} dto.APIResponse{data=models.Class}
// @Failure 404 {object} dto.ErrorResponse "Class not found"
// @Router /classes/{id} [put]
func (c *ClassController) UpdateClass(ctx *gin.Context) {
	identity := middleware.IdentityFromContext(ctx)
	id, ok := classIDParam(ctx)
	if !ok {
		return
	}

	var req dto.ClassRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	class, err := c.classService.Update(ctx, identity, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      class,
		Timestamp: time.Now(),
	})
}

// DeleteClass removes a class
// @Summary Delete a class
// @Tags classes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Class ID"
// @Success 200 {object} dto.APIResponse
// @Failure 409 {object} dto.ErrorResponse "Class still has enrolled students"
// @Router /classes/{id} [delete]
func (c *ClassController) DeleteClass(ctx *gin.Context) {
	identity := middleware.IdentityFromContext(ctx)
	id, ok := classIDParam(ctx)
	if !ok {
		return
	}

	if err := c.classService.Delete(ctx, identity, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Message:   "Class deleted",
		Timestamp: time.Now(),
	})
}
