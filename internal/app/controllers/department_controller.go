package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cchuang/regent/internal/app/models/dto"
	"github.com/cchuang/regent/internal/app/services"
	"github.com/cchuang/regent/internal/middleware"
)

// DepartmentController handles department operations
type DepartmentController struct {
	departmentService *services.DepartmentService
}

// NewDepartmentController creates a new DepartmentController
func NewDepartmentController(departmentService *services.DepartmentService) *DepartmentController {
	return &DepartmentController{departmentService: departmentService}
}

func departmentIDParam(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		middleware.HandleBindingError(ctx, err)
		return 0, false
	}
	return id, true
}

// ListDepartments returns all departments
// @Summary List departments
// @Tags departments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Department}
// @Router /departments [get]
func (c *DepartmentController) ListDepartments(ctx *gin.Context) {
	identity := middleware.IdentityFromContext(ctx)

	departments, err := c.departmentService.List(ctx, identity)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      departments,
		Timestamp: time.Now(),
	})
}

// GetDepartment returns one department
// @Summary Get a department
// @Tags departments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Department ID"
// @Success 200 {object} dto.APIResponse{data=models.Department}
// @Failure 404 {object} dto.ErrorResponse "Department not found"
// @Router /departments/{id} [get]
func (c *DepartmentController) GetDepartment(ctx *gin.Context) {
	identity := middleware.IdentityFromContext(ctx)
	id, ok := departmentIDParam(ctx)
	if !ok {
		return
	}

	department, err := c.departmentService.Get(ctx, identity, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      department,
		Timestamp: time.Now(),
	})
}

// CreateDepartment adds a department
// @Summary Create a department
// @Tags departments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.DepartmentRequest true "Department information"
// @Success 201 {object} dto.APIResponse{data=models.Department}
// @Failure 409 {object} dto.ErrorResponse "Department name already exists"
// @Router /departments [post]
func (c *DepartmentController) CreateDepartment(ctx *gin.Context) {
	identity := middleware.IdentityFromContext(ctx)

	var req dto.DepartmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	department, err := c.departmentService.Create(ctx, identity, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      department,
		Timestamp: time.Now(),
	})
}

// UpdateDepartment renames a department
// @Summary Update a department
// @Tags departments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Department ID"
// @Param request body dto.DepartmentRequest true "Department information"
// @Success 200 {object} dto.APIResponse{data=models.Department}
// @Failure 404 {object} dto.ErrorResponse "Department not found"
// @Router /departments/{id} [put]
func (c *DepartmentController) UpdateDepartment(ctx *gin.Context) {
	identity := middleware.IdentityFromContext(ctx)
	id, ok := departmentIDParam(ctx)
	if !ok {
		return
	}

	var req dto.DepartmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	department, err := c.departmentService.Update(ctx, identity, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      department,
		Timestamp: time.Now(),
	})
}

// DeleteDepartment removes a department
// @Summary Delete a department
// @Tags departments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Department ID"
// @Success 200 {object} dto.APIResponse
// @Failure 409 {object} dto.ErrorResponse "Department is still referenced"
// @Router /departments/{id} [delete]
func (c *DepartmentController) DeleteDepartment(ctx *gin.Context) {
	identity := middleware.IdentityFromContext(ctx)
	id, ok := departmentIDParam(ctx)
	if !ok {
		return
	}

	if err := c.departmentService.Delete(ctx, identity, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Message:   "Department deleted",
		Timestamp: time.Now(),
	})
}
