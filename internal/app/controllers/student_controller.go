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

// StudentController handles student record operations
type StudentController struct {
	studentService *services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService *services.StudentService) *StudentController {
	return &StudentController{studentService: studentService}
}

// ListStudents returns a page of students visible to the caller
// @Summary List students
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Param search query string false "Substring match on name, number, email or phone"
// @Param classId query int false "Filter by class"
// @Param status query string false "Filter by enrollment status"
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse}
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Router /students [get]
func (c *StudentController) ListStudents(ctx *gin.Context) {
	identity := middleware.IdentityFromContext(ctx)
	page, size := helpers.ParsePaginationParams(ctx, helpers.DefaultPageSize)

	opts := repositories.StudentListOptions{
		Search: ctx.Query("search"),
		Status: ctx.Query("status"),
	}
	if classIDStr := ctx.Query("classId"); classIDStr != "" {
		classID, err := strconv.ParseInt(classIDStr, 10, 64)
		if err != nil {
			middleware.HandleBindingError(ctx, err)
			return
		}
		opts.ClassID = classID
	}

	students, pagination, err := c.studentService.List(ctx, identity, opts, page, size)
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

// GetStudent returns one student record
// @Summary Get a student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student number"
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [get]
func (c *StudentController) GetStudent(ctx *gin.Context) {
	identity := middleware.IdentityFromContext(ctx)

	student, err := c.studentService.Get(ctx, identity, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      student,
		Timestamp: time.Now(),
	})
}

// CreateStudent adds a student record
// @Summary Create a student
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.StudentRequest true "Student information"
// @Success 201 {object} dto.APIResponse{data=models.Student}
// @Failure 409 {object} dto.ErrorResponse "Student ID already exists"
// @Router /students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	identity := middleware.IdentityFromContext(ctx)

	var req dto.StudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	student, err := c.studentService.Create(ctx, identity, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      student,
		Timestamp: time.Now(),
	})
}

// UpdateStudent rewrites a student record
// @Summary Update a student
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student number"
// @Param request body dto.StudentRequest true "Student information"
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	identity := middleware.IdentityFromContext(ctx)

	var req dto.StudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	student, err := c.studentService.Update(ctx, identity, ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      student,
		Timestamp: time.Now(),
	})
}

// DeleteStudent removes a student record
// @Summary Delete a student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student number"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Router /students/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	identity := middleware.IdentityFromContext(ctx)

	if err := c.studentService.Delete(ctx, identity, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Message:   "Student deleted",
		Timestamp: time.Now(),
	})
}
