package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cchuang/regent/internal/app/controllers"
	"github.com/cchuang/regent/internal/app/models/dto"
	"github.com/cchuang/regent/internal/middleware"
)

// SetupRouter configures all application routes. Every route past the auth
// endpoints runs under the Authenticate middleware; per-operation access is
// decided inside the services, so a route reaching a handler does not mean
// the caller is allowed through.
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	studentController *controllers.StudentController,
	teacherController *controllers.TeacherController,
	classController *controllers.ClassController,
	departmentController *controllers.DepartmentController,
	userController *controllers.UserController,
	searchController *controllers.SearchController,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.APIResponse{
			Message:   "ok",
			Timestamp: time.Now(),
		})
	})

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
		auth.POST("/register", authController.Register)
	}

	// Everything else resolves an identity first
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.Authenticate())
	{
		authenticated.POST("/auth/logout", authController.Logout)

		students := authenticated.Group("/students")
		{
			students.GET("", studentController.ListStudents)
			students.POST("", studentController.CreateStudent)
			students.GET("/:id", studentController.GetStudent)
			students.PUT("/:id", studentController.UpdateStudent)
			students.DELETE("/:id", studentController.DeleteStudent)
		}

		teachers := authenticated.Group("/teachers")
		{
			teachers.GET("", teacherController.ListTeachers)
			teachers.POST("", teacherController.CreateTeacher)
			teachers.GET("/:id", teacherController.GetTeacher)
			teachers.PUT("/:id", teacherController.UpdateTeacher)
			teachers.DELETE("/:id", teacherController.DeleteTeacher)
		}

		classes := authenticated.Group("/classes")
		{
			classes.GET("", classController.ListClasses)
			classes.POST("", classController.CreateClass)
			classes.GET("/my-class", classController.MyClass)
			classes.GET("/:id", classController.GetClass)
			classes.GET("/:id/students", classController.GetClassStudents)
			classes.PUT("/:id", classController.UpdateClass)
			classes.DELETE("/:id", classController.DeleteClass)
		}

		departments := authenticated.Group("/departments")
		{
			departments.GET("", departmentController.ListDepartments)
			departments.POST("", departmentController.CreateDepartment)
			departments.GET("/:id", departmentController.GetDepartment)
			departments.PUT("/:id", departmentController.UpdateDepartment)
			departments.DELETE("/:id", departmentController.DeleteDepartment)
		}

		users := authenticated.Group("/users")
		{
			users.GET("", userController.ListUsers)
			users.POST("", userController.CreateUser)
			users.GET("/:id", userController.GetUser)
			users.PUT("/:id", userController.UpdateUser)
			users.PUT("/:id/password", userController.ChangePassword)
			users.DELETE("/:id", userController.DeleteUser)
		}

		search := authenticated.Group("/search")
		{
			search.GET("/api", searchController.Search)
			search.GET("/suggestions", searchController.Suggestions)
		}
	}
}
