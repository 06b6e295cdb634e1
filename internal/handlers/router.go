package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/yukikurage/student-planner-api/internal/middleware"
	"github.com/yukikurage/student-planner-api/internal/services"
)

// RouterConfig carries the services the HTTP surface is built on
type RouterConfig struct {
	AuthService *services.AuthService
	TaskService *services.TaskService
	Tokens      *services.TokenService
	Logger      *log.Logger
}

// NewRouter registers every route on a fresh gin engine
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(cfg.Logger))

	authHandler := NewAuthHandler(cfg.AuthService, cfg.Logger)
	taskHandler := NewTaskHandler(cfg.TaskService, cfg.Logger)
	requireAuth := middleware.RequireAuth(cfg.Tokens)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Student Planner API is running",
		})
	})

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.GET("/all", taskHandler.ListTasks)
			tasks.GET("/stats", taskHandler.TaskStats)
			tasks.POST("", taskHandler.CreateTask)
			tasks.POST("/addtask", taskHandler.CreateTask)
			tasks.POST("/generate", taskHandler.GenerateTasks)
			tasks.GET("/:id", middleware.RequireTaskID(), taskHandler.GetTask)
			tasks.PUT("/:id", middleware.RequireTaskID(), taskHandler.UpdateTask)
			tasks.PATCH("/:id", middleware.RequireTaskID(), taskHandler.UpdateTask)
			tasks.DELETE("/:id", middleware.RequireTaskID(), taskHandler.DeleteTask)
		}
	}

	return r
}
