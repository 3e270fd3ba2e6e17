package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/taskforge/task-assignment-api/internal/config"
	"github.com/taskforge/task-assignment-api/internal/constants"
	"github.com/taskforge/task-assignment-api/internal/database"
	"github.com/taskforge/task-assignment-api/internal/handlers"
	"github.com/taskforge/task-assignment-api/internal/middleware"
	"github.com/taskforge/task-assignment-api/internal/repository"
	"github.com/taskforge/task-assignment-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,
		"tcp",
		redisAddr,
		"",
		"",
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)

	// Services
	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo)
	invitationService := services.NewInvitationService(invitationRepo, userRepo, cfg.InviteTTLMinutes)
	taskService := services.NewTaskService(taskRepo, userRepo)
	commentService := services.NewCommentService(commentRepo, taskRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, invitationService)
	userHandler := handlers.NewUserHandler(userService, invitationService)
	taskHandler := handlers.NewTaskHandler(taskService)
	commentHandler := handlers.NewCommentHandler(commentService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Task Assignment API is running",
		})
	})

	// Auth routes (public except signout)
	auth := r.Group("/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/signin", authHandler.Signin)
		auth.POST("/signout", middleware.RequireAuth(), authHandler.Signout)
	}

	// User routes
	users := r.Group("/users")
	users.Use(middleware.RequireAuth())
	{
		users.GET("/me", userHandler.Me)
		users.PATCH("/me", userHandler.UpdateMe)

		admin := users.Group("")
		admin.Use(middleware.RequireAdmin())
		{
			admin.GET("", userHandler.ListUsers)
			admin.POST("/invite", userHandler.Invite)
			admin.GET("/:userId", userHandler.GetUser)
			admin.DELETE("/:userId", userHandler.DeleteUser)
		}
	}

	// Task routes
	tasks := r.Group("/tasks")
	tasks.Use(middleware.RequireAuth())
	{
		// Employee scope: everything keyed to the caller's own tasks
		my := tasks.Group("/my-tasks")
		{
			my.GET("", taskHandler.MyTasks)
			my.GET("/:taskId", taskHandler.GetMyTask)
			my.POST("/:taskId/start", taskHandler.StartTask)
			my.POST("/:taskId/submit", taskHandler.SubmitTask)
			my.GET("/:taskId/comments", commentHandler.ListComments)
			my.POST("/:taskId/comments", commentHandler.CreateComment)
			my.GET("/:taskId/comments/:commentId", commentHandler.GetComment)
			my.PUT("/:taskId/comments/:commentId", commentHandler.UpdateComment)
			my.DELETE("/:taskId/comments/:commentId", commentHandler.DeleteComment)
		}

		// Admin scope
		admin := tasks.Group("")
		admin.Use(middleware.RequireAdmin())
		{
			admin.POST("", taskHandler.CreateTask)
			admin.GET("", taskHandler.ListTasks)
			admin.GET("/:taskId", taskHandler.GetTask)
			admin.PATCH("/:taskId", taskHandler.UpdateTask)
			admin.DELETE("/:taskId", taskHandler.DeleteTask)
			admin.POST("/:taskId/assign", taskHandler.AssignTask)
			admin.POST("/:taskId/unassign", taskHandler.UnassignTask)
			admin.POST("/:taskId/validate", taskHandler.ValidateTask)
			admin.GET("/:taskId/comments", commentHandler.ListComments)
			admin.POST("/:taskId/comments", commentHandler.CreateComment)
			admin.DELETE("/:taskId/comments/:commentId", commentHandler.DeleteComment)
		}
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
