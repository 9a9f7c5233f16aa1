package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-tracker/internal/config"
	"github.com/yukikurage/project-tracker/internal/constants"
	"github.com/yukikurage/project-tracker/internal/database"
	"github.com/yukikurage/project-tracker/internal/handlers"
	"github.com/yukikurage/project-tracker/internal/mail"
	"github.com/yukikurage/project-tracker/internal/middleware"
	"github.com/yukikurage/project-tracker/internal/repository"
	"github.com/yukikurage/project-tracker/internal/services"
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
	if err := database.AddIndexes(database.GetDB()); err != nil {
		log.Fatalf("Failed to add indexes: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction, // true in production (HTTPS), false in development
		SameSite: 2,            // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Email sender for password resets
	mailer, err := mail.NewSESSender(cfg)
	if err != nil {
		log.Fatalf("Failed to create SES sender: %v", err)
	}

	// Repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	resetRepo := repository.NewResetTokenRepository(db)

	// Services
	authService := services.NewAuthService(userRepo, resetRepo, mailer, cfg)
	projectService := services.NewProjectService(projectRepo, userRepo)
	taskService := services.NewTaskService(taskRepo, userRepo, projectService)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	projectHandler := handlers.NewProjectHandler(projectService, taskService)
	taskHandler := handlers.NewTaskHandler(taskService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Project Tracker is running",
		})
	})

	// Auth routes (public)
	r.GET("/login", authHandler.LoginPage)
	r.POST("/login", authHandler.Login)
	r.POST("/register", authHandler.Register)
	r.POST("/reset_password", authHandler.RequestPasswordReset)
	r.POST("/reset_password/:token", authHandler.ConfirmPasswordReset)

	// Protected routes
	auth := r.Group("/")
	auth.Use(middleware.RequireAuth())
	{
		auth.GET("/", projectHandler.Dashboard)
		auth.GET("/logout", authHandler.Logout)

		auth.POST("/projects/create", projectHandler.CreateProject)
		auth.GET("/projects/:id", middleware.RequireProjectAccess(), projectHandler.ProjectDetail)
		auth.POST("/projects/:id/share", middleware.RequireProjectAccess(), projectHandler.ShareProject)
		auth.POST("/projects/:id/tasks/create", middleware.RequireProjectAccess(), taskHandler.CreateTask)

		auth.POST("/tasks/:id/update", taskHandler.UpdateTask)
		auth.POST("/tasks/:id/delete", taskHandler.DeleteTask)
		auth.POST("/tasks/:id/update_status", middleware.RequireTaskAccess(), taskHandler.UpdateTaskStatus)
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
