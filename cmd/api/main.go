// main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/teamflow-app/teamflow-backend/internal/api/handlers"
	"github.com/teamflow-app/teamflow-backend/internal/api/middleware"
	"github.com/teamflow-app/teamflow-backend/internal/config"
	"github.com/teamflow-app/teamflow-backend/internal/cron"
	"github.com/teamflow-app/teamflow-backend/internal/db"
	"github.com/teamflow-app/teamflow-backend/internal/repository"
	"github.com/teamflow-app/teamflow-backend/internal/seed"
	"github.com/teamflow-app/teamflow-backend/internal/service"
	"github.com/teamflow-app/teamflow-backend/internal/socket"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Println("[DB] Running database migrations...")
	if err := db.RunMigrations(cfg.DatabaseURL, "./internal/db/migrations"); err != nil {
		log.Fatalf("[DB] Migration failed: %v", err)
	}
	log.Println("[DB] Migrations completed")

	postgres, err := db.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[DB] Failed to connect to PostgreSQL: %v", err)
	}
	defer postgres.Close()

	repos := repository.NewRepositories(postgres.Pool)

	// Redis is optional; without it user search just skips the cache.
	var redisDB *db.RedisDB
	if cfg.RedisURL != "" {
		redisDB, err = db.NewRedisDB(cfg.RedisURL)
		if err != nil {
			log.Printf("[DB] Failed to connect to Redis: %v (continuing without cache)", err)
			redisDB = nil
		} else {
			defer redisDB.Close()
			log.Println("[DB] Redis cache enabled")
		}
	}

	hub := socket.NewHub()
	go hub.Run()
	broadcaster := socket.NewBroadcaster(hub)
	wsHandler := socket.NewHandler(hub, cfg.JWTSecret)

	if cfg.Environment != "production" {
		seed.SeedData(repos)
	}

	services := service.NewServices(&service.ServiceDeps{
		Config:      cfg,
		Repos:       repos,
		Cache:       redisDB,
		Broadcaster: broadcaster,
	})

	h := handlers.NewHandlers(services)

	cronScheduler := cron.NewScheduler(repos.InvitationRepo)
	cronScheduler.Start()
	defer cronScheduler.Stop()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL, "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		cache := "disabled"
		if redisDB != nil {
			cache = "connected"
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"database":  "connected",
			"cache":     cache,
		})
	})

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
		}

		// WebSocket authenticates itself via token query param.
		api.GET("/ws", wsHandler.HandleWebSocket)

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(services.Auth))
		{
			users := protected.Group("/users")
			{
				users.GET("/me", h.Auth.Me)
				users.GET("/search", h.User.Search)
			}

			workspaces := protected.Group("/workspaces")
			{
				workspaces.GET("", h.Workspace.ListMine)
				workspaces.POST("", h.Workspace.Create)
				workspaces.GET("/:id", h.Workspace.Get)

				workspaces.GET("/:id/members", h.Member.List)
				workspaces.PUT("/:id/members/:userId/role", h.Member.UpdateRole)

				workspaces.POST("/:id/invitations", h.Invitation.Send)
				workspaces.GET("/:id/invitations", h.Invitation.ListForWorkspace)

				workspaces.GET("/:id/projects", h.Project.List)
				workspaces.POST("/:id/projects", h.Project.Create)
				workspaces.GET("/:id/projects/:projectId", h.Project.Get)
				workspaces.DELETE("/:id/projects/:projectId", h.Project.Delete)

				workspaces.GET("/:id/projects/:projectId/tasks", h.Task.List)
				workspaces.POST("/:id/projects/:projectId/tasks", h.Task.Create)
				workspaces.GET("/:id/projects/:projectId/tasks/:taskId", h.Task.Get)
				workspaces.PUT("/:id/projects/:projectId/tasks/:taskId", h.Task.Update)
				workspaces.DELETE("/:id/projects/:projectId/tasks/:taskId", h.Task.Delete)

				workspaces.PATCH("/:id/tasks/:taskId/status", h.Task.UpdateStatus)
				workspaces.GET("/:id/tasks/:taskId/permissions", h.Task.GetPermissions)
			}

			invitations := protected.Group("/invitations")
			{
				invitations.GET("/my", h.Invitation.ListMine)
				invitations.POST("/:id/respond", h.Invitation.Respond)
			}

			// Legacy invite-link join.
			protected.POST("/member/workspace/:inviteCode/join", h.Member.JoinByInviteCode)
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
