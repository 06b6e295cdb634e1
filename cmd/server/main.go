package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/yukikurage/student-planner-api/internal/config"
	"github.com/yukikurage/student-planner-api/internal/database"
	"github.com/yukikurage/student-planner-api/internal/handlers"
	"github.com/yukikurage/student-planner-api/internal/repository"
	"github.com/yukikurage/student-planner-api/internal/services"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:   "planner",
	Short: "Student planner task API",
	RunE:  runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run migrations and start the HTTP server",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations and exit",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	logger := newLogger(cfg)
	if err := checkJWTSecret(cfg, logger); err != nil {
		return err
	}

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	router, cleanup, err := buildRouter(cmd.Context(), cfg, db, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	addr := ":" + cfg.Port
	logger.WithField("addr", addr).Info("Server starting")
	if err := router.Run(addr); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	newLogger(cfg)

	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	return database.Migrate(db)
}

// newLogger configures both the standard logrus logger and the returned one
func newLogger(cfg *config.Config) *log.Logger {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}

	logger := log.StandardLogger()
	logger.SetLevel(level)
	if cfg.GinMode == gin.ReleaseMode {
		logger.SetFormatter(&log.JSONFormatter{})
	} else {
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return logger
}

// checkJWTSecret refuses the built-in secret in release mode and warns otherwise
func checkJWTSecret(cfg *config.Config, logger *log.Logger) error {
	if cfg.JWTSecret != config.DefaultJWTSecret {
		return nil
	}
	if cfg.GinMode == gin.ReleaseMode {
		return errors.New("JWT_SECRET must be set in release mode")
	}
	logger.Warn("JWT_SECRET is not set, signing tokens with the built-in development secret")
	return nil
}

// buildRouter wires repositories, services and routes. The task repository
// gets a Redis list cache when REDIS_URL is set and reachable.
func buildRouter(ctx context.Context, cfg *config.Config, db *gorm.DB, logger *log.Logger) (*gin.Engine, func(), error) {
	cleanup := func() {}

	var taskRepo repository.TaskRepository = repository.NewTaskRepository(db)
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, cleanup, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		rc := redis.NewClient(opts)
		if err := rc.Ping(ctx).Err(); err != nil {
			logger.WithError(err).Warn("Redis unreachable, task cache disabled")
			_ = rc.Close()
		} else {
			taskRepo = repository.NewCachedTaskRepository(taskRepo, rc, cfg.CacheTTL, logger)
			cleanup = func() { _ = rc.Close() }
			logger.WithField("ttl", cfg.CacheTTL).Info("Task list cache enabled")
		}
	}

	// Initialize AI service
	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	}

	tokens := services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	router := handlers.NewRouter(handlers.RouterConfig{
		AuthService: services.NewAuthService(repository.NewUserRepository(db), tokens),
		TaskService: services.NewTaskService(taskRepo, aiService),
		Tokens:      tokens,
		Logger:      logger,
	})
	return router, cleanup, nil
}
