package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/student-planner-api/internal/config"
	"github.com/yukikurage/student-planner-api/internal/database"
	"gorm.io/gorm"
)

func newSQLiteDB(t *testing.T, cfg *config.Config) *gorm.DB {
	t.Helper()

	db, err := database.Connect(cfg)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		GinMode:   gin.TestMode,
		LogLevel:  "warn",
		DBDriver:  "sqlite",
		DBPath:    ":memory:",
		JWTSecret: "secret",
	}
}

func TestNewLogger(t *testing.T) {
	cfg := testConfig()
	logger := newLogger(cfg)
	assert.Equal(t, log.WarnLevel, logger.GetLevel())

	cfg.LogLevel = "nonsense"
	cfg.GinMode = gin.ReleaseMode
	logger = newLogger(cfg)
	assert.Equal(t, log.InfoLevel, logger.GetLevel())
	assert.IsType(t, &log.JSONFormatter{}, logger.Formatter)
}

func TestCheckJWTSecret(t *testing.T) {
	logger, hook := test.NewNullLogger()

	cfg := testConfig()
	require.NoError(t, checkJWTSecret(cfg, logger))
	assert.Empty(t, hook.AllEntries())

	cfg.JWTSecret = config.DefaultJWTSecret
	require.NoError(t, checkJWTSecret(cfg, logger))
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, log.WarnLevel, hook.LastEntry().Level)

	cfg.GinMode = gin.ReleaseMode
	assert.Error(t, checkJWTSecret(cfg, logger))
}

func TestBuildRouter(t *testing.T) {
	cfg := testConfig()
	db := newSQLiteDB(t, cfg)

	router, cleanup, err := buildRouter(context.Background(), cfg, db, newLogger(cfg))
	require.NoError(t, err)
	defer cleanup()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBuildRouter_WithRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	cfg := testConfig()
	cfg.RedisURL = "redis://" + mr.Addr()
	db := newSQLiteDB(t, cfg)

	_, cleanup, err := buildRouter(context.Background(), cfg, db, newLogger(cfg))
	require.NoError(t, err)
	cleanup()

	cfg.RedisURL = "://bad"
	_, _, err = buildRouter(context.Background(), cfg, db, newLogger(cfg))
	assert.Error(t, err)
}
