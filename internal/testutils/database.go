package testutils

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"seichi/cms/internal/model"
	dbPkg "seichi/cms/packages/database"
	"seichi/cms/packages/session"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// TestJWTSecret 测试用签名密钥
const TestJWTSecret = "test-secret"

// SetupTestDB creates an isolated in-memory SQLite database for one test
// Automatically migrates all tables before returning the connection
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := dbPkg.InitSQLite(&dbPkg.SQLiteConfig{
		ServiceName: "seichi-cms-test",
		Path:        "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		LogLevel:    "silent",
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Initialize all tables
	if err := model.InitTable(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return db
}

// SetupTestRedis creates a test Redis connection
// Returns nil if Redis is not available (tests can skip Redis-dependent features)
func SetupTestRedis(t *testing.T) *dbPkg.RedisClient {
	t.Helper()

	redisPort, err := strconv.Atoi(getEnvOrDefault("REDIS_PORT", "6380"))
	if err != nil || redisPort == 0 {
		redisPort = 6380
	}

	// Try to initialize Redis, but don't fail if it's not available
	redisClient, err := dbPkg.InitRedis(&dbPkg.RedisConfig{
		ServiceName: "seichi-cms-test",
		Host:        getEnvOrDefault("REDIS_HOST", "localhost"),
		Port:        redisPort,
		DB:          15,
	}, zerolog.Nop())
	if err != nil || redisClient == nil {
		return nil
	}

	// Cleanup: flush Redis on test cleanup
	t.Cleanup(func() {
		redisClient.FlushDB(context.Background())
		redisClient.Close()
	})
	return redisClient
}

// IssueTestToken 为测试用户签发 token
func IssueTestToken(t *testing.T, s session.Session) string {
	t.Helper()
	token, err := session.IssueToken(s, TestJWTSecret, time.Hour)
	if err != nil {
		t.Fatalf("Failed to issue test token: %v", err)
	}
	return token
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
