// Package testutil provides database and fixture helpers for tests.
package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/bug-journal-api/internal/config"
	"github.com/yukikurage/bug-journal-api/internal/database"
	"github.com/yukikurage/bug-journal-api/internal/logging"
	"github.com/yukikurage/bug-journal-api/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory SQLite database. The pool is limited to a
// single connection because every connection to ":memory:" is a new database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db, logging.Discard()))
	return db
}

// Config returns a configuration suitable for tests: SQLite, cookie sessions
// and the keyword suggestion backend.
func Config() *config.Config {
	return &config.Config{
		Port:              "0",
		GinMode:           "test",
		LogLevel:          "error",
		LogFormat:         "text",
		DBDriver:          "sqlite",
		DBPath:            ":memory:",
		SessionStore:      "cookie",
		SessionSecret:     "test-secret",
		SuggestionBackend: "static",
		SuggestionTimeout: time.Second,
		OpenAIModel:       "gpt-4o",
		MaxUploadBytes:    1 << 20,
	}
}

// CreateUser inserts a user with password "password".
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		DisplayName:  username,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateIssue inserts a bare issue without tags, links or files.
func CreateIssue(t *testing.T, db *gorm.DB, userID uint64, title, date string) *models.Issue {
	t.Helper()

	issue := &models.Issue{
		UserID: userID,
		Title:  title,
		Status: models.IssueStatusUnresolved,
		Date:   date,
	}
	require.NoError(t, db.Omit("User", "Links", "Files").Create(issue).Error)
	return issue
}
