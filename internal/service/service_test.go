package service_test

import (
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"friendfinder/backend/internal/cache"
	"friendfinder/backend/internal/config"
	"friendfinder/backend/internal/database"
	"friendfinder/backend/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setup in-memory DB
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func setupTestCache(t *testing.T) *cache.RedisCache {
	t.Helper()
	mr := miniredis.RunT(t)
	return cache.NewRedisCache(&config.Config{RedisAddr: mr.Addr()})
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// seedUser inserts a user, filling the bare minimum when fields are unset.
func seedUser(t *testing.T, db *gorm.DB, u models.User) *models.User {
	t.Helper()
	if u.PasswordHash == "" {
		u.PasswordHash = "x"
	}
	if u.Email == "" {
		u.Email = fmt.Sprintf("%s@test.com", u.Username)
	}
	if u.PrivacySettings == (models.PrivacySettings{}) {
		u.PrivacySettings = models.DefaultPrivacySettings()
	}
	require.NoError(t, db.Create(&u).Error)
	return &u
}

// captureMailer records sent mail for assertions.
type captureMailer struct {
	To      []string
	Subject []string
	Body    []string
}

func (m *captureMailer) Send(to, subject, body string) error {
	m.To = append(m.To, to)
	m.Subject = append(m.Subject, subject)
	m.Body = append(m.Body, body)
	return nil
}
