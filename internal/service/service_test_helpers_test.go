package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/newsroom-next/internal/cache"
	"github.com/newsroom-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:service_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate models failed: %v", err)
	}
	cache.UseClient(nil, "")
	return db
}

func seedServiceUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
	t.Helper()
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	user := &models.User{
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: hash,
		DisplayName:  username,
		Role:         role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func strPtr(v string) *string {
	return &v
}

func timePtr(v time.Time) *time.Time {
	return &v
}
