package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/iplanding-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAdminRepositoryTest(t *testing.T) *GormAdminRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.Admin{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return NewAdminRepository(db)
}

func TestAdminGetByUsername(t *testing.T) {
	repo := setupAdminRepositoryTest(t)

	admin := &models.Admin{Username: "admin", PasswordHash: "hash"}
	if err := repo.db.Create(admin).Error; err != nil {
		t.Fatalf("failed to create admin: %v", err)
	}

	found, err := repo.GetByUsername("admin")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if found == nil || found.ID != admin.ID {
		t.Fatalf("expected admin %d, got %+v", admin.ID, found)
	}

	missing, err := repo.GetByUsername("ghost")
	if err != nil {
		t.Fatalf("expected no error for missing admin, got %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing admin, got %+v", missing)
	}
}

func TestAdminGetByID(t *testing.T) {
	repo := setupAdminRepositoryTest(t)

	admin := &models.Admin{Username: "admin", PasswordHash: "hash"}
	if err := repo.db.Create(admin).Error; err != nil {
		t.Fatalf("failed to create admin: %v", err)
	}

	found, err := repo.GetByID(admin.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if found == nil || found.Username != "admin" {
		t.Fatalf("unexpected result %+v", found)
	}

	missing, err := repo.GetByID(9999)
	if err != nil || missing != nil {
		t.Fatalf("expected nil,nil for missing id, got %v %v", missing, err)
	}
}

func TestAdminUpdateLastLogin(t *testing.T) {
	repo := setupAdminRepositoryTest(t)

	admin := &models.Admin{Username: "admin", PasswordHash: "hash"}
	if err := repo.db.Create(admin).Error; err != nil {
		t.Fatalf("failed to create admin: %v", err)
	}

	at := time.Now()
	if err := repo.UpdateLastLogin(admin.ID, at); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	found, err := repo.GetByID(admin.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if found.LastLoginAt == nil {
		t.Fatal("expected last login to be set")
	}
	if diff := found.LastLoginAt.Sub(at); diff < -time.Second || diff > time.Second {
		t.Fatalf("unexpected last login time %v", found.LastLoginAt)
	}

	if err := repo.UpdateLastLogin(0, at); err != nil {
		t.Fatalf("expected zero id to be a no-op, got %v", err)
	}
}
