package service

import (
	"errors"
	"testing"
	"time"

	"github.com/iplanding-next/internal/config"
	"github.com/iplanding-next/internal/models"
)

type fakeAdminRepository struct {
	admin          *models.Admin
	getErr         error
	lastLoginID    uint
	lastLoginErr   error
	lastLoginCalls int
}

func (f *fakeAdminRepository) GetByUsername(username string) (*models.Admin, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.admin != nil && f.admin.Username == username {
		return f.admin, nil
	}
	return nil, nil
}

func (f *fakeAdminRepository) GetByID(id uint) (*models.Admin, error) {
	if f.admin != nil && f.admin.ID == id {
		return f.admin, nil
	}
	return nil, nil
}

func (f *fakeAdminRepository) UpdateLastLogin(id uint, at time.Time) error {
	f.lastLoginCalls++
	f.lastLoginID = id
	return f.lastLoginErr
}

func newAuthTestService(repo *fakeAdminRepository) *AuthService {
	return NewAuthService(&config.Config{
		JWT: config.JWTConfig{
			SecretKey:   "test-secret-key-for-unit-tests-only",
			ExpireHours: 24,
		},
	}, repo)
}

func TestHashAndVerifyPassword(t *testing.T) {
	svc := newAuthTestService(&fakeAdminRepository{})

	hash, err := svc.HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("expected hashed value")
	}
	if err := svc.VerifyPassword(hash, "s3cret-pass"); err != nil {
		t.Fatalf("expected verify success, got %v", err)
	}
	if err := svc.VerifyPassword(hash, "wrong-pass"); err == nil {
		t.Fatal("expected verify failure for wrong password")
	}
}

func TestGenerateAndParseJWT(t *testing.T) {
	svc := newAuthTestService(&fakeAdminRepository{})
	admin := &models.Admin{ID: 42, Username: "admin"}

	token, expiresAt, err := svc.GenerateJWT(admin)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if time.Until(expiresAt) < 23*time.Hour {
		t.Fatalf("unexpected expiry %v", expiresAt)
	}

	claims, err := svc.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.AdminID != 42 || claims.Username != "admin" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestParseJWTRejectsWrongSecret(t *testing.T) {
	svc := newAuthTestService(&fakeAdminRepository{})
	token, _, err := svc.GenerateJWT(&models.Admin{ID: 1, Username: "admin"})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	other := NewAuthService(&config.Config{
		JWT: config.JWTConfig{SecretKey: "different-secret", ExpireHours: 24},
	}, nil)
	if _, err := other.ParseJWT(token); err == nil {
		t.Fatal("expected parse failure with wrong secret")
	}
}

func TestLoginSuccess(t *testing.T) {
	repo := &fakeAdminRepository{}
	svc := newAuthTestService(repo)

	hash, err := svc.HashPassword("correct-pass")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	repo.admin = &models.Admin{ID: 7, Username: "admin", PasswordHash: hash}

	admin, token, expiresAt, err := svc.Login("admin", "correct-pass")
	if err != nil {
		t.Fatalf("expected login success, got %v", err)
	}
	if admin.ID != 7 || token == "" || expiresAt.IsZero() {
		t.Fatalf("unexpected login result: %v %q %v", admin, token, expiresAt)
	}
	if repo.lastLoginCalls != 1 || repo.lastLoginID != 7 {
		t.Fatalf("expected last login update for admin 7, got %d calls for %d", repo.lastLoginCalls, repo.lastLoginID)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	repo := &fakeAdminRepository{}
	svc := newAuthTestService(repo)

	hash, _ := svc.HashPassword("correct-pass")
	repo.admin = &models.Admin{ID: 7, Username: "admin", PasswordHash: hash}

	if _, _, _, err := svc.Login("admin", "wrong-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc := newAuthTestService(&fakeAdminRepository{})

	if _, _, _, err := svc.Login("ghost", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginSurvivesLastLoginUpdateFailure(t *testing.T) {
	repo := &fakeAdminRepository{lastLoginErr: errors.New("db down")}
	svc := newAuthTestService(repo)

	hash, _ := svc.HashPassword("correct-pass")
	repo.admin = &models.Admin{ID: 7, Username: "admin", PasswordHash: hash}

	if _, _, _, err := svc.Login("admin", "correct-pass"); err != nil {
		t.Fatalf("expected login success despite update failure, got %v", err)
	}
}
