package auth

import (
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mrlokans/interlinear/internal/config"
	"github.com/mrlokans/interlinear/internal/database/users"
	"github.com/mrlokans/interlinear/internal/entities"
)

func setupTestService(t *testing.T, cfg config.Auth) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := db.AutoMigrate(&entities.User{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return NewService(users.NewRepository(db), cfg)
}

func TestService_CreateUser(t *testing.T) {
	svc := setupTestService(t, config.Auth{BcryptCost: 4})

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "valid user", username: "reader", password: "password12345"},
		{name: "invalid username", username: "a b", password: "password12345", wantErr: ErrUsernameInvalid},
		{name: "short username", username: "ab", password: "password12345", wantErr: ErrUsernameInvalid},
		{name: "missing password", username: "reader2", password: "", wantErr: ErrPasswordRequired},
		{name: "password too short", username: "reader3", password: "short", wantErr: ErrPasswordTooShort},
		{name: "duplicate username", username: "reader", password: "password12345", wantErr: ErrUserExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := svc.CreateUser(tt.username, tt.password)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("CreateUser() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateUser() unexpected error: %v", err)
			}
			if user.UID == "" {
				t.Error("expected UID to be assigned")
			}
			if user.PasswordHash == tt.password {
				t.Error("password stored in plaintext")
			}
		})
	}
}

func TestService_IssueAndValidateToken(t *testing.T) {
	svc := setupTestService(t, config.Auth{BcryptCost: 4, TokenExpiry: time.Hour})

	created, err := svc.CreateUser("reader", "password12345")
	if err != nil {
		t.Fatalf("CreateUser() error: %v", err)
	}

	if _, _, err := svc.IssueToken("reader", "wrong-password"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("IssueToken() with bad password error = %v, want %v", err, ErrInvalidPassword)
	}
	if _, _, err := svc.IssueToken("nobody", "password12345"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("IssueToken() for unknown user error = %v, want %v", err, ErrUserNotFound)
	}

	token, user, err := svc.IssueToken("reader", "password12345")
	if err != nil {
		t.Fatalf("IssueToken() error: %v", err)
	}
	if token == "" || user.UID != created.UID {
		t.Fatalf("unexpected token exchange result: token=%q uid=%q", token, user.UID)
	}

	validated, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error: %v", err)
	}
	if validated.UID != created.UID {
		t.Errorf("ValidateToken() uid = %q, want %q", validated.UID, created.UID)
	}

	if _, err := svc.ValidateToken("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("ValidateToken() with unknown token error = %v, want %v", err, ErrInvalidToken)
	}

	// Reissuing rotates the token.
	newToken, _, err := svc.IssueToken("reader", "password12345")
	if err != nil {
		t.Fatalf("IssueToken() second call error: %v", err)
	}
	if _, err := svc.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("old token still valid after rotation: %v", err)
	}
	if _, err := svc.ValidateToken(newToken); err != nil {
		t.Errorf("new token rejected: %v", err)
	}
}

func TestService_ValidateToken_Expired(t *testing.T) {
	svc := setupTestService(t, config.Auth{BcryptCost: 4, TokenExpiry: time.Minute})
	if _, err := svc.CreateUser("reader", "password12345"); err != nil {
		t.Fatalf("CreateUser() error: %v", err)
	}

	token, _, err := svc.IssueToken("reader", "password12345")
	if err != nil {
		t.Fatalf("IssueToken() error: %v", err)
	}

	svc.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if _, err := svc.ValidateToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("ValidateToken() error = %v, want %v", err, ErrTokenExpired)
	}
}

func TestService_HasUsers(t *testing.T) {
	svc := setupTestService(t, config.Auth{BcryptCost: 4})

	has, err := svc.HasUsers()
	if err != nil || has {
		t.Fatalf("HasUsers() = %v, %v; want false, nil", has, err)
	}
	if _, err := svc.CreateUser("reader", "password12345"); err != nil {
		t.Fatalf("CreateUser() error: %v", err)
	}
	has, err = svc.HasUsers()
	if err != nil || !has {
		t.Fatalf("HasUsers() = %v, %v; want true, nil", has, err)
	}
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("password12345", 4)
	if err != nil {
		t.Fatalf("HashPassword() error: %v", err)
	}
	if err := CheckPassword("password12345", hash); err != nil {
		t.Errorf("CheckPassword() with correct password: %v", err)
	}
	if err := CheckPassword("password54321", hash); !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("CheckPassword() error = %v, want %v", err, ErrInvalidPassword)
	}

	long := make([]byte, 80)
	for i := range long {
		long[i] = 'a'
	}
	if _, err := HashPassword(string(long), 4); !errors.Is(err, ErrPasswordTooLong) {
		t.Errorf("HashPassword() with 80 bytes error = %v, want %v", err, ErrPasswordTooLong)
	}
}

func TestNewAPIToken(t *testing.T) {
	a, err := NewAPIToken()
	if err != nil {
		t.Fatalf("NewAPIToken() error: %v", err)
	}
	b, err := NewAPIToken()
	if err != nil {
		t.Fatalf("NewAPIToken() error: %v", err)
	}
	if a.Plaintext == b.Plaintext {
		t.Error("expected distinct tokens")
	}
	if len(a.Plaintext) != 64 {
		t.Errorf("token length = %d, want 64", len(a.Plaintext))
	}
	if HashToken(a.Plaintext) != a.Hash {
		t.Error("hash does not match plaintext")
	}
}
