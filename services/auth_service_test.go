package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"missingpersons-be/models"
	"missingpersons-be/store"
	"missingpersons-be/store/mocks"
	"missingpersons-be/utils"
)

func newAuthService(t *testing.T) (*AuthService, *mocks.MockUserStore) {
	t.Helper()
	us := mocks.NewMockUserStore(gomock.NewController(t))
	return NewAuthService(us, "test-secret", zap.NewNop()), us
}

func TestAuthService_RegisterRoles(t *testing.T) {
	tests := []struct {
		name     string
		role     models.Role
		isAdmin  bool
		wantRole models.Role
	}{
		{"self signup", "", false, models.RoleUser},
		{"self-granted admin ignored", models.RoleAdmin, false, models.RoleUser},
		{"admin creates admin", models.RoleAdmin, true, models.RoleAdmin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, us := newAuthService(t)
			us.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(nil)

			u, err := svc.Register(context.Background(), "Ann", " Ann@Example.com ", "secret1", tt.role, tt.isAdmin)
			if err != nil {
				t.Fatalf("Register: %v", err)
			}
			if u.Role != tt.wantRole {
				t.Errorf("Role = %q, want %q", u.Role, tt.wantRole)
			}
			if u.Email != "ann@example.com" {
				t.Errorf("Email = %q", u.Email)
			}
			if u.Password == "secret1" || !u.ComparePassword("secret1") {
				t.Error("password was not hashed")
			}
		})
	}
}

func TestAuthService_RegisterDuplicate(t *testing.T) {
	svc, us := newAuthService(t)
	us.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(fmt.Errorf("insert: %w", store.ErrDuplicate))

	if _, err := svc.Register(context.Background(), "Ann", "ann@example.com", "secret1", "", false); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("err = %v, want ErrEmailTaken", err)
	}
}

func TestAuthService_RegisterShortPassword(t *testing.T) {
	svc, _ := newAuthService(t)
	if _, err := svc.Register(context.Background(), "Ann", "ann@example.com", "123", "", false); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	svc, us := newAuthService(t)

	stored := &models.User{ID: "u1", Email: "ann@example.com", Password: "secret1", Role: models.RoleAdmin}
	if err := stored.HashPassword(); err != nil {
		t.Fatal(err)
	}
	us.EXPECT().GetUserByEmail(gomock.Any(), "ann@example.com").Return(stored, nil).Times(2)
	us.EXPECT().GetUserByEmail(gomock.Any(), "nobody@example.com").Return(nil, store.ErrNotFound)

	u, token, err := svc.Login(context.Background(), "ann@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := utils.ParseToken("test-secret", token)
	if err != nil || claims.UserID != u.ID || claims.Role != "admin" {
		t.Errorf("token claims = %+v, %v", claims, err)
	}

	if _, _, err := svc.Login(context.Background(), "ann@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "nobody@example.com", "x"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user err = %v", err)
	}
}

func TestAuthService_Me(t *testing.T) {
	svc, us := newAuthService(t)
	us.EXPECT().GetUserByID(gomock.Any(), "gone").Return(nil, store.ErrNotFound)

	if _, err := svc.Me(context.Background(), "gone"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("err = %v, want ErrUserNotFound", err)
	}
}
