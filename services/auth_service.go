package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"missingpersons-be/models"
	"missingpersons-be/store"
	"missingpersons-be/utils"
)

type AuthService struct {
	Users  store.UserStore
	Secret string
	Log    *zap.Logger
}

func NewAuthService(us store.UserStore, secret string, logger *zap.Logger) *AuthService {
	return &AuthService{Users: us, Secret: secret, Log: logger}
}

// Register creates a user account. Only an admin caller may grant the admin
// role; everyone else gets the user role.
func (s *AuthService) Register(ctx context.Context, name, email, password string, role models.Role, callerIsAdmin bool) (*models.User, error) {
	if role != models.RoleAdmin || !callerIsAdmin {
		role = models.RoleUser
	}
	u := &models.User{
		Name:     utils.SanitizeText(name),
		Email:    models.NormalizeEmail(email),
		Password: password,
		Role:     role,
	}
	if u.Name == "" || u.Email == "" || len(password) < 6 {
		return nil, invalid(fmt.Errorf("name, email and a password of at least 6 characters are required"))
	}
	if err := u.HashPassword(); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if err := s.Users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.Log.Info("user registered", zap.String("id", u.ID), zap.String("role", string(u.Role)))
	return u, nil
}

// Login checks credentials and returns the user with a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	u, err := s.Users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("find user: %w", err)
	}
	if !u.ComparePassword(password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(s.Secret, u.ID, string(u.Role))
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	return u, token, nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.Users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, mapNotFound(err, ErrUserNotFound)
	}
	return u, nil
}
