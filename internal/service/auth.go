// Package service holds the business logic between the HTTP handlers and
// the stores. AuthService covers registration, login and JWT issuance.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"launchtracker/internal/domain"
	"launchtracker/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var authTracer = otel.Tracer("service/auth")

const bcryptCost = 12

// AuthService orchestrates authentication flows.
type AuthService struct {
	store     port.UserStore
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    *zap.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(store port.UserStore, jwtSecret string, tokenTTL time.Duration, logger *zap.Logger) *AuthService {
	return &AuthService{
		store:     store,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

// Register creates an account and signs it in. Accounts own their own plans
// outright, so every registration gets the admin role.
func (s *AuthService) Register(ctx context.Context, in domain.RegisterInput) (*domain.AuthResponse, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.Register")
	defer span.End()

	email := strings.ToLower(strings.TrimSpace(in.Email))

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.store.CreateUser(ctx, email, string(hash), in.Name, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}

	token, err := s.signToken(user)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	s.logger.Info("user registered", zap.Int64("user_id", user.ID))
	return &domain.AuthResponse{User: publicUser(user), Token: token}, nil
}

// Login verifies credentials and issues a token. Wrong email and wrong
// password produce the same error.
func (s *AuthService) Login(ctx context.Context, in domain.LoginInput) (*domain.AuthResponse, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.Login")
	defer span.End()

	email := strings.ToLower(strings.TrimSpace(in.Email))

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, &domain.ErrUnauthorized{Message: "Invalid email or password"}
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		s.logger.Warn("login failed", zap.Int64("user_id", user.ID))
		return nil, &domain.ErrUnauthorized{Message: "Invalid email or password"}
	}

	token, err := s.signToken(user)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &domain.AuthResponse{User: publicUser(user), Token: token}, nil
}

// Me returns the current account's public profile.
func (s *AuthService) Me(ctx context.Context, userID int64) (*domain.AuthUser, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.Me")
	defer span.End()

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	u := publicUser(user)
	return &u, nil
}

func publicUser(u *domain.User) domain.AuthUser {
	return domain.AuthUser{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}
