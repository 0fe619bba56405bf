package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/eventcert/api/internal/auth"
	"github.com/eventcert/api/internal/model"
	"github.com/eventcert/api/internal/store"
)

// ErrInvalidCredentials hides whether the email or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid email or password")

// AuthService authenticates staff accounts and issues bearer tokens.
type AuthService struct {
	store      store.Store
	jwtSecret  string
	expiration time.Duration
}

func NewAuthService(st store.Store, jwtSecret string, expirationHours int) *AuthService {
	return &AuthService{
		store:      st,
		jwtSecret:  jwtSecret,
		expiration: time.Duration(expirationHours) * time.Hour,
	}
}

func (s *AuthService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID.String(), user.Email, s.jwtSecret, s.expiration)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &model.LoginResponse{Token: token, User: user}, nil
}
