package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"ecoshop/internal/model"
	"ecoshop/internal/store"
)

var (
	ErrMissingCredentials = errors.New("login and password required")
	ErrInvalidCredentials = errors.New("invalid login or password")
	ErrLoginTaken         = store.ErrLoginTaken
)

type AuthService struct {
	store *store.Store
}

func NewAuthService(st *store.Store) *AuthService {
	return &AuthService{store: st}
}

// HashPassword is exposed so demo users can be seeded with a known password.
func HashPassword(password string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

func (s *AuthService) Register(ctx context.Context, login, password string) (*model.User, error) {
	if login == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := model.User{
		ID:           uuid.NewString(),
		Login:        login,
		Avatar:       store.DefaultAvatar(),
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if err := s.store.Update(func(snap *store.Snapshot) error {
		return snap.PutUser(user)
	}); err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return &user, nil
}

func (s *AuthService) Authenticate(ctx context.Context, login, password string) (*model.User, error) {
	user, ok := s.store.Snapshot().UserByLogin(login)
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}
