package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_api/internal/events"
	"github.com/Skotchmaster/shop_api/internal/hash"
	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/models"
	"github.com/Skotchmaster/shop_api/internal/repo"
	"github.com/Skotchmaster/shop_api/internal/tokens"
)

const publishTimeout = 5 * time.Second

type UserStore interface {
	CreateUserIfNotExists(ctx context.Context, u *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
}

type AuthService struct {
	Repo     UserStore
	Hasher   hash.Hasher
	Tokens   *tokens.Issuer
	Producer events.Publisher
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (uint, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" || password == "" {
		return 0, fmt.Errorf("username, email and password are required: %w", ErrValidation)
	}

	pwHash, err := s.Hasher.HashPassword(password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return 0, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: pwHash,
	}
	if err := s.Repo.CreateUserIfNotExists(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			l.Warn("register_error", "status", 400, "reason", "email already exists")
			return 0, fmt.Errorf("email %s: %w", email, ErrConflict)
		}
		l.Error("register_error", "status", 500, "reason", "cannot create user", "error", err)
		return 0, err
	}

	publish(ctx, s.Producer, events.TopicUser, events.Event{Type: events.TypeUserRegistered, UserID: user.ID})
	l.Info("register_success", "user_id", user.ID)
	return user.ID, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if email == "" || password == "" {
		return "", fmt.Errorf("email and password are required: %w", ErrValidation)
	}

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "unknown email")
			return "", fmt.Errorf("invalid credentials: %w", ErrUnauthenticated)
		}
		l.Error("login_failed", "status", 500, "error", err)
		return "", err
	}

	if !s.Hasher.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "wrong password", "user_id", user.ID)
		return "", fmt.Errorf("invalid credentials: %w", ErrUnauthenticated)
	}

	token, err := s.Tokens.Issue(user.ID)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot sign token", "error", err)
		return "", fmt.Errorf("issue token: %w", err)
	}

	publish(ctx, s.Producer, events.TopicUser, events.Event{Type: events.TypeUserLoggedIn, UserID: user.ID})
	l.Info("login_success", "user_id", user.ID)
	return token, nil
}

// CurrentUser resolves a bearer token to a live user.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.Tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrUnauthenticated)
	}

	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d not found: %w", userID, ErrUnauthenticated)
		}
		return nil, err
	}
	return user, nil
}

func publish(ctx context.Context, p events.Publisher, topic string, ev events.Event) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := p.Publish(ctx, topic, ev); err != nil {
		logging.FromContext(ctx).Error("event_publish_error", "topic", topic, "type", ev.Type, "error", err)
	}
}
