//go:generate go run go.uber.org/mock/mockgen -source=auth_service.go -destination=../mocks/mock_auth_service.go -package=mocks
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"plaza/auth"
	"plaza/domain"
	"plaza/errors"
	"plaza/notify"
	"plaza/repositories"
	"plaza/session"

	"github.com/google/uuid"
)

type IAuthService interface {
	Register(ctx context.Context, req auth.RegisterRequest) (domain.User, error)
	Login(ctx context.Context, username, password string) (domain.User, session.Session, error)
	CurrentUser(ctx context.Context, sessionID string) (domain.User, error)
	Logout(ctx context.Context, sessionID string) error
}

// Notifier is the best-effort registration notification hook. The
// worker behind it owns delivery; Enqueue never blocks.
type Notifier interface {
	Enqueue(n notify.Notification)
}

type AuthService struct {
	userRepository repositories.IUserRepository
	sessions       session.Store
	notifier       Notifier
	adminEmail     string
	sessionTTL     time.Duration
	log            *slog.Logger
}

func NewAuthService(
	repo repositories.IUserRepository,
	sessions session.Store,
	notifier Notifier,
	adminEmail string,
	sessionTTL time.Duration,
	log *slog.Logger,
) IAuthService {
	return &AuthService{
		userRepository: repo,
		sessions:       sessions,
		notifier:       notifier,
		adminEmail:     adminEmail,
		sessionTTL:     sessionTTL,
		log:            log,
	}
}

// Register creates a new account. The duplicate check and the insert
// happen in one repository transaction, so two concurrent registrations
// of the same username cannot both succeed. The notification is
// fire-and-forget relative to the created identity.
func (s *AuthService) Register(_ context.Context, req auth.RegisterRequest) (domain.User, error) {
	if err := auth.ValidateRegister(req); err != nil {
		return domain.User{}, fmt.Errorf("%w: %v", errors.ErrInvalidRequest, err)
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hashing failed: %w", err)
	}

	user, err := s.userRepository.Create(domain.User{
		Username:     req.Username,
		PasswordHash: hashedPassword,
		Name:         req.Name,
		Address:      req.Address,
		Age:          req.Age,
		Phone:        req.Phone,
	})
	if err != nil {
		return domain.User{}, err // propagates ErrUserAlreadyExists
	}

	if s.notifier != nil && s.adminEmail != "" {
		s.notifier.Enqueue(notify.NewUserNotification(s.adminEmail, user.Username, user.Name, user.Admin))
	}

	s.log.Info("user registered", "username", user.Username)
	return user, nil
}

// Login verifies credentials and binds a fresh session to the user.
// An unknown username and a wrong password both come back as
// ErrInvalidCredentials so the response cannot be used to enumerate
// accounts.
func (s *AuthService) Login(ctx context.Context, username, password string) (domain.User, session.Session, error) {
	user, err := s.userRepository.FindByUsername(username)
	if err != nil {
		return domain.User{}, session.Session{}, errors.ErrInvalidCredentials
	}
	if !auth.ComparePassword(password, user.PasswordHash) {
		return domain.User{}, session.Session{}, errors.ErrInvalidCredentials
	}

	id, err := session.GenerateID()
	if err != nil {
		return domain.User{}, session.Session{}, err
	}
	sess := session.Session{
		ID:        id,
		UserID:    user.ID.String(),
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return domain.User{}, session.Session{}, err
	}

	s.log.Info("user logged in", "username", user.Username)
	return user, sess, nil
}

// CurrentUser resolves a session id back to its account: session lookup
// then identity lookup, the deserialization half of the session binding.
func (s *AuthService) CurrentUser(ctx context.Context, sessionID string) (domain.User, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return domain.User{}, errors.ErrNoSession
	}
	if sess.UserID == "" {
		return domain.User{}, errors.ErrNoSession
	}

	userID, err := uuid.Parse(sess.UserID)
	if err != nil {
		return domain.User{}, errors.ErrNoSession
	}
	user, err := s.userRepository.FindByID(userID)
	if err != nil {
		// Session points at an identity that no longer resolves.
		return domain.User{}, errors.ErrNoSession
	}
	return user, nil
}

// Logout clears the session binding. Store errors propagate to the
// caller, never swallowed.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}
