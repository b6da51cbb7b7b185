package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"plaza/auth"
	"plaza/domain"
	"plaza/errors"
	"plaza/mocks"
	"plaza/notify"
	"plaza/session"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type recordingNotifier struct {
	sent []notify.Notification
}

func (n *recordingNotifier) Enqueue(notification notify.Notification) {
	n.sent = append(n.sent, notification)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validRegister() auth.RegisterRequest {
	return auth.RegisterRequest{
		Username: "alice",
		Password: "ComplexPass123!",
		Name:     "Alice",
		Address:  "1 Main St",
		Age:      30,
		Phone:    "555-0100",
	}
}

func TestAuthService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("should register and notify when input is valid", func(t *testing.T) {
		req := require.New(t)
		mockRepo := mocks.NewMockIUserRepository(ctrl)
		notifier := &recordingNotifier{}
		svc := NewAuthService(mockRepo, session.NewMemoryStore(), notifier, "admin@plaza.test", 2*time.Minute, discardLogger())

		// Expect Create to receive a hashed password, never the plaintext.
		mockRepo.EXPECT().
			Create(gomock.Any()).
			DoAndReturn(func(user domain.User) (domain.User, error) {
				require.NotEqual(t, "ComplexPass123!", user.PasswordHash)
				require.True(t, auth.ComparePassword("ComplexPass123!", user.PasswordHash))
				user.ID = uuid.New()
				return user, nil
			}).
			Times(1)

		user, err := svc.Register(context.Background(), validRegister())

		req.NoError(err)
		req.Equal("alice", user.Username)
		req.Len(notifier.sent, 1)
		req.Contains(notifier.sent[0].Subject, "alice")
	})

	t.Run("should deny duplicate username and skip notification", func(t *testing.T) {
		req := require.New(t)
		mockRepo := mocks.NewMockIUserRepository(ctrl)
		notifier := &recordingNotifier{}
		svc := NewAuthService(mockRepo, session.NewMemoryStore(), notifier, "admin@plaza.test", 2*time.Minute, discardLogger())

		mockRepo.EXPECT().
			Create(gomock.Any()).
			Return(domain.User{}, errors.ErrUserAlreadyExists).
			Times(1)

		_, err := svc.Register(context.Background(), validRegister())

		req.ErrorIs(err, errors.ErrUserAlreadyExists)
		req.Empty(notifier.sent)
	})

	t.Run("should fail validation before touching the repository", func(t *testing.T) {
		req := require.New(t)
		mockRepo := mocks.NewMockIUserRepository(ctrl)
		svc := NewAuthService(mockRepo, session.NewMemoryStore(), nil, "", 2*time.Minute, discardLogger())

		mockRepo.EXPECT().Create(gomock.Any()).Times(0)

		invalid := validRegister()
		invalid.Password = "short"
		_, err := svc.Register(context.Background(), invalid)

		req.Error(err)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	hashed, err := auth.HashPassword("Secret123456!")
	require.NoError(t, err)
	stored := domain.User{
		ID:           uuid.New(),
		Username:     "alice",
		PasswordHash: hashed,
	}

	t.Run("should bind a session on correct credentials", func(t *testing.T) {
		req := require.New(t)
		mockRepo := mocks.NewMockIUserRepository(ctrl)
		store := session.NewMemoryStore()
		svc := NewAuthService(mockRepo, store, nil, "", 2*time.Minute, discardLogger())

		mockRepo.EXPECT().FindByUsername("alice").Return(stored, nil).Times(1)

		user, sess, err := svc.Login(context.Background(), "alice", "Secret123456!")

		req.NoError(err)
		req.Equal(stored.ID, user.ID)
		req.NotEmpty(sess.ID)
		req.Equal(stored.ID.String(), sess.UserID)

		// The session is resolvable back to the identity.
		bound, err := store.Get(context.Background(), sess.ID)
		req.NoError(err)
		req.Equal(stored.ID.String(), bound.UserID)
	})

	t.Run("wrong password and unknown user are indistinguishable", func(t *testing.T) {
		req := require.New(t)
		mockRepo := mocks.NewMockIUserRepository(ctrl)
		store := session.NewMemoryStore()
		svc := NewAuthService(mockRepo, store, nil, "", 2*time.Minute, discardLogger())

		mockRepo.EXPECT().FindByUsername("alice").Return(stored, nil).Times(1)
		_, _, errWrongPassword := svc.Login(context.Background(), "alice", "not-the-password")

		mockRepo.EXPECT().FindByUsername("ghost").Return(domain.User{}, errors.ErrNotFound).Times(1)
		_, _, errUnknownUser := svc.Login(context.Background(), "ghost", "whatever")

		req.ErrorIs(errWrongPassword, errors.ErrInvalidCredentials)
		req.ErrorIs(errUnknownUser, errors.ErrInvalidCredentials)
		req.Equal(errWrongPassword.Error(), errUnknownUser.Error())
	})

	t.Run("no session is bound on failed login", func(t *testing.T) {
		req := require.New(t)
		mockRepo := mocks.NewMockIUserRepository(ctrl)
		store := session.NewMemoryStore()
		svc := NewAuthService(mockRepo, store, nil, "", 2*time.Minute, discardLogger())

		mockRepo.EXPECT().FindByUsername("alice").Return(stored, nil).Times(1)

		_, sess, err := svc.Login(context.Background(), "alice", "wrong")
		req.Error(err)
		req.Empty(sess.ID)
	})
}

func TestAuthService_CurrentUser_And_Logout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	hashed, err := auth.HashPassword("Secret123456!")
	require.NoError(t, err)
	stored := domain.User{ID: uuid.New(), Username: "alice", PasswordHash: hashed}

	req := require.New(t)
	mockRepo := mocks.NewMockIUserRepository(ctrl)
	store := session.NewMemoryStore()
	svc := NewAuthService(mockRepo, store, nil, "", 2*time.Minute, discardLogger())

	mockRepo.EXPECT().FindByUsername("alice").Return(stored, nil).Times(1)
	_, sess, err := svc.Login(context.Background(), "alice", "Secret123456!")
	req.NoError(err)

	mockRepo.EXPECT().FindByID(stored.ID).Return(stored, nil).Times(1)
	current, err := svc.CurrentUser(context.Background(), sess.ID)
	req.NoError(err)
	req.Equal("alice", current.Username)
	req.False(current.Admin)

	// Logout clears the binding; the session no longer resolves.
	req.NoError(svc.Logout(context.Background(), sess.ID))
	_, err = svc.CurrentUser(context.Background(), sess.ID)
	req.ErrorIs(err, errors.ErrNoSession)
}

func TestAuthService_CurrentUser_Unknown_Session(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	req := require.New(t)
	mockRepo := mocks.NewMockIUserRepository(ctrl)
	svc := NewAuthService(mockRepo, session.NewMemoryStore(), nil, "", 2*time.Minute, discardLogger())

	_, err := svc.CurrentUser(context.Background(), "missing")
	req.ErrorIs(err, errors.ErrNoSession)
}
