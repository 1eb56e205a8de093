package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskr-api/internal/domain"
	"github.com/phrazzld/taskr-api/internal/platform/logger"
	"github.com/phrazzld/taskr-api/internal/service/auth"
	"github.com/phrazzld/taskr-api/internal/store"
)

// dummyPassword is hashed once at construction. Logins for unknown usernames
// compare against it so both failure paths pay for a bcrypt comparison.
const dummyPassword = "taskr-dummy-password"

// UserService provides account operations.
type UserService interface {
	// Signup creates a new account. Returns store.ErrUsernameExists if the
	// username is taken and a wrapped domain.ErrValidation for bad input.
	Signup(ctx context.Context, username, password string) (*domain.User, error)

	// Authenticate verifies a username and password and returns the account.
	// Returns ErrUserNotFound or ErrIncorrectPassword on failure.
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)

	// ListUsers returns every account ordered by ID.
	ListUsers(ctx context.Context) ([]*domain.User, error)
}

// userServiceImpl implements the UserService interface
type userServiceImpl struct {
	userStore store.UserStore
	hasher    auth.PasswordHasher
	db        *sql.DB
	logger    *slog.Logger
	dummyHash string
}

// Ensure userServiceImpl implements UserService interface
var _ UserService = (*userServiceImpl)(nil)

// NewUserService creates a new UserService.
func NewUserService(
	userStore store.UserStore,
	hasher auth.PasswordHasher,
	db *sql.DB,
	logger *slog.Logger,
) (UserService, error) {
	if userStore == nil {
		return nil, errors.New("userStore cannot be nil")
	}
	if hasher == nil {
		return nil, errors.New("hasher cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	dummyHash, err := hasher.Hash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy password hash: %w", err)
	}

	return &userServiceImpl{
		userStore: userStore,
		hasher:    hasher,
		db:        db,
		logger:    logger.With(slog.String("component", "user_service")),
		dummyHash: dummyHash,
	}, nil
}

// Signup creates the user inside a transaction.
func (s *userServiceImpl) Signup(ctx context.Context, username, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(username, password)
	if err != nil {
		log.Debug("invalid signup request",
			slog.String("username", username),
			slog.String("error", err.Error()))
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.userStore.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, store.ErrUsernameExists) {
			log.Debug("attempted to create user with existing username",
				slog.String("username", username))
			return nil, err
		}
		log.Error("failed to save user to database",
			slog.String("error", err.Error()),
			slog.String("username", username))
		return nil, NewServiceError("signup", err)
	}

	log.Info("user created successfully",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username))

	return user, nil
}

// Authenticate looks the user up by username and compares the password.
func (s *userServiceImpl) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			_ = s.hasher.Compare(s.dummyHash, password)
			log.Debug("login attempt for unknown user",
				slog.String("username", username))
			return nil, ErrUserNotFound
		}
		log.Error("failed to retrieve user for login",
			slog.String("error", err.Error()),
			slog.String("username", username))
		return nil, NewServiceError("authenticate", err)
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login attempt with incorrect password",
			slog.Int64("user_id", user.ID))
		return nil, ErrIncorrectPassword
	}

	return user, nil
}

// ListUsers returns all users.
func (s *userServiceImpl) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.userStore.List(ctx)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list users",
			slog.String("error", err.Error()))
		return nil, NewServiceError("list_users", err)
	}
	return users, nil
}
