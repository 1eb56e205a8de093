package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/phrazzld/taskr-api/internal/domain"
	"github.com/phrazzld/taskr-api/internal/mocks"
	"github.com/phrazzld/taskr-api/internal/service"
	"github.com/phrazzld/taskr-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T) (service.UserService, *mocks.MockUserStore, *mocks.MockPasswordHasher, *sqlmockExpect) {
	t.Helper()
	db, mock := newMockDB(t)
	hasher := &mocks.MockPasswordHasher{}
	userStore := mocks.NewMockUserStore()
	userStore.HashFn = hasher.Hash

	svc, err := service.NewUserService(userStore, hasher, db, quietLogger())
	require.NoError(t, err)
	return svc, userStore, hasher, &sqlmockExpect{mock: mock}
}

func TestNewUserService_Validation(t *testing.T) {
	t.Parallel()

	_, err := service.NewUserService(nil, &mocks.MockPasswordHasher{}, nil, nil)
	assert.Error(t, err)

	_, err = service.NewUserService(mocks.NewMockUserStore(), nil, nil, nil)
	assert.Error(t, err)

	_, err = service.NewUserService(mocks.NewMockUserStore(), &mocks.MockPasswordHasher{
		HashFn: func(string) (string, error) { return "", errors.New("boom") },
	}, nil, nil)
	assert.Error(t, err)
}

func TestUserService_Signup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc, userStore, _, tx := newUserService(t)
		tx.commit()

		user, err := svc.Signup(ctx, "sean", "password0")
		require.NoError(t, err)
		assert.Equal(t, int64(1), user.ID)
		assert.Equal(t, "sean", user.Username)
		assert.Empty(t, user.Password)
		assert.Equal(t, 1, userStore.WithTxCalls)
		tx.verify(t)
	})

	t.Run("duplicate username leaves original untouched", func(t *testing.T) {
		svc, userStore, hasher, tx := newUserService(t)
		tx.commit()
		tx.rollback()

		original, err := svc.Signup(ctx, "sean", "password0")
		require.NoError(t, err)

		_, err = svc.Signup(ctx, "sean", "different")
		assert.ErrorIs(t, err, store.ErrUsernameExists)

		stored, err := userStore.GetByUsername(ctx, "sean")
		require.NoError(t, err)
		assert.Equal(t, original.ID, stored.ID)
		assert.NoError(t, hasher.Compare(stored.HashedPassword, "password0"))
		tx.verify(t)
	})

	t.Run("invalid input never reaches the store", func(t *testing.T) {
		svc, userStore, _, tx := newUserService(t)

		_, err := svc.Signup(ctx, "", "password0")
		assert.ErrorIs(t, err, domain.ErrValidation)

		_, err = svc.Signup(ctx, "sean", "")
		assert.ErrorIs(t, err, domain.ErrValidation)

		assert.Equal(t, 0, userStore.WithTxCalls)
		tx.verify(t)
	})

	t.Run("store failure is wrapped", func(t *testing.T) {
		svc, userStore, _, tx := newUserService(t)
		tx.rollback()
		dbErr := errors.New("connection reset")
		userStore.CreateFn = func(context.Context, *domain.User) error { return dbErr }

		_, err := svc.Signup(ctx, "sean", "password0")
		assert.ErrorIs(t, err, dbErr)
		var svcErr *service.ServiceError
		assert.ErrorAs(t, err, &svcErr)
		assert.Equal(t, "signup", svcErr.Operation)
		tx.verify(t)
	})
}

func TestUserService_Authenticate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, _, hasher, tx := newUserService(t)
	tx.commit()
	created, err := svc.Signup(ctx, "jadon", "password1")
	require.NoError(t, err)

	t.Run("correct password", func(t *testing.T) {
		user, err := svc.Authenticate(ctx, "jadon", "password1")
		require.NoError(t, err)
		assert.Equal(t, created.ID, user.ID)
	})

	t.Run("incorrect password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "jadon", "password0")
		assert.ErrorIs(t, err, service.ErrIncorrectPassword)
	})

	t.Run("unknown user still compares a hash", func(t *testing.T) {
		before := hasher.CompareCalls()
		_, err := svc.Authenticate(ctx, "nobody", "password1")
		assert.ErrorIs(t, err, service.ErrUserNotFound)
		assert.Equal(t, before+1, hasher.CompareCalls())
	})

	t.Run("usernames are case sensitive", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "JADON", "password1")
		assert.ErrorIs(t, err, service.ErrUserNotFound)
	})
}

func TestUserService_ListUsers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, userStore, _, tx := newUserService(t)
	tx.commit()
	tx.commit()
	_, err := svc.Signup(ctx, "sean", "password0")
	require.NoError(t, err)
	_, err = svc.Signup(ctx, "jadon", "password1")
	require.NoError(t, err)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "sean", users[0].Username)

	userStore.ListFn = func(context.Context) ([]*domain.User, error) {
		return nil, errors.New("db down")
	}
	_, err = svc.ListUsers(ctx)
	assert.Error(t, err)
}
