package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/taskr-api/internal/domain"
	"github.com/phrazzld/taskr-api/internal/mocks"
	"github.com/phrazzld/taskr-api/internal/service/auth"
	"github.com/phrazzld/taskr-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newMockUserStore(t *testing.T) (*PostgresUserStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewPostgresUserStore(db, auth.NewBcryptHasher(bcrypt.MinCost), nil), mock
}

func TestPostgresUserStore_Create(t *testing.T) {
	t.Run("hashes password and assigns id", func(t *testing.T) {
		s, mock := newMockUserStore(t)
		created := time.Now().UTC()

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users (username, hashed_password)")).
			WithArgs("sean", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(7, created))

		user, err := domain.NewUser("sean", "password0")
		require.NoError(t, err)

		require.NoError(t, s.Create(context.Background(), user))
		assert.Equal(t, int64(7), user.ID)
		assert.Empty(t, user.Password, "plaintext must be cleared")
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte("password0")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate username", func(t *testing.T) {
		s, mock := newMockUserStore(t)

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
			WillReturnError(&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "users_username_key"})

		user, err := domain.NewUser("sean", "password0")
		require.NoError(t, err)

		err = s.Create(context.Background(), user)
		assert.ErrorIs(t, err, store.ErrUsernameExists)
		assert.Zero(t, user.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid user", func(t *testing.T) {
		s, mock := newMockUserStore(t)

		err := s.Create(context.Background(), &domain.User{Username: "", Password: "x"})
		assert.ErrorIs(t, err, domain.ErrEmptyUsername)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresUserStore_GetByUsername(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		s, mock := newMockUserStore(t)

		mock.ExpectQuery(regexp.QuoteMeta("WHERE username = $1")).
			WithArgs("jadon").
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "hashed_password", "created_at"}).
				AddRow(2, "jadon", "$2a$04$hash", time.Now()))

		user, err := s.GetByUsername(context.Background(), "jadon")
		require.NoError(t, err)
		assert.Equal(t, int64(2), user.ID)
		assert.Equal(t, "$2a$04$hash", user.HashedPassword)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		s, mock := newMockUserStore(t)

		mock.ExpectQuery(regexp.QuoteMeta("WHERE username = $1")).
			WithArgs("nobody").
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "hashed_password", "created_at"}))

		_, err := s.GetByUsername(context.Background(), "nobody")
		assert.ErrorIs(t, err, store.ErrUserNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresUserStore_List(t *testing.T) {
	s, mock := newMockUserStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY id ASC")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "hashed_password", "created_at"}).
			AddRow(1, "sean", "h1", time.Now()).
			AddRow(2, "jadon", "h2", time.Now()))

	users, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "sean", users[0].Username)
	assert.Equal(t, "jadon", users[1].Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserStore_CreateUsesInjectedHasher(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	hasher := &mocks.MockPasswordHasher{}
	s := NewPostgresUserStore(db, hasher, nil)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users (username, hashed_password)")).
		WithArgs("craig", "hashed:password2").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(3, time.Now().UTC()))

	user, err := domain.NewUser("craig", "password2")
	require.NoError(t, err)
	require.NoError(t, s.Create(context.Background(), user))

	assert.Equal(t, "hashed:password2", user.HashedPassword)
	assert.NoError(t, hasher.Compare(user.HashedPassword, "password2"))
	assert.NoError(t, mock.ExpectationsWereMet())

	t.Run("tx-bound store keeps the hasher", func(t *testing.T) {
		mock.ExpectBegin()
		tx, err := db.Begin()
		require.NoError(t, err)

		txStore, ok := s.WithTx(tx).(*PostgresUserStore)
		require.True(t, ok)
		assert.Same(t, hasher, txStore.hasher)
	})
}

func TestPostgresUserStore_HashFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	hashErr := errors.New("hash failed")
	s := NewPostgresUserStore(db, &mocks.MockPasswordHasher{
		HashFn: func(string) (string, error) { return "", hashErr },
	}, nil)

	user, err := domain.NewUser("dani", "password9")
	require.NoError(t, err)

	assert.ErrorIs(t, s.Create(context.Background(), user), hashErr)
	assert.NoError(t, mock.ExpectationsWereMet(), "nothing is inserted when hashing fails")
}
