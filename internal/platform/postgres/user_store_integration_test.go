//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/phrazzld/taskr-api/internal/domain"
	"github.com/phrazzld/taskr-api/internal/platform/postgres"
	"github.com/phrazzld/taskr-api/internal/service/auth"
	"github.com/phrazzld/taskr-api/internal/store"
	"github.com/phrazzld/taskr-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserStore_CreateAndDuplicate(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		s := postgres.NewPostgresUserStore(tx, auth.NewBcryptHasher(bcrypt.MinCost), nil)

		original := createUser(t, tx, "sean")
		assert.NotZero(t, original.ID)

		// A second signup with the same username must fail without touching
		// the existing record. The savepoint keeps the outer transaction usable.
		testdb.MustExec(t, tx, "SAVEPOINT dup")
		dup, err := domain.NewUser("sean", "different")
		require.NoError(t, err)
		err = s.Create(ctx, dup)
		assert.ErrorIs(t, err, store.ErrUsernameExists)
		testdb.MustExec(t, tx, "ROLLBACK TO SAVEPOINT dup")

		stored, err := s.GetByUsername(ctx, "sean")
		require.NoError(t, err)
		assert.Equal(t, original.ID, stored.ID)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.HashedPassword), []byte("password")))

		// Usernames are case-sensitive.
		_, err = s.GetByUsername(ctx, "Sean")
		assert.ErrorIs(t, err, store.ErrUserNotFound)

		byID, err := s.GetByID(ctx, original.ID)
		require.NoError(t, err)
		assert.Equal(t, "sean", byID.Username)

		createUser(t, tx, "jadon")
		users, err := s.List(ctx)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(users), 2)
		for i := 1; i < len(users); i++ {
			assert.Less(t, users[i-1].ID, users[i].ID)
		}
	})
}
