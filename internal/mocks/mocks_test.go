package mocks_test

import (
	"context"
	"testing"

	"github.com/phrazzld/taskr-api/internal/domain"
	"github.com/phrazzld/taskr-api/internal/generation"
	"github.com/phrazzld/taskr-api/internal/mocks"
	"github.com/phrazzld/taskr-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockUserStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	hasher := &mocks.MockPasswordHasher{}
	userStore := mocks.NewMockUserStore()
	userStore.HashFn = hasher.Hash

	first := &domain.User{Username: "sean", Password: "password0"}
	require.NoError(t, userStore.Create(ctx, first))
	assert.Equal(t, int64(1), first.ID)
	assert.Empty(t, first.Password)
	assert.NoError(t, hasher.Compare(first.HashedPassword, "password0"))

	err := userStore.Create(ctx, &domain.User{Username: "sean", Password: "other"})
	assert.ErrorIs(t, err, store.ErrUsernameExists)

	second := &domain.User{Username: "jadon", Password: "password1"}
	require.NoError(t, userStore.Create(ctx, second))

	users, err := userStore.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "sean", users[0].Username)
	assert.Equal(t, "jadon", users[1].Username)

	found, err := userStore.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "jadon", found.Username)

	_, err = userStore.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestMockSuggester(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	suggester := &mocks.MockSuggester{
		Recommendation: &generation.FieldRecommendation{Severity: "HIGH", Priority: "LOW"},
		Suggestion:     "Write the release notes",
	}

	rec, err := suggester.RecommendFields(ctx, "title", "description")
	require.NoError(t, err)
	assert.Equal(t, "HIGH", rec.Severity)

	recent := []*domain.Task{{Title: "a"}}
	desc, err := suggester.SuggestNextTask(ctx, recent)
	require.NoError(t, err)
	assert.Equal(t, "Write the release notes", desc)
	assert.Equal(t, 1, suggester.RecommendCalls)
	assert.Equal(t, 1, suggester.SuggestCalls)
	assert.Equal(t, recent, suggester.LastRecentContext)

	failing := mocks.NewMockSuggesterWithError(generation.ErrContentBlocked)
	_, err = failing.RecommendFields(ctx, "t", "d")
	assert.ErrorIs(t, err, generation.ErrContentBlocked)
}
