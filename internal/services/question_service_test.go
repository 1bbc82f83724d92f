package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techify/backend/internal/cache"
	"github.com/techify/backend/internal/models"
	mongorepo "github.com/techify/backend/internal/repositories/mongo"
	"github.com/techify/backend/internal/utils"
)

func TestQuestionAddAndList(t *testing.T) {
	svc := NewQuestionService(&mongorepo.MockQuestionRepository{}, cache.Noop{}, testLogger())
	ctx := context.Background()

	added, err := svc.Add(ctx, models.Question{Text: "Reverse a linked list", Difficulty: models.DifficultyEasy, Tags: []string{"lists"}})
	require.NoError(t, err)
	assert.False(t, added.ID.IsZero())

	_, err = svc.Add(ctx, models.Question{Text: "Design a rate limiter", Difficulty: models.DifficultyHard})
	require.NoError(t, err)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	easy, err := svc.List(ctx, models.DifficultyEasy)
	require.NoError(t, err)
	require.Len(t, easy, 1)
	assert.Equal(t, "Reverse a linked list", easy[0].Text)
}

func TestQuestionValidation(t *testing.T) {
	svc := NewQuestionService(&mongorepo.MockQuestionRepository{}, cache.Noop{}, testLogger())
	ctx := context.Background()

	_, err := svc.Add(ctx, models.Question{Text: "  ", Difficulty: models.DifficultyEasy})
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	_, err = svc.Add(ctx, models.Question{Text: "x", Difficulty: "impossible"})
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	_, err = svc.List(ctx, "impossible")
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestQuestionUpdate(t *testing.T) {
	repo := &mongorepo.MockQuestionRepository{}
	svc := NewQuestionService(repo, cache.Noop{}, testLogger())
	ctx := context.Background()

	added, err := svc.Add(ctx, models.Question{Text: "old", Difficulty: models.DifficultyEasy})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, added.ID.Hex(), models.Question{Text: "new", Difficulty: models.DifficultyMedium})
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Text)
	assert.Equal(t, models.DifficultyMedium, updated.Difficulty)

	_, err = svc.Update(ctx, "not-a-hex-id", models.Question{Text: "x", Difficulty: models.DifficultyEasy})
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	_, err = svc.Update(ctx, "ffffffffffffffffffffffff", models.Question{Text: "x", Difficulty: models.DifficultyEasy})
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestQuestionDelete(t *testing.T) {
	repo := &mongorepo.MockQuestionRepository{}
	svc := NewQuestionService(repo, cache.Noop{}, testLogger())
	ctx := context.Background()

	added, err := svc.Add(ctx, models.Question{Text: "x", Difficulty: models.DifficultyEasy})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, added.ID.Hex()))

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, all)

	err = svc.Delete(ctx, added.ID.Hex())
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestQuestionListCaching(t *testing.T) {
	repo := &mongorepo.MockQuestionRepository{}
	c := newMemCache()
	svc := NewQuestionService(repo, c, testLogger())
	ctx := context.Background()

	_, err := svc.Add(ctx, models.Question{Text: "a", Difficulty: models.DifficultyEasy})
	require.NoError(t, err)

	first, err := svc.List(ctx, models.DifficultyEasy)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// A direct repo change stays hidden behind the cache until a write path
	// invalidates it.
	require.NoError(t, repo.Insert(ctx, &models.Question{Text: "b", Difficulty: models.DifficultyEasy}))
	cached, err := svc.List(ctx, models.DifficultyEasy)
	require.NoError(t, err)
	assert.Len(t, cached, 1)

	_, err = svc.Add(ctx, models.Question{Text: "c", Difficulty: models.DifficultyEasy})
	require.NoError(t, err)

	fresh, err := svc.List(ctx, models.DifficultyEasy)
	require.NoError(t, err)
	assert.Len(t, fresh, 3)
}
