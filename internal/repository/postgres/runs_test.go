package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uiparity/uiparity/internal/domain"
)

func completedRun(path string) *domain.Run {
	run := domain.NewRun(path, "http://legacy.test"+path, "http://modern.test"+path)
	run.Complete(domain.Tally{Passed: 20, Failed: 2, Skipped: 1, Errors: 0}, 5)
	return run
}

func TestRunRepository(t *testing.T) {
	testDB := SetupTestDB(t)
	defer testDB.Cleanup(t)

	db := sqlx.NewDb(testDB.DB, "postgres")
	repo := NewRunRepository(db)
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		testDB.TruncateTables(t)

		run := completedRun("/login")
		outcomes := []domain.CategoryOutcome{
			{Name: "page_title", Status: domain.StatusPassed, Duration: 20 * time.Millisecond},
			{Name: "body_text", Status: domain.StatusFailed, Message: "similarity below threshold"},
		}
		require.NoError(t, repo.Create(ctx, run, outcomes))

		got, err := repo.GetByID(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, run.ID, got.ID)
		assert.Equal(t, "/login", got.Path)
		assert.Equal(t, run.Tally, got.Tally)
		assert.True(t, got.Success)

		report, err := repo.GetReport(ctx, run.ID)
		require.NoError(t, err)
		require.Len(t, report, 2)
		assert.Equal(t, "page_title", report[0].Name)
		assert.Equal(t, domain.StatusFailed, report[1].Status)
	})

	t.Run("duplicate id rejected", func(t *testing.T) {
		testDB.TruncateTables(t)

		run := completedRun("/")
		require.NoError(t, repo.Create(ctx, run, nil))

		err := repo.Create(ctx, run, nil)
		require.Error(t, err)
		assert.True(t, domain.IsSentinelError(err, domain.ErrInvalidInputVal))
	})

	t.Run("get missing run", func(t *testing.T) {
		_, err := repo.GetByID(ctx, uuid.New())
		require.Error(t, err)
		assert.True(t, domain.IsSentinelError(err, domain.ErrNotFoundVal))
	})

	t.Run("list recent ordering", func(t *testing.T) {
		testDB.TruncateTables(t)

		older := completedRun("/a")
		older.StartedAt = time.Now().UTC().Add(-time.Hour)
		newer := completedRun("/b")

		require.NoError(t, repo.Create(ctx, older, nil))
		require.NoError(t, repo.Create(ctx, newer, nil))

		runs, err := repo.ListRecent(ctx, 10, 0)
		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, "/b", runs[0].Path)
		assert.Equal(t, "/a", runs[1].Path)

		// the offset skips past the newest run
		runs, err = repo.ListRecent(ctx, 10, 1)
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, "/a", runs[0].Path)
	})

	t.Run("list by path", func(t *testing.T) {
		testDB.TruncateTables(t)

		require.NoError(t, repo.Create(ctx, completedRun("/login"), nil))
		require.NoError(t, repo.Create(ctx, completedRun("/login"), nil))
		require.NoError(t, repo.Create(ctx, completedRun("/checkout"), nil))

		runs, err := repo.ListByPath(ctx, "/login", 10)
		require.NoError(t, err)
		assert.Len(t, runs, 2)
	})
}
