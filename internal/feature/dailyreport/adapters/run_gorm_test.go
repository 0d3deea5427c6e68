package adapters

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"fox_trade/internal/feature/dailyreport/domain/entity"
	"fox_trade/internal/feature/dailyreport/usecase"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	// :memory: はコネクション毎に別DBになるため1本に固定
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&RunModel{})
	require.NoError(t, err, "failed to migrate table")

	return db
}

func newRun(id string, started time.Time) entity.Run {
	return entity.Run{
		ID:        id,
		Symbol:    "002707",
		AsOfDate:  "20230829",
		Status:    entity.RunStatusRunning,
		StartedAt: started,
	}
}

func TestNewRunRepository(t *testing.T) {
	db := setupTestDB(t)

	repo := NewRunRepository(db)

	assert.NotNil(t, repo, "repository is nil")
	assert.NotNil(t, repo.db, "database connection is nil")
}

func TestRunGorm_CreateAndFind(t *testing.T) {
	t.Parallel()
	repo := NewRunRepository(setupTestDB(t))
	ctx := context.Background()
	started := time.Date(2023, 8, 29, 8, 0, 0, 0, time.UTC)

	run := newRun("run-1", started)
	require.NoError(t, repo.Create(ctx, &run))

	got, err := repo.FindByID(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "002707", got.Symbol)
	assert.Equal(t, "20230829", got.AsOfDate)
	assert.Equal(t, entity.RunStatusRunning, got.Status)
	assert.True(t, started.Equal(got.StartedAt))
	assert.Nil(t, got.FinishedAt)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, usecase.ErrRunNotFound)
}

func TestRunGorm_Update(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		seed    bool
		wantErr error
	}{
		{name: "success: terminal state is written", seed: true},
		{name: "error: unknown run", seed: false, wantErr: usecase.ErrRunNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo := NewRunRepository(setupTestDB(t))
			ctx := context.Background()
			started := time.Date(2023, 8, 29, 8, 0, 0, 0, time.UTC)
			run := newRun("run-1", started)
			if tt.seed {
				require.NoError(t, repo.Create(ctx, &run))
			}

			finished := started.Add(time.Minute)
			run.Status = entity.RunStatusFailed
			run.Attempts = 3
			run.Error = "extract: eastmoney http 503"
			run.FinishedAt = &finished
			err := repo.Update(ctx, &run)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			got, err := repo.FindByID(ctx, "run-1")
			require.NoError(t, err)
			assert.Equal(t, entity.RunStatusFailed, got.Status)
			assert.Equal(t, 3, got.Attempts)
			assert.Equal(t, "extract: eastmoney http 503", got.Error)
			require.NotNil(t, got.FinishedAt)
			assert.True(t, finished.Equal(*got.FinishedAt))
		})
	}
}

func TestRunGorm_ListRecent(t *testing.T) {
	t.Parallel()
	repo := NewRunRepository(setupTestDB(t))
	ctx := context.Background()
	base := time.Date(2023, 8, 29, 8, 0, 0, 0, time.UTC)

	for i := range 3 {
		run := newRun(fmt.Sprintf("run-%d", i), base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, repo.Create(ctx, &run))
	}

	got, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "run-2", got[0].ID)
	assert.Equal(t, "run-1", got[1].ID)

	all, err := repo.ListRecent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
