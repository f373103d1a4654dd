package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskstream/taskstream/internal/domain"
	"github.com/taskstream/taskstream/internal/testutil"
)

func TestProjectRepo_CreateAndGet(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(database)
	ctx := context.Background()

	target := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	p := testutil.NewTestProject("Platform Migration", testutil.WithTargetDate(target))
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, p.Key, got.Key)
	assert.Equal(t, p.Owner, got.Owner)
	assert.Equal(t, domain.ProjectActive, got.Status)
	require.NotNil(t, got.TargetDate)
	assert.Equal(t, target, *got.TargetDate)
}

func TestProjectRepo_GetByKey_CaseInsensitive(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(database)
	ctx := context.Background()

	p := testutil.NewTestProject("Billing", testutil.WithKey("BILL01"))
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.GetByKey(ctx, "bill01")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
}

func TestProjectRepo_GetByID_NotFound(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(database)

	_, err := repo.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "project not found")
}

func TestProjectRepo_KeyUnique(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(database)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestProject("One", testutil.WithKey("DUP01"))))
	err := repo.Create(ctx, testutil.NewTestProject("Two", testutil.WithKey("DUP01")))
	require.Error(t, err, "duplicate key should violate unique index")
}

func TestProjectRepo_List_ExcludesArchivedByDefault(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(database)
	ctx := context.Background()

	active := testutil.NewTestProject("Active")
	archived := testutil.NewTestProject("Archived")
	require.NoError(t, repo.Create(ctx, active))
	require.NoError(t, repo.Create(ctx, archived))
	require.NoError(t, repo.Archive(ctx, archived.ID))

	visible, err := repo.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, active.ID, visible[0].ID)

	all, err := repo.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestProjectRepo_ArchiveAndUnarchive(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(database)
	ctx := context.Background()

	p := testutil.NewTestProject("Cycle")
	require.NoError(t, repo.Create(ctx, p))

	require.NoError(t, repo.Archive(ctx, p.ID))
	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectArchived, got.Status)
	assert.NotNil(t, got.ArchivedAt)

	require.NoError(t, repo.Unarchive(ctx, p.ID))
	got, err = repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectActive, got.Status)
	assert.Nil(t, got.ArchivedAt)
}

func TestProjectRepo_Update(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(database)
	ctx := context.Background()

	p := testutil.NewTestProject("Rename Me")
	require.NoError(t, repo.Create(ctx, p))

	p.Name = "Renamed"
	p.Description = "Updated description"
	p.Status = domain.ProjectOnHold
	p.UpdatedAt = time.Now().UTC()
	require.NoError(t, repo.Update(ctx, p))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, "Updated description", got.Description)
	assert.Equal(t, domain.ProjectOnHold, got.Status)
}
