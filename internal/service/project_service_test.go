package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskstream/taskstream/internal/domain"
	"github.com/taskstream/taskstream/internal/testutil"
)

func TestProjectService_Create(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	svc := NewProjectService(env.projects, env.uow)

	p := &domain.Project{Key: "TS01", Name: "TaskStream rollout", Owner: "alice"}
	require.NoError(t, svc.Create(ctx, p))

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, domain.ProjectActive, p.Status)
	assert.False(t, p.StartDate.IsZero())

	fetched, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "TaskStream rollout", fetched.Name)

	feed, err := env.activity.ListByProject(ctx, p.ID, 10)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, domain.ActivityProjectCreated, feed[0].Type)
}

func TestProjectService_Create_InvalidKey(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	svc := NewProjectService(env.projects, env.uow)

	tests := []struct {
		name string
		key  string
	}{
		{"empty", ""},
		{"lowercase", "ts01"},
		{"too short", "T"},
		{"too many digits", "TS12345"},
		{"special chars", "TS-1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.Create(ctx, &domain.Project{Key: tc.key, Name: "Test"})
			require.Error(t, err)
		})
	}
}

func TestProjectService_GetByKey(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	svc := NewProjectService(env.projects, env.uow)
	require.NoError(t, svc.Create(ctx, &domain.Project{Key: "INFRA", Name: "Infra work"}))

	p, err := svc.GetByKey(ctx, "INFRA")
	require.NoError(t, err)
	assert.Equal(t, "Infra work", p.Name)
}

func TestProjectService_Update_RecordsActivity(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	svc := NewProjectService(env.projects, env.uow)
	p := &domain.Project{Key: "TS02", Name: "Before"}
	require.NoError(t, svc.Create(ctx, p))

	p.Name = "After"
	require.NoError(t, svc.Update(ctx, p))

	fetched, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "After", fetched.Name)

	feed, err := env.activity.ListByProject(ctx, p.ID, 10)
	require.NoError(t, err)
	require.Len(t, feed, 2)
}

func TestProjectService_Delete_RequiresArchive(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	svc := NewProjectService(env.projects, env.uow)
	p := &domain.Project{Key: "TS03", Name: "Live project"}
	require.NoError(t, svc.Create(ctx, p))

	err := svc.Delete(ctx, p.ID, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "archived before deletion")

	require.NoError(t, svc.Archive(ctx, p.ID))
	require.NoError(t, svc.Delete(ctx, p.ID, false))

	_, err = svc.GetByID(ctx, p.ID)
	require.Error(t, err)
}

func TestProjectService_Delete_Force(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	svc := NewProjectService(env.projects, env.uow)
	p := &domain.Project{Key: "TS04", Name: "Doomed"}
	require.NoError(t, svc.Create(ctx, p))

	require.NoError(t, svc.Delete(ctx, p.ID, true))

	_, err := svc.GetByID(ctx, p.ID)
	require.Error(t, err)
}

func TestProjectService_List_ExcludesArchivedByDefault(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	svc := NewProjectService(env.projects, env.uow)

	live := testutil.NewTestProject("Live")
	archived := testutil.NewTestProject("Old")
	require.NoError(t, svc.Create(ctx, live))
	require.NoError(t, svc.Create(ctx, archived))
	require.NoError(t, svc.Archive(ctx, archived.ID))

	visible, err := svc.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, live.ID, visible[0].ID)

	all, err := svc.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
