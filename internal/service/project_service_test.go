package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/alexanderramin/cadence/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectService_Create_ValidShortID(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	svc := NewProjectService(env.projects)

	proj := &domain.Project{Name: "Website Relaunch", ShortID: "web01"}
	require.NoError(t, svc.Create(ctx, proj))
	assert.NotEmpty(t, proj.ID, "UUID should be generated")
	assert.Equal(t, "WEB01", proj.ShortID, "short ID is upper-cased")
	assert.Equal(t, domain.ProjectActive, proj.Status, "status should default to active")

	fetched, err := svc.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, "Website Relaunch", fetched.Name)
}

func TestProjectService_Create_InvalidShortID(t *testing.T) {
	env := setupEnv(t)
	svc := NewProjectService(env.projects)

	tests := []struct {
		name    string
		shortID string
	}{
		{"empty", ""},
		{"no digits", "PHILO"},
		{"too short letters", "PH01"},
		{"too long letters", "PHILOSO01"},
		{"only digits", "12345"},
		{"special chars", "PH!01"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.Create(context.Background(), &domain.Project{Name: "Test", ShortID: tc.shortID})
			assert.Error(t, err, "short ID %q should be rejected", tc.shortID)
		})
	}
}

func TestProjectService_Create_RequiresName(t *testing.T) {
	env := setupEnv(t)
	svc := NewProjectService(env.projects)

	err := svc.Create(context.Background(), &domain.Project{ShortID: "WEB01", Name: "  "})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}

func TestProjectService_Resolve(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	svc := NewProjectService(env.projects)

	proj := testutil.NewTestProject("Website", testutil.WithShortID("WEB01"))
	proj.ID = "aaaa1111-0000-0000-0000-000000000000"
	other := testutil.NewTestProject("Mobile", testutil.WithShortID("MOB01"))
	other.ID = "aaaa2222-0000-0000-0000-000000000000"
	require.NoError(t, env.projects.Create(ctx, proj))
	require.NoError(t, env.projects.Create(ctx, other))

	for _, ref := range []string{"web01", "WEB01", proj.ID, "aaaa1"} {
		got, err := svc.Resolve(ctx, ref)
		require.NoError(t, err, ref)
		assert.Equal(t, proj.ID, got.ID, ref)
	}

	_, err := svc.Resolve(ctx, "aaaa")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous")

	_, err = svc.Resolve(ctx, "zzz")
	require.Error(t, err)
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestProjectService_Delete_RequiresArchiveFirst(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	svc := NewProjectService(env.projects)

	proj := env.project(t, "Active Project")

	err := svc.Delete(ctx, proj.ID, false)
	require.Error(t, err, "should require archive before delete")
	assert.Contains(t, err.Error(), "archived before deletion")

	require.NoError(t, svc.Archive(ctx, proj.ID))
	require.NoError(t, svc.Delete(ctx, proj.ID, false))

	_, err = svc.GetByID(ctx, proj.ID)
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestProjectService_Delete_ForceCascadesPhases(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	svc := NewProjectService(env.projects)

	proj, _, _, _ := env.cascadeProject(t)

	require.NoError(t, svc.Delete(ctx, proj.ID, true))

	phases, err := env.phases.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	assert.Empty(t, phases)
	deps, err := env.deps.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	assert.Empty(t, deps)
}

// listCountingProjectRepo records how often Resolve falls back to a scan.
type listCountingProjectRepo struct {
	repository.ProjectRepo
	lists int
}

func (r *listCountingProjectRepo) List(ctx context.Context, includeArchived bool) ([]*domain.Project, error) {
	r.lists++
	return r.ProjectRepo.List(ctx, includeArchived)
}

func TestProjectService_Resolve_ShortIDSkipsScan(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	repo := &listCountingProjectRepo{ProjectRepo: env.projects}
	svc := NewProjectService(repo)

	proj := testutil.NewTestProject("Website", testutil.WithShortID("WEB01"))
	require.NoError(t, env.projects.Create(ctx, proj))

	got, err := svc.Resolve(ctx, "web01")
	require.NoError(t, err)
	assert.Equal(t, proj.ID, got.ID)
	assert.Zero(t, repo.lists)

	got, err = svc.Resolve(ctx, proj.ID[:8])
	require.NoError(t, err)
	assert.Equal(t, proj.ID, got.ID)
	assert.Equal(t, 1, repo.lists)
}
