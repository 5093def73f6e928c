package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/alexanderramin/cadence/internal/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDependencyService_Add(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	svc := NewDependencyService(env.deps, env.uow)
	proj := env.project(t, "Website")
	design := env.phase(t, proj.ID, "Design", "2024-01-01", "2024-01-10")
	build := env.phase(t, proj.ID, "Build", "2024-01-11", "2024-01-20")

	dep := &domain.Dependency{PredecessorPhaseID: design.ID, SuccessorPhaseID: build.ID}
	violations, err := svc.Add(ctx, dep)
	require.NoError(t, err)
	assert.Empty(t, violations)
	assert.Equal(t, proj.ID, dep.ProjectID)
	assert.Equal(t, domain.FinishToStart, dep.Type)

	deps, err := svc.List(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, deps, 1)
	assert.Equal(t, dep.ID, deps[0].ID)
}

func TestDependencyService_Add_ReportsNewViolations(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	svc := NewDependencyService(env.deps, env.uow)
	proj := env.project(t, "Website")
	design := env.phase(t, proj.ID, "Design", "2024-01-01", "2024-01-10")
	build := env.phase(t, proj.ID, "Build", "2024-01-11", "2024-01-20")

	violations, err := svc.Add(ctx, &domain.Dependency{
		PredecessorPhaseID: design.ID,
		SuccessorPhaseID:   build.ID,
		Type:               domain.FinishToStart,
		LagDays:            5,
	})
	require.NoError(t, err, "violating edges are still stored")
	assert.Equal(t, []string{
		`"Build" cannot start before 2024-01-15 (FS dependency on "Design": end + 5 lag days)`,
	}, violations)
}

func TestDependencyService_Add_Rejects(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	svc := NewDependencyService(env.deps, env.uow)
	proj, design, build, launch := env.cascadeProject(t)
	other := env.project(t, "Mobile")
	foreign := env.phase(t, other.ID, "Foreign", "2024-01-01", "2024-01-05")

	tests := []struct {
		name string
		dep  domain.Dependency
		want string
	}{
		{"self loop", domain.Dependency{PredecessorPhaseID: build.ID, SuccessorPhaseID: build.ID}, "cannot depend on itself"},
		{"unknown type", domain.Dependency{PredecessorPhaseID: design.ID, SuccessorPhaseID: launch.ID, Type: "XX"}, "unknown type"},
		{"cross project", domain.Dependency{PredecessorPhaseID: design.ID, SuccessorPhaseID: foreign.ID}, "different projects"},
		{"duplicate", domain.Dependency{PredecessorPhaseID: design.ID, SuccessorPhaseID: build.ID}, "already depends on"},
		{"cycle", domain.Dependency{PredecessorPhaseID: launch.ID, SuccessorPhaseID: design.ID}, "cyclic dependency"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dep := tc.dep
			_, err := svc.Add(ctx, &dep)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidDependency))
			assert.Contains(t, err.Error(), tc.want)
		})
	}

	deps, err := svc.List(ctx, proj.ID)
	require.NoError(t, err)
	assert.Len(t, deps, 2, "rejected edges are not stored")
}

func TestDependencyService_Add_CycleIsTyped(t *testing.T) {
	env := setupEnv(t)
	svc := NewDependencyService(env.deps, env.uow)
	_, design, _, launch := env.cascadeProject(t)

	_, err := svc.Add(context.Background(), &domain.Dependency{PredecessorPhaseID: launch.ID, SuccessorPhaseID: design.ID})

	var cycle *scheduler.CycleError
	require.True(t, errors.As(err, &cycle))
	assert.Equal(t, cycle.Path[0], cycle.Path[len(cycle.Path)-1])
	assert.True(t, errors.Is(err, scheduler.ErrCyclicDependency))
}

func TestDependencyService_Add_MissingPhase(t *testing.T) {
	env := setupEnv(t)
	svc := NewDependencyService(env.deps, env.uow)
	proj := env.project(t, "Website")
	design := env.phase(t, proj.ID, "Design", "2024-01-01", "2024-01-10")

	_, err := svc.Add(context.Background(), &domain.Dependency{PredecessorPhaseID: design.ID, SuccessorPhaseID: "ghost"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, repository.ErrNotFound))
	assert.Contains(t, err.Error(), "successor")
}

func TestDependencyService_Remove(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	svc := NewDependencyService(env.deps, env.uow)
	proj := env.project(t, "Website")
	design := env.phase(t, proj.ID, "Design", "2024-01-01", "2024-01-10")
	build := env.phase(t, proj.ID, "Build", "2024-01-11", "2024-01-20")
	dep := env.dep(t, design, build)

	require.NoError(t, svc.Remove(ctx, dep.ID))
	assert.True(t, errors.Is(svc.Remove(ctx, dep.ID), repository.ErrNotFound))
}

func TestDependencyService_ListForPhase(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	svc := NewDependencyService(env.deps, env.uow)
	_, design, build, launch := env.cascadeProject(t)

	edges, err := svc.ListForPhase(ctx, build.ID)
	require.NoError(t, err)
	assert.Equal(t, "Build", edges.Phase.Name)
	require.Len(t, edges.Predecessors, 1)
	assert.Equal(t, design.ID, edges.Predecessors[0].PredecessorPhaseID)
	require.Len(t, edges.Successors, 1)
	assert.Equal(t, launch.ID, edges.Successors[0].SuccessorPhaseID)

	edges, err = svc.ListForPhase(ctx, design.ID)
	require.NoError(t, err)
	assert.Empty(t, edges.Predecessors)
	assert.Len(t, edges.Successors, 1)

	_, err = svc.ListForPhase(ctx, "missing")
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}
