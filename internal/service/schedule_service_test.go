package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/alexanderramin/cadence/internal/scheduler"
	"github.com/alexanderramin/cadence/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleService_Check(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	svc := NewScheduleService(env.uow)
	proj, _, build, _ := env.cascadeProject(t)

	report, err := svc.Check(ctx, proj.ID)
	require.NoError(t, err)
	assert.False(t, report.Valid())
	assert.Len(t, report.Phases, 3)
	require.Len(t, report.Violations, 1)
	assert.Equal(t, []string{
		`"Build" cannot start before 2024-01-16 (FS dependency on "Design": end + 1 lag days)`,
	}, report.Violations[build.ID])
}

func TestScheduleService_Check_UnknownProject(t *testing.T) {
	env := setupEnv(t)
	svc := NewScheduleService(env.uow)

	_, err := svc.Check(context.Background(), "missing")
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestScheduleService_PlanDoesNotPersist(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	svc := NewScheduleService(env.uow)
	proj, _, build, launch := env.cascadeProject(t)

	plan, err := svc.Plan(ctx, proj.ID)
	require.NoError(t, err)
	assert.False(t, plan.Applied)
	assert.Equal(t, []string{build.ID}, plan.Violating)
	require.Len(t, plan.Changes, 2)
	assert.Equal(t, build.ID, plan.Changes[0].PhaseID)
	assert.Equal(t, launch.ID, plan.Changes[1].PhaseID)

	stored, err := env.phases.GetByID(ctx, build.ID)
	require.NoError(t, err)
	assert.Equal(t, d("2024-01-11"), stored.StartDate)
}

func TestScheduleService_FixCascades(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	svc := NewScheduleService(env.uow)
	proj, design, build, launch := env.cascadeProject(t)

	plan, err := svc.Fix(ctx, proj.ID, nil)
	require.NoError(t, err)
	assert.True(t, plan.Applied)

	got := map[string][2]string{}
	for _, id := range []string{design.ID, build.ID, launch.ID} {
		p, err := env.phases.GetByID(ctx, id)
		require.NoError(t, err)
		got[p.Name] = [2]string{domain.FormatDate(p.StartDate), domain.FormatDate(p.EndDate)}
	}
	assert.Equal(t, [2]string{"2024-01-01", "2024-01-15"}, got["Design"])
	assert.Equal(t, [2]string{"2024-01-16", "2024-01-25"}, got["Build"])
	assert.Equal(t, [2]string{"2024-01-26", "2024-02-05"}, got["Launch"])

	report, err := svc.Check(ctx, proj.ID)
	require.NoError(t, err)
	assert.True(t, report.Valid())

	// A second fix is a no-op.
	again, err := svc.Fix(ctx, proj.ID, nil)
	require.NoError(t, err)
	assert.False(t, again.Applied)
	assert.Empty(t, again.Changes)
}

func TestScheduleService_FixRollsBackOnWriteFailure(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	proj, _, build, launch := env.cascadeProject(t)

	// Exec #1 updates Build, #2 updates Launch.
	failUoW := &testutil.FailOnNthExecUoW{
		DB:     env.db,
		FailOn: 2,
		Err:    fmt.Errorf("injected update failure"),
	}
	svc := NewScheduleService(failUoW)

	_, err := svc.Fix(ctx, proj.ID, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected update failure")

	for id, start := range map[string]string{build.ID: "2024-01-11", launch.ID: "2024-01-21"} {
		p, err := env.phases.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, start, domain.FormatDate(p.StartDate), "%s should be rolled back", p.Name)
	}
}

func TestScheduleService_FixRejectsCycles(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	svc := NewScheduleService(env.uow)
	proj, design, _, launch := env.cascadeProject(t)
	// Bypass DependencyService's cycle guard to simulate a corrupted store.
	env.dep(t, launch, design)

	_, err := svc.Fix(ctx, proj.ID, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, scheduler.ErrCyclicDependency))

	_, err = svc.Plan(ctx, proj.ID)
	assert.True(t, errors.Is(err, scheduler.ErrCyclicDependency))
}

func TestScheduleService_FixObserved(t *testing.T) {
	env := setupEnv(t)
	obs := &recordingObserver{}
	svc := NewScheduleService(env.uow, obs)
	proj, _, _, _ := env.cascadeProject(t)

	_, err := svc.Fix(context.Background(), proj.ID, nil)
	require.NoError(t, err)

	require.Len(t, obs.events, 1)
	ev := obs.events[0]
	assert.Equal(t, "fix-schedule", ev.Name)
	assert.True(t, ev.Success)
	assert.Equal(t, 2, ev.Fields["changes_applied"])
	assert.Equal(t, 1, ev.Fields["violating"])
}

func TestScheduleService_FixAppliesConfirmedPlan(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	svc := NewScheduleService(env.uow)
	proj, _, build, _ := env.cascadeProject(t)

	preview, err := svc.Plan(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, preview.Changes, 2)

	plan, err := svc.Fix(ctx, proj.ID, preview.Changes)
	require.NoError(t, err)
	assert.True(t, plan.Applied)

	stored, err := env.phases.GetByID(ctx, build.ID)
	require.NoError(t, err)
	assert.Equal(t, d("2024-01-16"), stored.StartDate)
}

func TestScheduleService_FixRejectsStalePlan(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	svc := NewScheduleService(env.uow)
	proj, _, build, launch := env.cascadeProject(t)

	preview, err := svc.Plan(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, preview.Changes, 2)

	// Launch moves out of the way after the preview, so the fix now
	// only needs to touch Build.
	require.NoError(t, env.phases.UpdateDates(ctx, launch.ID, d("2024-02-10"), d("2024-02-20")))

	_, err = svc.Fix(ctx, proj.ID, preview.Changes)
	require.ErrorIs(t, err, ErrPlanChanged)
	assert.Contains(t, err.Error(), "expected 2 changes, found 1")

	stored, err := env.phases.GetByID(ctx, build.ID)
	require.NoError(t, err)
	assert.Equal(t, d("2024-01-11"), stored.StartDate)
}
