package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/alexanderramin/cadence/internal/testutil"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	db       *sql.DB
	uow      db.UnitOfWork
	projects *repository.SQLiteProjectRepo
	phases   *repository.SQLitePhaseRepo
	deps     *repository.SQLiteDependencyRepo
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	return &testEnv{
		db:       database,
		uow:      testutil.NewTestUoW(database),
		projects: repository.NewSQLiteProjectRepo(database),
		phases:   repository.NewSQLitePhaseRepo(database),
		deps:     repository.NewSQLiteDependencyRepo(database),
	}
}

func (e *testEnv) project(t *testing.T, name string) *domain.Project {
	t.Helper()
	p := testutil.NewTestProject(name)
	require.NoError(t, e.projects.Create(context.Background(), p))
	return p
}

func (e *testEnv) phase(t *testing.T, projectID, name, start, end string) *domain.Phase {
	t.Helper()
	p := testutil.NewTestPhase(projectID, name, start, end)
	require.NoError(t, e.phases.Create(context.Background(), p))
	return p
}

func (e *testEnv) dep(t *testing.T, pred, succ *domain.Phase, opts ...testutil.DependencyOption) *domain.Dependency {
	t.Helper()
	d := testutil.NewTestDependency(pred, succ, opts...)
	require.NoError(t, e.deps.Create(context.Background(), d))
	return d
}

// cascadeProject seeds Design -> Build -> Launch (FS, lag 0) where Design
// already overruns into Build.
func (e *testEnv) cascadeProject(t *testing.T) (*domain.Project, *domain.Phase, *domain.Phase, *domain.Phase) {
	t.Helper()
	proj := e.project(t, "Website")
	design := e.phase(t, proj.ID, "Design", "2024-01-01", "2024-01-15")
	build := e.phase(t, proj.ID, "Build", "2024-01-11", "2024-01-20")
	launch := e.phase(t, proj.ID, "Launch", "2024-01-21", "2024-01-31")
	e.dep(t, design, build)
	e.dep(t, build, launch)
	return proj, design, build, launch
}
