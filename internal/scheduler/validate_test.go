package scheduler

import (
	"math/rand"
	"testing"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveLag(t *testing.T) {
	assert.Equal(t, 1, EffectiveLag(mkDep("A", "B", domain.FinishToStart, 0)))
	assert.Equal(t, 1, EffectiveLag(mkDep("A", "B", domain.FinishToStart, -4)))
	assert.Equal(t, 5, EffectiveLag(mkDep("A", "B", domain.FinishToStart, 5)))
	assert.Equal(t, 0, EffectiveLag(mkDep("A", "B", domain.StartToStart, 0)))
	assert.Equal(t, -2, EffectiveLag(mkDep("A", "B", domain.FinishToFinish, -2)))
}

func TestValidate_FSMinimumGap(t *testing.T) {
	phases := []domain.Phase{
		mkPhase("A", "2024-01-01", "2024-01-10"),
		mkPhase("B", "2024-01-15", "2024-01-20"),
	}
	deps := []domain.Dependency{mkDep("A", "B", domain.FinishToStart, 0)}

	errs := Validate("B", d("2024-01-10"), d("2024-01-20"), phases, deps)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], `"B" cannot start before 2024-01-11`)
	assert.Contains(t, errs[0], `FS dependency on "A"`)

	assert.Empty(t, Validate("B", d("2024-01-11"), d("2024-01-20"), phases, deps))
}

func TestValidate_SSWithLag(t *testing.T) {
	phases := []domain.Phase{
		mkPhase("A", "2024-02-01", "2024-02-10"),
		mkPhase("B", "2024-02-05", "2024-02-15"),
	}
	deps := []domain.Dependency{mkDep("A", "B", domain.StartToStart, 3)}

	errs := Validate("B", d("2024-02-03"), d("2024-02-15"), phases, deps)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "start + 3 lag days")
	assert.Contains(t, errs[0], "2024-02-04")

	assert.Empty(t, Validate("B", d("2024-02-04"), d("2024-02-15"), phases, deps))
}

func TestValidate_FFWithLag(t *testing.T) {
	phases := []domain.Phase{
		mkPhase("A", "2024-01-01", "2024-01-10"),
		mkPhase("B", "2024-01-05", "2024-01-20"),
	}
	deps := []domain.Dependency{mkDep("A", "B", domain.FinishToFinish, 2)}

	errs := Validate("B", d("2024-01-05"), d("2024-01-11"), phases, deps)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], `"B" cannot finish before 2024-01-12`)
	assert.Contains(t, errs[0], "end + 2 lag days")

	assert.Empty(t, Validate("B", d("2024-01-05"), d("2024-01-12"), phases, deps))
}

func TestValidate_SF(t *testing.T) {
	phases := []domain.Phase{
		mkPhase("A", "2024-01-01", "2024-01-10"),
		mkPhase("B", "2024-01-02", "2024-01-20"),
	}
	deps := []domain.Dependency{mkDep("A", "B", domain.StartToFinish, 5)}

	errs := Validate("B", d("2024-01-02"), d("2024-01-05"), phases, deps)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "cannot finish before 2024-01-06")

	assert.Empty(t, Validate("B", d("2024-01-02"), d("2024-01-06"), phases, deps))
}

func TestValidate_NegativeLagAllowsOverlap(t *testing.T) {
	phases := []domain.Phase{
		mkPhase("A", "2024-01-10", "2024-01-20"),
		mkPhase("B", "2024-01-15", "2024-01-25"),
	}
	deps := []domain.Dependency{mkDep("A", "B", domain.StartToStart, -3)}

	assert.Empty(t, Validate("B", d("2024-01-07"), d("2024-01-12"), phases, deps))
	assert.Len(t, Validate("B", d("2024-01-06"), d("2024-01-12"), phases, deps), 1)
}

func TestValidate_FSNegativeLagStillNeedsOneDay(t *testing.T) {
	phases := []domain.Phase{
		mkPhase("A", "2024-01-01", "2024-01-10"),
		mkPhase("B", "2024-01-11", "2024-01-20"),
	}
	deps := []domain.Dependency{mkDep("A", "B", domain.FinishToStart, -2)}

	assert.Len(t, Validate("B", d("2024-01-09"), d("2024-01-20"), phases, deps), 1)
	assert.Empty(t, Validate("B", d("2024-01-11"), d("2024-01-20"), phases, deps))
}

func TestValidate_EndNotAfterStart(t *testing.T) {
	phases := []domain.Phase{mkPhase("A", "2024-01-01", "2024-01-10")}

	errs := Validate("A", d("2024-01-05"), d("2024-01-05"), phases, nil)
	assert.Equal(t, []string{MsgEndBeforeStart}, errs)

	errs = Validate("A", d("2024-01-05"), d("2024-01-02"), phases, nil)
	assert.Equal(t, []string{MsgEndBeforeStart}, errs)
}

func TestValidate_AccumulatesAllMessages(t *testing.T) {
	phases := []domain.Phase{
		mkPhase("A", "2024-01-01", "2024-01-10"),
		mkPhase("C", "2024-01-01", "2024-01-12"),
		mkPhase("B", "2024-01-15", "2024-01-20"),
	}
	deps := []domain.Dependency{
		mkDep("A", "B", domain.FinishToStart, 0),
		mkDep("C", "B", domain.FinishToFinish, 0),
	}

	errs := Validate("B", d("2024-01-05"), d("2024-01-04"), phases, deps)
	require.Len(t, errs, 3)
	assert.Equal(t, MsgEndBeforeStart, errs[0])
	assert.Contains(t, errs[1], `on "A"`)
	assert.Contains(t, errs[2], `on "C"`)
}

func TestValidate_UnknownPhase(t *testing.T) {
	phases := []domain.Phase{mkPhase("A", "2024-01-01", "2024-01-10")}
	assert.Empty(t, Validate("missing", d("2024-01-05"), d("2024-01-01"), phases, nil))
}

func TestValidate_SkipsEdgesWithMissingEndpoint(t *testing.T) {
	phases := []domain.Phase{mkPhase("B", "2024-01-01", "2024-01-10")}
	deps := []domain.Dependency{
		mkDep("ghost", "B", domain.FinishToStart, 0),
		mkDep("B", "ghost", domain.FinishToStart, 0),
	}
	assert.Empty(t, Validate("B", d("2024-01-01"), d("2024-01-10"), phases, deps))
}

func TestValidate_SuccessorConstraints(t *testing.T) {
	phases := []domain.Phase{
		mkPhase("A", "2024-01-01", "2024-01-10"),
		mkPhase("B", "2024-01-11", "2024-01-20"),
	}

	t.Run("FS", func(t *testing.T) {
		deps := []domain.Dependency{mkDep("A", "B", domain.FinishToStart, 0)}
		errs := Validate("A", d("2024-01-01"), d("2024-01-11"), phases, deps)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0], `"A" cannot finish after 2024-01-10`)
		assert.Contains(t, errs[0], `FS dependency to "B": start - 1 lag days`)
		assert.Empty(t, Validate("A", d("2024-01-01"), d("2024-01-10"), phases, deps))
	})

	t.Run("SS", func(t *testing.T) {
		deps := []domain.Dependency{mkDep("A", "B", domain.StartToStart, 3)}
		errs := Validate("A", d("2024-01-09"), d("2024-01-10"), phases, deps)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0], `"A" cannot start after 2024-01-08`)
	})

	t.Run("FF", func(t *testing.T) {
		deps := []domain.Dependency{mkDep("A", "B", domain.FinishToFinish, 0)}
		assert.Empty(t, Validate("A", d("2024-01-01"), d("2024-01-20"), phases, deps))
		assert.Len(t, Validate("A", d("2024-01-01"), d("2024-01-21"), phases, deps), 1)
	})

	t.Run("SF", func(t *testing.T) {
		deps := []domain.Dependency{mkDep("A", "B", domain.StartToFinish, 2)}
		assert.Empty(t, Validate("A", d("2024-01-18"), d("2024-01-25"), phases, deps))
		errs := Validate("A", d("2024-01-19"), d("2024-01-25"), phases, deps)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0], "cannot start after 2024-01-18")
	})
}

// TestValidate_NoDependenciesAlwaysValid checks that with no edges only the
// ordering rule applies.
func TestValidate_NoDependenciesAlwaysValid(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	phases := []domain.Phase{
		mkPhase("A", "2024-01-01", "2024-01-10"),
		mkPhase("B", "2024-03-01", "2024-03-10"),
	}
	base := d("2023-06-01")
	for trial := 0; trial < 200; trial++ {
		start := domain.AddDays(base, rng.Intn(900))
		end := domain.AddDays(start, rng.Intn(120)+1)
		assert.Empty(t, Validate("A", start, end, phases, nil), "trial %d", trial)
	}
}

func TestViolations(t *testing.T) {
	phases := []domain.Phase{
		mkPhase("A", "2024-01-01", "2024-01-15"),
		mkPhase("B", "2024-01-11", "2024-01-20"),
		mkPhase("C", "2024-01-21", "2024-01-31"),
		mkPhase("D", "2024-02-05", "2024-02-05"),
	}
	deps := []domain.Dependency{
		mkDep("A", "B", domain.FinishToStart, 0),
		mkDep("B", "C", domain.FinishToStart, 0),
	}

	v := Violations(phases, deps)
	require.Len(t, v, 2)
	assert.Contains(t, v["B"][0], "cannot start before 2024-01-16")
	assert.Equal(t, []string{MsgEndBeforeStart}, v["D"])
	assert.NotContains(t, v, "A", "violations are attributed to the successor only")
	assert.Equal(t, []string{"B", "D"}, ViolatingIDs(v))
}
