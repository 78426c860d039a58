//go:build highs

// Scenario tests that exercise the real HiGHS backend end to end (spec.md
// §8). Run with `go test -tags highs ./pkg/schedule/...` once go-highs's
// native library is available on the host; they are excluded from the
// default build because the backend needs a platform-specific shared
// library this module does not vendor.
package schedule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emptyWeek() [][]Shift {
	return make([][]Shift, DaysInWeek)
}

// S1 — Trivial single-shift week.
func TestScenarioTrivialSingleShift(t *testing.T) {
	shifts := emptyWeek()
	shifts[0] = []Shift{{ID: "s1", Day: 0, StartTime: "09:00", EndTime: "17:00", Candidates: []string{"a"}}}

	req := AllocationRequest{
		Shifts:       shifts,
		Employees:    []Employee{{ID: "a", ContractHours: 8}},
		RestPriority: 3,
	}

	sched, err := Allocate(context.Background(), req, Options{})
	require.NoError(t, err)
	require.Len(t, sched[0], 1)
	assert.Equal(t, "a", sched[0][0].Employee)
}

// S2 — Placeholder fallback: MIP can't afford the cap, repair picks it up.
func TestScenarioPlaceholderFallback(t *testing.T) {
	shifts := emptyWeek()
	shifts[0] = []Shift{{ID: "s1", Day: 0, StartTime: "09:00", EndTime: "17:00", Candidates: []string{"a"}}}

	req := AllocationRequest{
		Shifts:       shifts,
		Employees:    []Employee{{ID: "a", ContractHours: 0}},
		RestPriority: 3,
	}

	sched, err := Allocate(context.Background(), req, Options{})
	require.NoError(t, err)
	require.Len(t, sched[0], 1)
	assert.Equal(t, "a", sched[0][0].Employee)
}

// S3 — Rest violation blocks chain: two overnight-adjacent shifts must split
// across the two eligible employees.
func TestScenarioRestViolationSplitsAssignment(t *testing.T) {
	shifts := emptyWeek()
	shifts[0] = []Shift{{ID: "s1", Day: 0, StartTime: "20:00", EndTime: "24:00", Candidates: []string{"a", "b"}}}
	shifts[1] = []Shift{{ID: "s2", Day: 1, StartTime: "05:00", EndTime: "10:00", Candidates: []string{"a", "b"}}}

	req := AllocationRequest{
		Shifts: shifts,
		Employees: []Employee{
			{ID: "a", ContractHours: 40},
			{ID: "b", ContractHours: 40},
		},
		RestPriority: 3,
	}

	sched, err := Allocate(context.Background(), req, Options{})
	require.NoError(t, err)
	require.Len(t, sched[0], 1)
	require.Len(t, sched[1], 1)
	assert.NotEqual(t, sched[0][0].Employee, sched[1][0].Employee)
}

// S4 — Unavailability is enforced in the MIP stage but, per the source's
// documented behavior, repair reassigns the otherwise-blocked candidate
// anyway because repair does not re-check unavailability unless explicitly
// configured to (spec.md §9 Open Question 2 legacy path).
func TestScenarioUnavailabilityIsIgnoredByLegacyRepair(t *testing.T) {
	shifts := emptyWeek()
	shifts[2] = []Shift{{ID: "s1", Day: 2, StartTime: "10:00", EndTime: "14:00", Candidates: []string{"a"}}}

	req := AllocationRequest{
		Shifts: shifts,
		Employees: []Employee{
			{ID: "a", ContractHours: 40, UnavailableDates: []UnavailableWindow{
				{Day: 2, Start: "12:00", End: "13:00"},
			}},
		},
		RestPriority: 3,
	}

	honorFalse := false
	sched, err := Allocate(context.Background(), req, Options{HonorUnavailabilityInRepair: &honorFalse})
	require.NoError(t, err)
	require.Len(t, sched[2], 1)
	assert.Equal(t, "a", sched[2][0].Employee)
}

// S5 — Preference ordering: candidate rank bonus breaks an otherwise tied
// assignment in favor of the first-listed candidate.
func TestScenarioPreferenceOrderingPicksFirstCandidate(t *testing.T) {
	shifts := emptyWeek()
	shifts[0] = []Shift{{ID: "s1", Day: 0, StartTime: "09:00", EndTime: "17:00", Candidates: []string{"a", "b", "c"}}}

	req := AllocationRequest{
		Shifts: shifts,
		Employees: []Employee{
			{ID: "a", ContractHours: 40},
			{ID: "b", ContractHours: 40},
			{ID: "c", ContractHours: 40},
		},
		RestPriority: 3,
	}

	sched, err := Allocate(context.Background(), req, Options{})
	require.NoError(t, err)
	require.Len(t, sched[0], 1)
	assert.Equal(t, "a", sched[0][0].Employee)
}

// S6 — Three-day off reward: at restPriority=5, bonus_3d dominates and the
// solver clusters each employee's off-days into 3-day blocks where feasible.
func TestScenarioHighRestPriorityClustersOffDays(t *testing.T) {
	shifts := emptyWeek()
	for d := 0; d < DaysInWeek; d++ {
		shifts[d] = []Shift{{ID: "s", Day: d, StartTime: "09:00", EndTime: "17:00", Candidates: []string{"a", "b", "c"}}}
	}

	req := AllocationRequest{
		Shifts: shifts,
		Employees: []Employee{
			{ID: "a", ContractHours: 1000},
			{ID: "b", ContractHours: 1000},
			{ID: "c", ContractHours: 1000},
		},
		RestPriority: 5,
	}

	sched, err := Allocate(context.Background(), req, Options{})
	require.NoError(t, err)

	offDays := map[string]map[int]bool{"a": {}, "b": {}, "c": {}}
	for d := 0; d < DaysInWeek; d++ {
		worked := make(map[string]bool)
		for _, a := range sched[d] {
			worked[a.Employee] = true
		}
		for _, emp := range []string{"a", "b", "c"} {
			if !worked[emp] {
				offDays[emp][d] = true
			}
		}
	}

	for _, emp := range []string{"a", "b", "c"} {
		assert.NotEmpty(t, offDays[emp], "employee %s should get at least one off day under heavy off-day reward", emp)
	}
}
