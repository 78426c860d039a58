// Package solver wraps the github.com/nextmv-io/go-highs MIP backend:
// running a built model under a wall-clock limit and normalizing its
// terminal status into the taxonomy spec.md §4.3 defines.
package solver

import (
	"time"

	highs "github.com/nextmv-io/go-highs"
	mip "github.com/nextmv-io/go-mip"

	"github.com/Rocamain/shifts-wizards-api/pkg/schederr"
)

// Status is the normalized terminal state of a solve.
type Status string

const (
	StatusOptimal           Status = "OPTIMAL"
	StatusFeasible          Status = "FEASIBLE"
	StatusInfeasible        Status = "INFEASIBLE"
	StatusUnbounded         Status = "UNBOUNDED"
	StatusTimeoutNoSolution Status = "TIMEOUT_NO_SOLUTION"
)

// DefaultWallClock is the 20 second limit spec.md §4.6 requires for the
// allocator facade's solve step.
const DefaultWallClock = 20 * time.Second

// Result wraps a go-mip solution together with its normalized status.
type Result struct {
	Status   Status
	Solution mip.Solution
}

// Value reads a decision variable's value from the underlying solution. It
// is only meaningful when Status is StatusOptimal or StatusFeasible.
func (r Result) Value(v mip.Var) float64 {
	return r.Solution.Value(v)
}

// Solve runs m under the HiGHS backend with a wall-clock limit, returning a
// normalized Result. It returns schederr.CodeSolverUnavailable if the
// backend cannot be instantiated, and the caller is expected to treat any
// non-optimal/feasible terminal status as schederr.CodeSolverFailed (see
// internal/extractor.Extract) — because the coverage constraint's placeholder
// variable makes true infeasibility a bug rather than a valid outcome
// (spec.md §4.3).
func Solve(m mip.Model, wallClock time.Duration) (Result, error) {
	if wallClock <= 0 {
		wallClock = DefaultWallClock
	}

	s := highs.NewSolver(m)
	if s == nil {
		return Result{}, schederr.SolverUnavailable(nil)
	}

	opts := mip.SolveOptions{}
	opts.Duration = wallClock
	opts.MIP.Gap.Relative = 0.0
	opts.Verbosity = mip.Off

	solution, err := s.Solve(opts)
	if err != nil {
		return Result{}, schederr.SolverUnavailable(err)
	}

	return Result{Status: normalizeStatus(solution), Solution: solution}, nil
}

func normalizeStatus(solution mip.Solution) Status {
	if solution == nil {
		return StatusTimeoutNoSolution
	}
	if solution.IsOptimal() {
		return StatusOptimal
	}
	if solution.IsSubOptimal() && solution.HasValues() {
		return StatusFeasible
	}
	if !solution.HasValues() {
		return StatusTimeoutNoSolution
	}
	return StatusInfeasible
}
