package solver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// normalizeStatus and Solve are not covered here: both depend on
// mip.Solution, an interface from the external go-mip module whose full
// method set can't be safely faked without the toolchain to check against
// (see DESIGN.md). The pure, checkable surface — status constants and the
// default wall clock — is covered instead; behavioral coverage of the solve
// path lives in pkg/schedule's HiGHS-tagged integration tests.

func TestDefaultWallClock(t *testing.T) {
	assert.Equal(t, 20*time.Second, DefaultWallClock)
}

func TestStatusConstantsAreDistinct(t *testing.T) {
	all := []Status{
		StatusOptimal,
		StatusFeasible,
		StatusInfeasible,
		StatusUnbounded,
		StatusTimeoutNoSolution,
	}
	seen := make(map[Status]bool, len(all))
	for _, s := range all {
		assert.False(t, seen[s], "duplicate status value %q", s)
		seen[s] = true
	}
}
