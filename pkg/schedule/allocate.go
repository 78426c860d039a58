package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Rocamain/shifts-wizards-api/internal/extractor"
	"github.com/Rocamain/shifts-wizards-api/internal/modelbuilder"
	"github.com/Rocamain/shifts-wizards-api/internal/repair"
	"github.com/Rocamain/shifts-wizards-api/internal/solver"
	"github.com/Rocamain/shifts-wizards-api/pkg/logger"
	"github.com/Rocamain/shifts-wizards-api/pkg/schederr"
)

// Options configures a single Allocate call.
type Options struct {
	// WallClock bounds the MIP solve step. Zero selects the 20s default
	// from spec.md §4.6.
	WallClock time.Duration

	// HonorUnavailabilityInRepair resolves spec.md §9 Open Question 2. A nil
	// value selects the default (true — honor unavailability); set it
	// explicitly to reproduce the source's legacy behavior of only
	// enforcing rest during repair.
	HonorUnavailabilityInRepair *bool

	// RequestID scopes log lines to one allocation; a uuid is generated
	// when empty.
	RequestID string
}

// DefaultOptions returns the Options Allocate uses when none are supplied.
func DefaultOptions() Options {
	honor := true
	return Options{
		WallClock:                   solver.DefaultWallClock,
		HonorUnavailabilityInRepair: &honor,
	}
}

// minRestPriority and maxRestPriority bound the valid restPriority range
// (spec.md §3, §4.6).
const (
	minRestPriority = 1
	maxRestPriority = 5
)

// Allocate runs the full C2→C3→C4→C5 pipeline (spec.md §4.6) and returns a
// fully populated WeeklySchedule, or one of the pkg/schederr taxonomy
// errors.
// ctx is accepted for forward compatibility and cancellation at the call
// boundary; the solve step is the only suspension point (spec.md §5) and
// go-mip's Solve does not yet accept a context.
func Allocate(_ context.Context, req AllocationRequest, opts Options) (WeeklySchedule, error) {
	opts = mergeDefaults(opts)
	if opts.RequestID == "" {
		opts.RequestID = uuid.NewString()
	}

	if req.RestPriority < minRestPriority || req.RestPriority > maxRestPriority {
		return nil, schederr.BadRequest("restPriority must be between 1 and 5")
	}

	log := logger.NewAllocationLogger(opts.RequestID)
	start := time.Now()
	log.Start(countShifts(req.Shifts), len(req.Employees), req.RestPriority)

	model, err := modelbuilder.Build(req)
	if err != nil {
		return nil, err
	}

	mipStart := time.Now()
	result, err := solver.Solve(model.M, opts.WallClock)
	if err != nil {
		return nil, err
	}

	mipSchedule, err := extractor.Extract(model, result)
	if err != nil {
		return nil, err
	}
	log.MIPStage(string(result.Status), time.Since(mipStart), countUnassigned(mipSchedule))

	repaired, err := repair.Run(req, mipSchedule, *opts.HonorUnavailabilityInRepair, log)
	if err != nil {
		return nil, err
	}

	log.Done(time.Since(start), countUnassigned(repaired))

	return repaired, nil
}

func mergeDefaults(opts Options) Options {
	defaults := DefaultOptions()
	if opts.WallClock == 0 {
		opts.WallClock = defaults.WallClock
	}
	if opts.HonorUnavailabilityInRepair == nil {
		opts.HonorUnavailabilityInRepair = defaults.HonorUnavailabilityInRepair
	}
	return opts
}

func countShifts(shifts [][]Shift) int {
	n := 0
	for _, day := range shifts {
		n += len(day)
	}
	return n
}

func countUnassigned(sched WeeklySchedule) int {
	n := 0
	for _, day := range sched {
		for _, a := range day {
			if a.Employee == UnassignedEmployeeID {
				n++
			}
		}
	}
	return n
}
