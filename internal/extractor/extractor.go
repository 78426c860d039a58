// Package extractor turns a solved MIP model into a per-day list of
// AssignedShift records (spec.md §4.4), marking uncovered shifts as
// "unassigned" and preserving the input order of shifts within each day.
package extractor

import (
	"github.com/Rocamain/shifts-wizards-api/internal/modelbuilder"
	"github.com/Rocamain/shifts-wizards-api/internal/solver"
	"github.com/Rocamain/shifts-wizards-api/pkg/schederr"
	"github.com/Rocamain/shifts-wizards-api/pkg/schedule"
)

// valueThreshold is the cutoff above which a {0,1} decision variable is
// treated as selected; matches the teacher's own >0.5 convention.
const valueThreshold = 0.5

// Extract reads the solved model's x[d,s,e] variables and returns one
// AssignedShift per input shift, in the same day-major, intra-day order as
// model.Shifts.
func Extract(m *modelbuilder.Model, result solver.Result) (schedule.WeeklySchedule, error) {
	if result.Status != solver.StatusOptimal && result.Status != solver.StatusFeasible {
		return nil, schederr.SolverFailed(string(result.Status))
	}

	out := make(schedule.WeeklySchedule, len(m.Shifts))

	for day, dayShifts := range m.Shifts {
		assigned := make([]schedule.AssignedShift, 0, len(dayShifts))
		for shiftIdx, s := range dayShifts {
			winner, err := findWinner(m, result, day, shiftIdx, s)
			if err != nil {
				return nil, err
			}
			assigned = append(assigned, winner)
		}
		out[day] = assigned
	}

	return out, nil
}

func findWinner(m *modelbuilder.Model, result solver.Result, day, shiftIdx int, s schedule.Shift) (schedule.AssignedShift, error) {
	employees := modelbuilder.EmployeeByID(m.Employees)

	for _, emp := range m.Employees {
		v, ok := m.AssignmentVar(day, shiftIdx, emp.ID)
		if !ok {
			continue
		}
		if result.Value(v) > valueThreshold {
			color := employees[emp.ID].Color
			if color == "" {
				color = schedule.DefaultColor
			}
			s.Color = color
			return schedule.AssignedShift{
				Shift:          s,
				Employee:       emp.ID,
				FinalCandidate: emp.ID,
			}, nil
		}
	}

	// Nobody real matched; the placeholder must have won coverage.
	s.Color = schedule.UnassignedColor
	return schedule.AssignedShift{
		Shift:          s,
		Employee:       schedule.UnassignedEmployeeID,
		FinalCandidate: schedule.UnassignedEmployeeID,
	}, nil
}
