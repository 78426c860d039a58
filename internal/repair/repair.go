// Package repair implements the greedy repair pass (spec.md §4.5): it
// reassigns shifts the MIP stage left "unassigned", ignoring the weekly
// contract-hour cap but still enforcing a strict 13 hour pairwise rest rule,
// and scores candidates to minimize damage to the off-day reward structure.
package repair

import (
	"math"

	"github.com/Rocamain/shifts-wizards-api/internal/modelbuilder"
	"github.com/Rocamain/shifts-wizards-api/internal/timeutil"
	"github.com/Rocamain/shifts-wizards-api/pkg/logger"
	"github.com/Rocamain/shifts-wizards-api/pkg/schedule"
)

// MinRestHoursRepair is the strict, all-pairs rest rule the repair stage
// enforces — tighter than the MIP stage's 11h consecutive-day rule, and
// applied across every pair of a candidate's shifts in the week, not just
// adjacent days (spec.md §4.5, §9 "Asymmetric rest rules").
const MinRestHoursRepair = 13.0

// assignedWindow is one shift already committed to an employee, expressed
// in absolute day/hour coordinates for the 13h rest check.
type assignedWindow struct {
	Day       int
	StartHour float64
	EndHour   float64
}

// state tracks the running hours and committed windows per employee as the
// repair pass proceeds — it is mutated shift by shift so that later shifts
// see the effect of earlier reassignments, per spec.md §4.5/§5.
type state struct {
	days         int
	currentHours map[string]float64
	assigned     map[string][]assignedWindow
}

func newState(days int, employees []schedule.Employee) *state {
	s := &state{
		days:         days,
		currentHours: make(map[string]float64, len(employees)),
		assigned:     make(map[string][]assignedWindow, len(employees)),
	}
	for _, e := range employees {
		s.currentHours[e.ID] = 0
		s.assigned[e.ID] = nil
	}
	return s
}

// canRest reports whether employeeID can take a shift starting at startHour
// on day without violating the 13 hour pairwise rest rule against any shift
// already committed to them (spec.md §4.5); it returns false on a violation.
func (s *state) canRest(employeeID string, day int, startHour float64) bool {
	candAbs := float64(day)*24 + startHour
	for _, w := range s.assigned[employeeID] {
		endAbs := float64(w.Day)*24 + w.EndHour
		if endAbs <= candAbs && endAbs+MinRestHoursRepair > candAbs {
			return false
		}
		startAbs := float64(w.Day)*24 + w.StartHour
		if startAbs >= candAbs && candAbs+MinRestHoursRepair > startAbs {
			return false
		}
	}
	return true
}

// offDays returns the set of days employeeID currently has no shift on.
func (s *state) offDays(employeeID string) map[int]bool {
	worked := make(map[int]bool, s.days)
	for _, w := range s.assigned[employeeID] {
		worked[w.Day] = true
	}
	off := make(map[int]bool, s.days)
	for d := 0; d < s.days; d++ {
		if !worked[d] {
			off[d] = true
		}
	}
	return off
}

// countConsecutiveOffWindows counts the maximal-or-not consecutive-off
// windows of length size that include day, given the off-day set off.
// Window starts range over [max(0,day-size+1), min(days-size,day)], per
// spec.md §4.5.
func countConsecutiveOffWindows(off map[int]bool, days, day, size int) int {
	lo := day - size + 1
	if lo < 0 {
		lo = 0
	}
	hi := days - size
	if hi > day {
		hi = day
	}

	count := 0
	for start := lo; start <= hi; start++ {
		allOff := true
		for k := 0; k < size; k++ {
			if !off[start+k] {
				allOff = false
				break
			}
		}
		if allOff {
			count++
		}
	}
	return count
}

// lostOffPenalty computes the off-day bonus that would disappear if
// employeeID were forced to work on day, always using profile 3 weights
// regardless of the caller's restPriority (spec.md §4.5).
func (s *state) lostOffPenalty(employeeID string, day int) float64 {
	off := s.offDays(employeeID)
	if !off[day] {
		return 0
	}

	profile := modelbuilder.Profile(3)

	before2 := countConsecutiveOffWindows(off, s.days, day, 2)
	before3 := countConsecutiveOffWindows(off, s.days, day, 3)

	delete(off, day)

	after2 := countConsecutiveOffWindows(off, s.days, day, 2)
	after3 := countConsecutiveOffWindows(off, s.days, day, 3)

	return float64(before2-after2)*profile.Bonus2Day + float64(before3-after3)*profile.Bonus3Day
}

// commit records a new assignment in the running state.
func (s *state) commit(employeeID string, day int, startHour, endHour, length float64) {
	s.currentHours[employeeID] += length
	s.assigned[employeeID] = append(s.assigned[employeeID], assignedWindow{
		Day: day, StartHour: startHour, EndHour: endHour,
	})
}

func overlapsUnavailability(emp schedule.Employee, day int, startHour, endHour float64) (bool, error) {
	for _, win := range emp.UnavailableDates {
		if win.Day != day {
			continue
		}
		winStart, err := timeutil.ParseHHMMHours(win.Start)
		if err != nil {
			return false, err
		}
		winEnd, err := timeutil.ParseHHMMHours(win.End)
		if err != nil {
			return false, err
		}
		if endHour > winStart && startHour < winEnd {
			return true, nil
		}
	}
	return false, nil
}

func containsCandidate(candidates []string, employeeID string) bool {
	for _, c := range candidates {
		if c == employeeID {
			return true
		}
	}
	return false
}

// Run executes the greedy repair pass over mipSchedule and returns a fresh
// WeeklySchedule in which every input shift id appears exactly once —
// resolving spec.md §9 Open Question 1 by building the output keyed by
// position rather than appending repaired records alongside stale
// "unassigned" ones.
//
// When honorUnavailability is true (the default, resolving Open Question 2)
// a candidate whose unavailability window overlaps the shift is skipped
// even during repair; set it to false to reproduce the source's original
// behavior of only enforcing rest during repair.
func Run(
	req schedule.AllocationRequest,
	mipSchedule schedule.WeeklySchedule,
	honorUnavailability bool,
	log *logger.AllocationLogger,
) (schedule.WeeklySchedule, error) {
	days := len(req.Shifts)
	st := newState(days, req.Employees)
	employeeByID := modelbuilder.EmployeeByID(req.Employees)
	profile3 := modelbuilder.Profile(3)
	penaltyDenom := profile3.Bonus3Day + profile3.Bonus2Day

	out := make(schedule.WeeklySchedule, days)
	for day := 0; day < days; day++ {
		out[day] = append([]schedule.AssignedShift(nil), mipSchedule[day]...)
	}

	// Seed running state from the MIP stage's assignments.
	for day := 0; day < days; day++ {
		for _, a := range out[day] {
			if a.Employee == schedule.UnassignedEmployeeID {
				continue
			}
			length, err := timeutil.EffectiveLengthHours(a.StartTime, a.EndTime)
			if err != nil {
				return nil, err
			}
			startHour, err := timeutil.ParseHHMMHours(a.StartTime)
			if err != nil {
				return nil, err
			}
			endHour, err := timeutil.ParseHHMMHours(a.EndTime)
			if err != nil {
				return nil, err
			}
			st.commit(a.Employee, day, startHour, endHour, length)
		}
	}

	stillUnassigned := 0
	for day := 0; day < days; day++ {
		for idx, a := range out[day] {
			if a.Employee != schedule.UnassignedEmployeeID {
				continue
			}

			length, err := timeutil.EffectiveLengthHours(a.StartTime, a.EndTime)
			if err != nil {
				return nil, err
			}
			startHour, err := timeutil.ParseHHMMHours(a.StartTime)
			if err != nil {
				return nil, err
			}
			endHour, err := timeutil.ParseHHMMHours(a.EndTime)
			if err != nil {
				return nil, err
			}

			bestID := ""
			bestScore := math.Inf(1)
			for _, emp := range req.Employees {
				if !containsCandidate(a.Candidates, emp.ID) {
					continue
				}
				if !st.canRest(emp.ID, day, startHour) {
					continue
				}
				if honorUnavailability {
					blocked, err := overlapsUnavailability(emp, day, startHour, endHour)
					if err != nil {
						return nil, err
					}
					if blocked {
						continue
					}
				}

				penalty := st.lostOffPenalty(emp.ID, day)
				score := st.currentHours[emp.ID] + length + penalty/penaltyDenom
				if score < bestScore {
					bestScore = score
					bestID = emp.ID
				}
			}

			if bestID == "" {
				stillUnassigned++
				if log != nil {
					log.RepairFallback(a.ID, day)
				}
				continue
			}

			rec := a
			rec.Employee = bestID
			rec.FinalCandidate = bestID
			color := employeeByID[bestID].Color
			if color == "" {
				color = schedule.DefaultColor
			}
			rec.Color = color
			out[day][idx] = rec

			st.commit(bestID, day, startHour, endHour, length)
		}
	}

	return out, nil
}
