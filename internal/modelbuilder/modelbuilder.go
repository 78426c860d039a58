// Package modelbuilder translates a week of shifts, employees, and a rest
// priority into a github.com/nextmv-io/go-mip model: decision variables,
// the nine hard constraints of spec.md §4.2, and the weighted objective.
package modelbuilder

import (
	"fmt"
	"math"

	mip "github.com/nextmv-io/go-mip"

	"github.com/Rocamain/shifts-wizards-api/internal/timeutil"
	"github.com/Rocamain/shifts-wizards-api/pkg/schederr"
	"github.com/Rocamain/shifts-wizards-api/pkg/schedule"
)

// PlaceholderID is the synthetic assignee id representing "nobody
// assigned" inside the MIP. It is never inserted into the caller's
// employee list so that repair and rest/contract-hour logic never
// accidentally iterate over it.
const PlaceholderID = "placeholder"

// MinRestHoursMIP is the MIP stage's overnight rest requirement between
// consecutive days (spec.md §4.2 constraint 3). The repair stage enforces a
// stricter, pairwise 13h rule instead — see internal/repair.
const MinRestHoursMIP = 11.0

// RestProfile holds the objective weights selected by a restPriority value.
type RestProfile struct {
	AssignWeight float64
	PlaceholderP float64
	Bonus3Day    float64
	Bonus2Day    float64
}

// restProfiles is the lookup table from spec.md §4.2. Unknown priorities
// default to profile 3.
var restProfiles = map[int]RestProfile{
	1: {AssignWeight: 4000, PlaceholderP: 10000, Bonus3Day: 500, Bonus2Day: 500},
	2: {AssignWeight: 4000, PlaceholderP: 10000, Bonus3Day: 1000, Bonus2Day: 500},
	3: {AssignWeight: 4000, PlaceholderP: 10000, Bonus3Day: 1500, Bonus2Day: 1000},
	4: {AssignWeight: 4000, PlaceholderP: 10000, Bonus3Day: 2500, Bonus2Day: 1250},
	5: {AssignWeight: 4000, PlaceholderP: 10000, Bonus3Day: 3500, Bonus2Day: 1250},
}

// Profile returns the objective weights for restPriority, defaulting to
// profile 3 for anything not in 1..5.
func Profile(restPriority int) RestProfile {
	if p, ok := restProfiles[restPriority]; ok {
		return p
	}
	return restProfiles[3]
}

// assignVarKey indexes the x[d,s,e] decision variables, including the
// always-present placeholder variable (Employee == PlaceholderID).
type assignVarKey struct {
	Day      int
	Shift    int
	Employee string
}

// dayEmpKey indexes the per-day, per-employee off/two/three variables.
type dayEmpKey struct {
	Day      int
	Employee string
}

// Model is the built MIP model together with every variable map the
// solver adapter and extractor need to read values back out.
type Model struct {
	M mip.Model

	X     map[assignVarKey]mip.Bool
	Off   map[dayEmpKey]mip.Float
	Two   map[dayEmpKey]mip.Bool
	Three map[dayEmpKey]mip.Bool
	H     map[string]mip.Float

	Shifts    [][]schedule.Shift
	Employees []schedule.Employee
}

// AssignmentVar returns the decision variable for (day, shiftIdx, employeeID)
// and whether it exists — it only exists for real candidates and the
// placeholder.
func (m *Model) AssignmentVar(day, shiftIdx int, employeeID string) (mip.Bool, bool) {
	v, ok := m.X[assignVarKey{Day: day, Shift: shiftIdx, Employee: employeeID}]
	return v, ok
}

// precheckNoCandidates implements spec.md §4.2 constraint 9: every shift
// must list at least one candidate.
func precheckNoCandidates(shifts [][]schedule.Shift) error {
	var offending []schederr.OffendingShift
	for day, dayShifts := range shifts {
		for _, s := range dayShifts {
			if len(s.Candidates) == 0 {
				offending = append(offending, schederr.OffendingShift{
					Day:     day,
					ShiftID: s.ID,
					Role:    s.EmployeeRole,
				})
			}
		}
	}
	if len(offending) > 0 {
		return schederr.NoCandidates(offending)
	}
	return nil
}

// overlaps reports whether shift [start,end) intersects the half-open
// window [winStart, winEnd).
func overlaps(shiftStartHr, shiftEndHr, winStartHr, winEndHr float64) bool {
	return shiftEndHr > winStartHr && shiftStartHr < winEndHr
}

// Build constructs the MIP model for req under restPriority. It returns
// schederr.CodeNoCandidates if any shift has no eligible candidates, or
// schederr.CodeBadTime if a time string cannot be parsed.
func Build(req schedule.AllocationRequest) (*Model, error) {
	if err := precheckNoCandidates(req.Shifts); err != nil {
		return nil, err
	}

	profile := Profile(req.RestPriority)

	m := mip.NewModel()
	m.Objective().SetMaximize()

	model := &Model{
		M:         m,
		X:         make(map[assignVarKey]mip.Bool),
		Off:       make(map[dayEmpKey]mip.Float),
		Two:       make(map[dayEmpKey]mip.Bool),
		Three:     make(map[dayEmpKey]mip.Bool),
		H:         make(map[string]mip.Float),
		Shifts:    req.Shifts,
		Employees: req.Employees,
	}

	// Decision variables: x[d,s,e] for real candidates, x[d,s,P] always.
	for day, dayShifts := range req.Shifts {
		for shiftIdx, s := range dayShifts {
			candidateSet := make(map[string]bool, len(s.Candidates))
			for _, c := range s.Candidates {
				candidateSet[c] = true
			}
			for _, emp := range req.Employees {
				if candidateSet[emp.ID] {
					model.X[assignVarKey{Day: day, Shift: shiftIdx, Employee: emp.ID}] = m.NewBool()
				}
			}
			model.X[assignVarKey{Day: day, Shift: shiftIdx, Employee: PlaceholderID}] = m.NewBool()
		}
	}

	// Constraint 1: coverage — exactly one assignee per shift.
	for day, dayShifts := range req.Shifts {
		for shiftIdx := range dayShifts {
			cover := m.NewConstraint(mip.Equal, 1.0)
			for key, v := range model.X {
				if key.Day == day && key.Shift == shiftIdx {
					cover.NewTerm(1.0, v)
				}
			}
		}
	}

	// Constraint 2: at most one shift per day per real employee.
	for _, emp := range req.Employees {
		for day, dayShifts := range req.Shifts {
			atMostOne := m.NewConstraint(mip.LessThanOrEqual, 1.0)
			for shiftIdx := range dayShifts {
				if v, ok := model.AssignmentVar(day, shiftIdx, emp.ID); ok {
					atMostOne.NewTerm(1.0, v)
				}
			}
		}
	}

	// Constraint 3: 11h overnight rest between consecutive days.
	for _, emp := range req.Employees {
		for day := 0; day < len(req.Shifts)-1; day++ {
			for aIdx, a := range req.Shifts[day] {
				aVar, ok := model.AssignmentVar(day, aIdx, emp.ID)
				if !ok {
					continue
				}
				aEndHr, err := timeutil.ParseHHMMHours(a.EndTime)
				if err != nil {
					return nil, schederr.BadTime(err)
				}
				for bIdx, b := range req.Shifts[day+1] {
					bVar, ok := model.AssignmentVar(day+1, bIdx, emp.ID)
					if !ok {
						continue
					}
					bStartHr, err := timeutil.ParseHHMMHours(b.StartTime)
					if err != nil {
						return nil, schederr.BadTime(err)
					}
					if timeutil.RestBetween(aEndHr, bStartHr) < MinRestHoursMIP {
						c := m.NewConstraint(mip.LessThanOrEqual, 1.0)
						c.NewTerm(1.0, aVar)
						c.NewTerm(1.0, bVar)
					}
				}
			}
		}
	}

	// Constraint 4: unavailability — fix x[d,s,e] = 0 for overlapping windows.
	for _, emp := range req.Employees {
		for _, win := range emp.UnavailableDates {
			if win.Day < 0 || win.Day >= len(req.Shifts) {
				continue
			}
			winStart, err := timeutil.ParseHHMMHours(win.Start)
			if err != nil {
				return nil, schederr.BadTime(err)
			}
			winEnd, err := timeutil.ParseHHMMHours(win.End)
			if err != nil {
				return nil, schederr.BadTime(err)
			}
			for shiftIdx, s := range req.Shifts[win.Day] {
				v, ok := model.AssignmentVar(win.Day, shiftIdx, emp.ID)
				if !ok {
					continue
				}
				sStart, err := timeutil.ParseHHMMHours(s.StartTime)
				if err != nil {
					return nil, schederr.BadTime(err)
				}
				sEnd, err := timeutil.ParseHHMMHours(s.EndTime)
				if err != nil {
					return nil, schederr.BadTime(err)
				}
				if overlaps(sStart, sEnd, winStart, winEnd) {
					fix := m.NewConstraint(mip.Equal, 0.0)
					fix.NewTerm(1.0, v)
				}
			}
		}
	}

	// Constraint 5: weekly hours, h[e] = sum len(s)*x[d,s,e], h[e] <= contractHours(e).
	for _, emp := range req.Employees {
		upperBound := emp.ContractHours
		if math.IsInf(upperBound, 1) {
			upperBound = math.MaxFloat64
		}
		hVar := m.NewFloat(0, upperBound)
		model.H[emp.ID] = hVar

		hoursConstraint := m.NewConstraint(mip.Equal, 0.0)
		hoursConstraint.NewTerm(1.0, hVar)
		for day, dayShifts := range req.Shifts {
			for shiftIdx, s := range dayShifts {
				v, ok := model.AssignmentVar(day, shiftIdx, emp.ID)
				if !ok {
					continue
				}
				length, err := timeutil.EffectiveLengthHours(s.StartTime, s.EndTime)
				if err != nil {
					return nil, schederr.BadTime(err)
				}
				hoursConstraint.NewTerm(-length, v)
			}
		}
	}

	// Constraint 6: off-day linkage, off[d,e] + sum_s x[d,s,e] = 1.
	for _, emp := range req.Employees {
		for day, dayShifts := range req.Shifts {
			offVar := m.NewFloat(0, 1)
			model.Off[dayEmpKey{Day: day, Employee: emp.ID}] = offVar

			link := m.NewConstraint(mip.Equal, 1.0)
			link.NewTerm(1.0, offVar)
			for shiftIdx := range dayShifts {
				if v, ok := model.AssignmentVar(day, shiftIdx, emp.ID); ok {
					link.NewTerm(1.0, v)
				}
			}
		}
	}

	// Constraint 7/8: linearized AND gates for two/three consecutive off days.
	days := len(req.Shifts)
	for _, emp := range req.Employees {
		for day := 0; day < days-1; day++ {
			off0 := model.Off[dayEmpKey{Day: day, Employee: emp.ID}]
			off1 := model.Off[dayEmpKey{Day: day + 1, Employee: emp.ID}]
			two := m.NewBool()
			model.Two[dayEmpKey{Day: day, Employee: emp.ID}] = two

			c1 := m.NewConstraint(mip.LessThanOrEqual, 0.0)
			c1.NewTerm(1.0, two)
			c1.NewTerm(-1.0, off0)

			c2 := m.NewConstraint(mip.LessThanOrEqual, 0.0)
			c2.NewTerm(1.0, two)
			c2.NewTerm(-1.0, off1)

			c3 := m.NewConstraint(mip.LessThanOrEqual, 1.0)
			c3.NewTerm(-1.0, two)
			c3.NewTerm(1.0, off0)
			c3.NewTerm(1.0, off1)
		}

		for day := 0; day < days-2; day++ {
			off0 := model.Off[dayEmpKey{Day: day, Employee: emp.ID}]
			off1 := model.Off[dayEmpKey{Day: day + 1, Employee: emp.ID}]
			off2 := model.Off[dayEmpKey{Day: day + 2, Employee: emp.ID}]
			three := m.NewBool()
			model.Three[dayEmpKey{Day: day, Employee: emp.ID}] = three

			c1 := m.NewConstraint(mip.LessThanOrEqual, 0.0)
			c1.NewTerm(1.0, three)
			c1.NewTerm(-1.0, off0)

			c2 := m.NewConstraint(mip.LessThanOrEqual, 0.0)
			c2.NewTerm(1.0, three)
			c2.NewTerm(-1.0, off1)

			c3 := m.NewConstraint(mip.LessThanOrEqual, 0.0)
			c3.NewTerm(1.0, three)
			c3.NewTerm(-1.0, off2)

			c4 := m.NewConstraint(mip.LessThanOrEqual, 2.0)
			c4.NewTerm(-1.0, three)
			c4.NewTerm(1.0, off0)
			c4.NewTerm(1.0, off1)
			c4.NewTerm(1.0, off2)
		}
	}

	// Objective.
	for day, dayShifts := range req.Shifts {
		for shiftIdx, s := range dayShifts {
			rank := make(map[string]int, len(s.Candidates))
			for i, c := range s.Candidates {
				rank[c] = i
			}
			for _, emp := range req.Employees {
				v, ok := model.AssignmentVar(day, shiftIdx, emp.ID)
				if !ok {
					continue
				}
				r, inCands := rank[emp.ID]
				bonus := 0.0
				if inCands {
					bonus = float64(len(s.Candidates) - r)
				}
				m.Objective().NewTerm(profile.AssignWeight+bonus, v)
			}
			placeholderVar, _ := model.AssignmentVar(day, shiftIdx, PlaceholderID)
			m.Objective().NewTerm(-profile.PlaceholderP, placeholderVar)
		}
	}
	for _, v := range model.Two {
		m.Objective().NewTerm(profile.Bonus2Day, v)
	}
	for _, v := range model.Three {
		m.Objective().NewTerm(profile.Bonus3Day, v)
	}

	return model, nil
}

// EmployeeByID returns an id -> Employee lookup over employees, used by the
// extractor and repair stages to resolve assignee colors without rescanning
// the slice repeatedly.
func EmployeeByID(employees []schedule.Employee) map[string]schedule.Employee {
	idx := make(map[string]schedule.Employee, len(employees))
	for _, e := range employees {
		idx[e.ID] = e
	}
	return idx
}

// String renders a dayEmpKey for debug logging.
func (k dayEmpKey) String() string {
	return fmt.Sprintf("day=%d emp=%s", k.Day, k.Employee)
}
