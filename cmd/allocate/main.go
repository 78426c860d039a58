// Command allocate is a minimal demonstration binary for the shift
// allocator library: it reads an AllocationRequest as JSON and writes the
// resulting WeeklySchedule as JSON to stdout. The HTTP surface, auth, and
// OpenAPI layer this library is meant to sit behind are out of scope here
// (spec.md §1) — this binary exists only to exercise pkg/schedule end to
// end from the command line.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log"
	"os"
	"time"

	"github.com/Rocamain/shifts-wizards-api/pkg/schedule"
)

// requestDoc mirrors schedule.AllocationRequest's JSON wire shape (spec.md
// §6), since the library types themselves carry no json tags — those
// belong to whichever collaborator owns serialization.
type requestDoc struct {
	Shifts [][]struct {
		ID           string   `json:"id"`
		StartTime    string   `json:"startTime"`
		EndTime      string   `json:"endTime"`
		Candidates   []string `json:"candidates"`
		EmployeeRole string   `json:"employeeRole"`
		Color        string   `json:"color"`
	} `json:"shifts"`
	Employees []struct {
		ID            string  `json:"id"`
		ContractHours float64 `json:"contractHours"`
		Color         string  `json:"color"`
		Unavailable   []struct {
			Day       int `json:"day"`
			TimeFrame struct {
				Start string `json:"start"`
				End   string `json:"end"`
			} `json:"timeFrame"`
		} `json:"unavailableDates"`
	} `json:"employees"`
	RestPriority int `json:"restPriority"`
}

func (d requestDoc) toRequest() schedule.AllocationRequest {
	req := schedule.AllocationRequest{
		Shifts:       make([][]schedule.Shift, len(d.Shifts)),
		RestPriority: d.RestPriority,
	}
	for day, shifts := range d.Shifts {
		for _, s := range shifts {
			req.Shifts[day] = append(req.Shifts[day], schedule.Shift{
				ID:           s.ID,
				Day:          day,
				StartTime:    s.StartTime,
				EndTime:      s.EndTime,
				Candidates:   s.Candidates,
				EmployeeRole: s.EmployeeRole,
				Color:        s.Color,
			})
		}
	}
	for _, e := range d.Employees {
		emp := schedule.Employee{ID: e.ID, ContractHours: e.ContractHours, Color: e.Color}
		for _, u := range e.Unavailable {
			emp.UnavailableDates = append(emp.UnavailableDates, schedule.UnavailableWindow{
				Day:   u.Day,
				Start: u.TimeFrame.Start,
				End:   u.TimeFrame.End,
			})
		}
		req.Employees = append(req.Employees, emp)
	}
	return req
}

func main() {
	input := flag.String("in", "", "path to a request JSON file (defaults to stdin)")
	wallClock := flag.Duration("wall-clock", 20*time.Second, "MIP solver wall-clock limit")
	flag.Parse()

	var raw []byte
	var err error
	if *input == "" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(*input)
	}
	if err != nil {
		log.Fatal(err)
	}

	var doc requestDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		log.Fatal(err)
	}

	sched, err := schedule.Allocate(context.Background(), doc.toRequest(), schedule.Options{
		WallClock: *wallClock,
	})
	if err != nil {
		log.Fatal(err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sched); err != nil {
		log.Fatal(err)
	}
}
