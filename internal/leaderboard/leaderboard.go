// Package leaderboard ranks collectors by total quantity collected.
// Everything is computed from scratch on each call; there is no state.
package leaderboard

import (
	"math"
	"sort"
)

// FilterAll selects every record regardless of department.
const FilterAll = "all"

// UnknownCollector is the bucket for records without a collector name.
const UnknownCollector = "Unknown"

type Record struct {
	Collector  string
	Quantity   float64
	Department string
}

type Row struct {
	Collector string  `json:"collector"`
	Total     float64 `json:"total"`
}

type Result struct {
	Ranked      []Row    `json:"ranked"`
	Departments []string `json:"departments"`
}

// Compute groups records by collector, sums quantities and sorts descending
// by total. Ties keep the order in which collectors were first seen. The
// department list always comes from the unfiltered input so filter options
// stay complete while a filter is active. dept "" or "all" means no filter.
func Compute(records []Record, dept string) Result {
	totals := map[string]float64{}
	var order []string

	seenDept := map[string]struct{}{}
	var departments []string

	for _, rec := range records {
		if rec.Department != "" {
			if _, ok := seenDept[rec.Department]; !ok {
				seenDept[rec.Department] = struct{}{}
				departments = append(departments, rec.Department)
			}
		}

		if dept != "" && dept != FilterAll && rec.Department != dept {
			continue
		}

		name := rec.Collector
		if name == "" {
			name = UnknownCollector
		}
		if _, ok := totals[name]; !ok {
			order = append(order, name)
		}
		q := rec.Quantity
		if math.IsNaN(q) {
			q = 0
		}
		totals[name] += q
	}

	ranked := make([]Row, 0, len(order))
	for _, name := range order {
		ranked = append(ranked, Row{Collector: name, Total: totals[name]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Total > ranked[j].Total
	})

	return Result{Ranked: ranked, Departments: departments}
}
