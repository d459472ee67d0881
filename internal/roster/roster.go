// Package roster holds the team model consumed by the assignment engine:
// people, their skills, and the workload accounting modes.
package roster

import (
	"strings"
)

// WorkloadMode selects how Person.Workload is interpreted.
type WorkloadMode string

const (
	// WorkloadIntegerCount treats Workload as a count of assigned tasks.
	// The engine increments it by 1 after each accepted assignment.
	WorkloadIntegerCount WorkloadMode = "integer_count"

	// WorkloadNormalizedLoad treats Workload as a load factor in [0,1]
	// supplied per run. The engine never mutates it.
	WorkloadNormalizedLoad WorkloadMode = "normalized_load"
)

// Valid reports whether the mode is one of the supported values.
func (m WorkloadMode) Valid() bool {
	return m == WorkloadIntegerCount || m == WorkloadNormalizedLoad
}

// DefaultCapacity is the task count at which an integer-count workload
// saturates to a normalized load of 1.0.
const DefaultCapacity = 10

// Person is a team member eligible for assignment.
type Person struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Role     string   `json:"role" yaml:"role"`
	Skills   []string `json:"skills" yaml:"skills"`
	Workload float64  `json:"workload" yaml:"workload"`
}

// HasSkill reports case-insensitive membership of skill in the person's skill set.
func (p *Person) HasSkill(skill string) bool {
	for _, s := range p.Skills {
		if strings.EqualFold(s, skill) {
			return true
		}
	}
	return false
}

// NormalizedWorkload maps the workload to [0,1] regardless of mode.
// Integer counts are scaled against capacity and clamped; normalized
// loads are clamped as defensive input handling only.
func (p *Person) NormalizedWorkload(mode WorkloadMode, capacity float64) float64 {
	w := p.Workload
	if mode == WorkloadIntegerCount {
		if capacity <= 0 {
			capacity = DefaultCapacity
		}
		w = w / capacity
	}
	if w < 0 {
		return 0
	}
	if w > 1 {
		return 1
	}
	return w
}

// Snapshot returns a deep copy of the roster. Each pipeline run mutates
// only its own snapshot, so concurrent runs over different meetings stay
// independent.
func Snapshot(team []*Person) []*Person {
	out := make([]*Person, len(team))
	for i, p := range team {
		cp := *p
		cp.Skills = append([]string(nil), p.Skills...)
		out[i] = &cp
	}
	return out
}
