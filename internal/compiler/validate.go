package compiler

import (
	"fmt"

	"github.com/roach88/orb/internal/flow"
)

// Severity distinguishes problems that fail a build from advisory ones.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// WarnIsolatedUnit flags a unit that no edge touches.
const WarnIsolatedUnit = "W310"

// ValidationError is one structural problem found in a flow.
type ValidationError struct {
	Code     string   `json:"code"`
	Severity Severity `json:"severity"`
	UnitID   string   `json:"unit_id,omitempty"`
	Field    string   `json:"field"`
	Message  string   `json:"message"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.UnitID != "" {
		return fmt.Sprintf("[%s] unit %q %s: %s", e.Code, e.UnitID, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks the structural invariants of a flow and returns every
// problem found (it does not fail fast). Warnings never fail a build.
func Validate(units []flow.ResolvedUnit, opts Options) []ValidationError {
	var errs []ValidationError

	ids := map[string]bool{flow.EntryID: true, flow.ExitID: true}
	for i, unit := range units {
		field := fmt.Sprintf("units[%d].id", i)

		// E303: synthetic ids are reserved
		if unit.ID == flow.EntryID || unit.ID == flow.ExitID {
			errs = append(errs, ValidationError{
				Code:     flow.ErrCodeReservedID,
				Severity: SeverityError,
				UnitID:   unit.ID,
				Field:    field,
				Message:  fmt.Sprintf("id %q is reserved for the synthetic %s node", unit.ID, synthName(unit.ID)),
			})
			continue
		}

		// E302: one node per id
		if ids[unit.ID] {
			errs = append(errs, ValidationError{
				Code:     flow.ErrCodeDuplicateNode,
				Severity: SeverityError,
				UnitID:   unit.ID,
				Field:    field,
				Message:  "duplicate node id",
			})
			continue
		}
		ids[unit.ID] = true
	}

	// E301: every declared endpoint names a node
	for _, unit := range units {
		for j, s := range unit.Sources {
			if !ids[s] {
				errs = append(errs, danglingError(unit.ID, fmt.Sprintf("sources[%d]", j), s))
			}
		}
		for j, t := range unit.Targets {
			if !ids[t] {
				errs = append(errs, danglingError(unit.ID, fmt.Sprintf("targets[%d]", j), t))
			}
		}
	}

	edges := BuildEdges(units)

	// E304: strict mode forbids repeated edges
	if opts.StrictEdges {
		counts := make(map[flow.Edge]int, len(edges))
		for _, e := range edges {
			counts[e]++
			if counts[e] == 2 {
				errs = append(errs, ValidationError{
					Code:     flow.ErrCodeDuplicateEdge,
					Severity: SeverityError,
					UnitID:   e.TargetID,
					Field:    "edges",
					Message:  fmt.Sprintf("edge %s -> %s is declared more than once; declare each dependency from one side only", e.SourceID, e.TargetID),
				})
			}
		}
	}

	// W310: units no edge touches (auto-wiring always connects them)
	if !opts.AutoWire {
		touched := make(map[string]bool, len(edges)*2)
		for _, e := range edges {
			touched[e.SourceID] = true
			touched[e.TargetID] = true
		}
		for _, unit := range units {
			if !touched[unit.ID] {
				errs = append(errs, ValidationError{
					Code:     WarnIsolatedUnit,
					Severity: SeverityWarning,
					UnitID:   unit.ID,
					Field:    "edges",
					Message:  "unit is not connected to any other node",
				})
			}
		}
	}

	return errs
}

// HasErrors reports whether errs contains anything of error severity.
func HasErrors(errs []ValidationError) bool {
	return firstError(errs) != nil
}

func firstError(errs []ValidationError) *ValidationError {
	for i := range errs {
		if errs[i].Severity == SeverityError {
			return &errs[i]
		}
	}
	return nil
}

func danglingError(unitID, field, ref string) ValidationError {
	return ValidationError{
		Code:     flow.ErrCodeDanglingEdge,
		Severity: SeverityError,
		UnitID:   unitID,
		Field:    field,
		Message:  fmt.Sprintf("reference %q does not name a node", ref),
	}
}

func synthName(id string) string {
	if id == flow.EntryID {
		return "entry"
	}
	return "exit"
}
