package compiler

import (
	"github.com/roach88/orb/internal/flow"
)

// BuildEdges emits (s -> unit) for every declared source and then
// (unit -> t) for every declared target, unit by unit. Nothing is
// deduplicated: a dependency declared from both ends appears twice.
func BuildEdges(units []flow.ResolvedUnit) []flow.Edge {
	edges := []flow.Edge{}
	for _, unit := range units {
		for _, s := range unit.Sources {
			edges = append(edges, flow.Edge{SourceID: s, TargetID: unit.ID})
		}
		for _, t := range unit.Targets {
			edges = append(edges, flow.Edge{SourceID: unit.ID, TargetID: t})
		}
	}
	return edges
}

// autoWireEdges connects the entry node to every unit without declared
// sources, and every unit without declared targets to the exit node.
// Entry edges come first, both in unit order.
func autoWireEdges(units []flow.ResolvedUnit) []flow.Edge {
	var in, out []flow.Edge
	for _, unit := range units {
		if len(unit.Sources) == 0 {
			in = append(in, flow.Edge{SourceID: flow.EntryID, TargetID: unit.ID})
		}
		if len(unit.Targets) == 0 {
			out = append(out, flow.Edge{SourceID: unit.ID, TargetID: flow.ExitID})
		}
	}
	return append(in, out...)
}
