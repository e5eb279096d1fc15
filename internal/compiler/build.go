package compiler

import (
	"io"
	"log/slog"

	"github.com/roach88/orb/internal/flow"
)

// Options configures graph construction.
type Options struct {
	// AutoWire connects the entry node to units without sources and units
	// without targets to the exit node. Off by default: flow authors wire
	// request/response explicitly.
	AutoWire bool

	// StrictEdges rejects flows that declare the same edge more than once,
	// such as a dependency stated from both ends. Off by default, in which
	// case duplicates are kept as parallel edges.
	StrictEdges bool

	// Logger receives debug output. Nil discards.
	Logger *slog.Logger
}

// Build validates units and assembles the graph. The first validation
// error aborts the build; warnings are logged.
func Build(units []flow.ResolvedUnit, opts Options) (*flow.Graph, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	problems := Validate(units, opts)
	if first := firstError(problems); first != nil {
		return nil, flow.BuildError(first.Code, first.UnitID, first.Field+": "+first.Message)
	}
	for _, p := range problems {
		logger.Warn("flow validation warning", "code", p.Code, "unit", p.UnitID, "message", p.Message)
	}

	nodes, err := BuildNodes(units)
	if err != nil {
		return nil, err
	}

	edges := BuildEdges(units)
	if opts.AutoWire {
		edges = append(edges, autoWireEdges(units)...)
	}

	logger.Debug("graph built", "nodes", len(nodes), "edges", len(edges))
	return &flow.Graph{Nodes: nodes, Edges: edges}, nil
}
