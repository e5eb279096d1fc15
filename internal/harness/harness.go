package harness

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/roach88/orb/internal/compiler"
	"github.com/roach88/orb/internal/flow"
	"github.com/roach88/orb/internal/loader"
)

// Run compiles the scenario's flow and checks it against the expectation.
//
// Mismatches are reported in Result.Errors. The returned error is reserved
// for compilation failures the scenario did not expect.
func Run(s *Scenario) (*Result, error) {
	return RunWithLogger(s, slog.New(slog.NewTextHandler(io.Discard, nil))) // Suppress logs in tests
}

// RunWithLogger is Run with an explicit logger.
func RunWithLogger(s *Scenario, logger *slog.Logger) (*Result, error) {
	result := NewResult()

	graph, err := compile(s, logger)
	result.Graph = graph
	result.Err = err

	if s.Expect.Error != nil {
		checkExpectedError(result, s.Expect.Error, err)
		return result, nil
	}
	if err != nil {
		return result, fmt.Errorf("scenario %q: unexpected compilation failure: %w", s.Name, err)
	}

	checkShape(result, s.Expect, graph)
	for i, a := range s.Assertions {
		if err := evaluateAssertion(graph, a); err != nil {
			result.AddError(fmt.Sprintf("assertion[%d] %s: %v", i, a.Type, err))
		}
	}

	logger.Debug("scenario finished", "name", s.Name, "pass", result.Pass)
	return result, nil
}

func compile(s *Scenario, logger *slog.Logger) (*flow.Graph, error) {
	units, err := loader.Load(s.Flow, loader.Options{
		Logger:         logger,
		CacheSize:      loader.DefaultCacheSize,
		RelativeToFlow: true,
	})
	if err != nil {
		return nil, err
	}
	return compiler.Build(units, compiler.Options{
		AutoWire:    s.Options.AutoWire,
		StrictEdges: s.Options.StrictEdges,
		Logger:      logger,
	})
}

func checkExpectedError(result *Result, want *ExpectedError, err error) {
	if err == nil {
		result.AddError(fmt.Sprintf("expected %s error, compilation succeeded", want.Kind))
		return
	}

	var fe *flow.Error
	if !errors.As(err, &fe) {
		result.AddError(fmt.Sprintf("expected %s error, got unstructured error: %v", want.Kind, err))
		return
	}
	if fe.Kind.String() != want.Kind {
		result.AddError(fmt.Sprintf("expected %s error, got %s error: %v", want.Kind, fe.Kind, err))
	}
	if want.Code != "" && fe.Code != want.Code {
		result.AddError(fmt.Sprintf("expected error code %s, got %s", want.Code, fe.Code))
	}
}

func checkShape(result *Result, want Expectation, graph *flow.Graph) {
	if len(want.Nodes) > 0 {
		if got := graph.NodeIDs(); !slices.Equal(got, want.Nodes) {
			result.AddError(fmt.Sprintf("nodes: expected %v, got %v", want.Nodes, got))
		}
	}

	if want.Edges != nil {
		got := make([][2]string, len(graph.Edges))
		for i, e := range graph.Edges {
			got[i] = [2]string{e.SourceID, e.TargetID}
		}
		if !slices.Equal(got, want.Edges) {
			result.AddError(fmt.Sprintf("edges: expected %v, got %v", want.Edges, got))
		}
	}
}
