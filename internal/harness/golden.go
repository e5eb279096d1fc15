package harness

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/orb/internal/flow"
)

// RunWithGolden runs a scenario and compares the rendered graph against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns the scenario result; the test fails (via goldie) if the rendering
// differs from the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return result, err
	}
	if result.Graph != nil {
		if err := AssertGolden(t, scenario.Name, result.Graph); err != nil {
			return result, err
		}
	}
	return result, nil
}

// AssertGolden compares the text rendering of graph against a golden file.
func AssertGolden(t *testing.T, name string, graph *flow.Graph) error {
	t.Helper()

	var buf bytes.Buffer
	if err := graph.WriteText(&buf); err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, buf.Bytes())

	return nil
}
