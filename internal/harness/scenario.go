package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario for one flow file.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Flow is the path of the flow file to compile.
	// Relative paths are resolved against the scenario file location.
	Flow string `yaml:"flow"`

	// Options are passed through to the compiler.
	Options ScenarioOptions `yaml:"options,omitempty"`

	// Expect describes the expected graph or failure.
	Expect Expectation `yaml:"expect"`

	// Assertions are finer-grained checks on the compiled graph.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// ScenarioOptions mirrors compiler.Options.
type ScenarioOptions struct {
	AutoWire    bool `yaml:"autowire,omitempty"`
	StrictEdges bool `yaml:"strict_edges,omitempty"`
}

// Expectation is either a graph shape or an error, never both.
type Expectation struct {
	// Nodes is the exact node id order, including request and response.
	Nodes []string `yaml:"nodes,omitempty"`

	// Edges is the exact edge list as [source, target] pairs, in order.
	// Nil means "not checked"; an empty list means "no edges".
	Edges [][2]string `yaml:"edges,omitempty"`

	// Error is set when compilation must fail.
	Error *ExpectedError `yaml:"error,omitempty"`
}

// ExpectedError names the failure a scenario expects.
type ExpectedError struct {
	// Kind is "load", "resolution" or "build".
	Kind string `yaml:"kind"`

	// Code is an optional error code such as "E203".
	Code string `yaml:"code,omitempty"`
}

// Assertion checks one property of the compiled graph.
type Assertion struct {
	// Type specifies the assertion type (see the Assert* constants).
	Type string `yaml:"type"`

	// Node is the node id (node_type, table_rows, binding).
	Node string `yaml:"node,omitempty"`

	// NodeType is the expected serialized type (node_type).
	NodeType string `yaml:"node_type,omitempty"`

	// From and To name the edge endpoints (edge_count).
	From string `yaml:"from,omitempty"`
	To   string `yaml:"to,omitempty"`

	// Count is the expected number of edges or rows (edge_count, table_rows).
	Count int `yaml:"count,omitempty"`

	// Key and Value are the expected expression binding (binding).
	Key   string `yaml:"key,omitempty"`
	Value string `yaml:"value,omitempty"`
}

// Assertion type constants.
const (
	AssertNodeType  = "node_type"
	AssertEdgeCount = "edge_count"
	AssertTableRows = "table_rows"
	AssertBinding   = "binding"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Flow != "" && !filepath.IsAbs(scenario.Flow) {
		scenario.Flow = filepath.Join(filepath.Dir(path), scenario.Flow)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Flow == "" {
		return fmt.Errorf("flow is required")
	}

	if s.Expect.Error != nil {
		if len(s.Expect.Nodes) > 0 || s.Expect.Edges != nil || len(s.Assertions) > 0 {
			return fmt.Errorf("expect.error cannot be combined with nodes, edges or assertions")
		}
		switch s.Expect.Error.Kind {
		case "load", "resolution", "build":
		default:
			return fmt.Errorf("expect.error.kind must be load, resolution or build, got %q", s.Expect.Error.Kind)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(a); err != nil {
			return fmt.Errorf("assertions[%d]: %w", i, err)
		}
	}

	return nil
}

func validateAssertion(a Assertion) error {
	switch a.Type {
	case AssertNodeType:
		if a.Node == "" || a.NodeType == "" {
			return fmt.Errorf("node_type requires node and node_type")
		}
	case AssertEdgeCount:
		if a.From == "" || a.To == "" {
			return fmt.Errorf("edge_count requires from and to")
		}
	case AssertTableRows:
		if a.Node == "" {
			return fmt.Errorf("table_rows requires node")
		}
	case AssertBinding:
		if a.Node == "" || a.Key == "" {
			return fmt.Errorf("binding requires node and key")
		}
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}
