package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ResolvesFlowRelativeToScenario(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "single_expression.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "single_expression", s.Name)
	assert.Equal(t, filepath.Join("testdata", "flows", "single_expression.json"), s.Flow)
	assert.Equal(t, []string{"request", "e1", "response"}, s.Expect.Nodes)
	require.NotNil(t, s.Expect.Edges, "an empty edge list is still checked")
	assert.Empty(t, s.Expect.Edges)
}

func TestLoadScenario_RejectsUnknownFields(t *testing.T) {
	path := writeScenario(t, `
name: typo
description: "misspelled assertions key"
flow: flow.json
assertion:
  - type: node_type
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_RequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"missing name", "description: d\nflow: f.json\n", "name is required"},
		{"missing description", "name: n\nflow: f.json\n", "description is required"},
		{"missing flow", "name: n\ndescription: d\n", "flow is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenario_ErrorCannotCombineWithShape(t *testing.T) {
	path := writeScenario(t, `
name: mixed
description: "error and nodes together"
flow: flow.json
expect:
  nodes: [request, response]
  error:
    kind: load
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be combined")
}

func TestLoadScenario_InvalidErrorKind(t *testing.T) {
	path := writeScenario(t, `
name: bad_kind
description: "unknown error kind"
flow: flow.json
expect:
  error:
    kind: runtime
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load, resolution or build")
}

func TestLoadScenario_InvalidAssertion(t *testing.T) {
	path := writeScenario(t, `
name: bad_assertion
description: "edge_count without endpoints"
flow: flow.json
assertions:
  - type: edge_count
    count: 1
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "assertions[0]")
}

func TestLoadScenario_FileNotFound(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}
