package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Unit is the JSON shape of one decision unit in a flow file fixture.
type Unit struct {
	ID      string   `json:"id"`
	Kind    string   `json:"kind"`
	Rules   string   `json:"rules"`
	Inputs  []string `json:"inputs,omitempty"`
	Outputs []string `json:"outputs,omitempty"`
	Sources []string `json:"sources"`
	Targets []string `json:"targets"`
}

// FlowDir is a temporary directory for flow and rule file fixtures.
//
// Every file is written relative to Dir and removed when the test ends.
type FlowDir struct {
	t   testing.TB
	Dir string
}

// NewFlowDir creates a FlowDir backed by t.TempDir().
func NewFlowDir(t testing.TB) *FlowDir {
	t.Helper()
	return &FlowDir{t: t, Dir: t.TempDir()}
}

// Write creates name (which may include subdirectories) with content and
// returns its absolute path.
func (d *FlowDir) Write(name, content string) string {
	d.t.Helper()
	return d.WriteBytes(name, []byte(content))
}

// WriteBytes is Write for raw bytes, for fixtures that are not valid text.
func (d *FlowDir) WriteBytes(name string, content []byte) string {
	d.t.Helper()
	path := filepath.Join(d.Dir, name)
	require.NoError(d.t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(d.t, os.WriteFile(path, content, 0644))
	return path
}

// WriteFlow writes units as a JSON flow file. Nil sources/targets are
// written as empty lists so the fixture is always well-formed.
func (d *FlowDir) WriteFlow(name string, units ...Unit) string {
	d.t.Helper()
	for i := range units {
		if units[i].Sources == nil {
			units[i].Sources = []string{}
		}
		if units[i].Targets == nil {
			units[i].Targets = []string{}
		}
	}
	data, err := json.MarshalIndent(units, "", "  ")
	require.NoError(d.t, err)
	return d.WriteBytes(name, data)
}

// Path returns the absolute path of name inside the fixture directory.
func (d *FlowDir) Path(name string) string {
	return filepath.Join(d.Dir, name)
}
