package loader

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/orb/internal/flow"
	"github.com/roach88/orb/internal/testutil"
)

var kybDir = filepath.Join("..", "..", "testdata", "flows", "kyb")

func kybSpecs() []flow.UnitSpec {
	return []flow.UnitSpec{
		{
			ID: "risk_flags", Kind: flow.KindTable, Rules: "rules/risk_flags.csv",
			Inputs: []string{"country", "industry"}, Outputs: []string{"flag"},
			Sources: []string{"request"}, Targets: []string{},
		},
		{
			ID: "sanctions", Kind: flow.KindTable, Rules: "rules/sanctions.json",
			Inputs: []string{"country"}, Outputs: []string{"sanctioned"},
			Sources: []string{"request"}, Targets: []string{},
		},
		{
			ID: "mapper", Kind: flow.KindFunction, Rules: "mapper.js",
			Inputs: []string{}, Outputs: []string{},
			Sources: []string{"risk_flags", "sanctions"}, Targets: []string{},
		},
		{
			ID: "score", Kind: flow.KindExpression, Rules: "critical * 10 + red * 5 + amber",
			Inputs: []string{"score"}, Outputs: []string{},
			Sources: []string{"mapper"}, Targets: []string{"response"},
		},
	}
}

func TestReadFlow_AllFormatsAgree(t *testing.T) {
	for _, name := range []string{"flow.json", "flow.yaml", "flow.cue", "flow.hcl"} {
		t.Run(name, func(t *testing.T) {
			specs, err := ReadFlow(filepath.Join(kybDir, name))
			require.NoError(t, err)
			assert.Equal(t, kybSpecs(), specs)
		})
	}
}

func TestReadFlow_EmptyList(t *testing.T) {
	d := testutil.NewFlowDir(t)

	specs, err := ReadFlow(d.Write("flow.json", "[]"))
	require.NoError(t, err)
	assert.NotNil(t, specs)
	assert.Empty(t, specs)
}

func TestReadFlow_MissingRequiredField(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"id", `[{"kind":"expression","rules":"x","sources":[],"targets":[]}]`, "id"},
		{"kind", `[{"id":"a","rules":"x","sources":[],"targets":[]}]`, "kind"},
		{"rules", `[{"id":"a","kind":"expression","sources":[],"targets":[]}]`, "rules"},
		{"sources", `[{"id":"a","kind":"expression","rules":"x","targets":[]}]`, "sources"},
		{"targets", `[{"id":"a","kind":"expression","rules":"x","sources":[]}]`, "targets"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := testutil.NewFlowDir(t)
			_, err := ReadFlow(d.Write("flow.json", tt.content))
			require.Error(t, err)
			assert.True(t, flow.IsKind(err, flow.KindLoad))
			assert.Equal(t, flow.ErrCodeFlowMalformed, flow.CodeOf(err))
			assert.Contains(t, err.Error(), `missing required field "`+tt.field+`"`)
		})
	}
}

func TestReadFlow_EmptyID(t *testing.T) {
	d := testutil.NewFlowDir(t)
	_, err := ReadFlow(d.Write("flow.json", `[{"id":"","kind":"expression","rules":"x","sources":[],"targets":[]}]`))
	require.Error(t, err)
	assert.Equal(t, flow.ErrCodeFlowMalformed, flow.CodeOf(err))
}

func TestReadFlow_DuplicateID(t *testing.T) {
	d := testutil.NewFlowDir(t)
	path := d.WriteFlow("flow.json",
		testutil.Unit{ID: "a", Kind: "expression", Rules: "x", Inputs: []string{"x"}},
		testutil.Unit{ID: "a", Kind: "function", Rules: "a.js"},
	)

	_, err := ReadFlow(path)
	require.Error(t, err)
	assert.Equal(t, flow.ErrCodeDuplicateUnit, flow.CodeOf(err))
	assert.Contains(t, err.Error(), `(unit "a")`)
}

func TestReadFlow_UnknownKind(t *testing.T) {
	d := testutil.NewFlowDir(t)
	path := d.WriteFlow("flow.json", testutil.Unit{ID: "s1", Kind: "script", Rules: "run.js"})

	_, err := ReadFlow(path)
	require.Error(t, err)
	assert.True(t, flow.IsKind(err, flow.KindLoad))
	assert.Equal(t, flow.ErrCodeUnknownKind, flow.CodeOf(err))
}

func TestReadFlow_MissingFile(t *testing.T) {
	_, err := ReadFlow(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Equal(t, flow.ErrCodeFlowUnreadable, flow.CodeOf(err))
	assert.Contains(t, err.Error(), "flow file not found")
}

func TestReadFlow_UnsupportedExtension(t *testing.T) {
	d := testutil.NewFlowDir(t)
	_, err := ReadFlow(d.Write("flow.toml", "[[decision]]"))
	require.Error(t, err)
	assert.Equal(t, flow.ErrCodeFlowFormat, flow.CodeOf(err))
}

func TestReadFlow_JSONSyntaxErrorPosition(t *testing.T) {
	d := testutil.NewFlowDir(t)
	path := d.Write("flow.json", "[\n  {\"id\": \"a\",,}\n]")

	_, err := ReadFlow(path)
	require.Error(t, err)

	var fe *flow.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, flow.ErrCodeFlowMalformed, fe.Code)
	assert.Equal(t, 2, fe.Line)
	assert.Positive(t, fe.Column)
}

func TestReadFlow_MalformedYAML(t *testing.T) {
	d := testutil.NewFlowDir(t)
	_, err := ReadFlow(d.Write("flow.yaml", "id: [unterminated"))
	require.Error(t, err)
	assert.Equal(t, flow.ErrCodeFlowMalformed, flow.CodeOf(err))
}

func TestReadFlow_CUEWithoutFlowField(t *testing.T) {
	d := testutil.NewFlowDir(t)
	_, err := ReadFlow(d.Write("flow.cue", "units: []\n"))
	require.Error(t, err)
	assert.Equal(t, flow.ErrCodeFlowMalformed, flow.CodeOf(err))
	assert.Contains(t, err.Error(), "top-level `flow` list")
}

func TestReadFlow_CUEConflict(t *testing.T) {
	d := testutil.NewFlowDir(t)
	content := `flow: [{
	id:      "a"
	kind:    "table"
	kind:    "function"
	rules:   "a.js"
	sources: []
	targets: []
}]
`
	_, err := ReadFlow(d.Write("flow.cue", content))
	require.Error(t, err)
	assert.Equal(t, flow.ErrCodeFlowMalformed, flow.CodeOf(err))
}

func TestReadFlow_HCLMissingAttribute(t *testing.T) {
	d := testutil.NewFlowDir(t)
	content := `decision "a" {
  kind    = "function"
  rules   = "a.js"
  sources = []
}
`
	_, err := ReadFlow(d.Write("flow.hcl", content))
	require.Error(t, err)

	var fe *flow.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, flow.ErrCodeFlowMalformed, fe.Code)
	assert.Positive(t, fe.Line)
}

func TestLineColumn(t *testing.T) {
	data := []byte("ab\ncd\nef")

	line, col := lineColumn(data, 0)
	assert.Equal(t, 1, line)
	assert.Equal(t, 1, col)

	line, col = lineColumn(data, 4)
	assert.Equal(t, 2, line)
	assert.Equal(t, 2, col)

	line, _ = lineColumn(data, 100)
	assert.Equal(t, 3, line)
}
