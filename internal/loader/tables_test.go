package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/orb/internal/flow"
)

func TestTableFormatOf(t *testing.T) {
	tests := []struct {
		location string
		want     tableFormat
	}{
		{"rules.json", formatJSON},
		{"dir/rules.csv", formatCSV},
		{"rules.CSV", formatNone},
		{"rules.txt", formatNone},
		{"rules.json.bak", formatNone},
		{"", formatNone},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			assert.Equal(t, tt.want, tableFormatOf(tt.location))
		})
	}
}

func TestParseRulesCSV(t *testing.T) {
	rows, err := parseRulesCSV([]byte("a,b\n1,2\n"))
	require.NoError(t, err)
	assert.Equal(t, []flow.Rule{{"a": "1", "b": "2"}}, rows)
}

func TestParseRulesCSV_QuotedAndEmptyCells(t *testing.T) {
	rows, err := parseRulesCSV([]byte("country,note\n\"GB\",\"a, b\"\n,\n"))
	require.NoError(t, err)
	assert.Equal(t, []flow.Rule{
		{"country": "GB", "note": "a, b"},
		{"country": "", "note": ""},
	}, rows)
}

func TestParseRulesCSV_StripsBOM(t *testing.T) {
	rows, err := parseRulesCSV([]byte("\xEF\xBB\xBFa\nx\n"))
	require.NoError(t, err)
	assert.Equal(t, []flow.Rule{{"a": "x"}}, rows)
}

func TestParseRulesCSV_HeaderOnlyAndEmpty(t *testing.T) {
	rows, err := parseRulesCSV([]byte("a,b\n"))
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)

	rows, err = parseRulesCSV(nil)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestParseRulesCSV_DuplicateHeaderLastWins(t *testing.T) {
	rows, err := parseRulesCSV([]byte("a,a,b\n1,2,3\n"))
	require.NoError(t, err)
	assert.Equal(t, []flow.Rule{{"a": "2", "b": "3"}}, rows)
}

func TestParseRulesCSV_FieldCountMismatch(t *testing.T) {
	_, err := parseRulesCSV([]byte("a,b\n1,2,3\n"))
	assert.Error(t, err)
}

func TestParseRulesJSON(t *testing.T) {
	rows, err := parseRulesJSON([]byte(`[{"a":"1"},{"a":"2","b":""}]`))
	require.NoError(t, err)
	assert.Equal(t, []flow.Rule{{"a": "1"}, {"a": "2", "b": ""}}, rows)

	rows, err = parseRulesJSON([]byte("null"))
	require.NoError(t, err)
	assert.NotNil(t, rows)
}

func TestParseRulesJSON_NullRejected(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"null cell", `[{"amount":null}]`},
		{"null row", `[null]`},
		{"null after valid row", `[{"a":"1"},null]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := parseRulesJSON([]byte(tt.input))
			assert.Error(t, err)
			assert.Nil(t, rows)
		})
	}
}

func TestParseRulesJSON_NonStringValues(t *testing.T) {
	_, err := parseRulesJSON([]byte(`[{"a":1}]`))
	assert.Error(t, err)

	_, err = parseRulesJSON([]byte(`{"a":"1"}`))
	assert.Error(t, err)
}

func TestCopyRules(t *testing.T) {
	orig := []flow.Rule{{"a": "1"}}
	cp := copyRules(orig)
	cp[0]["a"] = "changed"
	assert.Equal(t, "1", orig[0]["a"])
}
