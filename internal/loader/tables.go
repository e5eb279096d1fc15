package loader

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/roach88/orb/internal/flow"
)

// tableFormat is the encoding of a table rule file.
type tableFormat int

const (
	formatNone tableFormat = iota
	formatJSON
	formatCSV
)

// tableFormatOf picks the format from a case-sensitive suffix of the rule
// location. Anything other than ".json" or ".csv" is formatNone, which
// resolves to zero rows rather than an error.
func tableFormatOf(location string) tableFormat {
	switch {
	case strings.HasSuffix(location, ".json"):
		return formatJSON
	case strings.HasSuffix(location, ".csv"):
		return formatCSV
	default:
		return formatNone
	}
}

// parseRulesJSON decodes an array of flat string->string objects.
// A null row or a null cell is malformed, not an empty match.
func parseRulesJSON(data []byte) ([]flow.Rule, error) {
	var raw []map[string]*string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	rows := make([]flow.Rule, 0, len(raw))
	for i, r := range raw {
		if r == nil {
			return nil, fmt.Errorf("row %d: null is not a rule object", i)
		}
		row := make(flow.Rule, len(r))
		for k, v := range r {
			if v == nil {
				return nil, fmt.Errorf("row %d: field %q is null", i, k)
			}
			row[k] = *v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// parseRulesCSV reads a header-driven CSV table. The header row names the
// fields; every later row must have exactly as many cells.
func parseRulesCSV(data []byte) ([]flow.Rule, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return []flow.Rule{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	rows := []flow.Rule{}
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		row := make(flow.Rule, len(header))
		for i, name := range header {
			row[name] = record[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// copyRules returns a deep copy so cached rows are never shared with callers.
func copyRules(rows []flow.Rule) []flow.Rule {
	out := make([]flow.Rule, len(rows))
	for i, r := range rows {
		row := make(flow.Rule, len(r))
		for k, v := range r {
			row[k] = v
		}
		out[i] = row
	}
	return out
}
