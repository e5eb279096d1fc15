package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/orb/internal/flow"
)

// rawUnit is the on-disk shape of a decision unit shared by the JSON, YAML
// and CUE readers. Pointer fields distinguish "absent" from "empty" for the
// required fields.
type rawUnit struct {
	ID      *string   `json:"id" yaml:"id"`
	Kind    *string   `json:"kind" yaml:"kind"`
	Rules   *string   `json:"rules" yaml:"rules"`
	Inputs  []string  `json:"inputs,omitempty" yaml:"inputs"`
	Outputs []string  `json:"outputs,omitempty" yaml:"outputs"`
	Sources *[]string `json:"sources" yaml:"sources"`
	Targets *[]string `json:"targets" yaml:"targets"`
}

// ReadFlow parses the flow file at path into unit specs, in file order.
// The format is chosen from the file extension.
func ReadFlow(path string) ([]flow.UnitSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		msg := "reading flow file"
		if errors.Is(err, os.ErrNotExist) {
			msg = "flow file not found"
		}
		return nil, flow.LoadError(flow.ErrCodeFlowUnreadable, path, msg, err)
	}

	switch ext := filepath.Ext(path); ext {
	case ".json":
		return readJSONFlow(path, data)
	case ".yaml", ".yml":
		return readYAMLFlow(path, data)
	case ".cue":
		return readCUEFlow(path, data)
	case ".hcl":
		return readHCLFlow(path, data)
	default:
		return nil, flow.LoadError(flow.ErrCodeFlowFormat, path,
			fmt.Sprintf("unsupported flow file extension %q: must be .json, .yaml, .yml, .cue or .hcl", ext), nil)
	}
}

func readJSONFlow(path string, data []byte) ([]flow.UnitSpec, error) {
	var raws []rawUnit
	if err := json.Unmarshal(data, &raws); err != nil {
		loadErr := flow.LoadError(flow.ErrCodeFlowMalformed, path, "parsing JSON flow", err)
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			loadErr.Line, loadErr.Column = lineColumn(data, syntaxErr.Offset)
		}
		return nil, loadErr
	}
	return toSpecs(path, raws)
}

func readYAMLFlow(path string, data []byte) ([]flow.UnitSpec, error) {
	var raws []rawUnit
	if err := yaml.Unmarshal(data, &raws); err != nil {
		return nil, flow.LoadError(flow.ErrCodeFlowMalformed, path, "parsing YAML flow", err)
	}
	return toSpecs(path, raws)
}

// toSpecs checks required fields, parses kinds, rejects duplicate ids and
// defaults missing inputs/outputs to empty slices.
func toSpecs(path string, raws []rawUnit) ([]flow.UnitSpec, error) {
	specs := make([]flow.UnitSpec, 0, len(raws))
	seen := make(map[string]int, len(raws))

	for i, raw := range raws {
		missing := func(field string) error {
			where := fmt.Sprintf("unit[%d]", i)
			if raw.ID != nil && *raw.ID != "" {
				where = fmt.Sprintf("unit %q", *raw.ID)
			}
			return flow.LoadError(flow.ErrCodeFlowMalformed, path,
				fmt.Sprintf("%s: missing required field %q", where, field), nil)
		}

		switch {
		case raw.ID == nil:
			return nil, missing("id")
		case raw.Kind == nil:
			return nil, missing("kind")
		case raw.Rules == nil:
			return nil, missing("rules")
		case raw.Sources == nil:
			return nil, missing("sources")
		case raw.Targets == nil:
			return nil, missing("targets")
		}

		id := *raw.ID
		if id == "" {
			return nil, flow.LoadError(flow.ErrCodeFlowMalformed, path,
				fmt.Sprintf("unit[%d]: id must be non-empty", i), nil)
		}
		if prev, dup := seen[id]; dup {
			e := flow.LoadError(flow.ErrCodeDuplicateUnit, path,
				fmt.Sprintf("duplicate unit id (first declared at unit[%d])", prev), nil)
			e.UnitID = id
			return nil, e
		}
		seen[id] = i

		kind, err := flow.ParseKind(*raw.Kind)
		if err != nil {
			e := flow.LoadError(flow.ErrCodeUnknownKind, path, err.Error(), nil)
			e.UnitID = id
			return nil, e
		}

		specs = append(specs, flow.UnitSpec{
			ID:      id,
			Kind:    kind,
			Rules:   *raw.Rules,
			Inputs:  orEmpty(raw.Inputs),
			Outputs: orEmpty(raw.Outputs),
			Sources: orEmpty(*raw.Sources),
			Targets: orEmpty(*raw.Targets),
		})
	}

	return specs, nil
}

func orEmpty(xs []string) []string {
	if xs == nil {
		return []string{}
	}
	return xs
}

// lineColumn converts a byte offset into a 1-based line and column.
func lineColumn(data []byte, offset int64) (int, int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	prefix := data[:offset]
	line := bytes.Count(prefix, []byte{'\n'}) + 1
	col := int(offset) - bytes.LastIndexByte(prefix, '\n')
	return line, col
}
