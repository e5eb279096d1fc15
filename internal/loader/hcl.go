package loader

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/roach88/orb/internal/flow"
)

// hclFlowFile is the top-level structure of an HCL flow file.
type hclFlowFile struct {
	Decisions []*hclDecision `hcl:"decision,block"`
}

// hclDecision is one `decision "<id>" { ... }` block.
type hclDecision struct {
	ID      string   `hcl:"id,label"`
	Kind    string   `hcl:"kind"`
	Rules   string   `hcl:"rules"`
	Inputs  []string `hcl:"inputs,optional"`
	Outputs []string `hcl:"outputs,optional"`
	Sources []string `hcl:"sources"`
	Targets []string `hcl:"targets"`
}

// readHCLFlow decodes decision blocks in file order. gohcl enforces the
// required attributes, so the resulting raw units always carry them.
func readHCLFlow(path string, data []byte) ([]flow.UnitSpec, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, path)
	if diags.HasErrors() {
		return nil, hclLoadError(path, "parsing HCL flow", diags)
	}

	var parsed hclFlowFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return nil, hclLoadError(path, "decoding HCL flow", diags)
	}

	raws := make([]rawUnit, len(parsed.Decisions))
	for i, d := range parsed.Decisions {
		sources := d.Sources
		targets := d.Targets
		raws[i] = rawUnit{
			ID:      &d.ID,
			Kind:    &d.Kind,
			Rules:   &d.Rules,
			Inputs:  d.Inputs,
			Outputs: d.Outputs,
			Sources: &sources,
			Targets: &targets,
		}
	}
	return toSpecs(path, raws)
}

func hclLoadError(path, message string, diags hcl.Diagnostics) *flow.Error {
	loadErr := flow.LoadError(flow.ErrCodeFlowMalformed, path, message, diags)
	for _, d := range diags {
		if d.Severity == hcl.DiagError && d.Subject != nil {
			loadErr.Line = d.Subject.Start.Line
			loadErr.Column = d.Subject.Start.Column
			break
		}
	}
	return loadErr
}
