package loader

import (
	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/roach88/orb/internal/flow"
)

// readCUEFlow evaluates a CUE flow file and decodes its top-level `flow`
// list. The list elements use the same field names as the JSON format:
//
//	flow: [{
//		id:      "e1"
//		kind:    "expression"
//		rules:   "amount > 100"
//		inputs:  ["amount"]
//		sources: []
//		targets: []
//	}]
func readCUEFlow(path string, data []byte) ([]flow.UnitSpec, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, cueLoadError(path, "evaluating CUE flow", err)
	}

	flowVal := value.LookupPath(cue.ParsePath("flow"))
	if !flowVal.Exists() {
		return nil, flow.LoadError(flow.ErrCodeFlowMalformed, path, "CUE flow must define a top-level `flow` list", nil)
	}

	var raws []rawUnit
	if err := flowVal.Decode(&raws); err != nil {
		return nil, cueLoadError(path, "decoding CUE flow", err)
	}
	return toSpecs(path, raws)
}

// cueLoadError converts a CUE error into a load error, keeping the position
// of the first error when CUE reports one.
func cueLoadError(path, message string, err error) *flow.Error {
	loadErr := flow.LoadError(flow.ErrCodeFlowMalformed, path, message, err)

	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return loadErr
	}
	positions := cueerrors.Positions(errs[0])
	if len(positions) > 0 && positions[0].IsValid() {
		loadErr.Line = positions[0].Line()
		loadErr.Column = positions[0].Column()
	}
	return loadErr
}
