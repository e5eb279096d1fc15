package loader

import (
	"path/filepath"

	"github.com/roach88/orb/internal/flow"
)

// Load reads the flow file at path and resolves every unit in it.
func Load(path string, opts Options) ([]flow.ResolvedUnit, error) {
	specs, err := ReadFlow(path)
	if err != nil {
		return nil, err
	}

	if opts.RelativeToFlow {
		opts.BaseDir = filepath.Dir(path)
	}
	r, err := NewResolver(opts)
	if err != nil {
		return nil, err
	}

	units, err := r.ResolveAll(specs)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("flow loaded", "path", path, "units", len(units))
	return units, nil
}
