package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/orb/internal/compiler"
	"github.com/roach88/orb/internal/flow"
	"github.com/roach88/orb/internal/loader"
)

// FlowOptions are the compilation switches shared by compile and validate.
type FlowOptions struct {
	AutoWire    bool
	StrictEdges bool
	Relative    bool // resolve rule paths against the flow file's directory
}

// loadFlow reads and resolves the flow at path.
func loadFlow(path string, cfg Config, fo FlowOptions, logger *slog.Logger) ([]flow.ResolvedUnit, error) {
	return loader.Load(path, loader.Options{
		Logger:         logger,
		CacheSize:      cfg.RuleCacheSize,
		RelativeToFlow: fo.Relative,
	})
}

// compilerOptions maps CLI switches to builder options.
func compilerOptions(fo FlowOptions, logger *slog.Logger) compiler.Options {
	return compiler.Options{
		AutoWire:    fo.AutoWire,
		StrictEdges: fo.StrictEdges,
		Logger:      logger,
	}
}

// CompileFile loads, resolves and builds the flow at path.
// This is a helper function for external callers.
func CompileFile(path string, fo FlowOptions) (*flow.Graph, error) {
	units, err := loadFlow(path, DefaultConfig(), fo, nil)
	if err != nil {
		return nil, err
	}
	return compiler.Build(units, compilerOptions(fo, nil))
}

// addFlowFlags registers the shared switches with defaults from cfg.
func addFlowFlags(cmd *cobra.Command, fo *FlowOptions, cfg Config) {
	flags := cmd.Flags()
	flags.BoolVar(&fo.AutoWire, "autowire", cfg.AutoWire, "connect request/response to units without sources/targets")
	flags.BoolVar(&fo.StrictEdges, "strict-edges", cfg.StrictEdges, "reject edges declared more than once")
	flags.BoolVar(&fo.Relative, "relative", false, "resolve rule paths relative to the flow file")
}
