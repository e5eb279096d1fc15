package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/orb/internal/compiler"
	"github.com/roach88/orb/internal/flow"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	FlowOptions
	Output string // output file path
	Digest bool   // print the graph digest
}

// CompilationResult is the JSON payload of a successful compile.
type CompilationResult struct {
	Graph  *flow.Graph      `json:"graph"`
	Digest string           `json:"digest,omitempty"`
	Stats  CompilationStats `json:"stats"`
}

// CompilationStats holds summary statistics.
type CompilationStats struct {
	UnitCount       int `json:"units"`
	TableCount      int `json:"tables"`
	ExpressionCount int `json:"expressions"`
	FunctionCount   int `json:"functions"`
	EdgeCount       int `json:"edges"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:     "compile <flow-file>",
		Aliases: []string{"resolve"},
		Short:   "Compile a decision flow into a decision graph",
		Long: `Compile a decision flow file into a decision graph.

The compiler reads the flow (.json, .yaml, .cue or .hcl), resolves each
decision unit's rules (CSV/JSON tables, expressions, function sources),
and prints the resulting graph of nodes and edges.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the graph as JSON to this file")
	cmd.Flags().BoolVar(&opts.Digest, "digest", false, "print the graph digest")
	addFlowFlags(cmd, &opts.FlowOptions, rootOpts.Config)

	return cmd
}

func runCompile(opts *CompileOptions, flowPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
		TraceID:   uuid.NewString(),
	}
	logger := formatter.Logger().With("trace_id", formatter.TraceID)

	units, err := loadFlow(flowPath, opts.Config, opts.FlowOptions, logger)
	if err != nil {
		return outputCompileError(formatter, err)
	}

	graph, err := compiler.Build(units, compilerOptions(opts.FlowOptions, logger))
	if err != nil {
		return outputCompileError(formatter, err)
	}

	result := &CompilationResult{
		Graph: graph,
		Stats: calculateStats(units, graph),
	}
	if opts.Digest {
		if result.Digest, err = flow.Digest(graph); err != nil {
			return outputCompileError(formatter, err)
		}
	}

	// Write to file if --output specified
	if opts.Output != "" {
		if err := writeGraphToFile(graph, opts.Output); err != nil {
			_ = formatter.Error(ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
			return WrapExitError(ExitCommandError, ErrCodeWriteFailed, err)
		}
	}

	return outputCompileSuccess(formatter, result, opts.Output)
}

// calculateStats computes summary statistics from compilation result.
func calculateStats(units []flow.ResolvedUnit, graph *flow.Graph) CompilationStats {
	stats := CompilationStats{
		UnitCount: len(units),
		EdgeCount: len(graph.Edges),
	}

	for _, unit := range units {
		switch unit.Kind {
		case flow.KindTable:
			stats.TableCount++
		case flow.KindExpression:
			stats.ExpressionCount++
		case flow.KindFunction:
			stats.FunctionCount++
		}
	}

	return stats
}

// outputCompileSuccess outputs successful compilation results.
func outputCompileSuccess(formatter *OutputFormatter, result *CompilationResult, outputFile string) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	// Human-readable text output
	fmt.Fprintf(formatter.Writer, "✓ Compiled %d unit(s): %d table(s), %d expression(s), %d function(s)\n\n",
		result.Stats.UnitCount, result.Stats.TableCount, result.Stats.ExpressionCount, result.Stats.FunctionCount)

	if err := result.Graph.WriteText(formatter.Writer); err != nil {
		return err
	}

	if result.Digest != "" {
		fmt.Fprintf(formatter.Writer, "\ndigest: %s\n", result.Digest)
	}
	if outputFile != "" {
		fmt.Fprintf(formatter.Writer, "\nWrote graph to %s\n", outputFile)
	}

	return nil
}

// outputCompileError reports a load, resolution or build failure.
func outputCompileError(formatter *OutputFormatter, err error) error {
	if formatter.Format != "json" {
		fmt.Fprintln(formatter.Writer, "✗ Compilation failed")
		fmt.Fprintln(formatter.Writer)
	}
	_ = formatter.FlowError(err)

	code := flow.CodeOf(err)
	if code == "" {
		code = ErrCodeGeneric
	}
	// Compilation errors are command-level errors (exit code 2)
	return WrapExitError(ExitCommandError, code, err)
}

// writeGraphToFile writes the graph as indented JSON.
func writeGraphToFile(graph *flow.Graph, filename string) error {
	data, err := json.MarshalIndent(graph, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling graph: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	return nil
}
