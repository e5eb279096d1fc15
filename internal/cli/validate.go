package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/orb/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool                       `json:"valid"`
	Errors   []compiler.ValidationError `json:"errors,omitempty"`
	Warnings []compiler.ValidationError `json:"warnings,omitempty"`
}

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	FlowOptions
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <flow-file>",
		Short: "Check a decision flow without printing the graph",
		Long: `Validate a decision flow file.

Loads the flow and resolves every rule source, then reports all structural
problems at once: reserved or duplicate ids, references to unknown units,
and (with --strict-edges) dependencies declared more than once.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	addFlowFlags(cmd, &opts.FlowOptions, rootOpts.Config)

	return cmd
}

func runValidate(opts *ValidateOptions, flowPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
		TraceID:   uuid.NewString(),
	}
	logger := formatter.Logger().With("trace_id", formatter.TraceID)

	// Load and resolution failures stop validation outright
	units, err := loadFlow(flowPath, opts.Config, opts.FlowOptions, logger)
	if err != nil {
		_ = formatter.FlowError(err)
		return WrapExitError(ExitCommandError, "loading flow", err)
	}
	formatter.verboseLog("Resolved %d unit(s) from %s", len(units), flowPath)

	problems := compiler.Validate(units, compilerOptions(opts.FlowOptions, logger))

	var result ValidationResult
	for _, p := range problems {
		if p.Severity == compiler.SeverityError {
			result.Errors = append(result.Errors, p)
		} else {
			result.Warnings = append(result.Warnings, p)
		}
	}
	result.Valid = len(result.Errors) == 0

	if !result.Valid {
		return outputValidationErrors(formatter, result)
	}
	return outputValidateSuccess(formatter, result)
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintln(formatter.Writer, "✓ Flow valid")
	writeProblems(formatter, result.Warnings)
	return nil
}

// outputValidationErrors outputs every validation problem.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    result.Errors[0].Code,
				Message: result.Errors[0].Message,
			},
			TraceID: formatter.TraceID,
		}
		if err := formatter.encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(result.Errors)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	writeProblems(formatter, result.Errors)
	writeProblems(formatter, result.Warnings)

	// Validation failures = exit code 1
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(result.Errors)))
}

func writeProblems(formatter *OutputFormatter, problems []compiler.ValidationError) {
	for _, p := range problems {
		fmt.Fprintln(formatter.Writer)
		if p.UnitID != "" {
			fmt.Fprintf(formatter.Writer, "unit %s (%s)\n", p.UnitID, p.Field)
		}
		fmt.Fprintf(formatter.Writer, "  %s %s: %s\n", p.Severity, p.Code, p.Message)
	}
}
