// Command orb compiles decision flow files into decision graphs.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/orb/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	err := cmd.Execute()
	if err == nil {
		return
	}

	// Commands print their own diagnostics before returning an ExitError.
	// Anything else (bad flags, wrong arg count) is reported here.
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCommandError)
	}
	os.Exit(cli.GetExitCode(err))
}
