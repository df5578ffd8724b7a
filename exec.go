package macpack

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// Runner executes the external tools the pipeline drives. The production
// implementation shells out; tests substitute a recording one, and --dry-run
// substitutes one that only logs.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
	LookPath(name string) (string, error)
}

// NewRunner returns the Runner for normal operation, or the logging-only
// variant when dryRun is set.
func NewRunner(dryRun bool) Runner {
	if dryRun {
		return dryRunner{}
	}
	return execRunner{}
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) error {
	log.Debug().Str("tool", name).Strs("args", args).Msg("invoking")
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		// No retry, no recovery: the tool's own output is the diagnostic.
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func (execRunner) LookPath(name string) (string, error) { return exec.LookPath(name) }

type dryRunner struct{}

func (dryRunner) Run(ctx context.Context, name string, args ...string) error {
	log.Info().Str("tool", name).Strs("args", args).Msg("dry run, not invoking")
	return nil
}

func (dryRunner) LookPath(name string) (string, error) { return name, nil }
