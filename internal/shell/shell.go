// Package shell runs external commands. The pipeline's long-running calls
// (image build, sam package/publish) are synchronous, blocking subprocesses
// with no internal timeout beyond context cancellation.
package shell

import (
	"context"
	"fmt"
	"io"
	"os/exec"
)

// Command describes one external command invocation.
type Command struct {
	Name  string
	Args  []string
	Dir   string
	Stdin io.Reader
}

// Runner executes external commands.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// New returns a Runner backed by os/exec, streaming subprocess output to
// the given writers.
func New(out, errOut io.Writer) *ExecRunner {
	return &ExecRunner{out: out, errOut: errOut}
}

type ExecRunner struct {
	out    io.Writer
	errOut io.Writer
}

func (r *ExecRunner) Run(ctx context.Context, cmd Command) error {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Stdin = cmd.Stdin
	c.Stdout = r.out
	c.Stderr = r.errOut

	if err := c.Run(); err != nil {
		return fmt.Errorf("running %s: %w", cmd.Name, err)
	}

	return nil
}
