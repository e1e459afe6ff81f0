package discprobe

import (
	"context"
	"os/exec"
)

// Executor abstracts subprocess execution so label lookup is testable
// without a real optical drive, grounded on the teacher's disc.Executor.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) ([]byte, error)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	return exec.CommandContext(ctx, binary, args...).Output() //nolint:gosec
}
