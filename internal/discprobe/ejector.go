package discprobe

import (
	"context"
	"fmt"
	"os/exec"
)

// Ejector opens a drive's tray, grounded on the teacher's disc.Ejector.
type Ejector interface {
	Eject(ctx context.Context, device string) error
}

type commandEjector struct{}

// NewEjector returns an ejector that shells out to the eject utility.
func NewEjector() Ejector {
	return commandEjector{}
}

func (commandEjector) Eject(ctx context.Context, device string) error {
	var cmd *exec.Cmd
	if device == "" {
		cmd = exec.CommandContext(ctx, "eject")
	} else {
		cmd = exec.CommandContext(ctx, "eject", device)
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("eject %s: %w", device, err)
	}
	return nil
}
