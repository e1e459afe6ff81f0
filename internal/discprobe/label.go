package discprobe

import (
	"context"
	"strings"
)

// blkidBinary is the subprocess used to read the volume label off a
// mounted-or-not optical device. Parsing its stdout is the "thin operational
// wrapper" spec.md §1 declares out of scope for the core beyond the
// (has_disc, label) contract.
const blkidBinary = "blkid"

func readLabel(ctx context.Context, exec Executor, devicePath string) string {
	output, err := exec.Run(ctx, blkidBinary, []string{"-o", "value", "-s", "LABEL", devicePath})
	if err != nil {
		return ""
	}
	return parseLabelOutput(output)
}

// parseLabelOutput trims the single line blkid -o value emits. Isolated as a
// pure function so it is testable without a subprocess, per the teacher's
// "parsers are pure functions adjacent to the spawner" convention.
func parseLabelOutput(output []byte) string {
	return strings.TrimSpace(string(output))
}
