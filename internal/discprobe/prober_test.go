package discprobe

import (
	"context"
	"errors"
	"testing"
)

type fakeExecutor struct {
	output []byte
	err    error
}

func (f fakeExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	return f.output, f.err
}

func TestProbeReportsNoDiscWhenTrayEmpty(t *testing.T) {
	prober := NewIOCTLProberWithExecutor(fakeExecutor{})
	prober.statusCheck = func(devicePath string) (DriveStatus, error) {
		return DriveStatusNoDisc, nil
	}

	result, err := prober.Probe(context.Background(), "/dev/sr0")
	if err != nil {
		t.Fatalf("probe returned error: %v", err)
	}
	if result.HasDisc {
		t.Fatal("expected HasDisc = false")
	}
	if result.Label != "" {
		t.Fatalf("expected empty label, got %q", result.Label)
	}
}

func TestProbeReadsLabelWhenDiscPresent(t *testing.T) {
	prober := NewIOCTLProberWithExecutor(fakeExecutor{output: []byte("THE_MATRIX\n")})
	prober.statusCheck = func(devicePath string) (DriveStatus, error) {
		return DriveStatusDiscOK, nil
	}

	result, err := prober.Probe(context.Background(), "/dev/sr0")
	if err != nil {
		t.Fatalf("probe returned error: %v", err)
	}
	if !result.HasDisc {
		t.Fatal("expected HasDisc = true")
	}
	if result.Label != "THE_MATRIX" {
		t.Fatalf("label = %q, want THE_MATRIX", result.Label)
	}
}

func TestProbeTreatsBlkidFailureAsEmptyLabel(t *testing.T) {
	prober := NewIOCTLProberWithExecutor(fakeExecutor{err: errors.New("blkid: not found")})
	prober.statusCheck = func(devicePath string) (DriveStatus, error) {
		return DriveStatusDiscOK, nil
	}

	result, err := prober.Probe(context.Background(), "/dev/sr0")
	if err != nil {
		t.Fatalf("probe returned error: %v", err)
	}
	if !result.HasDisc {
		t.Fatal("expected HasDisc = true even when label lookup fails")
	}
	if result.Label != "" {
		t.Fatalf("expected empty label on blkid failure, got %q", result.Label)
	}
}

func TestProbeSurfacesIoctlError(t *testing.T) {
	prober := NewIOCTLProberWithExecutor(fakeExecutor{})
	prober.statusCheck = func(devicePath string) (DriveStatus, error) {
		return DriveStatusNoInfo, errors.New("device busy")
	}

	result, err := prober.Probe(context.Background(), "/dev/sr0")
	if err == nil {
		t.Fatal("expected error from probe")
	}
	if result.HasDisc {
		t.Fatal("expected HasDisc = false on error")
	}
}

func TestParseLabelOutputTrimsWhitespace(t *testing.T) {
	if got := parseLabelOutput([]byte("  THE_MATRIX_DISC_1  \n")); got != "THE_MATRIX_DISC_1" {
		t.Fatalf("got %q", got)
	}
	if got := parseLabelOutput([]byte("\n")); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestDriveStatusString(t *testing.T) {
	if DriveStatusDiscOK.String() != "disc_ok" {
		t.Fatalf("unexpected string: %s", DriveStatusDiscOK.String())
	}
	if DriveStatus(99).String() != "unknown(99)" {
		t.Fatalf("unexpected string: %s", DriveStatus(99).String())
	}
}
