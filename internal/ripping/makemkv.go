package ripping

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Executor abstracts subprocess execution for MakeMKV calls, grounded on the
// teacher's disc.Executor/makemkv.Executor pattern.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) ([]byte, error)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	return exec.CommandContext(ctx, binary, args...).Output() //nolint:gosec
}

// MakeMKVClient implements Scanner and RipClient against the MakeMKV CLI's
// robot-mode output, grounded on the teacher's disc.makeMKVParser (TINFO
// record parsing) and services/makemkv.Client (rip invocation).
type MakeMKVClient struct {
	binary     string
	exec       Executor
	ripTimeout time.Duration
}

// NewMakeMKVClient constructs a MakeMKV-backed scanner/ripper.
func NewMakeMKVClient(binary string, ripTimeoutSeconds int) *MakeMKVClient {
	if binary == "" {
		binary = "makemkvcon"
	}
	return &MakeMKVClient{
		binary:     binary,
		exec:       commandExecutor{},
		ripTimeout: time.Duration(ripTimeoutSeconds) * time.Second,
	}
}

// NewMakeMKVClientWithExecutor allows injecting a fake executor for tests.
func NewMakeMKVClientWithExecutor(binary string, ripTimeoutSeconds int, exec Executor) *MakeMKVClient {
	c := NewMakeMKVClient(binary, ripTimeoutSeconds)
	if exec != nil {
		c.exec = exec
	}
	return c
}

// ScanTitles runs `makemkvcon -r info disc:0` and parses the TINFO records
// into the title list the main-title selector consumes (spec.md §4.3 step 3).
func (c *MakeMKVClient) ScanTitles(ctx context.Context, driveID string) ([]TitleInfo, error) {
	output, err := c.exec.Run(ctx, c.binary, []string{"-r", "info", "disc:" + driveID})
	if err != nil {
		return nil, fmt.Errorf("makemkv info: %w", err)
	}
	return parseTitleInfo(output), nil
}

// Rip executes MakeMKV against the selected title, returning the produced
// file path.
func (c *MakeMKVClient) Rip(ctx context.Context, driveID string, title TitleInfo, destDir string, progress func(ProgressUpdate)) (string, error) {
	ripCtx := ctx
	if c.ripTimeout > 0 {
		var cancel context.CancelFunc
		ripCtx, cancel = context.WithTimeout(ctx, c.ripTimeout)
		defer cancel()
	}

	args := []string{"-r", "--progress=-same", "mkv", "disc:" + driveID, strconv.Itoa(title.ID), destDir}
	if _, err := c.exec.Run(ripCtx, c.binary, args); err != nil {
		return "", fmt.Errorf("makemkv rip: %w", err)
	}

	path, err := newestMKVIn(destDir)
	if err != nil {
		return "", fmt.Errorf("inspect rip output: %w", err)
	}
	if path == "" {
		return "", errors.New("makemkv produced no output file; check disc for read errors")
	}
	return path, nil
}

func newestMKVIn(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}

	var best string
	var bestMod time.Time
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".mkv") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if best == "" || info.ModTime().After(bestMod) {
			best = filepath.Join(dir, entry.Name())
			bestMod = info.ModTime()
		}
	}
	return best, nil
}

// parseTitleInfo extracts TINFO records (attribute 9 = duration, attribute
// 27 = file size in bytes, attribute 10 = Filename; all other attributes,
// including 2 = name, are ignored) into TitleInfo, mirroring the teacher's
// disc.extractTitles but keyed to the fields SelectMainTitle needs.
func parseTitleInfo(output []byte) []TitleInfo {
	type accum struct {
		id       int
		duration int
		size     int64
		filename string
	}
	byID := map[int]*accum{}

	for _, line := range strings.Split(string(output), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "TINFO:") {
			continue
		}
		parts := strings.SplitN(strings.TrimPrefix(line, "TINFO:"), ",", 4)
		if len(parts) < 4 {
			continue
		}
		titleID, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			continue
		}
		attrID, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			continue
		}
		value := strings.Trim(strings.TrimSpace(parts[3]), "\"")

		entry, ok := byID[titleID]
		if !ok {
			entry = &accum{id: titleID}
			byID[titleID] = entry
		}
		switch attrID {
		case 9:
			entry.duration = parseHMSDuration(value)
		case 10:
			entry.filename = value
		case 27:
			if size, err := strconv.ParseInt(value, 10, 64); err == nil {
				entry.size = size
			}
		}
	}

	ids := make([]int, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	titles := make([]TitleInfo, 0, len(ids))
	for _, id := range ids {
		e := byID[id]
		titles = append(titles, TitleInfo{ID: e.id, DurationSeconds: e.duration, SizeBytes: e.size, Filename: e.filename})
	}
	return titles
}

func parseHMSDuration(value string) int {
	segments := strings.Split(value, ":")
	if len(segments) != 3 {
		return 0
	}
	hours, err1 := strconv.Atoi(segments[0])
	minutes, err2 := strconv.Atoi(segments[1])
	seconds, err3 := strconv.Atoi(segments[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return 0
	}
	return hours*3600 + minutes*60 + seconds
}
