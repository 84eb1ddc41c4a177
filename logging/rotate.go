package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"time"
)

// CanonicalLogs lists the six log files the Orchestrator maintains in the
// log directory: the daemon's own log, a verbose debug log, and one log
// per supervised surface (the control GUI relay, and the three children).
var CanonicalLogs = []string{
	"daemon.log",
	"debug.log",
	"gui.log",
	"audio-engine.log",
	"runtime-server.log",
	"beam-child.log",
}

// maxHistorySnapshots bounds how many rotated snapshots are retained.
const maxHistorySnapshots = 10

// RotateLogs implements Orchestrator startup step 2: every existing *.log
// file in dir is copied into a timestamped subdirectory of dir/history,
// and the CanonicalLogs among them are then truncated in place so the new
// boot starts with empty logs. History is pruned to the most recent maxHistorySnapshots
// subdirectories.
//
// RotateLogs never fails the caller: missing source files are skipped,
// and I/O errors are reported to stderr once and otherwise ignored, the
// same degrade-and-continue policy the rest of this package uses for
// logging infrastructure itself.
func RotateLogs(dir string) error {
	historyDir := filepath.Join(dir, "history")
	if err := os.MkdirAll(historyDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "logging: could not create history dir %s: %v\n", historyDir, err)
		return nil
	}

	snapshot := filepath.Join(historyDir, time.Now().Format("20060102T150405.000000000"))

	sources, _ := filepath.Glob(filepath.Join(dir, "*.log"))

	anyCopied := false
	for _, src := range sources {
		name := filepath.Base(src)
		data, err := os.ReadFile(src)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			fmt.Fprintf(os.Stderr, "logging: could not read %s: %v\n", src, err)
			continue
		}

		if !anyCopied {
			if err := os.MkdirAll(snapshot, 0755); err != nil {
				fmt.Fprintf(os.Stderr, "logging: could not create snapshot dir %s: %v\n", snapshot, err)
				return nil
			}
			anyCopied = true
		}

		dst := filepath.Join(snapshot, name)
		if err := os.WriteFile(dst, data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "logging: could not write %s: %v\n", dst, err)
			continue
		}

		if !slices.Contains(CanonicalLogs, name) {
			continue
		}
		if err := os.Truncate(src, 0); err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "logging: could not truncate %s: %v\n", src, err)
		}
	}

	pruneHistory(historyDir)
	return nil
}

// pruneHistory removes the oldest snapshot subdirectories so that at most
// maxHistorySnapshots remain.
func pruneHistory(historyDir string) {
	entries, err := os.ReadDir(historyDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: could not list history dir %s: %v\n", historyDir, err)
		return
	}

	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Name())
		}
	}
	sort.Strings(dirs)

	if len(dirs) <= maxHistorySnapshots {
		return
	}

	toRemove := dirs[:len(dirs)-maxHistorySnapshots]
	for _, name := range toRemove {
		path := filepath.Join(historyDir, name)
		if err := os.RemoveAll(path); err != nil {
			fmt.Fprintf(os.Stderr, "logging: could not prune history snapshot %s: %v\n", path, err)
		}
	}
}
