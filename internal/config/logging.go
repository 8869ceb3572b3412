package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const logFilePrefix = "claims-api-"

// SetupLogFile creates a timestamped log file under dir and prunes older
// ones so at most maxFiles remain. The caller owns the returned handle.
func SetupLogFile(dir string, maxFiles int) (*os.File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	name := logFilePrefix + time.Now().Format("2006-01-02T15-04-05") + ".log"
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	if err := pruneLogs(dir, maxFiles); err != nil {
		// Pruning failures are not worth losing the server over.
		fmt.Fprintf(os.Stderr, "warning: prune old logs: %v\n", err)
	}

	return f, nil
}

// pruneLogs deletes the oldest log files once the count exceeds keep. The
// timestamp in the name sorts chronologically, so a name sort suffices.
func pruneLogs(dir string, keep int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, logFilePrefix) && strings.HasSuffix(name, ".log") {
			names = append(names, name)
		}
	}
	if len(names) <= keep {
		return nil
	}

	sort.Strings(names)
	for _, name := range names[:len(names)-keep] {
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("remove %s: %w", name, err)
		}
	}
	return nil
}
