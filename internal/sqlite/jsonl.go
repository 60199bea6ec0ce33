// This file provides JSONL helpers for the transfer audit mirror.
package sqlite

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mesh-intelligence/lockbox/pkg/types"
)

// appendAuditLine appends one transfer record to the JSONL audit file and
// syncs it to disk before returning.
func appendAuditLine(path string, t *types.Transfer) error {
	line, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encoding transfer: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("syncing %s: %w", path, err)
	}
	return nil
}

// readAuditLines reads the JSONL audit file. Malformed lines are skipped;
// the database remains the source of truth, the mirror is best effort.
func readAuditLines(path string) ([]*types.Transfer, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []*types.Transfer
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var t types.Transfer
		if err := json.Unmarshal(line, &t); err != nil {
			continue
		}
		records = append(records, &t)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return records, nil
}
