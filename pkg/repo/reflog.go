package repo

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/odvcencio/ugit/pkg/object"
)

const zeroOID = "0000000000000000000000000000000000000000000000000000000000000000"

// ReflogEntry is one line of a ref's history: the transition a single write
// performed, when, and why.
type ReflogEntry struct {
	Location  string
	OldOID    object.OID
	NewOID    object.OID
	Timestamp int64
	Reason    string
}

// appendReflog records a ref transition under logs/<location>. Absent sides
// of the transition are written as the zero OID.
func (r *Repo) appendReflog(location string, oldOID, newOID object.OID, reason string) error {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil
	}
	if strings.TrimSpace(reason) == "" {
		reason = "update"
	}

	logPath := filepath.Join(r.UgitDir, "logs", filepath.FromSlash(location))
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("reflog mkdir: %w", err)
	}

	old := string(oldOID)
	if strings.TrimSpace(old) == "" {
		old = zeroOID
	}
	newVal := string(newOID)
	if strings.TrimSpace(newVal) == "" {
		newVal = zeroOID
	}
	line := fmt.Sprintf("%s %s %d %s\n", old, newVal, time.Now().Unix(), reason)

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("reflog open: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("reflog write: %w", err)
	}
	return nil
}

// ReadReflog returns the history of the named ref, newest first. Name may be
// empty or "HEAD" for HEAD, a full location under refs/, or a bare branch
// name. A ref with no log yields no entries and no error. Limit > 0 caps the
// result.
func (r *Repo) ReadReflog(name string, limit int) ([]ReflogEntry, error) {
	location := resolveReflogLocation(name)

	logPath := filepath.Join(r.UgitDir, "logs", filepath.FromSlash(location))
	f, err := os.Open(logPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read reflog: %w", err)
	}
	defer f.Close()

	var entries []ReflogEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, " ", 4)
		if len(parts) < 4 {
			continue
		}
		ts, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			continue
		}
		entries = append(entries, ReflogEntry{
			Location:  location,
			OldOID:    object.OID(parts[0]),
			NewOID:    object.OID(parts[1]),
			Timestamp: ts,
			Reason:    parts[3],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read reflog: %w", err)
	}

	// Return newest first.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func resolveReflogLocation(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || name == headLocation {
		return headLocation
	}
	if strings.HasPrefix(name, "refs/") {
		return name
	}
	return branchLocation(name)
}
