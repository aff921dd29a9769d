package repo

import (
	"fmt"

	"github.com/odvcencio/ugit/pkg/object"
)

// Commit snapshots the working directory, stores a commit whose parent is
// the current HEAD, and moves HEAD to the result. The first commit in a
// repository has no parent.
func (r *Repo) Commit(message string) (object.OID, error) {
	treeOID, err := r.WriteTree(r.RootDir)
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	parent, err := r.Head()
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	oid, err := r.Store.WriteCommit(&object.Commit{
		Tree:    treeOID,
		Parent:  parent,
		Message: message,
	})
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	if err := r.writeRef(RefValue{Value: string(oid), Location: headLocation}, true, "commit"); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return oid, nil
}

// GetCommit reads and decodes the commit at oid.
func (r *Repo) GetCommit(oid object.OID) (*object.Commit, error) {
	return r.Store.ReadCommit(oid)
}

// LogEntry pairs a commit with its OID during a history walk.
type LogEntry struct {
	OID    object.OID
	Commit *object.Commit
}

// Log walks the parent chain from the given commit, newest first. Limit > 0
// caps the number of entries.
func (r *Repo) Log(from object.OID, limit int) ([]LogEntry, error) {
	var out []LogEntry
	cur := from
	for cur != "" {
		if limit > 0 && len(out) >= limit {
			break
		}
		c, err := r.GetCommit(cur)
		if err != nil {
			return nil, fmt.Errorf("log: %w", err)
		}
		out = append(out, LogEntry{OID: cur, Commit: c})
		cur = c.Parent
	}
	return out, nil
}
