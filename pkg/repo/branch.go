package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// CreateBranch writes a branch ref under refs/heads/ pointing at the commit
// that start resolves to. An empty start means HEAD. Unlike tags, an
// existing branch is not overwritten.
func (r *Repo) CreateBranch(name, start string) error {
	name = strings.TrimSpace(name)
	if err := validateRefName(name); err != nil {
		return fmt.Errorf("create branch: %w", err)
	}

	existing, err := r.ReadRef(branchLocation(name), false)
	if err != nil {
		return fmt.Errorf("create branch: %w", err)
	}
	if existing.Value != "" {
		return fmt.Errorf("create branch: branch %q already exists", name)
	}

	if start == "" {
		start = "@"
	}
	oid, ok, err := r.Locate(start)
	if err != nil {
		return fmt.Errorf("create branch: %w", err)
	}
	if !ok {
		return fmt.Errorf("create branch: unknown revision %q", start)
	}

	if err := r.writeRef(RefValue{Value: string(oid), Location: branchLocation(name)}, true, "branch"); err != nil {
		return fmt.Errorf("create branch: %w", err)
	}
	return nil
}

// ListBranches lists branch names sorted alphabetically.
func (r *Repo) ListBranches() ([]string, error) {
	refs, err := r.ListRefs("heads")
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}

	names := make([]string, 0, len(refs))
	for location := range refs {
		names = append(names, strings.TrimPrefix(location, headsPrefix))
	}
	sort.Strings(names)
	return names, nil
}

// DeleteBranch removes a branch ref. The commits it pointed at stay in the
// object store.
func (r *Repo) DeleteBranch(name string) error {
	name = strings.TrimSpace(name)
	if err := validateRefName(name); err != nil {
		return fmt.Errorf("delete branch: %w", err)
	}

	refPath := filepath.Join(r.UgitDir, "refs", "heads", filepath.FromSlash(name))
	if err := os.Remove(refPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("delete branch: branch %q does not exist", name)
		}
		return fmt.Errorf("delete branch: %w", err)
	}
	return nil
}
