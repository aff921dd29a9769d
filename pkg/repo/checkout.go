package repo

import (
	"fmt"

	"github.com/odvcencio/ugit/pkg/object"
)

// Checkout restores the working directory to the commit that name resolves
// to and points HEAD at that commit. HEAD is overwritten without
// dereferencing, so it ends up holding the OID directly even when name was a
// branch.
func (r *Repo) Checkout(name string) error {
	oid, ok, err := r.Locate(name)
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	if !ok {
		return fmt.Errorf("checkout: unknown revision %q", name)
	}

	commit, err := r.GetCommit(oid)
	if err != nil {
		return fmt.Errorf("checkout %s: %w", oid, err)
	}

	if err := r.ReadTree(commit.Tree, r.RootDir); err != nil {
		return fmt.Errorf("checkout %s: %w", oid, err)
	}

	if err := r.writeRef(RefValue{Value: string(oid), Location: headLocation}, false, "checkout"); err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	return nil
}

// ResolveOrHead resolves name when given, or falls back to HEAD. It reports
// ok=false when neither yields a commit.
func (r *Repo) ResolveOrHead(name string) (object.OID, bool, error) {
	if name == "" {
		name = "@"
	}
	return r.Locate(name)
}
