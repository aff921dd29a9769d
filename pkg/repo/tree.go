package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/odvcencio/ugit/pkg/object"
)

// ErrUnsupportedEntry reports a directory entry or tree entry of a kind the
// data model cannot represent, such as a symlink or device node.
var ErrUnsupportedEntry = errors.New("unsupported entry")

// TreeFileEntry represents a single file in a flattened tree.
type TreeFileEntry struct {
	Path string // forward-slash path relative to the tree root
	OID  object.OID
}

// WriteTree snapshots the directory rooted at dir into the object store and
// returns the root tree OID. Entries are visited in sorted order, so the same
// directory contents always produce the same OID. The ignore patterns from
// repository config apply at every level; symlinks and other non-regular
// entries are an error.
func (r *Repo) WriteTree(dir string) (object.OID, error) {
	cfg, err := r.ReadConfig()
	if err != nil {
		return "", fmt.Errorf("write tree: %w", err)
	}
	return r.writeTreeDir(dir, "", NewIgnoreChecker(cfg))
}

func (r *Repo) writeTreeDir(dir, prefix string, ic *IgnoreChecker) (object.OID, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("write tree %q: %w", dir, err)
	}

	tree := &object.Tree{}
	for _, e := range entries {
		rel := e.Name()
		if prefix != "" {
			rel = prefix + "/" + e.Name()
		}
		if ic.IsIgnored(rel) {
			continue
		}

		full := filepath.Join(dir, e.Name())
		info, err := e.Info()
		if err != nil {
			return "", fmt.Errorf("write tree %q: %w", full, err)
		}

		switch {
		case info.Mode().IsRegular():
			data, err := os.ReadFile(full)
			if err != nil {
				return "", fmt.Errorf("write tree: read %q: %w", rel, err)
			}
			oid, err := r.Store.WriteBlob(data)
			if err != nil {
				return "", fmt.Errorf("write tree: %w", err)
			}
			tree.Entries = append(tree.Entries, object.TreeEntry{Type: object.TypeBlob, OID: oid, Name: e.Name()})
		case info.IsDir():
			oid, err := r.writeTreeDir(full, rel, ic)
			if err != nil {
				return "", err
			}
			tree.Entries = append(tree.Entries, object.TreeEntry{Type: object.TypeTree, OID: oid, Name: e.Name()})
		default:
			return "", fmt.Errorf("write tree: %q: %w (mode %s)", rel, ErrUnsupportedEntry, info.Mode())
		}
	}

	oid, err := r.Store.WriteTree(tree)
	if err != nil {
		return "", fmt.Errorf("write tree: %w", err)
	}
	return oid, nil
}

// ReadTree replaces the contents of dir with the tree named by oid. A
// repository must be discoverable from dir; everything non-ignored under dir
// is then removed and the tree is expanded in its place. The empty-then-
// restore sequence carries no atomicity guarantee: a crash can leave dir
// partially emptied or partially restored.
func (r *Repo) ReadTree(oid object.OID, dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("read tree: abs path: %w", err)
	}
	if _, ok := discover(abs); !ok {
		return fmt.Errorf("read tree into %q: %w", dir, ErrNoRepository)
	}

	cfg, err := r.ReadConfig()
	if err != nil {
		return fmt.Errorf("read tree: %w", err)
	}
	ic := NewIgnoreChecker(cfg)

	// Expand before touching the filesystem, so a bad OID cannot cost the
	// caller their working directory.
	files, dirs, err := r.flattenTree(oid, "")
	if err != nil {
		return fmt.Errorf("read tree: %w", err)
	}

	if err := os.MkdirAll(abs, 0o755); err != nil {
		return fmt.Errorf("read tree: mkdir %q: %w", abs, err)
	}
	if err := emptyDir(abs, "", ic); err != nil {
		return fmt.Errorf("read tree: empty %q: %w", abs, err)
	}

	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(abs, filepath.FromSlash(d)), 0o755); err != nil {
			return fmt.Errorf("read tree: mkdir %q: %w", d, err)
		}
	}
	for _, f := range files {
		data, err := r.Store.ReadBlob(f.OID)
		if err != nil {
			return fmt.Errorf("read tree: %w", err)
		}
		dest := filepath.Join(abs, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return fmt.Errorf("read tree: mkdir for %q: %w", f.Path, err)
		}
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			return fmt.Errorf("read tree: write %q: %w", f.Path, err)
		}
	}
	return nil
}

// FlattenTree walks a tree object recursively, returning all file entries
// with their full forward-slash paths.
func (r *Repo) FlattenTree(oid object.OID) ([]TreeFileEntry, error) {
	files, _, err := r.flattenTree(oid, "")
	return files, err
}

// flattenTree accumulates the files and the directories a tree expands to.
// Directories are tracked separately so empty ones survive a round-trip.
func (r *Repo) flattenTree(oid object.OID, prefix string) ([]TreeFileEntry, []string, error) {
	tree, err := r.Store.ReadTree(oid)
	if err != nil {
		return nil, nil, err
	}

	var files []TreeFileEntry
	var dirs []string
	for _, e := range tree.Entries {
		p := e.Name
		if prefix != "" {
			p = prefix + "/" + e.Name
		}
		switch e.Type {
		case object.TypeBlob:
			files = append(files, TreeFileEntry{Path: p, OID: e.OID})
		case object.TypeTree:
			dirs = append(dirs, p)
			subFiles, subDirs, err := r.flattenTree(e.OID, p)
			if err != nil {
				return nil, nil, err
			}
			files = append(files, subFiles...)
			dirs = append(dirs, subDirs...)
		default:
			return nil, nil, fmt.Errorf("tree %s: entry %q: %w (type %q)", oid, p, ErrUnsupportedEntry, e.Type)
		}
	}
	return files, dirs, nil
}

// emptyDir removes everything under dir except ignored entries. Directories
// are cleared depth-first and then removed best-effort: a directory that
// still holds ignored files simply stays.
func emptyDir(dir, prefix string, ic *IgnoreChecker) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		rel := e.Name()
		if prefix != "" {
			rel = prefix + "/" + e.Name()
		}
		if ic.IsIgnored(rel) {
			continue
		}

		full := filepath.Join(dir, e.Name())
		if e.IsDir() {
			if err := emptyDir(full, rel, ic); err != nil {
				return err
			}
			os.Remove(full)
			continue
		}
		if err := os.Remove(full); err != nil {
			return err
		}
	}
	return nil
}
