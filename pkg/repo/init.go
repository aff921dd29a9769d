package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/odvcencio/ugit/pkg/object"
)

var (
	// ErrNoRepository reports that no metadata directory was found at the
	// given path or any of its ancestors.
	ErrNoRepository = errors.New("not a ugit repository")

	// ErrRepositoryExists reports an Init at a path that already lives
	// inside a repository.
	ErrRepositoryExists = errors.New("repository already exists")
)

// Init creates a new repository at path. It creates the .ugit/ directory
// with objects/, refs/heads/, refs/tags/, and logs/, and writes the default
// config. HEAD is not created; it appears with the first commit. Init fails
// when path is already inside a repository, its own or an ancestor's.
func Init(path string) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("init: abs path: %w", err)
	}

	if root, ok := discover(abs); ok {
		return nil, fmt.Errorf("init: %w at %s", ErrRepositoryExists, filepath.Join(root, MetaDirName))
	}

	ugitDir := filepath.Join(abs, MetaDirName)
	dirs := []string{
		filepath.Join(ugitDir, "objects"),
		filepath.Join(ugitDir, "refs", "heads"),
		filepath.Join(ugitDir, "refs", "tags"),
		filepath.Join(ugitDir, "logs"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("init: mkdir %s: %w", d, err)
		}
	}

	r := &Repo{
		RootDir: abs,
		UgitDir: ugitDir,
		Store:   object.NewStore(ugitDir),
	}
	if err := r.WriteConfig(DefaultConfig()); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	return r, nil
}

// Open searches upward from path for a .ugit/ directory and opens the
// repository. Returns ErrNoRepository if none is found.
func Open(path string) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}

	root, ok := discover(abs)
	if !ok {
		return nil, fmt.Errorf("open %s: %w (no %s in any parent)", path, ErrNoRepository, MetaDirName)
	}
	ugitDir := filepath.Join(root, MetaDirName)
	return &Repo{
		RootDir: root,
		UgitDir: ugitDir,
		Store:   object.NewStore(ugitDir),
	}, nil
}

// discover walks from dir toward the filesystem root looking for a metadata
// directory, returning the directory that contains it.
func discover(dir string) (string, bool) {
	cur := dir
	for {
		info, err := os.Stat(filepath.Join(cur, MetaDirName))
		if err == nil && info.IsDir() {
			return cur, true
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return "", false
		}
		cur = parent
	}
}
