package repo

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// Test 1: Init creates the .ugit/ structure.
func TestInit_CreatesStructure(t *testing.T) {
	dir := t.TempDir()

	r, err := Init(dir)
	if err != nil {
		t.Fatalf("Init(%q): %v", dir, err)
	}
	if r.RootDir != dir {
		t.Errorf("RootDir = %q, want %q", r.RootDir, dir)
	}

	ugitDir := filepath.Join(dir, ".ugit")
	if r.UgitDir != ugitDir {
		t.Errorf("UgitDir = %q, want %q", r.UgitDir, ugitDir)
	}

	assertDir(t, ugitDir)
	assertDir(t, filepath.Join(ugitDir, "objects"))
	assertDir(t, filepath.Join(ugitDir, "refs", "heads"))
	assertDir(t, filepath.Join(ugitDir, "refs", "tags"))
	assertDir(t, filepath.Join(ugitDir, "logs"))
	assertFile(t, filepath.Join(ugitDir, "config.toml"))

	// HEAD does not exist until the first commit.
	if _, err := os.Stat(filepath.Join(ugitDir, "HEAD")); !os.IsNotExist(err) {
		t.Errorf("HEAD should not exist after Init, stat err = %v", err)
	}

	if r.Store == nil {
		t.Error("Store is nil after Init")
	}
}

// Test 2: Init on an existing repo returns ErrRepositoryExists.
func TestInit_ExistingRepo_Error(t *testing.T) {
	dir := t.TempDir()

	if _, err := Init(dir); err != nil {
		t.Fatalf("first Init: %v", err)
	}

	_, err := Init(dir)
	if !errors.Is(err, ErrRepositoryExists) {
		t.Fatalf("second Init: got %v, want ErrRepositoryExists", err)
	}
}

// Test 3: Init inside a subdirectory of an existing repo also fails, since
// the enclosing repository is discoverable from there.
func TestInit_InsideExistingRepo_Error(t *testing.T) {
	dir := t.TempDir()

	if _, err := Init(dir); err != nil {
		t.Fatalf("Init: %v", err)
	}

	sub := filepath.Join(dir, "nested", "deeper")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	_, err := Init(sub)
	if !errors.Is(err, ErrRepositoryExists) {
		t.Fatalf("Init in subdirectory: got %v, want ErrRepositoryExists", err)
	}
}

// Test 4: Open finds .ugit/ from a subdirectory.
func TestOpen_FromSubdirectory(t *testing.T) {
	dir := t.TempDir()

	if _, err := Init(dir); err != nil {
		t.Fatalf("Init: %v", err)
	}

	sub := filepath.Join(dir, "a", "b", "c")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	r, err := Open(sub)
	if err != nil {
		t.Fatalf("Open(%q): %v", sub, err)
	}

	if r.RootDir != dir {
		t.Errorf("RootDir = %q, want %q", r.RootDir, dir)
	}
	if r.UgitDir != filepath.Join(dir, ".ugit") {
		t.Errorf("UgitDir = %q, want %q", r.UgitDir, filepath.Join(dir, ".ugit"))
	}
	if r.Store == nil {
		t.Error("Store is nil after Open")
	}
}

// Test 5: Open outside any repo returns ErrNoRepository.
func TestOpen_NoRepo_Error(t *testing.T) {
	dir := t.TempDir()

	_, err := Open(dir)
	if !errors.Is(err, ErrNoRepository) {
		t.Fatalf("Open: got %v, want ErrNoRepository", err)
	}
}

// Test 6: a stray .ugit file (not a directory) is not a repository.
func TestOpen_UgitFile_NotARepo(t *testing.T) {
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, ".ugit"), []byte("junk"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, err := Open(dir)
	if !errors.Is(err, ErrNoRepository) {
		t.Fatalf("Open: got %v, want ErrNoRepository", err)
	}
}

// Test 7: Init writes the default ignore patterns into config.
func TestInit_DefaultConfig(t *testing.T) {
	dir := t.TempDir()

	r, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	cfg, err := r.ReadConfig()
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	if len(cfg.Ignore) != 1 || cfg.Ignore[0] != "target" {
		t.Errorf("Ignore = %v, want [target]", cfg.Ignore)
	}
}

func assertDir(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Errorf("expected directory %q to exist: %v", path, err)
		return
	}
	if !info.IsDir() {
		t.Errorf("%q exists but is not a directory", path)
	}
}

func assertFile(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Errorf("expected file %q to exist: %v", path, err)
		return
	}
	if info.IsDir() {
		t.Errorf("%q exists but is a directory, expected file", path)
	}
}
