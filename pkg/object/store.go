package object

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrNotFound reports a lookup of an OID with no stored object behind it.
	ErrNotFound = errors.New("object not found")

	// ErrTypeMismatch reports a stored object whose tag differs from the
	// type the caller asked for.
	ErrTypeMismatch = errors.New("object type mismatch")
)

// Store is a content-addressed loose-object store with a flat layout: each
// object lives at objects/<oid>, where <oid> is the hex SHA-256 of the exact
// bytes in the file.
type Store struct {
	root string
}

// NewStore creates a Store rooted at the given metadata directory. The
// objects/ subdirectory is created lazily on first write.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// objectPath returns the filesystem path for a given OID.
func (s *Store) objectPath(oid OID) string {
	return filepath.Join(s.root, "objects", string(oid))
}

// Has reports whether the store contains an object with the given OID.
func (s *Store) Has(oid OID) bool {
	_, err := os.Stat(s.objectPath(oid))
	return err == nil
}

// Write stores a payload under its content address and returns the OID. The
// on-disk format is "tag\0payload", the same bytes the OID digests, so a
// stored file can be re-hashed to verify its name. Storing identical content
// twice is a no-op. Writes are atomic: data goes to a temp file and is then
// renamed into place.
func (s *Store) Write(typ ObjectType, payload []byte) (OID, error) {
	oid := HashObject(typ, payload)

	// Fast path: already exists.
	if s.Has(oid) {
		return oid, nil
	}

	raw := make([]byte, 0, len(typ)+1+len(payload))
	raw = append(raw, typ...)
	raw = append(raw, 0)
	raw = append(raw, payload...)

	dir := filepath.Join(s.root, "objects")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("object write mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("object write tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("object write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("object write close: %w", err)
	}

	if err := os.Rename(tmpName, s.objectPath(oid)); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("object write rename: %w", err)
	}

	return oid, nil
}

// Read retrieves an object by OID, returning its tag and payload.
func (s *Store) Read(oid OID) (ObjectType, []byte, error) {
	raw, err := os.ReadFile(s.objectPath(oid))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, fmt.Errorf("object read %s: %w", oid, ErrNotFound)
		}
		return "", nil, fmt.Errorf("object read %s: %w", oid, err)
	}

	// Parse envelope: "tag\0payload"
	nulIdx := bytes.IndexByte(raw, 0)
	if nulIdx < 0 {
		return "", nil, fmt.Errorf("object read %s: invalid format (no NUL)", oid)
	}
	return ObjectType(raw[:nulIdx]), raw[nulIdx+1:], nil
}

// readTyped reads an object and checks its tag against the expected type.
func (s *Store) readTyped(oid OID, want ObjectType) ([]byte, error) {
	typ, payload, err := s.Read(oid)
	if err != nil {
		return nil, err
	}
	if typ != want {
		return nil, fmt.Errorf("object %s: %w: got %q, want %q", oid, ErrTypeMismatch, typ, want)
	}
	return payload, nil
}

// List enumerates every stored OID in lexicographic order.
func (s *Store) List() ([]OID, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, "objects"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("object list: %w", err)
	}
	out := make([]OID, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".tmp-") {
			continue
		}
		out = append(out, OID(e.Name()))
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Typed convenience methods
// ---------------------------------------------------------------------------

// WriteBlob stores raw file contents as a blob.
func (s *Store) WriteBlob(data []byte) (OID, error) {
	return s.Write(TypeBlob, data)
}

// ReadBlob returns a blob's payload.
func (s *Store) ReadBlob(oid OID) ([]byte, error) {
	return s.readTyped(oid, TypeBlob)
}

// WriteTree serializes and stores a Tree.
func (s *Store) WriteTree(t *Tree) (OID, error) {
	return s.Write(TypeTree, MarshalTree(t))
}

// ReadTree reads and deserializes a Tree.
func (s *Store) ReadTree(oid OID) (*Tree, error) {
	payload, err := s.readTyped(oid, TypeTree)
	if err != nil {
		return nil, err
	}
	t, err := UnmarshalTree(payload)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", oid, err)
	}
	return t, nil
}

// WriteCommit serializes and stores a Commit.
func (s *Store) WriteCommit(c *Commit) (OID, error) {
	return s.Write(TypeCommit, MarshalCommit(c))
}

// ReadCommit reads and deserializes a Commit.
func (s *Store) ReadCommit(oid OID) (*Commit, error) {
	payload, err := s.readTyped(oid, TypeCommit)
	if err != nil {
		return nil, err
	}
	c, err := UnmarshalCommit(payload)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", oid, err)
	}
	return c, nil
}
