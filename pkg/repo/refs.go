package repo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/odvcencio/ugit/pkg/object"
)

var (
	// ErrAmbiguousRef reports a name that resolves in more than one
	// namespace at once.
	ErrAmbiguousRef = errors.New("ambiguous reference")

	// ErrRefCycle reports a symbolic ref chain that revisits a location.
	ErrRefCycle = errors.New("symbolic ref cycle")

	// ErrInvariant reports a ref write that would violate the repository
	// contract, as opposed to the recoverable not-found and mismatch kinds.
	ErrInvariant = errors.New("invariant violation")
)

const (
	headLocation   = "HEAD"
	headsPrefix    = "refs/heads/"
	tagsPrefix     = "refs/tags/"
	symbolicPrefix = "ref:"
)

// RefValue is the in-memory projection of one ref slot. Value holds a commit
// OID, or a target location when Symbolic is set; an empty Value means the
// slot does not exist on disk. Location is the slash-separated path of the
// slot relative to the metadata directory, e.g. "HEAD" or "refs/heads/main".
type RefValue struct {
	Symbolic bool
	Value    string
	Location string
}

func branchLocation(name string) string { return headsPrefix + name }
func tagLocation(name string) string    { return tagsPrefix + name }

// refPath maps a location to its file path under the metadata directory.
func (r *Repo) refPath(location string) string {
	return filepath.Join(r.UgitDir, filepath.FromSlash(location))
}

// ReadRef reads the ref at location. A missing slot yields a RefValue with an
// empty Value rather than an error. With deref set, symbolic refs are
// followed until a non-symbolic value or a missing endpoint, and the returned
// Location names the end of the chain. Without deref, one level is read
// as-is: a symbolic slot comes back with Symbolic set and Value holding the
// target location.
func (r *Repo) ReadRef(location string, deref bool) (RefValue, error) {
	return r.readRef(location, deref, make(map[string]bool))
}

func (r *Repo) readRef(location string, deref bool, visited map[string]bool) (RefValue, error) {
	if visited[location] {
		return RefValue{}, fmt.Errorf("read ref %q: %w", location, ErrRefCycle)
	}
	visited[location] = true

	data, err := os.ReadFile(r.refPath(location))
	if err != nil {
		if os.IsNotExist(err) {
			return RefValue{Location: location}, nil
		}
		return RefValue{}, fmt.Errorf("read ref %q: %w", location, err)
	}

	content := strings.TrimSpace(string(data))
	if !strings.HasPrefix(content, symbolicPrefix) {
		return RefValue{Value: content, Location: location}, nil
	}

	target := strings.TrimSpace(strings.TrimPrefix(content, symbolicPrefix))
	if !deref {
		return RefValue{Symbolic: true, Value: target, Location: location}, nil
	}
	return r.readRef(target, true, visited)
}

// WriteRef writes a ref slot. The destination location is resolved with the
// same dereferencing as ReadRef, so writing through a symbolic chain moves
// the chain's endpoint rather than the named slot. Contract violations are
// reported as ErrInvariant: an empty value, or a non-symbolic value that does
// not name a stored commit.
func (r *Repo) WriteRef(rv RefValue, deref bool) error {
	return r.writeRef(rv, deref, "update")
}

func (r *Repo) writeRef(rv RefValue, deref bool, reason string) error {
	if rv.Location == "" {
		return fmt.Errorf("write ref: %w: empty location", ErrInvariant)
	}
	if rv.Value == "" {
		return fmt.Errorf("write ref %q: %w: empty value", rv.Location, ErrInvariant)
	}

	dest, err := r.ReadRef(rv.Location, deref)
	if err != nil {
		return err
	}
	location := dest.Location

	var content string
	if rv.Symbolic {
		// The value names another ref; the chain stays intact.
		content = symbolicPrefix + rv.Value
	} else {
		typ, _, err := r.Store.Read(object.OID(rv.Value))
		if err != nil {
			return fmt.Errorf("write ref %q: %w: target %s: %v", location, ErrInvariant, rv.Value, err)
		}
		if typ != object.TypeCommit {
			return fmt.Errorf("write ref %q: %w: target %s is a %s, not a commit", location, ErrInvariant, rv.Value, typ)
		}
		content = rv.Value
	}

	path := r.refPath(location)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("write ref %q: mkdir: %w", location, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write ref %q: %w", location, err)
	}

	var oldOID, newOID object.OID
	if !dest.Symbolic {
		oldOID = object.OID(dest.Value)
	}
	if !rv.Symbolic {
		newOID = object.OID(rv.Value)
	}
	if err := r.appendReflog(location, oldOID, newOID, reason); err != nil {
		return fmt.Errorf("ref %q updated but reflog append failed: %w", location, err)
	}
	return nil
}

// SetHead points HEAD at the given commit. When HEAD is symbolic, the
// endpoint of the chain moves instead of HEAD itself.
func (r *Repo) SetHead(oid object.OID) error {
	return r.writeRef(RefValue{Value: string(oid), Location: headLocation}, true, "update")
}

// Head returns the commit OID that HEAD resolves to, or "" when HEAD does
// not exist yet. A fresh repository has no HEAD until the first commit.
func (r *Repo) Head() (object.OID, error) {
	rv, err := r.ReadRef(headLocation, true)
	if err != nil {
		return "", err
	}
	return object.OID(rv.Value), nil
}

// Locate resolves a human-typed name to a commit-graph OID. The tag
// namespace, the branch namespace, raw OIDs of stored objects, and the HEAD
// aliases ("HEAD", "@") are checked independently; exactly one may match.
// More than one hit is ErrAmbiguousRef naming the matching kinds. No hit
// returns ok=false with a nil error: absence is an answer, not a failure.
func (r *Repo) Locate(name string) (object.OID, bool, error) {
	var oid object.OID
	var kinds []string

	check := func(kind, location string) error {
		rv, err := r.ReadRef(location, true)
		if err != nil {
			return err
		}
		if rv.Value == "" {
			return nil
		}
		oid = object.OID(rv.Value)
		kinds = append(kinds, kind)
		return nil
	}

	if validateRefName(name) == nil {
		if err := check("tag", tagLocation(name)); err != nil {
			return "", false, err
		}
		if err := check("branch", branchLocation(name)); err != nil {
			return "", false, err
		}
	}
	if isHexString(name) && r.Store.Has(object.OID(name)) {
		oid = object.OID(name)
		kinds = append(kinds, "object")
	}
	if name == headLocation || name == "@" {
		if err := check("HEAD", headLocation); err != nil {
			return "", false, err
		}
	}

	if len(kinds) > 1 {
		return "", false, fmt.Errorf("name %q: %w: matches %s", name, ErrAmbiguousRef, strings.Join(kinds, ", "))
	}
	if len(kinds) == 0 {
		return "", false, nil
	}
	return oid, true, nil
}

// ListRefs lists references under .ugit/refs, dereferenced to their commit
// OIDs. Keys are full locations, e.g. "refs/heads/main". Prefix narrows the
// walk ("heads", "tags"); empty lists everything. Slots that resolve to
// nothing are skipped.
func (r *Repo) ListRefs(prefix string) (map[string]object.OID, error) {
	root := filepath.Join(r.UgitDir, "refs")
	dir := root
	if strings.TrimSpace(prefix) != "" {
		dir = filepath.Join(root, filepath.FromSlash(prefix))
	}

	refs := make(map[string]object.OID)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		location := "refs/" + filepath.ToSlash(rel)
		rv, err := r.ReadRef(location, true)
		if err != nil {
			return err
		}
		if rv.Value != "" {
			refs[location] = object.OID(rv.Value)
		}
		return nil
	})
	if os.IsNotExist(err) {
		return refs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list refs: %w", err)
	}
	return refs, nil
}

func validateRefName(name string) error {
	if name == "" {
		return fmt.Errorf("ref name is required")
	}
	if strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/") {
		return fmt.Errorf("invalid ref name %q", name)
	}
	if strings.Contains(name, "..") {
		return fmt.Errorf("invalid ref name %q", name)
	}
	if strings.ContainsAny(name, " \t\n\r") {
		return fmt.Errorf("invalid ref name %q", name)
	}
	return nil
}

func isHexString(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			return false
		}
	}
	return true
}
