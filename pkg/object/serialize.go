package object

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// ErrMissingTree reports a commit payload without a tree header.
var ErrMissingTree = errors.New("commit missing tree header")

// ---------------------------------------------------------------------------
// Tree
// ---------------------------------------------------------------------------

// MarshalTree serializes a Tree. Each entry is one line:
//
//	<type> <oid> <name>
//
// joined with single newlines and no trailing newline. An empty tree
// serializes to an empty payload. Entry order is preserved as given;
// producers are expected to emit entries in sorted directory order.
func MarshalTree(t *Tree) []byte {
	lines := make([]string, 0, len(t.Entries))
	for _, e := range t.Entries {
		lines = append(lines, fmt.Sprintf("%s %s %s", e.Type, e.OID, e.Name))
	}
	return []byte(strings.Join(lines, "\n"))
}

// UnmarshalTree parses a Tree from its serialized form. The name field runs
// to the end of the line, so names may contain spaces. The type token is
// carried through as-is; callers that expand trees decide which types they
// accept.
func UnmarshalTree(data []byte) (*Tree, error) {
	t := &Tree{}
	text := strings.TrimRight(string(data), "\n")
	if text == "" {
		return t, nil
	}
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, " ", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("unmarshal tree: malformed entry %q", line)
		}
		t.Entries = append(t.Entries, TreeEntry{
			Type: ObjectType(parts[0]),
			OID:  OID(parts[1]),
			Name: parts[2],
		})
	}
	return t, nil
}

// ---------------------------------------------------------------------------
// Commit
// ---------------------------------------------------------------------------

// MarshalCommit serializes a Commit:
//
//	tree H
//	parent H     (omitted when the commit has no parent)
//
//	message
func MarshalCommit(c *Commit) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tree %s\n", string(c.Tree))
	if c.Parent != "" {
		fmt.Fprintf(&buf, "parent %s\n", string(c.Parent))
	}
	buf.WriteByte('\n')
	buf.WriteString(c.Message)
	return buf.Bytes()
}

// UnmarshalCommit parses a Commit from its serialized form. Headers run to
// the first blank line; everything after it is the message verbatim, blank
// lines included.
func UnmarshalCommit(data []byte) (*Commit, error) {
	header := string(data)
	var message string
	if idx := bytes.Index(data, []byte("\n\n")); idx >= 0 {
		header = string(data[:idx])
		message = string(data[idx+2:])
	} else {
		header = strings.TrimRight(header, "\n")
	}

	c := &Commit{Message: message}
	sawTree := false
	for _, line := range strings.Split(header, "\n") {
		if line == "" {
			continue
		}
		key, val, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("unmarshal commit: malformed header line %q", line)
		}
		switch key {
		case "tree":
			c.Tree = OID(val)
			sawTree = true
		case "parent":
			c.Parent = OID(val)
		default:
			return nil, fmt.Errorf("unmarshal commit: unknown header key %q", key)
		}
	}
	if !sawTree {
		return nil, fmt.Errorf("unmarshal commit: %w", ErrMissingTree)
	}
	return c, nil
}
