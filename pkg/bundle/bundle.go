// Package bundle reads and writes repository bundles: single-file snapshots
// of refs and the objects they reach, suitable for moving history between
// repositories without a network protocol.
package bundle

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/odvcencio/ugit/pkg/object"
)

// magic is the first line of every bundle stream.
const magic = "ugit bundle v1"

// ErrBadMagic reports a stream that does not start with the bundle header.
var ErrBadMagic = errors.New("not a ugit bundle")

// Ref is one ref snapshot carried by a bundle.
type Ref struct {
	Location string
	OID      object.OID
}

// Object is one stored object carried by a bundle.
type Object struct {
	OID     object.OID
	Type    object.ObjectType
	Payload []byte
}

// Bundle is the decoded contents of a bundle stream.
type Bundle struct {
	Refs    []Ref
	Objects []Object
}

// Write encodes the bundle to w as one zstd-compressed stream. The layout is
// a text manifest followed by framed objects:
//
//	ugit bundle v1
//	ref <location> <oid>
//	...
//
//	object <oid> <type> <size>
//	<payload bytes>
//	...
//	done
//
// Refs are sorted by location and objects by OID, so the same contents
// always produce the same stream.
func Write(w io.Writer, b *Bundle) error {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("bundle write: %w", err)
	}

	refs := make([]Ref, len(b.Refs))
	copy(refs, b.Refs)
	sort.Slice(refs, func(i, j int) bool { return refs[i].Location < refs[j].Location })

	objects := make([]Object, len(b.Objects))
	copy(objects, b.Objects)
	sort.Slice(objects, func(i, j int) bool { return objects[i].OID < objects[j].OID })

	if err := writeBody(enc, refs, objects); err != nil {
		enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("bundle write close: %w", err)
	}
	return nil
}

func writeBody(w io.Writer, refs []Ref, objects []Object) error {
	if _, err := fmt.Fprintf(w, "%s\n", magic); err != nil {
		return fmt.Errorf("bundle write: %w", err)
	}
	for _, ref := range refs {
		if _, err := fmt.Fprintf(w, "ref %s %s\n", ref.Location, ref.OID); err != nil {
			return fmt.Errorf("bundle write ref: %w", err)
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return fmt.Errorf("bundle write: %w", err)
	}

	for _, obj := range objects {
		if _, err := fmt.Fprintf(w, "object %s %s %d\n", obj.OID, obj.Type, len(obj.Payload)); err != nil {
			return fmt.Errorf("bundle write object header: %w", err)
		}
		if _, err := w.Write(obj.Payload); err != nil {
			return fmt.Errorf("bundle write object payload: %w", err)
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return fmt.Errorf("bundle write object terminator: %w", err)
		}
	}

	if _, err := fmt.Fprintln(w, "done"); err != nil {
		return fmt.Errorf("bundle write: %w", err)
	}
	return nil
}

// Read decodes a bundle stream. Every object payload is re-hashed and
// checked against its manifest OID, so a tampered or truncated bundle fails
// here instead of poisoning a store later.
func Read(rd io.Reader) (*Bundle, error) {
	dec, err := zstd.NewReader(rd)
	if err != nil {
		return nil, fmt.Errorf("bundle read: %w", err)
	}
	defer dec.Close()

	br := bufio.NewReader(dec)

	line, err := readLine(br)
	if err != nil {
		return nil, fmt.Errorf("bundle read header: %w", err)
	}
	if line != magic {
		return nil, fmt.Errorf("bundle read: %w (got %q)", ErrBadMagic, line)
	}

	b := &Bundle{}

	// Manifest: ref lines up to the first blank line.
	for {
		line, err := readLine(br)
		if err != nil {
			return nil, fmt.Errorf("bundle read manifest: %w", err)
		}
		if line == "" {
			break
		}
		rest, ok := strings.CutPrefix(line, "ref ")
		if !ok {
			return nil, fmt.Errorf("bundle read manifest: unexpected line %q", line)
		}
		location, oid, ok := strings.Cut(rest, " ")
		if !ok {
			return nil, fmt.Errorf("bundle read manifest: malformed ref line %q", line)
		}
		b.Refs = append(b.Refs, Ref{Location: location, OID: object.OID(oid)})
	}

	// Object frames up to the trailer.
	for {
		line, err := readLine(br)
		if err != nil {
			return nil, fmt.Errorf("bundle read objects: %w", err)
		}
		if line == "done" {
			break
		}
		rest, ok := strings.CutPrefix(line, "object ")
		if !ok {
			return nil, fmt.Errorf("bundle read objects: unexpected line %q", line)
		}
		parts := strings.SplitN(rest, " ", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("bundle read objects: malformed header %q", line)
		}
		size, err := strconv.Atoi(parts[2])
		if err != nil || size < 0 {
			return nil, fmt.Errorf("bundle read objects: bad size in %q", line)
		}

		payload := make([]byte, size)
		if _, err := io.ReadFull(br, payload); err != nil {
			return nil, fmt.Errorf("bundle read object %s: %w", parts[0], err)
		}
		if nl, err := br.ReadByte(); err != nil || nl != '\n' {
			return nil, fmt.Errorf("bundle read object %s: missing terminator", parts[0])
		}

		oid := object.OID(parts[0])
		typ := object.ObjectType(parts[1])
		if rehashed := object.HashObject(typ, payload); rehashed != oid {
			return nil, fmt.Errorf("bundle read object %s: payload hashes to %s", oid, rehashed)
		}
		b.Objects = append(b.Objects, Object{OID: oid, Type: typ, Payload: payload})
	}

	return b, nil
}

func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(line, "\n"), nil
}
