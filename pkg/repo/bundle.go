package repo

import (
	"fmt"
	"sort"

	"github.com/odvcencio/ugit/pkg/bundle"
	"github.com/odvcencio/ugit/pkg/object"
)

// BundleApplyResult reports what applying a bundle changed.
type BundleApplyResult struct {
	ObjectsTotal int      // objects carried by the bundle
	ObjectsNew   int      // objects that were not already stored
	RefsCreated  []string // ref locations created
	RefsSkipped  []string // ref locations left untouched because they exist
}

// CreateBundle snapshots HEAD and every ref, together with all objects they
// reach. A repository with no commits has nothing to bundle and is an error,
// as is a repository whose history references missing objects.
func (r *Repo) CreateBundle() (*bundle.Bundle, error) {
	b := &bundle.Bundle{}

	head, err := r.Head()
	if err != nil {
		return nil, fmt.Errorf("create bundle: %w", err)
	}
	if head != "" {
		b.Refs = append(b.Refs, bundle.Ref{Location: headLocation, OID: head})
	}

	refs, err := r.ListRefs("")
	if err != nil {
		return nil, fmt.Errorf("create bundle: %w", err)
	}
	locations := make([]string, 0, len(refs))
	for location := range refs {
		locations = append(locations, location)
	}
	sort.Strings(locations)

	roots := make([]object.OID, 0, len(refs)+1)
	if head != "" {
		roots = append(roots, head)
	}
	for _, location := range locations {
		b.Refs = append(b.Refs, bundle.Ref{Location: location, OID: refs[location]})
		roots = append(roots, refs[location])
	}
	if len(roots) == 0 {
		return nil, fmt.Errorf("create bundle: repository has no commits")
	}

	found, missing, err := r.Store.ReachableSet(roots)
	if err != nil {
		return nil, fmt.Errorf("create bundle: %w", err)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("create bundle: %d referenced objects are missing from the store", len(missing))
	}

	oids := make([]object.OID, 0, len(found))
	for oid := range found {
		oids = append(oids, oid)
	}
	sort.Slice(oids, func(i, j int) bool { return oids[i] < oids[j] })

	for _, oid := range oids {
		typ, payload, err := r.Store.Read(oid)
		if err != nil {
			return nil, fmt.Errorf("create bundle: %w", err)
		}
		b.Objects = append(b.Objects, bundle.Object{OID: oid, Type: typ, Payload: payload})
	}
	return b, nil
}

// ApplyBundle imports a bundle's objects and creates its refs. Objects are
// content-addressed, so re-importing is harmless. Refs that already exist
// are never touched; the bundle only fills gaps.
func (r *Repo) ApplyBundle(b *bundle.Bundle) (*BundleApplyResult, error) {
	result := &BundleApplyResult{ObjectsTotal: len(b.Objects)}

	for _, obj := range b.Objects {
		if !r.Store.Has(obj.OID) {
			result.ObjectsNew++
		}
		oid, err := r.Store.Write(obj.Type, obj.Payload)
		if err != nil {
			return nil, fmt.Errorf("apply bundle: %w", err)
		}
		if oid != obj.OID {
			return nil, fmt.Errorf("apply bundle: object %s stored as %s", obj.OID, oid)
		}
	}

	for _, ref := range b.Refs {
		existing, err := r.ReadRef(ref.Location, false)
		if err != nil {
			return nil, fmt.Errorf("apply bundle: %w", err)
		}
		if existing.Value != "" {
			result.RefsSkipped = append(result.RefsSkipped, ref.Location)
			continue
		}
		if err := r.writeRef(RefValue{Value: string(ref.OID), Location: ref.Location}, false, "bundle"); err != nil {
			return nil, fmt.Errorf("apply bundle: %w", err)
		}
		result.RefsCreated = append(result.RefsCreated, ref.Location)
	}

	return result, nil
}
