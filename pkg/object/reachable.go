package object

import (
	"fmt"
	"sort"
	"strings"
)

// ReachableSet returns every OID reachable from roots by following commit and
// tree references, together with the set of OIDs that were referenced but are
// not present in the store. Walking stops at missing objects; they appear in
// the second map instead of aborting the traversal.
func (s *Store) ReachableSet(roots []OID) (map[OID]struct{}, map[OID]struct{}, error) {
	roots = uniqueNormalizedOIDs(roots)
	found := make(map[OID]struct{}, len(roots))
	missing := make(map[OID]struct{})
	if len(roots) == 0 {
		return found, missing, nil
	}

	stack := make([]OID, 0, len(roots))
	stack = append(stack, roots...)
	for len(stack) > 0 {
		oid := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if oid == "" {
			continue
		}
		if _, ok := found[oid]; ok {
			continue
		}
		if !s.Has(oid) {
			missing[oid] = struct{}{}
			continue
		}
		found[oid] = struct{}{}

		typ, payload, err := s.Read(oid)
		if err != nil {
			return nil, nil, fmt.Errorf("reachable set read %s: %w", oid, err)
		}
		refs, err := referencedOIDs(typ, payload)
		if err != nil {
			return nil, nil, fmt.Errorf("reachable set parse %s (%s): %w", oid, typ, err)
		}
		stack = append(stack, refs...)
	}

	return found, missing, nil
}

func referencedOIDs(typ ObjectType, payload []byte) ([]OID, error) {
	switch typ {
	case TypeBlob:
		return nil, nil
	case TypeTree:
		tree, err := UnmarshalTree(payload)
		if err != nil {
			return nil, err
		}
		refs := make([]OID, 0, len(tree.Entries))
		for _, e := range tree.Entries {
			refs = append(refs, e.OID)
		}
		return refs, nil
	case TypeCommit:
		commit, err := UnmarshalCommit(payload)
		if err != nil {
			return nil, err
		}
		refs := []OID{commit.Tree}
		if commit.Parent != "" {
			refs = append(refs, commit.Parent)
		}
		return refs, nil
	default:
		return nil, fmt.Errorf("unsupported object type %q", typ)
	}
}

func uniqueNormalizedOIDs(in []OID) []OID {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[OID]struct{}, len(in))
	out := make([]OID, 0, len(in))
	for _, oid := range in {
		oid = OID(strings.TrimSpace(string(oid)))
		if oid == "" {
			continue
		}
		if _, ok := seen[oid]; ok {
			continue
		}
		seen[oid] = struct{}{}
		out = append(out, oid)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
