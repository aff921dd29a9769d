package repo

import (
	"fmt"
	"sort"

	"github.com/odvcencio/ugit/pkg/object"
)

// FsckReport summarizes an integrity check of the object store.
type FsckReport struct {
	Objects     int          // stored objects examined
	Reachable   int          // objects reachable from HEAD and refs
	Unreachable int          // stored objects no root reaches
	Corrupt     []object.OID // stored bytes that no longer hash to their name
	Missing     []object.OID // referenced objects absent from the store
}

// Fsck re-hashes every stored object against its name and walks reachability
// from HEAD and all refs. When corruption is found the reachability walk is
// skipped, since corrupt objects cannot be parsed for references; the report
// says so through the Corrupt list.
func (r *Repo) Fsck() (*FsckReport, error) {
	oids, err := r.Store.List()
	if err != nil {
		return nil, fmt.Errorf("fsck: %w", err)
	}

	report := &FsckReport{Objects: len(oids)}
	for _, oid := range oids {
		typ, payload, err := r.Store.Read(oid)
		if err != nil {
			report.Corrupt = append(report.Corrupt, oid)
			continue
		}
		if object.HashObject(typ, payload) != oid {
			report.Corrupt = append(report.Corrupt, oid)
		}
	}
	if len(report.Corrupt) > 0 {
		return report, nil
	}

	roots, err := r.fsckRoots()
	if err != nil {
		return nil, fmt.Errorf("fsck: %w", err)
	}

	found, missing, err := r.Store.ReachableSet(roots)
	if err != nil {
		return nil, fmt.Errorf("fsck: %w", err)
	}
	report.Reachable = len(found)
	report.Unreachable = report.Objects - report.Reachable
	for oid := range missing {
		report.Missing = append(report.Missing, oid)
	}
	sort.Slice(report.Missing, func(i, j int) bool { return report.Missing[i] < report.Missing[j] })

	return report, nil
}

func (r *Repo) fsckRoots() ([]object.OID, error) {
	var roots []object.OID

	head, err := r.Head()
	if err != nil {
		return nil, err
	}
	if head != "" {
		roots = append(roots, head)
	}

	refs, err := r.ListRefs("")
	if err != nil {
		return nil, err
	}
	for _, oid := range refs {
		roots = append(roots, oid)
	}
	return roots, nil
}
