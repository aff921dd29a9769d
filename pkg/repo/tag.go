package repo

import (
	"fmt"
	"sort"
	"strings"
)

// CreateTag writes a tag ref under refs/tags/ pointing at the commit that
// target resolves to. An empty target means HEAD. An existing tag of the
// same name is overwritten in place.
func (r *Repo) CreateTag(name, target string) error {
	name = strings.TrimSpace(name)
	if err := validateRefName(name); err != nil {
		return fmt.Errorf("create tag: %w", err)
	}

	if target == "" {
		target = "@"
	}
	oid, ok, err := r.Locate(target)
	if err != nil {
		return fmt.Errorf("create tag: %w", err)
	}
	if !ok {
		return fmt.Errorf("create tag: unknown revision %q", target)
	}

	if err := r.writeRef(RefValue{Value: string(oid), Location: tagLocation(name)}, true, "tag"); err != nil {
		return fmt.Errorf("create tag: %w", err)
	}
	return nil
}

// ListTags lists tag names sorted alphabetically.
func (r *Repo) ListTags() ([]string, error) {
	refs, err := r.ListRefs("tags")
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}

	names := make([]string, 0, len(refs))
	for location := range refs {
		names = append(names, strings.TrimPrefix(location, tagsPrefix))
	}
	sort.Strings(names)
	return names, nil
}
