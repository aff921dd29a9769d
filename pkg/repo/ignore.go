package repo

import (
	"path/filepath"
	"strings"
)

// IgnoreChecker decides which directory entries snapshot and restore skip.
// The metadata directory is always skipped; the rest of the patterns come
// from repository config.
type IgnoreChecker struct {
	patterns []ignorePattern
}

type ignorePattern struct {
	pattern  string
	hasSlash bool // pattern contains a slash, so match against the full path
}

// NewIgnoreChecker builds a checker from config patterns.
func NewIgnoreChecker(cfg *Config) *IgnoreChecker {
	ic := &IgnoreChecker{}
	ic.add(MetaDirName)
	if cfg != nil {
		for _, p := range cfg.Ignore {
			ic.add(p)
		}
	}
	return ic
}

func (ic *IgnoreChecker) add(pattern string) {
	pattern = strings.Trim(strings.TrimSpace(pattern), "/")
	if pattern == "" {
		return
	}
	ic.patterns = append(ic.patterns, ignorePattern{
		pattern:  pattern,
		hasSlash: strings.Contains(pattern, "/"),
	})
}

// IsIgnored reports whether a path relative to the snapshot root should be
// skipped. Paths use forward slashes. A pattern without a slash matches the
// entry's base name; a pattern with a slash matches the full relative path.
// Either way a match also covers everything below the matched entry.
func (ic *IgnoreChecker) IsIgnored(path string) bool {
	path = filepath.ToSlash(path)
	for _, p := range ic.patterns {
		if p.matches(path) {
			return true
		}
	}
	return false
}

func (p *ignorePattern) matches(path string) bool {
	if p.hasSlash {
		if path == p.pattern || strings.HasPrefix(path, p.pattern+"/") {
			return true
		}
		matched, _ := filepath.Match(p.pattern, path)
		return matched
	}

	// Match every path segment, so a directory name pattern covers the
	// directory's whole subtree.
	rest := path
	for rest != "" {
		seg := rest
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			seg = rest[:i]
			rest = rest[i+1:]
		} else {
			rest = ""
		}
		if seg == p.pattern {
			return true
		}
		if matched, _ := filepath.Match(p.pattern, seg); matched {
			return true
		}
	}
	return false
}
