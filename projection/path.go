package projection

import (
	"errors"
	"fmt"
	"strings"

	"github.com/guillefix/avro/internal/common"
)

// Path is a parsed, dot-separated field path.
type Path []string

// ParsePath parses a dotted path string into a Path.
func ParsePath(path string) (Path, error) {
	if path == "" {
		return nil, errors.New("empty path")
	}

	segments := strings.Split(path, ".")
	for _, seg := range segments {
		if seg == "" {
			return nil, fmt.Errorf("invalid path %q: empty segment", path)
		}

		if !common.IsValidIdent(seg) {
			return nil, fmt.Errorf("invalid path %q: invalid identifier %q", path, seg)
		}
	}

	return Path(segments), nil
}

// ParsePaths parses multiple paths, failing on the first invalid one.
func ParsePaths(paths []string) ([]Path, error) {
	result := make([]Path, 0, len(paths))

	for _, p := range paths {
		parsed, err := ParsePath(p)
		if err != nil {
			return nil, err
		}

		result = append(result, parsed)
	}

	return result, nil
}

// String returns the path in dotted form.
func (p Path) String() string {
	return strings.Join(p, ".")
}

// Child returns a new path with seg appended; p is not modified.
func (p Path) Child(seg string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)

	return append(out, seg)
}

// Equals returns true if both paths have identical segments.
func (p Path) Equals(other Path) bool {
	if len(p) != len(other) {
		return false
	}

	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}

	return true
}

// IsStrictPrefixOf reports whether p is a proper segment prefix of other:
// "a.b" is a strict prefix of "a.b.x" but not of "a.bc" or "a.b".
func (p Path) IsStrictPrefixOf(other Path) bool {
	if len(p) >= len(other) {
		return false
	}

	return p.Equals(other[:len(p)])
}
