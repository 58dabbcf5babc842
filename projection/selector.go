package projection

// Selector decides which field paths survive a projection.
// A nil Selector retains everything.
type Selector struct {
	requested []Path
}

// NewSelector builds a selector from fully-qualified path strings. An empty
// list yields a nil selector, which keeps every field.
func NewSelector(paths []string) (*Selector, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	parsed, err := ParsePaths(paths)
	if err != nil {
		return nil, err
	}

	return &Selector{requested: parsed}, nil
}

// Retain reports whether a field at path p is kept: p equals a requested
// path, is a strict prefix of one, or has one as a strict prefix.
func (s *Selector) Retain(p Path) bool {
	if s == nil {
		return true
	}

	for _, r := range s.requested {
		if p.Equals(r) || p.IsStrictPrefixOf(r) || r.IsStrictPrefixOf(p) {
			return true
		}
	}

	return false
}

// Requested returns the requested paths in dotted form.
func (s *Selector) Requested() []string {
	if s == nil {
		return nil
	}

	out := make([]string, len(s.requested))
	for i, r := range s.requested {
		out[i] = r.String()
	}

	return out
}
