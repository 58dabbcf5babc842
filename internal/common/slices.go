package common

// Clone returns a shallow copy of s, or nil when s is empty.
func Clone[S ~[]E, E any](s S) S {
	if len(s) == 0 {
		return nil
	}

	out := make(S, len(s))
	copy(out, s)

	return out
}
