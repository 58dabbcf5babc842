package common

import "strings"

// UnknownStr is returned by String methods for out-of-range enum values.
const UnknownStr = "unknown"

// SplitFullName splits a dotted full name into its namespace and simple name.
// "a.b.C" -> ("a.b", "C"); "C" -> ("", "C").
func SplitFullName(full string) (namespace, name string) {
	i := strings.LastIndexByte(full, '.')
	if i < 0 {
		return "", full
	}

	return full[:i], full[i+1:]
}

// Qualify returns name resolved against namespace.
// Names that already contain a dot are treated as fully qualified.
func Qualify(name, namespace string) string {
	if strings.ContainsRune(name, '.') || namespace == "" {
		return name
	}

	return namespace + "." + name
}

// Relative returns the shortest spelling of full that resolves to it from
// within namespace.
func Relative(full, namespace string) string {
	ns, name := SplitFullName(full)
	if ns == namespace {
		return name
	}

	return full
}

// IsValidIdent reports whether s is a valid simple name: a letter or
// underscore followed by letters, digits, or underscores.
func IsValidIdent(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		if i == 0 {
			if !isLetter(r) && r != '_' {
				return false
			}
		} else if !isLetter(r) && !isDigit(r) && r != '_' {
			return false
		}
	}

	return true
}

// IsValidFullName reports whether every dot-separated segment of s is a valid
// identifier.
func IsValidFullName(s string) bool {
	for _, part := range strings.Split(s, ".") {
		if !IsValidIdent(part) {
			return false
		}
	}

	return true
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
