package pathutil

import (
	"strings"
)

// Separator is the canonical separator used in every path inside the
// library. Conversion to the host convention happens only at the native
// boundary (see ToNative).
const Separator = '/'

// CurrentDir is the dirname sentinel for paths with no separator.
const CurrentDir = "."

// IsVolume reports whether s begins with a drive-letter volume marker
// ("C:" style).
func IsVolume(s string) bool {
	if len(s) < 2 || s[1] != ':' {
		return false
	}
	c := s[0]
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// Clean returns the canonical form of p: exactly one separator between
// components, no trailing separator, root and volume markers preserved.
// Canonical form is stable: Clean(Clean(p)) == Clean(p).
func Clean(p string) string {
	if p == "" {
		return ""
	}

	prefix := ""
	rest := p
	if IsVolume(p) {
		prefix = p[:2]
		rest = p[2:]
	}
	if strings.HasPrefix(rest, "/") {
		prefix += "/"
	}

	var parts []string
	for _, part := range strings.Split(rest, "/") {
		if part != "" {
			parts = append(parts, part)
		}
	}

	if len(parts) == 0 {
		if prefix == "" {
			return ""
		}
		return prefix
	}
	return prefix + strings.Join(parts, "/")
}

// Join concatenates components into one canonical path. Empty components
// are skipped, leading separators are stripped from all but the first
// component, and the first component's root or volume marker is preserved.
// Exactly one canonical separator appears between components.
func Join(parts ...string) string {
	var b strings.Builder
	first := true
	for _, part := range parts {
		if part == "" {
			continue
		}
		if first {
			b.WriteString(part)
			first = false
			continue
		}
		b.WriteByte(Separator)
		b.WriteString(strings.TrimLeft(part, "/"))
	}
	return Clean(b.String())
}

// Dir returns the canonical path up to the last separator. A path with no
// separator yields the current-directory sentinel; the root of a rooted
// path is its own dirname prefix.
func Dir(p string) string {
	p = Clean(p)

	prefix := ""
	rest := p
	if IsVolume(p) {
		prefix = p[:2]
		rest = p[2:]
	}

	i := strings.LastIndexByte(rest, Separator)
	switch {
	case i < 0:
		if prefix != "" {
			return prefix
		}
		return CurrentDir
	case i == 0:
		return prefix + "/"
	default:
		return prefix + rest[:i]
	}
}

// Base returns the component after the last separator. The root path is
// its own basename.
func Base(p string) string {
	p = Clean(p)
	if p == "" {
		return ""
	}

	rest := p
	if IsVolume(p) {
		rest = p[2:]
	}
	if rest == "" || rest == "/" {
		return p
	}

	i := strings.LastIndexByte(rest, Separator)
	if i < 0 {
		return rest
	}
	return rest[i+1:]
}

// ToNative converts a canonical path to the host separator convention.
// This is the only point where native separators appear.
func ToNative(p string, sep byte) string {
	if sep == Separator {
		return p
	}
	return strings.ReplaceAll(p, string(Separator), string(sep))
}

// FromNative converts a native path into canonical form.
func FromNative(p string, sep byte) string {
	if sep != Separator {
		p = strings.ReplaceAll(p, string(sep), string(Separator))
	}
	return Clean(p)
}
