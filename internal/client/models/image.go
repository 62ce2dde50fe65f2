package models

import "strings"

// ImageRef points at an image either inline (a data: URL carrying the
// payload) or by a filename the remote image host serves. Voice notes use
// the same representation.
type ImageRef string

// IsInline reports a data: URL.
func (r ImageRef) IsInline() bool {
	return strings.HasPrefix(string(r), "data:")
}

// IsAbsolute reports a ref that is already a full http(s) or blob URL.
func (r ImageRef) IsAbsolute() bool {
	s := string(r)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "blob:")
}

// Resolve turns the ref into a displayable URL. Inline and absolute refs
// are returned as is, filenames are joined to base. An empty ref resolves
// to an empty string.
func (r ImageRef) Resolve(base string) string {
	s := strings.TrimSpace(string(r))
	switch {
	case s == "":
		return ""
	case r.IsInline(), r.IsAbsolute():
		return s
	case base == "":
		return s
	default:
		return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(s, "/")
	}
}
