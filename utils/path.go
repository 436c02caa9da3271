package utils

import "strings"

const pathSeparator = "/"

// NormalizeMountPrefix returns prefix with exactly one leading separator and no trailing one.
// An empty or root prefix normalizes to "".
func NormalizeMountPrefix(prefix string) string {
	prefix = strings.Trim(prefix, pathSeparator)
	if prefix == "" {
		return ""
	}
	return pathSeparator + prefix
}

// ClassifyPath reduces a navigation path to its route token.
// An empty token means the dashboard; anything else is a candidate short code.
func ClassifyPath(path, mountPrefix string) string {
	prefix := NormalizeMountPrefix(mountPrefix)
	if prefix != "" && (path == prefix || strings.HasPrefix(path, prefix+pathSeparator)) {
		path = strings.TrimPrefix(path, prefix)
	}
	// Trimming every edge separator keeps the result free of a leading "/",
	// so the prefix can never match a second time.
	return strings.Trim(path, pathSeparator)
}

// IsDashboardPath reports whether path points at the dashboard
func IsDashboardPath(path, mountPrefix string) bool {
	return ClassifyPath(path, mountPrefix) == ""
}

// RootPath is the path the client falls back to: the mount prefix, or "/"
func RootPath(mountPrefix string) string {
	if prefix := NormalizeMountPrefix(mountPrefix); prefix != "" {
		return prefix
	}
	return pathSeparator
}

// ShortLink builds the fully-qualified short link for code
func ShortLink(origin, mountPrefix, code string) string {
	return strings.TrimRight(origin, pathSeparator) + NormalizeMountPrefix(mountPrefix) + pathSeparator + code
}
