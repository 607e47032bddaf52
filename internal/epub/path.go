package epub

import (
	"log"
	"net/url"
	"path"
	"strings"
)

// resolveReference resolves a reference against the directory of base,
// collapsing "." and ".." segments without touching the filesystem. The
// result is slash-separated and relative to the archive root. Malformed input
// degrades to a best-effort normalized string.
func resolveReference(base, ref string) string {
	ref = strings.TrimPrefix(ref, "./")
	if ref == "" {
		return ""
	}
	dir := path.Dir(base)
	if dir == "." || dir == "/" {
		return collapseDots(ref)
	}
	return collapseDots(dir + "/" + ref)
}

// collapseDots normalizes "." and ".." segments in a slash-separated path.
func collapseDots(p string) string {
	cleaned := path.Clean(p)
	if cleaned == "." {
		return ""
	}
	return strings.TrimPrefix(cleaned, "/")
}

// decodeHref percent-decodes an href. Decoding happens before any fragment
// handling; a value with broken percent-encoding is logged and used as-is.
func decodeHref(href string) string {
	decoded, err := url.PathUnescape(href)
	if err != nil {
		log.Printf("warning: bad percent-encoding in href %q: %v", href, err)
		return href
	}
	return decoded
}

// splitFragment splits a reference into the path and the fragment identifier.
// The fragment is everything after the first '#'; a reference without one
// yields an empty fragment.
func splitFragment(src string) (href, fragment string) {
	if src == "" {
		return "", ""
	}
	parts := strings.SplitN(src, "#", 2)
	href = parts[0]
	if len(parts) == 2 {
		fragment = parts[1]
	}
	return href, fragment
}
