package domain

import (
	"net/url"
	"strings"
)

// trackingParams are query parameters stripped during normalization.
// Anything with a "utm_" prefix is dropped as well.
var trackingParams = map[string]struct{}{
	"gclid":  {},
	"fbclid": {},
}

// NormalizeURL returns the canonical string form of a URL, used as the
// unique identity key for a bookmark.
//
// The function is total: inputs that do not parse as an absolute URL are
// returned trimmed, so two malformed strings that trim identically collapse
// to one key. On success the host is lower-cased, tracking parameters are
// removed (remaining parameters keep their original relative order), and a
// bare trailing slash is dropped when the path is "/" with no query left.
//
// NormalizeURL(NormalizeURL(x)) == NormalizeURL(x) for all x.
func NormalizeURL(raw string) string {
	trimmed := strings.TrimSpace(raw)

	u, err := url.Parse(trimmed)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return trimmed
	}

	u.Host = strings.ToLower(u.Host)
	u.RawQuery = stripTracking(u.RawQuery)

	s := u.String()
	if u.Path == "/" && u.RawQuery == "" && u.Fragment == "" && strings.HasSuffix(s, "/") {
		s = strings.TrimSuffix(s, "/")
	}
	return s
}

// stripTracking removes tracking parameters from a raw query string while
// preserving the relative order of everything it keeps.
func stripTracking(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}

	kept := make([]string, 0, 4)
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		key := pair
		if i := strings.Index(pair, "="); i >= 0 {
			key = pair[:i]
		}
		if decoded, err := url.QueryUnescape(key); err == nil {
			key = decoded
		}
		key = strings.ToLower(key)
		if strings.HasPrefix(key, "utm_") {
			continue
		}
		if _, drop := trackingParams[key]; drop {
			continue
		}
		kept = append(kept, pair)
	}
	return strings.Join(kept, "&")
}
