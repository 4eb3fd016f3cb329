package domain

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// DefaultFaviconBase is the public favicon service keyed by hostname.
const DefaultFaviconBase = "https://www.google.com/s2/favicons"

// FaviconSize is the icon edge length requested from the favicon service.
const FaviconSize = 64

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lowercases name and collapses every run of characters outside
// [a-z0-9] into a single dash. Leading and trailing dashes are kept, which
// matches the anchors already published on the live site.
func Slug(name string) string {
	return nonSlugChars.ReplaceAllString(strings.ToLower(name), "-")
}

// Hostname extracts the host from a possibly scheme-less URL. When the
// input cannot be parsed the raw string is returned so callers still get a
// usable cache key.
func Hostname(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil || u.Hostname() == "" {
		return raw
	}

	return u.Hostname()
}

// FaviconURL returns the favicon service URL for the host behind raw.
func FaviconURL(base, raw string) string {
	if base == "" {
		base = DefaultFaviconBase
	}

	return fmt.Sprintf("%s?sz=%d&domain=%s", base, FaviconSize, url.QueryEscape(Hostname(raw)))
}

// ProofDomain guesses a brand's domain from its display name: lowercase,
// first space removed, ".com" appended. The guess is often wrong, which is
// why proof icons always carry the configured logo as fallback.
func ProofDomain(name string) string {
	return strings.Replace(strings.ToLower(name), " ", "", 1) + ".com"
}
