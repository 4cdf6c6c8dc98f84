package sanitizer

import (
	"strings"
)

// NormalizeBaseURL trims whitespace and trailing slashes, lowercases the host
// and defaults the scheme to http, which is what a local API listens on.
func NormalizeBaseURL(url string) string {
	url = strings.TrimSpace(url)
	if url == "" {
		return ""
	}

	scheme, rest := "http://", url
	if i := strings.Index(url, "://"); i >= 0 {
		scheme, rest = strings.ToLower(url[:i+3]), url[i+3:]
	}

	host, path, _ := strings.Cut(rest, "/")
	result := scheme + strings.ToLower(host)
	if path != "" {
		result += "/" + path
	}
	return strings.TrimRight(result, "/")
}
