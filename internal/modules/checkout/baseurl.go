package checkout

import (
	"net"
	"strings"
)

const fallbackBaseURL = "http://localhost:8080"

// ResolveBaseURL picks the base for success/cancel redirect targets:
// configured URL, then the hosting platform's URL, then the request Origin,
// then the request Host (http only for localhost-like hosts), then a
// hardcoded fallback.
func ResolveBaseURL(configured, platform, origin, host string) string {
	if configured != "" {
		return strings.TrimRight(configured, "/")
	}
	if platform != "" {
		if !strings.Contains(platform, "://") {
			platform = "https://" + platform
		}
		return strings.TrimRight(platform, "/")
	}
	if origin != "" {
		return strings.TrimRight(origin, "/")
	}
	if host != "" {
		scheme := "https"
		if isLocalHost(host) {
			scheme = "http"
		}
		return scheme + "://" + host
	}
	return fallbackBaseURL
}

func isLocalHost(host string) bool {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	switch host {
	case "localhost", "127.0.0.1", "0.0.0.0", "::1":
		return true
	}
	return strings.HasSuffix(host, ".localhost")
}
