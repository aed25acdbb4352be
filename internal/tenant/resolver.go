// Package tenant maps inbound hostnames to tenant (organization) slugs.
package tenant

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

const (
	localhostMarker = ".localhost"
	previewDelim    = "---"
)

// Resolver resolves the tenant for a request from its host and URL.
// It performs no I/O and never fails: hosts it does not recognise resolve to no tenant.
type Resolver struct {
	rootDomain    string
	previewSuffix string
}

// NewResolver creates a resolver for the given root domain (e.g. "example.com", a port
// suffix is ignored) and preview deployment suffix (e.g. "vercel.app", may be empty).
func NewResolver(rootDomain, previewSuffix string) *Resolver {
	return &Resolver{
		rootDomain:    normalizeHost(rootDomain),
		previewSuffix: strings.Trim(strings.ToLower(previewSuffix), "."),
	}
}

// RootDomain returns the configured root domain without port.
func (r *Resolver) RootDomain() string {
	return r.rootDomain
}

// Resolve returns the tenant label for a request, or false when the request targets the
// root application.
//
// host is the Host header value (port allowed). rawURL is the absolute request URL when
// known, it may be empty.
func (r *Resolver) Resolve(host, rawURL string) (string, bool) {
	hostname := normalizeHost(host)
	urlHost := urlHostname(rawURL)

	// Only the hosts decide whether this is a development origin, never the path or query.
	if isLocal(hostname) || isLocal(urlHost) {
		// Some development setups only expose the tenant in the URL, not in a clean Host header.
		if before, ok := strings.CutSuffix(urlHost, localhostMarker); ok {
			return label(before)
		}
		if before, ok := strings.CutSuffix(hostname, localhostMarker); ok {
			return label(before)
		}
		return "", false
	}

	if r.previewSuffix != "" &&
		strings.Contains(hostname, previewDelim) &&
		strings.HasSuffix(hostname, "."+r.previewSuffix) {
		before, _, _ := strings.Cut(hostname, previewDelim)
		return label(before)
	}

	if r.rootDomain == "" {
		return "", false
	}

	if hostname == r.rootDomain || hostname == "www."+r.rootDomain {
		return "", false
	}

	if sub, ok := strings.CutSuffix(hostname, "."+r.rootDomain); ok {
		return label(sub)
	}

	return "", false
}

// isLocal reports whether hostname is localhost, a .localhost subdomain or a loopback IP.
func isLocal(hostname string) bool {
	if hostname == "localhost" || strings.HasSuffix(hostname, localhostMarker) {
		return true
	}
	ip := net.ParseIP(hostname)
	return ip != nil && ip.IsLoopback()
}

// urlHostname returns the normalized host of an absolute URL, or "" when it has none.
func urlHostname(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return normalizeHost(u.Hostname())
}

// label accepts only hostname characters so a resolved tenant is always safe to embed
// in an internal path.
func label(s string) (string, bool) {
	if s == "" || strings.IndexFunc(s, notHostnameChar) >= 0 {
		return "", false
	}
	return s, true
}

func notHostnameChar(r rune) bool {
	return !(('a' <= r && r <= 'z') || ('0' <= r && r <= '9') || r == '-' || r == '_' || r == '.')
}

// normalizeHost strips any port and trailing dot and lowercases the host, converting
// internationalized names to their ASCII form where possible.
func normalizeHost(host string) string {
	host = strings.TrimSpace(host)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
	host = strings.TrimSuffix(host, ".")

	if ascii, err := idna.Lookup.ToASCII(host); err == nil {
		return ascii
	}
	return strings.ToLower(host)
}
