package routing

import (
	"slices"
	"strings"
)

// DefaultProtectedPrefixes lists the path prefixes that require a session, in match order.
var DefaultProtectedPrefixes = []string{
	"/profile",
	"/post/create",
	"/post/edit",
	"/organizations",
}

const (
	DefaultLoginPath = "/auth"
	DefaultRootPath  = "/"
)

// Gate decides whether an unauthenticated request may reach a path.
//
// It only checks for the presence of a session cookie so no store round trip is needed.
// Handlers behind the gate still load and validate the full session.
type Gate struct {
	protected []string
	loginPath string
	rootPath  string
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithProtectedPrefixes replaces the protected prefix table.
func WithProtectedPrefixes(prefixes ...string) GateOption {
	return func(g *Gate) {
		g.protected = slices.Clone(prefixes)
	}
}

// WithLoginPath sets the path unauthenticated users are redirected to.
func WithLoginPath(path string) GateOption {
	return func(g *Gate) {
		g.loginPath = path
	}
}

// NewGate creates a gate with the default protected prefixes and login path.
func NewGate(opts ...GateOption) *Gate {
	g := &Gate{
		protected: slices.Clone(DefaultProtectedPrefixes),
		loginPath: DefaultLoginPath,
		rootPath:  DefaultRootPath,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// LoginPath returns the login path used for redirects.
func (g *Gate) LoginPath() string {
	return g.loginPath
}

// Decide returns the gate decision for a path given whether a session cookie is present.
func (g *Gate) Decide(path string, hasSession bool) Decision {
	if !hasSession && g.isProtected(path) {
		return Redirect(g.loginPath)
	}

	if hasSession && path == g.loginPath {
		return Redirect(g.rootPath)
	}

	return Pass()
}

// isProtected matches on whole path segments so "/profiles" is not covered by "/profile".
func (g *Gate) isProtected(path string) bool {
	for _, prefix := range g.protected {
		if path == prefix || strings.HasPrefix(path, strings.TrimSuffix(prefix, "/")+"/") {
			return true
		}
	}
	return false
}
