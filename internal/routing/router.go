// Package routing maps inbound requests to tenant views, login redirects or pass-through.
package routing

import (
	"path"
	"strings"
)

// Action is the outcome of routing a request.
type Action int

const (
	// ActionPass serves the request unchanged.
	ActionPass Action = iota
	// ActionRewrite serves the request from another internal path, invisible to the client.
	ActionRewrite
	// ActionRedirect sends the client to another path.
	ActionRedirect
)

func (a Action) String() string {
	switch a {
	case ActionPass:
		return "pass"
	case ActionRewrite:
		return "rewrite"
	case ActionRedirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decision is a routing outcome. Path is the rewrite or redirect target.
type Decision struct {
	Action Action
	Path   string
	Tenant string
}

// Pass returns a pass-through decision.
func Pass() Decision { return Decision{Action: ActionPass} }

// Redirect returns a client visible redirect decision.
func Redirect(target string) Decision { return Decision{Action: ActionRedirect, Path: target} }

// Rewrite returns an internal rewrite decision for a tenant.
func Rewrite(tenant, target string) Decision {
	return Decision{Action: ActionRewrite, Path: target, Tenant: tenant}
}

const (
	// PostDetailPrefix is the public post detail path, /post/{slug}.
	PostDetailPrefix = "/post/"

	// TenantViewPrefix is the internal prefix of tenant scoped views.
	TenantViewPrefix = "/s/"
)

// TenantLandingPath returns the internal path of a tenant landing view.
func TenantLandingPath(tenant string) string {
	return TenantViewPrefix + tenant
}

// TenantPostPath returns the internal path of a tenant post detail view.
func TenantPostPath(tenant, postSlug string) string {
	return TenantViewPrefix + tenant + PostDetailPrefix + postSlug
}

// TenantResolver resolves a tenant label from a host and URL.
type TenantResolver interface {
	Resolve(host, rawURL string) (string, bool)
}

// Request carries the routing inputs of an inbound request.
type Request struct {
	Host       string
	URL        string // absolute URL when known
	Path       string
	HasSession bool
}

// Router combines tenant resolution with the auth gate.
type Router struct {
	tenants    TenantResolver
	gate       *Gate
	exclusions *Exclusions
}

// NewRouter creates a router.
func NewRouter(tenants TenantResolver, gate *Gate, exclusions *Exclusions) *Router {
	return &Router{
		tenants:    tenants,
		gate:       gate,
		exclusions: exclusions,
	}
}

// Route decides how to serve a request.
//
// Tenant requests are always rewritten to the tenant's public views and never gated.
// Requests for the root application go through the gate.
func (rt *Router) Route(req Request) Decision {
	p := cleanPath(req.Path)

	if rt.exclusions.Match(p) {
		return Pass()
	}

	if tenant, ok := rt.tenants.Resolve(req.Host, req.URL); ok {
		if postSlug, found := strings.CutPrefix(p, PostDetailPrefix); found && postSlug != "" {
			return Rewrite(tenant, TenantPostPath(tenant, postSlug))
		}
		return Rewrite(tenant, TenantLandingPath(tenant))
	}

	return rt.gate.Decide(p, req.HasSession)
}

// cleanPath collapses dot segments so "/x/../profile" cannot dodge a protected prefix.
func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	cleaned := path.Clean(p)
	if strings.HasSuffix(p, "/") && cleaned != "/" {
		cleaned += "/"
	}
	return cleaned
}
