package routing

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/wolfeidau/tenantpress/internal/auth"
	httpmiddleware "github.com/wolfeidau/tenantpress/internal/http"
	"github.com/wolfeidau/tenantpress/internal/telemetry"
)

// Middleware applies router decisions to HTTP requests. Rewrites replace the request path
// before calling next; redirects answer with 307 Temporary Redirect.
//
// This is the only place where request state is read for routing, the Router itself works
// on the explicit Request value.
func Middleware(rt *Router, sessionCookie string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			decision := rt.Route(Request{
				Host:       r.Host,
				URL:        httpmiddleware.RequestURL(r),
				Path:       r.URL.Path,
				HasSession: auth.HasSessionCookie(r, sessionCookie),
			})

			telemetry.GetMetrics().RecordRouterDecision(ctx, decision.Action.String(), decision.Tenant != "")

			switch decision.Action {
			case ActionRedirect:
				zerolog.Ctx(ctx).Debug().
					Str("path", r.URL.Path).
					Str("location", decision.Path).
					Msg("Redirecting request")
				http.Redirect(w, r, decision.Path, http.StatusTemporaryRedirect)

			case ActionRewrite:
				zerolog.Ctx(ctx).Debug().
					Str("tenant", decision.Tenant).
					Str("path", r.URL.Path).
					Str("rewrite", decision.Path).
					Msg("Rewriting tenant request")

				rewritten := r.Clone(ctx)
				rewritten.URL.Path = decision.Path
				rewritten.URL.RawPath = ""
				next.ServeHTTP(w, rewritten)

			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
