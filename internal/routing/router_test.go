package routing

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/tenantpress/internal/tenant"
)

func newTestRouter() *Router {
	return NewRouter(
		tenant.NewResolver("example.com", "vercel.app"),
		NewGate(),
		MustExclusions(DefaultExcludePattern),
	)
}

func TestRouter_Route(t *testing.T) {
	rt := newTestRouter()

	tests := []struct {
		name     string
		req      Request
		expected Decision
	}{
		{
			name:     "tenant landing",
			req:      Request{Host: "acme.example.com", Path: "/"},
			expected: Rewrite("acme", "/s/acme"),
		},
		{
			name:     "tenant unknown path rewrites to landing",
			req:      Request{Host: "acme.example.com", Path: "/about"},
			expected: Rewrite("acme", "/s/acme"),
		},
		{
			name:     "tenant post detail keeps slug",
			req:      Request{Host: "acme.example.com", Path: "/post/hello-world"},
			expected: Rewrite("acme", "/s/acme/post/hello-world"),
		},
		{
			name:     "tenant post prefix without slug",
			req:      Request{Host: "acme.example.com", Path: "/post/"},
			expected: Rewrite("acme", "/s/acme"),
		},
		{
			name:     "tenant skips gate on protected path",
			req:      Request{Host: "acme.example.com", Path: "/profile"},
			expected: Rewrite("acme", "/s/acme"),
		},
		{
			name:     "local tenant",
			req:      Request{Host: "acme.localhost:3000", URL: "http://acme.localhost:3000/post/x", Path: "/post/x"},
			expected: Rewrite("acme", "/s/acme/post/x"),
		},
		{
			name:     "localhost in tenant path stays on tenant",
			req:      Request{Host: "acme.example.com", URL: "https://acme.example.com/post/localhost-tips", Path: "/post/localhost-tips"},
			expected: Rewrite("acme", "/s/acme/post/localhost-tips"),
		},
		{
			name:     "localhost in tenant query stays on tenant",
			req:      Request{Host: "acme.example.com", URL: "https://acme.example.com/?from=localhost", Path: "/"},
			expected: Rewrite("acme", "/s/acme"),
		},
		{
			name:     "preview tenant",
			req:      Request{Host: "acme---feature.vercel.app", Path: "/"},
			expected: Rewrite("acme", "/s/acme"),
		},
		{
			name:     "root protected without session",
			req:      Request{Host: "example.com", Path: "/profile"},
			expected: Redirect("/auth"),
		},
		{
			name:     "root protected nested without session",
			req:      Request{Host: "example.com", Path: "/post/edit/hello"},
			expected: Redirect("/auth"),
		},
		{
			name:     "dot segments do not bypass gate",
			req:      Request{Host: "example.com", Path: "/post/../profile"},
			expected: Redirect("/auth"),
		},
		{
			name:     "root protected with session",
			req:      Request{Host: "example.com", Path: "/profile", HasSession: true},
			expected: Pass(),
		},
		{
			name:     "login with session",
			req:      Request{Host: "www.example.com", Path: "/auth", HasSession: true},
			expected: Redirect("/"),
		},
		{
			name:     "login without session",
			req:      Request{Host: "example.com", Path: "/auth"},
			expected: Pass(),
		},
		{
			name:     "public root path",
			req:      Request{Host: "example.com", Path: "/post/hello-world"},
			expected: Pass(),
		},
		{
			name:     "api excluded on tenant host",
			req:      Request{Host: "acme.example.com", Path: "/api/posts"},
			expected: Pass(),
		},
		{
			name:     "static asset excluded",
			req:      Request{Host: "acme.example.com", Path: "/static/app.css"},
			expected: Pass(),
		},
		{
			name:     "image by extension excluded",
			req:      Request{Host: "example.com", Path: "/profile/avatar.png"},
			expected: Pass(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, rt.Route(tt.req))
		})
	}
}

func TestGate_Decide(t *testing.T) {
	g := NewGate()

	require.Equal(t, Redirect("/auth"), g.Decide("/profile", false))
	require.Equal(t, Redirect("/auth"), g.Decide("/profile/settings", false))
	require.Equal(t, Redirect("/auth"), g.Decide("/post/create", false))
	require.Equal(t, Redirect("/auth"), g.Decide("/organizations/create", false))
	require.Equal(t, Pass(), g.Decide("/profiles", false))
	require.Equal(t, Pass(), g.Decide("/", false))
	require.Equal(t, Pass(), g.Decide("/post/create", true))
	require.Equal(t, Redirect("/"), g.Decide("/auth", true))
}

func TestGate_options(t *testing.T) {
	g := NewGate(WithProtectedPrefixes("/admin/"), WithLoginPath("/login"))

	require.Equal(t, "/login", g.LoginPath())
	require.Equal(t, Redirect("/login"), g.Decide("/admin/users", false))
	require.Equal(t, Pass(), g.Decide("/profile", false))
	require.Equal(t, Redirect("/"), g.Decide("/login", true))
}

func TestExclusions(t *testing.T) {
	e := MustExclusions(DefaultExcludePattern)

	for _, p := range []string{"/api", "/api/posts", "/static/x.js", "/_assets/a", "/favicon.ico", "/healthz", "/a/b/logo.svg", "/img.JPEG.png"} {
		require.True(t, e.Match(p), p)
	}
	for _, p := range []string{"/", "/apix", "/profile", "/post/static", "/post/my-js"} {
		require.False(t, e.Match(p), p)
	}

	empty, err := NewExclusions("")
	require.NoError(t, err)
	require.False(t, empty.Match("/api"))

	_, err = NewExclusions("(")
	require.Error(t, err)
}
