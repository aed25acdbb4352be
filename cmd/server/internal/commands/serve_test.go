package commands

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/tenantpress/internal/orgs"
	"github.com/wolfeidau/tenantpress/internal/posts"
	"github.com/wolfeidau/tenantpress/internal/routing"
)

func testServeCmd() *ServeCmd {
	return &ServeCmd{
		RootDomain:        "localhost:3000",
		PreviewSuffix:     "vercel.app",
		ExcludePattern:    routing.DefaultExcludePattern,
		ProtectedPrefixes: routing.DefaultProtectedPrefixes,
		LoginPath:         routing.DefaultLoginPath,
		SessionCookie:     "session_token",
		CORSOrigins:       []string{"http://localhost:3000"},
		StoreType:         "memory",
	}
}

func testHandler(t *testing.T, c *ServeCmd) http.Handler {
	t.Helper()

	st, err := c.createStores(context.Background(), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(st.close)

	postService, err := posts.NewService(posts.Stores{
		Posts:         st.posts,
		Organizations: st.organizations,
		Memberships:   st.memberships,
		Users:         st.users,
	})
	require.NoError(t, err)

	orgService, err := orgs.NewService(orgs.Stores{
		Organizations: st.organizations,
		Memberships:   st.memberships,
		Sessions:      st.sessions,
	})
	require.NoError(t, err)

	handler, err := c.buildHandler(postService, orgService, st.sessions)
	require.NoError(t, err)
	return handler
}

func TestBuildHandler_CORSPreflight(t *testing.T) {
	handler := testHandler(t, testServeCmd())

	req := httptest.NewRequest(http.MethodOptions, "http://localhost:3000/api/posts", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestBuildHandler_CrossOriginProtection(t *testing.T) {
	handler := testHandler(t, testServeCmd())

	tests := []struct {
		name   string
		origin string
		want   int
	}{
		{name: "untrusted origin rejected", origin: "http://evil.example", want: http.StatusForbidden},
		{name: "trusted origin reaches api", origin: "http://localhost:3000", want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "http://localhost:3000/api/posts", strings.NewReader(`{"title":"Hello"}`))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Origin", tt.origin)
			req.Header.Set("Sec-Fetch-Site", "cross-site")
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			require.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestBuildHandler_GateRedirect(t *testing.T) {
	handler := testHandler(t, testServeCmd())

	req := httptest.NewRequest(http.MethodGet, "http://localhost:3000/profile", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	require.Equal(t, "/auth", rec.Header().Get("Location"))
}

func TestBuildHandler_InvalidExcludePattern(t *testing.T) {
	c := testServeCmd()
	c.ExcludePattern = "("

	_, err := c.buildHandler(nil, nil, nil)
	require.Error(t, err)
}

func TestIsAPIRoute(t *testing.T) {
	require.True(t, isAPIRoute("/api"))
	require.True(t, isAPIRoute("/api/posts"))
	require.False(t, isAPIRoute("/apis"))
	require.False(t, isAPIRoute("/s/acme"))
}
