package routing

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/tenantpress/internal/auth"
)

func TestMiddleware(t *testing.T) {
	var servedPath string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		servedPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	})

	handler := Middleware(newTestRouter(), auth.DefaultSessionCookie)(next)

	t.Run("tenant rewrite is internal", func(t *testing.T) {
		servedPath = ""
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "http://acme.example.com/post/hello", nil)

		handler.ServeHTTP(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "/s/acme/post/hello", servedPath)
		require.Empty(t, w.Header().Get("Location"))
	})

	t.Run("protected path redirects without cookie", func(t *testing.T) {
		servedPath = ""
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "http://example.com/profile", nil)

		handler.ServeHTTP(w, r)

		require.Equal(t, http.StatusTemporaryRedirect, w.Code)
		require.Equal(t, "/auth", w.Header().Get("Location"))
		require.Empty(t, servedPath)
	})

	t.Run("protected path passes with cookie", func(t *testing.T) {
		servedPath = ""
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "http://example.com/profile", nil)
		r.AddCookie(&http.Cookie{Name: auth.DefaultSessionCookie, Value: "present"})

		handler.ServeHTTP(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "/profile", servedPath)
	})

	t.Run("login path redirects home with cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "http://example.com/auth", nil)
		r.AddCookie(&http.Cookie{Name: auth.DefaultSessionCookie, Value: "present"})

		handler.ServeHTTP(w, r)

		require.Equal(t, http.StatusTemporaryRedirect, w.Code)
		require.Equal(t, "/", w.Header().Get("Location"))
	})
}

func TestMiddleware_LocalDevelopmentHost(t *testing.T) {
	var servedPath string
	handler := Middleware(newTestRouter(), auth.DefaultSessionCookie)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		servedPath = r.URL.Path
	}))

	r := httptest.NewRequest(http.MethodGet, "http://acme.localhost:3000/post/x?y=1", nil)
	handler.ServeHTTP(httptest.NewRecorder(), r)

	require.Equal(t, "/s/acme/post/x", servedPath)
}
