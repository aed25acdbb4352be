package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"filippo.io/csrf"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/wolfeidau/tenantpress/internal/auth"
	"github.com/wolfeidau/tenantpress/internal/bootstrap"
	httpmiddleware "github.com/wolfeidau/tenantpress/internal/http"
	"github.com/wolfeidau/tenantpress/internal/logger"
	"github.com/wolfeidau/tenantpress/internal/orgs"
	"github.com/wolfeidau/tenantpress/internal/posts"
	"github.com/wolfeidau/tenantpress/internal/routing"
	"github.com/wolfeidau/tenantpress/internal/server"
	"github.com/wolfeidau/tenantpress/internal/store"
	memorystore "github.com/wolfeidau/tenantpress/internal/store/memory"
	postgresstore "github.com/wolfeidau/tenantpress/internal/store/postgres"
	"github.com/wolfeidau/tenantpress/internal/telemetry"
	"github.com/wolfeidau/tenantpress/internal/tenant"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type ServeCmd struct {
	// Server configuration
	Listen string `help:"HTTP server listen address" default:"0.0.0.0:3000" env:"TENANTPRESS_LISTEN"`
	Cert   string `help:"path to TLS cert file, serves plain HTTP when empty" default:"" env:"TENANTPRESS_TLS_CERT"`
	Key    string `help:"path to TLS key file" default:"" env:"TENANTPRESS_TLS_KEY"`

	// Tenant routing
	RootDomain        string   `help:"root domain tenants are served under as subdomains" default:"localhost:3000" env:"TENANTPRESS_ROOT_DOMAIN"`
	PreviewSuffix     string   `help:"hosting preview domain suffix for tenant---branch hosts" default:"vercel.app" env:"TENANTPRESS_PREVIEW_SUFFIX"`
	ExcludePattern    string   `help:"regular expression of paths that bypass routing" default:"${exclude_pattern}" env:"TENANTPRESS_EXCLUDE_PATTERN"`
	ProtectedPrefixes []string `help:"path prefixes that require a session" default:"${protected_prefixes}" env:"TENANTPRESS_PROTECTED_PREFIXES"`
	LoginPath         string   `help:"login page path" default:"${login_path}" env:"TENANTPRESS_LOGIN_PATH"`
	SessionCookie     string   `help:"name of the session cookie set by the identity service" default:"${session_cookie}" env:"TENANTPRESS_SESSION_COOKIE"`

	// CORS configuration
	CORSOrigins []string `help:"allowed CORS origins for API requests" default:"http://localhost:3000" env:"TENANTPRESS_CORS_ORIGINS"`

	// Development and operational modes
	Development      bool    `help:"development mode - seed a development tenant and session" default:"false" env:"TENANTPRESS_DEVELOPMENT"`
	Tracing          bool    `help:"enable tracing" default:"false" env:"TENANTPRESS_TRACING"`
	TraceSampleRatio float64 `help:"fraction of traces to sample" default:"1" env:"TENANTPRESS_TRACE_SAMPLE_RATIO"`

	// Store configuration
	StoreType     string             `help:"store type (memory or postgres)" default:"memory" env:"TENANTPRESS_STORE_TYPE" enum:"memory,postgres"`
	PostgresStore PostgresStoreFlags `embed:"" prefix:"postgres-"`
}

// ServeVars supplies the defaults interpolated into ServeCmd tags.
func ServeVars() map[string]string {
	return map[string]string{
		"exclude_pattern":    routing.DefaultExcludePattern,
		"protected_prefixes": strings.Join(routing.DefaultProtectedPrefixes, ","),
		"login_path":         routing.DefaultLoginPath,
		"session_cookie":     auth.DefaultSessionCookie,
	}
}

// stores bundles the store implementations selected by --store-type.
type stores struct {
	posts         store.PostStore
	organizations store.OrganizationStore
	memberships   store.MembershipStore
	users         store.UserStore
	sessions      store.SessionStore
	close         func()
}

func (c *ServeCmd) Run(ctx context.Context, globals *Globals) error {
	log := logger.Setup(globals.Debug)
	ctx = log.WithContext(ctx)

	log.Info().Str("version", globals.Version).Bool("debug", globals.Debug).Msg("Starting server")

	if c.Tracing {
		log.Info().Msg("Tracing is enabled")
		shutdown, err := telemetry.InitTelemetry(ctx, telemetry.Config{
			ServiceName: "tenantpress-server",
			Version:     globals.Version,
			SampleRatio: c.TraceSampleRatio,
		})
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize telemetry, continuing without metrics")
			shutdown = func(ctx context.Context) error { return nil }
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("Failed to shutdown telemetry")
			}
		}()
	}

	st, err := c.createStores(ctx, log)
	if err != nil {
		return err
	}
	defer st.close()

	if c.Development {
		res, err := bootstrap.Bootstrap(ctx, bootstrap.Config{
			Users:         st.users,
			Organizations: st.organizations,
			Sessions:      st.sessions,
			Environment:   "dev",
		})
		if err != nil {
			return fmt.Errorf("failed to bootstrap development tenant: %w", err)
		}
		log.Info().
			Str("tenant", res.OrgSlug).
			Str("cookie", c.SessionCookie+"="+res.SessionID.String()).
			Msg("Development tenant ready")
	}

	postService, err := posts.NewService(posts.Stores{
		Posts:         st.posts,
		Organizations: st.organizations,
		Memberships:   st.memberships,
		Users:         st.users,
	})
	if err != nil {
		return fmt.Errorf("failed to create post service: %w", err)
	}

	orgService, err := orgs.NewService(orgs.Stores{
		Organizations: st.organizations,
		Memberships:   st.memberships,
		Sessions:      st.sessions,
	})
	if err != nil {
		return fmt.Errorf("failed to create organization service: %w", err)
	}

	handler, err := c.buildHandler(postService, orgService, st.sessions)
	if err != nil {
		return err
	}

	handler = httpmiddleware.Compress(handler)
	handler = httpmiddleware.ClientIPMiddleware()(handler)
	handler = logger.HTTPRequests(log)(handler)
	if c.Tracing {
		handler = otelhttp.NewHandler(handler, "tenantpress")
	}

	return c.listen(ctx, log, handler)
}

// buildHandler assembles routing, CSRF and CORS around the route table.
func (c *ServeCmd) buildHandler(postService *posts.Service, orgService *orgs.Service, sessions store.SessionStore) (http.Handler, error) {
	exclusions, err := routing.NewExclusions(c.ExcludePattern)
	if err != nil {
		return nil, fmt.Errorf("invalid exclude pattern: %w", err)
	}

	gate := routing.NewGate(
		routing.WithProtectedPrefixes(c.ProtectedPrefixes...),
		routing.WithLoginPath(c.LoginPath),
	)
	router := routing.NewRouter(tenant.NewResolver(c.RootDomain, c.PreviewSuffix), gate, exclusions)

	srv := server.NewServer(postService, orgService, auth.NewStoreSessionProvider(c.SessionCookie, sessions), gate.LoginPath())
	routed := routing.Middleware(router, c.SessionCookie)(srv.Handler())

	// Cross-origin protection for every state changing request; CORS origins are trusted.
	protection := csrf.New()
	for _, origin := range c.CORSOrigins {
		if err := protection.AddTrustedOrigin(origin); err != nil {
			return nil, fmt.Errorf("invalid CORS origin %q: %w", origin, err)
		}
	}
	protected := protection.Handler(routed)
	withCORS := corsHandler(c.CORSOrigins, protected)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isAPIRoute(r.URL.Path) {
			withCORS.ServeHTTP(w, r)
			return
		}
		protected.ServeHTTP(w, r)
	}), nil
}

func (c *ServeCmd) listen(ctx context.Context, log zerolog.Logger, handler http.Handler) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpServer := configureHTTPServer(c.Listen, handler)
	httpServer.BaseContext = func(_ net.Listener) context.Context { return ctx }

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", c.Listen).Str("root_domain", c.RootDomain).Bool("tls", c.Cert != "").Msg("Starting HTTP server")
		if c.Cert != "" && c.Key != "" {
			errCh <- httpServer.ListenAndServeTLS(c.Cert, c.Key)
			return
		}
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info().Msg("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

// createStores creates the memory or postgres stores.
func (c *ServeCmd) createStores(ctx context.Context, log zerolog.Logger) (*stores, error) {
	switch c.StoreType {
	case "postgres":
		pool, err := c.PostgresStore.connect(ctx, c.PostgresStore.AutoMigrate)
		if err != nil {
			return nil, err
		}
		log.Info().Bool("auto_migrate", c.PostgresStore.AutoMigrate).Msg("Using PostgreSQL stores")

		return &stores{
			posts:         postgresstore.NewPostStore(pool),
			organizations: postgresstore.NewOrganizationStore(pool),
			memberships:   postgresstore.NewMembershipStore(pool),
			users:         postgresstore.NewUserStore(pool),
			sessions:      postgresstore.NewSessionStore(pool),
			close:         pool.Close,
		}, nil

	default:
		memberships := memorystore.NewMembershipStore()
		log.Info().Msg("Using in-memory stores")

		return &stores{
			posts:         memorystore.NewPostStore(),
			organizations: memorystore.NewOrganizationStore(memberships),
			memberships:   memberships,
			users:         memorystore.NewUserStore(),
			sessions:      memorystore.NewSessionStore(),
			close:         func() {},
		}, nil
	}
}

// isAPIRoute returns true if the path is a JSON API route that accepts CORS requests.
func isAPIRoute(path string) bool {
	return path == "/api" || strings.HasPrefix(path, "/api/")
}

// corsHandler adds CORS support to the JSON API.
func corsHandler(allowedOrigins []string, h http.Handler) http.Handler {
	middleware := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true, // Required for cookie-based authentication
	})
	return middleware.Handler(h)
}
