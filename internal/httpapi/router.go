package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"SpeedReaderwebserver/internal/auth"
	"SpeedReaderwebserver/internal/service"
)

type RouterOpts struct {
	Logger *slog.Logger
	IsProd bool

	DBPing func(context.Context) error

	Auth          *service.AuthService
	Records       *service.RecordService
	Stats         *service.StatsService
	Passages      *service.PassageService
	Admin         *service.AdminService
	PasswordReset *service.PasswordResetService
	Tokens        auth.TokenCodec
	CookieSecure  bool
	CORSOrigins   []string
}

func NewRouter(opts RouterOpts) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	api := &api{
		logger:       logger,
		isProd:       opts.IsProd,
		dbPing:       opts.DBPing,
		authSvc:      opts.Auth,
		recordSvc:    opts.Records,
		statsSvc:     opts.Stats,
		passageSvc:   opts.Passages,
		adminSvc:     opts.Admin,
		resetSvc:     opts.PasswordReset,
		tokens:       opts.Tokens,
		cookieSecure: opts.CookieSecure,
		loginLimiter: newLoginLimiter(),
	}

	publicMux := http.NewServeMux()
	apiMux := http.NewServeMux()

	publicMux.HandleFunc("GET /", api.handleHome)
	publicMux.HandleFunc("GET /reset-password", api.handleResetPasswordPage)
	publicMux.HandleFunc("GET /healthz", api.handleHealthz)

	if api.authSvc == nil {
		apiMux.HandleFunc("/v1/", handleNotImplemented)
	} else {
		apiMux.HandleFunc("POST /v1/auth/register", api.handleAuthRegister)
		apiMux.HandleFunc("POST /v1/auth/login", api.handleAuthLogin)
		apiMux.HandleFunc("POST /v1/auth/google", api.handleAuthLoginGoogle)
		apiMux.HandleFunc("POST /v1/auth/apple", api.handleAuthLoginApple)
		apiMux.HandleFunc("POST /v1/auth/logout", api.requireAuth(api.handleAuthLogout))
		apiMux.HandleFunc("POST /v1/auth/password/forgot", api.handleAuthForgot)
		apiMux.HandleFunc("POST /v1/auth/password/reset", api.handleAuthReset)
		apiMux.HandleFunc("GET /v1/users/me", api.requireAuth(api.handleUsersMe))

		if api.recordSvc != nil {
			apiMux.HandleFunc("POST /v1/drills", api.requireAuth(api.handleDrillsCreate))
			apiMux.HandleFunc("GET /v1/drills", api.requireAuth(api.handleDrillsList))
			apiMux.HandleFunc("POST /v1/reading-sessions", api.requireAuth(api.handleReadingSessionsCreate))
			apiMux.HandleFunc("GET /v1/reading-sessions", api.requireAuth(api.handleReadingSessionsList))
		}

		if api.statsSvc != nil {
			apiMux.HandleFunc("GET /v1/stats/summary", api.requireAuth(api.handleStatsSummary))
			apiMux.HandleFunc("GET /v1/leaderboard", api.requireAuth(api.handleLeaderboard))
		}

		if api.passageSvc != nil {
			apiMux.HandleFunc("GET /v1/passages", api.requireAuth(api.handlePassagesList))
			apiMux.HandleFunc("GET /v1/passages/{id}", api.requireAuth(api.handlePassagesGet))
		}

		if api.adminSvc != nil {
			apiMux.HandleFunc("GET /v1/admin/accounts", api.requireAdmin(api.handleAdminAccountsList))
			apiMux.HandleFunc("GET /v1/admin/accounts/{id}", api.requireAdmin(api.handleAdminAccountGet))
			apiMux.HandleFunc("POST /v1/admin/accounts/{id}/status", api.requireAdmin(api.handleAdminAccountStatus))
			apiMux.HandleFunc("POST /v1/admin/accounts/{id}/role", api.requireAdmin(api.handleAdminAccountRole))
			apiMux.HandleFunc("POST /v1/admin/accounts/{id}/reset-link", api.requireAdmin(api.handleAdminAccountResetLink))
		}
	}

	apiHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Handler only matches; ServeHTTP is what fills in path wildcards.
		if _, pattern := apiMux.Handler(r); pattern == "" {
			handleV1NotFound(w, r)
			return
		}
		apiMux.ServeHTTP(w, r)
	})

	root := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/v1/") || r.URL.Path == "/v1" {
			apiHandler.ServeHTTP(w, r)
			return
		}
		publicMux.ServeHTTP(w, r)
	})

	var h http.Handler = root
	h = CORS(opts.CORSOrigins)(h)
	h = RequestLogger(logger)(h)
	h = RequestID()(h)
	h = Recoverer(logger, opts.IsProd)(h)
	return h
}

func handleNotImplemented(w http.ResponseWriter, _ *http.Request) {
	WriteError(w, http.StatusNotImplemented, "not_implemented", "not implemented")
}

func handleV1NotFound(w http.ResponseWriter, _ *http.Request) {
	WriteError(w, http.StatusNotFound, "not_found", "not found")
}

type api struct {
	logger *slog.Logger
	isProd bool

	dbPing func(context.Context) error

	authSvc      *service.AuthService
	recordSvc    *service.RecordService
	statsSvc     *service.StatsService
	passageSvc   *service.PassageService
	adminSvc     *service.AdminService
	resetSvc     *service.PasswordResetService
	tokens       auth.TokenCodec
	cookieSecure bool

	loginLimiter *loginLimiter
}

func (a *api) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if a.dbPing != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()
		if err := a.dbPing(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("db down"))
			return
		}
	}

	_, _ = w.Write([]byte("ok"))
}
