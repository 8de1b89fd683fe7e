package adminui

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"

	"SpeedReaderwebserver/internal/auth"
	"SpeedReaderwebserver/internal/domain"
	"SpeedReaderwebserver/internal/service"
)

type Opts struct {
	Logger *slog.Logger

	Auth          *service.AuthService
	Admin         *service.AdminService
	PasswordReset *service.PasswordResetService
	Tokens        auth.TokenCodec
	CookieSecure  bool
}

func New(opts Opts) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if opts.Auth == nil || opts.Admin == nil {
		return http.NotFoundHandler()
	}

	app := &app{
		logger:       logger,
		authSvc:      opts.Auth,
		adminSvc:     opts.Admin,
		resetSvc:     opts.PasswordReset,
		tokens:       opts.Tokens,
		cookieSecure: opts.CookieSecure,
	}

	t, err := parseTemplates()
	if err != nil {
		logger.Error("adminui: parse templates failed", "err", err)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "internal server error", http.StatusInternalServerError)
		})
	}
	app.templates = t

	mux := http.NewServeMux()
	mux.HandleFunc("GET /admin", app.redirectAdmin)
	mux.HandleFunc("GET /admin/{$}", app.redirectAdmin)
	mux.HandleFunc("GET /admin/login", app.handleLoginGet)
	mux.HandleFunc("POST /admin/login", app.handleLoginPost)
	mux.HandleFunc("POST /admin/logout", app.handleLogoutPost)
	mux.HandleFunc("GET /admin/accounts", app.requireAdmin(app.handleAccountsList))
	mux.HandleFunc("POST /admin/accounts/{id}/{action}", app.requireAdmin(app.handleAccountAction))
	staticFS, err := fs.Sub(assets, "static")
	if err != nil {
		logger.Error("adminui: static fs setup failed", "err", err)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "internal server error", http.StatusInternalServerError)
		})
	}
	static := http.StripPrefix("/admin/static/", http.FileServer(http.FS(staticFS)))
	mux.Handle("GET /admin/static/", static)
	mux.Handle("HEAD /admin/static/", static)

	return mux
}

type app struct {
	logger *slog.Logger

	authSvc  *service.AuthService
	adminSvc *service.AdminService
	resetSvc *service.PasswordResetService

	tokens       auth.TokenCodec
	cookieSecure bool

	templates *templates
}

type adminCtxKey struct{}

func (a *app) redirectAdmin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/admin/accounts", http.StatusFound)
}

// requireAdmin gates console pages. Signed-out and disabled visitors go to the
// login page; signed-in non-admins go to the public landing page.
func (a *app) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := auth.TokenFromRequest(r)
		if raw == "" {
			http.Redirect(w, r, "/admin/login", http.StatusFound)
			return
		}
		claims, err := a.tokens.Parse(raw)
		if err != nil {
			auth.ClearSessionCookie(w, a.cookieSecure)
			http.Redirect(w, r, "/admin/login", http.StatusFound)
			return
		}

		acct, err := a.authSvc.SessionAccount(r.Context(), claims, auth.ScopeAdmin)
		switch {
		case err == nil:
		case errors.Is(err, domain.ErrForbidden):
			http.Redirect(w, r, "/", http.StatusFound)
			return
		case errors.Is(err, domain.ErrAccountDisabled), errors.Is(err, domain.ErrUnauthorized):
			auth.ClearSessionCookie(w, a.cookieSecure)
			http.Redirect(w, r, "/admin/login", http.StatusFound)
			return
		default:
			a.logger.Error("adminui: session lookup failed", "err", err)
			a.templates.renderError(w, http.StatusInternalServerError, domain.Identity{}, "Error", "Something went wrong. Try again.")
			return
		}

		ctx := context.WithValue(r.Context(), adminCtxKey{}, acct)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

func currentAdmin(ctx context.Context) domain.Account {
	acct, _ := ctx.Value(adminCtxKey{}).(domain.Account)
	return acct
}
