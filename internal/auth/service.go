package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-wardlow/tt/internal/config"
	"github.com/noah-wardlow/tt/internal/domain/user"
	"github.com/noah-wardlow/tt/internal/oauth"
)

// Deps aggregates what a Service needs.
type Deps struct {
	Auth         config.AuthConfig
	OAuth        config.OAuthConfig
	BaseURL      string
	ClientOrigin string
	Sessions     SessionStore
	Users        *user.Service
	Logger       *zap.Logger
}

// Service owns the OAuth login flows and session issuance. It exposes its
// routes as a plain http.Handler mounted under /auth by the router.
type Service struct {
	deps      Deps
	providers map[oauth.Provider]*providerClient
	handler   http.Handler
}

// NewService constructs provider clients for every enabled provider with
// credentials. Providers without credentials are skipped with a warning so
// a partially configured environment still boots.
func NewService(ctx context.Context, deps Deps) (*Service, error) {
	s := &Service{
		deps:      deps,
		providers: make(map[oauth.Provider]*providerClient),
	}
	for _, p := range oauth.EnabledProviders() {
		creds := deps.OAuth.Providers[p]
		if creds.ClientID == "" || creds.ClientSecret == "" {
			deps.Logger.Warn("oauth provider enabled without credentials, skipping",
				zap.String("provider", string(p)))
			continue
		}
		redirectURL := deps.BaseURL + "/auth/" + string(p) + "/callback"
		client, err := newProviderClient(ctx, p, creds.ClientID, creds.ClientSecret, redirectURL)
		if err != nil {
			return nil, err
		}
		s.providers[p] = client
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/providers", s.handleProviders)
	mux.HandleFunc("GET /auth/{provider}/login", s.handleLogin)
	mux.HandleFunc("GET /auth/{provider}/callback", s.handleCallback)
	mux.HandleFunc("POST /auth/logout", s.handleLogout)
	mux.HandleFunc("/auth/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown auth route"})
	})
	s.handler = mux

	return s, nil
}

// Handler exposes the /auth/* routes.
func (s *Service) Handler() http.Handler {
	return s.handler
}

// SessionFromRequest resolves the caller's session and user from the
// request's cookie. A missing or expired session is (nil, nil, nil); only
// infrastructure failures return an error.
func (s *Service) SessionFromRequest(ctx context.Context, r *http.Request) (*Session, *user.User, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil, nil
	}

	sess, err := s.deps.Sessions.Get(ctx, cookie.Value)
	if err != nil {
		return nil, nil, err
	}
	if sess == nil {
		return nil, nil, nil
	}
	if time.Now().After(sess.ExpiresAt) {
		_ = s.deps.Sessions.Delete(ctx, sess.ID)
		return nil, nil, nil
	}

	userID, err := uuid.Parse(sess.UserID)
	if err != nil {
		return nil, nil, nil
	}
	u, err := s.deps.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if u == nil {
		return nil, nil, nil
	}
	return sess, u, nil
}

func (s *Service) handleProviders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, oauth.Descriptors())
}

func (s *Service) handleLogin(w http.ResponseWriter, r *http.Request) {
	client, ok := s.clientFor(r.PathValue("provider"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown oauth provider"})
		return
	}

	state, err := issueState(s.deps.Auth.Secret, client.provider, s.deps.Auth.StateTTL)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to start login"})
		return
	}
	http.Redirect(w, r, client.authCodeURL(state), http.StatusFound)
}

func (s *Service) handleCallback(w http.ResponseWriter, r *http.Request) {
	client, ok := s.clientFor(r.PathValue("provider"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown oauth provider"})
		return
	}

	// Consent denied or provider-side failure: back to the login page.
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		s.deps.Logger.Warn("oauth callback returned error",
			zap.String("provider", string(client.provider)),
			zap.String("error", errParam),
		)
		http.Redirect(w, r, s.deps.ClientOrigin+"/login", http.StatusFound)
		return
	}

	if err := parseState(s.deps.Auth.Secret, r.URL.Query().Get("state"), client.provider); err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid state"})
		return
	}
	code := r.URL.Query().Get("code")
	if code == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing code"})
		return
	}

	identity, err := client.identity(r.Context(), code)
	if err != nil {
		s.deps.Logger.Warn("oauth exchange failed",
			zap.String("provider", string(client.provider)),
			zap.Error(err),
		)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication failed"})
		return
	}

	resolved, err := s.deps.Users.ResolveOAuthUser(r.Context(), identity)
	if err != nil {
		s.deps.Logger.Error("oauth user resolution failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to resolve user"})
		return
	}

	now := time.Now().UTC()
	sess := Session{
		ID:        uuid.NewString(),
		UserID:    resolved.ID.String(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.deps.Auth.SessionTTL),
	}
	if err := s.deps.Sessions.Create(r.Context(), sess); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to persist session"})
		return
	}
	setSessionCookie(w, sess.ID, sess.ExpiresAt)

	s.deps.Logger.Info("login succeeded",
		zap.String("provider", string(client.provider)),
		zap.String("user_id", resolved.ID.String()),
	)
	http.Redirect(w, r, s.deps.ClientOrigin, http.StatusFound)
}

func (s *Service) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		// Best effort: an unknown session id still clears the cookie.
		_ = s.deps.Sessions.Delete(r.Context(), cookie.Value)
	}
	clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// clientFor maps a raw path param to a configured provider client.
func (s *Service) clientFor(raw string) (*providerClient, bool) {
	p, ok := oauth.Lookup(raw)
	if !ok || !oauth.IsEnabled(p) {
		return nil, false
	}
	client, ok := s.providers[p]
	return client, ok
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
