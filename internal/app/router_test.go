package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-wardlow/tt/internal/auth"
	"github.com/noah-wardlow/tt/internal/config"
	"github.com/noah-wardlow/tt/internal/domain/user"
	"github.com/noah-wardlow/tt/internal/payments"
)

type staticResolver struct {
	session *auth.Session
	user    *user.User
}

func (s staticResolver) SessionFromRequest(ctx context.Context, r *http.Request) (*auth.Session, *user.User, error) {
	return s.session, s.user, nil
}

type memoryUserRepo struct {
	users []user.User
}

func (m *memoryUserRepo) Create(ctx context.Context, u *user.User) error {
	m.users = append(m.users, *u)
	return nil
}

func (m *memoryUserRepo) Update(ctx context.Context, u *user.User) error { return nil }

func (m *memoryUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, nil
}

func (m *memoryUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return nil, nil
}

func (m *memoryUserRepo) List(ctx context.Context) ([]user.User, error) {
	return m.users, nil
}

type noopAccountRepo struct{}

func (noopAccountRepo) Create(ctx context.Context, a *user.Account) error { return nil }

func (noopAccountRepo) GetByProviderAccount(ctx context.Context, provider, providerAccountID string) (*user.Account, error) {
	return nil, nil
}

func (noopAccountRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]user.Account, error) {
	return nil, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test"},
		Cors: config.CORSConfig{
			AllowedOrigins:   []string{"http://localhost:3000"},
			DefaultOrigin:    "https://tt-client.example.com",
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
		},
	}
}

func testRouter(resolver staticResolver, authHandler http.Handler, repo *memoryUserRepo) http.Handler {
	logger := zap.NewNop()
	if authHandler == nil {
		authHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
	}
	userService := user.NewService(repo, noopAccountRepo{}, logger, []string{"google"})
	return NewRouter(RouterDeps{
		Config:      testConfig(),
		Sessions:    resolver,
		AuthHandler: authHandler,
		UserHandler: user.NewHandler(userService),
		Webhooks:    payments.NewWebhookHandler(config.StripeConfig{}, logger, payments.NewEventLog(10)),
		Logger:      logger,
	})
}

func authedResolver() staticResolver {
	u := &user.User{ID: uuid.New(), Email: "demo@example.com", Name: "Demo"}
	return staticResolver{
		session: &auth.Session{ID: "sid-1", UserID: u.ID.String()},
		user:    u,
	}
}

func TestLivenessProbe(t *testing.T) {
	router := testRouter(staticResolver{}, nil, &memoryUserRepo{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"ok": true}`, rec.Body.String())
}

func TestSessionEchoUnauthorized(t *testing.T) {
	router := testRouter(staticResolver{}, nil, &memoryUserRepo{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/session", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Empty(t, rec.Body.String())
}

func TestSessionEchoAuthorized(t *testing.T) {
	router := testRouter(authedResolver(), nil, &memoryUserRepo{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/session", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"session"`)
	require.Contains(t, rec.Body.String(), `"user"`)
	require.Contains(t, rec.Body.String(), "demo@example.com")
}

func TestUsersRouteGuarded(t *testing.T) {
	router := testRouter(staticResolver{}, nil, &memoryUserRepo{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Empty(t, rec.Body.String())
}

func TestUsersRouteListsUsers(t *testing.T) {
	repo := &memoryUserRepo{users: []user.User{{ID: uuid.New(), Email: "listed@example.com"}}}
	router := testRouter(authedResolver(), nil, repo)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "listed@example.com")
}

func TestAuthPassthroughForwards(t *testing.T) {
	marker := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	router := testRouter(staticResolver{}, marker, &memoryUserRepo{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/providers", nil))

	require.Equal(t, http.StatusTeapot, rec.Code)
}

func TestAuthPassthroughConvertsFaults(t *testing.T) {
	faulty := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("token exchange blew up")
	})
	router := testRouter(staticResolver{}, faulty, &memoryUserRepo{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/google/callback", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "Authentication error")
	require.Contains(t, rec.Body.String(), "token exchange blew up")
}

func TestUnknownOriginSubstitutedAcrossRoutes(t *testing.T) {
	router := testRouter(staticResolver{}, nil, &memoryUserRepo{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://unknown.example.com")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, "https://tt-client.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}
