package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthbook/web/internal/config"
	"healthbook/web/internal/gateway"
	"healthbook/web/internal/models"
)

type backendStub struct {
	loginStatus    int
	loginBody      string
	registerStatus int
	registerBody   string

	loginCalls    int
	registerCalls int
}

func (b *backendStub) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/user/login", func(w http.ResponseWriter, r *http.Request) {
		b.loginCalls++
		if b.loginStatus != 0 {
			w.WriteHeader(b.loginStatus)
		}
		w.Write([]byte(b.loginBody))
	})
	mux.HandleFunc("/user/register", func(w http.ResponseWriter, r *http.Request) {
		b.registerCalls++
		if b.registerStatus != 0 {
			w.WriteHeader(b.registerStatus)
		}
		w.Write([]byte(b.registerBody))
	})
	return mux
}

func newTestStore(t *testing.T, stub *backendStub) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	srv := httptest.NewServer(stub.handler())
	t.Cleanup(srv.Close)

	backend := gateway.New(config.BackendConfig{BaseURL: srv.URL, Timeout: 2 * time.Second})
	cfg := &config.SecurityConfig{
		SessionSecret: "test-secret",
		SessionTTL:    time.Hour,
		CookieName:    "healthbook_session",
	}
	return NewStore(backend, cache, cfg, zerolog.Nop()), mr
}

func TestLoginCreatesSession(t *testing.T) {
	stub := &backendStub{loginBody: `{"userId":7,"role":"PATIENT"}`}
	store, mr := newTestStore(t, stub)
	ctx := context.Background()

	sess, token, err := store.Login(ctx, "Pat@X.com", "secret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.Equal(t, int64(7), sess.SubjectID)
	assert.Equal(t, models.RolePatient, sess.Role)
	assert.Equal(t, "pat@x.com", sess.Email)
	assert.False(t, sess.CreatedAt.IsZero())

	// the record must be durable before the token is handed out
	keys := mr.Keys()
	require.Len(t, keys, 1)

	loaded, sid, err := store.Load(ctx, token)
	require.NoError(t, err)
	assert.NotEmpty(t, sid)
	assert.Equal(t, sess.SubjectID, loaded.SubjectID)
	assert.Equal(t, sess.Role, loaded.Role)
	assert.Equal(t, sess.Email, loaded.Email)
}

func TestLoginNormalizesBackendRole(t *testing.T) {
	stub := &backendStub{loginBody: `{"userId":7,"role":"USER"}`}
	store, _ := newTestStore(t, stub)

	sess, _, err := store.Login(context.Background(), "pat@x.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, models.RolePatient, sess.Role)
}

func TestLoginSurfacesBackendMessage(t *testing.T) {
	stub := &backendStub{loginStatus: http.StatusUnauthorized, loginBody: `{"message":"Invalid email or password"}`}
	store, mr := newTestStore(t, stub)

	_, _, err := store.Login(context.Background(), "pat@x.com", "wrong")
	require.Error(t, err)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Invalid email or password", authErr.Message)
	assert.Empty(t, mr.Keys())
}

func TestLoginRejectsUnknownRole(t *testing.T) {
	stub := &backendStub{loginBody: `{"userId":7,"role":"SUPERADMIN"}`}
	store, mr := newTestStore(t, stub)

	_, _, err := store.Login(context.Background(), "pat@x.com", "secret")
	require.Error(t, err)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Login failed. Please check your credentials.", authErr.Message)
	assert.Empty(t, mr.Keys())
}

func TestRegisterAutoLogin(t *testing.T) {
	stub := &backendStub{
		registerBody: `{"id":9}`,
		loginBody:    `{"userId":9,"role":"DOCTOR"}`,
	}
	store, _ := newTestStore(t, stub)

	sess, token, err := store.Register(context.Background(), "Dr. Jo", "jo@x.com", "pw", models.RoleDoctor)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.Equal(t, 1, stub.registerCalls)
	assert.Equal(t, 1, stub.loginCalls)
	assert.Equal(t, models.RoleDoctor, sess.Role)
	assert.Equal(t, int64(9), sess.SubjectID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	stub := &backendStub{registerStatus: http.StatusConflict}
	store, mr := newTestStore(t, stub)

	_, _, err := store.Register(context.Background(), "Jo", "jo@x.com", "pw", models.RolePatient)
	require.Error(t, err)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Email already exists. Please use a different email.", authErr.Message)

	assert.Equal(t, 0, stub.loginCalls)
	assert.Empty(t, mr.Keys())
}

func TestRegisterRejectsInvalidRole(t *testing.T) {
	stub := &backendStub{}
	store, _ := newTestStore(t, stub)

	_, _, err := store.Register(context.Background(), "Jo", "jo@x.com", "pw", models.Role("WIZARD"))
	require.Error(t, err)
	assert.Equal(t, 0, stub.registerCalls)
}

func TestLogoutIdempotent(t *testing.T) {
	stub := &backendStub{loginBody: `{"userId":7,"role":"PATIENT"}`}
	store, mr := newTestStore(t, stub)
	ctx := context.Background()

	_, token, err := store.Login(ctx, "pat@x.com", "secret")
	require.NoError(t, err)

	store.Logout(ctx, token)
	assert.Empty(t, mr.Keys())

	// repeated, garbage, and empty tokens are all no-ops
	store.Logout(ctx, token)
	store.Logout(ctx, "garbage")
	store.Logout(ctx, "")

	_, _, err = store.Load(ctx, token)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestLoadRejectsTamperedToken(t *testing.T) {
	stub := &backendStub{loginBody: `{"userId":7,"role":"PATIENT"}`}
	store, _ := newTestStore(t, stub)
	ctx := context.Background()

	_, token, err := store.Login(ctx, "pat@x.com", "secret")
	require.NoError(t, err)

	_, _, err = store.Load(ctx, token+"x")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestLoadDiscardsCorruptRecord(t *testing.T) {
	stub := &backendStub{loginBody: `{"userId":7,"role":"PATIENT"}`}
	store, mr := newTestStore(t, stub)
	ctx := context.Background()

	_, token, err := store.Login(ctx, "pat@x.com", "secret")
	require.NoError(t, err)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	require.NoError(t, mr.Set(keys[0], "{not json"))

	_, _, err = store.Load(ctx, token)
	assert.ErrorIs(t, err, ErrNoSession)
	assert.Empty(t, mr.Keys())
}

func TestLoadDiscardsIncompleteRecord(t *testing.T) {
	stub := &backendStub{loginBody: `{"userId":7,"role":"PATIENT"}`}
	store, mr := newTestStore(t, stub)
	ctx := context.Background()

	_, token, err := store.Login(ctx, "pat@x.com", "secret")
	require.NoError(t, err)

	partial, err := json.Marshal(models.Session{SubjectID: 7})
	require.NoError(t, err)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	require.NoError(t, mr.Set(keys[0], string(partial)))

	_, _, err = store.Load(ctx, token)
	assert.ErrorIs(t, err, ErrNoSession)
	assert.Empty(t, mr.Keys())
}
