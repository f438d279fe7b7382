package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"healthbook/web/internal/config"
	"healthbook/web/internal/gateway"
	"healthbook/web/internal/ids"
	"healthbook/web/internal/models"
	"healthbook/web/internal/security"
)

var ErrNoSession = errors.New("no active session")

// AuthError carries a message safe to show to the user.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

const (
	genericLoginMessage    = "Login failed. Please check your credentials."
	invalidInputMessage    = "Invalid input. Please check all fields are filled correctly."
	duplicateEmailMessage  = "Email already exists. Please use a different email."
	genericRegisterMessage = "Registration failed. Please try again."
)

const keyPrefix = "session:"

// Store is the single owner of the authenticated identity. Sessions live in
// Redis under session:<sid>; the browser only ever holds a signed token
// referencing the sid. Nothing outside this package reads or writes the keys.
type Store struct {
	backend *gateway.Client
	cache   *redis.Client
	cfg     *config.SecurityConfig
	log     zerolog.Logger
}

func NewStore(backend *gateway.Client, cache *redis.Client, cfg *config.SecurityConfig, log zerolog.Logger) *Store {
	return &Store{
		backend: backend,
		cache:   cache,
		cfg:     cfg,
		log:     log,
	}
}

func (s *Store) Login(ctx context.Context, email string, password string) (models.Session, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	result, err := s.backend.Identity.Login(ctx, email, password)
	if err != nil {
		if apiErr, ok := gateway.AsAPIError(err); ok && apiErr.Message != "" {
			return models.Session{}, "", &AuthError{Message: apiErr.Message}
		}
		s.log.Warn().Err(err).Str("email", email).Msg("backend login failed")
		return models.Session{}, "", &AuthError{Message: genericLoginMessage}
	}

	role, err := models.ParseRole(result.Role)
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", result.UserID).Msg("backend returned unknown role")
		return models.Session{}, "", &AuthError{Message: genericLoginMessage}
	}

	sess := models.Session{
		SubjectID: result.UserID,
		Role:      role,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}

	sid := ids.New()
	if err := s.persist(ctx, sid, sess); err != nil {
		return models.Session{}, "", err
	}

	token, err := security.SignSessionToken(s.cfg.SessionSecret, sid, s.cfg.SessionTTL)
	if err != nil {
		_ = s.cache.Del(ctx, keyPrefix+sid).Err()
		return models.Session{}, "", err
	}

	return sess, token, nil
}

// Register creates the account and then logs in with the same credentials.
// It never yields a session without that login round-trip succeeding.
func (s *Store) Register(ctx context.Context, name string, email string, password string, role models.Role) (models.Session, string, error) {
	if !role.Valid() {
		return models.Session{}, "", &AuthError{Message: invalidInputMessage}
	}

	input := gateway.RegisterInput{
		Name:     strings.TrimSpace(name),
		Email:    strings.TrimSpace(strings.ToLower(email)),
		Password: password,
		Role:     role.Wire(),
	}

	if err := s.backend.Identity.Register(ctx, input); err != nil {
		return models.Session{}, "", &AuthError{Message: registerMessage(err)}
	}

	return s.Login(ctx, input.Email, password)
}

func registerMessage(err error) string {
	apiErr, ok := gateway.AsAPIError(err)
	if !ok {
		return genericRegisterMessage
	}
	if apiErr.Message != "" {
		return apiErr.Message
	}
	switch {
	case gateway.IsValidation(err):
		return invalidInputMessage
	case gateway.IsConflict(err):
		return duplicateEmailMessage
	default:
		return genericRegisterMessage
	}
}

// Logout is idempotent: absent, expired, or garbage tokens are all no-ops.
func (s *Store) Logout(ctx context.Context, token string) {
	if token == "" {
		return
	}
	claims, err := security.ParseSessionToken(token, s.cfg.SessionSecret)
	if err != nil {
		return
	}
	if err := s.cache.Del(ctx, keyPrefix+claims.SessionID).Err(); err != nil {
		s.log.Warn().Err(err).Msg("session delete failed")
	}
}

// Load rehydrates the session referenced by the cookie token. A missing key,
// an unparseable record, or a partially populated record all resolve to
// ErrNoSession; corrupt records are deleted so the next load starts clean.
func (s *Store) Load(ctx context.Context, token string) (models.Session, string, error) {
	if token == "" {
		return models.Session{}, "", ErrNoSession
	}

	claims, err := security.ParseSessionToken(token, s.cfg.SessionSecret)
	if err != nil {
		return models.Session{}, "", ErrNoSession
	}

	key := keyPrefix + claims.SessionID
	raw, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Msg("session read failed")
		}
		return models.Session{}, "", ErrNoSession
	}

	var sess models.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil || !sess.Complete() {
		s.log.Warn().Str("session_id", claims.SessionID).Msg("discarding corrupt session record")
		_ = s.cache.Del(ctx, key).Err()
		return models.Session{}, "", ErrNoSession
	}

	return sess, claims.SessionID, nil
}

func (s *Store) persist(ctx context.Context, sid string, sess models.Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.cache.Set(ctx, keyPrefix+sid, payload, s.cfg.SessionTTL).Err(); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}
