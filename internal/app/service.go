package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/shrimpsizemoose/semla/internal/session"
	"github.com/shrimpsizemoose/semla/internal/store"
)

type Service struct {
	Config   *Config
	Store    store.StudentStore
	Sessions session.Store
	Codec    *session.Codec
}

func NewService(configPath string) (*Service, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	store, err := NewStore(config.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to init store: %w", err)
	}

	ttl := time.Duration(config.Sessions.TTLMinutes) * time.Minute

	var sessions session.Store
	if config.Sessions.RedisURL != "" {
		sessions, err = session.NewRedisStore(config.Sessions.RedisURL, ttl)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to init session store: %w", err)
		}
	} else {
		sessions = session.NewMemoryStore(ttl)
	}

	return &Service{
		Config:   config,
		Store:    store,
		Sessions: sessions,
		Codec:    session.NewCodec(config.Sessions.Secret),
	}, nil
}

// StartSession binds a fresh session to the username and returns the
// cookie carrying the signed token.
func (s *Service) StartSession(r *http.Request, username string) (*http.Cookie, error) {
	token, err := s.Sessions.Create(r.Context(), username)
	if err != nil {
		return nil, err
	}

	return &http.Cookie{
		Name:     s.Config.Sessions.CookieName,
		Value:    s.Codec.Encode(token),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   s.Config.Sessions.TTLMinutes * 60,
	}, nil
}

// RequireSession resolves the request's session cookie to a username.
// Any failure along the way reads as ErrNoSession to the caller.
func (s *Service) RequireSession(r *http.Request) (string, error) {
	cookie, err := r.Cookie(s.Config.Sessions.CookieName)
	if err != nil {
		return "", session.ErrNoSession
	}

	token, err := s.Codec.Decode(cookie.Value)
	if err != nil {
		return "", session.ErrNoSession
	}

	return s.Sessions.Lookup(r.Context(), token)
}

// EndSession destroys the session named by the request's cookie.
// Requests without a valid session are a no-op.
func (s *Service) EndSession(r *http.Request) error {
	cookie, err := r.Cookie(s.Config.Sessions.CookieName)
	if err != nil {
		return nil
	}

	token, err := s.Codec.Decode(cookie.Value)
	if err != nil {
		return nil
	}

	return s.Sessions.Destroy(r.Context(), token)
}

func (s *Service) Close() error {
	var errs []error

	if err := s.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}
	if err := s.Sessions.Close(); err != nil {
		errs = append(errs, fmt.Errorf("sessions: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors while closing: %v", errs)
	}
	return nil
}
