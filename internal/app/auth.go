// internal/app/auth.go
package app

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/shrimpsizemoose/semla/internal/models"
	"github.com/shrimpsizemoose/semla/internal/store"
)

var (
	ErrEmptyCredentials = errors.New("username and password are required")
	// ErrUnknownUser and ErrBadPassword stay distinct so the store of
	// record is queryable about which happened; the HTTP layer shows one
	// message for both. See the security notes in DESIGN.md.
	ErrUnknownUser = errors.New("unknown username")
	ErrBadPassword = errors.New("password does not match")
)

// Register creates an account with a bcrypt-hashed password. The
// username check before the insert is not atomic; the unique constraint
// on users.username backstops the race.
func (s *Service) Register(username, password string) (int64, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return 0, ErrEmptyCredentials
	}

	if _, err := s.Store.GetUserByUsername(username); err == nil {
		return 0, store.ErrUsernameTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return 0, fmt.Errorf("failed to check username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		Password: string(hash),
	}
	if err := s.Store.CreateUser(user); err != nil {
		return 0, err
	}

	return user.ID, nil
}

// Authenticate checks a username/password pair against the stored hash.
func (s *Service) Authenticate(username, password string) (*models.User, error) {
	user, err := s.Store.GetUserByUsername(strings.TrimSpace(username))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUnknownUser
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrBadPassword
	}

	return user, nil
}
