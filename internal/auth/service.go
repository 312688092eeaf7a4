package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrDuplicateUsername is returned when registering an existing username.
	ErrDuplicateUsername = errors.New("username already taken")
	// ErrInvalidCredentials covers both unknown username and wrong password,
	// so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// DefaultRole is assigned when registration omits a role.
const DefaultRole = "pegawai"

// bcryptCost targets roughly 100ms verification on current hardware.
const bcryptCost = 12

// UserStore is the persistence seam used by the Service.
type UserStore interface {
	Insert(ctx context.Context, u User) (int64, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      User
}

// Service verifies credentials and issues session tokens.
type Service struct {
	store    UserStore
	secret   string
	tokenTTL time.Duration
}

func NewService(store UserStore, secret string, tokenTTL time.Duration) *Service {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Service{store: store, secret: secret, tokenTTL: tokenTTL}
}

// Register creates an account with a bcrypt-hashed password. The raw password
// is never stored or logged.
func (s *Service) Register(ctx context.Context, username, password, namaLengkap, email, role string) (int64, error) {
	if username == "" || password == "" {
		return 0, fmt.Errorf("%w: username and password required", ErrInvalidCredentials)
	}
	existing, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return 0, ErrDuplicateUsername
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return 0, err
	}
	if role == "" {
		role = DefaultRole
	}
	return s.store.Insert(ctx, User{
		Username:     username,
		PasswordHash: string(hash),
		NamaLengkap:  namaLengkap,
		Email:        email,
		Role:         role,
	})
}

// Login performs a single lookup by username and a constant-time password
// comparison. Unknown usernames and wrong passwords are indistinguishable.
func (s *Service) Login(ctx context.Context, username, password string) (Session, error) {
	user, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		return Session{}, err
	}
	if user == nil {
		return Session{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	token, exp, err := IssueToken(user.ID, user.Username, user.Role, s.secret, s.tokenTTL)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, ExpiresAt: exp, User: *user}, nil
}
