package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials signals wrong username or password. It never says which.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrInvalidRole signals an unknown account role.
	ErrInvalidRole = errors.New("auth: invalid role")
	// ErrMissingFields signals an empty username or password.
	ErrMissingFields = errors.New("auth: username and password are required")
	// ErrInvalidToken signals a malformed, expired or forged session token.
	ErrInvalidToken = errors.New("auth: invalid token")
	// ErrPasswordTooLong signals a password bcrypt cannot hash.
	ErrPasswordTooLong = errors.New("auth: password exceeds 72 bytes")
)

const maxPasswordBytes = 72

const defaultTokenTTL = 24 * time.Hour

// dummyHash is compared against when the username is unknown so that a miss
// costs the same bcrypt work as a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("stylebook-dummy-password"), bcrypt.DefaultCost)

// Service handles credential business logic.
type Service struct {
	repo      Repository
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

// NewService creates a new credential service.
func NewService(repo Repository, jwtSecret string) *Service {
	return &Service{
		repo:      repo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  defaultTokenTTL,
		now:       time.Now,
	}
}

func (s *Service) WithTokenTTL(ttl time.Duration) *Service {
	if ttl > 0 {
		s.tokenTTL = ttl
	}
	return s
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Register creates a new account.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (Account, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return Account{}, ErrMissingFields
	}
	if len(req.Password) > maxPasswordBytes {
		return Account{}, ErrPasswordTooLong
	}

	role, ok := ParseRole(strings.ToLower(strings.TrimSpace(string(req.Role))))
	if !ok {
		return Account{}, fmt.Errorf("%w %q", ErrInvalidRole, req.Role)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return Account{}, ErrPasswordTooLong
		}
		return Account{}, fmt.Errorf("auth: hash password: %w", err)
	}

	account, err := s.repo.CreateAccount(ctx, CreateAccountParams{
		Username:     username,
		PasswordHash: string(passwordHash),
		Role:         role,
	})
	if err != nil {
		return Account{}, err
	}

	return account.withoutHash(), nil
}

// Authenticate verifies credentials and returns the account without its hash.
func (s *Service) Authenticate(ctx context.Context, req LoginRequest) (Account, error) {
	account, err := s.repo.GetAccountByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(req.Password))
			return Account{}, ErrInvalidCredentials
		}
		return Account{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return Account{}, ErrInvalidCredentials
	}

	return account.withoutHash(), nil
}

// GetAccount retrieves account information by ID.
func (s *Service) GetAccount(ctx context.Context, id int64) (Account, error) {
	account, err := s.repo.GetAccountByID(ctx, id)
	if err != nil {
		return Account{}, err
	}
	return account.withoutHash(), nil
}

// IssueToken creates a signed session token for the account.
func (s *Service) IssueToken(account Account) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(account.ID, 10),
		"role": string(account.Role),
		"exp":  now.Add(s.tokenTTL).Unix(),
		"iat":  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken validates a session token and returns the account ID and role.
func (s *Service) VerifyToken(tokenString string) (int64, Role, error) {
	if tokenString == "" {
		return 0, "", ErrInvalidToken
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return 0, "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, "", ErrInvalidToken
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return 0, "", ErrInvalidToken
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || id <= 0 {
		return 0, "", ErrInvalidToken
	}

	roleStr, ok := claims["role"].(string)
	if !ok {
		return 0, "", ErrInvalidToken
	}
	role, ok := ParseRole(roleStr)
	if !ok {
		return 0, "", ErrInvalidToken
	}

	return id, role, nil
}
