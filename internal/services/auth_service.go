package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"commerce/internal/domain"
	"commerce/internal/repos"
	"commerce/internal/validate"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Default admin account created by init-admin.
const (
	DefaultAdminEmail    = "admin@example.com"
	DefaultAdminPassword = "admin123"
)

var (
	ErrBadCreds         = errors.New("incorrect email or password")
	ErrBadToken         = errors.New("could not validate credentials")
	ErrEmailTaken       = errors.New("email already registered")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// Claims is the bearer token payload: subject is the email.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService struct {
	Users  *repos.UserRepo
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

func NewAuthService(users *repos.UserRepo, secret string, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &AuthService{Users: users, Secret: []byte(secret), TTL: ttl, Now: time.Now}
}

// Login checks the password and returns a fresh token. Unknown, inactive and
// wrong-password accounts all fail with ErrBadCreds.
func (s *AuthService) Login(email, password string) (string, *domain.User, error) {
	u, err := s.Users.ByEmail(strings.TrimSpace(email))
	if err != nil {
		return "", nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil || !u.Active {
		return "", nil, ErrBadCreds
	}
	if err := s.Users.UpdateLastLogin(u.ID); err != nil {
		return "", nil, err
	}
	tok, err := s.IssueToken(u)
	if err != nil {
		return "", nil, err
	}
	return tok, u, nil
}

func (s *AuthService) Register(email, password, confirm string) (*domain.User, error) {
	if password != confirm {
		return nil, ErrPasswordMismatch
	}
	return s.create(email, password, "", domain.RoleUser)
}

// EnsureAdmin creates an ADMIN account unless the email is taken. It reports
// whether an account was created.
func (s *AuthService) EnsureAdmin(email, password string) (bool, error) {
	_, err := s.create(email, password, "Administrator", domain.RoleAdmin)
	if errors.Is(err, ErrEmailTaken) {
		return false, nil
	}
	return err == nil, err
}

func (s *AuthService) create(email, password, name, role string) (*domain.User, error) {
	email, ok := validate.Email(email)
	if !ok {
		return nil, fmt.Errorf("%w: email", ErrInvalidInput)
	}
	if len(password) < 6 || len(password) > 72 {
		return nil, fmt.Errorf("%w: password must be 6 to 72 characters", ErrInvalidInput)
	}
	if _, err := s.Users.ByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := domain.User{ID: uuid.NewString(), Email: email, Name: name, Hash: string(h), Role: role, Active: true}
	if err := s.Users.Create(u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *AuthService) IssueToken(u *domain.User) (string, error) {
	now := s.Now()
	claims := Claims{
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}

func (s *AuthService) ParseToken(tokenStr string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.Secret, nil
	}, jwt.WithTimeFunc(s.Now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadToken, err)
	}
	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid || claims.Subject == "" {
		return nil, ErrBadToken
	}
	return claims, nil
}

// CurrentUser resolves a bearer token to an active user.
func (s *AuthService) CurrentUser(tokenStr string) (*domain.User, error) {
	claims, err := s.ParseToken(tokenStr)
	if err != nil {
		return nil, err
	}
	u, err := s.Users.ByEmail(claims.Subject)
	if err != nil || !u.Active {
		return nil, ErrBadToken
	}
	return u, nil
}
