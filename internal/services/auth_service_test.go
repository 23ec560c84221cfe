package services_test

import (
	"errors"
	"testing"
	"time"

	"commerce/internal/domain"
	"commerce/internal/repos"
	"commerce/internal/services"
)

func authSvc(t *testing.T) *services.AuthService {
	return services.NewAuthService(repos.NewUserRepo(memdb(t)), "test-secret", 30*time.Minute)
}

func TestLoginIssuesUsableToken(t *testing.T) {
	svc := authSvc(t)

	tok, u, err := svc.Login("USER@commerce.test", "Passw0rd!")
	if err != nil {
		t.Fatal(err)
	}
	if u.Role != domain.RoleUser {
		t.Fatalf("role %s", u.Role)
	}
	me, err := svc.CurrentUser(tok)
	if err != nil {
		t.Fatal(err)
	}
	if me.Email != "user@commerce.test" || me.LastLogin == "" {
		t.Fatalf("me %+v", me)
	}

	claims, err := svc.ParseToken(tok)
	if err != nil {
		t.Fatal(err)
	}
	if ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time); ttl != 30*time.Minute {
		t.Fatalf("ttl %v", ttl)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := authSvc(t)
	for _, c := range [][2]string{
		{"user@commerce.test", "wrong"},
		{"nobody@commerce.test", "Passw0rd!"},
		{"", ""},
	} {
		if _, _, err := svc.Login(c[0], c[1]); !errors.Is(err, services.ErrBadCreds) {
			t.Errorf("Login(%q) = %v", c[0], err)
		}
	}
}

func TestTokenExpiryAndTampering(t *testing.T) {
	svc := authSvc(t)
	tok, _, err := svc.Login("admin@commerce.test", "Passw0rd!")
	if err != nil {
		t.Fatal(err)
	}

	svc.Now = func() time.Time { return time.Now().Add(31 * time.Minute) }
	if _, err := svc.CurrentUser(tok); !errors.Is(err, services.ErrBadToken) {
		t.Fatalf("expired token: %v", err)
	}
	svc.Now = time.Now

	other := services.NewAuthService(svc.Users, "another-secret", time.Minute)
	if _, err := other.CurrentUser(tok); !errors.Is(err, services.ErrBadToken) {
		t.Fatalf("foreign secret: %v", err)
	}
	if _, err := svc.CurrentUser("not.a.jwt"); !errors.Is(err, services.ErrBadToken) {
		t.Fatalf("garbage: %v", err)
	}
}

func TestRegister(t *testing.T) {
	svc := authSvc(t)

	if _, err := svc.Register("new@commerce.test", "secret1", "secret2"); !errors.Is(err, services.ErrPasswordMismatch) {
		t.Fatalf("mismatch: %v", err)
	}
	if _, err := svc.Register("user@commerce.test", "secret1", "secret1"); !errors.Is(err, services.ErrEmailTaken) {
		t.Fatalf("taken: %v", err)
	}
	if _, err := svc.Register("not-an-email", "secret1", "secret1"); !errors.Is(err, services.ErrInvalidInput) {
		t.Fatalf("bad email: %v", err)
	}
	if _, err := svc.Register("new@commerce.test", "123", "123"); !errors.Is(err, services.ErrInvalidInput) {
		t.Fatalf("short password: %v", err)
	}

	u, err := svc.Register("new@commerce.test", "secret1", "secret1")
	if err != nil {
		t.Fatal(err)
	}
	if u.Role != domain.RoleUser || !u.Active {
		t.Fatalf("registered %+v", u)
	}
	if _, _, err := svc.Login("new@commerce.test", "secret1"); err != nil {
		t.Fatal(err)
	}
}

func TestEnsureAdmin(t *testing.T) {
	svc := authSvc(t)
	created, err := svc.EnsureAdmin("admin@example.com", "admin123")
	if err != nil || !created {
		t.Fatalf("first call: %v %v", created, err)
	}
	created, err = svc.EnsureAdmin("admin@example.com", "admin123")
	if err != nil || created {
		t.Fatalf("second call: %v %v", created, err)
	}
	_, u, err := svc.Login("admin@example.com", "admin123")
	if err != nil || !u.IsAdmin() {
		t.Fatalf("admin login: %+v %v", u, err)
	}
}
