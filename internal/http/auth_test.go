package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"commerce/internal/http/handlers"
	"commerce/internal/repos"
)

func TestPasswordsSeededAreHashed(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	var hashes []string
	if err := db.Select(&hashes, `SELECT password_hash FROM users`); err != nil {
		t.Fatalf("select hashes: %v", err)
	}
	if len(hashes) == 0 {
		t.Fatal("no users seeded")
	}
	for _, h := range hashes {
		if strings.Contains(h, password) {
			t.Fatalf("hash contains plaintext password")
		}
		if !strings.HasPrefix(h, "$2") {
			t.Fatalf("unexpected hash format: %s", h)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(h), []byte(password)); err != nil {
			t.Fatalf("seed hash does not validate known password: %v", err)
		}
	}
}

func TestAPILoginSuccessFailAndThrottle(t *testing.T) {
	app, _ := newApp(t, handlers.Limits{Login: 2, LoginEvery: time.Minute})

	bad := do(t, app, jsonReq("POST", "/api/v1/auth/login", map[string]string{"email": userEmail, "password": "wrongpass!"}))
	expectStatus(t, bad, http.StatusUnauthorized)
	var body struct {
		Detail string `json:"detail"`
	}
	decode(t, bad, &body)
	if body.Detail != "Incorrect email or password" {
		t.Fatalf("detail = %q", body.Detail)
	}

	_ = login(t, app, userEmail)

	third := do(t, app, jsonReq("POST", "/api/v1/auth/login", map[string]string{"email": userEmail, "password": password}))
	expectStatus(t, third, http.StatusTooManyRequests)
}

func TestMeRegisterAndLogout(t *testing.T) {
	app, _ := newApp(t, handlers.Limits{})

	expectStatus(t, do(t, app, jsonReq("GET", "/api/v1/auth/me", nil)), http.StatusUnauthorized)
	expectStatus(t, do(t, app, withToken(jsonReq("GET", "/api/v1/auth/me", nil), "garbage")), http.StatusUnauthorized)

	tok := login(t, app, userEmail)
	resp := do(t, app, withToken(jsonReq("GET", "/api/v1/auth/me", nil), tok))
	expectStatus(t, resp, http.StatusOK)
	var me struct {
		Email string `json:"email"`
	}
	decode(t, resp, &me)
	if me.Email != userEmail {
		t.Fatalf("me = %q", me.Email)
	}

	reg := map[string]string{"email": "new@commerce.test", "password": "secret99", "password_confirm": "secret99"}
	expectStatus(t, do(t, app, jsonReq("POST", "/api/v1/auth/register", reg)), http.StatusOK)
	dup := do(t, app, jsonReq("POST", "/api/v1/auth/register", reg))
	expectStatus(t, dup, http.StatusBadRequest)
	if !strings.Contains(bodyString(dup), "Email already registered") {
		t.Fatal("duplicate registration should say the email is taken")
	}
	mismatch := map[string]string{"email": "other@commerce.test", "password": "secret99", "password_confirm": "secret98"}
	expectStatus(t, do(t, app, jsonReq("POST", "/api/v1/auth/register", mismatch)), http.StatusBadRequest)

	out := do(t, app, jsonReq("POST", "/api/v1/auth/logout", nil))
	expectStatus(t, out, http.StatusOK)
	if !strings.Contains(bodyString(out), "Successfully logged out") {
		t.Fatal("logout message missing")
	}
}

func TestInitAdminIsIdempotent(t *testing.T) {
	app, _ := newApp(t, handlers.Limits{})

	first := do(t, app, jsonReq("POST", "/api/v1/auth/init-admin", nil))
	expectStatus(t, first, http.StatusOK)
	if !strings.Contains(bodyString(first), "Admin user created") {
		t.Fatal("first call should create the admin")
	}
	second := do(t, app, jsonReq("POST", "/api/v1/auth/init-admin", nil))
	expectStatus(t, second, http.StatusOK)
	if !strings.Contains(bodyString(second), "already exists") {
		t.Fatal("second call should report the existing admin")
	}
}

func TestPageLoginSetsCookieAndThrottles(t *testing.T) {
	app, _ := newApp(t, handlers.Limits{Login: 3, LoginEvery: time.Minute})
	tok := csrfToken(t, app)

	bad := do(t, app, formReq("/login", tok, "email="+userEmail+"&password=wrongpass!"))
	expectStatus(t, bad, http.StatusUnauthorized)

	good := do(t, app, formReq("/login", tok, "email="+userEmail+"&password="+password))
	if good.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect on success, got %d", good.StatusCode)
	}
	if loc := good.Header.Get("Location"); loc != "/" {
		t.Fatalf("user redirected to %q", loc)
	}
	if cookie(good, handlers.TokenCookie) == "" {
		t.Fatal("token cookie not set")
	}

	admin := do(t, app, formReq("/login", tok, "email="+adminEmail+"&password="+password))
	if loc := admin.Header.Get("Location"); loc != "/admin" {
		t.Fatalf("admin redirected to %q", loc)
	}

	fourth := do(t, app, formReq("/login", tok, "email="+userEmail+"&password="+password))
	expectStatus(t, fourth, http.StatusTooManyRequests)
}

func TestPageFormsRequireCSRF(t *testing.T) {
	app, _ := newApp(t, handlers.Limits{})

	req := httptest.NewRequest("POST", "/login", strings.NewReader("email="+userEmail+"&password="+password))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp := do(t, app, req)
	expectStatus(t, resp, http.StatusForbidden)

	// the JSON API is exempt
	expectStatus(t, do(t, app, jsonReq("POST", "/api/v1/auth/logout", nil)), http.StatusOK)
}

func TestAuthLogging(t *testing.T) {
	app, _ := newApp(t, handlers.Limits{})

	fail := captureLogs(t, func() {
		do(t, app, jsonReq("POST", "/api/v1/auth/login", map[string]string{"email": userEmail, "password": "badpass!"}))
	})
	e, ok := findLog(fail, "auth.login.fail")
	if !ok {
		t.Fatal("auth.login.fail log not found")
	}
	if e.Fields["email"] != userEmail {
		t.Fatalf("auth.login.fail fields = %v", e.Fields)
	}

	success := captureLogs(t, func() { login(t, app, userEmail) })
	e, ok = findLog(success, "auth.login.success")
	if !ok {
		t.Fatal("auth.login.success log not found")
	}
	if e.Level != "audit" || e.Fields["email"] != userEmail {
		t.Fatalf("auth.login.success entry = %+v", e)
	}
}
