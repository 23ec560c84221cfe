package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"commerce/internal/cache"
	"commerce/internal/config"
	"commerce/internal/http/handlers"
	"commerce/internal/repos"
	"commerce/internal/search"
)

const (
	userEmail  = "user@commerce.test"
	adminEmail = "admin@commerce.test"
	password   = "Passw0rd!"
)

func testConfig() config.Config {
	return config.Config{
		Environment:     "development",
		DBDSN:           ":memory:",
		TemplateDir:     "../../web/templates",
		JWTSecret:       "test-secret",
		TokenTTL:        30 * time.Minute,
		DefaultPageSize: 20,
		MaxPageSize:     100,
	}
}

// newApp builds the full app over a seeded in-memory database with the
// cache and search backends disabled.
func newApp(t *testing.T, lim handlers.Limits) (*fiber.App, *handlers.Deps) {
	t.Helper()
	cfg := testConfig()
	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	sc, err := search.New(search.Config{})
	if err != nil {
		t.Fatalf("search client: %v", err)
	}
	d := handlers.NewDeps(db, cfg, cache.New("", "", 0), sc)
	return handlers.NewApp(d, lim), d
}

func do(t *testing.T, app *fiber.App, req *http.Request) *http.Response {
	t.Helper()
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL, err)
	}
	return resp
}

func jsonReq(method, target string, body any) *http.Request {
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func withToken(req *http.Request, tok string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+tok)
	return req
}

func decode(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode body: %v", err)
	}
}

func bodyString(resp *http.Response) string {
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return string(b)
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("expected %d, got %d body=%s", want, resp.StatusCode, bodyString(resp))
	}
}

func login(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	resp := do(t, app, jsonReq("POST", "/api/v1/auth/login", map[string]string{"email": email, "password": password}))
	expectStatus(t, resp, http.StatusOK)
	var out struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	decode(t, resp, &out)
	if out.AccessToken == "" || out.TokenType != "bearer" {
		t.Fatalf("unexpected login body %+v", out)
	}
	return out.AccessToken
}

func cookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// csrfToken loads the login form and returns the issued form token.
func csrfToken(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp := do(t, app, httptest.NewRequest("GET", "/login", nil))
	tok := cookie(resp, "csrf_")
	if tok == "" {
		t.Fatal("csrf token missing")
	}
	return tok
}

func formReq(target, csrfTok, form string) *http.Request {
	req := httptest.NewRequest("POST", target, strings.NewReader("csrf="+csrfTok+"&"+form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: csrfTok})
	return req
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	UserID string         `json:"user_id"`
	Fields map[string]any `json:"fields"`
}

type lockedWriter struct {
	w  *bytes.Buffer
	mu *sync.Mutex
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}

// captureLogs swaps the standard logger output while fn runs.
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf bytes.Buffer
	var mu sync.Mutex
	oldW := log.Writer()
	oldFlags := log.Flags()
	log.SetOutput(&lockedWriter{w: &buf, mu: &mu})
	log.SetFlags(0)
	defer func() {
		log.SetOutput(oldW)
		log.SetFlags(oldFlags)
	}()

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var e logEntry
		if err := json.Unmarshal([]byte(strings.TrimSpace(line)), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findLog(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}
