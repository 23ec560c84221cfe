package main

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"commerce/internal/cache"
	"commerce/internal/config"
	"commerce/internal/http/handlers"
	"commerce/internal/repos"
	"commerce/internal/search"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&out)
	err := root.Execute()
	return out.String(), err
}

// useTempDB points the backend commands at a fresh SQLite file.
func useTempDB(t *testing.T) {
	t.Helper()
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("DB_DSN", filepath.Join(t.TempDir(), "commerce.db"))
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("ELASTICSEARCH_URL", "")
	t.Setenv("LOG_FILE", "")
}

func TestChatCommand(t *testing.T) {
	out, err := run(t, "매출 알려줘\n\nquit\n이건 안 읽힘\n", "chat")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(out, "bot> ") != 2 {
		t.Fatalf("expected greeting and one reply:\n%s", out)
	}
	if !strings.Contains(out, "₩45.2M") {
		t.Fatalf("revenue reply missing:\n%s", out)
	}
}

func TestImportAndAdminCommands(t *testing.T) {
	useTempDB(t)
	csv := filepath.Join(t.TempDir(), "products.csv")
	body := "product_no,name,price,category,brand,tags\nP9001,Galaxy Buds3,199000,오디오,Samsung,무선\nP9002,Broken,x,오디오,,\n"
	if err := os.WriteFile(csv, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "", "products:import", "-f", csv)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Created:    1", "Skipped:    1", "[warn] line 3"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}

	if _, err := run(t, "", "products:import"); err == nil {
		t.Fatal("import without --file should fail")
	}

	out, err = run(t, "", "init-admin")
	if err != nil || !strings.Contains(out, "Admin user created") {
		t.Fatalf("first init-admin: %v\n%s", err, out)
	}
	out, err = run(t, "", "init-admin")
	if err != nil || !strings.Contains(out, "already exists") {
		t.Fatalf("second init-admin: %v\n%s", err, out)
	}
}

func TestCronRunsSingleJob(t *testing.T) {
	useTempDB(t)
	out, err := run(t, "", "cron:start", "--job", "stats:refresh")
	if err != nil || !strings.Contains(out, "Running cron job: stats:refresh") {
		t.Fatalf("err=%v\n%s", err, out)
	}
	if _, err := run(t, "", "cron:start", "--job", "nope"); err == nil {
		t.Fatal("unknown job should fail")
	}
	if _, err := run(t, "", "reviews:index"); err == nil {
		t.Fatal("reindex without a search backend should fail")
	}
}

func TestBrowseCommand(t *testing.T) {
	cfg := config.Config{
		Environment:     "development",
		TemplateDir:     "../../web/templates",
		JWTSecret:       "test-secret",
		TokenTTL:        30 * time.Minute,
		DefaultPageSize: 20,
		MaxPageSize:     100,
	}
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	sc, _ := search.New(search.Config{})
	app := handlers.NewApp(handlers.NewDeps(db, cfg, cache.New("", "", 0), sc), handlers.Limits{})
	srv := httptest.NewServer(adaptor.FiberApp(app))
	defer srv.Close()

	api := srv.URL + "/api/v1"
	tokens := filepath.Join(t.TempDir(), "token.json")
	out, err := run(t, "n\ns macbook\nt review\ns 드론\ns 배터리\nq\n",
		"browse", "--api", api, "--token-file", tokens, "--size", "4", "--sort", "price", "--dir", "asc")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"page 1/3, 10 products  [1] 2 3",
		"page 2/3, 10 products  1 [2] 3",
		"MacBook Air M3",
		"page 1/1, 2 products  [1]",
		"리뷰 1.60 (2)",
		"page 1/0, 0 products",
		"page 1/2, 5 products  [1] 2",
		"리뷰 2.00 (1)",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}

	out, err = run(t, "", "login", "--api", api, "--token-file", tokens, "-e", "user@commerce.test", "-p", "Passw0rd!")
	if err != nil || !strings.Contains(out, "Signed in as user@commerce.test") {
		t.Fatalf("login: %v\n%s", err, out)
	}
	out, err = run(t, "", "whoami", "--api", api, "--token-file", tokens)
	if err != nil || strings.TrimSpace(out) != "user@commerce.test" {
		t.Fatalf("whoami: %v\n%s", err, out)
	}
	if _, err = run(t, "", "logout", "--api", api, "--token-file", tokens); err != nil {
		t.Fatal(err)
	}
	out, _ = run(t, "", "whoami", "--api", api, "--token-file", tokens)
	if strings.TrimSpace(out) != "Not signed in" {
		t.Fatalf("after logout: %s", out)
	}
}
