package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"commerce/internal/http/handlers"
)

func getPage(t *testing.T, app *fiber.App, target string) (int, string) {
	t.Helper()
	resp := do(t, app, httptest.NewRequest("GET", target, nil))
	return resp.StatusCode, bodyString(resp)
}

func TestHomePage(t *testing.T) {
	app, _ := newApp(t, handlers.Limits{})

	code, body := getPage(t, app, "/")
	if code != http.StatusOK {
		t.Fatalf("home = %d", code)
	}
	for _, want := range []string{"평점 높은 상품", "노트북", "액세서리", "₩"} {
		if !strings.Contains(body, want) {
			t.Fatalf("home missing %q", want)
		}
	}
}

func TestProductsPageTabs(t *testing.T) {
	app, _ := newApp(t, handlers.Limits{})

	cases := []struct {
		query string
		want  []string
	}{
		{"", []string{"10개 상품"}},
		{"tab=keyword&q=macbook", []string{"2개 상품", "MacBook Air M3", "MacBook Pro 14"}},
		{"tab=content&q=" + url.QueryEscape("노이즈캔슬링"), []string{"2개 상품", "Sony WH-1000XM5"}},
		{"tab=review&q=" + url.QueryEscape("배터리"), []string{"5개 상품", "리뷰 점수"}},
		{"tab=review", []string{"0개 상품"}},
		{"page=99", []string{"10개 상품"}},
		{"category=" + url.QueryEscape("노트북") + "&sort=price&dir=asc", []string{"3개 상품", "₩1,500,000"}},
	}
	for _, tc := range cases {
		code, body := getPage(t, app, "/products?"+tc.query)
		if code != http.StatusOK {
			t.Fatalf("%q: status %d", tc.query, code)
		}
		for _, want := range tc.want {
			if !strings.Contains(body, want) {
				t.Fatalf("%q: body missing %q", tc.query, want)
			}
		}
	}

	for _, bad := range []string{"tab=bogus", "sort=hack", "page=0", "q=" + url.QueryEscape("<script>")} {
		if code, _ := getPage(t, app, "/products?"+bad); code != http.StatusBadRequest {
			t.Fatalf("%q: expected 400, got %d", bad, code)
		}
	}
}

func TestProductPage(t *testing.T) {
	app, _ := newApp(t, handlers.Limits{})

	code, body := getPage(t, app, "/products/P1001")
	if code != http.StatusOK {
		t.Fatalf("product page = %d", code)
	}
	for _, want := range []string{"iPhone 15", "₩1,250,000", "리뷰 통계", "4.3", "박지훈", "비슷한 상품"} {
		if !strings.Contains(body, want) {
			t.Fatalf("product page missing %q", want)
		}
	}

	code, body = getPage(t, app, "/products/P0000")
	if code != http.StatusNotFound || !strings.Contains(body, "no longer available") {
		t.Fatalf("missing product = %d", code)
	}
}

func TestLoginPageShowsUser(t *testing.T) {
	app, _ := newApp(t, handlers.Limits{})

	code, body := getPage(t, app, "/login")
	if code != http.StatusOK || !strings.Contains(body, `name="csrf"`) {
		t.Fatalf("login form = %d", code)
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: handlers.TokenCookie, Value: login(t, app, userEmail)})
	home := do(t, app, req)
	expectStatus(t, home, http.StatusOK)
	if !strings.Contains(bodyString(home), userEmail) {
		t.Fatal("signed-in email should show in the header")
	}
}
