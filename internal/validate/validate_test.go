package validate_test

import (
	"strings"
	"testing"

	"commerce/internal/validate"
)

func TestQ(t *testing.T) {
	ok := []string{"배터리", "iPhone 15 Pro", "노이즈 캔슬링", "usb-c"}
	for _, s := range ok {
		if _, good := validate.Q(s); !good {
			t.Errorf("Q(%q) rejected", s)
		}
	}
	bad := []string{"", "   ", "<script>", "a;drop table", "tab\there"}
	for _, s := range bad {
		if _, good := validate.Q(s); good {
			t.Errorf("Q(%q) accepted", s)
		}
	}
	long, good := validate.Q(strings.Repeat("가", 150))
	if !good || len([]rune(long)) != 100 {
		t.Fatalf("long query: ok=%v runes=%d", good, len([]rune(long)))
	}
}

func TestPagingParams(t *testing.T) {
	if n, ok := validate.Page(""); !ok || n != 1 {
		t.Fatalf("empty page = %d %v", n, ok)
	}
	for _, s := range []string{"0", "-1", "x"} {
		if _, ok := validate.Page(s); ok {
			t.Errorf("Page(%q) accepted", s)
		}
	}
	if n, ok := validate.Size("", 20, 100); !ok || n != 20 {
		t.Fatalf("default size = %d", n)
	}
	if _, ok := validate.Size("101", 20, 100); ok {
		t.Fatal("size above max accepted")
	}
	if w, ok := validate.Weight("", 0.3); !ok || w != 0.3 {
		t.Fatalf("default weight %v", w)
	}
	for _, s := range []string{"1.5", "-0.1", "abc"} {
		if _, ok := validate.Weight(s, 0.3); ok {
			t.Errorf("Weight(%q) accepted", s)
		}
	}
	if p, ok := validate.OptInt64(""); !ok || p != nil {
		t.Fatal("empty price bound must be nil")
	}
	if p, ok := validate.OptInt64("1000"); !ok || *p != 1000 {
		t.Fatal("price bound not parsed")
	}
	if _, ok := validate.OptInt64("-5"); ok {
		t.Fatal("negative price accepted")
	}
	if o, ok := validate.SortOrder("ASC"); !ok || o != "asc" {
		t.Fatalf("sort order %q", o)
	}
	if _, ok := validate.SortOrder("sideways"); ok {
		t.Fatal("bad sort order accepted")
	}
}

func TestEmailAndIDs(t *testing.T) {
	if e, ok := validate.Email("  user@commerce.test "); !ok || e != "user@commerce.test" {
		t.Fatalf("email %q %v", e, ok)
	}
	if _, ok := validate.Email("nope"); ok {
		t.Fatal("bad email accepted")
	}
	if _, ok := validate.ID("p-iphone15"); !ok {
		t.Fatal("id rejected")
	}
	if _, ok := validate.ID("../etc"); ok {
		t.Fatal("path id accepted")
	}
	if _, ok := validate.Name("  ", 10); ok {
		t.Fatal("blank name accepted")
	}
}
