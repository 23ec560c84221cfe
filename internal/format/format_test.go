package format_test

import (
	"testing"
	"time"

	"commerce/internal/format"
)

func TestPrice(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{1200000, "₩1,200,000"},
		{0, "₩0"},
		{999, "₩999"},
		{1000, "₩1,000"},
		{-5000, "₩-5,000"},
	}
	for _, tc := range cases {
		if got := format.Price(tc.in); got != tc.want {
			t.Errorf("Price(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCompactWon(t *testing.T) {
	if got := format.CompactWon(45200000); got != "₩45.2M" {
		t.Fatalf("CompactWon = %q", got)
	}
	if got := format.CompactWon(297640000); got != "₩297.6M" {
		t.Fatalf("CompactWon = %q", got)
	}
}

func TestPercentAndChange(t *testing.T) {
	cases := []struct {
		got, want string
	}{
		{format.Percent(8.4), "8.4%"},
		{format.Percent(8.0), "8%"},
		{format.Percent(87.2), "87.2%"},
		{format.Change(12.5), "+12.5%"},
		{format.Change(-1.8), "-1.8%"},
		{format.Change(0), "0%"},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Errorf("got %q, want %q", tc.got, tc.want)
		}
	}
}

func TestCount(t *testing.T) {
	if got := format.Count(12847); got != "12,847" {
		t.Fatalf("Count = %q", got)
	}
}

func TestRating(t *testing.T) {
	for in, want := range map[float64]string{4.333: "4.3", 5: "5.0", 0: "0.0", 3.96: "4.0"} {
		if got := format.Rating(in); got != want {
			t.Errorf("Rating(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestSessionDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{272 * time.Second, "4분 32초"},
		{45 * time.Second, "45초"},
		{3720 * time.Second, "1시간 2분"},
		{-time.Second, "0초"},
	}
	for _, tc := range cases {
		if got := format.SessionDuration(tc.in); got != tc.want {
			t.Errorf("SessionDuration(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
