// Package format renders prices, percentages and counts the way the
// storefront and the admin dashboard display them.
package format

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
)

const won = "₩"

// Price renders whole won with thousands separators: 1200000 -> "₩1,200,000".
func Price(amount int64) string {
	return won + humanize.Comma(amount)
}

// CompactWon renders millions of won with one decimal: 45200000 -> "₩45.2M".
func CompactWon(amount int64) string {
	return won + strconv.FormatFloat(float64(amount)/1e6, 'f', 1, 64) + "M"
}

// Percent renders a value that is already a percentage: 8.4 -> "8.4%".
func Percent(v float64) string {
	return humanize.FtoaWithDigits(v, 2) + "%"
}

// Change renders a signed delta: 12.5 -> "+12.5%", -1.8 -> "-1.8%".
func Change(v float64) string {
	if v > 0 {
		return "+" + Percent(v)
	}
	return Percent(v)
}

// Rating renders a star average with one decimal: 4.333 -> "4.3".
func Rating(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// Count renders an integer with thousands separators: 12847 -> "12,847".
func Count(n int64) string {
	return humanize.Comma(n)
}

// SessionDuration renders a duration in Korean units: 272s -> "4분 32초".
func SessionDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	h, m, s := secs/3600, (secs%3600)/60, secs%60
	switch {
	case h > 0:
		return fmt.Sprintf("%d시간 %d분", h, m)
	case m > 0:
		return fmt.Sprintf("%d분 %d초", m, s)
	default:
		return fmt.Sprintf("%d초", s)
	}
}
