// Package dashboard assembles the admin analytics view. The figures are
// fixed sample data until the tracking pipeline records real events.
package dashboard

import (
	"errors"
	"time"

	"commerce/internal/format"
)

var ErrUnknownPeriod = errors.New("unknown period")

type Period struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var Periods = []Period{
	{"7days", "최근 7일"},
	{"30days", "최근 30일"},
	{"90days", "최근 90일"},
	{"1year", "최근 1년"},
}

const DefaultPeriod = "7days"

// ValidPeriod reports whether p is one of Periods.
func ValidPeriod(p string) bool {
	for _, x := range Periods {
		if x.Value == p {
			return true
		}
	}
	return false
}

type Card struct {
	Title  string  `json:"title"`
	Value  string  `json:"value"`
	Change float64 `json:"change"`
	// ChangeLabel is Change rendered with its sign, e.g. "+12.5%".
	ChangeLabel string `json:"change_label"`
	Increase    bool   `json:"increase"`
}

type Point struct {
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage,omitempty"`
}

type ProductRow struct {
	ID             int     `json:"id"`
	Name           string  `json:"name"`
	Views          int64   `json:"views"`
	Clicks         int64   `json:"clicks"`
	CTR            float64 `json:"ctr"`
	Conversions    int64   `json:"conversions"`
	ConversionRate float64 `json:"conversion_rate"`
	Revenue        int64   `json:"revenue"`
	RevenueLabel   string  `json:"revenue_label"`
}

type Snapshot struct {
	Period      string       `json:"period"`
	Periods     []Period     `json:"periods"`
	Cards       []Card       `json:"cards"`
	CTRTrend    []Point      `json:"ctr_trend"`
	Algorithms  []Point      `json:"algorithms"`
	Conversion  []Point      `json:"conversion"`
	Products    []ProductRow `json:"products"`
	TopRevenue  string       `json:"top_revenue"`
	GeneratedAt time.Time    `json:"generated_at"`
}

func card(title, value string, change float64) Card {
	return Card{Title: title, Value: value, Change: change, ChangeLabel: format.Change(change), Increase: change >= 0}
}

// Build returns the dashboard for period; "" means DefaultPeriod.
func Build(period string) (Snapshot, error) {
	if period == "" {
		period = DefaultPeriod
	}
	if !ValidPeriod(period) {
		return Snapshot{}, ErrUnknownPeriod
	}

	products := []ProductRow{
		{ID: 1, Name: "iPhone 15 Pro", Views: 12847, Clicks: 1085, CTR: 8.4, Conversions: 247, ConversionRate: 22.8, Revenue: 297640000},
		{ID: 2, Name: "MacBook Air M3", Views: 9632, Clicks: 894, CTR: 9.3, Conversions: 198, ConversionRate: 22.1, Revenue: 297000000},
		{ID: 3, Name: "Galaxy S24 Ultra", Views: 8421, Clicks: 672, CTR: 8.0, Conversions: 156, ConversionRate: 23.2, Revenue: 218400000},
		{ID: 4, Name: "Sony WH-1000XM5", Views: 6234, Clicks: 523, CTR: 8.4, Conversions: 134, ConversionRate: 25.6, Revenue: 60300000},
		{ID: 5, Name: "Nintendo Switch OLED", Views: 5847, Clicks: 467, CTR: 8.0, Conversions: 98, ConversionRate: 21.0, Revenue: 41160000},
	}
	var total int64
	for i := range products {
		products[i].RevenueLabel = format.Price(products[i].Revenue)
		total += products[i].Revenue
	}

	return Snapshot{
		Period:  period,
		Periods: Periods,
		Cards: []Card{
			card("CTR (Click Through Rate)", format.Percent(8.4), 12.5),
			card("추천 정확도", format.Percent(87.2), 3.2),
			card("매출 전환율", format.Percent(23.1), -1.8),
			card("추천 기여 매출", format.CompactWon(45200000), 18.7),
			card("활성 사용자", format.Count(12847), 8.9),
			card("평균 세션 시간", format.SessionDuration(272*time.Second), 5.3),
		},
		CTRTrend: []Point{
			{Name: "월", Value: 7.2}, {Name: "화", Value: 8.1}, {Name: "수", Value: 7.8},
			{Name: "목", Value: 9.2}, {Name: "금", Value: 8.9}, {Name: "토", Value: 6.4},
			{Name: "일", Value: 8.4},
		},
		Algorithms: []Point{
			{Name: "키워드 검색", Value: 42, Percentage: 42},
			{Name: "콘텐츠 기반", Value: 35, Percentage: 35},
			{Name: "리뷰 기반", Value: 23, Percentage: 23},
		},
		Conversion: []Point{
			{Name: "1주차", Value: 21.5}, {Name: "2주차", Value: 24.8},
			{Name: "3주차", Value: 22.1}, {Name: "4주차", Value: 23.1},
		},
		Products:    products,
		TopRevenue:  format.CompactWon(total),
		GeneratedAt: time.Now().UTC(),
	}, nil
}
