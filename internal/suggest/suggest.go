// Package suggest serves the type-ahead list under the storefront search box.
package suggest

import "strings"

// MaxResults caps how many suggestions are shown at once.
const MaxResults = 8

type Type string

const (
	TypeKeyword  Type = "keyword"
	TypeProduct  Type = "product"
	TypeCategory Type = "category"
)

// Label is the Korean badge rendered next to a suggestion.
func (t Type) Label() string {
	switch t {
	case TypeProduct:
		return "상품"
	case TypeCategory:
		return "카테고리"
	case TypeKeyword:
		return "검색어"
	}
	return ""
}

func (t Type) Icon() string {
	switch t {
	case TypeProduct:
		return "🏷️"
	case TypeCategory:
		return "📁"
	}
	return "🔍"
}

type Suggestion struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Type Type   `json:"type"`
}

var defaults = []Suggestion{
	{"1", "iPhone 15", TypeProduct},
	{"2", "iPhone 15 Pro", TypeProduct},
	{"3", "iPhone 케이스", TypeKeyword},
	{"4", "MacBook", TypeProduct},
	{"5", "Apple", TypeCategory},
	{"6", "전자기기", TypeCategory},
	{"7", "스마트폰", TypeKeyword},
	{"8", "노트북", TypeKeyword},
}

// Source filters a fixed suggestion list.
type Source struct {
	items []Suggestion
}

// Default is the built-in list shown by the storefront.
func Default() *Source { return &Source{items: defaults} }

func NewSource(items []Suggestion) *Source { return &Source{items: items} }

// Filter returns the suggestions whose text contains q, ignoring case, in list
// order and at most MaxResults. Blank input yields nothing.
func (s *Source) Filter(q string) []Suggestion {
	out := []Suggestion{}
	if strings.TrimSpace(q) == "" {
		return out
	}
	needle := strings.ToLower(q)
	for _, it := range s.items {
		if strings.Contains(strings.ToLower(it.Text), needle) {
			out = append(out, it)
			if len(out) == MaxResults {
				break
			}
		}
	}
	return out
}

// Keywords lists the keyword suggestions, used as search chips.
func (s *Source) Keywords() []Suggestion {
	out := []Suggestion{}
	for _, it := range s.items {
		if it.Type == TypeKeyword {
			out = append(out, it)
		}
	}
	return out
}
