package suggest

import "strings"

// Cursor tracks keyboard selection over the visible suggestions.
// Index -1 means the text box itself is selected.
type Cursor struct {
	items []Suggestion
	index int
}

func NewCursor(items []Suggestion) *Cursor {
	return &Cursor{items: items, index: -1}
}

// Reset replaces the visible list, as happens on every keystroke.
func (c *Cursor) Reset(items []Suggestion) {
	c.items = items
	c.index = -1
}

func (c *Cursor) Index() int { return c.index }

// Down stops at the last suggestion.
func (c *Cursor) Down() {
	if c.index < len(c.items)-1 {
		c.index++
	}
}

// Up walks back to the text box.
func (c *Cursor) Up() {
	if c.index > 0 {
		c.index--
		return
	}
	c.index = -1
}

func (c *Cursor) Selected() (Suggestion, bool) {
	if c.index < 0 || c.index >= len(c.items) {
		return Suggestion{}, false
	}
	return c.items[c.index], true
}

// Submit is what Enter searches for: the selected suggestion's text, else the
// typed query trimmed. An empty result means there is nothing to search.
func (c *Cursor) Submit(typed string) string {
	if s, ok := c.Selected(); ok {
		return s.Text
	}
	return strings.TrimSpace(typed)
}
