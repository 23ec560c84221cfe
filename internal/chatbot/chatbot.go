// Package chatbot answers the admin dashboard assistant with canned
// responses picked by keyword. There is no model behind it.
package chatbot

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Intent string

const (
	IntentRevenue   Intent = "revenue"
	IntentCTR       Intent = "ctr"
	IntentAlgorithm Intent = "algorithm"
	IntentUsers     Intent = "users"
	IntentHelp      Intent = "help"
	IntentUnknown   Intent = "unknown"
)

type rule struct {
	intent   Intent
	keywords []string
	reply    string
}

// Checked in order; the first group with a keyword inside the lowercased
// input wins.
var rules = []rule{
	{IntentRevenue, []string{"매출", "revenue", "sales"}, revenueReply},
	{IntentCTR, []string{"ctr", "클릭률", "클릭"}, ctrReply},
	{IntentAlgorithm, []string{"추천", "알고리즘", "recommendation"}, algorithmReply},
	{IntentUsers, []string{"사용자", "user", "고객"}, usersReply},
	{IntentHelp, []string{"도움", "help", "기능"}, helpReply},
}

// Respond picks the canned reply for input.
func Respond(input string) (string, Intent) {
	lower := strings.ToLower(input)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.reply, r.intent
			}
		}
	}
	return fmt.Sprintf(unknownReply, input), IntentUnknown
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is one chat window's transcript, opened with the Greeting.
type Conversation struct {
	mu       sync.Mutex
	messages []Message
	now      func() time.Time
}

func NewConversation() *Conversation {
	c := &Conversation{now: time.Now}
	c.messages = append(c.messages, c.message(RoleAssistant, Greeting))
	return c
}

func (c *Conversation) message(role Role, content string) Message {
	return Message{ID: uuid.NewString(), Role: role, Content: content, Timestamp: c.now()}
}

// Send appends the user's turn and the reply. Blank input is ignored and
// reports false.
func (c *Conversation) Send(input string) (Message, bool) {
	if strings.TrimSpace(input) == "" {
		return Message{}, false
	}
	reply, _ := Respond(input)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, c.message(RoleUser, input))
	bot := c.message(RoleAssistant, reply)
	c.messages = append(c.messages, bot)
	return bot, true
}

// Messages returns a copy of the transcript, oldest first.
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}
