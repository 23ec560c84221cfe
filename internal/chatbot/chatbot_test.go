package chatbot_test

import (
	"strings"
	"testing"

	"commerce/internal/chatbot"
)

func TestRespondKeywordGroups(t *testing.T) {
	cases := []struct {
		input string
		want  chatbot.Intent
		mark  string
	}{
		{"이번 달 매출 알려줘", chatbot.IntentRevenue, "₩45.2M"},
		{"Show me SALES", chatbot.IntentRevenue, "매출 관련 정보"},
		{"CTR 분석해줘", chatbot.IntentCTR, "일별 CTR 추이"},
		{"클릭 수는?", chatbot.IntentCTR, "8.4%"},
		{"추천 알고리즘 성능은?", chatbot.IntentAlgorithm, "87.2%"},
		{"사용자 활동 현황", chatbot.IntentUsers, "12,847명"},
		{"help", chatbot.IntentHelp, "사용 가능한 기능"},
		// revenue is checked before users
		{"고객 매출", chatbot.IntentRevenue, "₩914.5M"},
	}
	for _, tc := range cases {
		reply, intent := chatbot.Respond(tc.input)
		if intent != tc.want {
			t.Errorf("Respond(%q) intent = %s, want %s", tc.input, intent, tc.want)
		}
		if !strings.Contains(reply, tc.mark) {
			t.Errorf("Respond(%q) reply missing %q", tc.input, tc.mark)
		}
	}
}

func TestRespondRevenueIsStable(t *testing.T) {
	a, _ := chatbot.Respond("매출")
	b, _ := chatbot.Respond("작년 매출이랑 비교")
	if a != b {
		t.Fatal("every revenue question must get the same reply")
	}
}

func TestRespondUnknownQuotesInput(t *testing.T) {
	reply, intent := chatbot.Respond("날씨 어때? 100%")
	if intent != chatbot.IntentUnknown {
		t.Fatalf("intent = %s", intent)
	}
	if !strings.HasPrefix(reply, "죄송합니다. '날씨 어때? 100%'에 대한") {
		t.Fatalf("reply = %q", reply)
	}
}

func TestConversation(t *testing.T) {
	c := chatbot.NewConversation()
	msgs := c.Messages()
	if len(msgs) != 1 || msgs[0].Content != chatbot.Greeting || msgs[0].Role != chatbot.RoleAssistant {
		t.Fatalf("conversation should open with the greeting: %+v", msgs)
	}

	if _, ok := c.Send("   "); ok {
		t.Fatal("blank input must be ignored")
	}
	bot, ok := c.Send("CTR?")
	if !ok || bot.Role != chatbot.RoleAssistant || !strings.Contains(bot.Content, "CTR") {
		t.Fatalf("Send: ok=%v %+v", ok, bot)
	}

	msgs = c.Messages()
	if len(msgs) != 3 {
		t.Fatalf("want 3 messages, got %d", len(msgs))
	}
	if msgs[1].Role != chatbot.RoleUser || msgs[1].Content != "CTR?" {
		t.Fatalf("user turn: %+v", msgs[1])
	}
	if msgs[1].ID == msgs[2].ID {
		t.Fatal("message ids must be unique")
	}
}
