package services

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/openai/openai-go/option"

	"nomadpal/concierge-service/internal/models"
)

func groupFor(t *testing.T, name string) keywordGroup {
	t.Helper()
	for _, g := range cannedGroups {
		if g.keywords[0] == name {
			return g
		}
	}
	t.Fatalf("no group %q", name)
	return keywordGroup{}
}

func TestCannedResponderKeywords(t *testing.T) {
	r := NewCannedResponder(rand.NewSource(1))

	tests := []struct {
		message string
		group   string
	}{
		{"Is there a VAN to Port Barton?", "transport"},
		{"which hostel is good", "hotel"},
		{"Any cool tour tomorrow?", "tour"},
		{"where can I eat", "food"},
		// transport is checked before activities
		{"bus tour options", "transport"},
		// keywords match as plain substrings
		{"What activities do you recommend?", "tour"},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			reply, err := r.Respond(context.Background(), Conversation{Message: tt.message})
			if err != nil {
				t.Fatal(err)
			}
			if reply.Source != models.SourceCanned {
				t.Errorf("source = %q", reply.Source)
			}
			found := false
			for _, resp := range groupFor(t, tt.group).responses {
				if resp == reply.Content {
					found = true
				}
			}
			if !found {
				t.Errorf("reply %q is not from group %s", reply.Content, tt.group)
			}
		})
	}

	reply, _ := r.Respond(context.Background(), Conversation{Message: "Help me plan my budget"})
	if reply.Content != genericResponse {
		t.Errorf("expected generic response, got %q", reply.Content)
	}
}

func TestCannedResponderUsesInjectedSource(t *testing.T) {
	a := NewCannedResponder(rand.NewSource(42))
	b := NewCannedResponder(rand.NewSource(42))

	for i := 0; i < 10; i++ {
		ra, _ := a.Respond(context.Background(), Conversation{Message: "food"})
		rb, _ := b.Respond(context.Background(), Conversation{Message: "food"})
		if ra.Content != rb.Content {
			t.Fatalf("same seed produced different replies at %d", i)
		}
	}
}

type stubResponder struct {
	reply Reply
	err   error
	calls int
}

func (s *stubResponder) Respond(context.Context, Conversation) (Reply, error) {
	s.calls++
	return s.reply, s.err
}

func TestFallbackResponder(t *testing.T) {
	canned := &stubResponder{reply: Reply{Content: "canned", Source: models.SourceCanned}}
	nolog := func(string, ...interface{}) {}

	ok := &stubResponder{reply: Reply{Content: "from llm", Source: models.SourceLLM}}
	reply, err := NewFallbackResponder(ok, canned, nolog).Respond(context.Background(), Conversation{})
	if err != nil || reply.Source != models.SourceLLM || canned.calls != 0 {
		t.Errorf("healthy primary: %+v %v", reply, err)
	}

	failing := &stubResponder{err: errors.New("rate limited")}
	reply, err = NewFallbackResponder(failing, canned, nolog).Respond(context.Background(), Conversation{})
	if err != nil || reply.Content != "canned" {
		t.Errorf("failing primary: %+v %v", reply, err)
	}

	empty := &stubResponder{reply: Reply{Content: "  ", Source: models.SourceLLM}}
	reply, _ = NewFallbackResponder(empty, canned, nolog).Respond(context.Background(), Conversation{})
	if reply.Content != "canned" {
		t.Errorf("empty completion should fall back, got %+v", reply)
	}
}

func TestLLMResponder(t *testing.T) {
	var received struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&received)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4o-mini",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":" Take the morning van. "}}]}`))
	}))
	defer srv.Close()

	r := newLLMResponder(LLMConfig{Model: "gpt-4o-mini", HistoryLimit: 2},
		option.WithAPIKey("test-key"), option.WithBaseURL(srv.URL), option.WithMaxRetries(0))

	history := []models.ChatMessage{
		{Type: models.TypeAI, Content: "greeting"},
		{Type: models.TypeUser, Content: "old question"},
		{Type: models.TypeAI, Content: "old answer"},
	}
	reply, err := r.Respond(context.Background(), Conversation{Location: "Coron", History: history, Message: "how do I get to town?"})
	if err != nil {
		t.Fatal(err)
	}
	if reply.Content != "Take the morning van." || reply.Source != models.SourceLLM {
		t.Errorf("reply = %+v", reply)
	}

	if received.Model != "gpt-4o-mini" {
		t.Errorf("model = %q", received.Model)
	}
	roles := make([]string, 0, len(received.Messages))
	for _, m := range received.Messages {
		roles = append(roles, m.Role)
	}
	if strings.Join(roles, ",") != "system,user,assistant,user" {
		t.Errorf("roles = %v", roles)
	}
	if !strings.Contains(received.Messages[0].Content, "Coron") {
		t.Errorf("system prompt should mention the location: %q", received.Messages[0].Content)
	}
}

func TestLLMResponderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := newLLMResponder(LLMConfig{Model: "gpt-4o-mini"},
		option.WithAPIKey("k"), option.WithBaseURL(srv.URL), option.WithMaxRetries(0))

	if _, err := r.Respond(context.Background(), Conversation{Message: "hi"}); err == nil {
		t.Error("expected error from failing endpoint")
	}
}
