package services

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"nomadpal/concierge-service/internal/models"
)

// Conversation is what a responder sees for one turn.
type Conversation struct {
	Location string
	History  []models.ChatMessage
	Message  string
}

type Reply struct {
	Content string
	Source  string
}

type Responder interface {
	Respond(ctx context.Context, conv Conversation) (Reply, error)
}

type keywordGroup struct {
	keywords  []string
	responses []string
}

// Groups are checked in order, so "bus tour" is a transport question.
var cannedGroups = []keywordGroup{
	{
		keywords: []string{"transport", "bus", "van"},
		responses: []string{
			"Vans to Port Barton leave every morning from the terminal and the ride takes about four hours. Book a day ahead in high season. I can put you in touch with a verified driver if you prefer a private transfer.",
			"For short hops around town tricycles are the easiest option, and scooter rentals run around 400 PHP a day. Most beaches are less than half an hour away.",
		},
	},
	{
		keywords: []string{"hotel", "hostel", "stay"},
		responses: []string{
			"Travelers in our community rate the beachfront hostels highly for meeting people, with dorm beds from about 800 PHP a night. Private rooms in town start around 1500 PHP.",
			"A homestay is a good way to see local life. Our verified hosts usually include breakfast and charge 600 to 800 PHP a night.",
		},
	},
	{
		keywords: []string{"tour", "activity", "do"},
		responses: []string{
			"Island hopping is the classic first day here. After that try a sunset hike or a day trip to one of the long northern beaches.",
			"If you like adventure, ask a local guide about kayaking the lagoons early in the morning before the tour boats arrive.",
		},
	},
	{
		keywords: []string{"food", "restaurant", "eat"},
		responses: []string{
			"The night market is the best place for cheap grilled seafood. For a sit-down dinner the beach bars on the main strip get great reviews from our members.",
			"Ask at your guesthouse for a family-run carinderia. Local dishes there rarely cost more than 150 PHP.",
		},
	},
}

const genericResponse = "Happy to help! I can suggest transportation, places to stay, activities, and food, or connect you with local guides. What part of your trip should we plan first?"

// CannedResponder answers from fixed keyword groups.
type CannedResponder struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewCannedResponder(src rand.Source) *CannedResponder {
	return &CannedResponder{rnd: rand.New(src)}
}

func (r *CannedResponder) Respond(_ context.Context, conv Conversation) (Reply, error) {
	msg := strings.ToLower(conv.Message)
	for _, g := range cannedGroups {
		for _, kw := range g.keywords {
			if strings.Contains(msg, kw) {
				return Reply{Content: r.pick(g.responses), Source: models.SourceCanned}, nil
			}
		}
	}
	return Reply{Content: genericResponse, Source: models.SourceCanned}, nil
}

func (r *CannedResponder) pick(responses []string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return responses[r.rnd.Intn(len(responses))]
}

// FallbackResponder tries primary and answers from fallback when it fails.
type FallbackResponder struct {
	primary  Responder
	fallback Responder
	logf     func(format string, args ...interface{})
}

func NewFallbackResponder(primary, fallback Responder, logf func(string, ...interface{})) *FallbackResponder {
	return &FallbackResponder{primary: primary, fallback: fallback, logf: logf}
}

func (r *FallbackResponder) Respond(ctx context.Context, conv Conversation) (Reply, error) {
	reply, err := r.primary.Respond(ctx, conv)
	if err == nil && strings.TrimSpace(reply.Content) != "" {
		return reply, nil
	}
	if err == nil {
		err = fmt.Errorf("empty completion")
	}
	r.logf("[CONCIERGE] LLM responder failed, using canned reply: %v", err)
	return r.fallback.Respond(ctx, conv)
}

// Greeting is the first message of every conversation.
func Greeting(location string) string {
	return fmt.Sprintf("Hi! I'm your NomadPal AI concierge. I can help you plan your time in %s, find local guides, book transportation, and answer any travel questions. What would you like to know?", location)
}
