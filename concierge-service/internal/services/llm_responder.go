package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"nomadpal/concierge-service/internal/models"
)

const systemPrompt = `You are the NomadPal travel concierge. The traveler is currently in %s.
Give short, practical answers about transport, accommodation, activities, food and budgets.
Prefer verified local guides and hosts from the NomadPal community when suggesting services.`

type LLMConfig struct {
	APIKey       string
	BaseURL      string
	Model        string
	HistoryLimit int
}

// LLMResponder asks an OpenAI-compatible chat completions endpoint.
type LLMResponder struct {
	client       openai.Client
	model        string
	historyLimit int
}

func NewLLMResponder(cfg LLMConfig) *LLMResponder {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return newLLMResponder(cfg, opts...)
}

func newLLMResponder(cfg LLMConfig, opts ...option.RequestOption) *LLMResponder {
	return &LLMResponder{
		client:       openai.NewClient(opts...),
		model:        cfg.Model,
		historyLimit: cfg.HistoryLimit,
	}
}

func (r *LLMResponder) Respond(ctx context.Context, conv Conversation) (Reply, error) {
	completion, err := r.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(r.model),
		Messages: r.buildMessages(conv),
	})
	if err != nil {
		return Reply{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return Reply{}, errors.New("chat completion returned no choices")
	}

	return Reply{
		Content: strings.TrimSpace(completion.Choices[0].Message.Content),
		Source:  models.SourceLLM,
	}, nil
}

func (r *LLMResponder) buildMessages(conv Conversation) []openai.ChatCompletionMessageParamUnion {
	history := conv.History
	if r.historyLimit > 0 && len(history) > r.historyLimit {
		history = history[len(history)-r.historyLimit:]
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	messages = append(messages, openai.SystemMessage(fmt.Sprintf(systemPrompt, conv.Location)))
	for _, m := range history {
		if m.Type == models.TypeAI {
			messages = append(messages, openai.AssistantMessage(m.Content))
		} else {
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}
	return append(messages, openai.UserMessage(conv.Message))
}
