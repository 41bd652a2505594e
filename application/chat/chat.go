package chat

import (
	"context"
	"strings"

	"github.com/muhammadheryan/internmatch/constant"
	"github.com/muhammadheryan/internmatch/model"
	"github.com/muhammadheryan/internmatch/thirdparty/perplexity"
	"github.com/muhammadheryan/internmatch/utils/errors"
	"github.com/muhammadheryan/internmatch/utils/logger"
	"go.uber.org/zap"
)

const SystemPrompt = "You are the official AI assistant for the InternMatch website. " +
	"Only answer questions about how to use the InternMatch website and its features " +
	"(such as selecting skills, applying for internships, or using the profile form). " +
	"Never give general advice about internships, careers, or other websites. " +
	"If a question is not about InternMatch, reply: 'Sorry, I can only help with the InternMatch website.' " +
	"Always keep your answers short, direct, and to the point (no more than 2-3 sentences)."

const (
	maxTokens   = 500
	temperature = 0.8
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ChatApp interface {
	Reply(ctx context.Context, req *model.ChatRequest) (*model.ChatResponse, error)
}

type ChatAppImpl struct {
	client perplexity.Client
	model  string
}

// NewChatApp builds the chat proxy. A nil client means no API key is configured.
func NewChatApp(client perplexity.Client, chatModel string) ChatApp {
	if chatModel == "" {
		chatModel = perplexity.DefaultModel
	}
	return &ChatAppImpl{client: client, model: chatModel}
}

func (s *ChatAppImpl) Reply(ctx context.Context, req *model.ChatRequest) (*model.ChatResponse, error) {
	if s.client == nil {
		return nil, errors.SetCustomError(constant.ErrChatNotConfigured)
	}

	turns := Normalize(req.Messages)
	messages := make([]perplexity.Message, 0, len(turns)+1)
	messages = append(messages, perplexity.Message{Role: RoleSystem, Content: SystemPrompt})
	for _, m := range turns {
		messages = append(messages, perplexity.Message{Role: m.Role, Content: m.Content})
	}

	reply, err := s.client.Complete(ctx, &perplexity.CompletionRequest{
		Model:       s.model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		logger.Error("[Chat.Reply] err client.Complete", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrChatUpstream)
	}
	return &model.ChatResponse{Reply: reply}, nil
}

// Normalize drops blank turns, collapses consecutive user or assistant turns
// (the first one wins) and discards everything before the first user turn.
func Normalize(in []model.ChatMessage) []model.ChatMessage {
	out := make([]model.ChatMessage, 0, len(in))
	lastRole := RoleSystem
	for _, m := range in {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		if m.Role == lastRole && (m.Role == RoleUser || m.Role == RoleAssistant) {
			continue
		}
		out = append(out, m)
		lastRole = m.Role
	}

	for len(out) > 0 && out[0].Role != RoleUser {
		out = out[1:]
	}
	return out
}
