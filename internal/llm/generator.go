// Package llm wraps the remote chat-completions backend. The generator
// builds prompts from the business context and recent history, calls the
// backend once per turn, and scores the returned text. Backend failures
// are absorbed into a fixed fallback reply; callers never see an error.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/leadchat/leadchat/internal/domain"
)

const (
	// FallbackReply is shown when the generation backend fails.
	FallbackReply = "I'm having trouble processing your request right now. Would you like to speak with a human representative?"
	// FallbackConfidence marks a fallback reply as low-trust, which
	// surfaces the escalation affordance downstream.
	FallbackConfidence = 0.2

	historyWindow = 5

	baseConfidence     = 0.6
	lengthBoost        = 0.1
	businessNameBoost  = 0.1
	uncertaintyPenalty = 0.2
	factualIntentBoost = 0.15
	minConfidence      = 0.1
	maxConfidence      = 0.95
	goodReplyMinLength = 20
	goodReplyMaxLength = 300
)

var uncertaintyPhrases = []string{"i don't know", "i'm not sure", "i cannot", "i can't"}

type chatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Options configures a Generator.
type Options struct {
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// Generator produces assistant replies via an OpenAI-compatible
// chat-completions endpoint.
type Generator struct {
	client   chatClient
	business domain.BusinessContext
	opts     Options
	logger   *zap.Logger
}

// New returns a Generator backed by the given endpoint. The Mistral API
// is OpenAI-compatible, so the same client serves both.
func New(baseURL, apiKey string, business domain.BusinessContext, opts Options, logger *zap.Logger) *Generator {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return newGenerator(openai.NewClientWithConfig(cfg), business, opts, logger)
}

func newGenerator(client chatClient, business domain.BusinessContext, opts Options, logger *zap.Logger) *Generator {
	if opts.Model == "" {
		opts.Model = "mistral-small-latest"
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = 200
	}
	if opts.Temperature == 0 {
		opts.Temperature = 0.7
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{client: client, business: business, opts: opts, logger: logger}
}

// Generate produces a reply for the user's message and scores it.
// A single attempt is made per turn; any backend failure (transport
// error, malformed payload, empty choices) yields the fallback reply
// with confidence 0.2 instead of an error.
func (g *Generator) Generate(ctx context.Context, userText string, history []domain.Message, intent domain.Intent) (string, float64) {
	callCtx, cancel := context.WithTimeout(ctx, g.opts.Timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: g.opts.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: g.systemPrompt(intent)},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt(userText, history)},
		},
		Temperature: float32(g.opts.Temperature),
		MaxTokens:   g.opts.MaxTokens,
	}

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(callCtx, req)
	if err != nil {
		g.logger.Warn("chat completion failed",
			zap.String("model", g.opts.Model),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return FallbackReply, FallbackConfidence
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		g.logger.Warn("chat completion returned no content", zap.String("model", g.opts.Model))
		return FallbackReply, FallbackConfidence
	}

	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	confidence := g.scoreReply(reply, intent)
	g.logger.Debug("chat completion finished",
		zap.String("model", g.opts.Model),
		zap.String("intent", string(intent)),
		zap.Float64("confidence", confidence),
		zap.Duration("elapsed", time.Since(start)))
	return reply, confidence
}

func (g *Generator) systemPrompt(intent domain.Intent) string {
	return fmt.Sprintf(`You are a helpful AI assistant for %s, a business in the %s industry.

%s

Your role:
- Answer customer questions professionally and helpfully
- Provide accurate information about services, pricing, and business hours
- Be conversational and friendly
- If you don't know something, admit it and offer to connect them with a human representative
- Keep responses concise (2-3 sentences max)
- Never make up information not provided in the business context

Current conversation intent: %s`,
		g.business.Name, g.business.Industry, g.business.PromptContext(), intent)
}

// userPrompt renders up to the last 5 history entries as User/Assistant
// lines followed by the new utterance.
func userPrompt(userText string, history []domain.Message) string {
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	if len(history) == 0 {
		return "User's message: " + userText
	}

	var b strings.Builder
	b.WriteString("Previous conversation:\n")
	for _, msg := range history {
		speaker := "Assistant"
		if msg.Sender == domain.SenderUser {
			speaker = "User"
		}
		fmt.Fprintf(&b, "%s: %s\n", speaker, msg.Content)
	}
	b.WriteString("\nUser's current message: ")
	b.WriteString(userText)
	return b.String()
}

// scoreReply derives a post-hoc confidence score from the reply text.
// Not a probability: a heuristic composite clamped to [0.1, 0.95].
func (g *Generator) scoreReply(reply string, intent domain.Intent) float64 {
	confidence := baseConfidence
	lower := strings.ToLower(reply)

	if len(reply) > goodReplyMinLength && len(reply) < goodReplyMaxLength {
		confidence += lengthBoost
	}
	if g.business.Name != "" && strings.Contains(lower, strings.ToLower(g.business.Name)) {
		confidence += businessNameBoost
	}
	for _, phrase := range uncertaintyPhrases {
		if strings.Contains(lower, phrase) {
			confidence -= uncertaintyPenalty
			break
		}
	}
	if intent.IsFactual() {
		confidence += factualIntentBoost
	}

	if confidence < minConfidence {
		confidence = minConfidence
	}
	if confidence > maxConfidence {
		confidence = maxConfidence
	}
	return confidence
}
