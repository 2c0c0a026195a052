// Package assistant asks a chat completion model to write habit reports and
// to turn spoken requests into tracker actions.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/julianstephens/wellmeing/internal/codec"
	"github.com/julianstephens/wellmeing/internal/constants"
	"github.com/julianstephens/wellmeing/internal/history"
	"github.com/julianstephens/wellmeing/internal/logger"
	"github.com/julianstephens/wellmeing/internal/models"
)

var (
	ErrNoAPIKey          = errors.New("openai api key not set")
	ErrNoChoicesReturned = errors.New("no choices returned")
	ErrEmptySpeech       = errors.New("speech is empty")
	ErrBadReply          = errors.New("assistant reply is unusable")
)

// chatService is the part of the OpenAI client the assistant uses.
type chatService interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// Client wraps the chat completion service.
type Client struct {
	chat  chatService
	model string
}

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	apiKey  string
	model   string
	baseURL string
}

// WithAPIKey sets the OpenAI API key.
func WithAPIKey(key string) Option {
	return func(c *clientConfig) { c.apiKey = key }
}

// WithModel selects the chat model. Empty keeps the default.
func WithModel(model string) Option {
	return func(c *clientConfig) {
		if model != "" {
			c.model = model
		}
	}
}

// WithBaseURL points the client at an OpenAI compatible endpoint.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) { c.baseURL = url }
}

// NewClient builds a client. An API key is required.
func NewClient(opts ...Option) (*Client, error) {
	cfg := clientConfig{model: constants.DefaultModel}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.apiKey == "" {
		return nil, ErrNoAPIKey
	}
	reqOpts := []option.RequestOption{option.WithAPIKey(cfg.apiKey)}
	if cfg.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.baseURL))
	}
	cli := openai.NewClient(reqOpts...)
	return &Client{chat: &cli.Chat.Completions, model: cfg.model}, nil
}

// Model is the chat model in use.
func (c *Client) Model() string {
	return c.model
}

// complete sends one system and one user message and returns the reply
// text with the number of tokens the call consumed.
func (c *Client) complete(ctx context.Context, system, user string) (string, int, error) {
	resp, err := c.chat.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Model: openai.ChatModel(c.model),
	})
	if err != nil {
		return "", 0, fmt.Errorf("chat completion: %w", err)
	}
	tokens := int(resp.Usage.TotalTokens)
	if len(resp.Choices) == 0 {
		return "", tokens, ErrNoChoicesReturned
	}
	logger.Debug("Chat completion finished", "model", c.model, "tokens", tokens)
	return resp.Choices[0].Message.Content, tokens, nil
}

// GenerateReport writes a report on the last month of habits. The report
// is dated now. Tokens are returned even when the reply is unusable.
func (c *Client) GenerateReport(ctx context.Context, user *models.UserData, now time.Time) (models.Report, int, error) {
	var habits []models.Habit
	if user != nil {
		habits = history.Month(user.Habits, now)
	}
	payload, err := codec.ToJSON(codec.ReportRequest(user, habits))
	if err != nil {
		return models.Report{}, 0, fmt.Errorf("encode report request: %w", err)
	}

	reply, tokens, err := c.complete(ctx, reportSystemPrompt, string(payload))
	if err != nil {
		return models.Report{}, tokens, err
	}
	raw, err := parseReply(reply)
	if err != nil {
		return models.Report{}, tokens, err
	}
	raw[codec.FieldDate] = models.FormatTimestamp(now)
	report, err := codec.DecodeReport(raw)
	if err != nil {
		return models.Report{}, tokens, fmt.Errorf("%w: %w", ErrBadReply, err)
	}
	return report, tokens, nil
}

// ParseSpeech turns a spoken request into proposed actions against the
// user's habits, which are sent with their last week of history. A nil
// result means the speech asks for nothing.
func (c *Client) ParseSpeech(ctx context.Context, speech string, habits []models.Habit, now time.Time) (*models.Actions, int, error) {
	speech = models.Clean(speech)
	if speech == "" {
		return nil, 0, ErrEmptySpeech
	}
	payload, err := codec.ToJSON(codec.SpeechRequest(speech, history.Week(habits, now)))
	if err != nil {
		return nil, 0, fmt.Errorf("encode speech request: %w", err)
	}

	reply, tokens, err := c.complete(ctx, speechSystemPrompt, string(payload))
	if err != nil {
		return nil, tokens, err
	}
	raw, err := parseReply(reply)
	if err != nil {
		return nil, tokens, err
	}
	actions, err := codec.DecodeActions(raw, codec.SchemasFrom(habits), now)
	if err != nil {
		return nil, tokens, fmt.Errorf("%w: %w", ErrBadReply, err)
	}
	return actions, tokens, nil
}

// parseReply extracts the JSON object from a reply, which models sometimes
// wrap in a Markdown code fence.
func parseReply(reply string) (map[string]any, error) {
	text := strings.TrimSpace(reply)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if nl := strings.IndexByte(text, '\n'); nl >= 0 {
			text = text[nl+1:]
		}
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	if start, end := strings.IndexByte(text, '{'), strings.LastIndexByte(text, '}'); start >= 0 && end > start {
		text = text[start : end+1]
	}
	raw, err := codec.FromJSON([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("%w: not a JSON object: %w", ErrBadReply, err)
	}
	return raw, nil
}
