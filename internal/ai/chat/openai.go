package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"skillbridge/internal/ai"
	"skillbridge/internal/pkg/logger"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Timeout     time.Duration
	MaxRetries  int
	MaxTokens   int64
	Temperature float64
}

type OpenAIProvider struct {
	client *openai.Client
	cfg    OpenAIConfig
	log    *logger.Logger
}

func NewOpenAIProvider(cfg OpenAIConfig, log *logger.Logger) *OpenAIProvider {
	if cfg.Model == "" {
		cfg.Model = openai.ChatModelGPT4oMini
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 800
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.7
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	return &OpenAIProvider{
		client: openai.NewClient(opts...),
		cfg:    cfg,
		log:    log,
	}
}

func (p *OpenAIProvider) Complete(ctx context.Context, messages []Message) (string, error) {
	if strings.TrimSpace(p.cfg.APIKey) == "" {
		return "", &ai.Error{Kind: ai.KindInvalidCredentials, Err: errors.New("openai api key is not configured")}
	}

	params := openai.ChatCompletionNewParams{
		Messages:    openai.F(toParams(messages)),
		Model:       openai.F(p.cfg.Model),
		MaxTokens:   openai.F(p.cfg.MaxTokens),
		Temperature: openai.F(p.cfg.Temperature),
	}

	start := time.Now()
	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			p.log.Warn("openai completion rejected", "status", apiErr.StatusCode, "model", p.cfg.Model)
			return "", ai.FromStatus(apiErr.StatusCode, err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", &ai.Error{Kind: ai.KindProviderError, Err: err}
	}
	if len(completion.Choices) == 0 {
		return "", &ai.Error{Kind: ai.KindProviderError, Err: errors.New("openai returned no choices")}
	}

	p.log.Debug("openai completion",
		"model", completion.Model,
		"total_tokens", completion.Usage.TotalTokens,
		"latency_ms", time.Since(start).Milliseconds(),
	)
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

// toParams prepends the coach persona unless the caller supplied its own
// system message.
func toParams(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)+1)
	if len(messages) == 0 || messages[0].Role != RoleSystem {
		out = append(out, openai.SystemMessage(SystemPrompt))
	}
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}
