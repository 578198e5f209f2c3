package speech

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"skillbridge/internal/ai"
	"skillbridge/internal/pkg/logger"

	"github.com/go-resty/resty/v2"
)

type ElevenLabsConfig struct {
	APIKey  string
	BaseURL string
	ModelID string
	Timeout time.Duration
}

type ElevenLabsProvider struct {
	client  *resty.Client
	apiKey  string
	modelID string
	log     *logger.Logger
}

func NewElevenLabsProvider(cfg ElevenLabsConfig, log *logger.Logger) *ElevenLabsProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.elevenlabs.io"
	}
	if cfg.ModelID == "" {
		cfg.ModelID = "eleven_monolingual_v1"
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("xi-api-key", cfg.APIKey)
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	return &ElevenLabsProvider{client: client, apiKey: cfg.APIKey, modelID: cfg.ModelID, log: log}
}

type ttsBody struct {
	Text          string   `json:"text"`
	ModelID       string   `json:"model_id"`
	VoiceSettings Settings `json:"voice_settings"`
}

func (p *ElevenLabsProvider) Voices() []Voice {
	return Voices()
}

func (p *ElevenLabsProvider) Synthesize(ctx context.Context, req Request) (Audio, error) {
	if err := req.Validate(); err != nil {
		return Audio{}, err
	}
	if strings.TrimSpace(p.apiKey) == "" {
		return Audio{}, &ai.Error{Kind: ai.KindInvalidCredentials, Err: errors.New("elevenlabs api key is not configured")}
	}
	voice := ResolveVoice(req.VoiceID)

	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("Accept", "audio/mpeg").
		SetHeader("Content-Type", "application/json").
		SetPathParam("voiceId", voice.ID).
		SetBody(ttsBody{Text: req.Text, ModelID: p.modelID, VoiceSettings: req.Settings}).
		Post("/v1/text-to-speech/{voiceId}")
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Audio{}, ctxErr
		}
		return Audio{}, &ai.Error{Kind: ai.KindProviderError, Err: err}
	}
	if resp.IsError() {
		body := resp.String()
		p.log.Warn("elevenlabs synthesis rejected", "status", resp.StatusCode(), "voice", voice.Name)
		return Audio{}, classify(resp.StatusCode(), body)
	}

	contentType := resp.Header().Get("Content-Type")
	if contentType == "" || strings.HasPrefix(contentType, "application/octet-stream") {
		contentType = "audio/mpeg"
	}
	return Audio{Data: resp.Body(), ContentType: contentType, Voice: voice}, nil
}

func classify(status int, body string) *ai.Error {
	err := fmt.Errorf("elevenlabs: status %d: %s", status, truncate(body, 200))
	if status == http.StatusBadRequest || status == http.StatusUnprocessableEntity {
		if strings.Contains(strings.ToLower(body), "voice") {
			return &ai.Error{Kind: ai.KindInvalidVoice, Status: status, Err: err}
		}
	}
	return ai.FromStatus(status, err)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
