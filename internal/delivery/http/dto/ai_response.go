package dto

import (
	"time"

	"skillbridge/internal/ai/speech"
	"skillbridge/internal/usecase"
)

type ChatResponse struct {
	SessionID string    `json:"sessionId"`
	Reply     string    `json:"reply"`
	Timestamp time.Time `json:"timestamp"`
}

type VoiceSettingsResponse struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarityBoost"`
}

type VoiceResponse struct {
	Audio    string                `json:"audio"`
	MimeType string                `json:"mimeType"`
	Voice    speech.Voice          `json:"voice"`
	Settings VoiceSettingsResponse `json:"voiceSettings"`
}

type VoiceListResponse struct {
	Voices       []speech.Voice `json:"voices"`
	DefaultVoice string         `json:"defaultVoice"`
}

func NewChatResponse(r usecase.ChatReply) ChatResponse {
	return ChatResponse{SessionID: r.SessionID, Reply: r.Reply, Timestamp: r.Timestamp}
}

func NewVoiceResponse(r usecase.VoiceResult) VoiceResponse {
	return VoiceResponse{
		Audio:    r.AudioBase64,
		MimeType: r.MimeType,
		Voice:    r.Voice,
		Settings: VoiceSettingsResponse{Stability: r.Settings.Stability, SimilarityBoost: r.Settings.SimilarityBoost},
	}
}

func NewVoiceListResponse(voices []speech.Voice) VoiceListResponse {
	return VoiceListResponse{Voices: voices, DefaultVoice: speech.ResolveVoice("").ID}
}
