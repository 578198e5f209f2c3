package usecase

import (
	"context"
	"encoding/base64"
	"errors"

	"skillbridge/internal/ai/speech"
)

type VoiceInput struct {
	Text            string
	VoiceID         string
	Stability       *float64
	SimilarityBoost *float64
}

type VoiceResult struct {
	AudioBase64 string
	MimeType    string
	Voice       speech.Voice
	Settings    speech.Settings
}

type VoiceUsecase interface {
	Synthesize(ctx context.Context, in VoiceInput) (VoiceResult, error)
	ListVoices() []speech.Voice
}

type Voice struct {
	provider speech.Provider
}

func NewVoiceUsecase(provider speech.Provider) *Voice {
	return &Voice{provider: provider}
}

func (u *Voice) Synthesize(ctx context.Context, in VoiceInput) (VoiceResult, error) {
	req := speech.Request{
		Text:     in.Text,
		VoiceID:  in.VoiceID,
		Settings: speech.NewSettings(in.Stability, in.SimilarityBoost),
	}
	if err := req.Validate(); err != nil {
		return VoiceResult{}, mapSpeechErr(err)
	}

	audio, err := u.provider.Synthesize(ctx, req)
	if err != nil {
		return VoiceResult{}, mapSpeechErr(err)
	}
	return VoiceResult{
		AudioBase64: base64.StdEncoding.EncodeToString(audio.Data),
		MimeType:    audio.ContentType,
		Voice:       audio.Voice,
		Settings:    req.Settings,
	}, nil
}

func (u *Voice) ListVoices() []speech.Voice {
	return u.provider.Voices()
}

func mapSpeechErr(err error) error {
	switch {
	case errors.Is(err, speech.ErrEmptyText):
		return invalidInput("text is required")
	case errors.Is(err, speech.ErrTextTooLong):
		return invalidInput("text must be at most %d characters", speech.MaxTextLength)
	default:
		return err
	}
}
