package speech

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"
)

const MaxTextLength = 5000

var (
	ErrEmptyText   = errors.New("text is required")
	ErrTextTooLong = errors.New("text exceeds 5000 characters")
)

type Voice struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Gender      string `json:"gender"`
	Description string `json:"description"`
}

// voices[0] is the fallback voice.
var voices = []Voice{
	{ID: "21m00Tcm4TlvDq8ikWAM", Name: "rachel", Gender: "female", Description: "calm, young, american"},
	{ID: "AZnzlk1XvdvUeBnXmlld", Name: "domi", Gender: "female", Description: "strong, young, american"},
	{ID: "EXAVITQu4vr4xnSDxMaL", Name: "bella", Gender: "female", Description: "soft, young, american"},
	{ID: "ErXwobaYiN019PkySvjV", Name: "antoni", Gender: "male", Description: "well-rounded, young, american"},
	{ID: "MF3mGyEYCl7XYWbV9V6O", Name: "elli", Gender: "female", Description: "emotional, young, american"},
	{ID: "TxGEqnHWrfWFTfGW9XjX", Name: "josh", Gender: "male", Description: "deep, young, american"},
	{ID: "VR6AewLTigWG4xSOukaG", Name: "arnold", Gender: "male", Description: "crisp, middle-aged, american"},
	{ID: "pNInz6obpgDQGcFmaJgB", Name: "adam", Gender: "male", Description: "deep, middle-aged, american"},
	{ID: "yoZ06aMxZJJ28mfd3POQ", Name: "sam", Gender: "male", Description: "raspy, young, american"},
}

// Voices returns a copy of the allow-list.
func Voices() []Voice {
	out := make([]Voice, len(voices))
	copy(out, voices)
	return out
}

// ResolveVoice accepts a voice id or name. Anything outside the allow-list
// resolves to rachel.
func ResolveVoice(idOrName string) Voice {
	key := strings.TrimSpace(idOrName)
	for _, v := range voices {
		if v.ID == key || strings.EqualFold(v.Name, key) {
			return v
		}
	}
	return voices[0]
}

type Settings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// NewSettings fills unset values with 0.5 and 0.75 and clamps to [0,1].
func NewSettings(stability, similarity *float64) Settings {
	s := Settings{Stability: 0.5, SimilarityBoost: 0.75}
	if stability != nil {
		s.Stability = clampUnit(*stability)
	}
	if similarity != nil {
		s.SimilarityBoost = clampUnit(*similarity)
	}
	return s
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

type Request struct {
	Text     string
	VoiceID  string
	Settings Settings
}

// Validate trims Text in place.
func (r *Request) Validate() error {
	r.Text = strings.TrimSpace(r.Text)
	if r.Text == "" {
		return ErrEmptyText
	}
	if utf8.RuneCountInString(r.Text) > MaxTextLength {
		return ErrTextTooLong
	}
	return nil
}

type Audio struct {
	Data        []byte
	ContentType string
	Voice       Voice
}

type Provider interface {
	Synthesize(ctx context.Context, req Request) (Audio, error)
	Voices() []Voice
}
