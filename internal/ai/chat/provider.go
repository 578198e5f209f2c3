package chat

import "context"

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Provider completes a conversation. Implementations report failures as
// *ai.Error.
type Provider interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

const SystemPrompt = "You are SkillBridge, a pragmatic career coach for software professionals. " +
	"Give concise, actionable advice about skills to learn, learning plans and the job market. " +
	"When you are unsure about market figures, say so instead of inventing numbers."
