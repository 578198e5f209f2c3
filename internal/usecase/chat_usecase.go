package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"skillbridge/internal/ai/chat"
	"skillbridge/internal/pkg/logger"

	"github.com/google/uuid"
)

const (
	chatHistoryLimit  = 20
	chatHistoryTTL    = 24 * time.Hour
	maxChatMessageLen = 4000
)

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

type ChatInput struct {
	SessionID string
	Message   string
}

type ChatReply struct {
	SessionID string
	Reply     string
	Timestamp time.Time
}

type ChatUsecase interface {
	Send(ctx context.Context, userID uuid.UUID, in ChatInput) (ChatReply, error)
}

type Chat struct {
	provider chat.Provider
	history  HistoryStore
	log      *logger.Logger
	now      func() time.Time
}

func NewChatUsecase(provider chat.Provider, history HistoryStore, log *logger.Logger) *Chat {
	return &Chat{provider: provider, history: history, log: log, now: time.Now}
}

func chatSessionKey(userID uuid.UUID, sessionID string) string {
	return fmt.Sprintf("chat:session:%s:%s", userID, sessionID)
}

// Send keeps the conversation in the history store under the caller's
// session id. A blank session id starts a new conversation.
func (u *Chat) Send(ctx context.Context, userID uuid.UUID, in ChatInput) (ChatReply, error) {
	msg := strings.TrimSpace(in.Message)
	if msg == "" {
		return ChatReply{}, invalidInput("message is required")
	}
	if utf8.RuneCountInString(msg) > maxChatMessageLen {
		return ChatReply{}, invalidInput("message must be at most %d characters", maxChatMessageLen)
	}
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	} else if !sessionIDPattern.MatchString(sessionID) {
		return ChatReply{}, invalidInput("sessionId may only contain letters, digits, '-' and '_'")
	}
	key := chatSessionKey(userID, sessionID)

	history := u.loadHistory(ctx, key)
	userMsg := chat.Message{Role: chat.RoleUser, Content: msg}

	reply, err := u.provider.Complete(ctx, append(history, userMsg))
	if err != nil {
		return ChatReply{}, err
	}

	assistantMsg := chat.Message{Role: chat.RoleAssistant, Content: reply}
	if err := u.history.AppendJSON(ctx, key, chatHistoryLimit, chatHistoryTTL, userMsg, assistantMsg); err != nil {
		u.log.Warn("chat history write failed", "user_id", userID, "session_id", sessionID, "error", err)
	}

	return ChatReply{SessionID: sessionID, Reply: reply, Timestamp: u.now().UTC()}, nil
}

// loadHistory treats an unreadable history as empty.
func (u *Chat) loadHistory(ctx context.Context, key string) []chat.Message {
	raw, err := u.history.RangeJSON(ctx, key)
	if err != nil {
		u.log.Warn("chat history read failed", "key", key, "error", err)
		return nil
	}
	out := make([]chat.Message, 0, len(raw)+1)
	for _, r := range raw {
		var m chat.Message
		if err := json.Unmarshal(r, &m); err != nil || m.Content == "" {
			continue
		}
		out = append(out, m)
	}
	return out
}
