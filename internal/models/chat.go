package models

import (
	"time"

	"github.com/dumeirei/shopping-app-backend/internal/store"
)

// 消息状态
const (
	MessageStatusSent = "sent"
	MessageStatusRead = "read"
)

// ChatMessage 聊天消息
type ChatMessage struct {
	ID        string    `json:"id"`
	SenderID  string    `json:"senderId"`
	TargetID  string    `json:"targetId"`
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status"`
}

// ChatConversation 两个参与者之间的会话，id 为 chat_{userId}_{targetId}
type ChatConversation struct {
	store.Base
	UserID   string        `json:"userId"`
	TargetID string        `json:"targetId"`
	Messages []ChatMessage `json:"messages"`
}

// ConversationID 会话 id
func ConversationID(userID, targetID string) string {
	return "chat_" + userID + "_" + targetID
}
