// Package chat 提供会话消息与客服自动回复
package chat

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dumeirei/shopping-app-backend/internal/common/config"
	"github.com/dumeirei/shopping-app-backend/internal/common/errors"
	"github.com/dumeirei/shopping-app-backend/internal/common/logger"
	"github.com/dumeirei/shopping-app-backend/internal/common/metrics"
	"github.com/dumeirei/shopping-app-backend/internal/models"
	"github.com/dumeirei/shopping-app-backend/internal/repository"
)

const (
	// ServicePrefix 以此开头的对象为客服
	ServicePrefix = "service"
	// MessageTypeText 文本消息
	MessageTypeText = "text"

	serviceName   = "客服小助手"
	userName      = "用户"
	serviceAvatar = "/static/images/avatar/service.png"
	userAvatar    = "/static/images/avatar/user.png"
)

// ChatService 聊天服务
type ChatService struct {
	chatRepo    *repository.ChatRepository
	metrics     *metrics.Metrics
	delayMin    time.Duration
	delayMax    time.Duration
	maxMessages int
	now         func() time.Time

	replies sync.WaitGroup
}

// NewChatService 创建聊天服务，m 可以为 nil
func NewChatService(chatRepo *repository.ChatRepository, cfg config.ChatConfig, m *metrics.Metrics) *ChatService {
	maxMessages := cfg.MaxMessages
	if maxMessages <= 0 {
		maxMessages = 1000
	}
	delayMin := time.Duration(cfg.ReplyDelayMin) * time.Millisecond
	delayMax := time.Duration(cfg.ReplyDelayMax) * time.Millisecond
	if delayMax < delayMin {
		delayMax = delayMin
	}
	return &ChatService{
		chatRepo:    chatRepo,
		metrics:     m,
		delayMin:    delayMin,
		delayMax:    delayMax,
		maxMessages: maxMessages,
		now:         time.Now,
	}
}

// SendRequest 发送消息请求
type SendRequest struct {
	TargetID string `json:"targetId" binding:"required"`
	Content  string `json:"content" binding:"required,max=2000"`
	Type     string `json:"type" binding:"omitempty,oneof=text image file"`
}

// ReadRequest 标记已读请求，MessageIDs 为空时标记全部
type ReadRequest struct {
	TargetID   string   `json:"targetId" binding:"required"`
	MessageIDs []string `json:"messageIds"`
}

// History 聊天记录分页
type History struct {
	Messages []models.ChatMessage `json:"messages"`
	Total    int                  `json:"total"`
	Page     int                  `json:"page"`
	Limit    int                  `json:"limit"`
	HasMore  bool                 `json:"hasMore"`
}

// LastMessage 会话最后一条消息
type LastMessage struct {
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
}

// Conversation 会话列表项
type Conversation struct {
	TargetID     string      `json:"targetId"`
	TargetName   string      `json:"targetName"`
	TargetAvatar string      `json:"targetAvatar"`
	LastMessage  LastMessage `json:"lastMessage"`
	UnreadCount  int         `json:"unreadCount"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// IsService 是否客服对象
func IsService(targetID string) bool {
	return strings.HasPrefix(targetID, ServicePrefix)
}

func (s *ChatService) record(source string) {
	if s.metrics != nil {
		s.metrics.RecordChatMessage(source)
	}
}

// History 聊天记录，按时间正序分页
func (s *ChatService) History(ctx context.Context, userID, targetID string, page, limit int) (*History, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}

	var messages []models.ChatMessage
	conv, err := s.chatRepo.Get(ctx, userID, targetID)
	switch {
	case err == nil:
		messages = conv.Messages
	case !repository.IsNotFound(err):
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	start := (page - 1) * limit
	end := start + limit
	h := &History{Messages: []models.ChatMessage{}, Total: len(messages), Page: page, Limit: limit, HasMore: end < len(messages)}
	if start < len(messages) {
		if end > len(messages) {
			end = len(messages)
		}
		h.Messages = messages[start:end]
	}
	return h, nil
}

// Send 发送消息；发给客服时异步生成自动回复
func (s *ChatService) Send(ctx context.Context, userID string, req *SendRequest) (*models.ChatMessage, error) {
	typ := req.Type
	if typ == "" {
		typ = MessageTypeText
	}
	msg := models.ChatMessage{
		ID:        uuid.NewString(),
		SenderID:  userID,
		TargetID:  req.TargetID,
		Content:   req.Content,
		Type:      typ,
		Timestamp: s.now(),
		Status:    models.MessageStatusSent,
	}
	if _, err := s.chatRepo.Append(ctx, userID, req.TargetID, s.maxMessages, msg); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	s.record("user")

	if IsService(req.TargetID) {
		s.replies.Add(1)
		go s.autoReply(userID, req.TargetID, req.Content)
	}
	return &msg, nil
}

func (s *ChatService) replyDelay() time.Duration {
	if s.delayMax <= s.delayMin {
		return s.delayMin
	}
	return s.delayMin + rand.N(s.delayMax-s.delayMin)
}

// autoReply 脱离请求上下文运行
func (s *ChatService) autoReply(userID, serviceID, content string) {
	defer s.replies.Done()
	if d := s.replyDelay(); d > 0 {
		time.Sleep(d)
	}

	reply := models.ChatMessage{
		ID:        uuid.NewString(),
		SenderID:  serviceID,
		TargetID:  userID,
		Content:   AutoReply(content),
		Type:      MessageTypeText,
		Timestamp: s.now(),
		Status:    models.MessageStatusSent,
	}
	if _, err := s.chatRepo.Append(context.Background(), userID, serviceID, s.maxMessages, reply); err != nil {
		logger.Error("客服自动回复失败", logger.UserID(userID), logger.Module("chat"), logger.Err(err))
		return
	}
	s.record("auto_reply")
}

// Wait 等待进行中的自动回复完成
func (s *ChatService) Wait() {
	s.replies.Wait()
}

// MarkRead 标记对方消息为已读
func (s *ChatService) MarkRead(ctx context.Context, userID string, req *ReadRequest) (int, error) {
	n, err := s.chatRepo.MarkRead(ctx, userID, req.TargetID, req.MessageIDs...)
	if err != nil {
		return 0, errors.ErrDatabaseError.WithError(err)
	}
	return n, nil
}

// List 会话列表，最近消息在前
func (s *ChatService) List(ctx context.Context, userID string) ([]*Conversation, error) {
	convs, err := s.chatRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	out := make([]*Conversation, 0, len(convs))
	for _, c := range convs {
		if len(c.Messages) == 0 {
			continue
		}
		last := c.Messages[len(c.Messages)-1]
		unread := 0
		for _, m := range c.Messages {
			if m.SenderID != userID && m.Status != models.MessageStatusRead {
				unread++
			}
		}
		item := &Conversation{
			TargetID:     c.TargetID,
			TargetName:   userName,
			TargetAvatar: userAvatar,
			LastMessage:  LastMessage{Content: last.Content, Timestamp: last.Timestamp, Type: last.Type},
			UnreadCount:  unread,
			UpdatedAt:    last.Timestamp,
		}
		if IsService(c.TargetID) {
			item.TargetName = serviceName
			item.TargetAvatar = serviceAvatar
		}
		out = append(out, item)
	}
	return out, nil
}

// Delete 删除会话，会话不存在时不报错
func (s *ChatService) Delete(ctx context.Context, userID, targetID string) error {
	if _, err := s.chatRepo.Remove(ctx, userID, targetID); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}
