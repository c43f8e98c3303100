package repository

import (
	"context"

	"github.com/dumeirei/shopping-app-backend/internal/models"
	"github.com/dumeirei/shopping-app-backend/internal/store"
)

// ChatRepository 聊天会话仓储
type ChatRepository struct {
	*store.Collection[models.ChatConversation, *models.ChatConversation]
}

// NewChatRepository 创建聊天会话仓储
func NewChatRepository(db *store.DB) *ChatRepository {
	return &ChatRepository{store.NewCollection[models.ChatConversation](db, models.CollectionChatHistory)}
}

// Append 追加消息，会话不存在时创建；max 大于 0 时只保留最近 max 条
func (r *ChatRepository) Append(ctx context.Context, userID, targetID string, max int, msgs ...models.ChatMessage) (*models.ChatConversation, error) {
	id := models.ConversationID(userID, targetID)
	return r.Upsert(ctx,
		func(c *models.ChatConversation) bool { return c.ID == id },
		func(c *models.ChatConversation, exists bool) error {
			if !exists {
				c.ID = id
				c.UserID = userID
				c.TargetID = targetID
			}
			c.Messages = append(c.Messages, msgs...)
			if max > 0 && len(c.Messages) > max {
				c.Messages = append([]models.ChatMessage(nil), c.Messages[len(c.Messages)-max:]...)
			}
			return nil
		})
}

// Get 获取会话，不存在返回 store.ErrNotFound
func (r *ChatRepository) Get(ctx context.Context, userID, targetID string) (*models.ChatConversation, error) {
	return r.FindByID(ctx, models.ConversationID(userID, targetID))
}

// ListByUser 用户参与的会话，最近更新的在前
func (r *ChatRepository) ListByUser(ctx context.Context, userID string) ([]*models.ChatConversation, error) {
	return r.Query().
		Where(func(c *models.ChatConversation) bool { return c.UserID == userID }).
		SortBy(func(a, b *models.ChatConversation) bool { return a.UpdatedAt.After(b.UpdatedAt) }).
		All(ctx)
}

// MarkRead 将对方发给用户的消息标记为已读，ids 为空时标记全部，返回标记数
func (r *ChatRepository) MarkRead(ctx context.Context, userID, targetID string, ids ...string) (int, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	n := 0
	_, err := r.Update(ctx, models.ConversationID(userID, targetID), func(c *models.ChatConversation) error {
		for i := range c.Messages {
			m := &c.Messages[i]
			if len(want) > 0 && !want[m.ID] {
				continue
			}
			if m.TargetID == userID && m.Status != models.MessageStatusRead {
				m.Status = models.MessageStatusRead
				n++
			}
		}
		return nil
	})
	if IsNotFound(err) {
		return 0, nil
	}
	return n, err
}

// Remove 删除会话
func (r *ChatRepository) Remove(ctx context.Context, userID, targetID string) (bool, error) {
	return r.Delete(ctx, models.ConversationID(userID, targetID))
}
