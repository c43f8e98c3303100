package chat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dumeirei/shopping-app-backend/internal/common/config"
	"github.com/dumeirei/shopping-app-backend/internal/models"
	"github.com/dumeirei/shopping-app-backend/internal/repository"
	"github.com/dumeirei/shopping-app-backend/internal/store"
)

func setupChatService(t *testing.T, cfg config.ChatConfig) *ChatService {
	t.Helper()
	driver, err := store.NewFileDriver(t.TempDir())
	require.NoError(t, err)
	db := store.New(driver)
	t.Cleanup(func() { _ = db.Close() })
	return NewChatService(repository.NewChatRepository(db), cfg, nil)
}

func TestAutoReply(t *testing.T) {
	tests := map[string]string{
		"我的订单呢":          "关于订单问题",
		"ORDER status":    "关于订单问题",
		"怎么退货":           "退款退货流程",
		"快递到哪了":          "您可以在\"我的订单\"中点击\"查看物流\"",
		"有 Coupon 吗":     "优惠券使用说明",
		"忘记密码":           "账户相关问题",
		"付款失败":           "支付相关问题",
		"这个产品怎么样":        "商品相关咨询",
		"Hi":             "您好！很高兴为您服务",
		"在吗":             "400-123-4567",
		"订单退款":           "关于订单问题",
	}
	for msg, want := range tests {
		t.Run(msg, func(t *testing.T) {
			assert.Contains(t, AutoReply(msg), want)
		})
	}
}

func TestSend_AutoReply(t *testing.T) {
	svc := setupChatService(t, config.ChatConfig{MaxMessages: 1000})
	ctx := context.Background()

	msg, err := svc.Send(ctx, "u1", &SendRequest{TargetID: "service_1", Content: "物流太慢"})
	require.NoError(t, err)
	assert.Equal(t, MessageTypeText, msg.Type)
	assert.Equal(t, models.MessageStatusSent, msg.Status)
	svc.Wait()

	h, err := svc.History(ctx, "u1", "service_1", 1, 50)
	require.NoError(t, err)
	require.Len(t, h.Messages, 2)
	assert.Equal(t, "u1", h.Messages[0].SenderID)
	reply := h.Messages[1]
	assert.Equal(t, "service_1", reply.SenderID)
	assert.Equal(t, "u1", reply.TargetID)
	assert.Contains(t, reply.Content, "查看物流")

	list, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "客服小助手", list[0].TargetName)
	assert.Equal(t, serviceAvatar, list[0].TargetAvatar)
	assert.Equal(t, 1, list[0].UnreadCount)
	assert.Equal(t, reply.Content, list[0].LastMessage.Content)

	n, err := svc.MarkRead(ctx, "u1", &ReadRequest{TargetID: "service_1"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	list, err = svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, list[0].UnreadCount)
}

func TestSend_ReplyDelay(t *testing.T) {
	svc := setupChatService(t, config.ChatConfig{ReplyDelayMin: 50, ReplyDelayMax: 60})
	ctx := context.Background()

	_, err := svc.Send(ctx, "u1", &SendRequest{TargetID: "service", Content: "你好"})
	require.NoError(t, err)

	h, err := svc.History(ctx, "u1", "service", 1, 50)
	require.NoError(t, err)
	assert.Len(t, h.Messages, 1, "回复尚未到达")

	svc.Wait()
	h, err = svc.History(ctx, "u1", "service", 1, 50)
	require.NoError(t, err)
	assert.Len(t, h.Messages, 2)
}

func TestSend_NoReplyForUsers(t *testing.T) {
	svc := setupChatService(t, config.ChatConfig{})
	ctx := context.Background()

	_, err := svc.Send(ctx, "u1", &SendRequest{TargetID: "u2", Content: "hello", Type: "image"})
	require.NoError(t, err)
	svc.Wait()

	h, err := svc.History(ctx, "u1", "u2", 1, 50)
	require.NoError(t, err)
	require.Len(t, h.Messages, 1)
	assert.Equal(t, "image", h.Messages[0].Type)

	list, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "用户", list[0].TargetName)
	assert.Zero(t, list[0].UnreadCount, "自己发送的消息不计未读")
}

func TestHistory_Pagination(t *testing.T) {
	svc := setupChatService(t, config.ChatConfig{MaxMessages: 4})
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	i := 0
	svc.now = func() time.Time { i++; return base.Add(time.Duration(i) * time.Second) }

	for _, c := range []string{"1", "2", "3", "4", "5"} {
		_, err := svc.Send(ctx, "u1", &SendRequest{TargetID: "u2", Content: c})
		require.NoError(t, err)
	}

	h, err := svc.History(ctx, "u1", "u2", 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 4, h.Total, "只保留最近的消息")
	assert.True(t, h.HasMore)
	require.Len(t, h.Messages, 3)
	assert.Equal(t, "2", h.Messages[0].Content)

	h, err = svc.History(ctx, "u1", "u2", 2, 3)
	require.NoError(t, err)
	assert.False(t, h.HasMore)
	require.Len(t, h.Messages, 1)
	assert.Equal(t, "5", h.Messages[0].Content)

	h, err = svc.History(ctx, "u1", "nobody", 1, 0)
	require.NoError(t, err)
	assert.Empty(t, h.Messages)
	assert.Equal(t, 50, h.Limit)
}

func TestMarkRead_ByIDs(t *testing.T) {
	svc := setupChatService(t, config.ChatConfig{})
	ctx := context.Background()
	_, err := svc.Send(ctx, "u1", &SendRequest{TargetID: "service", Content: "订单"})
	require.NoError(t, err)
	_, err = svc.Send(ctx, "u1", &SendRequest{TargetID: "service", Content: "退款"})
	require.NoError(t, err)
	svc.Wait()

	h, err := svc.History(ctx, "u1", "service", 1, 50)
	require.NoError(t, err)
	var replyIDs []string
	for _, m := range h.Messages {
		if m.SenderID == "service" {
			replyIDs = append(replyIDs, m.ID)
		}
	}
	require.Len(t, replyIDs, 2)

	n, err := svc.MarkRead(ctx, "u1", &ReadRequest{TargetID: "service", MessageIDs: replyIDs[:1]})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	list, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, list[0].UnreadCount)

	require.NoError(t, svc.Delete(ctx, "u1", "service"))
	require.NoError(t, svc.Delete(ctx, "u1", "service"))
	list, err = svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}
