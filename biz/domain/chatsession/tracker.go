package chatsession

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/scholarbee/admissions-core-api/biz/infra/config"
	"github.com/scholarbee/admissions-core-api/biz/infra/cst"
	"github.com/scholarbee/admissions-core-api/biz/infra/mapper/conversation"
	"github.com/scholarbee/admissions-core-api/biz/infra/mapper/message"
	"github.com/scholarbee/admissions-core-api/pkg/errorx"
	"github.com/scholarbee/admissions-core-api/types/errno"
)

// 会话追踪
// 会话由用户消息开启, 距最近一条带标记的消息超过超时窗口即失效
// 首条机构回复结算该会话的响应时长, 以递推公式增量维护均值, 不存逐会话历史

const defaultSessionTimeout = time.Hour

// MessageReader 会话判定所需的最小消息读取能力
type MessageReader interface {
	FindLatestTagged(ctx context.Context, conversationId primitive.ObjectID) (*message.Message, error)
	FindSessionOpener(ctx context.Context, conversationId, sessionId primitive.ObjectID) (*message.Message, error)
	CountSessionMessages(ctx context.Context, conversationId, sessionId primitive.ObjectID, senderType int32) (int64, error)
}

// ConversationUpdate 需要合并进对话聚合的变更, 零值表示无变更
type ConversationUpdate struct {
	AvgResponseTime  *float64 // 非nil时覆盖
	SessionsCountInc int64    // 非0时自增
}

// Resolution 一次会话判定的结果
// SessionId为零值时表示这条消息无会话可挂(从未有过会话时的机构消息)
type Resolution struct {
	SessionId primitive.ObjectID
	Update    ConversationUpdate
}

type Tracker struct {
	messages MessageReader
	config   *config.Config
}

func NewTracker(config *config.Config, messages MessageReader) *Tracker {
	return &Tracker{messages: messages, config: config}
}

// sessionTimeout 每次判定都重读配置, 超时窗口允许运行中调整
func (t *Tracker) sessionTimeout() time.Duration {
	if ms := t.config.Chat.SessionTimeoutMs; ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultSessionTimeout
}

// Resolve 判定消息归属的会话并给出聚合变更, 只读不写, 写入由调用方完成
// at是这条消息将要落库的创建时间, 调用方取now后须全程复用同一时刻
func (t *Tracker) Resolve(ctx context.Context, conv *conversation.Conversation, senderType int32, at time.Time) (*Resolution, error) {
	anchor, err := t.messages.FindLatestTagged(ctx, conv.ConversationId)
	if err != nil {
		return nil, err
	}

	sessionValid := anchor != nil && at.Sub(anchor.CreateTime) < t.sessionTimeout()
	sessionId := primitive.NilObjectID
	if anchor != nil {
		sessionId = anchor.SessionId
	}

	switch {
	case sessionValid && senderType == cst.SenderOrgUnit:
		return t.scoreReply(ctx, conv, sessionId, at)
	case !sessionValid && senderType == cst.SenderUser:
		// 开启新会话, 计数即时自增, 响应均值等首条回复时结算
		return &Resolution{
			SessionId: primitive.NewObjectID(),
			Update:    ConversationUpdate{SessionsCountInc: 1},
		}, nil
	default:
		// 会话有效期内的用户追问, 或无会话可挂的机构消息: 不改会话状态
		return &Resolution{SessionId: sessionId}, nil
	}
}

// scoreReply 处理会话有效期内的机构回复
// 只有会话的首条机构回复参与响应时长结算, 后续回复仅沿用会话标记
func (t *Tracker) scoreReply(ctx context.Context, conv *conversation.Conversation, sessionId primitive.ObjectID, at time.Time) (*Resolution, error) {
	replies, err := t.messages.CountSessionMessages(ctx, conv.ConversationId, sessionId, cst.SenderOrgUnit)
	if err != nil {
		return nil, err
	}
	if replies > 0 {
		return &Resolution{SessionId: sessionId}, nil
	}

	opener, err := t.messages.FindSessionOpener(ctx, conv.ConversationId, sessionId)
	if err != nil {
		if !message.IsNotFound(err) {
			return nil, err
		}
		// 会话只能由用户消息开启, 找不到发起者说明数据损坏, 上抛不兜底
		return nil, errorx.WrapByCode(err, errno.ChatSessionCorruptErrCode,
			errorx.KV("session_id", sessionId.Hex()), errorx.KV("conversation_id", conv.ConversationId.Hex()))
	}

	current := float64(at.Sub(opener.CreateTime).Milliseconds())
	newAvg := current
	if conv.AvgResponseTime > 0 && conv.SessionsCount > 0 {
		// 当前会话在开启时已计数, 递推时先剔除
		prior := float64(conv.SessionsCount - 1)
		newAvg = (conv.AvgResponseTime*prior + current) / float64(conv.SessionsCount)
	}
	return &Resolution{
		SessionId: sessionId,
		Update:    ConversationUpdate{AvgResponseTime: &newAvg},
	}, nil
}
