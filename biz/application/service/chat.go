package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/wire"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/scholarbee/admissions-core-api/biz/application/dto/chat_api"
	"github.com/scholarbee/admissions-core-api/biz/domain/chatsession"
	"github.com/scholarbee/admissions-core-api/biz/infra/cst"
	"github.com/scholarbee/admissions-core-api/biz/infra/mapper/conversation"
	mmsg "github.com/scholarbee/admissions-core-api/biz/infra/mapper/message"
	"github.com/scholarbee/admissions-core-api/biz/infra/mapper/orgunit"
	"github.com/scholarbee/admissions-core-api/biz/infra/mapper/user"
	"github.com/scholarbee/admissions-core-api/biz/infra/util"
	"github.com/scholarbee/admissions-core-api/pkg/ac"
	"github.com/scholarbee/admissions-core-api/pkg/errorx"
	"github.com/scholarbee/admissions-core-api/pkg/logs"
	"github.com/scholarbee/admissions-core-api/types/errno"
)

type IChatService interface {
	CreateConversation(ctx context.Context, uid string, req *chat_api.CreateConversationReq) (*chat_api.CreateConversationResp, error)
	CreateMessage(ctx context.Context, uid string, req *chat_api.CreateMessageReq) (*chat_api.CreateMessageResp, error)
	ListMessage(ctx context.Context, req *chat_api.ListMessageReq) (*chat_api.ListMessageResp, error)
	ListConversation(ctx context.Context, uid string, req *chat_api.ListConversationReq) (*chat_api.ListConversationResp, error)
	MarkRead(ctx context.Context, req *chat_api.MarkReadReq) (*chat_api.MarkReadResp, error)
	DeleteConversation(ctx context.Context, uid string, req *chat_api.DeleteConversationReq) (*chat_api.DeleteConversationResp, error)
}

type ChatService struct {
	ConversationMapper conversation.MongoMapper
	MessageMapper      mmsg.MongoMapper
	UserMapper         user.MongoMapper
	OrgUnitMapper      orgunit.MongoMapper
	Tracker            *chatsession.Tracker
}

var ChatServiceSet = wire.NewSet(
	wire.Struct(new(ChatService), "*"),
	wire.Bind(new(IChatService), new(*ChatService)),
)

// CreateConversation 获取或创建用户与机构间的对话, 幂等
func (s *ChatService) CreateConversation(ctx context.Context, uid string, req *chat_api.CreateConversationReq) (*chat_api.CreateConversationResp, error) {
	if _, err := util.ObjectIDsFromHex(uid, req.OrgUnitId); err != nil {
		return nil, errorx.WrapByCode(err, errno.OIDErrCode)
	}

	c, err := s.ConversationMapper.FindOrCreate(ctx, uid, req.OrgUnitId)
	if err != nil {
		logs.Errorf("create conversation error: %s", errorx.ErrorWithoutStack(err))
		return nil, errorx.WrapByCode(err, errno.ChatConversationCreateErrCode)
	}
	return &chat_api.CreateConversationResp{Resp: util.Success(), Conversation: toConversationView(c)}, nil
}

// CreateMessage 消息创建编排
// 取一次now贯穿会话判定与落库, 消息插入与聚合更新是两次写, 崩溃间隙只丢统计
func (s *ChatService) CreateMessage(ctx context.Context, uid string, req *chat_api.CreateMessageReq) (*chat_api.CreateMessageResp, error) {
	senderType, ok := mmsg.SenderStoI[req.SenderType]
	if !ok {
		return nil, errorx.New(errno.ParamErrCode, errorx.KV("sender_type", req.SenderType))
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, errorx.New(errno.ChatMessageInvalidErrCode)
	}
	if hit, words := ac.Screen(content); hit {
		return nil, errorx.New(errno.ChatSensitiveErrCode, errorx.KV("words", strings.Join(words, ",")))
	}
	oids, err := util.ObjectIDsFromHex(uid, req.ConversationId)
	if err != nil {
		return nil, errorx.WrapByCode(err, errno.OIDErrCode)
	}
	actorId := oids[0]

	conv, err := s.ConversationMapper.FindById(ctx, req.ConversationId)
	if err != nil {
		if conversation.IsNotFound(err) {
			return nil, errorx.WrapByCode(err, errno.ChatConversationNotFoundErrCode)
		}
		logs.Errorf("find conversation error: %s", errorx.ErrorWithoutStack(err))
		return nil, errorx.WrapByCode(err, errno.ChatMessageCreateErrCode)
	}

	now := time.Now()
	res, err := s.Tracker.Resolve(ctx, conv, senderType, now)
	if err != nil {
		// 会话判定失败原样上抛, 不做兜底
		logs.Errorf("resolve session error: %s", errorx.ErrorWithoutStack(err))
		return nil, err
	}

	// org_unit消息以机构身份发出, 实际操作的员工单独记录
	senderId, repliedBy := actorId, primitive.NilObjectID
	if senderType == cst.SenderOrgUnit {
		senderId, repliedBy = conv.OrgUnitId, actorId
	}

	msg := &mmsg.Message{
		MessageId:       primitive.NewObjectID(),
		ConversationId:  conv.ConversationId,
		SenderId:        senderId,
		SenderType:      senderType,
		RepliedByUserId: repliedBy,
		Content:         content,
		Attachments:     req.Attachments,
		SessionId:       res.SessionId,
		IsReadByUser:    senderType == cst.SenderUser,
		IsReadByOrgUnit: senderType == cst.SenderOrgUnit,
		CreateTime:      now,
		UpdateTime:      now,
	}
	if err = s.MessageMapper.InsertOne(ctx, msg); err != nil {
		logs.Errorf("insert message error: %s", errorx.ErrorWithoutStack(err))
		return nil, errorx.WrapByCode(err, errno.ChatMessageCreateErrCode)
	}

	update := &conversation.AggregateUpdate{
		LastMessage:       content,
		LastMessageTime:   now,
		LastMessageSender: senderType,
		IsReadByUser:      senderType == cst.SenderUser,
		IsReadByOrgUnit:   senderType == cst.SenderOrgUnit,
		AvgResponseTime:   res.Update.AvgResponseTime,
		SessionsCountInc:  res.Update.SessionsCountInc,
	}
	if err = s.ConversationMapper.ApplyUpdate(ctx, conv.ConversationId, update); err != nil {
		logs.Errorf("apply conversation update error: %s", errorx.ErrorWithoutStack(err))
		return nil, errorx.WrapByCode(err, errno.ChatMessageCreateErrCode)
	}

	return &chat_api.CreateMessageResp{Resp: util.Success(), Message: toMessageView(msg)}, nil
}

// ListMessage 分页获取消息记录, 最新在前, 发送方展示信息由目录补全
func (s *ChatService) ListMessage(ctx context.Context, req *chat_api.ListMessageReq) (*chat_api.ListMessageResp, error) {
	msgs, hasMore, err := s.MessageMapper.ListMessage(ctx, req.ConversationId, req.GetPage())
	if err != nil {
		logs.Errorf("list message error: %s", errorx.ErrorWithoutStack(err))
		return nil, errorx.WrapByCode(err, errno.ChatMessageListErrCode)
	}

	items := make([]*chat_api.Message, len(msgs))
	// 同一发送方只查一次目录, 目录缺失不阻断列表
	names, avatars := map[string]string{}, map[string]string{}
	for i, msg := range msgs {
		item := toMessageView(msg)
		sid := msg.SenderId.Hex()
		if _, ok := names[sid]; !ok {
			names[sid], avatars[sid] = s.senderDetails(ctx, msg.SenderType, sid)
		}
		item.SenderName, item.SenderAvatar = names[sid], avatars[sid]
		items[i] = item
	}

	resp := &chat_api.ListMessageResp{Resp: util.Success(), Messages: items, HasMore: hasMore}
	if len(msgs) > 0 {
		resp.Cursor = msgs[len(msgs)-1].MessageId.Hex()
	}
	return resp, nil
}

func (s *ChatService) senderDetails(ctx context.Context, senderType int32, senderId string) (name, avatar string) {
	if senderType == cst.SenderOrgUnit {
		ou, err := s.OrgUnitMapper.FindById(ctx, senderId)
		if err != nil {
			logs.Errorf("find org unit %s error: %s", senderId, errorx.ErrorWithoutStack(err))
			return "", ""
		}
		return ou.Name, ou.Logo
	}
	u, err := s.UserMapper.FindById(ctx, senderId)
	if err != nil {
		logs.Errorf("find user %s error: %s", senderId, errorx.ErrorWithoutStack(err))
		return "", ""
	}
	return u.Name, u.Avatar
}

// ListConversation 分页获取用户的对话列表
func (s *ChatService) ListConversation(ctx context.Context, uid string, req *chat_api.ListConversationReq) (*chat_api.ListConversationResp, error) {
	cs, hasMore, err := s.ConversationMapper.ListConversations(ctx, uid, req.GetPage())
	if err != nil {
		logs.Errorf("list conversation error: %s", errorx.ErrorWithoutStack(err))
		return nil, errorx.WrapByCode(err, errno.ChatConversationListErrCode)
	}
	items := make([]*chat_api.Conversation, len(cs))
	for i, c := range cs {
		items[i] = toConversationView(c)
	}
	return &chat_api.ListConversationResp{Resp: util.Success(), Conversations: items, HasMore: hasMore}, nil
}

// MarkRead 将对方消息全部置为已读, 并更新对话侧读标记
func (s *ChatService) MarkRead(ctx context.Context, req *chat_api.MarkReadReq) (*chat_api.MarkReadResp, error) {
	readerType, ok := mmsg.SenderStoI[req.ReaderType]
	if !ok {
		return nil, errorx.New(errno.ParamErrCode, errorx.KV("reader_type", req.ReaderType))
	}
	oids, err := util.ObjectIDsFromHex(req.ConversationId)
	if err != nil {
		return nil, errorx.WrapByCode(err, errno.OIDErrCode)
	}

	if err = s.MessageMapper.MarkRead(ctx, oids[0], readerType); err != nil {
		return nil, errorx.WrapByCode(err, errno.ChatMarkReadErrCode)
	}
	if err = s.ConversationMapper.MarkRead(ctx, req.ConversationId, readerType); err != nil {
		return nil, errorx.WrapByCode(err, errno.ChatMarkReadErrCode)
	}
	return &chat_api.MarkReadResp{Resp: util.Success()}, nil
}

func (s *ChatService) DeleteConversation(ctx context.Context, uid string, req *chat_api.DeleteConversationReq) (*chat_api.DeleteConversationResp, error) {
	if err := s.ConversationMapper.DeleteConversation(ctx, uid, req.ConversationId); err != nil {
		logs.Errorf("delete conversation error: %s", errorx.ErrorWithoutStack(err))
		return nil, errorx.WrapByCode(err, errno.ChatConversationDeleteErrCode)
	}
	return &chat_api.DeleteConversationResp{Resp: util.Success()}, nil
}

func toConversationView(c *conversation.Conversation) *chat_api.Conversation {
	return &chat_api.Conversation{
		ConversationId:    c.ConversationId.Hex(),
		UserId:            c.UserId.Hex(),
		OrgUnitId:         c.OrgUnitId.Hex(),
		LastMessage:       c.LastMessage,
		LastMessageTime:   c.LastMessageTime.Unix(),
		LastMessageSender: mmsg.SenderItoS[c.LastMessageSender],
		IsReadByUser:      c.IsReadByUser,
		IsReadByOrgUnit:   c.IsReadByOrgUnit,
		AvgResponseTime:   c.AvgResponseTime,
		SessionsCount:     c.SessionsCount,
		CreateTime:        c.CreateTime.Unix(),
		UpdateTime:        c.UpdateTime.Unix(),
	}
}

func toMessageView(m *mmsg.Message) *chat_api.Message {
	v := &chat_api.Message{
		MessageId:       m.MessageId.Hex(),
		ConversationId:  m.ConversationId.Hex(),
		SenderId:        m.SenderId.Hex(),
		SenderType:      mmsg.SenderItoS[m.SenderType],
		Content:         m.Content,
		Attachments:     m.Attachments,
		IsReadByUser:    m.IsReadByUser,
		IsReadByOrgUnit: m.IsReadByOrgUnit,
		CreateTime:      m.CreateTime.Unix(),
	}
	if !m.SessionId.IsZero() {
		v.SessionId = m.SessionId.Hex()
	}
	if !m.RepliedByUserId.IsZero() {
		v.RepliedByUserId = m.RepliedByUserId.Hex()
	}
	return v
}
