package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeromicro/go-zero/core/stores/monc"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/scholarbee/admissions-core-api/biz/application/dto/basic"
	"github.com/scholarbee/admissions-core-api/biz/application/dto/chat_api"
	"github.com/scholarbee/admissions-core-api/biz/domain/chatsession"
	"github.com/scholarbee/admissions-core-api/biz/infra/config"
	"github.com/scholarbee/admissions-core-api/biz/infra/cst"
	"github.com/scholarbee/admissions-core-api/biz/infra/mapper/conversation"
	mmsg "github.com/scholarbee/admissions-core-api/biz/infra/mapper/message"
	"github.com/scholarbee/admissions-core-api/biz/infra/mapper/orgunit"
	"github.com/scholarbee/admissions-core-api/biz/infra/mapper/user"
	"github.com/scholarbee/admissions-core-api/pkg/ac"
	"github.com/scholarbee/admissions-core-api/pkg/errorx"
	"github.com/scholarbee/admissions-core-api/types/errno"
)

type fakeConversations struct {
	conv    *conversation.Conversation
	findErr error
	applied *conversation.AggregateUpdate
	marked  []int32
	deleted bool
}

func (f *fakeConversations) FindOrCreate(_ context.Context, _, _ string) (*conversation.Conversation, error) {
	return f.conv, f.findErr
}

func (f *fakeConversations) FindById(_ context.Context, _ string) (*conversation.Conversation, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.conv, nil
}

func (f *fakeConversations) ApplyUpdate(_ context.Context, _ primitive.ObjectID, u *conversation.AggregateUpdate) error {
	f.applied = u
	return nil
}

func (f *fakeConversations) MarkRead(_ context.Context, _ string, readerType int32) error {
	f.marked = append(f.marked, readerType)
	return nil
}

func (f *fakeConversations) ListConversations(_ context.Context, _ string, _ *basic.Page) ([]*conversation.Conversation, bool, error) {
	return []*conversation.Conversation{f.conv}, false, nil
}

func (f *fakeConversations) DeleteConversation(_ context.Context, _, _ string) error {
	f.deleted = true
	return nil
}

type fakeMessages struct {
	anchor   *mmsg.Message
	opener   *mmsg.Message
	replies  int64
	list     []*mmsg.Message
	inserted *mmsg.Message
	marked   []int32
}

func (f *fakeMessages) InsertOne(_ context.Context, msg *mmsg.Message) error {
	f.inserted = msg
	return nil
}

func (f *fakeMessages) FindLatestTagged(_ context.Context, _ primitive.ObjectID) (*mmsg.Message, error) {
	return f.anchor, nil
}

func (f *fakeMessages) FindSessionOpener(_ context.Context, _, _ primitive.ObjectID) (*mmsg.Message, error) {
	if f.opener == nil {
		return nil, monc.ErrNotFound
	}
	return f.opener, nil
}

func (f *fakeMessages) CountSessionMessages(_ context.Context, _, _ primitive.ObjectID, _ int32) (int64, error) {
	return f.replies, nil
}

func (f *fakeMessages) ListMessage(_ context.Context, _ string, _ *basic.Page) ([]*mmsg.Message, bool, error) {
	return f.list, false, nil
}

func (f *fakeMessages) MarkRead(_ context.Context, _ primitive.ObjectID, readerType int32) error {
	f.marked = append(f.marked, readerType)
	return nil
}

type fakeUsers struct{ u *user.User }

func (f *fakeUsers) FindById(_ context.Context, _ string) (*user.User, error) {
	if f.u == nil {
		return nil, monc.ErrNotFound
	}
	return f.u, nil
}

type fakeOrgUnits struct{ ou *orgunit.OrgUnit }

func (f *fakeOrgUnits) FindById(_ context.Context, _ string) (*orgunit.OrgUnit, error) {
	if f.ou == nil {
		return nil, monc.ErrNotFound
	}
	return f.ou, nil
}

func newTestService(convs *fakeConversations, msgs *fakeMessages) *ChatService {
	cfg := &config.Config{}
	cfg.Chat.SessionTimeoutMs = 3600000
	return &ChatService{
		ConversationMapper: convs,
		MessageMapper:      msgs,
		UserMapper:         &fakeUsers{},
		OrgUnitMapper:      &fakeOrgUnits{},
		Tracker:            chatsession.NewTracker(cfg, msgs),
	}
}

func newTestConversation() *conversation.Conversation {
	return &conversation.Conversation{
		ConversationId: primitive.NewObjectID(),
		UserId:         primitive.NewObjectID(),
		OrgUnitId:      primitive.NewObjectID(),
		SessionsCount:  1,
	}
}

func statusCode(t *testing.T, err error) int32 {
	t.Helper()
	var statusErr errorx.StatusError
	require.ErrorAs(t, err, &statusErr)
	return statusErr.Code()
}

func TestCreateMessageUserOpensNewSession(t *testing.T) {
	conv := newTestConversation()
	convs := &fakeConversations{conv: conv}
	msgs := &fakeMessages{}
	svc := newTestService(convs, msgs)

	resp, err := svc.CreateMessage(context.Background(), conv.UserId.Hex(), &chat_api.CreateMessageReq{
		ConversationId: conv.ConversationId.Hex(),
		SenderType:     cst.User,
		Content:        "你们的王牌专业是什么?",
	})
	require.NoError(t, err)

	require.NotNil(t, msgs.inserted)
	assert.Equal(t, conv.UserId, msgs.inserted.SenderId)
	assert.True(t, msgs.inserted.RepliedByUserId.IsZero())
	assert.False(t, msgs.inserted.SessionId.IsZero())
	assert.True(t, msgs.inserted.IsReadByUser)
	assert.False(t, msgs.inserted.IsReadByOrgUnit)

	require.NotNil(t, convs.applied)
	assert.Equal(t, int64(1), convs.applied.SessionsCountInc)
	assert.Nil(t, convs.applied.AvgResponseTime)
	assert.True(t, convs.applied.IsReadByUser)
	assert.False(t, convs.applied.IsReadByOrgUnit)
	assert.Equal(t, cst.User, resp.Message.SenderType)
	assert.Equal(t, msgs.inserted.SessionId.Hex(), resp.Message.SessionId)
}

func TestCreateMessageOrgUnitFirstReply(t *testing.T) {
	conv := newTestConversation()
	sid := primitive.NewObjectID()
	now := time.Now()
	convs := &fakeConversations{conv: conv}
	msgs := &fakeMessages{
		anchor: &mmsg.Message{SessionId: sid, CreateTime: now.Add(-time.Minute)},
		opener: &mmsg.Message{SessionId: sid, CreateTime: now.Add(-5 * time.Second)},
	}
	svc := newTestService(convs, msgs)

	staff := primitive.NewObjectID()
	resp, err := svc.CreateMessage(context.Background(), staff.Hex(), &chat_api.CreateMessageReq{
		ConversationId: conv.ConversationId.Hex(),
		SenderType:     cst.OrgUnit,
		Content:        "计算机科学与技术",
	})
	require.NoError(t, err)

	// 机构消息以机构身份发出, 经办员工单独记录
	require.NotNil(t, msgs.inserted)
	assert.Equal(t, conv.OrgUnitId, msgs.inserted.SenderId)
	assert.Equal(t, staff, msgs.inserted.RepliedByUserId)
	assert.Equal(t, sid, msgs.inserted.SessionId)
	assert.False(t, msgs.inserted.IsReadByUser)
	assert.True(t, msgs.inserted.IsReadByOrgUnit)

	require.NotNil(t, convs.applied)
	require.NotNil(t, convs.applied.AvgResponseTime)
	assert.InDelta(t, 5000, *convs.applied.AvgResponseTime, 100)
	assert.Zero(t, convs.applied.SessionsCountInc)
	assert.Equal(t, staff.Hex(), resp.Message.RepliedByUserId)
}

func TestCreateMessageSecondReplyKeepsAverage(t *testing.T) {
	conv := newTestConversation()
	sid := primitive.NewObjectID()
	convs := &fakeConversations{conv: conv}
	msgs := &fakeMessages{
		anchor:  &mmsg.Message{SessionId: sid, CreateTime: time.Now().Add(-time.Minute)},
		replies: 1,
	}
	svc := newTestService(convs, msgs)

	_, err := svc.CreateMessage(context.Background(), primitive.NewObjectID().Hex(), &chat_api.CreateMessageReq{
		ConversationId: conv.ConversationId.Hex(),
		SenderType:     cst.OrgUnit,
		Content:        "还有什么想了解的吗?",
	})
	require.NoError(t, err)
	require.NotNil(t, convs.applied)
	assert.Nil(t, convs.applied.AvgResponseTime)
	assert.Equal(t, sid, msgs.inserted.SessionId)
}

func TestCreateMessageRejectsUnknownSenderType(t *testing.T) {
	svc := newTestService(&fakeConversations{}, &fakeMessages{})
	_, err := svc.CreateMessage(context.Background(), primitive.NewObjectID().Hex(), &chat_api.CreateMessageReq{
		ConversationId: primitive.NewObjectID().Hex(),
		SenderType:     "bot",
		Content:        "hi",
	})
	assert.Equal(t, int32(errno.ParamErrCode), statusCode(t, err))
}

func TestCreateMessageRejectsBlankContent(t *testing.T) {
	svc := newTestService(&fakeConversations{}, &fakeMessages{})
	_, err := svc.CreateMessage(context.Background(), primitive.NewObjectID().Hex(), &chat_api.CreateMessageReq{
		ConversationId: primitive.NewObjectID().Hex(),
		SenderType:     cst.User,
		Content:        "   ",
	})
	assert.Equal(t, int32(errno.ChatMessageInvalidErrCode), statusCode(t, err))
}

func TestCreateMessageScreensBlockedWords(t *testing.T) {
	require.NoError(t, ac.Build([]string{"内部指标"}))
	t.Cleanup(func() { _ = ac.Build(nil) })
	svc := newTestService(&fakeConversations{}, &fakeMessages{})
	_, err := svc.CreateMessage(context.Background(), primitive.NewObjectID().Hex(), &chat_api.CreateMessageReq{
		ConversationId: primitive.NewObjectID().Hex(),
		SenderType:     cst.User,
		Content:        "能不能走内部指标?",
	})
	assert.Equal(t, int32(errno.ChatSensitiveErrCode), statusCode(t, err))
}

func TestCreateMessageConversationNotFound(t *testing.T) {
	svc := newTestService(&fakeConversations{findErr: monc.ErrNotFound}, &fakeMessages{})
	_, err := svc.CreateMessage(context.Background(), primitive.NewObjectID().Hex(), &chat_api.CreateMessageReq{
		ConversationId: primitive.NewObjectID().Hex(),
		SenderType:     cst.User,
		Content:        "hello",
	})
	assert.Equal(t, int32(errno.ChatConversationNotFoundErrCode), statusCode(t, err))
}

func TestCreateConversationRejectsMalformedId(t *testing.T) {
	svc := newTestService(&fakeConversations{}, &fakeMessages{})
	_, err := svc.CreateConversation(context.Background(), "not-a-hex", &chat_api.CreateConversationReq{
		OrgUnitId: primitive.NewObjectID().Hex(),
	})
	assert.Equal(t, int32(errno.OIDErrCode), statusCode(t, err))
}

func TestListMessageFillsSenderDetails(t *testing.T) {
	conv := newTestConversation()
	sender := primitive.NewObjectID()
	msgs := &fakeMessages{list: []*mmsg.Message{
		{MessageId: primitive.NewObjectID(), ConversationId: conv.ConversationId, SenderId: sender, SenderType: cst.SenderUser, Content: "在吗"},
		{MessageId: primitive.NewObjectID(), ConversationId: conv.ConversationId, SenderId: sender, SenderType: cst.SenderUser, Content: "招生办电话多少"},
	}}
	svc := newTestService(&fakeConversations{conv: conv}, msgs)
	svc.UserMapper = &fakeUsers{u: &user.User{ID: sender, Name: "张三", Avatar: "https://cdn.example.com/a.png"}}

	resp, err := svc.ListMessage(context.Background(), &chat_api.ListMessageReq{ConversationId: conv.ConversationId.Hex()})
	require.NoError(t, err)
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, "张三", resp.Messages[0].SenderName)
	assert.Equal(t, "https://cdn.example.com/a.png", resp.Messages[1].SenderAvatar)
	assert.Equal(t, msgs.list[1].MessageId.Hex(), resp.Cursor)
}

func TestMarkReadUpdatesBothSides(t *testing.T) {
	conv := newTestConversation()
	convs := &fakeConversations{conv: conv}
	msgs := &fakeMessages{}
	svc := newTestService(convs, msgs)

	_, err := svc.MarkRead(context.Background(), &chat_api.MarkReadReq{
		ConversationId: conv.ConversationId.Hex(),
		ReaderType:     cst.OrgUnit,
	})
	require.NoError(t, err)
	assert.Equal(t, []int32{cst.SenderOrgUnit}, msgs.marked)
	assert.Equal(t, []int32{cst.SenderOrgUnit}, convs.marked)
}

func TestDeleteConversation(t *testing.T) {
	conv := newTestConversation()
	convs := &fakeConversations{conv: conv}
	svc := newTestService(convs, &fakeMessages{})

	_, err := svc.DeleteConversation(context.Background(), conv.UserId.Hex(), &chat_api.DeleteConversationReq{
		ConversationId: conv.ConversationId.Hex(),
	})
	require.NoError(t, err)
	assert.True(t, convs.deleted)
}
