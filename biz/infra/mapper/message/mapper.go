package message

import (
	"context"
	"errors"
	"time"

	"github.com/zeromicro/go-zero/core/stores/monc"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/scholarbee/admissions-core-api/biz/application/dto/basic"
	"github.com/scholarbee/admissions-core-api/biz/infra/config"
	"github.com/scholarbee/admissions-core-api/biz/infra/cst"
	"github.com/scholarbee/admissions-core-api/biz/infra/util"
	"github.com/scholarbee/admissions-core-api/pkg/errorx"
	"github.com/scholarbee/admissions-core-api/pkg/logs"
)

var _ MongoMapper = (*mongoMapper)(nil)

const collection = "message"

var (
	// 锚点取最新, 创建时间倒序, 同时刻以_id倒序决断
	latestTaggedSort = bson.D{{Key: cst.CreateTime, Value: -1}, {Key: cst.Id, Value: -1}}
	// 发起者取最早, 正序同理
	sessionOpenerSort = bson.D{{Key: cst.CreateTime, Value: 1}, {Key: cst.Id, Value: 1}}
)

type MongoMapper interface {
	InsertOne(ctx context.Context, msg *Message) error
	FindLatestTagged(ctx context.Context, conversationId primitive.ObjectID) (*Message, error)
	FindSessionOpener(ctx context.Context, conversationId, sessionId primitive.ObjectID) (*Message, error)
	CountSessionMessages(ctx context.Context, conversationId, sessionId primitive.ObjectID, senderType int32) (int64, error)
	ListMessage(ctx context.Context, conversation string, page *basic.Page) (msgs []*Message, hasMore bool, err error)
	MarkRead(ctx context.Context, conversationId primitive.ObjectID, readerType int32) error
}

type mongoMapper struct {
	conn *monc.Model
}

func NewMessageMongoMapper(config *config.Config) MongoMapper {
	conn := monc.MustNewModel(config.Mongo.URL, config.Mongo.DB, collection, config.Cache)
	return &mongoMapper{conn: conn}
}

// InsertOne 插入一条msg, 消息只追加不缓存
func (m *mongoMapper) InsertOne(ctx context.Context, msg *Message) error {
	_, err := m.conn.InsertOneNoCache(ctx, msg)
	return err
}

// FindLatestTagged 取对话内带会话标记的最新一条消息(锚点)
// 按创建时间倒序, 同时刻以_id倒序决断, 无命中返回nil
func (m *mongoMapper) FindLatestTagged(ctx context.Context, conversationId primitive.ObjectID) (*Message, error) {
	filter := bson.M{
		cst.ConversationId: conversationId,
		cst.SessionId:      bson.M{cst.Exists: true, cst.NE: primitive.NilObjectID},
		cst.Status:         bson.M{cst.NE: cst.DeletedStatus},
	}
	opts := options.FindOne().SetSort(latestTaggedSort)
	var msg Message
	if err := m.conn.FindOneNoCache(ctx, &msg, filter, opts); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		logs.Errorf("[mapper] [message] [FindLatestTagged] err:%s", errorx.ErrorWithoutStack(err))
		return nil, err
	}
	return &msg, nil
}

// FindSessionOpener 取会话内最早的用户消息(会话发起者)
// 会话只能由用户消息开启, 无命中向上抛ErrNotFound, 由调用方按数据损坏处理
func (m *mongoMapper) FindSessionOpener(ctx context.Context, conversationId, sessionId primitive.ObjectID) (*Message, error) {
	filter := bson.M{
		cst.ConversationId: conversationId,
		cst.SessionId:      sessionId,
		cst.SenderType:     cst.SenderUser,
		cst.Status:         bson.M{cst.NE: cst.DeletedStatus},
	}
	opts := options.FindOne().SetSort(sessionOpenerSort)
	var msg Message
	if err := m.conn.FindOneNoCache(ctx, &msg, filter, opts); err != nil {
		return nil, err
	}
	return &msg, nil
}

// CountSessionMessages 统计会话内指定发送方的消息数
func (m *mongoMapper) CountSessionMessages(ctx context.Context, conversationId, sessionId primitive.ObjectID, senderType int32) (int64, error) {
	filter := bson.M{
		cst.ConversationId: conversationId,
		cst.SessionId:      sessionId,
		cst.SenderType:     senderType,
		cst.Status:         bson.M{cst.NE: cst.DeletedStatus},
	}
	return m.conn.CountDocuments(ctx, filter)
}

// ListMessage 游标分页获取Message, 最新在前
func (m *mongoMapper) ListMessage(ctx context.Context, conversation string, page *basic.Page) (msgs []*Message, hasMore bool, err error) {
	ocid, err := primitive.ObjectIDFromHex(conversation)
	if err != nil {
		return nil, false, err
	}
	opts := options.Find().SetSort(bson.M{cst.Id: -1}).SetLimit(page.GetSize() + 1)
	filter := bson.M{cst.ConversationId: ocid, cst.Status: bson.M{cst.NE: cst.DeletedStatus}}
	if page != nil && page.Cursor != nil { // 创建时间更小的
		cursor, err := primitive.ObjectIDFromHex(*page.Cursor)
		if err != nil {
			return nil, false, err
		}
		filter[cst.Id] = bson.M{cst.LT: cursor}
	}
	if err = m.conn.Find(ctx, &msgs, filter, opts); err != nil {
		logs.Errorf("[mapper] [message] [ListMessage] err:%s", errorx.ErrorWithoutStack(err))
		return nil, false, err
	}
	msgs, hasMore = util.SplitAndHasMore(msgs, page)
	return msgs, hasMore, err
}

// IsNotFound 判断是否为未命中错误
func IsNotFound(err error) bool {
	return errors.Is(err, monc.ErrNotFound) || errors.Is(err, mongo.ErrNoDocuments)
}

// MarkRead 将对话内对方发出的消息全部置为已读
func (m *mongoMapper) MarkRead(ctx context.Context, conversationId primitive.ObjectID, readerType int32) error {
	other, field := cst.SenderOrgUnit, cst.IsReadByUser
	if readerType == cst.SenderOrgUnit {
		other, field = cst.SenderUser, cst.IsReadByOrgUnit
	}
	filter := bson.M{
		cst.ConversationId: conversationId,
		cst.SenderType:     other,
		field:              false,
		cst.Status:         bson.M{cst.NE: cst.DeletedStatus},
	}
	if _, err := m.conn.UpdateManyNoCache(ctx, filter,
		bson.M{cst.Set: bson.M{field: true, cst.UpdateTime: time.Now()}}); err != nil {
		logs.Errorf("[mapper] [message] [MarkRead] err:%s", errorx.ErrorWithoutStack(err))
		return err
	}
	return nil
}
