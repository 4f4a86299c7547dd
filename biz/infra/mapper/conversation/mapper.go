package conversation

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

const (
	collection     = "conversation"
	cacheKeyPrefix = "cache:conversation:"
)

type MongoMapper interface {
	FindOrCreate(ctx context.Context, uid, ouid string) (*Conversation, error)
	FindById(ctx context.Context, cid string) (*Conversation, error)
	ApplyUpdate(ctx context.Context, cid primitive.ObjectID, update *AggregateUpdate) error
	MarkRead(ctx context.Context, cid string, readerType int32) error
	ListConversations(ctx context.Context, uid string, page *basic.Page) (cs []*Conversation, hasMore bool, err error)
	DeleteConversation(ctx context.Context, uid, cid string) error
}

type mongoMapper struct {
	conn *monc.Model
}

// NewConversationMongoMapper 集合依赖(user_id, org_unit_id)唯一索引保证幂等创建
func NewConversationMongoMapper(config *config.Config) MongoMapper {
	conn := monc.MustNewModel(config.Mongo.URL, config.Mongo.DB, collection, config.Cache)
	return &mongoMapper{conn: conn}
}

// FindOrCreate 查找或创建(uid, ouid)对应的对话
// upsert与唯一索引竞争时以重查收敛, 不向上层抛重复键错误
func (m *mongoMapper) FindOrCreate(ctx context.Context, uid, ouid string) (*Conversation, error) {
	oids, err := util.ObjectIDsFromHex(uid, ouid)
	if err != nil {
		logs.Errorf("[mapper] [conversation] [FindOrCreate] from hex err:%s", errorx.ErrorWithoutStack(err))
		return nil, err
	}
	userId, orgUnitId := oids[0], oids[1]

	now := time.Now()
	filter := bson.M{cst.UserId: userId, cst.OrgUnitId: orgUnitId, cst.Status: bson.M{cst.NE: cst.DeletedStatus}}
	update := bson.M{cst.SetOnInsert: bson.M{
		cst.Id:              primitive.NewObjectID(),
		cst.UserId:          userId,
		cst.OrgUnitId:       orgUnitId,
		cst.IsReadByUser:    true,
		cst.IsReadByOrgUnit: true,
		cst.AvgResponseTime: float64(0),
		cst.SessionsCount:   int64(0),
		cst.CreateTime:      now,
		cst.UpdateTime:      now,
		cst.Status:          int32(0),
	}}

	var c Conversation
	err = m.conn.FindOneAndUpdateNoCache(ctx, &c, filter, update,
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After))
	// 并发创建触发唯一索引时已有记录必然存在, 重查返回
	err = convergeOnDuplicate(err, func() error {
		return m.conn.FindOneNoCache(ctx, &c, filter)
	})
	if err != nil {
		logs.Errorf("[mapper] [conversation] [FindOrCreate] err:%s", errorx.ErrorWithoutStack(err))
		return nil, err
	}
	return &c, nil
}

func (m *mongoMapper) FindById(ctx context.Context, cid string) (*Conversation, error) {
	ocid, err := primitive.ObjectIDFromHex(cid)
	if err != nil {
		return nil, err
	}
	var c Conversation
	filter := bson.M{cst.Id: ocid, cst.Status: bson.M{cst.NE: cst.DeletedStatus}}
	if err = m.conn.FindOne(ctx, cacheKeyPrefix+cid, &c, filter); err != nil {
		return nil, err
	}
	return &c, nil
}

// ApplyUpdate 合并一次消息写入带来的聚合变更
// 覆盖字段进$set, 计数进$inc, 并发开启会话时计数不丢
func (m *mongoMapper) ApplyUpdate(ctx context.Context, cid primitive.ObjectID, u *AggregateUpdate) error {
	set := bson.M{
		cst.LastMessage:       u.LastMessage,
		cst.LastMessageTime:   u.LastMessageTime,
		cst.LastMessageSender: u.LastMessageSender,
		cst.IsReadByUser:      u.IsReadByUser,
		cst.IsReadByOrgUnit:   u.IsReadByOrgUnit,
		cst.UpdateTime:        time.Now(),
	}
	if u.AvgResponseTime != nil {
		set[cst.AvgResponseTime] = *u.AvgResponseTime
	}
	update := bson.M{cst.Set: set}
	if u.SessionsCountInc != 0 {
		update[cst.Inc] = bson.M{cst.SessionsCount: u.SessionsCountInc}
	}
	_, err := m.conn.UpdateOne(ctx, cacheKeyPrefix+cid.Hex(),
		bson.M{cst.Id: cid, cst.Status: bson.M{cst.NE: cst.DeletedStatus}}, update)
	if err != nil {
		logs.Errorf("[mapper] [conversation] [ApplyUpdate] err:%s", errorx.ErrorWithoutStack(err))
	}
	return err
}

// MarkRead 更新对话侧的读标记
func (m *mongoMapper) MarkRead(ctx context.Context, cid string, readerType int32) error {
	ocid, err := primitive.ObjectIDFromHex(cid)
	if err != nil {
		return err
	}
	field := cst.IsReadByUser
	if readerType == cst.SenderOrgUnit {
		field = cst.IsReadByOrgUnit
	}
	_, err = m.conn.UpdateOne(ctx, cacheKeyPrefix+cid,
		bson.M{cst.Id: ocid, cst.Status: bson.M{cst.NE: cst.DeletedStatus}},
		bson.M{cst.Set: bson.M{field: true, cst.UpdateTime: time.Now()}})
	return err
}

// ListConversations 分页查询用户对话列表, 最近消息在前
func (m *mongoMapper) ListConversations(ctx context.Context, uid string, page *basic.Page) (cs []*Conversation, hasMore bool, err error) {
	oid, err := primitive.ObjectIDFromHex(uid)
	if err != nil {
		logs.Errorf("[mapper] [conversation] [ListConversations] from hex err:%s", errorx.ErrorWithoutStack(err))
		return nil, false, err
	}

	var total int64
	opts := util.BuildFindOption(page).SetSort(bson.M{cst.LastMessageTime: -1})
	filter := bson.M{cst.UserId: oid, cst.Status: bson.M{cst.NE: cst.DeletedStatus}}
	if err = m.conn.Find(ctx, &cs, filter, opts); err != nil {
		return nil, false, err
	}
	if total, err = m.conn.CountDocuments(ctx, filter); err != nil {
		return nil, false, err
	}
	return cs, util.HasMore(total, page), err
}

// DeleteConversation 软删除, 只置状态不做物理删除
func (m *mongoMapper) DeleteConversation(ctx context.Context, uid, cid string) error {
	oids, err := util.ObjectIDsFromHex(uid, cid)
	if err != nil {
		logs.Errorf("[mapper] [conversation] [DeleteConversation] from hex err:%s", errorx.ErrorWithoutStack(err))
		return err
	}
	ouid, ocid := oids[0], oids[1]

	filter := bson.M{cst.Id: ocid, cst.UserId: ouid, cst.Status: bson.M{cst.NE: cst.DeletedStatus}}
	_, err = m.conn.UpdateOne(ctx, cacheKeyPrefix+cid, filter,
		bson.M{cst.Set: bson.M{cst.UpdateTime: time.Now(), cst.DeleteTime: time.Now(), cst.Status: cst.DeletedStatus}})
	return err
}

// convergeOnDuplicate upsert与唯一索引竞争失败时改走重查, 其余错误原样返回
func convergeOnDuplicate(err error, refetch func() error) error {
	if mongo.IsDuplicateKeyError(err) {
		return refetch()
	}
	return err
}

// IsNotFound 判断是否为未命中错误
func IsNotFound(err error) bool {
	return errors.Is(err, monc.ErrNotFound) || errors.Is(err, mongo.ErrNoDocuments)
}
