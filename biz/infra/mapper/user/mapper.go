package user

import (
	"context"

	"github.com/zeromicro/go-zero/core/stores/monc"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/scholarbee/admissions-core-api/biz/infra/config"
	"github.com/scholarbee/admissions-core-api/biz/infra/cst"
)

var _ MongoMapper = (*mongoMapper)(nil)

const (
	collection     = "user"
	cacheKeyPrefix = "cache:user:"
)

// MongoMapper 用户目录, 消息列表用它补全发送方信息
type MongoMapper interface {
	FindById(ctx context.Context, id string) (*User, error)
}

type mongoMapper struct {
	conn *monc.Model
}

func NewUserMongoMapper(config *config.Config) MongoMapper {
	conn := monc.MustNewModel(config.Mongo.URL, config.Mongo.DB, collection, config.Cache)
	return &mongoMapper{conn: conn}
}

func (m *mongoMapper) FindById(ctx context.Context, id string) (*User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var u User
	if err = m.conn.FindOne(ctx, cacheKeyPrefix+id, &u, bson.M{cst.Id: oid}); err != nil {
		return nil, err
	}
	return &u, nil
}
