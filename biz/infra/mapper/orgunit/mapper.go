package orgunit

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
	collection     = "org_unit"
	cacheKeyPrefix = "cache:org_unit:"
)

// MongoMapper 机构目录, 消息列表用它补全发送方信息
type MongoMapper interface {
	FindById(ctx context.Context, id string) (*OrgUnit, error)
}

type mongoMapper struct {
	conn *monc.Model
}

func NewOrgUnitMongoMapper(config *config.Config) MongoMapper {
	conn := monc.MustNewModel(config.Mongo.URL, config.Mongo.DB, collection, config.Cache)
	return &mongoMapper{conn: conn}
}

func (m *mongoMapper) FindById(ctx context.Context, id string) (*OrgUnit, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var ou OrgUnit
	if err = m.conn.FindOne(ctx, cacheKeyPrefix+id, &ou, bson.M{cst.Id: oid}); err != nil {
		return nil, err
	}
	return &ou, nil
}
