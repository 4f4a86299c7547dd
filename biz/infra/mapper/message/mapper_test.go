package message

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zeromicro/go-zero/core/stores/monc"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/scholarbee/admissions-core-api/biz/infra/cst"
)

// 锚点是带会话标记的最新一条消息, 同一创建时刻以_id决断
func TestLatestTaggedSortNewestFirstWithIdTiebreak(t *testing.T) {
	assert.Equal(t, bson.D{
		{Key: cst.CreateTime, Value: -1},
		{Key: cst.Id, Value: -1},
	}, latestTaggedSort)
}

func TestSessionOpenerSortOldestFirst(t *testing.T) {
	assert.Equal(t, bson.D{
		{Key: cst.CreateTime, Value: 1},
		{Key: cst.Id, Value: 1},
	}, sessionOpenerSort)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(monc.ErrNotFound))
	assert.True(t, IsNotFound(mongo.ErrNoDocuments))
	assert.False(t, IsNotFound(errors.New("network timeout")))
	assert.False(t, IsNotFound(nil))
}
