package conversation

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Conversation 用户与招生单位(如校区)之间的对话, (user_id, org_unit_id)唯一
// avg_response_time/sessions_count由会话追踪增量维护
type Conversation struct {
	ConversationId    primitive.ObjectID `json:"conversation_id" bson:"_id"`
	UserId            primitive.ObjectID `json:"user_id" bson:"user_id"`
	OrgUnitId         primitive.ObjectID `json:"org_unit_id" bson:"org_unit_id"`
	LastMessage       string             `json:"last_message" bson:"last_message"`
	LastMessageTime   time.Time          `json:"last_message_time" bson:"last_message_time"`
	LastMessageSender int32              `json:"last_message_sender" bson:"last_message_sender"` // 发送方, user/org_unit依次为0,1
	IsReadByUser      bool               `json:"is_read_by_user" bson:"is_read_by_user"`
	IsReadByOrgUnit   bool               `json:"is_read_by_org_unit" bson:"is_read_by_org_unit"`
	AvgResponseTime   float64            `json:"avg_response_time" bson:"avg_response_time"` // 毫秒, sessions_count≥1时有意义
	SessionsCount     int64              `json:"sessions_count" bson:"sessions_count"`
	CreateTime        time.Time          `json:"create_time" bson:"create_time"`
	UpdateTime        time.Time          `json:"update_time" bson:"update_time"`
	DeleteTime        time.Time          `json:"delete_time,omitempty" bson:"delete_time,omitempty"`
	Status            int32              `json:"status" bson:"status"`
}

// AggregateUpdate 对话聚合字段的类型化更新描述
// 覆盖语义的字段直接赋值, 自增语义的字段单独给出, 由mapper翻译为$set/$inc
type AggregateUpdate struct {
	LastMessage       string
	LastMessageTime   time.Time
	LastMessageSender int32
	IsReadByUser      bool
	IsReadByOrgUnit   bool
	AvgResponseTime   *float64 // 非nil时覆盖
	SessionsCountInc  int64    // 非0时自增
}
