package message

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/scholarbee/admissions-core-api/biz/infra/cst"
)

var (
	SenderStoI = map[string]int32{cst.User: cst.SenderUser, cst.OrgUnit: cst.SenderOrgUnit}
	SenderItoS = map[int32]string{cst.SenderUser: cst.User, cst.SenderOrgUnit: cst.OrgUnit}
)

// Message 一条消息, 归属于唯一对话, 创建后除读标记外不可变
type Message struct {
	MessageId       primitive.ObjectID `json:"message_id" bson:"_id"`                                          // 主键
	ConversationId  primitive.ObjectID `json:"conversation_id" bson:"conversation_id"`                         // 归属的对话id
	SenderId        primitive.ObjectID `json:"sender_id" bson:"sender_id"`                                     // 发送方id, org_unit消息为单位id而非员工id
	SenderType      int32              `json:"sender_type" bson:"sender_type"`                                 // 发送方类型, user/org_unit依次为0,1
	RepliedByUserId primitive.ObjectID `json:"replied_by_user_id,omitempty" bson:"replied_by_user_id,omitempty"` // 代表单位回复的员工id, 只有org_unit消息有
	Content         string             `json:"content" bson:"content"`                                         // 消息内容
	Attachments     []string           `json:"attachments,omitempty" bson:"attachments,omitempty"`             // 附件引用, 有序
	SessionId       primitive.ObjectID `json:"session_id,omitempty" bson:"session_id,omitempty"`               // 会话标记, 零值表示未挂到会话
	IsReadByUser    bool               `json:"is_read_by_user" bson:"is_read_by_user"`
	IsReadByOrgUnit bool               `json:"is_read_by_org_unit" bson:"is_read_by_org_unit"`
	CreateTime      time.Time          `json:"create_time" bson:"create_time"` // 创建时间, 服务端赋值
	UpdateTime      time.Time          `json:"update_time" bson:"update_time"`
	Status          int32              `json:"status" bson:"status"`
}
