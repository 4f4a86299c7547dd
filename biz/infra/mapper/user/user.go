package user

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User 申请人账号, 本服务只读, 账号生命周期由用户中心维护
type User struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`        // ID
	Avatar     string             `json:"avatar" bson:"avatar,omitempty"` // 头像
	Name       string             `json:"name" bson:"name,omitempty"`     // 用户名
	Email      string             `json:"email" bson:"email,omitempty"`
	Status     int32              `json:"status" bson:"status"`
	CreateTime time.Time          `json:"create_time" bson:"create_time"`
	UpdateTime time.Time          `json:"update_time" bson:"update_time"`
}
