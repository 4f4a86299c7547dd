package orgunit

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrgUnit 对话中的机构侧参与方, 如某大学的一个校区
// 本服务只读其展示信息, 机构资源的CRUD在独立模块
type OrgUnit struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UniversityId primitive.ObjectID `json:"university_id" bson:"university_id,omitempty"`
	Name         string             `json:"name" bson:"name,omitempty"`
	Logo         string             `json:"logo" bson:"logo,omitempty"`
	Address      string             `json:"address" bson:"address,omitempty"`
	Status       int32              `json:"status" bson:"status"`
	CreateTime   time.Time          `json:"create_time" bson:"create_time"`
	UpdateTime   time.Time          `json:"update_time" bson:"update_time"`
}
