package cst

const (
	// User is the applicant party of a conversation.
	User = "user"
	// OrgUnit is the institution party of a conversation, e.g. a campus account.
	OrgUnit = "org_unit"
)

// 发送方类型枚举值
const (
	SenderUser    int32 = 0
	SenderOrgUnit int32 = 1
)

// mapper层字段枚举
const (
	Id                = "_id"
	ConversationId    = "conversation_id"
	UserId            = "user_id"
	OrgUnitId         = "org_unit_id"
	SenderId          = "sender_id"
	SenderType        = "sender_type"
	SessionId         = "session_id"
	RepliedByUserId   = "replied_by_user_id"
	Content           = "content"
	Attachments       = "attachments"
	LastMessage       = "last_message"
	LastMessageTime   = "last_message_time"
	LastMessageSender = "last_message_sender"
	IsReadByUser      = "is_read_by_user"
	IsReadByOrgUnit   = "is_read_by_org_unit"
	AvgResponseTime   = "avg_response_time"
	SessionsCount     = "sessions_count"
	Name              = "name"
	CreateTime        = "create_time"
	UpdateTime        = "update_time"
	DeleteTime        = "delete_time"

	Status        = "status"
	DeletedStatus = -1

	NE          = "$ne"
	LT          = "$lt"
	GTE         = "$gte"
	Set         = "$set"
	Inc         = "$inc"
	SetOnInsert = "$setOnInsert"
	Exists      = "$exists"
)
