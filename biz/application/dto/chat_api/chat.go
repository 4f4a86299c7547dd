package chat_api

import (
	"github.com/scholarbee/admissions-core-api/biz/application/dto/basic"
)

// Conversation 交互域对话视图
type Conversation struct {
	ConversationId    string  `json:"conversation_id"`
	UserId            string  `json:"user_id"`
	OrgUnitId         string  `json:"org_unit_id"`
	LastMessage       string  `json:"last_message"`
	LastMessageTime   int64   `json:"last_message_time"`
	LastMessageSender string  `json:"last_message_sender"`
	IsReadByUser      bool    `json:"is_read_by_user"`
	IsReadByOrgUnit   bool    `json:"is_read_by_org_unit"`
	AvgResponseTime   float64 `json:"avg_response_time"`
	SessionsCount     int64   `json:"sessions_count"`
	CreateTime        int64   `json:"create_time"`
	UpdateTime        int64   `json:"update_time"`
}

// Message 交互域消息视图, 发送方展示信息由目录补全
type Message struct {
	MessageId       string   `json:"message_id"`
	ConversationId  string   `json:"conversation_id"`
	SenderId        string   `json:"sender_id"`
	SenderType      string   `json:"sender_type"`
	SenderName      string   `json:"sender_name,omitempty"`
	SenderAvatar    string   `json:"sender_avatar,omitempty"`
	RepliedByUserId string   `json:"replied_by_user_id,omitempty"`
	Content         string   `json:"content"`
	Attachments     []string `json:"attachments,omitempty"`
	SessionId       string   `json:"session_id,omitempty"`
	IsReadByUser    bool     `json:"is_read_by_user"`
	IsReadByOrgUnit bool     `json:"is_read_by_org_unit"`
	CreateTime      int64    `json:"create_time"`
}

type CreateConversationReq struct {
	OrgUnitId string `json:"org_unit_id" vd:"len($)>0"`
}

type CreateConversationResp struct {
	Resp         *basic.Response `json:"-"`
	Conversation *Conversation   `json:"conversation"`
}

type CreateMessageReq struct {
	ConversationId string   `json:"conversation_id" vd:"len($)>0"`
	SenderType     string   `json:"sender_type" vd:"len($)>0"`
	Content        string   `json:"content"`
	Attachments    []string `json:"attachments"`
}

type CreateMessageResp struct {
	Resp    *basic.Response `json:"-"`
	Message *Message        `json:"message"`
}

type ListMessageReq struct {
	ConversationId string  `json:"conversation_id" query:"conversation_id" vd:"len($)>0"`
	Size           *int64  `json:"size" query:"size"`
	Cursor         *string `json:"cursor" query:"cursor"`
}

func (r *ListMessageReq) GetPage() *basic.Page {
	return &basic.Page{Size: r.Size, Cursor: r.Cursor}
}

type ListMessageResp struct {
	Resp     *basic.Response `json:"-"`
	Messages []*Message      `json:"messages"`
	HasMore  bool            `json:"has_more"`
	Cursor   string          `json:"cursor,omitempty"`
}

type ListConversationReq struct {
	Page *int64 `json:"page" query:"page"`
	Size *int64 `json:"size" query:"size"`
}

func (r *ListConversationReq) GetPage() *basic.Page {
	return &basic.Page{Page: r.Page, Size: r.Size}
}

type ListConversationResp struct {
	Resp          *basic.Response `json:"-"`
	Conversations []*Conversation `json:"conversations"`
	HasMore       bool            `json:"has_more"`
}

type MarkReadReq struct {
	ConversationId string `json:"conversation_id" vd:"len($)>0"`
	ReaderType     string `json:"reader_type" vd:"len($)>0"`
}

type MarkReadResp struct {
	Resp *basic.Response `json:"-"`
}

type DeleteConversationReq struct {
	ConversationId string `json:"conversation_id" vd:"len($)>0"`
}

type DeleteConversationResp struct {
	Resp *basic.Response `json:"-"`
}
