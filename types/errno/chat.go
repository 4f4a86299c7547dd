package errno

import (
	"github.com/scholarbee/admissions-core-api/pkg/errorx/code"
)

const (
	ChatConversationCreateErrCode   = 40001
	ChatConversationNotFoundErrCode = 40002
	ChatConversationListErrCode     = 40003
	ChatConversationDeleteErrCode   = 40004
	ChatMessageCreateErrCode        = 40005
	ChatMessageListErrCode          = 40006
	ChatMarkReadErrCode             = 40007
	ChatMessageInvalidErrCode       = 40008
	ChatSensitiveErrCode            = 40009
	ChatSessionCorruptErrCode       = 40010
)

func init() {
	code.Register(
		ChatConversationCreateErrCode,
		"创建对话失败",
		code.WithAffectStability(false),
	)
	code.Register(
		ChatConversationNotFoundErrCode,
		"对话不存在",
		code.WithAffectStability(false),
	)
	code.Register(
		ChatConversationListErrCode,
		"分页获取对话列表失败",
		code.WithAffectStability(false),
	)
	code.Register(
		ChatConversationDeleteErrCode,
		"删除对话失败",
		code.WithAffectStability(false),
	)
	code.Register(
		ChatMessageCreateErrCode,
		"发送消息失败",
		code.WithAffectStability(false),
	)
	code.Register(
		ChatMessageListErrCode,
		"获取消息记录失败",
		code.WithAffectStability(false),
	)
	code.Register(
		ChatMarkReadErrCode,
		"标记已读失败",
		code.WithAffectStability(false),
	)
	code.Register(
		ChatMessageInvalidErrCode,
		"消息内容不合法",
		code.WithAffectStability(false),
	)
	code.Register(
		ChatSensitiveErrCode,
		"消息包含违规内容",
		code.WithAffectStability(false),
	)
	// 会话内有机构回复却找不到发起消息, 属于数据损坏
	code.Register(
		ChatSessionCorruptErrCode,
		"会话数据异常",
		code.WithAffectStability(true),
	)
}
