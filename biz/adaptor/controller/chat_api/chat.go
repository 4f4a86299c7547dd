package chat_api

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"github.com/scholarbee/admissions-core-api/biz/adaptor"
	"github.com/scholarbee/admissions-core-api/biz/application/dto/chat_api"
	"github.com/scholarbee/admissions-core-api/pkg/errorx"
	"github.com/scholarbee/admissions-core-api/pkg/logs"
	"github.com/scholarbee/admissions-core-api/pkg/safego"
	"github.com/scholarbee/admissions-core-api/pkg/wsx"
	"github.com/scholarbee/admissions-core-api/provider"
	"github.com/scholarbee/admissions-core-api/types/errno"
)

// CreateConversation 获取或创建对话
// @router /chat/conversation [POST]
func CreateConversation(ctx context.Context, c *app.RequestContext) {
	var req chat_api.CreateConversationReq
	if err := c.BindAndValidate(&req); err != nil {
		adaptor.PostError(ctx, c, errorx.WrapByCode(err, errno.ParamErrCode))
		return
	}
	uid, err := adaptor.ExtractUserId(ctx)
	if err != nil {
		adaptor.PostError(ctx, c, errorx.WrapByCode(err, errno.UnAuthErrCode))
		return
	}
	resp, err := provider.Get().ChatService.CreateConversation(ctx, uid, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}

// CreateMessage 发送消息
// 广播在业务成功后旁路执行, 推送失败不影响响应
// @router /chat/message [POST]
func CreateMessage(ctx context.Context, c *app.RequestContext) {
	var req chat_api.CreateMessageReq
	if err := c.BindAndValidate(&req); err != nil {
		adaptor.PostError(ctx, c, errorx.WrapByCode(err, errno.ParamErrCode))
		return
	}
	uid, err := adaptor.ExtractUserId(ctx)
	if err != nil {
		adaptor.PostError(ctx, c, errorx.WrapByCode(err, errno.UnAuthErrCode))
		return
	}
	p := provider.Get()
	resp, err := p.ChatService.CreateMessage(ctx, uid, &req)
	if err == nil && resp != nil && resp.Message != nil {
		msg := resp.Message
		safego.Go(ctx, func() {
			p.Hub.Broadcast(context.Background(), msg.ConversationId, msg)
		})
	}
	adaptor.PostProcess(ctx, c, &req, resp, err)
}

// ListMessage 分页获取消息记录
// @router /chat/message/list [GET]
func ListMessage(ctx context.Context, c *app.RequestContext) {
	var req chat_api.ListMessageReq
	if err := c.BindAndValidate(&req); err != nil {
		adaptor.PostError(ctx, c, errorx.WrapByCode(err, errno.ParamErrCode))
		return
	}
	if _, err := adaptor.ExtractUserId(ctx); err != nil {
		adaptor.PostError(ctx, c, errorx.WrapByCode(err, errno.UnAuthErrCode))
		return
	}
	resp, err := provider.Get().ChatService.ListMessage(ctx, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}

// ListConversation 分页获取对话列表
// @router /chat/conversation/list [GET]
func ListConversation(ctx context.Context, c *app.RequestContext) {
	var req chat_api.ListConversationReq
	if err := c.BindAndValidate(&req); err != nil {
		adaptor.PostError(ctx, c, errorx.WrapByCode(err, errno.ParamErrCode))
		return
	}
	uid, err := adaptor.ExtractUserId(ctx)
	if err != nil {
		adaptor.PostError(ctx, c, errorx.WrapByCode(err, errno.UnAuthErrCode))
		return
	}
	resp, err := provider.Get().ChatService.ListConversation(ctx, uid, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}

// MarkRead 标记已读
// @router /chat/read [POST]
func MarkRead(ctx context.Context, c *app.RequestContext) {
	var req chat_api.MarkReadReq
	if err := c.BindAndValidate(&req); err != nil {
		adaptor.PostError(ctx, c, errorx.WrapByCode(err, errno.ParamErrCode))
		return
	}
	if _, err := adaptor.ExtractUserId(ctx); err != nil {
		adaptor.PostError(ctx, c, errorx.WrapByCode(err, errno.UnAuthErrCode))
		return
	}
	resp, err := provider.Get().ChatService.MarkRead(ctx, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}

// DeleteConversation 删除对话(软删除)
// @router /chat/conversation/delete [POST]
func DeleteConversation(ctx context.Context, c *app.RequestContext) {
	var req chat_api.DeleteConversationReq
	if err := c.BindAndValidate(&req); err != nil {
		adaptor.PostError(ctx, c, errorx.WrapByCode(err, errno.ParamErrCode))
		return
	}
	uid, err := adaptor.ExtractUserId(ctx)
	if err != nil {
		adaptor.PostError(ctx, c, errorx.WrapByCode(err, errno.UnAuthErrCode))
		return
	}
	resp, err := provider.Get().ChatService.DeleteConversation(ctx, uid, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}

// Subscribe 订阅对话的新消息推送
// @router /chat/ws [GET]
func Subscribe(ctx context.Context, c *app.RequestContext) {
	cid := c.Query("conversation_id")
	if cid == "" {
		adaptor.PostError(ctx, c, errorx.New(errno.ParamErrCode, errorx.KV("missing", "conversation_id")))
		return
	}
	if _, err := adaptor.ExtractUserId(ctx); err != nil {
		adaptor.PostError(ctx, c, errorx.WrapByCode(err, errno.UnAuthErrCode))
		return
	}
	if err := wsx.UpgradeWs(ctx, c, func(ctx context.Context, ws *wsx.Client) error {
		unsubscribe := provider.Get().Hub.Subscribe(cid, ws)
		defer unsubscribe()
		for {
			// 阻塞读仅用于感知断开, 订阅方向不接收业务消息
			if _, _, err := ws.Read(); err != nil {
				return err
			}
		}
	}); err != nil {
		logs.Errorf("[controller] [Subscribe] websocket upgrade error: %s", errorx.ErrorWithoutStack(err))
	}
}
