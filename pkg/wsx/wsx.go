package wsx

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/hertz-contrib/websocket"

	"github.com/scholarbee/admissions-core-api/pkg/logs"
)

var (
	// NormalCloseErr 对端正常关闭
	NormalCloseErr = errors.New("websocket normal close")
	// AbnormalCloseErr 对端异常关闭
	AbnormalCloseErr = errors.New("websocket abnormal close")

	NormalCloseMsg = websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
)

const DefaultTimeout = 5 * time.Second

var upgrader = websocket.HertzUpgrader{
	// 鉴权在controller完成, 这里不再校验来源
	CheckOrigin: func(_ *app.RequestContext) bool { return true },
}

func IsNormal(err error) bool {
	return err == nil || errors.Is(err, NormalCloseErr)
}

// UpgradeWs 将hertz请求升级为websocket连接, 并交给handle处理
// handle返回后连接由Client.Close统一关闭
func UpgradeWs(ctx context.Context, c *app.RequestContext, handle func(ctx context.Context, ws *Client) error) error {
	return upgrader.Upgrade(c, func(conn *websocket.Conn) {
		ws := NewClient(conn)
		defer func() { _ = ws.Close() }()
		if err := handle(ctx, ws); !IsNormal(err) {
			logs.CtxWarnf(ctx, "[wsx] connection closed abnormally: %v", err)
		}
	})
}
