package logs

import (
	"context"

	"github.com/cloudwego/hertz/pkg/common/hlog"
)

// 对hlog的薄封装, 统一业务侧的日志入口
// Ctx变体携带请求上下文, 便于接入链路追踪的日志实现

func Infof(format string, v ...any) {
	hlog.Infof(format, v...)
}

func Warnf(format string, v ...any) {
	hlog.Warnf(format, v...)
}

func Errorf(format string, v ...any) {
	hlog.Errorf(format, v...)
}

func Error(v ...any) {
	hlog.Error(v...)
}

// CondErrorf 仅在cond为真时记录错误
func CondErrorf(cond bool, format string, v ...any) {
	if cond {
		hlog.Errorf(format, v...)
	}
}

func CtxInfof(ctx context.Context, format string, v ...any) {
	hlog.CtxInfof(ctx, format, v...)
}

func CtxWarnf(ctx context.Context, format string, v ...any) {
	hlog.CtxWarnf(ctx, format, v...)
}

func CtxErrorf(ctx context.Context, format string, v ...any) {
	hlog.CtxErrorf(ctx, format, v...)
}
