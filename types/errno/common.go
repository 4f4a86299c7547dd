package errno

import (
	"github.com/scholarbee/admissions-core-api/pkg/errorx/code"
)

const (
	UnAuthErrCode = 1000
	ParamErrCode  = 1001
	OIDErrCode    = 777
)

func init() {
	code.Register(
		UnAuthErrCode,
		"身份认证失败",
		code.WithAffectStability(false),
	)
	code.Register(
		ParamErrCode,
		"请求参数错误",
		code.WithAffectStability(false),
	)
	code.Register(
		OIDErrCode,
		"标识格式非法",
		code.WithAffectStability(false),
	)
}
