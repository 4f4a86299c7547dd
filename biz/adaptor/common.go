package adaptor

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/golang-jwt/jwt/v4"

	"github.com/scholarbee/admissions-core-api/biz/infra/config"
	"github.com/scholarbee/admissions-core-api/pkg/logs"
)

const hertzContext = "hertz_context"

func InjectContext(ctx context.Context, c *app.RequestContext) context.Context {
	return context.WithValue(ctx, hertzContext, c)
}

func ExtractContext(ctx context.Context) (*app.RequestContext, error) {
	c, ok := ctx.Value(hertzContext).(*app.RequestContext)
	if !ok {
		return nil, errors.New("hertz context not found")
	}
	return c, nil
}

// ExtractUserId 从Authorization头解出操作者id, 令牌签发在认证服务完成
func ExtractUserId(ctx context.Context) (userId string, err error) {
	defer func() {
		if err != nil {
			logs.CtxInfof(ctx, "extract user meta fail, err=%v", err)
		}
	}()
	c, err := ExtractContext(ctx)
	if err != nil {
		return
	}
	tokenString := c.GetHeader("Authorization")
	token, err := jwt.Parse(string(tokenString), func(_ *jwt.Token) (interface{}, error) {
		return jwt.ParseECPublicKeyFromPEM([]byte(config.GetConfig().Auth.PublicKey))
	})
	if err != nil {
		return
	}
	if !token.Valid {
		err = errors.New("token is not valid")
		return
	}
	data, err := json.Marshal(token.Claims)
	if err != nil {
		return
	}
	var claims map[string]interface{}
	if err = json.Unmarshal(data, &claims); err != nil {
		return
	}
	uid, ok := claims["userId"].(string)
	if !ok {
		err = errors.New("userId claim not found")
		return
	}
	return uid, nil
}
