package main

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/hertz-contrib/cors"
	prometheus "github.com/hertz-contrib/monitor-prometheus"

	"github.com/scholarbee/admissions-core-api/biz/adaptor"
	chat "github.com/scholarbee/admissions-core-api/biz/adaptor/controller/chat_api"
	"github.com/scholarbee/admissions-core-api/pkg/ac"
	"github.com/scholarbee/admissions-core-api/pkg/logs"
	"github.com/scholarbee/admissions-core-api/provider"
)

func Init() {
	provider.Init()
	cfg := provider.Get().Config
	if err := ac.Build(cfg.Chat.BlockedWords); err != nil {
		panic(err)
	}
}

func main() {
	Init()
	cfg := provider.Get().Config

	h := server.Default(
		server.WithHostPorts(cfg.ListenOn),
		server.WithTracer(prometheus.NewServerTracer(":9091", "/metrics")),
	)

	h.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	// 将hertz上下文注入ctx, 便于业务层提取请求元信息
	h.Use(func(ctx context.Context, c *app.RequestContext) {
		c.Next(adaptor.InjectContext(ctx, c))
	})

	register(h)
	logs.Infof("server start, listen on %s", cfg.ListenOn)
	h.Spin()
}

func register(h *server.Hertz) {
	g := h.Group("/chat")
	g.POST("/conversation", chat.CreateConversation)
	g.GET("/conversation/list", chat.ListConversation)
	g.POST("/conversation/delete", chat.DeleteConversation)
	g.POST("/message", chat.CreateMessage)
	g.GET("/message/list", chat.ListMessage)
	g.POST("/read", chat.MarkRead)
	g.GET("/ws", chat.Subscribe)
}
