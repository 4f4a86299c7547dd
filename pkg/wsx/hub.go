package wsx

import (
	"context"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"github.com/scholarbee/admissions-core-api/pkg/logs"
)

// Hub 按对话维度维护订阅者, 服务端只用它做"新消息"单向推送
// 读写都很短, 用一把读写锁足够, 不引入channel编排
type Hub struct {
	mu sync.RWMutex
	// conversationId -> subscriberId -> client
	subscribers map[string]map[string]*Client
}

func NewHub() *Hub {
	return &Hub{subscribers: make(map[string]map[string]*Client)}
}

// Subscribe 将client注册到指定对话, 返回用于注销的函数
func (h *Hub) Subscribe(conversationId string, ws *Client) (unsubscribe func()) {
	id := uuid.NewString()
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subscribers[conversationId] == nil {
		h.subscribers[conversationId] = make(map[string]*Client)
	}
	h.subscribers[conversationId][id] = ws
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subscribers[conversationId], id)
		if len(h.subscribers[conversationId]) == 0 {
			delete(h.subscribers, conversationId)
		}
	}
}

// Broadcast 向对话的全部订阅者推送payload, 单个连接的写失败只记日志
func (h *Hub) Broadcast(ctx context.Context, conversationId string, payload any) {
	data, err := sonic.Marshal(payload)
	if err != nil {
		logs.CtxErrorf(ctx, "[hub] marshal payload err: %v", err)
		return
	}

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.subscribers[conversationId]))
	for _, ws := range h.subscribers[conversationId] {
		clients = append(clients, ws)
	}
	h.mu.RUnlock()

	for _, ws := range clients {
		if err = ws.WriteBytes(data); !IsNormal(err) {
			logs.CtxErrorf(ctx, "[hub] broadcast to conversation %s err: %v", conversationId, err)
		}
	}
}
