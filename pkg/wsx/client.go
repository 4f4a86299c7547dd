package wsx

import (
	"sync"
	"time"

	"github.com/hertz-contrib/websocket"

	"github.com/scholarbee/admissions-core-api/pkg/logs"
)

// Client 是基于hertz-contrib/websocket的工具类, 封装常见读写操作并归类异常
// 最佳实践是单线程读, 所以此处不设读锁, 若并发读需自行维护
// 一个Client与一个conn一一对应, 不支持更换conn
type Client struct {
	// 写锁
	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{conn: conn}
}

// classifyErr 将错误归类
func (ws *Client) classifyErr(err error) error {
	switch {
	case err == nil:
		return nil
	case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived):
		ws.closed = true
		return NormalCloseErr
	case websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived):
		// 为了避免内部错误被隐藏, 此处日志记录错误原因
		logs.Errorf("[wsx] close error: %v", err)
		ws.closed = true
		return AbnormalCloseErr
	default:
		return err
	}
}

// Read 读取一条消息
func (ws *Client) Read() (mt int, data []byte, err error) {
	mt, data, err = ws.conn.ReadMessage()
	return mt, data, ws.classifyErr(err)
}

// ReadJSON 读取一个JSON对象并写入指定位置
func (ws *Client) ReadJSON(obj any) error {
	return ws.classifyErr(ws.conn.ReadJSON(obj))
}

// Write 写入指定类型消息
func (ws *Client) Write(mt int, data []byte) error {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.classifyErr(ws.conn.WriteMessage(mt, data))
}

// WriteBytes 写入文本消息
func (ws *Client) WriteBytes(data []byte) error {
	return ws.Write(websocket.TextMessage, data)
}

// WriteJSON 写入序列化为JSON的对象
func (ws *Client) WriteJSON(obj any) error {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.classifyErr(ws.conn.WriteJSON(obj))
}

// Ping 写入心跳消息
func (ws *Client) Ping(data []byte) error {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.conn.WriteControl(websocket.PingMessage, data, time.Now().Add(DefaultTimeout))
}

// Close 关闭连接, 幂等
func (ws *Client) Close() error {
	if ws.closed {
		return nil
	}
	if err := ws.conn.WriteControl(websocket.CloseMessage, NormalCloseMsg, time.Now().Add(DefaultTimeout)); err != nil {
		logs.Errorf("[wsx] send close message error: %v", err)
	}
	ws.closed = true
	return ws.conn.Close()
}

func (ws *Client) IsClosed() bool {
	return ws.closed
}
