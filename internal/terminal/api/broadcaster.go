package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"dex-terminal/internal/terminal/monitor"
	"dex-terminal/internal/terminal/store"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeTimeout = 10 * time.Second

// client 单个 websocket 连接
// gorilla 的连接同一时刻只允许一个写入方，所有写和关闭都串行在 mu 之后
type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *client) write(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.Close()
}

// Broadcaster 把每个状态版本的完整视图推给所有 websocket 客户端
// 通知通道带一格缓冲，连续变更可能合并成一次推送，客户端只需要最新版本
type Broadcaster struct {
	tl       *zap.Logger
	st       *store.Store
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

func NewBroadcaster(tl *zap.Logger, st *store.Store) *Broadcaster {
	return &Broadcaster{
		tl: tl,
		st: st,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// Run 监听状态变更并广播，随 ctx 结束
func (b *Broadcaster) Run(ctx context.Context) {
	ch := b.st.Subscribe()

	go func() {
		for {
			select {
			case <-ctx.Done():
				b.closeAll()
				return
			case <-ch:
				b.broadcast()
			}
		}
	}()
}

// Handle websocket 接入点，连上先推一次当前视图
func (b *Broadcaster) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.tl.Warn("❌ websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{conn: conn}

	// 持有写锁完成注册和初始推送：注册后广播方只能排在初始推送之后，
	// 客户端收到的版本单调不减
	c.mu.Lock()
	b.mu.Lock()
	b.clients[c] = struct{}{}
	b.mu.Unlock()
	monitor.WsClients.Inc()

	if payload, err := b.payload(); err == nil {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		conn.WriteMessage(websocket.TextMessage, payload)
	}
	c.mu.Unlock()

	// 只推不收，读循环用来感知客户端断开
	go func() {
		defer b.drop(c)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (b *Broadcaster) broadcast() {
	payload, err := b.payload()
	if err != nil {
		b.tl.Error("❌ marshal view failed", zap.Error(err))
		return
	}

	// 持锁只拷贝名单，写在锁外进行，新接入方不会和广播互相等待
	b.mu.Lock()
	clients := make([]*client, 0, len(b.clients))
	for c := range b.clients {
		clients = append(clients, c)
	}
	b.mu.Unlock()

	for _, c := range clients {
		if err := c.write(payload); err != nil {
			b.tl.Warn("❌ websocket write failed, dropping client", zap.Error(err))
			b.drop(c)
		}
	}
	monitor.WsBroadcasts.Inc()
}

func (b *Broadcaster) payload() ([]byte, error) {
	state, version := b.st.Snapshot()
	return sonic.Marshal(buildView(state, version))
}

func (b *Broadcaster) drop(c *client) {
	b.mu.Lock()
	_, ok := b.clients[c]
	if ok {
		delete(b.clients, c)
	}
	b.mu.Unlock()

	if ok {
		c.close()
		monitor.WsClients.Dec()
	}
}

func (b *Broadcaster) closeAll() {
	b.mu.Lock()
	clients := make([]*client, 0, len(b.clients))
	for c := range b.clients {
		clients = append(clients, c)
	}
	b.mu.Unlock()

	for _, c := range clients {
		b.drop(c)
	}
}
