package chat

import "sync"

// ConnRegistry 路由键 -> 活跃连接。单节点内“这个参与者可达吗”的唯一权威。
type ConnRegistry struct {
	mu    sync.RWMutex
	conns map[string]Conn
}

func NewConnRegistry() *ConnRegistry {
	return &ConnRegistry{conns: make(map[string]Conn)}
}

// Add 登记连接；同键重复登记直接顶掉旧的（最后一次注册胜出，不报错）。
func (r *ConnRegistry) Add(routingKey string, conn Conn) {
	if routingKey == "" || conn == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[routingKey] = conn
}

func (r *ConnRegistry) Get(routingKey string) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.conns[routingKey]
	return c, ok
}

// Remove 只在该键仍指向这条连接时移除，返回是否真的移除了。
// 旧连接在被顶掉之后才触发 close 时，不能误删新连接的登记。
func (r *ConnRegistry) Remove(routingKey string, conn Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.conns[routingKey]; ok && cur == conn {
		delete(r.conns, routingKey)
		return true
	}
	return false
}

func (r *ConnRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
