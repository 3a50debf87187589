package chat

import "sync"

type counterKey struct {
	routingKey     string
	conversationID string
}

// LiveUnseenTracker is the process-local unseen counter used for real-time
// pushes. It is reset only by an explicit seen-ack and is lost on restart;
// the durable counter maintained by the persist worker is a separate thing
// and the two are never reconciled here.
type LiveUnseenTracker struct {
	mu     sync.Mutex
	counts map[counterKey]int
}

func NewLiveUnseenTracker() *LiveUnseenTracker {
	return &LiveUnseenTracker{counts: make(map[counterKey]int)}
}

// Incr bumps the counter for (receiverRoutingKey, conversationID) and
// returns the new value.
func (t *LiveUnseenTracker) Incr(routingKey, conversationID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	k := counterKey{routingKey, conversationID}
	t.counts[k]++
	return t.counts[k]
}

// Reset zeroes exactly one (routingKey, conversationID) pair.
func (t *LiveUnseenTracker) Reset(routingKey, conversationID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.counts, counterKey{routingKey, conversationID})
}

func (t *LiveUnseenTracker) Count(routingKey, conversationID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts[counterKey{routingKey, conversationID}]
}
