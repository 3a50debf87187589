package chat_test

import (
	"context"
	"sync"

	"github.com/Dexter-z/unimart-sub001/service/chat"
)

type fakeConn struct {
	mu       sync.Mutex
	frames   []chat.ServerFrame
	writeErr error
	closed   bool
}

func newFakeConn() *fakeConn { return &fakeConn{} }

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeErr != nil {
		return c.writeErr
	}
	c.frames = append(c.frames, v.(chat.ServerFrame))
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) Frames() []chat.ServerFrame {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]chat.ServerFrame, len(c.frames))
	copy(out, c.frames)
	return out
}

type fakePresence struct {
	mu      sync.Mutex
	online  []string
	offline []string
}

func newFakePresence() *fakePresence { return &fakePresence{} }

func (p *fakePresence) Online(_ context.Context, routingKey string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.online = append(p.online, routingKey)
	return nil
}

func (p *fakePresence) Offline(_ context.Context, routingKey string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.offline = append(p.offline, routingKey)
	return nil
}

type publishedEvent struct {
	key   string
	value []byte
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func newFakePublisher() *fakePublisher { return &fakePublisher{} }

func (p *fakePublisher) Publish(key string, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, publishedEvent{key: key, value: value})
	return nil
}

func (p *fakePublisher) Events() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]publishedEvent, len(p.events))
	copy(out, p.events)
	return out
}
