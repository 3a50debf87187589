package persist

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/Dexter-z/unimart-sub001/logger"
	"github.com/Dexter-z/unimart-sub001/module/chat/model"
)

// Store is the durable storage contract: one bulk insert plus an upsert-style
// increment on the per-conversation unseen counter of a participant type.
type Store interface {
	InsertMessages(ctx context.Context, msgs []model.ChatMessage) error
	IncrUnseen(ctx context.Context, participantType, conversationID string) error
}

const defaultFlushWindow = 3000 * time.Millisecond

// Worker 订阅聊天事件并按时间窗批量落库。
//
// 缓冲与计时器都归 Worker 所有：进空缓冲的第一条事件武装一个计时器，
// 窗口内到达的事件并入同一批；刷库失败时整批原样放回队头并重新武装。
// 每个窗口至多一次 bulk 写，这是唯一的重试/背压机制。
type Worker struct {
	mu    sync.Mutex
	buf   []model.ChatMessage
	timer *time.Timer
	armed bool

	store  Store
	window time.Duration
}

func NewWorker(store Store, window time.Duration) *Worker {
	if window <= 0 {
		window = defaultFlushWindow
	}
	return &Worker{store: store, window: window}
}

// HandleEvent consumes one event-log record (kafka.MessageHandler shape).
// Unparsable events are logged and skipped — they cannot be meaningfully
// replayed, so returning nil lets the offset advance.
func (w *Worker) HandleEvent(topic string, key, value []byte) error {
	var msg model.ChatMessage
	if err := json.Unmarshal(value, &msg); err != nil {
		logger.Errorf("[Persist] drop unparsable event topic=%s key=%s err=%v", topic, key, err)
		return nil
	}

	w.mu.Lock()
	w.buf = append(w.buf, msg)
	w.armLocked()
	w.mu.Unlock()
	return nil
}

// armLocked 只在缓冲非空且没有挂起计时器时武装一个新计时器。
func (w *Worker) armLocked() {
	if w.armed || len(w.buf) == 0 {
		return
	}
	w.armed = true
	w.timer = time.AfterFunc(w.window, w.Flush)
}

// Flush drains the buffer and writes the batch in one bulk operation,
// then bumps the durable unseen counter once per message for the receiving
// side. Any failure requeues the entire original batch — not just the
// failed remainder — which yields at-least-once with duplicate risk on
// partial success.
func (w *Worker) Flush() {
	w.mu.Lock()
	batch := w.buf
	w.buf = nil
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.armed = false
	w.mu.Unlock()

	if len(batch) == 0 {
		return
	}

	var valid, invalid []model.ChatMessage
	for _, m := range batch {
		if m.SenderID == "" {
			invalid = append(invalid, m)
		} else {
			valid = append(valid, m)
		}
	}
	if len(invalid) > 0 {
		convs := make([]string, 0, len(invalid))
		for _, m := range invalid {
			convs = append(convs, m.ConversationID)
		}
		logger.Warnf("[Persist] dropping %d message(s) without senderId conv=%v", len(invalid), convs)
	}
	if len(valid) == 0 {
		return
	}

	if err := w.persist(context.Background(), valid); err != nil {
		logger.Errorf("[Persist] flush of %d failed, requeueing: %v", len(batch), err)
		w.requeue(batch)
	}
}

func (w *Worker) persist(ctx context.Context, valid []model.ChatMessage) error {
	if err := w.store.InsertMessages(ctx, valid); err != nil {
		return err
	}
	for i := range valid {
		if err := w.store.IncrUnseen(ctx, valid[i].ReceiverType(), valid[i].ConversationID); err != nil {
			return err
		}
	}
	return nil
}

// requeue 整批放回队头，保持原顺序，然后按需重新武装。
func (w *Worker) requeue(batch []model.ChatMessage) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf = append(batch, w.buf...)
	w.armLocked()
}

// Pending returns a snapshot of the buffered, not-yet-flushed events.
func (w *Worker) Pending() []model.ChatMessage {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]model.ChatMessage, len(w.buf))
	copy(out, w.buf)
	return out
}

// Close flushes whatever is buffered before shutdown.
func (w *Worker) Close() {
	w.Flush()
}
