package persist

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dexter-z/unimart-sub001/module/chat/model"
)

type incrCall struct {
	participantType string
	conversationID  string
}

type fakeStore struct {
	mu        sync.Mutex
	inserts   [][]model.ChatMessage
	incrs     []incrCall
	insertErr error
	incrErr   error
}

func (s *fakeStore) InsertMessages(_ context.Context, msgs []model.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return s.insertErr
	}
	cp := make([]model.ChatMessage, len(msgs))
	copy(cp, msgs)
	s.inserts = append(s.inserts, cp)
	return nil
}

func (s *fakeStore) IncrUnseen(_ context.Context, participantType, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.incrErr != nil {
		return s.incrErr
	}
	s.incrs = append(s.incrs, incrCall{participantType, conversationID})
	return nil
}

func (s *fakeStore) insertCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inserts)
}

func event(t *testing.T, w *Worker, msg model.ChatMessage) {
	t.Helper()
	raw, err := json.Marshal(msg)
	require.NoError(t, err)
	require.NoError(t, w.HandleEvent("chat.messages", []byte(msg.ConversationID), raw))
}

func TestFlush_BulkInsertAndCounters(t *testing.T) {
	store := &fakeStore{}
	w := NewWorker(store, time.Hour) // window never fires inside the test

	event(t, w, model.ChatMessage{ConversationID: "c1", SenderID: "u1", SenderType: "user", Content: "a"})
	event(t, w, model.ChatMessage{ConversationID: "c2", SenderID: "s1", SenderType: "seller", Content: "b"})
	event(t, w, model.ChatMessage{ConversationID: "c1", SenderID: "u1", SenderType: "user", Content: "c"})

	w.Flush()

	require.Len(t, store.inserts, 1)
	batch := store.inserts[0]
	require.Len(t, batch, 3)
	assert.Equal(t, "a", batch[0].Content)
	assert.Equal(t, "b", batch[1].Content)
	assert.Equal(t, "c", batch[2].Content)

	// one counter bump per message, charged to the receiving side
	assert.Equal(t, []incrCall{
		{"seller", "c1"},
		{"user", "c2"},
		{"seller", "c1"},
	}, store.incrs)

	assert.Empty(t, w.Pending())
}

func TestFlush_EmptyBufferIsNoop(t *testing.T) {
	store := &fakeStore{}
	w := NewWorker(store, time.Hour)

	w.Flush()

	assert.Empty(t, store.inserts)
	assert.Empty(t, store.incrs)
}

func TestFlush_PartitionsOutMessagesWithoutSender(t *testing.T) {
	store := &fakeStore{}
	w := NewWorker(store, time.Hour)

	event(t, w, model.ChatMessage{ConversationID: "c1", SenderID: "u1", SenderType: "user", Content: "ok"})
	event(t, w, model.ChatMessage{ConversationID: "c2", SenderType: "user", Content: "no sender"})

	w.Flush()

	require.Len(t, store.inserts, 1)
	require.Len(t, store.inserts[0], 1)
	assert.Equal(t, "ok", store.inserts[0][0].Content)
	assert.Len(t, store.incrs, 1)
	assert.Empty(t, w.Pending())
}

func TestFlush_AllInvalidSkipsStore(t *testing.T) {
	store := &fakeStore{}
	w := NewWorker(store, time.Hour)

	event(t, w, model.ChatMessage{ConversationID: "c1", SenderType: "user"})

	w.Flush()

	assert.Empty(t, store.inserts)
	assert.Empty(t, w.Pending())
}

func TestFlush_InsertErrorRequeuesWholeBatch(t *testing.T) {
	store := &fakeStore{insertErr: assert.AnError}
	w := NewWorker(store, time.Hour)

	msgs := []model.ChatMessage{
		{ConversationID: "c1", SenderID: "u1", SenderType: "user", Content: "a"},
		{ConversationID: "c2", SenderType: "user", Content: "invalid"},
		{ConversationID: "c1", SenderID: "u1", SenderType: "user", Content: "b"},
	}
	for _, m := range msgs {
		event(t, w, m)
	}

	w.Flush()

	// the entire original batch comes back, invalid entry included,
	// in arrival order
	assert.Equal(t, msgs, w.Pending())
	assert.Empty(t, store.incrs)
}

func TestFlush_CounterErrorRequeuesAfterInsert(t *testing.T) {
	store := &fakeStore{incrErr: assert.AnError}
	w := NewWorker(store, time.Hour)

	msg := model.ChatMessage{ConversationID: "c1", SenderID: "u1", SenderType: "user", Content: "a"}
	event(t, w, msg)

	w.Flush()

	// insert succeeded but the counter failed: the batch is requeued
	// anyway, so the next flush will insert the same message again
	require.Len(t, store.inserts, 1)
	assert.Equal(t, []model.ChatMessage{msg}, w.Pending())

	store.mu.Lock()
	store.incrErr = nil
	store.mu.Unlock()
	w.Flush()

	require.Len(t, store.inserts, 2)
	assert.Equal(t, store.inserts[0], store.inserts[1])
	assert.Empty(t, w.Pending())
}

func TestRequeue_KeepsArrivalOrderAheadOfNewEvents(t *testing.T) {
	store := &fakeStore{insertErr: assert.AnError}
	w := NewWorker(store, time.Hour)

	event(t, w, model.ChatMessage{ConversationID: "c1", SenderID: "u1", SenderType: "user", Content: "old"})
	w.Flush()
	event(t, w, model.ChatMessage{ConversationID: "c1", SenderID: "u1", SenderType: "user", Content: "new"})

	pending := w.Pending()
	require.Len(t, pending, 2)
	assert.Equal(t, "old", pending[0].Content)
	assert.Equal(t, "new", pending[1].Content)
}

func TestHandleEvent_UnparsableIsSkipped(t *testing.T) {
	store := &fakeStore{}
	w := NewWorker(store, time.Hour)

	err := w.HandleEvent("chat.messages", []byte("c1"), []byte("{not json"))

	require.NoError(t, err)
	assert.Empty(t, w.Pending())
}

func TestWindow_SingleTimerCoalescesBurst(t *testing.T) {
	store := &fakeStore{}
	w := NewWorker(store, 50*time.Millisecond)

	for i := 0; i < 100; i++ {
		event(t, w, model.ChatMessage{ConversationID: "c1", SenderID: "u1", SenderType: "user", Content: "m"})
	}

	require.Eventually(t, func() bool { return store.insertCount() == 1 }, time.Second, 5*time.Millisecond)
	store.mu.Lock()
	n := len(store.inserts[0])
	store.mu.Unlock()
	assert.Equal(t, 100, n)
	assert.Empty(t, w.Pending())

	// the burst consumed exactly one window; no further flush fires
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, 1, store.insertCount())
}

func TestClose_FlushesRemainder(t *testing.T) {
	store := &fakeStore{}
	w := NewWorker(store, time.Hour)

	event(t, w, model.ChatMessage{ConversationID: "c1", SenderID: "u1", SenderType: "user", Content: "bye"})
	w.Close()

	require.Len(t, store.inserts, 1)
	assert.Empty(t, w.Pending())
}
