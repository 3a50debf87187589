package chat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dexter-z/unimart-sub001/service/chat"
)

func TestRegistry_LastRegistrationWins(t *testing.T) {
	r := chat.NewConnRegistry()
	a, b := newFakeConn(), newFakeConn()

	r.Add("seller_1", a)
	r.Add("seller_1", b)

	got, ok := r.Get("seller_1")
	require.True(t, ok)
	assert.Same(t, b, got.(*fakeConn))
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_RemoveOnlyOwnEntry(t *testing.T) {
	r := chat.NewConnRegistry()
	a, b := newFakeConn(), newFakeConn()

	r.Add("seller_1", a)
	r.Add("seller_1", b)

	// a was replaced; its late close must not evict b
	assert.False(t, r.Remove("seller_1", a))
	_, ok := r.Get("seller_1")
	assert.True(t, ok)

	assert.True(t, r.Remove("seller_1", b))
	_, ok = r.Get("seller_1")
	assert.False(t, ok)
}

func TestRegistry_GetUnknownKey(t *testing.T) {
	r := chat.NewConnRegistry()
	_, ok := r.Get("user_404")
	assert.False(t, ok)
}
