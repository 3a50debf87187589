package chat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Dexter-z/unimart-sub001/service/chat"
)

func TestLiveUnseen_IncrAndCount(t *testing.T) {
	tr := chat.NewLiveUnseenTracker()

	assert.Equal(t, 0, tr.Count("seller_1", "c1"))
	assert.Equal(t, 1, tr.Incr("seller_1", "c1"))
	assert.Equal(t, 2, tr.Incr("seller_1", "c1"))
	assert.Equal(t, 2, tr.Count("seller_1", "c1"))
}

func TestLiveUnseen_ResetOnlyExactPair(t *testing.T) {
	tr := chat.NewLiveUnseenTracker()
	tr.Incr("seller_1", "cX")
	tr.Incr("seller_1", "cX")
	tr.Incr("seller_1", "cY")
	tr.Incr("user_2", "cX")

	tr.Reset("seller_1", "cX")

	assert.Equal(t, 0, tr.Count("seller_1", "cX"))
	assert.Equal(t, 1, tr.Count("seller_1", "cY"))
	assert.Equal(t, 1, tr.Count("user_2", "cX"))
}
