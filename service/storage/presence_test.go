package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPresenceKey(t *testing.T) {
	cases := []struct {
		routingKey string
		want       string
	}{
		{"seller_42", "online:seller:42"},
		{"user_17", "online:user:17"},
		{"17", "online:user:17"},
		{"seller_", "online:seller:"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, PresenceKey(c.routingKey), c.routingKey)
	}
}
