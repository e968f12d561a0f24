package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOrderStatus(t *testing.T) {
	for _, s := range []string{"pending", "processing", "shipped", "completed", "cancelled"} {
		got, ok := ParseOrderStatus(s)
		assert.True(t, ok, s)
		assert.Equal(t, OrderStatus(s), got)
	}

	for _, s := range []string{"", "PENDING", "Shipped", "delivered", "refunded"} {
		_, ok := ParseOrderStatus(s)
		assert.False(t, ok, s)
	}
}
