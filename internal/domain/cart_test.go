package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCart_TotalAmount(t *testing.T) {
	cart := &Cart{
		Items: []CartItem{
			{ItemID: "item-1", Price: 1500, Quantity: 2},
			{ItemID: "item-2", Price: 999, Quantity: 1},
		},
	}

	assert.Equal(t, int64(3999), cart.TotalAmount())
}

func TestCart_ItemCount(t *testing.T) {
	cart := &Cart{
		Items: []CartItem{
			{ItemID: "item-1", Quantity: 2},
			{ItemID: "item-2", Quantity: 3},
		},
	}

	assert.Equal(t, 5, cart.ItemCount())
}

func TestCart_FindItemIndex(t *testing.T) {
	cart := &Cart{
		Items: []CartItem{
			{ItemID: "item-1"},
			{ItemID: "item-2"},
		},
	}

	assert.Equal(t, 0, cart.FindItemIndex("item-1"))
	assert.Equal(t, 1, cart.FindItemIndex("item-2"))
	assert.Equal(t, -1, cart.FindItemIndex("item-3"))
}

func TestCart_EmptyCart(t *testing.T) {
	cart := &Cart{}

	assert.Equal(t, int64(0), cart.TotalAmount())
	assert.Equal(t, 0, cart.ItemCount())
	assert.Equal(t, -1, cart.FindItemIndex("item-1"))
}
