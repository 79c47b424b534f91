package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBadge_AdjustAndTotal(t *testing.T) {
	b := NewBadge()

	b.Adjust(3)
	assert.Equal(t, int64(3), b.Total())

	b.Adjust(-1)
	assert.Equal(t, int64(2), b.Total())
}

// どんな順の差分でも0未満にはならない
func TestBadge_NeverNegative(t *testing.T) {
	b := NewBadge()

	b.Adjust(-5)
	assert.Equal(t, int64(0), b.Total())

	b.Adjust(2)
	b.Adjust(-10)
	assert.Equal(t, int64(0), b.Total())
}

func TestBadge_SetClampsNegative(t *testing.T) {
	b := NewBadge()

	b.Set(-1)
	assert.Equal(t, int64(0), b.Total())
}

func TestBadge_SubscribeAndUnsubscribe(t *testing.T) {
	b := NewBadge()

	var got []int64
	unsub := b.Subscribe(func(total int64) {
		got = append(got, total)
	})

	b.Adjust(2)
	b.Set(5)
	assert.Equal(t, []int64{2, 5}, got)

	unsub()
	b.Adjust(1)
	assert.Equal(t, []int64{2, 5}, got)
}

func TestBadge_ResetNotifiesZero(t *testing.T) {
	b := NewBadge()
	b.Adjust(4)

	var last int64 = -1
	b.Subscribe(func(total int64) { last = total })

	b.Reset()
	assert.Equal(t, int64(0), b.Total())
	assert.Equal(t, int64(0), last)
}
