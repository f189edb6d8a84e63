package paging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRevealBounds(t *testing.T) {
	for total := 0; total <= 20; total++ {
		for current := 0; current <= total; current++ {
			for _, step := range []int{-1, 0, 1, 5, 7, 100} {
				got := Reveal(current, total, step)
				assert.GreaterOrEqual(t, got, current)
				assert.LessOrEqual(t, got, total)
			}
		}
	}
}

func TestRevealSteps(t *testing.T) {
	assert.Equal(t, 5, Reveal(0, 12, 5))
	assert.Equal(t, 10, Reveal(5, 12, 5))
	assert.Equal(t, 12, Reveal(10, 12, 5))
	assert.Equal(t, 12, Reveal(12, 12, 5))
	assert.Equal(t, 5, Reveal(0, 12, 0))
	assert.Equal(t, 0, Reveal(0, 0, 5))
}

func TestWindowAdvance(t *testing.T) {
	w := NewWindow(7, 5)
	assert.Equal(t, 0, w.Revealed)
	assert.True(t, w.HasMore())

	w = w.Advance()
	assert.Equal(t, 5, w.Revealed)
	assert.True(t, w.HasMore())

	w = w.Advance()
	assert.Equal(t, 7, w.Revealed)
	assert.False(t, w.HasMore())

	w = w.Advance()
	assert.Equal(t, 7, w.Revealed)
}

func TestVisible(t *testing.T) {
	items := []string{"a", "b", "c"}
	assert.Nil(t, Visible(NewWindow(3, 2), items))
	assert.Equal(t, []string{"a", "b"}, Visible(NewWindow(3, 2).Advance(), items))
	assert.Equal(t, items, Visible(Window{Revealed: 10, Total: 3, Step: 5}, items))
}
