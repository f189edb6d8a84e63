package util

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkReconstructsInput(t *testing.T) {
	for _, n := range []int{0, 1, 5, 255, 256, 257, 300, 512, 513} {
		for _, size := range []int{1, 3, 256} {
			items := make([]int, n)
			for i := range items {
				items[i] = i
			}

			chunks := Chunk(items, size)

			var joined []int
			for i, c := range chunks {
				if i < len(chunks)-1 {
					assert.Len(t, c, size, "n=%d size=%d chunk=%d", n, size, i)
				} else {
					assert.LessOrEqual(t, len(c), size)
					assert.NotEmpty(t, c)
				}
				joined = append(joined, c...)
			}
			if n == 0 {
				assert.Empty(t, chunks)
				continue
			}
			assert.Equal(t, items, joined, "n=%d size=%d", n, size)
		}
	}
}

func TestChunkThreeHundredKeys(t *testing.T) {
	keys := make([]string, 300)
	for i := range keys {
		keys[i] = fmt.Sprintf("%064x", i)
	}

	chunks := Chunk(keys, 256)
	require.Len(t, chunks, 2)
	assert.Len(t, chunks[0], 256)
	assert.Len(t, chunks[1], 44)
}

func TestChunkDoesNotAlias(t *testing.T) {
	items := []int{1, 2, 3, 4}
	chunks := Chunk(items, 2)
	chunks[0] = append(chunks[0], 99)
	assert.Equal(t, []int{1, 2, 3, 4}, items)
}

func TestChunkNonPositiveSize(t *testing.T) {
	chunks := Chunk([]string{"a", "b"}, 0)
	assert.Equal(t, [][]string{{"a", "b"}}, chunks)
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []string{"b", "a", "c"}, Dedupe([]string{"b", "a", "b", "c", "a"}))
	assert.Nil(t, Dedupe[string](nil))
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "abcdefabcdef", ShortID("abcdefabcdef0123"))
	assert.Equal(t, "abc", ShortID("abc"))
}
