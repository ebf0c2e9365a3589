package maps

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewThreadSafe(t *testing.T) {
	t.Parallel()

	assert.Nil(t, NewThreadSafe[intKey, int](nil))

	m := NewThreadSafe[intKey, int](NewTree[intKey, int]())
	assert.Same(t, m, NewThreadSafe(m))
}

func TestThreadSafe_ConcurrentWriters(t *testing.T) {
	t.Parallel()

	m := NewThreadSafe[intKey, int](NewTree[intKey, int]())

	var wg sync.WaitGroup

	for w := range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range 200 {
				k := intKey(w*1000 + i)
				m.Add(k, i)

				_, ok := m.Get(k)
				assert.True(t, ok)

				if i%2 == 0 {
					m.Remove(k)
				}
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, 800, m.Size())

	keys := m.Keys()
	require.Len(t, keys, 800)

	for i := 1; i < len(keys); i++ {
		assert.True(t, keys[i-1].LessThan(keys[i]))
	}
}

func TestThreadSafe_WriteDuringIteration(t *testing.T) {
	t.Parallel()

	m := NewThreadSafe[intKey, string](NewTree[intKey, string]())
	for _, k := range []intKey{1, 2, 3} {
		m.Add(k, "")
	}

	for k := range m.Seq() {
		m.Add(k+10, "copy")
	}

	assert.Equal(t, 6, m.Size())
	assert.Equal(t, []intKey{11, 12, 13}, collect(m.Range(10, 20)))
	assert.Equal(t, []intKey{13, 12, 11, 3, 2, 1}, collect(m.Descend()))
	assert.Equal(t, []intKey{12, 13}, collect(m.Ascend(12)))

	k, _, ok := m.Floor(10)
	require.True(t, ok)
	assert.Equal(t, intKey(3), k)

	k, _, ok = m.Ceiling(4)
	require.True(t, ok)
	assert.Equal(t, intKey(11), k)

	k, _, _ = m.Min()
	assert.Equal(t, intKey(1), k)

	k, _, _ = m.Max()
	assert.Equal(t, intKey(13), k)

	assert.True(t, m.Contains(12))

	m.Clear()
	assert.Equal(t, 0, m.Size())
}
