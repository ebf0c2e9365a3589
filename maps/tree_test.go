package maps

import (
	"iter"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/amp-labs/typewise/sortable"
	"github.com/amp-labs/typewise/typewise"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type intKey int

func (i intKey) Equals(other intKey) bool   { return i == other }
func (i intKey) LessThan(other intKey) bool { return i < other }

func key(v any) sortable.Value {
	return sortable.MustValue(v)
}

// checkInvariants verifies parent links, the red-red rule and equal black height, and
// returns the black height of the tree.
func checkInvariants[K sortable.Sortable[K], V any](t *testing.T, tree *Tree[K, V]) int {
	t.Helper()

	if tree.root == nil {
		return 0
	}

	require.Equal(t, black, tree.root.color, "root must be black")
	require.Nil(t, tree.root.parent)

	var walk func(n *node[K, V]) int

	walk = func(n *node[K, V]) int {
		if n == nil {
			return 1
		}

		for _, c := range []*node[K, V]{n.left, n.right} {
			if c == nil {
				continue
			}

			require.Same(t, n, c.parent, "broken parent link at %v", c)

			if n.color == red {
				require.Equal(t, black, c.color, "red node %v has red child", n)
			}
		}

		if n.left != nil {
			require.True(t, n.left.key.LessThan(n.key))
		}

		if n.right != nil {
			require.True(t, n.key.LessThan(n.right.key))
		}

		lh, rh := walk(n.left), walk(n.right)
		require.Equal(t, lh, rh, "black height differs under %v", n)

		if n.color == black {
			return lh + 1
		}

		return lh
	}

	return walk(tree.root)
}

func TestTree_AddGetRemove(t *testing.T) {
	t.Parallel()

	tree := NewTree[sortable.Value, string]()

	assert.True(t, tree.Add(key(2), "two"))
	assert.True(t, tree.Add(key("a"), "a"))
	assert.True(t, tree.Add(key(nil), "null"))
	assert.False(t, tree.Add(key(2.0), "two again"))
	assert.Equal(t, 3, tree.Size())

	v, ok := tree.Get(key(uint8(2)))
	require.True(t, ok)
	assert.Equal(t, "two again", v)

	assert.True(t, tree.Contains(key("a")))
	assert.False(t, tree.Contains(key("b")))

	assert.True(t, tree.Remove(key(2)))
	assert.False(t, tree.Remove(key(2)))
	assert.Equal(t, 2, tree.Size())

	_, ok = tree.Get(key(2))
	assert.False(t, ok)

	tree.Clear()
	assert.Equal(t, 0, tree.Size())
	assert.Empty(t, tree.Keys())
}

func TestTree_OrderAcrossCategories(t *testing.T) {
	t.Parallel()

	tree := NewTree[sortable.Value, int]()

	for i, v := range []any{"b", []any{1}, true, 3, typewise.Undefined, nil, "a", 1.5, []byte("x")} {
		tree.Add(key(v), i)
	}

	keys := make([]any, 0, tree.Size())
	for k := range tree.Seq() {
		keys = append(keys, k.Any())
	}

	assert.Equal(t, []any{typewise.Undefined, nil, true, 1.5, 3, []byte("x"), "a", "b", []any{1}}, keys)

	var desc []any
	for k := range tree.Descend() {
		desc = append(desc, k.Any())
	}

	slices.Reverse(desc)
	assert.Equal(t, keys, desc)
}

func TestTree_OrderedQueries(t *testing.T) {
	t.Parallel()

	tree := NewTree[intKey, string]()
	for _, k := range []intKey{10, 20, 30, 40} {
		tree.Add(k, "")
	}

	tests := []struct {
		name    string
		query   func(intKey) (intKey, string, bool)
		arg     intKey
		want    intKey
		wantHit bool
	}{
		{name: "floor exact", query: tree.Floor, arg: 20, want: 20, wantHit: true},
		{name: "floor between", query: tree.Floor, arg: 25, want: 20, wantHit: true},
		{name: "floor below all", query: tree.Floor, arg: 5},
		{name: "ceiling exact", query: tree.Ceiling, arg: 30, want: 30, wantHit: true},
		{name: "ceiling between", query: tree.Ceiling, arg: 25, want: 30, wantHit: true},
		{name: "ceiling above all", query: tree.Ceiling, arg: 45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, _, ok := tt.query(tt.arg)
			assert.Equal(t, tt.wantHit, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	k, _, ok := tree.Min()
	require.True(t, ok)
	assert.Equal(t, intKey(10), k)

	k, _, ok = tree.Max()
	require.True(t, ok)
	assert.Equal(t, intKey(40), k)

	assert.Equal(t, []intKey{20, 30}, collect(tree.Range(15, 40)))
	assert.Equal(t, []intKey{20, 30, 40}, collect(tree.Range(20, 100)))
	assert.Empty(t, collect(tree.Range(31, 39)))
	assert.Equal(t, []intKey{30, 40}, collect(tree.Ascend(21)))

	empty := NewTree[intKey, string]()
	_, _, ok = empty.Min()
	assert.False(t, ok)
	_, _, ok = empty.Max()
	assert.False(t, ok)
}

func TestTree_EarlyBreak(t *testing.T) {
	t.Parallel()

	tree := NewTree[intKey, int]()
	for i := range 10 {
		tree.Add(intKey(i), i)
	}

	var seen []intKey

	for k := range tree.Seq() {
		if k == 3 {
			break
		}

		seen = append(seen, k)
	}

	assert.Equal(t, []intKey{0, 1, 2}, seen)
}

func TestTree_RandomizedInvariants(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(1, 2)) //nolint:gosec
	tree := NewTree[intKey, int]()
	reference := make(map[intKey]int)

	for i := range 4000 {
		k := intKey(rng.IntN(500))

		if rng.IntN(3) == 0 {
			_, had := reference[k]
			assert.Equal(t, had, tree.Remove(k))
			delete(reference, k)
		} else {
			_, had := reference[k]
			assert.Equal(t, !had, tree.Add(k, i))
			reference[k] = i
		}

		if i%250 == 0 {
			checkInvariants(t, tree)
		}
	}

	checkInvariants(t, tree)
	require.Equal(t, len(reference), tree.Size())

	want := make([]intKey, 0, len(reference))
	for k := range reference {
		want = append(want, k)
	}

	slices.Sort(want)
	assert.Equal(t, want, tree.Keys())

	for _, k := range want {
		tree.Remove(k)
	}

	assert.Equal(t, 0, tree.Size())
	assert.Nil(t, tree.root)
}

func collect[K sortable.Sortable[K], V any](seq iter.Seq2[K, V]) []K {
	var out []K

	for k := range seq {
		out = append(out, k)
	}

	return out
}
