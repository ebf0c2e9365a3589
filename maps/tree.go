package maps

import (
	"fmt"
	"iter"

	"github.com/amp-labs/typewise/sortable"
)

// color represents the color of a red-black tree node.
type color bool

const (
	black, red color = true, false
)

// String returns a human-readable representation of the node color.
func (c color) String() string {
	if c == black {
		return "Black"
	}

	return "Red"
}

// node is a single red-black tree node. nil children are the black leaves.
type node[K sortable.Sortable[K], V any] struct {
	key    K
	value  V
	color  color
	left   *node[K, V]
	right  *node[K, V]
	parent *node[K, V]
}

func (n *node[K, V]) String() string {
	return fmt.Sprintf("(%v : %s)", n.key, n.color)
}

// Tree is a red-black tree implementation of SortedMap. It enforces:
//  1. Every node is either red or black
//  2. The root is black
//  3. All leaves (nil nodes) are black
//  4. Red nodes cannot have red children
//  5. Every path from a node to its leaves contains the same number of black nodes
//
// Lookups, insertions and deletions are O(log n) key comparisons.
type Tree[K sortable.Sortable[K], V any] struct {
	root *node[K, V]
	size int
}

// Compile-time check that Tree implements SortedMap.
var _ SortedMap[sortable.Value, any] = (*Tree[sortable.Value, any])(nil)

// NewTree creates an empty red-black tree.
func NewTree[K sortable.Sortable[K], V any]() *Tree[K, V] {
	return &Tree[K, V]{}
}

func (t *Tree[K, V]) find(key K) *node[K, V] {
	n := t.root

	for n != nil {
		switch {
		case key.Equals(n.key):
			return n
		case key.LessThan(n.key):
			n = n.left
		default:
			n = n.right
		}
	}

	return nil
}

func (t *Tree[K, V]) Get(key K) (V, bool) {
	if n := t.find(key); n != nil {
		return n.value, true
	}

	var zero V

	return zero, false
}

func (t *Tree[K, V]) Contains(key K) bool {
	return t.find(key) != nil
}

func (t *Tree[K, V]) Size() int {
	return t.size
}

func (t *Tree[K, V]) Clear() {
	t.root = nil
	t.size = 0
}

// Add inserts or updates a key-value pair. New nodes are red and the tree is
// rebalanced afterwards.
func (t *Tree[K, V]) Add(key K, value V) bool {
	var parent *node[K, V]

	n := t.root
	less := false

	for n != nil {
		if key.Equals(n.key) {
			n.value = value

			return false
		}

		parent = n
		less = key.LessThan(n.key)

		if less {
			n = n.left
		} else {
			n = n.right
		}
	}

	z := &node[K, V]{key: key, value: value, color: red, parent: parent}

	switch {
	case parent == nil:
		t.root = z
	case less:
		parent.left = z
	default:
		parent.right = z
	}

	t.size++
	t.fixupAdd(z)

	return true
}

// Remove deletes key and rebalances the tree.
//
//nolint:varnamelen // Standard red-black tree variable names from CLRS
func (t *Tree[K, V]) Remove(key K) bool {
	z := t.find(key)
	if z == nil {
		return false
	}

	y := z
	yColor := y.color

	// x takes y's place. It may be a nil leaf, so its parent is tracked separately.
	var x, xParent *node[K, V]

	switch {
	case z.left == nil:
		x, xParent = z.right, z.parent
		t.transplant(z, z.right)
	case z.right == nil:
		x, xParent = z.left, z.parent
		t.transplant(z, z.left)
	default:
		y = minimum(z.right)
		yColor = y.color
		x = y.right

		if y.parent == z {
			xParent = y
		} else {
			xParent = y.parent
			t.transplant(y, y.right)
			y.right = z.right
			y.right.parent = y
		}

		t.transplant(z, y)
		y.left = z.left
		y.left.parent = y
		y.color = z.color
	}

	t.size--

	if yColor == black {
		t.fixupRemove(x, xParent)
	}

	return true
}

func (t *Tree[K, V]) Min() (K, V, bool) {
	return entry(minimum(t.root))
}

func (t *Tree[K, V]) Max() (K, V, bool) {
	return entry(maximum(t.root))
}

func (t *Tree[K, V]) Floor(key K) (K, V, bool) {
	return entry(t.floor(key))
}

func (t *Tree[K, V]) Ceiling(key K) (K, V, bool) {
	return entry(t.ceiling(key))
}

func (t *Tree[K, V]) Seq() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for n := minimum(t.root); n != nil; n = successor(n) {
			if !yield(n.key, n.value) {
				return
			}
		}
	}
}

func (t *Tree[K, V]) Descend() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for n := maximum(t.root); n != nil; n = predecessor(n) {
			if !yield(n.key, n.value) {
				return
			}
		}
	}
}

func (t *Tree[K, V]) Ascend(from K) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for n := t.ceiling(from); n != nil; n = successor(n) {
			if !yield(n.key, n.value) {
				return
			}
		}
	}
}

func (t *Tree[K, V]) Range(lo, hi K) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for n := t.ceiling(lo); n != nil && n.key.LessThan(hi); n = successor(n) {
			if !yield(n.key, n.value) {
				return
			}
		}
	}
}

func (t *Tree[K, V]) Keys() []K {
	out := make([]K, 0, t.size)

	for k := range t.Seq() {
		out = append(out, k)
	}

	return out
}

func (t *Tree[K, V]) floor(key K) *node[K, V] {
	var best *node[K, V]

	n := t.root

	for n != nil {
		switch {
		case key.Equals(n.key):
			return n
		case key.LessThan(n.key):
			n = n.left
		default:
			best = n
			n = n.right
		}
	}

	return best
}

func (t *Tree[K, V]) ceiling(key K) *node[K, V] {
	var best *node[K, V]

	n := t.root

	for n != nil {
		switch {
		case key.Equals(n.key):
			return n
		case key.LessThan(n.key):
			best = n
			n = n.left
		default:
			n = n.right
		}
	}

	return best
}

// rotateLeft performs a left rotation around node x:
//
//	  x                y
//	 / \              / \
//	A   y      =>    x   C
//	   / \          / \
//	  B   C        A   B
//
//nolint:varnamelen
func (t *Tree[K, V]) rotateLeft(x *node[K, V]) {
	y := x.right
	x.right = y.left

	if y.left != nil {
		y.left.parent = x
	}

	t.replaceChild(x, y)

	y.left = x
	x.parent = y
}

// rotateRight is the mirror of rotateLeft.
//
//nolint:varnamelen
func (t *Tree[K, V]) rotateRight(y *node[K, V]) {
	x := y.left
	y.left = x.right

	if x.right != nil {
		x.right.parent = y
	}

	t.replaceChild(y, x)

	x.right = y
	y.parent = x
}

// replaceChild hooks n into old's position under old's parent.
func (t *Tree[K, V]) replaceChild(old, n *node[K, V]) {
	n.parent = old.parent

	switch {
	case old.parent == nil:
		t.root = n
	case old == old.parent.left:
		old.parent.left = n
	default:
		old.parent.right = n
	}
}

// transplant replaces the subtree rooted at u with the subtree rooted at v, which may be nil.
//
//nolint:varnamelen
func (t *Tree[K, V]) transplant(u, v *node[K, V]) {
	switch {
	case u.parent == nil:
		t.root = v
	case u == u.parent.left:
		u.parent.left = v
	default:
		u.parent.right = v
	}

	if v != nil {
		v.parent = u.parent
	}
}

// fixupAdd restores the red-black properties after inserting the red node z.
//
//nolint:varnamelen,dupl
func (t *Tree[K, V]) fixupAdd(z *node[K, V]) {
	for isRed(z.parent) {
		gp := z.parent.parent

		if z.parent == gp.left {
			y := gp.right
			if isRed(y) {
				z.parent.color = black
				y.color = black
				gp.color = red
				z = gp

				continue
			}

			if z == z.parent.right {
				z = z.parent
				t.rotateLeft(z)
			}

			z.parent.color = black
			z.parent.parent.color = red
			t.rotateRight(z.parent.parent)
		} else {
			y := gp.left
			if isRed(y) {
				z.parent.color = black
				y.color = black
				gp.color = red
				z = gp

				continue
			}

			if z == z.parent.left {
				z = z.parent
				t.rotateRight(z)
			}

			z.parent.color = black
			z.parent.parent.color = red
			t.rotateLeft(z.parent.parent)
		}
	}

	t.root.color = black
}

// fixupRemove restores the black height after a black node was spliced out above x.
// x may be a nil leaf, in which case parent locates it.
//
//nolint:varnamelen,dupl,cyclop
func (t *Tree[K, V]) fixupRemove(x, parent *node[K, V]) {
	for x != t.root && !isRed(x) {
		if x == parent.left {
			w := parent.right
			if isRed(w) {
				w.color = black
				parent.color = red
				t.rotateLeft(parent)
				w = parent.right
			}

			if !isRed(w.left) && !isRed(w.right) {
				w.color = red
				x, parent = parent, parent.parent

				continue
			}

			if !isRed(w.right) {
				w.left.color = black
				w.color = red
				t.rotateRight(w)
				w = parent.right
			}

			w.color = parent.color
			parent.color = black
			w.right.color = black
			t.rotateLeft(parent)

			x = t.root
		} else {
			w := parent.left
			if isRed(w) {
				w.color = black
				parent.color = red
				t.rotateRight(parent)
				w = parent.left
			}

			if !isRed(w.left) && !isRed(w.right) {
				w.color = red
				x, parent = parent, parent.parent

				continue
			}

			if !isRed(w.left) {
				w.right.color = black
				w.color = red
				t.rotateLeft(w)
				w = parent.left
			}

			w.color = parent.color
			parent.color = black
			w.left.color = black
			t.rotateRight(parent)

			x = t.root
		}
	}

	if x != nil {
		x.color = black
	}
}

// isRed reports whether n is red. nil leaves are black.
func isRed[K sortable.Sortable[K], V any](n *node[K, V]) bool {
	return n != nil && n.color == red
}

func minimum[K sortable.Sortable[K], V any](n *node[K, V]) *node[K, V] {
	if n == nil {
		return nil
	}

	for n.left != nil {
		n = n.left
	}

	return n
}

func maximum[K sortable.Sortable[K], V any](n *node[K, V]) *node[K, V] {
	if n == nil {
		return nil
	}

	for n.right != nil {
		n = n.right
	}

	return n
}

func successor[K sortable.Sortable[K], V any](n *node[K, V]) *node[K, V] {
	if n.right != nil {
		return minimum(n.right)
	}

	p := n.parent
	for p != nil && n == p.right {
		n, p = p, p.parent
	}

	return p
}

func predecessor[K sortable.Sortable[K], V any](n *node[K, V]) *node[K, V] {
	if n.left != nil {
		return maximum(n.left)
	}

	p := n.parent
	for p != nil && n == p.left {
		n, p = p, p.parent
	}

	return p
}

func entry[K sortable.Sortable[K], V any](n *node[K, V]) (K, V, bool) {
	if n == nil {
		var (
			k K
			v V
		)

		return k, v, false
	}

	return n.key, n.value, true
}
