package tree

import (
	"fmt"
	"iter"
	"strings"

	"go.uber.org/multierr"

	"github.com/benz9527/xtree/lib/infra"
)

type bstNode[V infra.OrderedKey] struct {
	left  *bstNode[V]
	right *bstNode[V]
	val   V
}

func (node *bstNode[V]) Val() V {
	return node.val
}

func (node *bstNode[V]) Left() BSTNode[V] {
	if node == nil || node.left == nil {
		return nil
	}
	return node.left
}

func (node *bstNode[V]) Right() BSTNode[V] {
	if node == nil || node.right == nil {
		return nil
	}
	return node.right
}

func (node *bstNode[V]) isLeaf() bool {
	return node.left == nil && node.right == nil
}

func (node *bstNode[V]) hasTwoChildren() bool {
	return node.left != nil && node.right != nil
}

// The only child of a node with one child.
func (node *bstNode[V]) child() *bstNode[V] {
	if node.left != nil {
		return node.left
	}
	return node.right
}

func (node *bstNode[V]) minimum() *bstNode[V] {
	aux := node
	for ; aux != nil && aux.left != nil; aux = aux.left {
	}
	return aux
}

func (node *bstNode[V]) maximum() *bstNode[V] {
	aux := node
	for ; aux != nil && aux.right != nil; aux = aux.right {
	}
	return aux
}

// The pred node is the rightmost node of the left subtree.
// Nodes are not linked to their parents, so a node without left
// subtree has no pred here.
func (node *bstNode[V]) pred() *bstNode[V] {
	if node == nil {
		return nil
	}
	return node.left.maximum()
}

type bsTree[V infra.OrderedKey] struct {
	root  *bstNode[V]
	count int64
	stats *bstStats
}

func (tree *bsTree[V]) valCompare(v1, v2 V) int64 {
	return infra.OrderedKeyCompare[V](v1, v2)
}

func (tree *bsTree[V]) Len() int64 {
	return tree.count
}

func (tree *bsTree[V]) IsEmpty() bool {
	return tree.root == nil
}

func (tree *bsTree[V]) Root() BSTNode[V] {
	if tree.root == nil {
		return nil
	}
	return tree.root
}

// Height counts the nodes on the longest root to leaf path.
// Level order traversal, so a degenerated tree does not exhaust
// the goroutine stack.
func (tree *bsTree[V]) Height() int {
	if tree.root == nil {
		return 0
	}
	height := 0
	level := []*bstNode[V]{tree.root}
	for len(level) > 0 {
		height++
		next := make([]*bstNode[V], 0, len(level)<<1)
		for _, n := range level {
			if n.left != nil {
				next = append(next, n.left)
			}
			if n.right != nil {
				next = append(next, n.right)
			}
		}
		level = next
	}
	return height
}

/*
i1: Empty tree, the new value becomes the root.

i2: Descend from the root, left if smaller, right if greater.
Attach the new node at the nil slot reached.

	    4                4
	   / \   insert(3)  / \
	  2   5  ======>   2   5
	 /                / \
	1                1   3

i3: An equal node found, reject the value without any allocation.
*/
func (tree *bsTree[V]) Insert(val V) error {
	if /* i1 */ tree.root == nil {
		tree.root = &bstNode[V]{val: val}
		tree.count++
		tree.stats.RecordNodeCount(1)
		return nil
	}

	var x, y *bstNode[V] = tree.root, nil
	for x != nil {
		y = x
		res := tree.valCompare(val, x.val)
		if /* i3 */ res == 0 {
			tree.stats.IncreaseDuplicateCount()
			return ErrDuplicateValue
		} else /* less */ if res < 0 {
			x = x.left
		} else /* greater */ {
			x = x.right
		}
	}

	if y == nil {
		// impossible run to here
		panic( /* debug assertion */ "[bst] insert a new value under nil node")
	}

	if /* i2 */ tree.valCompare(val, y.val) < 0 {
		y.left = &bstNode[V]{val: val}
	} else {
		y.right = &bstNode[V]{val: val}
	}
	tree.count++
	tree.stats.RecordNodeCount(1)
	return nil
}

// InsertAll keeps inserting after a duplicate, all rejected values
// are reported by the combined error.
func (tree *bsTree[V]) InsertAll(vals ...V) error {
	var merr error
	for _, val := range vals {
		if err := tree.Insert(val); err != nil {
			merr = multierr.Append(merr, fmt.Errorf("value %v: %w", val, err))
		}
	}
	return merr
}

func (tree *bsTree[V]) search(val V) *bstNode[V] {
	for aux := tree.root; aux != nil; {
		res := tree.valCompare(val, aux.val)
		if res == 0 {
			return aux
		} else if res < 0 {
			aux = aux.left
		} else {
			aux = aux.right
		}
	}
	return nil
}

func (tree *bsTree[V]) Contains(val V) bool {
	return tree.search(val) != nil
}

func (tree *bsTree[V]) Lookup(val V) (BSTNode[V], bool) {
	if x := tree.search(val); x != nil {
		return x, true
	}
	return nil, false
}

func (tree *bsTree[V]) Get(val V) (BSTNode[V], error) {
	if x := tree.search(val); x != nil {
		return x, nil
	}
	return nil, ErrValueNotFound
}

// parentOf re-walks from the root by the node's value and stops at the
// node itself. The root has no parent.
func (tree *bsTree[V]) parentOf(x *bstNode[V]) *bstNode[V] {
	var p *bstNode[V]
	for aux := tree.root; aux != nil && aux != x; {
		p = aux
		if tree.valCompare(x.val, aux.val) < 0 {
			aux = aux.left
		} else {
			aux = aux.right
		}
	}
	return p
}

// replace puts the substitute into the slot of x held by its parent p.
func (tree *bsTree[V]) replace(p, x, substitute *bstNode[V]) {
	switch {
	case p == nil:
		tree.root = substitute
	case p.left == x:
		p.left = substitute
	case p.right == x:
		p.right = substitute
	default:
		// impossible run to here
		panic( /* debug assertion */ "[bst] node is not linked to its parent")
	}
}

/*
r1: X is a leaf, unlink it from its parent (or clear the root).

r2: X has one child C, splice C into X's slot.

	|               |
	X               C
	 \   ======>   / \
	  C           ..  ..
	 / \

r3: X has two children, borrow the pred P (rightmost node of X's
left subtree). P has no right child, but maybe a left child L.
Copy P's value into X, then splice L into P's former slot.
P's parent has to be found before the copy, the re-walk relies on
X still holding its original value.

	  |                     |
	  X                     P
	 / \                   / \
	A   ..  ======>       A   ..
	 \                     \
	  P                     L
	 /
	L
*/
func (tree *bsTree[V]) removeNode(x *bstNode[V]) BSTRemoveCase {
	if /* r1 */ x.isLeaf() {
		tree.replace(tree.parentOf(x), x, nil)
		return RemoveLeaf
	}

	if /* r2 */ !x.hasTwoChildren() {
		c := x.child()
		tree.replace(tree.parentOf(x), x, c)
		x.left, x.right = nil, nil
		return RemoveOneChild
	}

	/* r3 */
	y := x.pred()
	if y == nil || y.right != nil {
		// impossible run to here
		panic( /* debug assertion */ "[bst] pred of a two children node is broken")
	}
	p := tree.parentOf(y)
	x.val = y.val
	tree.replace(p, y, y.left)
	y.left = nil
	return RemoveTwoChildren
}

// Remove of an absent value is a no-op.
func (tree *bsTree[V]) Remove(val V) bool {
	x := tree.search(val)
	if x == nil {
		tree.stats.IncreaseRemoveMissCount()
		return false
	}
	c := tree.removeNode(x)
	tree.count--
	tree.stats.IncreaseRemoveCount(c)
	tree.stats.RecordNodeCount(-1)
	return true
}

func (tree *bsTree[V]) MustRemove(val V) error {
	if !tree.Remove(val) {
		return ErrValueNotFound
	}
	return nil
}

func (tree *bsTree[V]) RemoveAll(vals ...V) int64 {
	removed := int64(0)
	for _, val := range vals {
		if tree.Remove(val) {
			removed++
		}
	}
	return removed
}

func (tree *bsTree[V]) Min() (V, error) {
	if tree.root == nil {
		var zero V
		return zero, ErrEmptyTree
	}
	return tree.root.minimum().val, nil
}

func (tree *bsTree[V]) Max() (V, error) {
	if tree.root == nil {
		var zero V
		return zero, ErrEmptyTree
	}
	return tree.root.maximum().val, nil
}

// All returns the ascending sequence of values. Every call starts a new
// inorder walk. Mutating the tree while ranging over it is undefined.
func (tree *bsTree[V]) All() iter.Seq[V] {
	return func(yield func(V) bool) {
		tree.inorder(func(_ int64, node *bstNode[V]) bool {
			return yield(node.val)
		})
	}
}

// Inorder traversal to implement the DFS.
func (tree *bsTree[V]) inorder(action func(idx int64, node *bstNode[V]) bool) {
	aux := tree.root
	if aux == nil {
		return
	}

	stack := make([]*bstNode[V], 0, 16)
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.left {
		stack = append(stack, aux)
	}

	idx := int64(0)
	for size := len(stack); size > 0; size = len(stack) {
		if aux = stack[size-1]; !action(idx, aux) {
			return
		}
		idx++
		stack = stack[:size-1]
		for aux = aux.right; aux != nil; aux = aux.left {
			stack = append(stack, aux)
		}
	}
}

func (tree *bsTree[V]) Foreach(action func(idx int64, val V) bool) {
	tree.inorder(func(idx int64, node *bstNode[V]) bool {
		return action(idx, node.val)
	})
}

func (tree *bsTree[V]) Values() []V {
	vals := make([]V, 0, tree.count)
	for val := range tree.All() {
		vals = append(vals, val)
	}
	return vals
}

// String renders the values like [1, 2, 3].
func (tree *bsTree[V]) String() string {
	builder := strings.Builder{}
	_, _ = builder.WriteString("[")
	tree.Foreach(func(idx int64, val V) bool {
		if idx > 0 {
			_, _ = builder.WriteString(", ")
		}
		_, _ = fmt.Fprint(&builder, val)
		return true
	})
	_, _ = builder.WriteString("]")
	return builder.String()
}

// Release unlinks the nodes in postorder, children before their parent.
func (tree *bsTree[V]) Release() {
	aux := tree.root
	tree.root = nil
	if aux == nil {
		return
	}

	released := int64(0)
	stack := make([]*bstNode[V], 0, 16)
	defer func() {
		clear(stack)
	}()

	var last *bstNode[V]
	for aux != nil || len(stack) > 0 {
		if aux != nil {
			stack = append(stack, aux)
			aux = aux.left
			continue
		}
		top := stack[len(stack)-1]
		if top.right != nil && top.right != last {
			aux = top.right
			continue
		}
		stack = stack[:len(stack)-1]
		top.left, top.right = nil, nil
		released++
		last = top
	}
	tree.count = 0
	tree.stats.RecordNodeCount(-released)
}

type BSTreeOpt[V infra.OrderedKey] func(*bsTree[V])

// WithBSTreeStats exports the tree metrics by the global otel meter provider.
func WithBSTreeStats[V infra.OrderedKey](name string) BSTreeOpt[V] {
	return func(tree *bsTree[V]) {
		tree.stats = newBSTStats(name)
	}
}

func NewBSTree[V infra.OrderedKey](opts ...BSTreeOpt[V]) OrderedTree[V] {
	tree := &bsTree[V]{
		count: 0,
	}

	for _, o := range opts {
		if o == nil {
			continue
		}
		o(tree)
	}
	return tree
}
