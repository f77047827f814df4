package tree

import (
	"fmt"

	"github.com/benz9527/xtree/lib/infra"
)

// bst rule validation utilities.

// Inorder traversal to validate the values are strictly ascending.
// It proves both the ordering and no duplicates.
func OrderViolationValidate[V infra.OrderedKey](tree OrderedTree[V]) error {
	var (
		prev V
		err  error
	)
	tree.Foreach(func(idx int64, val V) bool {
		if idx > 0 && infra.OrderedKeyCompare[V](prev, val) >= 0 {
			err = fmt.Errorf("[bst] order violation at index %d, %v is not less than %v", idx, prev, val)
			return false
		}
		prev = val
		return true
	})
	return err
}

// Preorder traversal to count the reachable nodes.
func CountViolationValidate[V infra.OrderedKey](tree OrderedTree[V]) error {
	root := tree.Root()
	if root == nil {
		if tree.Len() != 0 {
			return fmt.Errorf("[bst] count violation, empty tree with length %d", tree.Len())
		}
		return nil
	}

	reachable := int64(0)
	stack := []BSTNode[V]{root}
	defer func() {
		clear(stack)
	}()
	for len(stack) > 0 {
		aux := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		reachable++
		if l := aux.Left(); l != nil {
			stack = append(stack, l)
		}
		if r := aux.Right(); r != nil {
			stack = append(stack, r)
		}
	}
	if reachable != tree.Len() {
		return fmt.Errorf("[bst] count violation, %d reachable nodes but length %d", reachable, tree.Len())
	}
	return nil
}
