package tree

import (
	"errors"
	"iter"

	"github.com/benz9527/xtree/lib/infra"
)

var (
	ErrDuplicateValue = errors.New("[bst] duplicated values are not supported")
	ErrValueNotFound  = errors.New("[bst] given value was not found")
	ErrEmptyTree      = errors.New("[bst] empty tree")
)

type BSTRemoveCase uint8

const (
	RemoveLeaf BSTRemoveCase = iota
	RemoveOneChild
	RemoveTwoChildren
)

func (c BSTRemoveCase) String() string {
	switch c {
	case RemoveLeaf:
		return "leaf"
	case RemoveOneChild:
		return "one-child"
	case RemoveTwoChildren:
		return "two-children"
	default:
	}
	return "unknown"
}

// BSTNode is the read-only view of a node owned by an OrderedTree.
// The node's value may change after a two children removal, the node
// itself is kept in place and takes over its in-order predecessor's value.
type BSTNode[V infra.OrderedKey] interface {
	Val() V
	Left() BSTNode[V]
	Right() BSTNode[V]
}

// OrderedTree is an unbalanced binary search tree of unique values.
// It is not safe for concurrent use.
type OrderedTree[V infra.OrderedKey] interface {
	Len() int64
	IsEmpty() bool
	Height() int
	Root() BSTNode[V]
	Insert(val V) error
	InsertAll(vals ...V) error
	Contains(val V) bool
	Lookup(val V) (BSTNode[V], bool)
	Get(val V) (BSTNode[V], error)
	Remove(val V) bool
	MustRemove(val V) error
	RemoveAll(vals ...V) int64
	Min() (V, error)
	Max() (V, error)
	All() iter.Seq[V]
	Foreach(action func(idx int64, val V) bool)
	Values() []V
	String() string
	Release()
}
