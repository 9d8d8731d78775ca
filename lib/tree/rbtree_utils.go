package tree

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// rbtree rule validation utilities.

var (
	errRBTreeRedViolation      = errors.New("[rbtree] red violation")
	errRBTreeBlackViolation    = errors.New("[rbtree] black violation")
	errRBTreeOrderViolation    = errors.New("[rbtree] order violation")
	errRBTreeSentinelViolation = errors.New("[rbtree] sentinel violation")
	errRBTreeLinkViolation     = errors.New("[rbtree] parent link violation")
	errRBTreeSizeViolation     = errors.New("[rbtree] size violation")
)

// Inorder traversal to validate that no red node has a red child.
func RedViolationValidate[T any](s *RBSet[T]) error {
	stack := make([]*RBNode[T], 0, 64)
	defer func() {
		clear(stack)
	}()

	for aux := s.root; !s.isNil(aux); aux = aux.left {
		stack = append(stack, aux)
	}
	for size := len(stack); size > 0; size = len(stack) {
		aux := stack[size-1]
		stack = stack[:size-1]
		if aux.color == Red && (aux.left.color == Red || aux.right.color == Red) {
			return fmt.Errorf("%w at %v", errRBTreeRedViolation, aux.val)
		}
		for aux = aux.right; !s.isNil(aux); aux = aux.left {
			stack = append(stack, aux)
		}
	}
	return nil
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).

	        [13]
			/  \
		 <8>    [15]
		 / \    /  \
	  [6] [11] [14] [17]
	  /              /
	<1>            [16]

Every path from a node to its NIL leaves crosses the same number of
black nodes. Checked bottom-up for every node, not only the root.
*/
func BlackViolationValidate[T any](s *RBSet[T]) error {
	_, err := blackHeight(s, s.root)
	return err
}

func blackHeight[T any](s *RBSet[T], x *RBNode[T]) (int, error) {
	if s.isNil(x) {
		return 1, nil
	}
	l, err := blackHeight(s, x.left)
	if err != nil {
		return 0, err
	}
	r, err := blackHeight(s, x.right)
	if err != nil {
		return 0, err
	}
	if l != r {
		return 0, fmt.Errorf("%w at %v, left %d right %d", errRBTreeBlackViolation, x.val, l, r)
	}
	if x.color == Black {
		l++
	}
	return l, nil
}

// OrderViolationValidate checks that the in-order walk is strictly
// increasing and that it visits exactly Len elements.
func OrderViolationValidate[T any](s *RBSet[T]) error {
	count := int64(0)
	var prev *RBNode[T]
	for x := s.minimum(s.root); !s.isNil(x); x = s.successor(x) {
		if prev != nil && !s.less(prev.val, x.val) {
			return fmt.Errorf("%w between %v and %v", errRBTreeOrderViolation, prev.val, x.val)
		}
		prev = x
		count++
	}
	if count != s.size {
		return fmt.Errorf("%w, walked %d, recorded %d", errRBTreeSizeViolation, count, s.size)
	}
	return nil
}

// SentinelViolationValidate checks the color rules of the root and the
// sentinel, the sentinel self links and every parent back link.
func SentinelViolationValidate[T any](s *RBSet[T]) error {
	var merr error
	if s.sentinel.color != Black {
		merr = multierr.Append(merr, fmt.Errorf("%w, sentinel is red", errRBTreeSentinelViolation))
	}
	if s.sentinel.left != s.sentinel || s.sentinel.right != s.sentinel || s.sentinel.parent != s.sentinel {
		merr = multierr.Append(merr, fmt.Errorf("%w, sentinel links are not reinstated", errRBTreeSentinelViolation))
	}
	if s.isNil(s.root) {
		return merr
	}
	if s.root.color != Black {
		merr = multierr.Append(merr, fmt.Errorf("%w, root is red", errRBTreeSentinelViolation))
	}
	if s.root.parent != s.sentinel {
		merr = multierr.Append(merr, fmt.Errorf("%w, root parent is not the sentinel", errRBTreeLinkViolation))
	}
	stack := []*RBNode[T]{s.root}
	for l := len(stack); l > 0; l = len(stack) {
		x := stack[l-1]
		stack = stack[:l-1]
		for _, child := range [2]*RBNode[T]{x.left, x.right} {
			if s.isNil(child) {
				continue
			}
			if child.parent != x {
				return multierr.Append(merr, fmt.Errorf("%w at %v", errRBTreeLinkViolation, child.val))
			}
			stack = append(stack, child)
		}
	}
	return merr
}

// Validate runs every rbtree rule check and combines the violations.
func Validate[T any](s *RBSet[T]) error {
	return multierr.Combine(
		SentinelViolationValidate(s),
		RedViolationValidate(s),
		BlackViolationValidate(s),
		OrderViolationValidate(s),
	)
}

// height is the number of nodes on the longest root to leaf path.
func height[T any](s *RBSet[T], x *RBNode[T]) int {
	if s.isNil(x) {
		return 0
	}
	return 1 + max(height(s, x.left), height(s, x.right))
}
