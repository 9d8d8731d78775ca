package tree

// References:
// https://elixir.bootlin.com/linux/latest/source/lib/rbtree.c
// Introduction to Algorithms (3rd), chapter 13.
// rbtree properties:
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// p1. Every node is either red or black.
// p2. The root is black.
// p3. The sentinel (NIL) is black.
// p4. A red node does not have a red child. (red-violation)
// p5. Every path from a given node to any of its descendant
//   NIL nodes goes through the same number of black nodes. (black-violation)
// p6. In-order keys are strictly increasing.

/*
		 |                         |
		 X                         S
		/ \     rotateLeft(X)     / \
	   L   S    ============>    X   Sd
		  / \                   / \
		Sc   Sd                L   Sc
*/
func (s *RBSet[T]) rotateLeft(x *RBNode[T]) {
	if s.isNil(x) || s.isNil(x.right) {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] left rotate node x is nil or x.right is nil")
	}

	y := x.right
	s.setRightChild(x, y.left)
	s.replaceChild(x, y)
	s.setLeftChild(y, x)
}

/*
		 |                         |
		 X                         L
		/ \     rotateRight(X)    / \
	   L   S    ============>    Ld  X
	  / \                           / \
	Ld   Lc                        Lc  S
*/
func (s *RBSet[T]) rotateRight(x *RBNode[T]) {
	if s.isNil(x) || s.isNil(x.left) {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] right rotate node x is nil or x.left is nil")
	}

	y := x.left
	s.setLeftChild(x, y.right)
	s.replaceChild(x, y)
	s.setRightChild(y, x)
}

// replaceChild hooks y into x's parent slot. y's parent link is written
// unconditionally, so it may be the sentinel (transplant relies on it).
func (s *RBSet[T]) replaceChild(x, y *RBNode[T]) {
	p := x.parent
	switch {
	case s.isNil(p):
		s.root = y
	case x == p.left:
		p.left = y
	default:
		p.right = y
	}
	y.parent = p
}

// locate descends from the root. It returns the node holding an equal
// key if any, otherwise the parent and side the new key belongs to.
func (s *RBSet[T]) locate(val T) (parent *RBNode[T], dir RBDirection, found *RBNode[T]) {
	parent, dir = s.sentinel, Root
	for x := s.root; !s.isNil(x); {
		parent = x
		if /* less */ s.less(val, x.val) {
			x, dir = x.left, Left
		} else if /* greater */ s.less(x.val, val) {
			x, dir = x.right, Right
		} else /* equal */ {
			return parent, dir, x
		}
	}
	return parent, dir, nil
}

// attach links z as a red leaf at the slot found by locate and restores
// the rbtree properties.
func (s *RBSet[T]) attach(z, parent *RBNode[T], dir RBDirection) {
	z.left, z.right, z.color = s.sentinel, s.sentinel, Red
	z.parent = parent
	switch dir {
	case Root:
		s.root = z
	case Left:
		s.setLeftChild(parent, z)
	case Right:
		s.setRightChild(parent, z)
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] unknown node direction to attach")
	}
	s.size++
	s.insertFixup(z)
}

/*
New node Z is red by default.

<X> is a RED node.
[X] is a BLACK node (or NIL).

The loop runs only while Z's parent P is red, so the grandpa G exists
and is black.

im1: The uncle U is red (red-violation).
Repaint P and U into black, G into red. G may now violate with its
own parent, continue with G.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<Z>             <Z>

im2: The uncle U is black and Z is the inner child.
Rotate P towards the outside. Z takes P's place and P becomes the outer
child, enter im3.

	  [G]                 [G]
	  / \    rotate(P)    / \
	<P> [U]  ========>  <Z> [U]
	  \                 /
	  <Z>             <P>

im3: The uncle U is black and Z is the outer child.
Repaint P into black, G into red and rotate G. The loop terminates.

	    [G]                 <P>               [P]
	    / \    rotate(G)    / \    repaint    / \
	  <P> [U]  ========>  <Z> [G]  ======>  <Z> <G>
	  /                         \                 \
	<Z>                         [U]               [U]
*/
func (s *RBSet[T]) insertFixup(z *RBNode[T]) {
	for z.parent.color == Red {
		p := z.parent
		g := p.parent
		if p == g.left {
			if u := g.right; /* im1 */ u.color == Red {
				p.color, u.color, g.color = Black, Black, Red
				z = g
				continue
			}
			if /* im2 */ z == p.right {
				z = p
				s.rotateLeft(z)
				p = z.parent
			}
			/* im3 */
			p.color, g.color = Black, Red
			s.rotateRight(g)
		} else {
			if u := g.left; /* im1 */ u.color == Red {
				p.color, u.color, g.color = Black, Black, Red
				z = g
				continue
			}
			if /* im2 */ z == p.left {
				z = p
				s.rotateRight(z)
				p = z.parent
			}
			/* im3 */
			p.color, g.color = Black, Red
			s.rotateLeft(g)
		}
	}
	s.root.color = Black
}

// transplant replaces the subtree rooted at u by the one rooted at v in
// u's parent's eyes. u's children are left untouched.
func (s *RBSet[T]) transplant(u, v *RBNode[T]) {
	s.replaceChild(u, v)
}

/*
r1: Z has no left child, the right subtree takes Z's place.

r2: Z has no right child, the left subtree takes Z's place.

r3: Z has both children. Its succ Y (minimum of the right subtree, so
Y has no left child) takes Z's place and inherits Z's color. Y's right
child X fills the hole Y leaves behind.

	  |                       |
	  Z                       Y
	 / \                     / \
	L   R    ==========>    L   R
	   / \                     / \
	  Y  ..                   X  ..
	   \
	    X

X may be the sentinel. Its parent link is set anyway so the fixup can
climb from it.
If the node removed from its position was black, X carries an extra
black and the fixup has to run.
*/
func (s *RBSet[T]) deleteNode(z *RBNode[T]) {
	y, yColor := z, z.color
	var x *RBNode[T]
	if /* r1 */ s.isNil(z.left) {
		x = z.right
		s.transplant(z, z.right)
	} else if /* r2 */ s.isNil(z.right) {
		x = z.left
		s.transplant(z, z.left)
	} else /* r3 */ {
		y = s.minimum(z.right)
		yColor = y.color
		x = y.right
		if y.parent == z {
			x.parent = y
		} else {
			s.transplant(y, y.right)
			s.setRightChild(y, z.right)
		}
		s.transplant(z, y)
		s.setLeftChild(y, z.left)
		y.color = z.color
	}

	if yColor == Black {
		s.deleteFixup(x)
	}
	s.reinstateSentinel()
	s.size--
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

X is the node carrying an extra black, S its sibling.
Sc is S's child on X's side, Sd the child on the opposite side.

rm1: S is red, so P, Sc and Sd are black.
Repaint S into black, P into red and rotate P towards X. The new
sibling is black, enter rm2-rm4.

	  [P]                   <S>               [S]
	  / \    l-rotate(P)    / \    repaint    / \
	[X] <S>  ==========>  [P] [Sd]  ======>  <P> [Sd]
	    / \               / \               / \
	 [Sc] [Sd]          [X] [Sc]          [X] [Sc]

rm2: S, Sc and Sd are black.
Repaint S into red and move the extra black up to P. If P is red the
loop stops and P is painted black below.

	  {P}             {P}
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

rm3: S is black, Sc is red and Sd is black.
Repaint Sc into black, S into red and rotate S away from X, enter rm4.

	                        {P}                {P}
	  {P}                   / \                / \
	  / \    r-rotate(S)  [X] <Sc>   repaint  [X] [Sc]
	[X] [S]  ==========>        \    ======>       \
	    / \                     [S]                <S>
	  <Sc> [Sd]                   \                  \
	                              [Sd]               [Sd]

rm4: S is black and Sd is red.
S takes P's color, P and Sd are painted black and P rotates towards X.
The extra black is absorbed, the loop terminates.

	  {P}                   [S]                {S}
	  / \    l-rotate(P)    / \     repaint    / \
	[X] [S]  ==========>  {P} <Sd>  ======>  [P] [Sd]
	    / \               / \                / \
	 [Sc] <Sd>          [X] [Sc]           [X] [Sc]
*/
func (s *RBSet[T]) deleteFixup(x *RBNode[T]) {
	for x != s.root && x.color == Black {
		p := x.parent
		if x == p.left {
			w := p.right
			if /* rm1 */ w.color == Red {
				w.color, p.color = Black, Red
				s.rotateLeft(p)
				w = p.right
			}
			if /* rm2 */ w.left.color == Black && w.right.color == Black {
				w.color = Red
				x = p
				continue
			}
			if /* rm3 */ w.right.color == Black {
				w.left.color, w.color = Black, Red
				s.rotateRight(w)
				w = p.right
			}
			/* rm4 */
			w.color, p.color, w.right.color = p.color, Black, Black
			s.rotateLeft(p)
			x = s.root
		} else {
			w := p.left
			if /* rm1 */ w.color == Red {
				w.color, p.color = Black, Red
				s.rotateRight(p)
				w = p.left
			}
			if /* rm2 */ w.right.color == Black && w.left.color == Black {
				w.color = Red
				x = p
				continue
			}
			if /* rm3 */ w.left.color == Black {
				w.right.color, w.color = Black, Red
				s.rotateLeft(w)
				w = p.left
			}
			/* rm4 */
			w.color, p.color, w.left.color = p.color, Black, Black
			s.rotateRight(p)
			x = s.root
		}
	}
	x.color = Black
}
