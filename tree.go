package ustar

// MutableNode is an owned, editable mirror of an immutable Node tree. It
// is produced once (via NewMutableTree) from a borrowed Node tree and can
// then be rewritten in place -- DecomposeStrings is the only rewrite this
// package ships, but the same ReplaceChild/InsertChild/ReplaceChildren
// primitives are exported for callers writing their own tree transforms.
type MutableNode struct {
	Kind     Kind
	Span     Span
	Children []*MutableNode
}

// NewMutableTree deep-copies n and its descendants into an owned
// MutableNode tree. The copy borrows no state from n; n and its source
// buffer can be discarded afterward (though Text-ing a MutableNode still
// needs the original source bytes, since spans remain byte offsets).
func NewMutableTree(n *Node) *MutableNode {
	if n == nil {
		return nil
	}
	m := &MutableNode{Kind: n.Kind, Span: n.Span}
	if len(n.Children) > 0 {
		m.Children = make([]*MutableNode, len(n.Children))
		for i, c := range n.Children {
			m.Children[i] = NewMutableTree(c)
		}
	}
	return m
}

// ToNode freezes m and its descendants back into an immutable Node tree,
// e.g. to hand a decomposed tree to Walk/WalkWithSource.
func (m *MutableNode) ToNode() *Node {
	if m == nil {
		return nil
	}
	n := &Node{Kind: m.Kind, Span: m.Span}
	if len(m.Children) > 0 {
		n.Children = make([]*Node, len(m.Children))
		for i, c := range m.Children {
			n.Children[i] = c.ToNode()
		}
	}
	return n
}

// Text returns the slice of source covered by m.Span.
func (m *MutableNode) Text(source []byte) string {
	return string(source[m.Span.Begin:m.Span.End])
}

// Child returns m's i-th child, or nil if i is out of range.
func (m *MutableNode) Child(i int) *MutableNode {
	if i < 0 || i >= len(m.Children) {
		return nil
	}
	return m.Children[i]
}

// ReplaceChild replaces the child at index i and checks m's span against
// its children, panicking with a TreeInvariantError if the replacement
// leaves m's span incongruent with what its children now cover; m.Span
// itself is never changed (spec §4.3: a subtree's span must remain congruent with its
// children's spans after any edit).
func (m *MutableNode) ReplaceChild(i int, replacement *MutableNode) {
	if i < 0 || i >= len(m.Children) {
		panicInvariant("ustar: ReplaceChild index %d out of range (len=%d)", i, len(m.Children))
	}
	m.Children[i] = replacement
	m.reconcileSpan()
}

// InsertChild inserts child at position i (0 <= i <= len(Children)) and
// checks m's span against its children, as ReplaceChild does.
func (m *MutableNode) InsertChild(i int, child *MutableNode) {
	if i < 0 || i > len(m.Children) {
		panicInvariant("ustar: InsertChild index %d out of range (len=%d)", i, len(m.Children))
	}
	m.Children = append(m.Children, nil)
	copy(m.Children[i+1:], m.Children[i:])
	m.Children[i] = child
	m.reconcileSpan()
}

// ReplaceChildren swaps out all of m's children for replacements and
// checks m's span against them, as ReplaceChild does. This is what the decomposer uses to turn a
// quoted-string leaf into [opening_delimiter, string_content,
// closing_delimiter].
func (m *MutableNode) ReplaceChildren(replacements []*MutableNode) {
	m.Children = replacements
	m.reconcileSpan()
}

// reconcileSpan recomputes the span covered by m.Children and panics with
// a TreeInvariantError if it no longer matches m.Span -- i.e. an edit
// narrowed, widened or otherwise broke the span-congruence invariant.
// Leaves (no children) have nothing to reconcile against.
func (m *MutableNode) reconcileSpan() {
	if len(m.Children) == 0 {
		return
	}
	begin := m.Children[0].Span.Begin
	end := m.Children[0].Span.End
	for _, c := range m.Children[1:] {
		if c.Span.Begin < begin {
			begin = c.Span.Begin
		}
		if c.Span.End > end {
			end = c.Span.End
		}
	}
	if begin != m.Span.Begin || end != m.Span.End {
		panicInvariant(
			"ustar: tree invariant violation: %v span [%d,%d) incongruent with children span [%d,%d)",
			m.Kind, m.Span.Begin, m.Span.End, begin, end)
	}
}
