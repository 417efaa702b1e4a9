package ustar

import "fmt"

// Kind identifies the grammar production that produced a Node. The set is
// closed: every Node in a tree produced by this package carries one of
// these values.
type Kind int

// The closed set of node kinds.
const (
	KindStarFile Kind = iota
	KindDataBlock
	KindDataHeading
	KindGlobalBlock
	KindSaveFrame
	KindSaveHeading
	KindData
	KindDataName
	KindDataLoop
	KindDataLoopDefinition
	KindDataLoopField
	KindNestedLoop
	KindDataLoopValues
	KindDataLoopItem
	KindNonQuotedTextString
	KindSingleQuoteString
	KindDoubleQuoteString
	KindSemiColonBoundedTextString
	KindFrameCode
	KindComment
	// The following three kinds only ever appear after DecomposeStrings
	// has rewritten a quoted-string leaf.
	KindOpeningDelimiter
	KindStringContent
	KindClosingDelimiter
)

var kindNames = [...]string{
	KindStarFile:                   "star_file",
	KindDataBlock:                  "data_block",
	KindDataHeading:                "data_heading",
	KindGlobalBlock:                "global_block",
	KindSaveFrame:                  "save_frame",
	KindSaveHeading:                "save_heading",
	KindData:                       "data",
	KindDataName:                   "data_name",
	KindDataLoop:                   "data_loop",
	KindDataLoopDefinition:         "data_loop_definition",
	KindDataLoopField:              "data_loop_field",
	KindNestedLoop:                 "nested_loop",
	KindDataLoopValues:             "data_loop_values",
	KindDataLoopItem:               "data_loop_item",
	KindNonQuotedTextString:        "non_quoted_text_string",
	KindSingleQuoteString:          "single_quote_string",
	KindDoubleQuoteString:          "double_quote_string",
	KindSemiColonBoundedTextString: "semi_colon_bounded_text_string",
	KindFrameCode:                  "frame_code",
	KindComment:                    "comment",
	KindOpeningDelimiter:           "opening_delimiter",
	KindStringContent:              "string_content",
	KindClosingDelimiter:           "closing_delimiter",
}

// String returns the grammar production name for k.
func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(kindNames) || kindNames[k] == "" {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// isDataValueKind reports whether k is one of the data_value variants.
func (k Kind) isDataValueKind() bool {
	switch k {
	case KindNonQuotedTextString, KindSingleQuoteString, KindDoubleQuoteString,
		KindSemiColonBoundedTextString, KindFrameCode:
		return true
	}
	return false
}

// isQuotedStringKind reports whether k is a data_value variant that
// DecomposeStrings knows how to split into delimiter/content/delimiter.
func (k Kind) isQuotedStringKind() bool {
	switch k {
	case KindSingleQuoteString, KindDoubleQuoteString, KindSemiColonBoundedTextString:
		return true
	}
	return false
}

// Span is a half-open byte range [Begin, End) into the input buffer that
// produced a Node. Spans are always byte offsets regardless of the
// active encoding mode.
type Span struct {
	Begin int
	End   int
}

// Len returns the number of bytes covered by s.
func (s Span) Len() int {
	return s.End - s.Begin
}

// Node is an immutable parse-tree node. Its Span borrows positions in the
// caller's input buffer; the buffer must outlive the tree. Children are
// ordered and that order is semantically significant (it reflects source
// order).
type Node struct {
	Kind     Kind
	Span     Span
	Children []*Node
}

// Text returns the slice of source covered by n.Span. source must be the
// same buffer (or an identical copy) that was parsed to produce n.
func (n *Node) Text(source []byte) string {
	return string(source[n.Span.Begin:n.Span.End])
}

// Child returns n's i-th child, or nil if i is out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// ParseTree bundles a parsed root Node together with the input buffer its
// spans borrow from, and the encoding mode used to produce it. Walk uses
// EncodingMode to pick the correct column-counting discipline; callers
// that only have a bare *Node (for instance after round-tripping through
// a MutableNode) use WalkWithSource instead, which assumes byte columns.
type ParseTree struct {
	Root         *Node
	Source       []byte
	EncodingMode EncodingMode
}
