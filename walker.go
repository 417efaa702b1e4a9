package ustar

import "github.com/rs/zerolog"

// Walk drives h over tree's events, resolving positions using tree's
// recorded EncodingMode (byte columns for ASCII/Extended, rune columns
// for Unicode). It returns true if a handler method returned true and
// the walk stopped early.
func Walk(tree *ParseTree, h ContentHandler) bool {
	colMode := ByteColumns
	if tree.EncodingMode == Unicode {
		colMode = RuneColumns
	}
	return walk(tree.Root, h, tree.Source, colMode, DefaultConfig(), zerolog.Nop())
}

// WalkWithSource drives h over root's events using source to resolve
// node text and positions. It assumes byte-counted columns; use Walk
// when a ParseTree (which records its EncodingMode) is available.
func WalkWithSource(root *Node, h ContentHandler, source []byte) bool {
	return walk(root, h, source, ByteColumns, DefaultConfig(), zerolog.Nop())
}

// WalkWithConfig is WalkWithSource plus a Config, letting a caller supply
// Config.StreamName explicitly instead of accepting a generated one, and
// a logger for debug-level traces of loop-level transitions.
func WalkWithConfig(root *Node, h ContentHandler, source []byte, colMode ColumnMode, cfg Config, log zerolog.Logger) bool {
	return walk(root, h, source, colMode, cfg, log)
}

func walk(root *Node, h ContentHandler, source []byte, colMode ColumnMode, cfg Config, log zerolog.Logger) bool {
	li := NewLineIndex(source, colMode)
	w := &walkState{source: source, handler: h, li: li, log: log}

	if h.StartStream(cfg.resolveStreamName()) {
		return true
	}
	if root != nil && w.walkChildren(root) {
		return true
	}
	end := LineColumn{}
	if root != nil {
		end = li.Resolve(root.Span.End)
	}
	return h.EndStream(end)
}

// walkState carries the state needed to resolve node text and positions
// while driving a ContentHandler. Every walk* method returns true if the
// handler asked to halt.
type walkState struct {
	source  []byte
	handler ContentHandler
	li      *LineIndex
	log     zerolog.Logger
}

func (w *walkState) pos(offset int) LineColumn { return w.li.Resolve(offset) }
func (w *walkState) text(n *Node) string        { return n.Text(w.source) }

func (w *walkState) walkChildren(n *Node) bool {
	for _, c := range n.Children {
		if w.walkNode(c) {
			return true
		}
	}
	return false
}

func (w *walkState) walkNode(n *Node) bool {
	switch n.Kind {
	case KindDataBlock:
		return w.walkDataBlock(n)
	case KindGlobalBlock:
		return w.walkGlobalBlock(n)
	case KindSaveFrame:
		return w.walkSaveFrame(n)
	case KindDataLoop:
		return w.walkDataLoop(n)
	case KindData:
		return w.walkData(n)
	case KindComment:
		return w.handler.Comment(w.pos(n.Span.Begin), w.text(n))
	default:
		return w.walkChildren(n)
	}
}

func (w *walkState) walkDataBlock(n *Node) bool {
	name := headingName(w.text(n.Child(0)), len("data_"))
	if w.handler.StartData(w.pos(n.Span.Begin), name) {
		return true
	}
	for _, c := range n.Children[1:] {
		if w.walkNode(c) {
			return true
		}
	}
	return w.handler.EndData(w.pos(n.Span.End), name)
}

func (w *walkState) walkGlobalBlock(n *Node) bool {
	if w.handler.StartGlobal(w.pos(n.Span.Begin)) {
		return true
	}
	if w.walkChildren(n) {
		return true
	}
	return w.handler.EndGlobal(w.pos(n.Span.End))
}

func (w *walkState) walkSaveFrame(n *Node) bool {
	name := headingName(w.text(n.Child(0)), len("save_"))
	if w.handler.StartSaveFrame(w.pos(n.Span.Begin), name) {
		return true
	}
	for _, c := range n.Children[1:] {
		if w.walkNode(c) {
			return true
		}
	}
	return w.handler.EndSaveFrame(w.pos(n.Span.End), name)
}

// headingName strips the first prefixLen bytes (the keyword) off a
// data_heading/save_heading node's text, case-preserving whatever the
// source actually wrote for the name.
func headingName(headingText string, prefixLen int) string {
	if len(headingText) < prefixLen {
		return ""
	}
	return headingText[prefixLen:]
}

func (w *walkState) walkData(n *Node) bool {
	tagNode, valueNode := n.Child(0), n.Child(1)
	value, delim := w.valueAndDelimiter(valueNode)
	return w.handler.Data(w.text(tagNode), w.pos(tagNode.Span.Begin), value, w.pos(valueNode.Span.Begin), delim, 0)
}

// valueAndDelimiter extracts the reported value text and delimiter for a
// data_value variant node, whether or not DecomposeStrings has already
// split it into [opening_delimiter, string_content, closing_delimiter].
func (w *walkState) valueAndDelimiter(n *Node) (string, string) {
	switch n.Kind {
	case KindNonQuotedTextString, KindFrameCode:
		// The $ prefix of a frame code is part of the reported value;
		// frame codes are reported with an empty delimiter.
		return w.text(n), ""
	case KindSingleQuoteString:
		return w.unquote(n, 1), "'"
	case KindDoubleQuoteString:
		return w.unquote(n, 1), "\""
	case KindSemiColonBoundedTextString:
		return w.unquote(n, 2), ";"
	default:
		return "", ""
	}
}

func (w *walkState) unquote(n *Node, delimLen int) string {
	if len(n.Children) == 3 && n.Children[1].Kind == KindStringContent {
		return w.text(n.Children[1])
	}
	begin, end := n.Span.Begin, n.Span.End
	return string(w.source[begin+delimLen : end-delimLen])
}

func (w *walkState) walkDataLoop(n *Node) bool {
	if w.handler.StartLoop(w.pos(n.Span.Begin)) {
		return true
	}
	def, values := n.Child(0), n.Child(1)
	fields := deriveFields(def.Children, w.source)
	w.log.Debug().Int("fields", len(fields)).Msg("entering loop")
	if w.walkLoopValues(fields, values, 1) {
		return true
	}
	return w.handler.EndLoop(w.pos(n.Span.End))
}

// fieldSpec is the walker's own re-derivation of a data_loop_definition's
// shape, built from the tree rather than carried over from parse time:
// name/tagBegin are only meaningful for plain fields (nested == nil).
type fieldSpec struct {
	name     string
	tagBegin int
	nested   []fieldSpec
}

func deriveFields(fieldNodes []*Node, source []byte) []fieldSpec {
	specs := make([]fieldSpec, 0, len(fieldNodes))
	for _, fn := range fieldNodes {
		child := fn
		if fn.Kind == KindDataLoopField && len(fn.Children) == 1 {
			child = fn.Children[0]
		}
		switch child.Kind {
		case KindDataName:
			specs = append(specs, fieldSpec{name: child.Text(source), tagBegin: child.Span.Begin})
		case KindNestedLoop:
			specs = append(specs, fieldSpec{nested: deriveFields(child.Children, source)})
		}
	}
	return specs
}

// walkLoopValues replays one data_loop_values node's rows against fields,
// emitting a Data event per plain field and recursing per nested field,
// at loopLevel. An empty values node (a defined-but-empty loop) emits one
// EMPTY_LOOP Data event per field instead, recursing into nested fields
// after the outer fields at the same position (spec §4.5).
func (w *walkState) walkLoopValues(fields []fieldSpec, valuesNode *Node, loopLevel int) bool {
	items := valuesNode.Children
	if len(items) == 0 {
		return w.emitEmptyLoop(fields, loopLevel, w.pos(valuesNode.Span.Begin))
	}

	n := len(fields)
	if n == 0 {
		return false
	}
	for i := 0; i+n <= len(items); i += n {
		for j, f := range fields {
			item := items[i+j]
			child := item.Child(0)
			if f.nested != nil {
				if w.walkLoopValues(f.nested, child, loopLevel+1) {
					return true
				}
				continue
			}
			value, delim := w.valueAndDelimiter(child)
			if w.handler.Data(f.name, w.pos(f.tagBegin), value, w.pos(child.Span.Begin), delim, loopLevel) {
				return true
			}
		}
	}
	return false
}

func (w *walkState) emitEmptyLoop(fields []fieldSpec, loopLevel int, pos LineColumn) bool {
	for _, f := range fields {
		if f.nested != nil {
			continue
		}
		if w.handler.Data(f.name, w.pos(f.tagBegin), "", pos, EmptyLoopDelimiter, loopLevel) {
			return true
		}
	}
	for _, f := range fields {
		if f.nested == nil {
			continue
		}
		if w.emitEmptyLoop(f.nested, loopLevel+1, pos) {
			return true
		}
	}
	return false
}
