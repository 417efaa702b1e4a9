package ustar

import (
	"bytes"
	"sort"
	"unicode/utf8"
)

// ColumnMode selects how LineIndex counts columns within a line.
//
// The ASCII and Extended-ASCII parsers treat every byte as one character
// (their character classes top out at U+00FF, a one-byte-per-rune
// encoding), so their columns are byte counts. The Unicode parser must
// decode runes to count columns the way a human reads them.
type ColumnMode int

const (
	// ByteColumns counts one column per byte since the start of the line.
	ByteColumns ColumnMode = iota
	// RuneColumns counts one column per decoded UTF-8 rune since the
	// start of the line.
	RuneColumns
)

// LineColumn is a 1-based (line, column) position resolved from a byte
// offset by a LineIndex.
type LineColumn struct {
	Line   int
	Column int
}

// LineIndex converts byte offsets into an input buffer into 1-based
// (line, column) pairs. It is built once per buffer in a single forward
// scan and answers lookups with a binary search, per spec: O(N) build,
// O(log L) per lookup where L is the line count.
type LineIndex struct {
	source     []byte
	lineStarts []int
	mode       ColumnMode
}

// NewLineIndex scans source once, recording the byte offset at which
// every line begins (including offset 0 for line 1), and returns an
// index that resolves offsets against it using mode to count columns.
func NewLineIndex(source []byte, mode ColumnMode) *LineIndex {
	starts := make([]int, 1, len(source)/40+1)
	starts[0] = 0
	pos := 0
	for {
		idx := bytes.IndexByte(source[pos:], '\n')
		if idx < 0 {
			break
		}
		pos += idx + 1
		starts = append(starts, pos)
	}
	return &LineIndex{source: source, lineStarts: starts, mode: mode}
}

// Resolve converts a byte offset into source into a 1-based (line,
// column) pair.
func (li *LineIndex) Resolve(offset int) LineColumn {
	if offset < 0 {
		offset = 0
	}
	if offset > len(li.source) {
		offset = len(li.source)
	}

	// Binary search for the last line-start offset <= offset.
	i := sort.Search(len(li.lineStarts), func(i int) bool {
		return li.lineStarts[i] > offset
	})
	lineIdx := i - 1
	if lineIdx < 0 {
		lineIdx = 0
	}
	lineStart := li.lineStarts[lineIdx]

	var column int
	switch li.mode {
	case RuneColumns:
		column = utf8.RuneCount(li.source[lineStart:offset]) + 1
	default:
		column = offset - lineStart + 1
	}

	return LineColumn{Line: lineIdx + 1, Column: column}
}

// ResolveSpan resolves both ends of a Span.
func (li *LineIndex) ResolveSpan(s Span) (begin, end LineColumn) {
	return li.Resolve(s.Begin), li.Resolve(s.End)
}
