package ustar

import "testing"

func TestLineIndexByteColumns(t *testing.T) {
	source := []byte("abc\ndef\nghi")
	li := NewLineIndex(source, ByteColumns)

	cases := []struct {
		offset int
		want   LineColumn
	}{
		{0, LineColumn{1, 1}},
		{2, LineColumn{1, 3}},
		{4, LineColumn{2, 1}},
		{7, LineColumn{2, 4}},
		{8, LineColumn{3, 1}},
		{11, LineColumn{3, 4}}, // end of buffer, one past the last byte
	}
	for _, c := range cases {
		if got := li.Resolve(c.offset); got != c.want {
			t.Errorf("Resolve(%d) = %+v, want %+v", c.offset, got, c.want)
		}
	}
}

func TestLineIndexRuneColumns(t *testing.T) {
	// "é" is two UTF-8 bytes (0xC3 0xA9) but one rune/column.
	source := []byte("é x\ny")
	li := NewLineIndex(source, RuneColumns)

	// offset 0: start of "é" -> column 1
	if got := li.Resolve(0); got != (LineColumn{1, 1}) {
		t.Errorf("Resolve(0) = %+v, want {1 1}", got)
	}
	// offset 2: start of " x" (after the two-byte é) -> column 2
	if got := li.Resolve(2); got != (LineColumn{1, 2}) {
		t.Errorf("Resolve(2) = %+v, want {1 2}", got)
	}
	// offset 4: the newline itself, line 1 column 4
	if got := li.Resolve(4); got != (LineColumn{1, 4}) {
		t.Errorf("Resolve(4) = %+v, want {1 4}", got)
	}
	// offset 5: start of line 2 ("y")
	if got := li.Resolve(5); got != (LineColumn{2, 1}) {
		t.Errorf("Resolve(5) = %+v, want {2 1}", got)
	}
}

func TestLineIndexResolveSpan(t *testing.T) {
	source := []byte("ab\ncd")
	li := NewLineIndex(source, ByteColumns)
	begin, end := li.ResolveSpan(Span{1, 4})
	if begin != (LineColumn{1, 2}) {
		t.Errorf("begin = %+v, want {1 2}", begin)
	}
	if end != (LineColumn{2, 2}) {
		t.Errorf("end = %+v, want {2 2}", end)
	}
}

func TestLineIndexNegativeOffsetClamped(t *testing.T) {
	li := NewLineIndex([]byte("abc"), ByteColumns)
	if got := li.Resolve(-5); got != (LineColumn{1, 1}) {
		t.Errorf("Resolve(-5) = %+v, want {1 1}", got)
	}
}
