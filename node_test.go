package ustar

import "testing"

func TestKindStringKnownAndUnknown(t *testing.T) {
	if got := KindDataLoop.String(); got != "data_loop" {
		t.Fatalf("KindDataLoop.String() = %q, want %q", got, "data_loop")
	}
	if got := Kind(999).String(); got != "Kind(999)" {
		t.Fatalf("Kind(999).String() = %q, want %q", got, "Kind(999)")
	}
}

func TestIsDataValueKind(t *testing.T) {
	valueKinds := []Kind{
		KindNonQuotedTextString, KindSingleQuoteString, KindDoubleQuoteString,
		KindSemiColonBoundedTextString, KindFrameCode,
	}
	for _, k := range valueKinds {
		if !k.isDataValueKind() {
			t.Errorf("%v.isDataValueKind() = false, want true", k)
		}
	}
	nonValueKinds := []Kind{KindData, KindDataName, KindDataLoop, KindComment}
	for _, k := range nonValueKinds {
		if k.isDataValueKind() {
			t.Errorf("%v.isDataValueKind() = true, want false", k)
		}
	}
}

func TestIsQuotedStringKind(t *testing.T) {
	if !KindSingleQuoteString.isQuotedStringKind() {
		t.Error("KindSingleQuoteString should be a quoted string kind")
	}
	if KindNonQuotedTextString.isQuotedStringKind() {
		t.Error("KindNonQuotedTextString should not be a quoted string kind")
	}
	if KindFrameCode.isQuotedStringKind() {
		t.Error("KindFrameCode should not be a quoted string kind")
	}
}

func TestSpanLen(t *testing.T) {
	s := Span{Begin: 3, End: 10}
	if s.Len() != 7 {
		t.Fatalf("Span.Len() = %d, want 7", s.Len())
	}
}

func TestNodeTextAndChild(t *testing.T) {
	source := []byte("_x 1")
	name := &Node{Kind: KindDataName, Span: Span{0, 2}}
	value := &Node{Kind: KindNonQuotedTextString, Span: Span{3, 4}}
	data := &Node{Kind: KindData, Span: Span{0, 4}, Children: []*Node{name, value}}

	if got := data.Text(source); got != "_x 1" {
		t.Fatalf("Node.Text() = %q, want %q", got, "_x 1")
	}
	if got := data.Child(0); got != name {
		t.Fatalf("Node.Child(0) = %v, want %v", got, name)
	}
	if got := data.Child(1); got != value {
		t.Fatalf("Node.Child(1) = %v, want %v", got, value)
	}
	if got := data.Child(2); got != nil {
		t.Fatalf("Node.Child(2) = %v, want nil", got)
	}
	if got := data.Child(-1); got != nil {
		t.Fatalf("Node.Child(-1) = %v, want nil", got)
	}
}
