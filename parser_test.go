package ustar

import (
	"fmt"
	"testing"
)

// recordingHandler captures every SAS event as a short descriptive string,
// in emission order, for assertion against the scenarios in spec §8.
type recordingHandler struct {
	BaseHandler
	events []string
}

func (h *recordingHandler) StartStream(name string) bool {
	h.events = append(h.events, "start_stream")
	return false
}

func (h *recordingHandler) EndStream(pos LineColumn) bool {
	h.events = append(h.events, "end_stream")
	return false
}

func (h *recordingHandler) StartData(pos LineColumn, name string) bool {
	h.events = append(h.events, fmt.Sprintf("start_data(%q)", name))
	return false
}

func (h *recordingHandler) EndData(pos LineColumn, name string) bool {
	h.events = append(h.events, fmt.Sprintf("end_data(%q)", name))
	return false
}

func (h *recordingHandler) StartLoop(pos LineColumn) bool {
	h.events = append(h.events, "start_loop")
	return false
}

func (h *recordingHandler) EndLoop(pos LineColumn) bool {
	h.events = append(h.events, "end_loop")
	return false
}

func (h *recordingHandler) Data(tag string, tagPos LineColumn, value string, valuePos LineColumn, delimiter string, loopLevel int) bool {
	h.events = append(h.events, fmt.Sprintf("data(%q,%q,delim=%q,level=%d)", tag, value, delimiter, loopLevel))
	return false
}

func mustParse(t *testing.T, text string) *ParseTree {
	t.Helper()
	cfg := DefaultConfig()
	cfg.DecomposeStrings = false
	tree, err := ParseWith([]byte(text), cfg)
	if err != nil {
		t.Fatalf("ParseWith(%q) unexpected error: %v", text, err)
	}
	return tree
}

// S1: simple value.
func TestScenarioSimpleValue(t *testing.T) {
	tree := mustParse(t, "data_a\n_x 1\n")
	h := &recordingHandler{}
	Walk(tree, h)

	want := []string{
		"start_stream",
		`start_data("a")`,
		`data("_x","1",delim="",level=0)`,
		`end_data("a")`,
		"end_stream",
	}
	assertEvents(t, h.events, want)
}

// S2: quoted value with doubled quote.
func TestScenarioQuotedValueDoubledQuote(t *testing.T) {
	tree := mustParse(t, "data_a\n_x 'it''s'\n")
	h := &recordingHandler{}
	Walk(tree, h)

	want := []string{
		"start_stream",
		`start_data("a")`,
		`data("_x","it''s",delim="'",level=0)`,
		`end_data("a")`,
		"end_stream",
	}
	assertEvents(t, h.events, want)
}

// S3: empty outer loop.
func TestScenarioEmptyOuterLoop(t *testing.T) {
	text := "data_p\nloop_\n _t1\n _t2\nstop_\n"
	tree := mustParse(t, text)
	h := &recordingHandler{}
	Walk(tree, h)

	want := []string{
		"start_stream",
		`start_data("p")`,
		"start_loop",
		`data("_t1","",delim="EMPTY_LOOP",level=1)`,
		`data("_t2","",delim="EMPTY_LOOP",level=1)`,
		"end_loop",
		`end_data("p")`,
		"end_stream",
	}
	assertEvents(t, h.events, want)
}

// S4: nested loop with stops (Example 3 in the §6 guide).
func TestScenarioNestedLoopWithStops(t *testing.T) {
	text := "data_bonds\n" +
		"loop_ _mol_id _mol_name loop_ _bond_atom1 _bond_atom2 _bond_order stop_\n" +
		"MOL1 'Molecule One' C1 C2 single C2 C3 double stop_\n" +
		"MOL2 'Molecule Two' N1 N2 single stop_\n" +
		"stop_\n"
	tree := mustParse(t, text)
	h := &recordingHandler{}
	Walk(tree, h)

	want := []string{
		"start_stream",
		`start_data("bonds")`,
		"start_loop",
		`data("_mol_id","MOL1",delim="",level=1)`,
		`data("_mol_name","Molecule One",delim="'",level=1)`,
		`data("_bond_atom1","C1",delim="",level=2)`,
		`data("_bond_atom2","C2",delim="",level=2)`,
		`data("_bond_order","single",delim="",level=2)`,
		`data("_bond_atom1","C2",delim="",level=2)`,
		`data("_bond_atom2","C3",delim="",level=2)`,
		`data("_bond_order","double",delim="",level=2)`,
		`data("_mol_id","MOL2",delim="",level=1)`,
		`data("_mol_name","Molecule Two",delim="'",level=1)`,
		`data("_bond_atom1","N1",delim="",level=2)`,
		`data("_bond_atom2","N2",delim="",level=2)`,
		`data("_bond_order","single",delim="",level=2)`,
		"end_loop",
		`end_data("bonds")`,
		"end_stream",
	}
	assertEvents(t, h.events, want)
}

// S5: unclosed string.
func TestScenarioUnclosedString(t *testing.T) {
	_, err := ParseDefault([]byte("data_a\n_x \"unclosed\n"))
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("error is %T, want *ParseError", err)
	}
	if pe.Kind != UnclosedString {
		t.Fatalf("Kind = %v, want UnclosedString", pe.Kind)
	}
	// The opening '"' sits right after "data_a\n_x ".
	wantBegin := len("data_a\n_x ")
	if pe.Span.Begin != wantBegin {
		t.Fatalf("Span.Begin = %d, want %d", pe.Span.Begin, wantBegin)
	}
}

// S6: tag used instead of value.
func TestScenarioTagUsedInsteadOfValue(t *testing.T) {
	text := "data_a\n_a.x _a.y\n"
	_, err := ParseDefault([]byte(text))
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("error is %T, want *ParseError", err)
	}
	if pe.Kind != UnexpectedKeyword {
		t.Fatalf("Kind = %v, want UnexpectedKeyword", pe.Kind)
	}
	wantBegin := len("data_a\n_a.x ")
	wantEnd := wantBegin + len("_a.y")
	if pe.Span.Begin != wantBegin || pe.Span.End != wantEnd {
		t.Fatalf("Span = %+v, want [%d,%d)", pe.Span, wantBegin, wantEnd)
	}
}

func TestEmptyDataBlockParsesWithNoDataEvents(t *testing.T) {
	tree := mustParse(t, "data_block_1\n")
	h := &recordingHandler{}
	Walk(tree, h)

	want := []string{"start_stream", `start_data("block_1")`, `end_data("block_1")`, "end_stream"}
	assertEvents(t, h.events, want)
}

func TestSemicolonBoundedTextAcceptsEmbeddedSemicolon(t *testing.T) {
	// The ';' inside "with ; embedded" sits mid-line, not at column 1, so
	// it must not be mistaken for the closing delimiter.
	text := "data_a\n_x\n;line one with ; embedded\nand more\n;\n"
	tree := mustParse(t, text)
	h := &recordingHandler{}
	Walk(tree, h)

	want := []string{
		"start_stream",
		`start_data("a")`,
		`data("_x","line one with ; embedded\nand more",delim=";",level=0)`,
		`end_data("a")`,
		"end_stream",
	}
	assertEvents(t, h.events, want)
}

func TestFrameCodeValue(t *testing.T) {
	tree := mustParse(t, "data_a\n_x $frame1\n")
	h := &recordingHandler{}
	Walk(tree, h)
	want := []string{
		"start_stream", `start_data("a")`,
		`data("_x","$frame1",delim="",level=0)`,
		`end_data("a")`, "end_stream",
	}
	assertEvents(t, h.events, want)
}

func TestInvalidCharacterRejected(t *testing.T) {
	// 0x01 is outside the ASCII character class.
	_, err := ParseDefault([]byte("data_a\n_x \x01\n"))
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("error is %T, want *ParseError", err)
	}
	if pe.Kind != InvalidCharacter {
		t.Fatalf("Kind = %v, want InvalidCharacter", pe.Kind)
	}
}

func TestGlobalBlockWithData(t *testing.T) {
	tree := mustParse(t, "global_\n_x 1\n")
	h := &recordingHandler{}
	Walk(tree, h)
	want := []string{
		"start_stream",
		`data("_x","1",delim="",level=0)`,
		"end_stream",
	}
	assertEvents(t, h.events, want)
}

func assertEvents(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("events = %v\nwant    = %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("events[%d] = %q, want %q\nfull got: %v", i, got[i], want[i], got)
		}
	}
}
