package ustar

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/ustar-rs/ustar-go/internal/charclass"
)

// ParseDefault parses text with DefaultConfig (ASCII, no BOM detection,
// string decomposition enabled, comments discarded).
func ParseDefault(text []byte) (*ParseTree, error) {
	return ParseWith(text, DefaultConfig())
}

// ParseASCII parses text under the ASCII grammar instantiation regardless
// of cfg.EncodingMode, applying cfg's other options (BOM detection may
// still promote the effective mode to Unicode; see Config.BOMDetection).
func ParseASCII(text []byte, cfg Config) (*ParseTree, error) {
	return parseWithForcedMode(text, cfg, ASCII)
}

// ParseExtendedASCII parses text under the Extended-ASCII grammar
// instantiation (admits 0x80..0xFF) regardless of cfg.EncodingMode.
func ParseExtendedASCII(text []byte, cfg Config) (*ParseTree, error) {
	return parseWithForcedMode(text, cfg, ExtendedASCII)
}

// ParseUnicode parses text under the full Unicode grammar instantiation
// regardless of cfg.EncodingMode.
func ParseUnicode(text []byte, cfg Config) (*ParseTree, error) {
	return parseWithForcedMode(text, cfg, Unicode)
}

// ParseWith parses text using cfg.EncodingMode to select the grammar
// instantiation, honoring BOM detection, comment preservation and string
// decomposition as configured. This is the general entry point; the
// three ParseXxx functions above are conveniences that pin the mode.
func ParseWith(text []byte, cfg Config) (*ParseTree, error) {
	adjusted, mode, err := applyBOM(text, cfg)
	if err != nil {
		return nil, err
	}
	return parseInternal(adjusted, mode, cfg)
}

func parseWithForcedMode(text []byte, cfg Config, mode EncodingMode) (*ParseTree, error) {
	adjusted, bomMode, err := applyBOM(text, cfg)
	if err != nil {
		return nil, err
	}
	// An explicit ParseXxx call wins over BOM-driven promotion, except a
	// detected UTF-8 BOM still requires Unicode-mode decoding of the
	// remaining bytes.
	if cfg.BOMDetection && bomMode == Unicode {
		mode = Unicode
	}
	return parseInternal(adjusted, mode, cfg)
}

func parseInternal(src []byte, mode EncodingMode, cfg Config) (*ParseTree, error) {
	var cc charclass.Class
	var colMode ColumnMode
	switch mode {
	case ExtendedASCII:
		cc, colMode = charclass.Extended, ByteColumns
	case Unicode:
		cc, colMode = charclass.Unicode, RuneColumns
	default:
		cc, colMode = charclass.ASCII, ByteColumns
	}

	p := &parser{src: src, cc: cc, cfg: cfg, li: NewLineIndex(src, colMode)}
	root, err := p.parseStarFile()
	if err != nil {
		return nil, err
	}

	// spec §4.6: decompose_strings runs the decomposer "after parsing",
	// against a mutable mirror, then the frozen result replaces the
	// returned tree -- callers configuring this never see undecomposed
	// quoted-string leaves.
	if cfg.DecomposeStrings {
		mutable := NewMutableTree(root)
		DecomposeStrings(mutable, src)
		root = mutable.ToNode()
	}

	return &ParseTree{Root: root, Source: src, EncodingMode: mode}, nil
}

// parser is the shared recursive-descent engine behind all Parse* entry
// points. It never un-reads: every production either peeks (which never
// advances p.pos) or commits a token it has already classified.
type parser struct {
	src             []byte
	cc              charclass.Class
	cfg             Config
	li              *LineIndex
	pos             int
	pendingComments []*Node
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) decodeAt(i int) (rune, int) {
	if i >= len(p.src) {
		return 0, 0
	}
	if p.cc.DecodesRunes() {
		r, size := utf8.DecodeRune(p.src[i:])
		return r, size
	}
	return rune(p.src[i]), 1
}

func (p *parser) peek() (rune, int) { return p.decodeAt(p.pos) }

func (p *parser) advance(size int) { p.pos += size }

// atSemicolonBoundedOpener reports whether p.pos sits exactly on the
// newline that opens a semi_colon_bounded_text_string, i.e. the next two
// bytes are "\n;" (the semicolon sits at column 1 of the following
// line). skipTrivia stops here instead of swallowing the newline as
// ordinary whitespace, so parseDataValue can recognize the opening
// sequence itself.
func (p *parser) atSemicolonBoundedOpener() bool {
	if p.pos >= len(p.src) {
		return false
	}
	return p.src[p.pos] == '\n' && p.pos+1 < len(p.src) && p.src[p.pos+1] == ';'
}

// skipTrivia advances past implicit whitespace and (depending on
// cfg.PreserveComments) comments, stopping short of a semicolon-bounded
// string opener or the next token, and returning an InvalidCharacter
// error at the first character that fails the active character class.
func (p *parser) skipTrivia() error {
	for {
		if p.eof() {
			return nil
		}
		if p.atSemicolonBoundedOpener() {
			return nil
		}
		r, size := p.peek()
		if r == '#' {
			c := p.scanComment()
			if p.cfg.PreserveComments {
				p.pendingComments = append(p.pendingComments, c)
			}
			continue
		}
		if p.cc.IsWhitespace(r) {
			p.advance(size)
			continue
		}
		if !p.cc.Valid(r) {
			return p.invalidCharacterAt(p.pos, size)
		}
		return nil
	}
}

// scanComment consumes a '#' through end-of-line (exclusive) and returns
// the resulting comment node; the terminating newline is left for the
// next skipTrivia iteration to consume as ordinary whitespace.
func (p *parser) scanComment() *Node {
	begin := p.pos
	p.advance(1) // '#'
	for !p.eof() {
		r, size := p.peek()
		if r == '\n' {
			break
		}
		p.advance(size)
	}
	return &Node{Kind: KindComment, Span: Span{begin, p.pos}}
}

// drainComments returns and clears any comment nodes collected by the
// most recent skipTrivia call(s), for the caller to splice in as the
// siblings immediately preceding the next real node (spec §9 Open
// Question (b), resolved in DESIGN.md: a comment attaches to the
// innermost enclosing container, immediately before the sibling parsed
// right after it).
func (p *parser) drainComments() []*Node {
	if len(p.pendingComments) == 0 {
		return nil
	}
	out := p.pendingComments
	p.pendingComments = nil
	return out
}

// readBareWordAt scans the maximal run of non-whitespace characters
// starting at pos without mutating parser state, stopping at the first
// whitespace character, end of input, or character that fails the
// active class (left for skipTrivia/checkValidAt to report).
func (p *parser) readBareWordAt(pos int) (word string, size int) {
	i := pos
	for i < len(p.src) {
		r, sz := p.decodeAt(i)
		if sz == 0 || p.cc.IsWhitespace(r) || !p.cc.Valid(r) {
			break
		}
		i += sz
	}
	return string(p.src[pos:i]), i - pos
}

// peekWordClass classifies the bare word starting at p.pos without
// consuming it.
func (p *parser) peekWordClass() wordClass {
	word, _ := p.readBareWordAt(p.pos)
	return classifyBareWord(word)
}

// consumeBareWord advances past the bare word starting at p.pos and
// returns its span.
func (p *parser) consumeBareWord() Span {
	begin := p.pos
	_, size := p.readBareWordAt(p.pos)
	p.pos += size
	return Span{begin, p.pos}
}

func (p *parser) checkValidAt(pos int) error {
	r, size := p.decodeAt(pos)
	if size == 0 {
		return nil
	}
	if !p.cc.Valid(r) {
		return p.invalidCharacterAt(pos, size)
	}
	return nil
}

func (p *parser) syntaxErrorAt(pos int, expected []string) *ParseError {
	span := Span{pos, pos + 1}
	if pos >= len(p.src) {
		span = Span{pos, pos}
	}
	return newParseError(SyntaxError, p.src, span, p.li, expected)
}

func (p *parser) unexpectedKeywordAt(span Span, expected string) *ParseError {
	return newParseError(UnexpectedKeyword, p.src, span, p.li, []string{expected})
}

func (p *parser) unclosedStringAt(openSpan Span) *ParseError {
	return newParseError(UnclosedString, p.src, openSpan, p.li, []string{"closing delimiter"})
}

func (p *parser) invalidCharacterAt(pos int, size int) *ParseError {
	end := pos + size
	if end > len(p.src) {
		end = len(p.src)
	}
	return newParseError(InvalidCharacter, p.src, Span{pos, end}, p.li, nil)
}

// parseStarFile is the top-level production: zero or more data_block /
// global_block siblings, each preceded by whatever comments preceded it.
func (p *parser) parseStarFile() (*Node, error) {
	var children []*Node
	if err := p.skipTrivia(); err != nil {
		return nil, err
	}
	children = append(children, p.drainComments()...)

	for !p.eof() {
		switch p.peekWordClass() {
		case wcDataHeading:
			n, err := p.parseDataBlock()
			if err != nil {
				return nil, err
			}
			children = append(children, n)
		case wcGlobalKeyword:
			n, err := p.parseGlobalBlock()
			if err != nil {
				return nil, err
			}
			children = append(children, n)
		default:
			if err := p.checkValidAt(p.pos); err != nil {
				return nil, err
			}
			return nil, p.syntaxErrorAt(p.pos, []string{"data_block", "global_block"})
		}
		if err := p.skipTrivia(); err != nil {
			return nil, err
		}
		children = append(children, p.drainComments()...)
	}

	return &Node{Kind: KindStarFile, Span: Span{0, len(p.src)}, Children: children}, nil
}

func (p *parser) parseDataBlock() (*Node, error) {
	begin := p.pos
	headingSpan := p.consumeBareWord()
	heading := &Node{Kind: KindDataHeading, Span: headingSpan}
	children := []*Node{heading}

blockBody:
	for {
		if err := p.skipTrivia(); err != nil {
			return nil, err
		}
		children = append(children, p.drainComments()...)
		if p.eof() {
			break blockBody
		}
		switch p.peekWordClass() {
		case wcDataHeading, wcGlobalKeyword:
			break blockBody
		case wcSaveHeading:
			n, err := p.parseSaveFrame()
			if err != nil {
				return nil, err
			}
			children = append(children, n)
		case wcLoopKeyword:
			n, err := p.parseDataLoop()
			if err != nil {
				return nil, err
			}
			children = append(children, n)
		case wcDataName:
			n, err := p.parseData()
			if err != nil {
				return nil, err
			}
			children = append(children, n)
		default:
			if err := p.checkValidAt(p.pos); err != nil {
				return nil, err
			}
			return nil, p.syntaxErrorAt(p.pos, []string{"data", "data_loop", "save_frame", "data_block", "global_block"})
		}
	}

	return &Node{Kind: KindDataBlock, Span: Span{begin, p.pos}, Children: children}, nil
}

func (p *parser) parseGlobalBlock() (*Node, error) {
	begin := p.pos
	p.consumeBareWord() // "global_"
	var children []*Node

globalBody:
	for {
		if err := p.skipTrivia(); err != nil {
			return nil, err
		}
		children = append(children, p.drainComments()...)
		if p.eof() {
			break globalBody
		}
		switch p.peekWordClass() {
		case wcDataHeading, wcGlobalKeyword:
			break globalBody
		case wcLoopKeyword:
			n, err := p.parseDataLoop()
			if err != nil {
				return nil, err
			}
			children = append(children, n)
		case wcDataName:
			n, err := p.parseData()
			if err != nil {
				return nil, err
			}
			children = append(children, n)
		default:
			if err := p.checkValidAt(p.pos); err != nil {
				return nil, err
			}
			return nil, p.syntaxErrorAt(p.pos, []string{"data", "data_loop", "data_block", "global_block"})
		}
	}

	return &Node{Kind: KindGlobalBlock, Span: Span{begin, p.pos}, Children: children}, nil
}

// parseSaveFrame is extended beyond the spec's literal "children in
// between are data nodes only" wording to also accept data_loop
// children; see DESIGN.md's Open Question decision on save_frame
// grammar superset acceptance.
func (p *parser) parseSaveFrame() (*Node, error) {
	begin := p.pos
	headingSpan := p.consumeBareWord()
	heading := &Node{Kind: KindSaveHeading, Span: headingSpan}
	children := []*Node{heading}

	for {
		if err := p.skipTrivia(); err != nil {
			return nil, err
		}
		children = append(children, p.drainComments()...)
		if p.eof() {
			return nil, p.syntaxErrorAt(p.pos, []string{"save_ (closing)"})
		}
		switch p.peekWordClass() {
		case wcSaveClose:
			p.consumeBareWord()
			return &Node{Kind: KindSaveFrame, Span: Span{begin, p.pos}, Children: children}, nil
		case wcDataName:
			n, err := p.parseData()
			if err != nil {
				return nil, err
			}
			children = append(children, n)
		case wcLoopKeyword:
			n, err := p.parseDataLoop()
			if err != nil {
				return nil, err
			}
			children = append(children, n)
		default:
			if err := p.checkValidAt(p.pos); err != nil {
				return nil, err
			}
			return nil, p.syntaxErrorAt(p.pos, []string{"data", "data_loop", "save_ (closing)"})
		}
	}
}

func (p *parser) parseData() (*Node, error) {
	begin := p.pos
	nameSpan := p.consumeBareWord()
	nameNode := &Node{Kind: KindDataName, Span: nameSpan}
	if err := p.skipTrivia(); err != nil {
		return nil, err
	}
	valueNode, err := p.parseDataValue()
	if err != nil {
		return nil, err
	}
	return &Node{Kind: KindData, Span: Span{begin, valueNode.Span.End}, Children: []*Node{nameNode, valueNode}}, nil
}

// parseDataValue parses one data_value variant: non-quoted text, a
// single- or double-quoted string, a semicolon-bounded string, or a
// frame code. A tag or reserved keyword appearing where a value is
// expected is UnexpectedKeyword, per spec §7 point 3.
func (p *parser) parseDataValue() (*Node, error) {
	if p.eof() {
		return nil, p.syntaxErrorAt(p.pos, []string{"value"})
	}
	if p.atSemicolonBoundedOpener() {
		return p.parseSemicolonBoundedString()
	}
	r, _ := p.peek()
	switch r {
	case '\'':
		return p.parseQuotedString('\'', KindSingleQuoteString)
	case '"':
		return p.parseQuotedString('"', KindDoubleQuoteString)
	case '$':
		return p.parseFrameCode()
	}

	if err := p.checkValidAt(p.pos); err != nil {
		return nil, err
	}

	word, size := p.readBareWordAt(p.pos)
	if word == "" {
		return nil, p.syntaxErrorAt(p.pos, []string{"value"})
	}
	span := Span{p.pos, p.pos + size}
	lower := strings.ToLower(word)
	if strings.HasPrefix(word, "_") || isReservedKeyword(lower) {
		p.pos += size
		return nil, p.unexpectedKeywordAt(span, "value")
	}
	p.pos += size
	return &Node{Kind: KindNonQuotedTextString, Span: span}, nil
}

func (p *parser) parseQuotedString(delim byte, kind Kind) (*Node, error) {
	begin := p.pos
	p.advance(1) // opening delimiter
	for {
		if p.eof() {
			return nil, p.unclosedStringAt(Span{begin, begin + 1})
		}
		b := p.src[p.pos]
		if b == delim {
			if p.pos+1 < len(p.src) && p.src[p.pos+1] == delim {
				p.advance(2) // doubled delimiter: literal quote, stays in content
				continue
			}
			p.advance(1) // closing delimiter
			return &Node{Kind: kind, Span: Span{begin, p.pos}}, nil
		}
		_, size := p.decodeAt(p.pos)
		if size == 0 {
			size = 1
		}
		p.advance(size)
	}
}

// parseSemicolonBoundedString assumes p.pos is already positioned on the
// newline that opens the string (atSemicolonBoundedOpener()). The
// opening and closing "\n;" pairs are each two bytes and are excluded
// from the content span once DecomposeStrings splits the leaf.
func (p *parser) parseSemicolonBoundedString() (*Node, error) {
	begin := p.pos
	openEnd := begin + 2
	if openEnd > len(p.src) {
		return nil, p.unclosedStringAt(Span{begin, len(p.src)})
	}
	p.pos = openEnd

	idx := bytes.Index(p.src[p.pos:], []byte("\n;"))
	if idx < 0 {
		return nil, p.unclosedStringAt(Span{begin, openEnd})
	}
	p.pos += idx + 2
	return &Node{Kind: KindSemiColonBoundedTextString, Span: Span{begin, p.pos}}, nil
}

func (p *parser) parseFrameCode() (*Node, error) {
	begin := p.pos
	p.advance(1) // '$'
	for !p.eof() {
		r, size := p.peek()
		if p.cc.IsWhitespace(r) || r == '\'' || r == '"' {
			break
		}
		p.advance(size)
	}
	if p.pos == begin+1 {
		return nil, p.syntaxErrorAt(begin, []string{"frame code"})
	}
	return &Node{Kind: KindFrameCode, Span: Span{begin, p.pos}}, nil
}

// loopShape mirrors the shape of a data_loop_definition for the duration
// of parsing a data_loop: each field is either a plain data_name slot
// (nested == nil) or a nested_loop slot (nested describes its own
// fields). It carries no field names because the parser never needs
// them -- only the walker, which re-derives names from the built tree.
type loopShape struct {
	nested []loopShape
}

func (p *parser) parseDataLoop() (*Node, error) {
	begin := p.pos
	p.consumeBareWord() // "loop_"
	def, shape, err := p.parseDataLoopDefinition()
	if err != nil {
		return nil, err
	}
	values, err := p.parseDataLoopValues(shape)
	if err != nil {
		return nil, err
	}
	return &Node{Kind: KindDataLoop, Span: Span{begin, values.Span.End}, Children: []*Node{def, values}}, nil
}

func (p *parser) parseDataLoopDefinition() (*Node, []loopShape, error) {
	begin := p.pos
	var fieldNodes []*Node
	var shape []loopShape

fieldLoop:
	for {
		if err := p.skipTrivia(); err != nil {
			return nil, nil, err
		}
		if p.eof() {
			break fieldLoop
		}
		switch p.peekWordClass() {
		case wcDataName:
			nameSpan := p.consumeBareWord()
			nameNode := &Node{Kind: KindDataName, Span: nameSpan}
			fieldNodes = append(fieldNodes, &Node{Kind: KindDataLoopField, Span: nameSpan, Children: []*Node{nameNode}})
			shape = append(shape, loopShape{})
		case wcLoopKeyword:
			nestedNode, nestedShape, err := p.parseNestedLoop()
			if err != nil {
				return nil, nil, err
			}
			fieldNodes = append(fieldNodes, &Node{Kind: KindDataLoopField, Span: nestedNode.Span, Children: []*Node{nestedNode}})
			shape = append(shape, loopShape{nested: nestedShape})
		default:
			break fieldLoop
		}
	}

	if len(fieldNodes) == 0 {
		return nil, nil, p.syntaxErrorAt(p.pos, []string{"data_name", "nested_loop"})
	}
	end := fieldNodes[len(fieldNodes)-1].Span.End
	return &Node{Kind: KindDataLoopDefinition, Span: Span{begin, end}, Children: fieldNodes}, shape, nil
}

func (p *parser) parseNestedLoop() (*Node, []loopShape, error) {
	begin := p.pos
	p.consumeBareWord() // "loop_"
	var children []*Node
	var shape []loopShape

nestedLoop:
	for {
		if err := p.skipTrivia(); err != nil {
			return nil, nil, err
		}
		if p.eof() {
			break nestedLoop
		}
		switch p.peekWordClass() {
		case wcDataName:
			nameSpan := p.consumeBareWord()
			children = append(children, &Node{Kind: KindDataName, Span: nameSpan})
			shape = append(shape, loopShape{})
		case wcLoopKeyword:
			n, nestedShape, err := p.parseNestedLoop()
			if err != nil {
				return nil, nil, err
			}
			children = append(children, n)
			shape = append(shape, loopShape{nested: nestedShape})
		case wcStopKeyword:
			p.consumeBareWord()
			return &Node{Kind: KindNestedLoop, Span: Span{begin, p.pos}, Children: children}, shape, nil
		default:
			break nestedLoop
		}
	}

	if len(children) == 0 {
		return nil, nil, p.syntaxErrorAt(p.pos, []string{"data_name", "nested_loop", "stop_"})
	}
	end := children[len(children)-1].Span.End
	return &Node{Kind: KindNestedLoop, Span: Span{begin, end}, Children: children}, shape, nil
}

// parseDataLoopValues reads rows matching shape until a stop_ keyword
// closes the loop. Each item is wrapped in a KindDataLoopItem node whose
// single child is either a data_value variant (plain field) or a nested
// data_loop_values node (nested-loop field) -- this tree shape encodes
// loop nesting structurally, in place of the walk-time tag/level stack
// bookkeeping a flat token stream would need (see DESIGN.md).
func (p *parser) parseDataLoopValues(shape []loopShape) (*Node, error) {
	begin := p.pos
	var items []*Node

	for {
		if err := p.skipTrivia(); err != nil {
			return nil, err
		}
		if p.eof() {
			return nil, p.syntaxErrorAt(p.pos, []string{"stop_", "loop row"})
		}
		if p.peekWordClass() == wcStopKeyword {
			p.consumeBareWord()
			break
		}
		for _, f := range shape {
			if err := p.skipTrivia(); err != nil {
				return nil, err
			}
			if f.nested != nil {
				inner, err := p.parseDataLoopValues(f.nested)
				if err != nil {
					return nil, err
				}
				items = append(items, &Node{Kind: KindDataLoopItem, Span: inner.Span, Children: []*Node{inner}})
				continue
			}
			val, err := p.parseDataValue()
			if err != nil {
				return nil, err
			}
			items = append(items, &Node{Kind: KindDataLoopItem, Span: val.Span, Children: []*Node{val}})
		}
	}

	return &Node{Kind: KindDataLoopValues, Span: Span{begin, p.pos}, Children: items}, nil
}
