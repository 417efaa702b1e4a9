// Package charclass holds the character-class tables that distinguish
// the three STAR grammar instantiations (ASCII, Extended-ASCII, Unicode).
//
// Spec §4.1 describes these as three concrete grammars materialized from
// one template by substituting character-class placeholders. Rather than
// generating three copies of the parser at build time, this package
// supplies the "generator" as a single build function producing three
// Class values from one shared template (table); the parser package
// runtime-parameterizes over whichever Class a caller selects. Spec §9
// explicitly sanctions this: "An implementer may alternatively
// runtime-parameterize a single parser over a character-class predicate
// if the performance penalty is acceptable; the public contract is
// identical."
package charclass

import "unicode"

// Class reports which runes are admissible, and how, for one STAR
// grammar instantiation.
type Class interface {
	// Name identifies the instantiation, e.g. "ASCII".
	Name() string
	// Valid reports whether r is an admissible character at all in this
	// instantiation; parsers raise InvalidCharacter for runes that fail
	// this check.
	Valid(r rune) bool
	// IsWhitespace reports whether r is implicit whitespace between
	// productions.
	IsWhitespace(r rune) bool
	// IsNonQuotedChar reports whether r may appear in a non-quoted text
	// value token (i.e. it is admissible and not whitespace).
	IsNonQuotedChar(r rune) bool
	// DecodesRunes reports whether the input must be scanned rune-by-rune
	// (Unicode) or byte-by-byte, each byte standing for its own
	// character (ASCII / Extended-ASCII, whose admissible ranges never
	// exceed U+00FF).
	DecodesRunes() bool
}

type table struct {
	name         string
	valid        func(rune) bool
	whitespace   func(rune) bool
	nonQuoted    func(rune) bool
	decodesRunes bool
}

func (t table) Name() string                { return t.name }
func (t table) Valid(r rune) bool           { return t.valid(r) }
func (t table) IsWhitespace(r rune) bool    { return t.whitespace(r) }
func (t table) IsNonQuotedChar(r rune) bool { return t.nonQuoted(r) }
func (t table) DecodesRunes() bool          { return t.decodesRunes }

// build materializes one Class from the shared template: a validity
// predicate, a whitespace predicate, and whether the instantiation scans
// full UTF-8 runes or single bytes.
func build(name string, valid, whitespace func(rune) bool, decodesRunes bool) Class {
	nonQuoted := func(r rune) bool {
		return valid(r) && !whitespace(r)
	}
	return table{name: name, valid: valid, whitespace: whitespace, nonQuoted: nonQuoted, decodesRunes: decodesRunes}
}

// ASCII admits '!'..'~' plus space, tab, carriage return and newline
// (spec §4.1).
var ASCII = build(
	"ASCII",
	func(r rune) bool {
		return (r >= '!' && r <= '~') || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	},
	func(r rune) bool { return r == ' ' || r == '\t' || r == '\n' || r == '\r' },
	false,
)

// Extended adds 0x80..0xFF (Latin-1 supplement) to ASCII's range, plus
// the non-breaking space (0xA0) as implicit whitespace, per the origin's
// documented Extended-ASCII mode.
var Extended = build(
	"ExtendedASCII",
	func(r rune) bool {
		return ASCII.Valid(r) || (r >= 0x80 && r <= 0xFF)
	},
	func(r rune) bool { return ASCII.IsWhitespace(r) || r == 0xA0 },
	false,
)

// Unicode admits every rune and recognizes the full Unicode notion of
// "white space" via unicode.IsSpace; no printable-category check is made.
var Unicode = build(
	"Unicode",
	func(r rune) bool { return r >= 0 },
	unicode.IsSpace,
	true,
)
