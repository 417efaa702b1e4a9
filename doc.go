/*
Package ustar is a library for parsing STAR-family textual data (CIF,
mmCIF, NMR-STAR, NEF) into a borrowed-span parse tree, and for walking
that tree as a stream of SAS (STAR-based API for Streaming) events.

It exposes three parsing entry points that differ only in the admissible
character class of the input:

	func ParseASCII(text []byte, cfg Config) (*ParseTree, error)
	func ParseExtendedASCII(text []byte, cfg Config) (*ParseTree, error)
	func ParseUnicode(text []byte, cfg Config) (*ParseTree, error)

and two convenience wrappers that dispatch on cfg.EncodingMode:

	func ParseDefault(text []byte) (*ParseTree, error)
	func ParseWith(text []byte, cfg Config) (*ParseTree, error)

All five return a ParseTree (the root star_file Node, the source buffer
it borrows from, and the encoding mode used) and a non-nil *ParseError if
the input does not conform to the grammar.

Choosing an API

Clients that already know their input is plain ASCII protocol-level data
(most PDB/BMRB legacy archives) should call ParseASCII directly, which
avoids the rune-decoding overhead of the Unicode grammar. Clients
ingesting modern UTF-8 dictionaries or mmCIF files with non-Latin
metadata should use ParseUnicode. ParseWith/ParseDefault exist for
callers who want the encoding mode to be data-driven (e.g. resolved from
a BOM, a content-type header, or a user preference) rather than
hard-coded at the call site.

Walking the tree

Once a tree is parsed, a caller-supplied ContentHandler can be driven
over it with Walk, WalkWithSource or WalkWithConfig:

	func Walk(tree *ParseTree, h ContentHandler) bool
	func WalkWithSource(root *Node, h ContentHandler, source []byte) bool

The handler receives start/end events for blocks, save frames and loops,
and one Data event per tag/value pair, with the current loop nesting
level attached. Returning true from any handler method halts the walk;
Walk/WalkWithSource return true if that happened. The walker never
returns an error: a malformed tree cannot exist by construction, and an
early stop is a cooperative outcome, not a failure.

Mutating the tree

NewMutableTree copies a Node tree into an owned, editable MutableNode
tree. DecomposeStrings rewrites every quoted-string leaf into three
children (opening delimiter, content, closing delimiter). It never
modifies non-string nodes and is idempotent: running it twice produces
the same tree as running it once. ToNode freezes an edited MutableNode
tree back into an immutable Node tree for Walk/WalkWithSource.
*/
package ustar
