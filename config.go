package ustar

import (
	"bytes"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/unicode"
)

// EncodingMode selects which of the three grammar instantiations a
// Config asks the parser to use.
type EncodingMode int

const (
	// ASCII admits '!'..'~' plus space/tab/carriage return/newline.
	ASCII EncodingMode = iota
	// ExtendedASCII adds 0x80..0xFF to ASCII's range.
	ExtendedASCII
	// Unicode admits every rune, with Unicode whitespace as separators.
	Unicode
)

var encodingModeNames = [...]string{
	ASCII:         "ASCII",
	ExtendedASCII: "ExtendedASCII",
	Unicode:       "Unicode",
}

// String returns the configuration name of m.
func (m EncodingMode) String() string {
	if int(m) < 0 || int(m) >= len(encodingModeNames) {
		return "Unknown"
	}
	return encodingModeNames[m]
}

// Config holds the recognized, closed set of parser options (spec §4.6).
type Config struct {
	// EncodingMode selects the parser instantiation.
	EncodingMode EncodingMode
	// BOMDetection strips a leading UTF-8/UTF-16LE/UTF-16BE BOM before
	// parsing when true. A detected UTF-8 BOM additionally promotes
	// EncodingMode to Unicode for this call, mirroring the origin
	// downloader/dumper tools' auto-detection behavior (see DESIGN.md).
	BOMDetection bool
	// DecomposeStrings runs the string decomposer against a mutable
	// mirror of the parse tree after parsing, per spec §4.4.
	DecomposeStrings bool
	// PreserveComments, when true, asks the parser to keep comment spans
	// in the tree (as KindComment siblings) so the walker can emit
	// comment events; when false, comments are discarded during
	// scanning and never reach the tree.
	PreserveComments bool
	// StreamName labels the start_stream event. If empty, Walk
	// generates a synthetic, stable-for-the-call label via
	// github.com/google/uuid rather than passing an empty name through,
	// resolving spec §9 Open Question (a).
	StreamName string
}

// DefaultConfig returns the Config used by ParseDefault: ASCII encoding,
// no BOM detection, string decomposition enabled, comments discarded.
func DefaultConfig() Config {
	return Config{
		EncodingMode:     ASCII,
		BOMDetection:     false,
		DecomposeStrings: true,
		PreserveComments: false,
	}
}

// resolveStreamName returns cfg.StreamName, or a freshly generated
// synthetic label if it is empty.
func (cfg Config) resolveStreamName() string {
	if cfg.StreamName != "" {
		return cfg.StreamName
	}
	return "stream-" + uuid.NewString()
}

// bomKind identifies which BOM, if any, prefixes text.
type bomKind int

const (
	noBOM bomKind = iota
	utf8BOM
	utf16LEBOM
	utf16BEBOM
)

func detectBOM(text []byte) bomKind {
	switch {
	case bytes.HasPrefix(text, []byte{0xEF, 0xBB, 0xBF}):
		return utf8BOM
	case bytes.HasPrefix(text, []byte{0xFF, 0xFE}):
		return utf16LEBOM
	case bytes.HasPrefix(text, []byte{0xFE, 0xFF}):
		return utf16BEBOM
	default:
		return noBOM
	}
}

// stripBOM removes a recognized BOM prefix from text and reports whether
// the bytes that follow are the start of a UTF-16 stream the caller must
// transcode itself (spec §6: "UTF-16 inputs must be transcoded to UTF-8
// by the caller before being handed to Unicode-mode parsing").
func stripBOM(text []byte) (stripped []byte, kind bomKind) {
	switch detectBOM(text) {
	case utf8BOM:
		return text[3:], utf8BOM
	case utf16LEBOM:
		return text[2:], utf16LEBOM
	case utf16BEBOM:
		return text[2:], utf16BEBOM
	default:
		return text, noBOM
	}
}

// TranscodeUTF16ToUTF8 is a convenience helper for callers that have a
// BOM-prefixed UTF-16 buffer and want it converted to UTF-8 before
// calling ParseUnicode. The core library never calls this itself: per
// spec §3 Ownership and §6, transcoding is the caller's responsibility,
// not something the parser performs as a side effect of BOM detection.
func TranscodeUTF16ToUTF8(text []byte) ([]byte, error) {
	kind := detectBOM(text)
	var endian unicode.Endianness
	switch kind {
	case utf16LEBOM:
		endian = unicode.LittleEndian
	case utf16BEBOM:
		endian = unicode.BigEndian
	default:
		return nil, errors.New("ustar: input has no recognized UTF-16 BOM")
	}

	decoder := unicode.UTF16(endian, unicode.ExpectBOM).NewDecoder()
	out, err := decoder.Bytes(text)
	if err != nil {
		return nil, errors.Wrap(err, "ustar: transcoding UTF-16 input to UTF-8")
	}
	return out, nil
}

// applyBOM strips a BOM per cfg.BOMDetection and returns the (possibly
// adjusted) input buffer together with the effective encoding mode for
// this call.
func applyBOM(text []byte, cfg Config) ([]byte, EncodingMode, error) {
	if !cfg.BOMDetection {
		return text, cfg.EncodingMode, nil
	}

	stripped, kind := stripBOM(text)
	switch kind {
	case utf8BOM:
		return stripped, Unicode, nil
	case utf16LEBOM, utf16BEBOM:
		return nil, cfg.EncodingMode, errors.New(
			"ustar: input has a UTF-16 BOM; transcode with TranscodeUTF16ToUTF8 before calling ParseWith")
	default:
		return text, cfg.EncodingMode, nil
	}
}
