package ustar

import "strings"

// wordClass classifies a maximal run of non-whitespace characters (a
// "bare word") into the grammar production it introduces. Keyword
// discrimination is case-insensitive with the trailing underscore
// mandatory, per spec §4.1/§3.
type wordClass int

const (
	wcInvalid wordClass = iota
	wcDataHeading
	wcSaveHeading
	wcSaveClose
	wcGlobalKeyword
	wcLoopKeyword
	wcStopKeyword
	wcDataName
	wcFrameCode
	wcNonQuoted
)

// classifyBareWord decides which production a bare word introduces. It
// never consumes input; callers use it to look ahead before deciding how
// to parse the next token.
func classifyBareWord(word string) wordClass {
	if word == "" {
		return wcInvalid
	}
	lower := strings.ToLower(word)
	switch lower {
	case "loop_":
		return wcLoopKeyword
	case "stop_":
		return wcStopKeyword
	case "global_":
		return wcGlobalKeyword
	case "save_":
		return wcSaveClose
	case "data_", "_", "$":
		return wcInvalid
	}
	switch {
	case strings.HasPrefix(lower, "save_"):
		return wcSaveHeading
	case strings.HasPrefix(lower, "data_"):
		return wcDataHeading
	case strings.HasPrefix(word, "_"):
		return wcDataName
	case strings.HasPrefix(word, "$"):
		return wcFrameCode
	default:
		return wcNonQuoted
	}
}

// isReservedKeyword reports whether lower (an already-lowercased bare
// word) is one of the five reserved keywords, or a data_/save_ heading
// form of one -- the set that a non-quoted value must never match, per
// the "non-quoted value form ... excludes the five keywords" invariant.
func isReservedKeyword(lower string) bool {
	switch lower {
	case "data_", "loop_", "global_", "save_", "stop_":
		return true
	}
	return strings.HasPrefix(lower, "data_") || strings.HasPrefix(lower, "save_")
}
