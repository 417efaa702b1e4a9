package ustar

// ContentHandler is the polymorphic sink of SAS (STAR-based API for
// Streaming) events driven by Walk / WalkWithSource / WalkWithConfig.
// Every method returns true to halt the walk immediately; per spec §4.5
// there is no compensating end_* event once a handler returns true, and
// no error is produced -- an early stop is a normal, cooperative outcome,
// not a failure.
type ContentHandler interface {
	StartStream(name string) bool
	EndStream(pos LineColumn) bool

	StartGlobal(pos LineColumn) bool
	EndGlobal(pos LineColumn) bool

	StartData(pos LineColumn, name string) bool
	EndData(pos LineColumn, name string) bool

	StartSaveFrame(pos LineColumn, name string) bool
	EndSaveFrame(pos LineColumn, name string) bool

	StartLoop(pos LineColumn) bool
	EndLoop(pos LineColumn) bool

	Comment(pos LineColumn, text string) bool

	// Data reports one tag/value pair. loopLevel is 0 outside any loop,
	// 1 in the outermost loop, 2 in a loop nested one level deep, and so
	// on. delimiter is "", "'", "\"", ";" or EmptyLoopDelimiter.
	Data(tag string, tagPos LineColumn, value string, valuePos LineColumn, delimiter string, loopLevel int) bool
}

// EmptyLoopDelimiter is the sentinel delimiter reported on the Data
// events synthesized for a loop whose definition has fields but whose
// values are empty (spec §4.5): one Data event per defined tag, value
// "", loopLevel matching the tag's nesting depth.
const EmptyLoopDelimiter = "EMPTY_LOOP"

// BaseHandler implements ContentHandler with every method returning
// false (never halt), so embedders only need to override the events they
// actually care about.
type BaseHandler struct{}

func (BaseHandler) StartStream(string) bool     { return false }
func (BaseHandler) EndStream(LineColumn) bool   { return false }
func (BaseHandler) StartGlobal(LineColumn) bool { return false }
func (BaseHandler) EndGlobal(LineColumn) bool   { return false }

func (BaseHandler) StartData(LineColumn, string) bool { return false }
func (BaseHandler) EndData(LineColumn, string) bool   { return false }

func (BaseHandler) StartSaveFrame(LineColumn, string) bool { return false }
func (BaseHandler) EndSaveFrame(LineColumn, string) bool   { return false }

func (BaseHandler) StartLoop(LineColumn) bool { return false }
func (BaseHandler) EndLoop(LineColumn) bool   { return false }

func (BaseHandler) Comment(LineColumn, string) bool { return false }

func (BaseHandler) Data(string, LineColumn, string, LineColumn, string, int) bool {
	return false
}
