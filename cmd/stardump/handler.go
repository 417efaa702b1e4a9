package main

import (
	"fmt"
	"io"

	"github.com/ustar-rs/ustar-go"
)

// dumpHandler renders every SAS event as one line of plain text, the way
// a debug trace over the walker would look -- this is the CLI's only use
// of the public walker API, not a second tree-walking code path.
type dumpHandler struct {
	ustar.BaseHandler
	out   io.Writer
	count int
}

func newDumpHandler(out io.Writer) *dumpHandler {
	return &dumpHandler{out: out}
}

func (h *dumpHandler) StartStream(name string) bool {
	fmt.Fprintf(h.out, "start_stream %s\n", name)
	return false
}

func (h *dumpHandler) EndStream(pos ustar.LineColumn) bool {
	fmt.Fprintf(h.out, "end_stream line=%d col=%d\n", pos.Line, pos.Column)
	return false
}

func (h *dumpHandler) StartGlobal(pos ustar.LineColumn) bool {
	fmt.Fprintf(h.out, "start_global line=%d col=%d\n", pos.Line, pos.Column)
	return false
}

func (h *dumpHandler) EndGlobal(pos ustar.LineColumn) bool {
	fmt.Fprintf(h.out, "end_global line=%d col=%d\n", pos.Line, pos.Column)
	return false
}

func (h *dumpHandler) StartData(pos ustar.LineColumn, name string) bool {
	fmt.Fprintf(h.out, "start_data %s line=%d col=%d\n", name, pos.Line, pos.Column)
	return false
}

func (h *dumpHandler) EndData(pos ustar.LineColumn, name string) bool {
	fmt.Fprintf(h.out, "end_data %s line=%d col=%d\n", name, pos.Line, pos.Column)
	return false
}

func (h *dumpHandler) StartSaveFrame(pos ustar.LineColumn, name string) bool {
	fmt.Fprintf(h.out, "start_saveframe %s line=%d col=%d\n", name, pos.Line, pos.Column)
	return false
}

func (h *dumpHandler) EndSaveFrame(pos ustar.LineColumn, name string) bool {
	fmt.Fprintf(h.out, "end_saveframe %s line=%d col=%d\n", name, pos.Line, pos.Column)
	return false
}

func (h *dumpHandler) StartLoop(pos ustar.LineColumn) bool {
	fmt.Fprintf(h.out, "start_loop line=%d col=%d\n", pos.Line, pos.Column)
	return false
}

func (h *dumpHandler) EndLoop(pos ustar.LineColumn) bool {
	fmt.Fprintf(h.out, "end_loop line=%d col=%d\n", pos.Line, pos.Column)
	return false
}

func (h *dumpHandler) Comment(pos ustar.LineColumn, text string) bool {
	fmt.Fprintf(h.out, "comment line=%d col=%d %q\n", pos.Line, pos.Column, text)
	return false
}

func (h *dumpHandler) Data(tag string, tagPos ustar.LineColumn, value string, valuePos ustar.LineColumn, delimiter string, loopLevel int) bool {
	h.count++
	fmt.Fprintf(h.out, "data %s=%q delim=%q level=%d tag_line=%d tag_col=%d value_line=%d value_col=%d\n",
		tag, value, delimiter, loopLevel, tagPos.Line, tagPos.Column, valuePos.Line, valuePos.Column)
	return false
}
