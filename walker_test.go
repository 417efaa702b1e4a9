package ustar

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// haltingHandler stops the walk as soon as it sees the named tag.
type haltingHandler struct {
	BaseHandler
	haltOnTag string
	seen      []string
}

func (h *haltingHandler) Data(tag string, tagPos LineColumn, value string, valuePos LineColumn, delimiter string, loopLevel int) bool {
	h.seen = append(h.seen, tag)
	return tag == h.haltOnTag
}

func TestWalkHaltsEarlyOnHandlerTrue(t *testing.T) {
	tree := mustParse(t, "data_a\n_x 1\n_y 2\n_z 3\n")
	h := &haltingHandler{haltOnTag: "_y"}

	halted := Walk(tree, h)

	assert.True(t, halted)
	assert.Equal(t, []string{"_x", "_y"}, h.seen)
}

func TestWalkDoesNotHaltWhenHandlerNeverReturnsTrue(t *testing.T) {
	tree := mustParse(t, "data_a\n_x 1\n_y 2\n")
	h := &haltingHandler{haltOnTag: "_never"}

	halted := Walk(tree, h)

	assert.False(t, halted)
	assert.Equal(t, []string{"_x", "_y"}, h.seen)
}

func TestWalkWithSourceWalksBareRoot(t *testing.T) {
	source := []byte("data_a\n_x 1\n")
	tree := mustParse(t, string(source))

	h := &recordingHandler{}
	halted := WalkWithSource(tree.Root, h, source)

	require.False(t, halted)
	assert.Contains(t, h.events, `data("_x","1",delim="",level=0)`)
}

func TestWalkWithConfigUsesSuppliedStreamName(t *testing.T) {
	source := []byte("data_a\n_x 1\n")
	tree := mustParse(t, string(source))

	var streamName string
	h := &funcHandler{
		BaseHandler: BaseHandler{},
		onStartStream: func(name string) bool {
			streamName = name
			return false
		},
	}
	cfg := Config{StreamName: "explicit-stream"}
	WalkWithConfig(tree.Root, h, source, ByteColumns, cfg, zerolog.Nop())

	assert.Equal(t, "explicit-stream", streamName)
}

func TestWalkGeneratesSyntheticStreamNameWhenUnset(t *testing.T) {
	tree := mustParse(t, "data_a\n_x 1\n")

	var streamName string
	h := &funcHandler{
		onStartStream: func(name string) bool {
			streamName = name
			return false
		},
	}
	Walk(tree, h)

	assert.NotEmpty(t, streamName)
	assert.Contains(t, streamName, "stream-")
}

func TestEmptyLoopDelimiterConstant(t *testing.T) {
	assert.Equal(t, "EMPTY_LOOP", EmptyLoopDelimiter)
}

func TestHeadingNameStripsPrefixCasePreserving(t *testing.T) {
	assert.Equal(t, "MyBlock", headingName("DATA_MyBlock", len("data_")))
	assert.Equal(t, "", headingName("data_", len("data_")))
	assert.Equal(t, "", headingName("x", 5))
}

func TestBaseHandlerNeverHalts(t *testing.T) {
	var h ContentHandler = BaseHandler{}
	assert.False(t, h.StartStream(""))
	assert.False(t, h.EndStream(LineColumn{}))
	assert.False(t, h.StartGlobal(LineColumn{}))
	assert.False(t, h.EndGlobal(LineColumn{}))
	assert.False(t, h.StartData(LineColumn{}, ""))
	assert.False(t, h.EndData(LineColumn{}, ""))
	assert.False(t, h.StartSaveFrame(LineColumn{}, ""))
	assert.False(t, h.EndSaveFrame(LineColumn{}, ""))
	assert.False(t, h.StartLoop(LineColumn{}))
	assert.False(t, h.EndLoop(LineColumn{}))
	assert.False(t, h.Comment(LineColumn{}, ""))
	assert.False(t, h.Data("", LineColumn{}, "", LineColumn{}, "", 0))
}

// funcHandler lets individual tests override just the callbacks they care
// about without declaring a new named type each time.
type funcHandler struct {
	BaseHandler
	onStartStream func(string) bool
}

func (h *funcHandler) StartStream(name string) bool {
	if h.onStartStream != nil {
		return h.onStartStream(name)
	}
	return false
}
