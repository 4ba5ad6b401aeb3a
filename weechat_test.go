package weego_test

import (
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obinnaokechukwu/weego"
	"github.com/obinnaokechukwu/weego/weegotest"
)

func TestNewNilHostPanics(t *testing.T) {
	assert.Panics(t, func() { weego.New(nil) })
}

func TestWeechatViews(t *testing.T) {
	w, host := newWeechat(t)

	w.Print("plain")
	w.Printf("%d items", 3)
	w.Log("to the log")
	assert.Equal(t, []string{"plain", "3 items"}, host.Messages(nil))
	assert.Equal(t, []string{"to the log"}, host.LogLines())
	assert.Same(t, host, w.Host())

	assert.Equal(t, "{red}", w.Color("red"))
	assert.Equal(t, "=!=\t", w.Prefix("error"))
	assert.Equal(t, "", w.Prefix("nonsense"))

	host.SetInfo("version", "4.4.2")
	v, ok := w.InfoGet("version", "")
	require.True(t, ok)
	assert.Equal(t, "4.4.2", v)
	_, ok = w.InfoGet("missing", "")
	assert.False(t, ok)

	_, ok = w.PluginOption("nick")
	assert.False(t, ok)
	assert.Equal(t, weego.OptionChanged, w.SetPluginOption("nick", "gopher"))
	assert.Equal(t, weego.OptionSameValue, w.SetPluginOption("nick", "gopher"))
	assert.True(t, w.SetPluginOption("nick", "gopher").OK())
	v, ok = w.PluginOption("nick")
	require.True(t, ok)
	assert.Equal(t, "gopher", v)

	host.SetEval("${info:version}", "4.4.2")
	v, _ = w.Eval("${info:version}")
	assert.Equal(t, "4.4.2", v)
}

func TestPrintTags(t *testing.T) {
	w, host := newWeechat(t)

	h, err := weego.BufferNew[struct{}, struct{}](w, "tags", nil, struct{}{}, nil, struct{}{})
	require.NoError(t, err)
	h.Buffer().PrintTags("notify_none,no_log", "quiet")
	h.Buffer().Printf("%s!", "loud")

	lines := host.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"notify_none", "no_log"}, lines[0].Tags)
	assert.Equal(t, "quiet", lines[0].Message)
	assert.Nil(t, lines[1].Tags)
	assert.Equal(t, "loud!", lines[1].Message)
}

func TestInfolist(t *testing.T) {
	w, host := newWeechat(t)

	when := time.Unix(1700000000, 0)
	host.AddInfolist("buffer",
		weegotest.InfolistItem{"name": "weechat", "number": 1, "buffer": host.Core(), "opened": when},
		weegotest.InfolistItem{"name": "scratch", "number": 2},
	)

	list, err := w.InfolistGet("buffer", nil, "")
	require.NoError(t, err)
	assert.Equal(t, "buffer", list.Name())

	var names []string
	var numbers []int
	for list.Next() {
		names = append(names, list.String("name"))
		numbers = append(numbers, list.Integer("number"))
	}
	assert.Equal(t, []string{"weechat", "scratch"}, names)
	assert.Equal(t, []int{1, 2}, numbers)

	require.True(t, list.Prev())
	require.True(t, list.Prev())
	assert.Equal(t, []weego.InfolistField{
		{Type: "p", Name: "buffer"},
		{Type: "s", Name: "name"},
		{Type: "i", Name: "number"},
		{Type: "t", Name: "opened"},
	}, list.Fields())
	assert.True(t, list.Time("opened").Equal(when))
	buf, ok := list.Buffer()
	require.True(t, ok)
	assert.Equal(t, host.Core(), buf.Pointer())
	assert.Equal(t, unsafe.Pointer(nil), list.PointerVar("missing"))

	require.NoError(t, list.Close())
	require.NoError(t, list.Close())
	assert.Equal(t, 1, host.Unregisters(list.Pointer()))
	assert.False(t, list.Next())
	assert.Nil(t, list.Fields())

	_, err = w.InfolistGet("nothing", nil, "")
	assert.ErrorIs(t, err, weego.ErrRegistration)
	_, err = w.InfolistGet("", nil, "")
	assert.ErrorIs(t, err, weego.ErrInvalidArgument)
}
