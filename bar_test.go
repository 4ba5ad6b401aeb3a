package weego_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obinnaokechukwu/weego"
)

func TestBarItemRender(t *testing.T) {
	w, host := newWeechat(t)

	item, err := weego.NewBarItem(w, "counter",
		func(n *int, item *weego.BarItem, buf weego.Buffer) string {
			*n++
			return item.Name() + ":" + strconv.Itoa(*n) + "@" + buf.Name()
		}, 0)
	require.NoError(t, err)

	text, ok := host.RenderBarItem("counter", host.Core())
	require.True(t, ok)
	assert.Equal(t, "counter:1@weechat", text)
	text, _ = host.RenderBarItem("counter", host.Core())
	assert.Equal(t, "counter:2@weechat", text)

	item.Update()
	w.UpdateBarItem("counter")
	assert.Equal(t, 2, host.Updates("counter"))

	require.NoError(t, item.Close())
	item.Update()
	assert.Equal(t, 2, host.Updates("counter"), "a closed item is not redrawn")
	assert.Equal(t, 1, host.Unregisters(item.Pointer()))
}

func TestBarItemEmbeddedNul(t *testing.T) {
	w, host := newWeechat(t)

	_, err := weego.NewBarItem(w, "nul",
		func(*struct{}, *weego.BarItem, weego.Buffer) string { return "a\x00b" }, struct{}{})
	require.NoError(t, err)

	text, ok := host.RenderBarItem("nul", nil)
	require.True(t, ok)
	assert.Equal(t, "ab", text)
}

func TestBarItemPanicRendersNothing(t *testing.T) {
	w, host := newWeechat(t)
	captureLog(t)

	_, err := weego.NewBarItem(w, "broken",
		func(*struct{}, *weego.BarItem, weego.Buffer) string { panic("render") }, struct{}{})
	require.NoError(t, err)

	var ok bool
	require.NotPanics(t, func() { _, ok = host.RenderBarItem("broken", nil) })
	assert.False(t, ok)
}

func TestBarItemDuplicateName(t *testing.T) {
	w, _ := newWeechat(t)

	render := func(*payload, *weego.BarItem, weego.Buffer) string { return "" }
	_, err := weego.NewBarItem(w, "dup", render, payload{})
	require.NoError(t, err)

	_, err = weego.NewBarItem(w, "dup", render, payload{})
	var hostErr *weego.HostError
	require.ErrorAs(t, err, &hostErr)
	assert.Equal(t, "bar_item_new", hostErr.Op)
}
