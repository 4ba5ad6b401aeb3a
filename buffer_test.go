package weego_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obinnaokechukwu/weego"
	"github.com/obinnaokechukwu/weego/internal/handles"
)

func TestBufferDualPayloads(t *testing.T) {
	w, host := newWeechat(t)

	input := &payload{}
	closing := &payload{}
	var lines []string
	closed := 0
	h, err := weego.BufferNew(w, "chat",
		func(p **payload, buf weego.Buffer, text string) weego.ReturnCode {
			lines = append(lines, text)
			buf.Print("> " + text)
			return weego.OK
		}, input,
		func(p **payload, buf weego.Buffer) weego.ReturnCode {
			closed++
			assert.Equal(t, "chat", buf.Name())
			return weego.OK
		}, closing)
	require.NoError(t, err)

	buf := h.Buffer()
	_, ok := host.Input(buf.Pointer(), "hello there")
	require.True(t, ok)
	assert.Equal(t, []string{"hello there"}, lines)
	assert.Equal(t, []string{"> hello there"}, host.Messages(buf.Pointer()))

	require.NoError(t, h.Close())
	require.NoError(t, h.Close())
	assert.Equal(t, 1, closed)
	assert.Equal(t, 1, input.closed)
	assert.Equal(t, 1, closing.closed)
	assert.Equal(t, 1, host.Unregisters(buf.Pointer()))
}

func TestBufferClosedByUser(t *testing.T) {
	w, host := newWeechat(t)

	data := &payload{}
	closed := 0
	h, err := weego.BufferNew(w, "user-closes",
		nil, struct{}{},
		func(p **payload, _ weego.Buffer) weego.ReturnCode {
			closed++
			return weego.OK
		}, data)
	require.NoError(t, err)
	p := h.Buffer().Pointer()

	require.True(t, host.CloseBuffer(p))
	assert.True(t, h.Closed())
	assert.Equal(t, 1, closed)
	assert.Equal(t, 1, data.closed)
	assert.Zero(t, w.Live())

	require.NoError(t, h.Close())
	assert.Zero(t, host.Unregisters(p), "a buffer WeeChat already closed must not be closed again")
}

func TestBufferNewRefusedClosesBothPayloads(t *testing.T) {
	w, host := newWeechat(t)
	before := handles.Count()

	input := &payload{}
	closing := &payload{}
	host.FailNext("buffer_new")
	h, err := weego.BufferNew(w, "refused",
		func(**payload, weego.Buffer, string) weego.ReturnCode { return weego.OK }, input,
		func(**payload, weego.Buffer) weego.ReturnCode { return weego.OK }, closing)

	require.ErrorIs(t, err, weego.ErrRegistration)
	assert.Nil(t, h)
	assert.Equal(t, 1, input.closed)
	assert.Equal(t, 1, closing.closed)
	assert.Equal(t, before, handles.Count())
	assert.Zero(t, w.Live())
	assert.Zero(t, host.Live())
}

func TestBufferClosedFromItsInputCallback(t *testing.T) {
	w, host := newWeechat(t)

	input := &payload{}
	closing := &payload{}
	closed := 0
	var h *weego.BufferHandle
	h, err := weego.BufferNew(w, "self-closing",
		func(p **payload, _ weego.Buffer, _ string) weego.ReturnCode {
			require.NoError(t, h.Close())
			assert.True(t, h.Closed())
			assert.Equal(t, 1, closed)
			assert.Zero(t, (*p).closed, "input payload closed while its callback runs")
			assert.Zero(t, closing.closed)
			return weego.OK
		}, input,
		func(**payload, weego.Buffer) weego.ReturnCode {
			closed++
			return weego.OK
		}, closing)
	require.NoError(t, err)
	p := h.Buffer().Pointer()

	rc, ok := host.Input(p, "/close")
	require.True(t, ok)
	assert.Equal(t, weego.OK, rc)
	assert.Equal(t, 1, input.closed)
	assert.Equal(t, 1, closing.closed)
	assert.Equal(t, 1, host.Unregisters(p))
	assert.False(t, host.Has(p))
}

func TestBufferInputRejectsInvalidUTF8(t *testing.T) {
	w, host := newWeechat(t)

	calls := 0
	h, err := weego.BufferNew(w, "utf8",
		func(*struct{}, weego.Buffer, string) weego.ReturnCode {
			calls++
			return weego.OK
		}, struct{}{},
		nil, struct{}{})
	require.NoError(t, err)

	rc, ok := host.Input(h.Buffer().Pointer(), "caf\xc3")
	require.True(t, ok)
	assert.Equal(t, weego.Error, rc)
	assert.Zero(t, calls)

	rc, _ = host.Input(h.Buffer().Pointer(), "café")
	assert.Equal(t, weego.OK, rc)
	assert.Equal(t, 1, calls)
}

func TestBufferProperties(t *testing.T) {
	w, host := newWeechat(t)

	h, err := weego.BufferNew[struct{}, struct{}](w, "props", nil, struct{}{}, nil, struct{}{})
	require.NoError(t, err)
	buf := h.Buffer()

	assert.Equal(t, "props", buf.Name())
	assert.Equal(t, "test.props", buf.FullName())
	assert.Equal(t, "test", buf.PluginName())
	assert.Positive(t, buf.Number())

	buf.SetTitle("A title")
	buf.SetLocalVar("channel", "#go")
	buf.DisableLog()
	assert.Equal(t, "A title", buf.Title())
	assert.Equal(t, "#go", buf.LocalVar("channel"))
	assert.Equal(t, "1", buf.LocalVar("no_log"))

	found, ok := w.BufferSearch("test", "props")
	require.True(t, ok)
	assert.True(t, found.Equal(buf))
	found, ok = w.BufferSearch("==", "test.props")
	require.True(t, ok)
	assert.True(t, found.Equal(buf))
	_, ok = w.BufferSearch("test", "missing")
	assert.False(t, ok)

	current, ok := w.CurrentBuffer()
	require.True(t, ok)
	assert.Equal(t, host.Core(), current.Pointer())
}

func TestNicklist(t *testing.T) {
	w, host := newWeechat(t)

	h, err := weego.BufferNew[struct{}, struct{}](w, "room", nil, struct{}{}, nil, struct{}{})
	require.NoError(t, err)
	buf := h.Buffer()
	buf.EnableNicklist(true)

	ops, err := buf.AddGroup("000|o", "weechat.color.nicklist_group", true, weego.NickGroup{})
	require.NoError(t, err)
	alice, err := buf.AddNick(weego.NickArgs{Name: "alice", Color: "cyan", Prefix: "@", PrefixColor: "lightgreen"}, ops)
	require.NoError(t, err)
	_, err = buf.AddNick(weego.NickArgs{Name: "bob"}, weego.NickGroup{})
	require.NoError(t, err)

	_, err = buf.AddNick(weego.NickArgs{Name: "alice"}, ops)
	assert.ErrorIs(t, err, weego.ErrRegistration, "duplicate nicks are refused")
	_, err = buf.AddNick(weego.NickArgs{}, ops)
	assert.ErrorIs(t, err, weego.ErrInvalidArgument)

	assert.Equal(t, "alice", alice.Name())
	assert.Equal(t, "@", alice.String("prefix"))
	assert.Equal(t, []string{"alice", "bob"}, host.Nicks(buf.Pointer()))

	alice.Remove()
	assert.Equal(t, []string{"bob"}, host.Nicks(buf.Pointer()))
	ops.Remove()
	weego.NickGroup{}.Remove()
}
