package weego_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obinnaokechukwu/weego"
	"github.com/obinnaokechukwu/weego/weegotest"
)

func TestCronHookRearms(t *testing.T) {
	w, host := newWeechat(t)

	clock := time.Date(2026, 3, 1, 10, 2, 0, 0, time.UTC)
	now := func() time.Time { return clock }

	data := &payload{}
	var fired []time.Time
	c, err := weego.HookCronClock(w, "*/5 * * * *", now,
		func(_ **payload, at time.Time) weego.ReturnCode {
			fired = append(fired, at)
			return weego.OK
		}, data)
	require.NoError(t, err)
	assert.Equal(t, "*/5 * * * *", c.Spec())
	assert.Equal(t, clock.Add(3*time.Minute), c.Next())

	timers := host.All(weegotest.KindTimer)
	require.Len(t, timers, 1)
	assert.Equal(t, 3*time.Minute, host.Interval(timers[0]))

	clock = clock.Add(3 * time.Minute)
	rc, ok := host.Tick(timers[0])
	require.True(t, ok)
	assert.Equal(t, weego.OK, rc)
	assert.Equal(t, []time.Time{clock}, fired)

	assert.False(t, host.Has(timers[0]))
	next := host.All(weegotest.KindTimer)
	require.Len(t, next, 1)
	assert.Equal(t, 5*time.Minute, host.Interval(next[0]))
	assert.Equal(t, clock.Add(5*time.Minute), c.Next())
	assert.Equal(t, 2, w.Live(), "the cron hook and its pending timer")

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	assert.True(t, c.Closed())
	assert.Equal(t, 1, host.Unregisters(next[0]))
	assert.Equal(t, 1, data.closed)
	assert.Empty(t, host.All(weegotest.KindTimer))
	assert.Zero(t, w.Live())
}

func TestCronHookPanicKeepsSchedule(t *testing.T) {
	w, host := newWeechat(t)
	captureLog(t)

	clock := time.Date(2026, 3, 1, 10, 0, 30, 0, time.UTC)
	c, err := weego.HookCronClock(w, "@hourly", func() time.Time { return clock },
		func(*struct{}, time.Time) weego.ReturnCode { panic("cron") }, struct{}{})
	require.NoError(t, err)

	rc, _ := host.Tick(host.All(weegotest.KindTimer)[0])
	assert.Equal(t, weego.Error, rc)
	assert.False(t, c.Closed())
	assert.Len(t, host.All(weegotest.KindTimer), 1)
}

func TestCronHookClosedFromItsCallback(t *testing.T) {
	w, host := newWeechat(t)

	clock := time.Date(2026, 3, 1, 10, 0, 30, 0, time.UTC)
	data := &payload{}
	var c *weego.CronHook
	c, err := weego.HookCronClock(w, "@hourly", func() time.Time { return clock },
		func(p **payload, _ time.Time) weego.ReturnCode {
			require.NoError(t, c.Close())
			assert.True(t, c.Closed())
			assert.Zero(t, (*p).closed, "payload closed while its callback runs")
			return weego.OK
		}, data)
	require.NoError(t, err)

	rc, ok := host.Tick(host.All(weegotest.KindTimer)[0])
	require.True(t, ok)
	assert.Equal(t, weego.OK, rc)
	assert.Equal(t, 1, data.closed)
	assert.Empty(t, host.All(weegotest.KindTimer), "a closed cron hook must not rearm")
	assert.Zero(t, w.Live())
}

func TestCronHookClosedByUnload(t *testing.T) {
	w, host := newWeechat(t)

	c, err := weego.HookCron(w, "@every 90s",
		func(*struct{}, time.Time) weego.ReturnCode { return weego.OK }, struct{}{})
	require.NoError(t, err)

	timers := host.All(weegotest.KindTimer)
	require.Len(t, timers, 1)
	interval := host.Interval(timers[0])
	assert.LessOrEqual(t, interval, 90*time.Second)
	assert.Greater(t, interval, 88*time.Second)

	w.CloseAll()
	assert.True(t, c.Closed())
	assert.Equal(t, 1, host.Unregisters(timers[0]))
}

func TestHookCronValidation(t *testing.T) {
	w, host := newWeechat(t)
	noop := func(*struct{}, time.Time) weego.ReturnCode { return weego.OK }

	_, err := weego.HookCron(w, "", noop, struct{}{})
	assert.ErrorIs(t, err, weego.ErrInvalidArgument)
	_, err = weego.HookCron(w, "61 * * * *", noop, struct{}{})
	assert.ErrorIs(t, err, weego.ErrInvalidArgument)
	_, err = weego.HookCron[struct{}](w, "@daily", nil, struct{}{})
	assert.ErrorIs(t, err, weego.ErrInvalidArgument)

	data := &payload{}
	host.FailNext("hook_timer")
	_, err = weego.HookCron(w, "@daily", func(**payload, time.Time) weego.ReturnCode { return weego.OK }, data)
	assert.ErrorIs(t, err, weego.ErrRegistration)
	assert.Equal(t, 1, data.closed)
	assert.Zero(t, w.Live())
}
