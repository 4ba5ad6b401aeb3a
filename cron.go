package weego

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

// CronHook runs a callback on a cron schedule. WeeChat has no notion of
// calendar schedules, so each activation is a single-shot WeeChat timer
// armed for the next time the schedule matches.
type CronHook struct {
	w     Weechat
	spec  string
	sched cron.Schedule
	now   func() time.Time

	fire  func(at time.Time) ReturnCode
	drop  func()
	timer *Hook
	next  time.Time
	state atomic.Int32

	// firing is set while fire runs; a close meanwhile leaves the payload
	// to tick.
	firing      atomic.Bool
	dropPending atomic.Bool
}

// HookCron parses spec as a standard five-field cron expression (or a
// descriptor such as "@hourly" or "@every 90s") and calls cb at every
// activation with the scheduled time. data is owned by the hook like with
// the other registrations.
func HookCron[P any](w Weechat, spec string, cb func(data *P, at time.Time) ReturnCode, data P) (*CronHook, error) {
	if spec == "" {
		return nil, missing("cron spec")
	}
	if cb == nil {
		return nil, missing("cron callback")
	}
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("%w: cron spec %q: %v", ErrInvalidArgument, spec, err)
	}
	return newCronHook(w, spec, sched, time.Now, cb, data)
}

func newCronHook[P any](w Weechat, spec string, sched cron.Schedule, now func() time.Time, cb func(data *P, at time.Time) ReturnCode, data P) (*CronHook, error) {
	payload := &data
	c := &CronHook{
		w:     w,
		spec:  spec,
		sched: sched,
		now:   now,
		fire:  func(at time.Time) ReturnCode { return cb(payload, at) },
		drop:  func() { closePayload(payload) },
	}
	if err := c.arm(); err != nil {
		c.drop()
		return nil, err
	}
	w.scope.add(c)
	return c, nil
}

// arm schedules the timer for the next activation after now.
func (c *CronHook) arm() error {
	now := c.now()
	next := c.sched.Next(now)
	if next.IsZero() {
		return fmt.Errorf("%w: cron spec %q never fires", ErrInvalidArgument, c.spec)
	}
	wait := next.Sub(now)
	if wait < time.Millisecond {
		wait = time.Millisecond
	}

	timer, err := HookTimer(c.w, TimerInfo{Interval: wait, MaxCalls: 1},
		func(_ *struct{}, _ int) ReturnCode {
			return c.tick(next)
		}, struct{}{})
	if err != nil {
		return err
	}
	c.timer = timer
	c.next = next
	return nil
}

func (c *CronHook) tick(at time.Time) ReturnCode {
	c.firing.Store(true)
	rc := guard(0, "cron", func() ReturnCode {
		return c.fire(at)
	})
	c.firing.Store(false)
	if c.dropPending.CompareAndSwap(true, false) {
		c.drop()
	}
	if c.state.Load() == stateRegistered {
		if err := c.arm(); err != nil {
			Logger().Error("cron rearm failed", "spec", c.spec, "error", err)
			c.close()
		}
	}
	return rc
}

// Spec returns the schedule expression.
func (c *CronHook) Spec() string {
	return c.spec
}

// Next returns the time of the pending activation.
func (c *CronHook) Next() time.Time {
	return c.next
}

// Closed reports whether the hook has been closed.
func (c *CronHook) Closed() bool {
	return c.state.Load() != stateRegistered
}

// Close cancels the pending activation and releases the payload.
func (c *CronHook) Close() error {
	c.close()
	return nil
}

func (c *CronHook) close() {
	if !c.state.CompareAndSwap(stateRegistered, stateReleased) {
		return
	}
	if c.timer != nil {
		c.timer.Close()
	}
	if c.firing.Load() {
		c.dropPending.Store(true)
	} else {
		c.drop()
	}
	c.w.scope.remove(c)
}
