package weego

import (
	"time"

	"github.com/robfig/cron/v3"
)

var (
	DispatchCommand     = dispatchCommand
	DispatchInput       = dispatchInput
	DispatchBarItem     = dispatchBarItem
	DispatchOptionCheck = dispatchOptionCheck
)

func (h *handle) Token() uintptr {
	return h.token
}

// HookCronClock is HookCron with an injected clock.
func HookCronClock[P any](w Weechat, spec string, now func() time.Time, cb func(data *P, at time.Time) ReturnCode, data P) (*CronHook, error) {
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, err
	}
	return newCronHook(w, spec, sched, now, cb, data)
}

// CronTimer returns the pending timer of c.
func (c *CronHook) CronTimer() *Hook {
	return c.timer
}
