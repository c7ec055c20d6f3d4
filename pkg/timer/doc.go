// Package timer provides the scheduling facility used by feature detectors.
//
// A Scheduler hands out an owned Handle for every one-shot (Schedule) or
// recurring (Every) callback; the component that created the handle is the
// one that cancels it. There is no global timer registry.
//
// Real runs callbacks on runtime timers. Manual runs them synchronously from
// Advance and is meant for tests:
//
//	sched := timer.NewManual()
//	h := sched.Every(poll, 10*time.Second)
//	sched.Advance(10 * time.Second) // poll runs once
//	sched.Cancel(h)
//	sched.Pending() // 0
package timer
