// Package detector implements the feature detection engine used by
// console plugins.
//
// A Detector inspects cluster state and reports capability flags to a
// feature.Dispatcher. Two shapes cover every plugin detector:
//
//   - OneShot runs a probe once. 404 means the feature is definitively
//     absent and sets all owned flags to False. Other failures follow a
//     Policy: 403 and 502 withdraw the owned flags (Unset), and every status
//     except 401, 403 and 500 schedules a retry after a fixed 15s delay.
//   - Poller ticks every 10s until a condition holds. A match sets the flag
//     to True and stops; no match sets False and keeps polling; a failed
//     query stops polling silently and the poller stays dormant until Detect
//     is called again.
//
// Retries and ticks are submitted through a timer.Scheduler and the handle
// is owned by the detector that created it. Cancelling a handle does not
// abort an in-flight query; its result is ignored instead.
//
// Registry and Runner wire detectors contributed by plugins to a dispatcher:
//
//	reg := detector.NewRegistry()
//	ceph.Register(reg, client, sched, detector.WithLogger(log))
//
//	runner := detector.NewRunner(reg, dispatcher, detector.WithLogger(log))
//	_ = runner.Start(ctx)
//	defer runner.Stop()
package detector
