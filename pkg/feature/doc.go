// Package feature holds console capability flags reported by detectors.
//
// A flag is a named tri-state toggle consumed by UI rendering logic: True
// shows a capability, False hides it, and Unset withdraws any earlier
// assertion so the console falls back to its default. Detectors never read
// flags; they only write them through a Dispatcher.
//
// # Architecture
//
// The package is built around three concepts:
//
// 1. Value - the tri-state flag value (True, False, Unset)
// 2. Store - backend storage for asserted values (MemoryStore, RedisStore)
// 3. Dispatcher - the write-only sink detectors report to (StoreDispatcher)
//
// A dispatched value persists until a later dispatch overwrites it; there is
// no implicit expiry. Dispatching the value a flag already has is a no-op:
// the store reports no change and change hooks are not fired.
//
// # Usage
//
//	store := feature.NewMemoryStore()
//	dispatcher := feature.NewDispatcher(store,
//		feature.WithLogger(log),
//		feature.WithChangeHook(func(ctx context.Context, name string, v feature.Value) {
//			// push update to connected consoles
//		}),
//	)
//
//	dispatcher.SetFlag(ctx, "RGW", feature.True)
//
//	enabled, err := store.Get(ctx, "RGW")
//	if errors.Is(err, feature.ErrFlagNotFound) {
//		// flag is unset
//	}
//
// # Redis
//
// RedisStore keeps flags in a single hash so that all console replicas share
// detector results. Writes go through a Lua script that compares and sets in
// one round trip, which keeps change detection exact under concurrent writers.
//
//	client, err := redis.Connect(ctx, cfg)
//	store, err := feature.NewRedisStore(client, feature.WithRedisKey("console:flags"))
//
// # Error Handling
//
// Stores return package errors wrapped with errors.Join; check them with
// errors.Is. StoreDispatcher logs storage failures instead of returning them
// because detectors are fire-and-forget.
package feature
