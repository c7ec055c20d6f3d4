// Package redis connects to the Redis server backing the shared flag store.
//
//	client, err := redis.Connect(ctx, cfg.Redis)
//	if err != nil {
//		return err
//	}
//	store, err := feature.NewRedisStore(client, feature.WithRedisKey(cfg.Redis.FlagKey))
//
// Healthcheck plugs into httpserver.ReadinessHandler.
package redis
