// Package config loads typed configuration from environment variables.
//
// It wraps github.com/joho/godotenv, which loads a local .env file once per
// process, and github.com/caarlos0/env/v11, which parses the environment
// into structs annotated with env tags.
//
// Load caches the parsed value per configuration type, so components can
// ask for their configuration independently:
//
//	var k8sCfg k8s.Config
//	config.MustLoad(&k8sCfg)
//
// Parse skips the cache and accepts options, which keeps tests independent
// of the process environment:
//
//	cfg, err := config.Parse[k8s.Config](config.WithEnvironment(map[string]string{
//		"K8S_API_URL": "https://api.example.com:6443",
//	}))
package config
