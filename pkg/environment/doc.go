// Package environment names the deployment environment the console
// daemon runs in.
//
// The value drives logger defaults (text/debug for development, JSON/info
// elsewhere) and is read from the APP_ENV variable.
//
//	env := environment.Parse(os.Getenv("APP_ENV"))
//	log := logger.New(logger.WithEnvironment(env, "featured"))
package environment
