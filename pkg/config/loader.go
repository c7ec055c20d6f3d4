package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// entry holds the outcome of parsing one configuration type.
type entry struct {
	once  sync.Once
	value any
	err   error
}

var (
	loaded  sync.Map // type name -> *entry
	dotenv  sync.Once
	envFile = ".env"
)

// Load fills v from the environment. Each configuration type is parsed once
// per process; later calls copy the cached value. A .env file in the
// working directory is loaded first when present, without overriding
// variables that are already set.
//
//	type Config struct {
//		APIURL string        `env:"K8S_API_URL" envDefault:"https://kubernetes.default.svc"`
//		Timeout time.Duration `env:"K8S_TIMEOUT" envDefault:"30s"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	dotenv.Do(func() {
		// A missing .env file is the normal case in a cluster.
		_ = godotenv.Load(envFile)
	})

	actual, _ := loaded.LoadOrStore(typeName[T](), &entry{})
	e := actual.(*entry)
	e.once.Do(func() {
		var parsed T
		if err := env.Parse(&parsed); err != nil {
			e.err = errors.Join(ErrParsingConfig, err)
			return
		}
		e.value = parsed
	})

	if e.err != nil {
		return e.err
	}
	cached, ok := e.value.(T)
	if !ok {
		return ErrConfigNotLoaded
	}
	*v = cached
	return nil
}

// MustLoad is like Load but panics on error.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
}

// Option configures Parse.
type Option func(*env.Options)

// WithPrefix prepends prefix to every variable name.
func WithPrefix(prefix string) Option {
	return func(o *env.Options) { o.Prefix = prefix }
}

// WithEnvironment parses from vars instead of the process environment.
func WithEnvironment(vars map[string]string) Option {
	return func(o *env.Options) { o.Environment = vars }
}

// Parse parses a configuration value without caching it.
func Parse[T any](opts ...Option) (T, error) {
	var o env.Options
	for _, opt := range opts {
		opt(&o)
	}
	v, err := env.ParseAsWithOptions[T](o)
	if err != nil {
		return v, errors.Join(ErrParsingConfig, err)
	}
	return v, nil
}

// Reset forgets every cached configuration.
func Reset() {
	loaded.Clear()
}

func typeName[T any]() string {
	t := reflect.TypeFor[T]()
	if t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}
