package engine

import (
	"reflect"
	"runtime"

	"go.uber.org/zap"

	"caster-engine/internal/errors"
	"caster-engine/internal/metrics"
	"caster-engine/internal/plan"
	"caster-engine/options"
)

// Options configures an Engine.
type Options struct {
	Logger  *zap.Logger
	Metrics *metrics.Metrics

	// MaxDepth bounds how many rules nest within one call; deeper values are left zero.
	// Zero means unlimited.
	MaxDepth int
	// Concurrency bounds CompileAll workers.
	Concurrency int

	Fallbacks  options.CategoryEnum
	Converters *plan.Converters

	// ObjectMappers are consulted in order when a pair has no rule.
	ObjectMappers []ObjectMapper
	// KnownInterfaces take part in ancestry search besides interfaces used by declared maps.
	KnownInterfaces []reflect.Type

	errs []error
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the options New starts from.
func DefaultOptions() Options {
	return Options{
		Logger:        zap.NewNop(),
		Concurrency:   runtime.GOMAXPROCS(0),
		Fallbacks:     options.CategoryAll,
		Converters:    plan.NewConverters(),
		ObjectMappers: []ObjectMapper{CollectionMapper{}, PointerMapper{}},
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Options) { o.Metrics = m }
}

func WithMaxDepth(depth int) Option {
	return func(o *Options) {
		if depth < 0 {
			o.errs = append(o.errs, errors.Newf("max depth must not be negative, got %d", depth))
			return
		}

		o.MaxDepth = depth
	}
}

func WithConcurrency(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.Concurrency = n
		}
	}
}

// WithFallbacks selects which built-in conversions may be used.
func WithFallbacks(c options.CategoryEnum) Option {
	return func(o *Options) { o.Fallbacks = c }
}

// WithTextConverter registers a parser from text to a value type, e.g. func(string) (Money, error).
func WithTextConverter(fn any) Option {
	return func(o *Options) {
		if err := o.Converters.Register(fn); err != nil {
			o.errs = append(o.errs, err)
		}
	}
}

// WithObjectMappers puts mappers in front of the default ones.
func WithObjectMappers(mappers ...ObjectMapper) Option {
	return func(o *Options) {
		o.ObjectMappers = append(append([]ObjectMapper{}, mappers...), o.ObjectMappers...)
	}
}

func WithKnownInterfaces(ifaces ...reflect.Type) Option {
	return func(o *Options) {
		for _, t := range ifaces {
			if t == nil || t.Kind() != reflect.Interface {
				o.errs = append(o.errs, errors.Newf("%s is not an interface type", typeName(t)))
				continue
			}

			o.KnownInterfaces = append(o.KnownInterfaces, t)
		}
	}
}

func (o Options) fallbacks() plan.Fallbacks {
	return plan.Fallbacks{Enabled: o.Fallbacks, Converters: o.Converters}
}
