package mappers

import (
	"reflect"
	"sort"
	"sync"

	"caster-engine/engine"
	"caster-engine/internal/errors"
	"caster-engine/internal/typesys"
)

// Format fills structs from string maps. Each configured pair names, per source key, the
// destination field receiving the value; values are converted through the engine. Keys that
// are absent leave their field untouched.
type Format struct {
	mu    sync.RWMutex
	rules map[engine.TypePair]map[string]string
}

var _ engine.ObjectMapper = (*Format)(nil)

func NewFormat() *Format {
	return &Format{rules: make(map[engine.TypePair]map[string]string)}
}

// Keys configures src -> dst. keys maps a source key to a destination field name.
func (f *Format) Keys(src, dst reflect.Type, keys map[string]string) *Format {
	copied := make(map[string]string, len(keys))
	for k, v := range keys {
		copied[k] = v
	}

	f.mu.Lock()
	f.rules[engine.TypePair{Source: src, Destination: dst}] = copied
	f.mu.Unlock()

	return f
}

// FormatKeys configures S -> D on f.
func FormatKeys[S ~map[string]string, D any](f *Format, keys map[string]string) *Format {
	return f.Keys(reflect.TypeFor[S](), reflect.TypeFor[D](), keys)
}

func (f *Format) Name() string { return "format" }

func (f *Format) IsMatch(_ *engine.Engine, pair engine.TypePair) bool {
	_, ok := f.rule(pair)
	return ok
}

func (f *Format) rule(pair engine.TypePair) (map[string]string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	keys, ok := f.rules[pair]

	return keys, ok
}

type formatField struct {
	key   string
	field reflect.StructField
}

func (f *Format) Build(_ *engine.Engine, req engine.MapRequest) (engine.PlanFunc, error) {
	src, dst := req.Runtime.Source, req.Runtime.Destination

	keys, ok := f.rule(req.Runtime)
	if !ok {
		return nil, errors.Newf("no format configured for %s", req.Runtime)
	}

	if src.Kind() != reflect.Map || src.Key().Kind() != reflect.String || src.Elem().Kind() != reflect.String {
		return nil, errors.Newf("format source %s is not a string map", src)
	}

	if dst.Kind() != reflect.Struct {
		return nil, errors.Newf("format destination %s is not a struct", dst)
	}

	fields := make([]formatField, 0, len(keys))

	for key, name := range keys {
		field, ok := dst.FieldByName(name)
		if !ok || !field.IsExported() {
			return nil, errors.WithHintf(
				errors.Newf("%s has no exported field %q for key %q", dst, name, key),
				"check the keys configured for %s", req.Runtime)
		}

		fields = append(fields, formatField{key: key, field: field})
	}

	sort.Slice(fields, func(i, j int) bool { return fields[i].key < fields[j].key })

	return func(ctx *engine.Context, s, existing reflect.Value) (reflect.Value, error) {
		out := existing
		if !out.IsValid() || !out.CanSet() {
			out = reflect.New(dst).Elem()
		}

		for _, ff := range fields {
			raw := s.MapIndex(reflect.ValueOf(ff.key).Convert(src.Key()))
			if !raw.IsValid() {
				continue
			}

			v, err := ctx.Map(reflect.ValueOf(raw.String()), ff.field.Type)
			if err != nil {
				return reflect.Value{}, errors.Wrapf(err, "key %q", ff.key)
			}

			typesys.Settable(out, ff.field.Index).Set(v)
		}

		return out, nil
	}, nil
}
