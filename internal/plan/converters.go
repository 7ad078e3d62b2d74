package plan

import (
	"encoding"
	"reflect"
	"sync"
	"time"

	"caster-engine/internal/errors"
	"caster-engine/node"
	"caster-engine/primitive"
)

var textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()

// ErrBadConverter is returned when a text converter has the wrong shape.
var ErrBadConverter = errors.New("text converter must accept a string type")

// Converters holds text parsers keyed by the type they produce. Safe for concurrent use.
type Converters struct {
	mu     sync.RWMutex
	byType map[reflect.Type]node.Caster
}

func NewConverters() *Converters {
	return &Converters{byType: make(map[reflect.Type]node.Caster)}
}

// Register adds a parser such as func(string) (Money, error). Any caster shape accepted by
// node.ParseCaster works as long as its argument is a string type. A later registration for
// the same result type replaces the earlier one.
func (c *Converters) Register(fn any) error {
	caster, err := node.ParseCaster(fn)
	if err != nil {
		return errors.Wrap(err, "register text converter")
	}

	if caster.Src.Kind() != reflect.String {
		return errors.Wrapf(ErrBadConverter, "register %s", caster)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.byType[caster.Dst] = caster

	return nil
}

// Lookup returns a parser producing dst: a registered one, then built-ins for time.Time
// (RFC 3339) and time.Duration, then encoding.TextUnmarshaler implemented by *dst.
func (c *Converters) Lookup(dst reflect.Type) (func(text string) (reflect.Value, error), bool) {
	if c != nil {
		c.mu.RLock()
		caster, ok := c.byType[dst]
		c.mu.RUnlock()

		if ok {
			return func(text string) (reflect.Value, error) {
				out, ok, err := caster.Call(reflect.ValueOf(text).Convert(caster.Src))
				if err != nil {
					return reflect.Value{}, err
				}

				if !ok {
					return reflect.Zero(dst), nil
				}

				return out, nil
			}, true
		}
	}

	switch primitive.FromReflectType(dst) {
	case primitive.KindTime:
		return func(text string) (reflect.Value, error) {
			t, err := time.Parse(time.RFC3339Nano, text)
			if err != nil {
				return reflect.Value{}, errors.Wrapf(err, "parse %q as time", text)
			}

			return reflect.ValueOf(t), nil
		}, true
	case primitive.KindDuration:
		return func(text string) (reflect.Value, error) {
			d, err := time.ParseDuration(text)
			if err != nil {
				return reflect.Value{}, errors.Wrapf(err, "parse %q as duration", text)
			}

			return reflect.ValueOf(d), nil
		}, true
	}

	if reflect.PointerTo(dst).Implements(textUnmarshalerType) {
		return func(text string) (reflect.Value, error) {
			ptr := reflect.New(dst)
			if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(text)); err != nil {
				return reflect.Value{}, errors.Wrapf(err, "unmarshal %q as %s", text, dst)
			}

			return ptr.Elem(), nil
		}, true
	}

	return nil, false
}
