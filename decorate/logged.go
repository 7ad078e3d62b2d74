package decorate

import (
	"reflect"
	"time"

	"go.uber.org/zap"

	"caster-engine/engine"
	"caster-engine/internal/logger"
)

// Operation names logged for each Mapper method.
const (
	OpMap      = "map"
	OpMapInto  = "map_into"
	OpMapTypes = "map_types"
)

type logged struct {
	next engine.Mapper
	log  *zap.Logger
}

// Logged logs every call at Info and failures at Warn.
func Logged(next engine.Mapper, log *zap.Logger) engine.Mapper {
	return &logged{next: next, log: logger.OrNop(log)}
}

func (l *logged) Map(src any, dst reflect.Type) (any, error) {
	start := time.Now()
	out, err := l.next.Map(src, dst)
	l.record(OpMap, reflect.TypeOf(src), dst, start, err)

	return out, err
}

func (l *logged) MapInto(src, dst any) (any, error) {
	start := time.Now()
	out, err := l.next.MapInto(src, dst)
	l.record(OpMapInto, reflect.TypeOf(src), reflect.TypeOf(dst), start, err)

	return out, err
}

func (l *logged) MapTypes(src any, srcType, dstType reflect.Type) (any, error) {
	start := time.Now()
	out, err := l.next.MapTypes(src, srcType, dstType)
	l.record(OpMapTypes, srcType, dstType, start, err)

	return out, err
}

func (l *logged) record(op string, src, dst reflect.Type, start time.Time, err error) {
	fields := []zap.Field{
		zap.String(logger.FieldOperation, op),
		zap.Stringer(logger.FieldPair, engine.TypePair{Source: src, Destination: dst}),
		zap.Int64(logger.FieldDurationMS, time.Since(start).Milliseconds()),
	}

	if err != nil {
		l.log.Warn("mapping failed", append(fields, zap.NamedError(logger.FieldError, err))...)
		return
	}

	l.log.Info("mapped", fields...)
}
