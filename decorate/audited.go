package decorate

import (
	"reflect"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/davecgh/go-spew/spew"
	"go.uber.org/zap"

	"caster-engine/engine"
	"caster-engine/internal/logger"
)

// fingerprint dumps values deterministically: map keys sorted, no pointer addresses.
var fingerprint = spew.ConfigState{
	Indent:                  " ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Record is one audited mapping call.
type Record struct {
	Source      reflect.Type
	Destination reflect.Type
	SourceHash  uint64
	DestHash    uint64
	Err         error
	At          time.Time
}

type audited struct {
	next engine.Mapper
	log  *zap.Logger
	sink func(Record)
	now  func() time.Time
}

// AuditOption customizes Audited.
type AuditOption func(*audited)

// WithSink receives every record in addition to the log entry.
func WithSink(fn func(Record)) AuditOption {
	return func(a *audited) { a.sink = fn }
}

// Audited logs one record per call with content hashes of the source and the result, so two
// calls can be compared without logging the values.
func Audited(next engine.Mapper, log *zap.Logger, opts ...AuditOption) engine.Mapper {
	a := &audited{next: next, log: logger.OrNop(log), now: time.Now}
	for _, opt := range opts {
		opt(a)
	}

	return a
}

func (a *audited) Map(src any, dst reflect.Type) (any, error) {
	out, err := a.next.Map(src, dst)
	a.audit(reflect.TypeOf(src), dst, src, out, err)

	return out, err
}

func (a *audited) MapInto(src, dst any) (any, error) {
	out, err := a.next.MapInto(src, dst)
	a.audit(reflect.TypeOf(src), reflect.TypeOf(dst), src, out, err)

	return out, err
}

func (a *audited) MapTypes(src any, srcType, dstType reflect.Type) (any, error) {
	out, err := a.next.MapTypes(src, srcType, dstType)
	a.audit(srcType, dstType, src, out, err)

	return out, err
}

func (a *audited) audit(srcType, dstType reflect.Type, src, out any, err error) {
	rec := Record{
		Source:      srcType,
		Destination: dstType,
		SourceHash:  Hash(src),
		Err:         err,
		At:          a.now(),
	}

	if err == nil {
		rec.DestHash = Hash(out)
	}

	if a.sink != nil {
		a.sink(rec)
	}

	a.log.Info("mapping audit",
		zap.Stringer(logger.FieldPair, engine.TypePair{Source: srcType, Destination: dstType}),
		zap.String(logger.FieldSourceHash, strconv.FormatUint(rec.SourceHash, 16)),
		zap.String(logger.FieldDestHash, strconv.FormatUint(rec.DestHash, 16)),
		zap.Bool("ok", err == nil))
}

// Hash returns a content hash of v. Equal values hash equally regardless of map order or
// pointer identity.
func Hash(v any) uint64 {
	if v == nil {
		return 0
	}

	return xxhash.Sum64String(fingerprint.Sdump(v))
}
