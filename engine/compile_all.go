package engine

import (
	"context"
	"reflect"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"caster-engine/internal/errors"
	"caster-engine/internal/logger"
)

// CompileAll compiles the plan of every resolved pair known so far, together with the member
// plans of their rules. Pairs with placeholder types are skipped. Afterwards these requests
// are served from the plan cache.
func (e *Engine) CompileAll(ctx context.Context) error {
	requests := e.warmupRequests()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Concurrency)

	for _, req := range requests {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			if _, err := e.ExecutionPlan(req); err != nil {
				return errors.Wrapf(err, "compile %s", req)
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "compile all")
	}

	e.log.Debug("plans compiled", zap.Int(logger.FieldCount, len(requests)))

	return nil
}

func (e *Engine) warmupRequests() []MapRequest {
	maps := make(map[TypePair]*TypeMap)

	for pair, tm := range e.resolved {
		if tm != nil {
			maps[pair] = tm
		}
	}

	e.runtime.Range(func(pair TypePair, tm *TypeMap, _ error) bool {
		if tm != nil {
			maps[pair] = tm
		}

		return true
	})

	var requests []MapRequest

	for pair, tm := range maps {
		if pair.ContainsGenericParameters() {
			continue
		}

		requests = append(requests, NewMapRequest(pair))

		if tm.Types != pair {
			continue
		}

		for _, m := range e.ResolveTypeMap(pair).Members() {
			member := TypePair{Source: m.SourceType, Destination: m.DestinationType}
			if m.Ignored || m.SourceType.Kind() == reflect.Interface || member.ContainsGenericParameters() {
				continue
			}

			requests = append(requests, MapRequest{Requested: member, Runtime: member, Member: m})
		}
	}

	sort.Slice(requests, func(i, j int) bool { return requests[i].String() < requests[j].String() })

	return requests
}
