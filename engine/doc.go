// Package engine resolves source/destination type pairs to mapping rules and compiles
// execution plans for them.
//
// Rules (TypeMaps) are declared on Profiles and sealed once by New:
//
//	p := engine.NewProfile("orders")
//	engine.CreateMap[Order, OrderDTO](p).
//		ForMember("Total", engine.MapFrom("Summary.Total"))
//
//	e, err := engine.New([]*engine.Profile{p})
//
// A requested pair is resolved to the most specific rule: an exact rule, a rule indexed for a
// derived type through Include, an instantiation of an open generic rule, or a rule declared
// for an ancestor (embedded struct or known interface) of either side. Pairs without a rule
// are handled by object mappers and then by the built-in fallback conversions of
// internal/plan.
//
// Resolution results and execution plans are computed at most once per key and cached for
// the lifetime of the Engine. A sealed Engine is safe for concurrent use.
package engine
