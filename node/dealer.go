package node

import "reflect"

// Pair is a source and destination type visited by a Dealer.
type Pair struct{ Src, Dst reflect.Type }

// Dealer hands out type pairs in the order they were first needed, each pair once.
// The zero Dealer is ready to use.
type Dealer struct {
	queue []Pair
	seen  map[Pair]struct{}
}

// NextNeeds pops the oldest pending pair.
func (d *Dealer) NextNeeds() (src, dst reflect.Type, ok bool) {
	if len(d.queue) == 0 {
		return
	}

	pair := d.queue[0]
	d.queue = d.queue[1:]

	return pair.Src, pair.Dst, true
}

// Needs schedules a pair unless it was scheduled or marked done before.
func (d *Dealer) Needs(src, dst reflect.Type) {
	pair := Pair{Src: src, Dst: dst}
	if d.mark(pair) {
		d.queue = append(d.queue, pair)
	}
}

// Done marks a pair as visited without scheduling it.
func (d *Dealer) Done(src, dst reflect.Type) {
	d.mark(Pair{Src: src, Dst: dst})
}

// Pending returns the number of pairs waiting to be handed out.
func (d *Dealer) Pending() int { return len(d.queue) }

func (d *Dealer) mark(pair Pair) bool {
	if d.seen == nil {
		d.seen = make(map[Pair]struct{})
	}

	if _, exists := d.seen[pair]; exists {
		return false
	}

	d.seen[pair] = struct{}{}

	return true
}
