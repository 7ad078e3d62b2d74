package engine

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"caster-engine/internal/metrics"
	"caster-engine/internal/plan"
)

type Widget struct {
	Name string
	Size int
}

func (w Widget) String() string { return fmt.Sprintf("%s(%d)", w.Name, w.Size) }

type Gadget struct {
	Label  string
	Weight float64
}

type WidgetDTO struct {
	Name string
	Size int64
}

// S2 derives from S1, D2 from D1.
type S1 struct{ ID int }

type S2 struct {
	S1
	Extra string
}

type D1 struct{ ID int }

type D2 struct {
	D1
	Extra string
}

type Box[T any] struct{ V T }

type Wrapper[T any] struct{ V T }

type Category struct {
	Name   string
	Parent *Category
	Subs   []Category
}

type CategoryDTO struct {
	Name   string
	Parent *CategoryDTO
	Subs   []CategoryDTO
}

type Node struct {
	Name string
	Next *Node
}

type NodeDTO struct {
	Name string
	Next *NodeDTO
}

type Named interface{ Label() string }

type Tag struct{ Text string }

func (t Tag) Label() string { return strings.ToUpper(t.Text) }

type LabelDTO struct{ Label string }

type Animal struct{ Name string }

type Dog struct {
	Animal
	Breed string
}

type AnimalDTO struct{ Name string }

type DogDTO struct {
	AnimalDTO
	Breed string
}

type Customer struct {
	Name  string
	Email string
}

type Order struct {
	ID       int
	Customer *Customer
	Lines    []Line
	Notes    string
	total    int
}

func (o Order) Total() int { return o.total }

type Line struct {
	SKU string
	Qty string
}

type LineDTO struct {
	SKU string
	Qty int
}

type OrderDTO struct {
	ID           int
	CustomerName string
	Email        string
	Lines        []LineDTO
	Total        int
	Notes        string
	Source       string
	Audit        string
}

func build(t *testing.T, profile *Profile, opts ...Option) *Engine {
	t.Helper()

	e, err := New([]*Profile{profile}, opts...)
	require.NoError(t, err)

	return e
}

// compiled sums the compile counter over every strategy.
func compiled(m *metrics.Metrics) float64 {
	var total float64
	for s := plan.StrategyTypeMap; s <= plan.StrategyUnsupported; s++ {
		total += testutil.ToFloat64(m.PlansCompiled.WithLabelValues(s.String()))
	}

	return total
}

func typeNames(types []reflect.Type) []string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}

	return names
}
