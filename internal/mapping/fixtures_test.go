package mapping

import (
	"fmt"
	"strconv"
)

type customer struct {
	Name  string
	Email string
}

type order struct {
	ID         int
	Customer   *customer
	TotalCents int64
	Notes      string
}

type orderDTO struct {
	ID           int64
	CustomerName string
	Email        string
	TotalAmount  float64
	Status       string
	Priority     int
	Label        string
	Notes        string
	Stamp        string
}

func centsToAmount(c int64) float64 { return float64(c) / 100 }

func describe(o order) string { return fmt.Sprintf("order %d", o.ID) }

func stamp(o order, d *orderDTO) { d.Stamp = "#" + strconv.Itoa(o.ID) }

func testRegistry() *Registry {
	reg := NewRegistry()
	RegisterType[order](reg)
	RegisterType[orderDTO](reg)
	RegisterType[customer](reg)

	return reg.
		Func("centsToAmount", centsToAmount).
		Func("describe", describe).
		Func("stamp", stamp)
}
