package engine_test

import (
	"fmt"
	"strings"

	"caster-engine/engine"
)

type Customer struct {
	First, Last string
}

type Invoice struct {
	Number   int
	Customer Customer
	Lines    []InvoiceLine
}

type InvoiceLine struct {
	SKU   string
	Price float64
}

type InvoiceDTO struct {
	Number        string
	CustomerFirst string
	Customer      string
	Lines         []LineDTO
}

type LineDTO struct {
	SKU   string
	Price string
}

func Example() {
	p := engine.NewProfile("billing")

	engine.CreateMap[Invoice, InvoiceDTO](p).
		ForMember("Customer", engine.ResolveUsing(func(inv Invoice) string {
			return strings.TrimSpace(inv.Customer.First + " " + inv.Customer.Last)
		}))
	engine.CreateMap[InvoiceLine, LineDTO](p)

	e, err := engine.New([]*engine.Profile{p})
	if err != nil {
		fmt.Println(err)
		return
	}

	dto, err := engine.Map[Invoice, InvoiceDTO](engine.NewMapper(e), Invoice{
		Number:   42,
		Customer: Customer{First: "Ada", Last: "Lovelace"},
		Lines:    []InvoiceLine{{SKU: "pen", Price: 1.5}},
	})
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(dto.Number, dto.CustomerFirst, dto.Customer)
	fmt.Println(dto.Lines[0].SKU, dto.Lines[0].Price)
	// Output:
	// 42 Ada Ada Lovelace
	// pen 1.5
}

func ExampleEngine_ResolveTypeMap() {
	p := engine.NewProfile("billing")
	engine.CreateMap[InvoiceLine, LineDTO](p)

	e, err := engine.New([]*engine.Profile{p})
	if err != nil {
		fmt.Println(err)
		return
	}

	tm := e.ResolveTypeMap(engine.PairOf[InvoiceLine, LineDTO]())
	for _, m := range tm.Members() {
		fmt.Println(m.Name, m.SourceType, "->", m.DestinationType)
	}

	fmt.Println(e.ResolveTypeMap(engine.PairOf[LineDTO, InvoiceLine]()) == nil)
	// Output:
	// SKU string -> string
	// Price float64 -> string
	// true
}
