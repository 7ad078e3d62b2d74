// Package store holds the storefront side of the demo catalog used by the caster-engine CLI.
package store

import (
	"strings"
	"time"
)

// Address is where a customer wants parcels delivered.
type Address struct {
	Street     string
	City       string
	PostalCode string
	Country    string
}

// Customer is the buyer of an order.
type Customer struct {
	ID       int64
	Email    string
	FullName string
	Address  *Address
	IsActive bool
}

// FirstName returns the first word of FullName.
func (c Customer) FirstName() string {
	first, _, _ := strings.Cut(strings.TrimSpace(c.FullName), " ")
	return first
}

// Order is a placed purchase. Amounts are in cents.
type Order struct {
	ID         int64
	Customer   *Customer
	Status     OrderStatus
	TotalCents int64
	Items      []OrderItem
	OrderedAt  time.Time
	Notes      string
}

// OrderItem snapshots the product at purchase time.
type OrderItem struct {
	SKU       string
	Name      string
	Quantity  int
	UnitPrice int64
}

type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusCancelled OrderStatus = "CANCELLED"
)
