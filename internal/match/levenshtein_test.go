package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "sku", 3},
		{"qty", "qty", 0},
		{"qty", "qtys", 1},
		{"kitten", "sitting", 3},
		{"Email", "email", 1},
		{"pricecents", "totalcents", 5},
		{"shippedat", "placedat", 5},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Levenshtein(tt.a, tt.b))
			assert.Equal(t, tt.want, Levenshtein(tt.b, tt.a))
		})
	}
}

func TestLevenshteinNormalized(t *testing.T) {
	assert.InDelta(t, 1.0, LevenshteinNormalized("", ""), 1e-9)
	assert.InDelta(t, 0.0, LevenshteinNormalized("abc", "xyz"), 1e-9)
	assert.InDelta(t, 4.0/7.0, LevenshteinNormalized("kitten", "sitting"), 1e-9)
}

func TestNameScore(t *testing.T) {
	same := [][2]string{
		{"OrderID", "order_id"},
		{"CustomerID", "Customer"},
		{"created_at", "Created"},
		{"Customer.Email", "EmailCustomer"},
	}

	for _, p := range same {
		assert.InDelta(t, 1.0, NameScore(p[0], p[1]), 1e-9, "%s ~ %s", p[0], p[1])
	}

	assert.Greater(t, NameScore("Totl", "Total"), NameScore("Totl", "Email"))
	assert.Less(t, NameScore("Email", "Password"), 0.3)
}

func BenchmarkNameScore(b *testing.B) {
	for range b.N {
		NameScore("CustomerOrderID", "customer_order_id")
	}
}
