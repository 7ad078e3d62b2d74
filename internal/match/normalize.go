package match

import (
	"strings"
	"unicode"
)

// noiseWords are trailing words that rarely distinguish one member from another.
var noiseWords = map[string]bool{
	"id":        true,
	"ids":       true,
	"at":        true,
	"utc":       true,
	"timestamp": true,
}

// Tokens splits an identifier or member path into lower-case words. "orderID" gives
// [order id], "XMLParser" gives [xml parser] and "Customer.Name" gives [customer name].
func Tokens(s string) []string {
	runes := []rune(s)

	var words []string

	start := -1

	flush := func(end int) {
		if start >= 0 {
			words = append(words, strings.ToLower(string(runes[start:end])))
			start = -1
		}
	}

	for i, r := range runes {
		if isSeparator(r) {
			flush(i)
			continue
		}

		if start >= 0 && wordBreak(runes, i) {
			flush(i)
		}

		if start < 0 {
			start = i
		}
	}

	flush(len(runes))

	return words
}

// Normalize folds case and drops word boundaries: "order_id", "OrderID" and "orderId" all
// become "orderid".
func Normalize(s string) string {
	return strings.Join(Tokens(s), "")
}

// NormalizeTrimmed is Normalize without a trailing noise word, so "CreatedAt" and "created"
// agree. A single word is kept as is.
func NormalizeTrimmed(s string) string {
	words := Tokens(s)
	if n := len(words); n > 1 && noiseWords[words[n-1]] {
		words = words[:n-1]
	}

	return strings.Join(words, "")
}

// TokenScore is the Dice coefficient of the words of a and b. Word order does not matter:
// "NameCustomer" and "customer_name" score 1.
func TokenScore(a, b string) float64 {
	wa, wb := Tokens(a), Tokens(b)
	if len(wa)+len(wb) == 0 {
		return 1
	}

	counts := make(map[string]int, len(wa))
	for _, w := range wa {
		counts[w]++
	}

	shared := 0

	for _, w := range wb {
		if counts[w] > 0 {
			counts[w]--
			shared++
		}
	}

	return 2 * float64(shared) / float64(len(wa)+len(wb))
}

func isSeparator(r rune) bool {
	switch r {
	case '_', '-', ' ', '.':
		return true
	default:
		return false
	}
}

// wordBreak reports whether a word starts at runes[i]: an upper-case letter after a
// lower-case one, or the last capital of an acronym followed by lower case.
func wordBreak(runes []rune, i int) bool {
	if !unicode.IsUpper(runes[i]) {
		return false
	}

	if !unicode.IsUpper(runes[i-1]) {
		return true
	}

	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
