package match

// Levenshtein returns the number of single byte insertions, deletions and substitutions
// turning a into b. It keeps two rows of the table, sized by the shorter string.
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}

	if len(a) == 0 {
		return len(b)
	}

	if len(b) == 0 {
		return len(a)
	}

	if len(a) > len(b) {
		a, b = b, a
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)

	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(b); j++ {
		curr[0] = j

		for i := 1; i <= len(a); i++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}

			curr[i] = min(
				prev[i]+1,      // deletion
				curr[i-1]+1,    // insertion
				prev[i-1]+cost, // substitution
			)
		}

		prev, curr = curr, prev
	}

	return prev[len(a)]
}

// LevenshteinNormalized scales the distance into a similarity: 1 for equal strings, 0 when
// every byte differs.
func LevenshteinNormalized(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}

	maxLen := max(len(b), len(a))

	distance := Levenshtein(a, b)

	return 1.0 - float64(distance)/float64(maxLen)
}

// NameScore rates how alike two member names are, from 0 to 1: the best of the edit
// similarity of the normalized names, the same without trailing noise words, and the share of
// words they have in common.
func NameScore(a, b string) float64 {
	return max(
		LevenshteinNormalized(Normalize(a), Normalize(b)),
		LevenshteinNormalized(NormalizeTrimmed(a), NormalizeTrimmed(b)),
		TokenScore(a, b),
	)
}
