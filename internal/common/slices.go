package common

// IsEmpty returns true if the slice is empty.
func IsEmpty[S ~[]E, E any](s S) bool {
	return len(s) == 0
}

// First returns the first element of the slice and true, or the zero value and false if empty.
func First[S ~[]E, E any](s S) (E, bool) {
	if len(s) == 0 {
		var zero E
		return zero, false
	}

	return s[0], true
}

// AppendUnique appends items that are not yet in seen, keeping their order, and marks them as seen.
func AppendUnique[S ~[]E, E comparable](s S, seen map[E]struct{}, items ...E) S {
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}

		seen[item] = struct{}{}
		s = append(s, item)
	}

	return s
}
