package sortutil

import "sort"

// Stable returns a new slice containing the input sorted by less, keeping the
// input order of equal elements. The original slice is not modified.
func Stable[T any](in []T, less func(a, b T) bool) []T {
	out := make([]T, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
