// Package structs small generic helpers
package structs

// Ref returns a pointer to v.
func Ref[T any](v T) *T {
	return &v
}

// If returns a if cond is true, otherwise b.
func If[T any](cond bool, a, b T) T {
	if cond {
		return a
	}
	return b
}

// Map applies f to every element of in.
func Map[T, V any](in []T, f func(T) V) []V {
	res := make([]V, len(in))
	for i := range in {
		res[i] = f(in[i])
	}
	return res
}
