package utils

// Preview returns at most n leading items and how many were left out.
func Preview[T any](items []T, n int) ([]T, int) {
	if n < 0 {
		n = 0
	}
	if len(items) <= n {
		return items, 0
	}
	return items[:n], len(items) - n
}
