// Package intutils provides utilities for working with ints
package intutils

// Min returns the smallest of ints, which must not be empty
func Min(ints ...int) int {
	m := ints[0]
	for _, v := range ints[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// Max returns the largest of ints, which must not be empty
func Max(ints ...int) int {
	m := ints[0]
	for _, v := range ints[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// Clamp restricts v to [lo, hi]
func Clamp(v, lo, hi int) int {
	return Max(lo, Min(v, hi))
}
