package main

import (
	"golang.org/x/exp/constraints"
)

// Error is a string constant that satisfies the error interface.
// Used for fatal data problems that indicate an authoring bug.
type Error string

func (e Error) Error() string { return string(e) }

func Btoi(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func Min[T constraints.Ordered](arg T, args ...T) (min T) {
	min = arg
	for _, v := range args {
		if v < min {
			min = v
		}
	}
	return
}

func Max[T constraints.Ordered](arg T, args ...T) (max T) {
	max = arg
	for _, v := range args {
		if v > max {
			max = v
		}
	}
	return
}

func Clamp[T constraints.Ordered](x, a, b T) T {
	return Max(a, Min(x, b))
}

func Abs[T constraints.Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// SignOf returns -1, 0 or 1 according to the sign of x.
func SignOf[T constraints.Signed](x T) T {
	if x < 0 {
		return -1
	}
	if x > 0 {
		return 1
	}
	return 0
}
