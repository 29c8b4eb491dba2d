// Package opentime provides exact rational time values and half-open time ranges.
//
// A RationalTime is an integer count of units at an integer rate (units per second).
// Arithmetic between times of different rates rescales both operands to the least
// common multiple of the two rates, so results never lose precision:
//
//	a := opentime.New(10, 24)       // 10 frames at 24fps
//	b := opentime.New(1, 48)        // 1 unit at 48
//	c := a.Add(b)                   // 21@48
//
// A TimeRange is a start instant plus a non-negative duration and covers
// [Start, Start+Duration). Constructors reject negative durations and invalid rates.
package opentime
