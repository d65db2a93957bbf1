// Package floatutils provides utilities for working with floats
package floatutils

import (
	"math"

	"gonum.org/v1/gonum/spatial/r1"
)

// Clip clips a floating point to within a minimum and maximum value.
// If the floating point exceeds max, then the function returns the max
// If min exceeds the floating point, then the function returns the min
func Clip(value, min, max float64) float64 {
	clipped := math.Min(value, max)
	return math.Max(clipped, min)
}

// ClipInterval is a wrapper to use Clip with an r1.Interval instead of
// a separate max and min value
func ClipInterval(value float64, interval r1.Interval) float64 {
	return Clip(value, interval.Min, interval.Max)
}

// ClipHalfOpen clips a floating point into [min, max). Values at or
// above max are clipped to the largest float64 smaller than max.
func ClipHalfOpen(value, min, max float64) float64 {
	if value >= max {
		return math.Max(math.Nextafter(max, math.Inf(-1)), min)
	}
	return math.Max(value, min)
}

// ClipIntervalHalfOpen is a wrapper to use ClipHalfOpen with an
// r1.Interval instead of a separate max and min value
func ClipIntervalHalfOpen(value float64, interval r1.Interval) float64 {
	return ClipHalfOpen(value, interval.Min, interval.Max)
}
