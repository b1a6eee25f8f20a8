// Package metrics provides wall-clock measurement around engine calls and
// the quality metrics used to score processing results.
package metrics

import "time"

// Measure runs fn and returns its result together with the elapsed wall-clock
// time. The result passes through untouched, error included.
func Measure[T any](fn func() (T, error)) (T, time.Duration, error) {
	start := time.Now()
	result, err := fn()
	return result, time.Since(start), err
}
