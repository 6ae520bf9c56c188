package calculator

import "errors"

// ErrZeroBaseline is returned when a change is measured against a zero start value.
var ErrZeroBaseline = errors.New("percent change: zero baseline")

// PercentChange returns the change from start to end in percent.
func PercentChange(start, end float64) (float64, error) {
	r, err := RelativeChange(start, end)
	if err != nil {
		return 0, err
	}
	return r * 100.0, nil
}

// RelativeChange returns the change from start to end as a fraction of start.
func RelativeChange(start, end float64) (float64, error) {
	if start == 0 {
		return 0, ErrZeroBaseline
	}
	return (end - start) / start, nil
}
