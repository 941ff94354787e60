package zmath

import (
	"errors"
	"fmt"
)

var (
	ErrInsufficientSamples = errors.New("insufficient samples")
	ErrUnsupported         = errors.New("unsupported")
)

// InsufficientSamplesError is returned when a statistic is asked for before Required values have been added.
type InsufficientSamplesError struct {
	Operation string
	Required  int
	Count     int
}

func (e *InsufficientSamplesError) Error() string {
	n := "one sample"
	if e.Required == 2 {
		n = "two samples"
	} else if e.Required != 1 {
		n = fmt.Sprint(e.Required, " samples")
	}
	return fmt.Sprintf("%s is undefined for less than %s", e.Operation, n)
}

func (e *InsufficientSamplesError) Is(target error) bool {
	return target == ErrInsufficientSamples
}

// UnsupportedError is a permanent capability gap; retrying never succeeds.
type UnsupportedError struct {
	Operation string
}

func (e *UnsupportedError) Error() string {
	return "the " + e.Operation + " of values is not implemented"
}

func (e *UnsupportedError) Is(target error) bool {
	return target == ErrUnsupported
}

type LevelError struct {
	Level float64
}

func (e *LevelError) Error() string {
	return fmt.Sprintf("confidence level must be between 0.0 and 1.0 (not %g)", e.Level)
}
