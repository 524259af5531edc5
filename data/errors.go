package data

import (
	"errors"
	"fmt"
)

var ErrMissingTemperature = errors.New("temperature field is missing")

// DataError is returned when a payload cannot yield a minimally valid sample.
type DataError struct {
	Field string
	Err   error
}

func (e *DataError) Error() string {
	return fmt.Sprintf("weather data field %q: %s", e.Field, e.Err)
}

func (e *DataError) Unwrap() error {
	return e.Err
}
