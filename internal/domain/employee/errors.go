package employee

import "errors"

var (
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrUnknownPayFrequency = errors.New("unrecognized pay frequency")
	ErrNegativeDependents  = errors.New("dependent count cannot be negative")
	ErrNegativeGrossPay    = errors.New("gross pay cannot be negative")
)
