package deduction

import "errors"

var (
	ErrMalformedDeduction = errors.New("deduction must carry exactly one of amount or percentage")
	ErrNegativeDeduction  = errors.New("deduction amount cannot be negative")
)
