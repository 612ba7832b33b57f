package operator

import "errors"

// Sentinel errors returned by this package, in the teacher's style of
// package-level errors.New values rather than custom error types.
var (
	ErrZeroOperator     = errors.New("operator: zero operator has no order")
	ErrInvalidOperator  = errors.New("operator: not a polynomial-in-D operator over K(z)")
	ErrBasePointSingular = errors.New("operator: no nonnegative integer shift makes the base point ordinary")
)
