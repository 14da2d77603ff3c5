package utils

import (
	"errors"
	"fmt"
)

var ErrorRecordNotFound = errors.New("record not found")

// ValidationError rejects bad input shape before any mutation happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InsufficientStockError carries the product identity and the stock on hand
// so the caller can tell the user exactly what is left.
type InsufficientStockError struct {
	ProductId   int
	ProductName string
	Unit        string
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (available %d %s)", e.ProductName, e.Available, e.Unit)
}

func ErrorPanic(err error) {
	if err != nil {
		panic(err)
	}
}
