package utils_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/mmdatafocus/storestock_backend/utils"
)

func TestValidationErrorMessage(t *testing.T) {
	err := &utils.ValidationError{Field: "quantity", Reason: "must be positive"}
	if got, want := err.Error(), "invalid quantity: must be positive"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	var target *utils.ValidationError
	wrapped := fmt.Errorf("create sale: %w", err)
	if !errors.As(wrapped, &target) {
		t.Errorf("errors.As failed on wrapped ValidationError")
	}
}

func TestInsufficientStockErrorMessage(t *testing.T) {
	err := &utils.InsufficientStockError{
		ProductId:   7,
		ProductName: "Rice 5kg",
		Unit:        "bag",
		Available:   3,
	}
	if got, want := err.Error(), "insufficient stock for Rice 5kg (available 3 bag)"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	var target *utils.InsufficientStockError
	if !errors.As(fmt.Errorf("add item: %w", err), &target) {
		t.Errorf("errors.As failed on wrapped InsufficientStockError")
	}
	if target.Available != 3 {
		t.Errorf("Available = %d", target.Available)
	}
}
