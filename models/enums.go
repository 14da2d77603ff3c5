package models

import (
	"encoding/json"
	"errors"
)

type PurchaseStatus string

const (
	PurchaseStatusPending   PurchaseStatus = "pending"
	PurchaseStatusReceived  PurchaseStatus = "received"
	PurchaseStatusCancelled PurchaseStatus = "cancelled"
)

func (s PurchaseStatus) Valid() bool {
	switch s {
	case PurchaseStatusPending, PurchaseStatusReceived, PurchaseStatusCancelled:
		return true
	}
	return false
}

// convert input to enum type
func (s *PurchaseStatus) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return errors.New("purchase status must be string")
	}
	v := PurchaseStatus(str)
	if !v.Valid() {
		return errors.New("invalid purchase status")
	}
	*s = v
	return nil
}

type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodCard     PaymentMethod = "card"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodTransfer, PaymentMethodCard:
		return true
	}
	return false
}

func (m *PaymentMethod) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return errors.New("payment method must be string")
	}
	v := PaymentMethod(str)
	if !v.Valid() {
		return errors.New("invalid payment method")
	}
	*m = v
	return nil
}

type ExpenseCategory string

const (
	ExpenseCategoryUtilities   ExpenseCategory = "utilities"
	ExpenseCategoryRent        ExpenseCategory = "rent"
	ExpenseCategorySalary      ExpenseCategory = "salary"
	ExpenseCategoryMaintenance ExpenseCategory = "maintenance"
	ExpenseCategoryOther       ExpenseCategory = "other"
)

func (c ExpenseCategory) Valid() bool {
	switch c {
	case ExpenseCategoryUtilities, ExpenseCategoryRent, ExpenseCategorySalary,
		ExpenseCategoryMaintenance, ExpenseCategoryOther:
		return true
	}
	return false
}

func (c *ExpenseCategory) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return errors.New("expense category must be string")
	}
	v := ExpenseCategory(str)
	if !v.Valid() {
		return errors.New("invalid expense category")
	}
	*c = v
	return nil
}
