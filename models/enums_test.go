package models_test

import (
	"encoding/json"
	"testing"

	"github.com/mmdatafocus/storestock_backend/models"
)

func TestPurchaseStatusValid(t *testing.T) {
	for _, s := range []models.PurchaseStatus{
		models.PurchaseStatusPending,
		models.PurchaseStatusReceived,
		models.PurchaseStatusCancelled,
	} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if models.PurchaseStatus("shipped").Valid() {
		t.Errorf("unknown status accepted")
	}
}

func TestEnumUnmarshalRejectsUnknown(t *testing.T) {
	var status models.PurchaseStatus
	if err := json.Unmarshal([]byte(`"received"`), &status); err != nil {
		t.Fatalf("unmarshal received: %v", err)
	}
	if status != models.PurchaseStatusReceived {
		t.Fatalf("status = %s", status)
	}
	if err := json.Unmarshal([]byte(`"shipped"`), &status); err == nil {
		t.Fatalf("unknown purchase status accepted")
	}
	if err := json.Unmarshal([]byte(`7`), &status); err == nil {
		t.Fatalf("numeric purchase status accepted")
	}

	var method models.PaymentMethod
	if err := json.Unmarshal([]byte(`"card"`), &method); err != nil {
		t.Fatalf("unmarshal card: %v", err)
	}
	if err := json.Unmarshal([]byte(`"cheque"`), &method); err == nil {
		t.Fatalf("unknown payment method accepted")
	}

	var category models.ExpenseCategory
	if err := json.Unmarshal([]byte(`"rent"`), &category); err != nil {
		t.Fatalf("unmarshal rent: %v", err)
	}
	if err := json.Unmarshal([]byte(`"travel"`), &category); err == nil {
		t.Fatalf("unknown expense category accepted")
	}
}
