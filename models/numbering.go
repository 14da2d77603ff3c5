package models

import "fmt"

const (
	PurchaseNumberPrefix = "PO"
	SaleNumberPrefix     = "INV"
)

// FormatDocumentNumber renders a sequence number as a document reference,
// e.g. PO-00042. Numbers above 99999 widen past five digits.
func FormatDocumentNumber(prefix string, seq int64) string {
	return fmt.Sprintf("%s-%05d", prefix, seq)
}
