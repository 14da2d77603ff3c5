package models_test

import (
	"testing"

	"github.com/mmdatafocus/storestock_backend/models"
)

func TestFormatDocumentNumber(t *testing.T) {
	cases := []struct {
		prefix string
		seq    int64
		want   string
	}{
		{models.PurchaseNumberPrefix, 1, "PO-00001"},
		{models.PurchaseNumberPrefix, 42, "PO-00042"},
		{models.SaleNumberPrefix, 1, "INV-00001"},
		{models.SaleNumberPrefix, 99999, "INV-99999"},
		// numbers keep growing past the padded width
		{models.SaleNumberPrefix, 100000, "INV-100000"},
	}
	for _, c := range cases {
		if got := models.FormatDocumentNumber(c.prefix, c.seq); got != c.want {
			t.Errorf("FormatDocumentNumber(%q, %d) = %q, want %q", c.prefix, c.seq, got, c.want)
		}
	}
}
