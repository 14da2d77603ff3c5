package models_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mmdatafocus/storestock_backend/models"
	"github.com/mmdatafocus/storestock_backend/utils"
	"github.com/shopspring/decimal"
)

func mustCreateProduct(t *testing.T, ctx context.Context, code string, stock int, minStock int, costPrice, salePrice string) *models.Product {
	t.Helper()

	category, err := models.CreateCategory(ctx, &models.NewCategory{Name: "Category " + code})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	cost, _ := decimal.NewFromString(costPrice)
	sale, _ := decimal.NewFromString(salePrice)
	product, err := models.CreateProduct(ctx, &models.NewProduct{
		Code:          code,
		Name:          "Product " + code,
		CategoryId:    category.ID,
		Unit:          "pcs",
		CostPrice:     cost,
		SalePrice:     sale,
		StockQuantity: stock,
		MinStock:      minStock,
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	return product
}

func mustCreateSupplier(t *testing.T, ctx context.Context, name string) *models.Supplier {
	t.Helper()
	supplier, err := models.CreateSupplier(ctx, &models.NewSupplier{Name: name})
	if err != nil {
		t.Fatalf("CreateSupplier: %v", err)
	}
	return supplier
}

func TestPurchaseReceiveFlow(t *testing.T) {
	setupIntegrationEnv(t)
	ctx := context.Background()

	product := mustCreateProduct(t, ctx, "RCV-001", 0, 2, "100.00", "150.00")
	supplier := mustCreateSupplier(t, ctx, "Receive Flow Supplier")

	unitCost := decimal.RequireFromString("100.00")
	purchase, err := models.CreatePurchase(ctx, &models.NewPurchase{
		SupplierId: supplier.ID,
		Items: []models.NewPurchaseItem{
			{ProductId: product.ID, Quantity: 5, UnitCost: &unitCost},
			{ProductId: product.ID, Quantity: 3, UnitCost: &unitCost},
		},
	})
	if err != nil {
		t.Fatalf("CreatePurchase: %v", err)
	}
	if purchase.Status != models.PurchaseStatusPending {
		t.Fatalf("new purchase status = %s, want pending", purchase.Status)
	}
	if got, want := purchase.TotalAmount.StringFixed(2), "800.00"; got != want {
		t.Fatalf("purchase total = %s, want %s", got, want)
	}

	// stock does not move before receive
	fresh, err := models.GetProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if fresh.StockQuantity != 0 {
		t.Fatalf("stock before receive = %d, want 0", fresh.StockQuantity)
	}

	received, err := models.ReceivePurchase(ctx, purchase.ID)
	if err != nil {
		t.Fatalf("ReceivePurchase: %v", err)
	}
	if received.Status != models.PurchaseStatusReceived {
		t.Fatalf("status after receive = %s, want received", received.Status)
	}
	if received.ReceivedDate == nil {
		t.Fatalf("received date not stamped")
	}

	fresh, _ = models.GetProduct(ctx, product.ID)
	if fresh.StockQuantity != 8 {
		t.Fatalf("stock after receive = %d, want 8", fresh.StockQuantity)
	}

	// receiving again must not double-count
	again, err := models.ReceivePurchase(ctx, purchase.ID)
	if err != nil {
		t.Fatalf("ReceivePurchase twice: %v", err)
	}
	if again.Status != models.PurchaseStatusReceived {
		t.Fatalf("status after second receive = %s", again.Status)
	}
	fresh, _ = models.GetProduct(ctx, product.ID)
	if fresh.StockQuantity != 8 {
		t.Fatalf("stock after second receive = %d, want 8", fresh.StockQuantity)
	}

	// a line added after receive arrives in stock immediately
	if _, err := models.AddPurchaseItem(ctx, purchase.ID, &models.NewPurchaseItem{
		ProductId: product.ID, Quantity: 2, UnitCost: &unitCost,
	}); err != nil {
		t.Fatalf("AddPurchaseItem: %v", err)
	}
	fresh, _ = models.GetProduct(ctx, product.ID)
	if fresh.StockQuantity != 10 {
		t.Fatalf("stock after late line = %d, want 10", fresh.StockQuantity)
	}

	// deleting a purchase line does not take stock back out
	withItems, _ := models.GetPurchase(ctx, purchase.ID)
	afterDelete, err := models.DeletePurchaseItem(ctx, purchase.ID, withItems.Items[0].ID)
	if err != nil {
		t.Fatalf("DeletePurchaseItem: %v", err)
	}
	if len(afterDelete.Items) != 2 {
		t.Fatalf("lines after delete = %d, want 2", len(afterDelete.Items))
	}
	if got, want := afterDelete.TotalAmount.StringFixed(2), "500.00"; got != want {
		t.Fatalf("total after line delete = %s, want %s", got, want)
	}
	fresh, _ = models.GetProduct(ctx, product.ID)
	if fresh.StockQuantity != 10 {
		t.Fatalf("stock after line delete = %d, want 10", fresh.StockQuantity)
	}
}

// A line added while the purchase is being received must end up in stock
// exactly once, whichever operation wins the row lock.
func TestAddItemDuringReceiveKeepsStockConsistent(t *testing.T) {
	setupIntegrationEnv(t)
	ctx := context.Background()

	product := mustCreateProduct(t, ctx, "RACE-001", 0, 0, "100.00", "150.00")
	supplier := mustCreateSupplier(t, ctx, "Race Supplier")

	purchase, err := models.CreatePurchase(ctx, &models.NewPurchase{
		SupplierId: supplier.ID,
		Items:      []models.NewPurchaseItem{{ProductId: product.ID, Quantity: 4}},
	})
	if err != nil {
		t.Fatalf("CreatePurchase: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := models.ReceivePurchase(ctx, purchase.ID)
		errs <- err
	}()
	go func() {
		defer wg.Done()
		_, err := models.AddPurchaseItem(ctx, purchase.ID, &models.NewPurchaseItem{
			ProductId: product.ID, Quantity: 6,
		})
		errs <- err
	}()
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent op: %v", err)
		}
	}

	final, err := models.GetPurchase(ctx, purchase.ID)
	if err != nil {
		t.Fatalf("GetPurchase: %v", err)
	}
	if final.Status != models.PurchaseStatusReceived {
		t.Fatalf("status = %s, want received", final.Status)
	}
	if len(final.Items) != 2 {
		t.Fatalf("lines = %d, want 2", len(final.Items))
	}

	fresh, err := models.GetProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if fresh.StockQuantity != 10 {
		t.Fatalf("stock = %d, want 10", fresh.StockQuantity)
	}
}

func TestCancelReceivedPurchaseRejected(t *testing.T) {
	setupIntegrationEnv(t)
	ctx := context.Background()

	product := mustCreateProduct(t, ctx, "CAN-001", 0, 0, "10.00", "15.00")
	supplier := mustCreateSupplier(t, ctx, "Cancel Supplier")

	purchase, err := models.CreatePurchase(ctx, &models.NewPurchase{
		SupplierId: supplier.ID,
		Items:      []models.NewPurchaseItem{{ProductId: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("CreatePurchase: %v", err)
	}
	if _, err := models.ReceivePurchase(ctx, purchase.ID); err != nil {
		t.Fatalf("ReceivePurchase: %v", err)
	}
	if _, err := models.CancelPurchase(ctx, purchase.ID); err == nil {
		t.Fatalf("expected error cancelling a received purchase")
	}

	pending, err := models.CreatePurchase(ctx, &models.NewPurchase{SupplierId: supplier.ID})
	if err != nil {
		t.Fatalf("CreatePurchase pending: %v", err)
	}
	cancelled, err := models.CancelPurchase(ctx, pending.ID)
	if err != nil {
		t.Fatalf("CancelPurchase: %v", err)
	}
	if cancelled.Status != models.PurchaseStatusCancelled {
		t.Fatalf("status = %s, want cancelled", cancelled.Status)
	}
}

func TestSaleStockFlow(t *testing.T) {
	setupIntegrationEnv(t)
	ctx := context.Background()

	product := mustCreateProduct(t, ctx, "SAL-001", 10, 5, "100.00", "250.00")

	sale, err := models.CreateSale(ctx, &models.NewSale{
		PaymentMethod: models.PaymentMethodCash,
		Items:         []models.NewSaleItem{{ProductId: product.ID, Quantity: 3}},
	})
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}
	if got, want := sale.TotalAmount.StringFixed(2), "750.00"; got != want {
		t.Fatalf("sale total = %s, want %s", got, want)
	}

	fresh, _ := models.GetProduct(ctx, product.ID)
	if fresh.StockQuantity != 7 {
		t.Fatalf("stock after sale = %d, want 7", fresh.StockQuantity)
	}

	// oversell is rejected without mutating anything
	_, err = models.AddSaleItem(ctx, sale.ID, &models.NewSaleItem{ProductId: product.ID, Quantity: 100})
	var stockErr *utils.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if stockErr.Available != 7 {
		t.Fatalf("reported available = %d, want 7", stockErr.Available)
	}
	fresh, _ = models.GetProduct(ctx, product.ID)
	if fresh.StockQuantity != 7 {
		t.Fatalf("stock after failed oversell = %d, want 7", fresh.StockQuantity)
	}
	unchanged, _ := models.GetSale(ctx, sale.ID)
	if len(unchanged.Items) != 1 {
		t.Fatalf("lines after failed oversell = %d, want 1", len(unchanged.Items))
	}

	// dropping to min stock flags the product
	sellFour, err := models.AddSaleItem(ctx, sale.ID, &models.NewSaleItem{ProductId: product.ID, Quantity: 4})
	if err != nil {
		t.Fatalf("AddSaleItem: %v", err)
	}
	fresh, _ = models.GetProduct(ctx, product.ID)
	if fresh.StockQuantity != 3 {
		t.Fatalf("stock = %d, want 3", fresh.StockQuantity)
	}
	if !fresh.IsLowStock {
		t.Fatalf("product not flagged low stock at %d/%d", fresh.StockQuantity, fresh.MinStock)
	}
	lowStock, err := models.GetLowStockProducts(ctx)
	if err != nil {
		t.Fatalf("GetLowStockProducts: %v", err)
	}
	found := false
	for _, p := range lowStock {
		if p.ID == product.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("product missing from low stock report")
	}

	// deleting a sale line restores the quantity
	if _, err := models.DeleteSaleItem(ctx, sale.ID, sellFour.Items[len(sellFour.Items)-1].ID); err != nil {
		t.Fatalf("DeleteSaleItem: %v", err)
	}
	fresh, _ = models.GetProduct(ctx, product.ID)
	if fresh.StockQuantity != 7 {
		t.Fatalf("stock after line delete = %d, want 7", fresh.StockQuantity)
	}
}

func TestSaleTotalsAndDiscount(t *testing.T) {
	setupIntegrationEnv(t)
	ctx := context.Background()

	first := mustCreateProduct(t, ctx, "DSC-001", 10, 0, "100.00", "250.00")
	second := mustCreateProduct(t, ctx, "DSC-002", 10, 0, "100.00", "230.00")

	discount := decimal.RequireFromString("20.00")
	sale, err := models.CreateSale(ctx, &models.NewSale{
		PaymentMethod: models.PaymentMethodTransfer,
		Discount:      &discount,
		Items: []models.NewSaleItem{
			{ProductId: first.ID, Quantity: 1},
			{ProductId: second.ID, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}
	if got, want := sale.TotalAmount.StringFixed(2), "480.00"; got != want {
		t.Fatalf("total = %s, want %s", got, want)
	}
	if got, want := sale.NetAmount.StringFixed(2), "460.00"; got != want {
		t.Fatalf("net = %s, want %s", got, want)
	}

	// net amount follows discount updates
	sale, err = models.UpdateSaleDiscount(ctx, sale.ID, decimal.RequireFromString("80.00"))
	if err != nil {
		t.Fatalf("UpdateSaleDiscount: %v", err)
	}
	if got, want := sale.NetAmount.StringFixed(2), "400.00"; got != want {
		t.Fatalf("net after update = %s, want %s", got, want)
	}

	// a discount larger than the total is rejected
	if _, err := models.UpdateSaleDiscount(ctx, sale.ID, decimal.RequireFromString("500.00")); err == nil {
		t.Fatalf("expected error for discount above total")
	}

	// net is re-derived when lines change
	withItems, _ := models.GetSale(ctx, sale.ID)
	sale, err = models.DeleteSaleItem(ctx, sale.ID, withItems.Items[0].ID)
	if err != nil {
		t.Fatalf("DeleteSaleItem: %v", err)
	}
	if got, want := sale.TotalAmount.StringFixed(2), "230.00"; got != want {
		t.Fatalf("total after line delete = %s, want %s", got, want)
	}
	if got, want := sale.NetAmount.StringFixed(2), "150.00"; got != want {
		t.Fatalf("net after line delete = %s, want %s", got, want)
	}
}

func TestDocumentNumberAllocation(t *testing.T) {
	setupIntegrationEnv(t)
	ctx := context.Background()

	product := mustCreateProduct(t, ctx, "NUM-001", 50, 0, "10.00", "20.00")
	supplier := mustCreateSupplier(t, ctx, "Numbering Supplier")

	var lastPurchase string
	for i := 0; i < 3; i++ {
		p, err := models.CreatePurchase(ctx, &models.NewPurchase{
			SupplierId: supplier.ID,
			Items:      []models.NewPurchaseItem{{ProductId: product.ID, Quantity: 1}},
		})
		if err != nil {
			t.Fatalf("CreatePurchase %d: %v", i, err)
		}
		if p.PurchaseNumber == lastPurchase {
			t.Fatalf("duplicate purchase number %s", p.PurchaseNumber)
		}
		want := fmt.Sprintf("PO-%05d", p.SequenceNo)
		if p.PurchaseNumber != want {
			t.Fatalf("purchase number = %s, want %s", p.PurchaseNumber, want)
		}
		lastPurchase = p.PurchaseNumber
	}

	s, err := models.CreateSale(ctx, &models.NewSale{
		Items: []models.NewSaleItem{{ProductId: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}
	want := fmt.Sprintf("INV-%05d", s.SequenceNo)
	if s.SaleNumber != want {
		t.Fatalf("sale number = %s, want %s", s.SaleNumber, want)
	}
}

func TestMonthlyReportCounting(t *testing.T) {
	setupIntegrationEnv(t)
	ctx := context.Background()

	product := mustCreateProduct(t, ctx, "RPT-001", 100, 0, "100.00", "250.00")
	supplier := mustCreateSupplier(t, ctx, "Report Supplier")

	now := time.Now().UTC()

	if _, err := models.CreateSale(ctx, &models.NewSale{
		Items: []models.NewSaleItem{{ProductId: product.ID, Quantity: 2}},
	}); err != nil {
		t.Fatalf("CreateSale: %v", err)
	}

	// a received purchase contributes to this month's cost
	received, err := models.CreatePurchase(ctx, &models.NewPurchase{
		SupplierId: supplier.ID,
		Items:      []models.NewPurchaseItem{{ProductId: product.ID, Quantity: 3}},
	})
	if err != nil {
		t.Fatalf("CreatePurchase: %v", err)
	}
	if _, err := models.ReceivePurchase(ctx, received.ID); err != nil {
		t.Fatalf("ReceivePurchase: %v", err)
	}

	// a pending purchase never contributes
	if _, err := models.CreatePurchase(ctx, &models.NewPurchase{
		SupplierId: supplier.ID,
		Items:      []models.NewPurchaseItem{{ProductId: product.ID, Quantity: 50}},
	}); err != nil {
		t.Fatalf("CreatePurchase pending: %v", err)
	}

	if _, err := models.CreateExpense(ctx, &models.NewExpense{
		Category: models.ExpenseCategoryRent,
		Amount:   decimal.RequireFromString("50.00"),
	}); err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}

	report, err := models.GetMonthlyReport(ctx, now.Year(), now.Month())
	if err != nil {
		t.Fatalf("GetMonthlyReport: %v", err)
	}
	if got, want := report.Revenue.StringFixed(2), "500.00"; got != want {
		t.Fatalf("revenue = %s, want %s", got, want)
	}
	if got, want := report.PurchaseCost.StringFixed(2), "300.00"; got != want {
		t.Fatalf("purchase cost = %s, want %s", got, want)
	}
	if got, want := report.TotalExpenses.StringFixed(2), "50.00"; got != want {
		t.Fatalf("expenses = %s, want %s", got, want)
	}
	if got, want := report.Profit.StringFixed(2), "150.00"; got != want {
		t.Fatalf("profit = %s, want %s", got, want)
	}

	if len(report.Daily) != 1 {
		t.Fatalf("daily rows = %d, want 1: %+v", len(report.Daily), report.Daily)
	}
	if got, want := report.Daily[0].Revenue.StringFixed(2), "500.00"; got != want {
		t.Fatalf("daily revenue = %s, want %s", got, want)
	}
	if report.Daily[0].SalesCount != 1 {
		t.Fatalf("daily sales count = %d, want 1", report.Daily[0].SalesCount)
	}

	f, err := models.ExportMonthlyReportExcel(ctx, now.Year(), now.Month())
	if err != nil {
		t.Fatalf("ExportMonthlyReportExcel: %v", err)
	}
	if v, _ := f.GetCellValue("Sheet1", "A9"); v != "Daily Sales" {
		t.Fatalf("cell A9 = %q, want Daily Sales", v)
	}
	if v, _ := f.GetCellValue("Sheet1", "A11"); v != report.Daily[0].Day {
		t.Fatalf("cell A11 = %q, want %q", v, report.Daily[0].Day)
	}

	start, end := models.MonthWindow(now.Year(), now.Month())
	sellers, err := models.GetTopSellingProducts(ctx, &start, &end, 5)
	if err != nil {
		t.Fatalf("GetTopSellingProducts: %v", err)
	}
	if len(sellers) == 0 || sellers[0].ProductId != product.ID {
		t.Fatalf("top sellers missing product %d: %+v", product.ID, sellers)
	}
	if sellers[0].QuantitySold != 2 {
		t.Fatalf("quantity sold = %d, want 2", sellers[0].QuantitySold)
	}

	allTime, err := models.GetTopSellingProducts(ctx, nil, nil, 5)
	if err != nil {
		t.Fatalf("GetTopSellingProducts all time: %v", err)
	}
	if len(allTime) == 0 || allTime[0].ProductId != product.ID {
		t.Fatalf("all-time ranking missing product %d: %+v", product.ID, allTime)
	}

	summary, err := models.GetDashboardSummary(ctx)
	if err != nil {
		t.Fatalf("GetDashboardSummary: %v", err)
	}
	if got, want := summary.MonthRevenue.StringFixed(2), "500.00"; got != want {
		t.Fatalf("dashboard month revenue = %s, want %s", got, want)
	}
	if got, want := summary.MonthCost.StringFixed(2), "300.00"; got != want {
		t.Fatalf("dashboard month cost = %s, want %s", got, want)
	}
	if got, want := summary.MonthExpenses.StringFixed(2), "50.00"; got != want {
		t.Fatalf("dashboard month expenses = %s, want %s", got, want)
	}
	if got, want := summary.MonthProfit.StringFixed(2), "150.00"; got != want {
		t.Fatalf("dashboard month profit = %s, want %s", got, want)
	}
	if summary.PendingPurchases != 1 {
		t.Fatalf("pending purchases = %d, want 1", summary.PendingPurchases)
	}
	if len(summary.TopProducts) == 0 || summary.TopProducts[0].ProductId != product.ID {
		t.Fatalf("dashboard top products missing product %d", product.ID)
	}
	if len(summary.RecentSales) != 1 {
		t.Fatalf("recent sales = %d, want 1", len(summary.RecentSales))
	}
}
