package models

import (
	"context"
	"fmt"
	"time"

	"github.com/mmdatafocus/storestock_backend/config"
	"github.com/mmdatafocus/storestock_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// MonthWindow returns the half-open range [start, end) covering the month.
func MonthWindow(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// YearWindow returns the half-open range [start, end) covering the year.
func YearWindow(year int) (time.Time, time.Time) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(1, 0, 0)
}

// DayWindow returns the half-open range [start, end) covering the day of t.
func DayWindow(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

type DashboardSummary struct {
	TotalProducts    int64                `json:"total_products"`
	LowStockCount    int64                `json:"low_stock_count"`
	TodaySalesTotal  decimal.Decimal      `json:"today_sales_total"`
	TodaySalesCount  int64                `json:"today_sales_count"`
	PendingPurchases int64                `json:"pending_purchases"`
	MonthRevenue     decimal.Decimal      `json:"month_revenue"`
	MonthCost        decimal.Decimal      `json:"month_cost"`
	MonthExpenses    decimal.Decimal      `json:"month_expenses"`
	MonthProfit      decimal.Decimal      `json:"month_profit"`
	LowStockProducts []*Product           `json:"low_stock_products"`
	TopProducts      []*TopSellingProduct `json:"top_products"`
	RecentSales      []*Sale              `json:"recent_sales"`
}

func GetDashboardSummary(ctx context.Context) (*DashboardSummary, error) {

	db := config.GetDB()
	var result DashboardSummary

	if err := db.WithContext(ctx).Model(&Product{}).Count(&result.TotalProducts).Error; err != nil {
		return nil, err
	}
	err := db.WithContext(ctx).Model(&Product{}).
		Where("stock_quantity <= min_stock").
		Count(&result.LowStockCount).Error
	if err != nil {
		return nil, err
	}

	now := time.Now()
	dayStart, dayEnd := DayWindow(now)
	err = db.WithContext(ctx).Model(&Sale{}).
		Where("sale_date >= ? AND sale_date < ?", dayStart, dayEnd).
		Select("COALESCE(SUM(net_amount), 0)").
		Scan(&result.TodaySalesTotal).Error
	if err != nil {
		return nil, err
	}
	err = db.WithContext(ctx).Model(&Sale{}).
		Where("sale_date >= ? AND sale_date < ?", dayStart, dayEnd).
		Count(&result.TodaySalesCount).Error
	if err != nil {
		return nil, err
	}

	err = db.WithContext(ctx).Model(&Purchase{}).
		Where("status = ?", PurchaseStatusPending).
		Count(&result.PendingPurchases).Error
	if err != nil {
		return nil, err
	}

	monthly, err := buildMonthlyReport(ctx, now.Year(), now.Month())
	if err != nil {
		return nil, err
	}
	result.MonthRevenue = monthly.Revenue
	result.MonthCost = monthly.PurchaseCost
	result.MonthExpenses = monthly.TotalExpenses
	result.MonthProfit = monthly.Profit

	lowStock, err := GetLowStockProducts(ctx)
	if err != nil {
		return nil, err
	}
	if len(lowStock) > 5 {
		lowStock = lowStock[:5]
	}
	result.LowStockProducts = lowStock

	// top sellers on the dashboard rank over the whole ledger
	result.TopProducts, err = GetTopSellingProducts(ctx, nil, nil, 5)
	if err != nil {
		return nil, err
	}

	err = db.WithContext(ctx).Model(&Sale{}).
		Order("sale_date desc, id desc").
		Limit(10).
		Find(&result.RecentSales).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

type ExpenseByCategory struct {
	Category ExpenseCategory `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

type DailySales struct {
	Day        string          `json:"day"`
	Revenue    decimal.Decimal `json:"revenue"`
	SalesCount int64           `json:"sales_count"`
}

type MonthlyReport struct {
	Year          int                 `json:"year"`
	Month         int                 `json:"month"`
	Revenue       decimal.Decimal     `json:"revenue"`
	PurchaseCost  decimal.Decimal     `json:"purchase_cost"`
	TotalExpenses decimal.Decimal     `json:"total_expenses"`
	Profit        decimal.Decimal     `json:"profit"`
	SalesCount    int64               `json:"sales_count"`
	Daily         []DailySales        `json:"daily"`
	Expenses      []ExpenseByCategory `json:"expenses"`
}

/*
caches:
	report:monthly:$year-$month
*/

func monthlyReportCacheKey(year int, month time.Month) string {
	return fmt.Sprintf("report:monthly:%d-%02d", year, int(month))
}

// revenue is recognized on the sale date, purchase cost on the received
// date of received purchases only. Pending and cancelled purchases never
// contribute to a period's cost.
func buildMonthlyReport(ctx context.Context, year int, month time.Month) (*MonthlyReport, error) {

	db := config.GetDB()
	start, end := MonthWindow(year, month)

	result := MonthlyReport{Year: year, Month: int(month)}

	err := db.WithContext(ctx).Model(&Sale{}).
		Where("sale_date >= ? AND sale_date < ?", start, end).
		Select("COALESCE(SUM(net_amount), 0)").
		Scan(&result.Revenue).Error
	if err != nil {
		return nil, err
	}
	err = db.WithContext(ctx).Model(&Sale{}).
		Where("sale_date >= ? AND sale_date < ?", start, end).
		Count(&result.SalesCount).Error
	if err != nil {
		return nil, err
	}

	err = db.WithContext(ctx).Model(&Purchase{}).
		Where("status = ? AND received_date >= ? AND received_date < ?", PurchaseStatusReceived, start, end).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&result.PurchaseCost).Error
	if err != nil {
		return nil, err
	}

	err = db.WithContext(ctx).Model(&Sale{}).
		Where("sale_date >= ? AND sale_date < ?", start, end).
		Select("DATE_FORMAT(sale_date, '%Y-%m-%d') as day, COALESCE(SUM(net_amount), 0) as revenue, COUNT(*) as sales_count").
		Group("DATE_FORMAT(sale_date, '%Y-%m-%d')").
		Order("day").
		Scan(&result.Daily).Error
	if err != nil {
		return nil, err
	}

	err = db.WithContext(ctx).Model(&Expense{}).
		Where("expense_date >= ? AND expense_date < ?", start, end).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&result.TotalExpenses).Error
	if err != nil {
		return nil, err
	}

	err = db.WithContext(ctx).Model(&Expense{}).
		Where("expense_date >= ? AND expense_date < ?", start, end).
		Select("category, COALESCE(SUM(amount), 0) as total").
		Group("category").
		Scan(&result.Expenses).Error
	if err != nil {
		return nil, err
	}

	result.Profit = result.Revenue.Sub(result.PurchaseCost).Sub(result.TotalExpenses)
	return &result, nil
}

func GetMonthlyReport(ctx context.Context, year int, month time.Month) (*MonthlyReport, error) {

	if month < time.January || month > time.December {
		return nil, &utils.ValidationError{Field: "month", Reason: "must be between 1 and 12"}
	}

	cacheKey := monthlyReportCacheKey(year, month)
	var cached MonthlyReport
	exists, err := config.GetRedisObject(cacheKey, &cached)
	if err == nil && exists {
		return &cached, nil
	}

	result, err := buildMonthlyReport(ctx, year, month)
	if err != nil {
		return nil, err
	}

	// short lived cache; the ledger keeps moving
	if err := config.SetRedisObject(cacheKey, result, 5*time.Minute); err != nil {
		config.LogError(config.GetLogger(), "reports", "GetMonthlyReport", "cache write failed", cacheKey, err)
	}
	return result, nil
}

type YearlyReportRow struct {
	Month         int             `json:"month"`
	Revenue       decimal.Decimal `json:"revenue"`
	PurchaseCost  decimal.Decimal `json:"purchase_cost"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	Profit        decimal.Decimal `json:"profit"`
}

type YearlyReport struct {
	Year          int               `json:"year"`
	Months        []YearlyReportRow `json:"months"`
	Revenue       decimal.Decimal   `json:"revenue"`
	PurchaseCost  decimal.Decimal   `json:"purchase_cost"`
	TotalExpenses decimal.Decimal   `json:"total_expenses"`
	Profit        decimal.Decimal   `json:"profit"`
}

func GetYearlyReport(ctx context.Context, year int) (*YearlyReport, error) {

	result := YearlyReport{Year: year}

	for m := time.January; m <= time.December; m++ {
		monthly, err := buildMonthlyReport(ctx, year, m)
		if err != nil {
			return nil, err
		}
		result.Months = append(result.Months, YearlyReportRow{
			Month:         int(m),
			Revenue:       monthly.Revenue,
			PurchaseCost:  monthly.PurchaseCost,
			TotalExpenses: monthly.TotalExpenses,
			Profit:        monthly.Profit,
		})
		result.Revenue = result.Revenue.Add(monthly.Revenue)
		result.PurchaseCost = result.PurchaseCost.Add(monthly.PurchaseCost)
		result.TotalExpenses = result.TotalExpenses.Add(monthly.TotalExpenses)
	}
	result.Profit = result.Revenue.Sub(result.PurchaseCost).Sub(result.TotalExpenses)

	return &result, nil
}

func GetLowStockProducts(ctx context.Context) ([]*Product, error) {

	db := config.GetDB()
	var results []*Product

	err := db.WithContext(ctx).Model(&Product{}).
		Preload("Category").
		Where("stock_quantity <= min_stock").
		Order("stock_quantity").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

type TopSellingProduct struct {
	ProductId    int             `json:"product_id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	QuantitySold int64           `json:"quantity_sold"`
	SalesTotal   decimal.Decimal `json:"sales_total"`
}

// GetTopSellingProducts ranks products by quantity sold. A nil start and
// end ranks across every sale line ever recorded.
func GetTopSellingProducts(ctx context.Context, start *time.Time, end *time.Time, limit int) ([]*TopSellingProduct, error) {

	if limit <= 0 {
		limit = config.SearchLimit
	}

	sql := `
SELECT
    sale_items.product_id,
    products.code,
    products.name,
    products.unit,
    SUM(sale_items.quantity) AS quantity_sold,
    SUM(sale_items.total_price) AS sales_total
FROM
    sale_items
    JOIN sales ON sales.id = sale_items.sale_id
    JOIN products ON products.id = sale_items.product_id
`
	var args []interface{}
	if start != nil && end != nil {
		sql += "WHERE\n    sales.sale_date >= ? AND sales.sale_date < ?\n"
		args = append(args, *start, *end)
	}
	sql += `GROUP BY
    sale_items.product_id, products.code, products.name, products.unit
ORDER BY
    quantity_sold DESC
LIMIT ?;
`
	args = append(args, limit)

	var records []*TopSellingProduct
	db := config.GetDB()
	if err := db.WithContext(ctx).Raw(sql, args...).Scan(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// ExportMonthlyReportExcel renders the monthly report as a spreadsheet.
func ExportMonthlyReportExcel(ctx context.Context, year int, month time.Month) (*excelize.File, error) {

	report, err := GetMonthlyReport(ctx, year, month)
	if err != nil {
		return nil, err
	}
	start, end := MonthWindow(year, month)
	topSellers, err := GetTopSellingProducts(ctx, &start, &end, config.SearchLimit)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheetName := "Sheet1"
	if _, err := f.NewSheet(sheetName); err != nil {
		return nil, err
	}

	f.SetCellValue(sheetName, "A1", fmt.Sprintf("Monthly Report %d-%02d", year, int(month)))

	f.SetCellValue(sheetName, "A3", "Revenue")
	f.SetCellValue(sheetName, "B3", report.Revenue.InexactFloat64())
	f.SetCellValue(sheetName, "A4", "Purchase Cost")
	f.SetCellValue(sheetName, "B4", report.PurchaseCost.InexactFloat64())
	f.SetCellValue(sheetName, "A5", "Expenses")
	f.SetCellValue(sheetName, "B5", report.TotalExpenses.InexactFloat64())
	f.SetCellValue(sheetName, "A6", "Profit")
	f.SetCellValue(sheetName, "B6", report.Profit.InexactFloat64())
	f.SetCellValue(sheetName, "A7", "Sales Count")
	f.SetCellValue(sheetName, "B7", report.SalesCount)

	row := 9
	f.SetCellValue(sheetName, "A"+fmt.Sprint(row), "Daily Sales")
	row++
	f.SetCellValue(sheetName, "A"+fmt.Sprint(row), "Day")
	f.SetCellValue(sheetName, "B"+fmt.Sprint(row), "Revenue")
	f.SetCellValue(sheetName, "C"+fmt.Sprint(row), "SalesCount")
	row++
	for _, d := range report.Daily {
		f.SetCellValue(sheetName, "A"+fmt.Sprint(row), d.Day)
		f.SetCellValue(sheetName, "B"+fmt.Sprint(row), d.Revenue.InexactFloat64())
		f.SetCellValue(sheetName, "C"+fmt.Sprint(row), d.SalesCount)
		row++
	}

	row++
	f.SetCellValue(sheetName, "A"+fmt.Sprint(row), "Expenses By Category")
	row++
	for _, e := range report.Expenses {
		f.SetCellValue(sheetName, "A"+fmt.Sprint(row), string(e.Category))
		f.SetCellValue(sheetName, "B"+fmt.Sprint(row), e.Total.InexactFloat64())
		row++
	}

	row++
	f.SetCellValue(sheetName, "A"+fmt.Sprint(row), "Top Selling Products")
	row++
	f.SetCellValue(sheetName, "A"+fmt.Sprint(row), "Code")
	f.SetCellValue(sheetName, "B"+fmt.Sprint(row), "Name")
	f.SetCellValue(sheetName, "C"+fmt.Sprint(row), "QuantitySold")
	f.SetCellValue(sheetName, "D"+fmt.Sprint(row), "SalesTotal")
	row++
	for _, p := range topSellers {
		f.SetCellValue(sheetName, "A"+fmt.Sprint(row), p.Code)
		f.SetCellValue(sheetName, "B"+fmt.Sprint(row), p.Name)
		f.SetCellValue(sheetName, "C"+fmt.Sprint(row), p.QuantitySold)
		f.SetCellValue(sheetName, "D"+fmt.Sprint(row), p.SalesTotal.InexactFloat64())
		row++
	}

	return f, nil
}
