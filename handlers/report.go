package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/storestock_backend/config"
	"github.com/mmdatafocus/storestock_backend/models"
)

func DashboardHandler(c *gin.Context) {
	summary, err := models.GetDashboardSummary(c.Request.Context())
	if err != nil {
		respondError(c, "report", "DashboardHandler", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func queryYearMonth(c *gin.Context) (int, time.Month, bool) {
	now := time.Now()
	year := now.Year()
	month := now.Month()

	if v := c.Query("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
			return 0, 0, false
		}
		year = y
	}
	if v := c.Query("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
			return 0, 0, false
		}
		month = time.Month(m)
	}
	return year, month, true
}

func MonthlyReportHandler(c *gin.Context) {
	year, month, ok := queryYearMonth(c)
	if !ok {
		return
	}

	report, err := models.GetMonthlyReport(c.Request.Context(), year, month)
	if err != nil {
		respondError(c, "report", "MonthlyReportHandler", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func YearlyReportHandler(c *gin.Context) {
	year := time.Now().Year()
	if v := c.Query("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
			return
		}
		year = y
	}

	report, err := models.GetYearlyReport(c.Request.Context(), year)
	if err != nil {
		respondError(c, "report", "YearlyReportHandler", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func LowStockHandler(c *gin.Context) {
	products, err := models.GetLowStockProducts(c.Request.Context())
	if err != nil {
		respondError(c, "report", "LowStockHandler", err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// TopSellingProductsHandler ranks across the whole ledger unless a
// year and month narrow it down.
func TopSellingProductsHandler(c *gin.Context) {
	limit := config.SearchLimit
	if v := c.Query("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil || l <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = l
	}

	var start, end *time.Time
	if c.Query("year") != "" || c.Query("month") != "" {
		year, month, ok := queryYearMonth(c)
		if !ok {
			return
		}
		s, e := models.MonthWindow(year, month)
		start, end = &s, &e
	}
	products, err := models.GetTopSellingProducts(c.Request.Context(), start, end, limit)
	if err != nil {
		respondError(c, "report", "TopSellingProductsHandler", err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func ExportMonthlyReportHandler(c *gin.Context) {
	year, month, ok := queryYearMonth(c)
	if !ok {
		return
	}

	f, err := models.ExportMonthlyReportExcel(c.Request.Context(), year, month)
	if err != nil {
		respondError(c, "report", "ExportMonthlyReportHandler", err)
		return
	}

	filename := fmt.Sprintf("monthly-report-%d-%02d.xlsx", year, int(month))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+filename)
	if err := f.Write(c.Writer); err != nil {
		config.LogError(config.GetLogger(), "report", "ExportMonthlyReportHandler", "write spreadsheet", filename, err)
	}
}
