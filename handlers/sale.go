package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/storestock_backend/models"
	"github.com/shopspring/decimal"
)

func CreateSaleHandler(c *gin.Context) {
	var input models.NewSale
	if !bindJSON(c, &input) {
		return
	}

	sale, err := models.CreateSale(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "sale", "CreateSaleHandler", err)
		return
	}
	c.JSON(http.StatusCreated, sale)
}

func AddSaleItemHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	var input models.NewSaleItem
	if !bindJSON(c, &input) {
		return
	}

	sale, err := models.AddSaleItem(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, "sale", "AddSaleItemHandler", err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

func DeleteSaleItemHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	itemId, ok := pathId(c, "itemId")
	if !ok {
		return
	}

	sale, err := models.DeleteSaleItem(c.Request.Context(), id, itemId)
	if err != nil {
		respondError(c, "sale", "DeleteSaleItemHandler", err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

type updateDiscountRequest struct {
	Discount decimal.Decimal `json:"discount"`
}

func UpdateSaleDiscountHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	var req updateDiscountRequest
	if !bindJSON(c, &req) {
		return
	}

	sale, err := models.UpdateSaleDiscount(c.Request.Context(), id, req.Discount)
	if err != nil {
		respondError(c, "sale", "UpdateSaleDiscountHandler", err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

func DeleteSaleHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}

	sale, err := models.DeleteSale(c.Request.Context(), id)
	if err != nil {
		respondError(c, "sale", "DeleteSaleHandler", err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

func GetSaleHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}

	sale, err := models.GetSale(c.Request.Context(), id)
	if err != nil {
		respondError(c, "sale", "GetSaleHandler", err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

func GetSalesHandler(c *gin.Context) {
	var filter models.SaleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sales, err := models.GetSales(c.Request.Context(), &filter)
	if err != nil {
		respondError(c, "sale", "GetSalesHandler", err)
		return
	}
	c.JSON(http.StatusOK, sales)
}
