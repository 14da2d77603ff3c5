package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/storestock_backend/models"
)

func CreatePurchaseHandler(c *gin.Context) {
	var input models.NewPurchase
	if !bindJSON(c, &input) {
		return
	}

	purchase, err := models.CreatePurchase(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "purchase", "CreatePurchaseHandler", err)
		return
	}
	c.JSON(http.StatusCreated, purchase)
}

func AddPurchaseItemHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	var input models.NewPurchaseItem
	if !bindJSON(c, &input) {
		return
	}

	purchase, err := models.AddPurchaseItem(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, "purchase", "AddPurchaseItemHandler", err)
		return
	}
	c.JSON(http.StatusOK, purchase)
}

func DeletePurchaseItemHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	itemId, ok := pathId(c, "itemId")
	if !ok {
		return
	}

	purchase, err := models.DeletePurchaseItem(c.Request.Context(), id, itemId)
	if err != nil {
		respondError(c, "purchase", "DeletePurchaseItemHandler", err)
		return
	}
	c.JSON(http.StatusOK, purchase)
}

func ReceivePurchaseHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}

	purchase, err := models.ReceivePurchase(c.Request.Context(), id)
	if err != nil {
		respondError(c, "purchase", "ReceivePurchaseHandler", err)
		return
	}
	c.JSON(http.StatusOK, purchase)
}

func CancelPurchaseHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}

	purchase, err := models.CancelPurchase(c.Request.Context(), id)
	if err != nil {
		respondError(c, "purchase", "CancelPurchaseHandler", err)
		return
	}
	c.JSON(http.StatusOK, purchase)
}

func DeletePurchaseHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}

	purchase, err := models.DeletePurchase(c.Request.Context(), id)
	if err != nil {
		respondError(c, "purchase", "DeletePurchaseHandler", err)
		return
	}
	c.JSON(http.StatusOK, purchase)
}

func GetPurchaseHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}

	purchase, err := models.GetPurchase(c.Request.Context(), id)
	if err != nil {
		respondError(c, "purchase", "GetPurchaseHandler", err)
		return
	}
	c.JSON(http.StatusOK, purchase)
}

func GetPurchasesHandler(c *gin.Context) {
	var filter models.PurchaseFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	purchases, err := models.GetPurchases(c.Request.Context(), &filter)
	if err != nil {
		respondError(c, "purchase", "GetPurchasesHandler", err)
		return
	}
	c.JSON(http.StatusOK, purchases)
}
