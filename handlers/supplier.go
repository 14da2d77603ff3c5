package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/storestock_backend/models"
)

func CreateSupplierHandler(c *gin.Context) {
	var input models.NewSupplier
	if !bindJSON(c, &input) {
		return
	}

	supplier, err := models.CreateSupplier(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "supplier", "CreateSupplierHandler", err)
		return
	}
	c.JSON(http.StatusCreated, supplier)
}

func UpdateSupplierHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	var input models.NewSupplier
	if !bindJSON(c, &input) {
		return
	}

	supplier, err := models.UpdateSupplier(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, "supplier", "UpdateSupplierHandler", err)
		return
	}
	c.JSON(http.StatusOK, supplier)
}

func DeleteSupplierHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}

	supplier, err := models.DeleteSupplier(c.Request.Context(), id)
	if err != nil {
		respondError(c, "supplier", "DeleteSupplierHandler", err)
		return
	}
	c.JSON(http.StatusOK, supplier)
}

func GetSupplierHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}

	supplier, err := models.GetSupplier(c.Request.Context(), id)
	if err != nil {
		respondError(c, "supplier", "GetSupplierHandler", err)
		return
	}
	c.JSON(http.StatusOK, supplier)
}

func GetSuppliersHandler(c *gin.Context) {
	suppliers, err := models.GetAllSuppliers(c.Request.Context())
	if err != nil {
		respondError(c, "supplier", "GetSuppliersHandler", err)
		return
	}
	c.JSON(http.StatusOK, suppliers)
}
