package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/storestock_backend/models"
)

func CreateProductHandler(c *gin.Context) {
	var input models.NewProduct
	if !bindJSON(c, &input) {
		return
	}

	product, err := models.CreateProduct(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "product", "CreateProductHandler", err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func UpdateProductHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	var input models.NewProduct
	if !bindJSON(c, &input) {
		return
	}

	product, err := models.UpdateProduct(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, "product", "UpdateProductHandler", err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func DeleteProductHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}

	product, err := models.DeleteProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, "product", "DeleteProductHandler", err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func GetProductHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}

	product, err := models.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, "product", "GetProductHandler", err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func GetProductsHandler(c *gin.Context) {
	var filter models.ProductFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	products, err := models.GetProducts(c.Request.Context(), &filter)
	if err != nil {
		respondError(c, "product", "GetProductsHandler", err)
		return
	}
	c.JSON(http.StatusOK, products)
}
