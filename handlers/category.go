package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/storestock_backend/models"
)

func CreateCategoryHandler(c *gin.Context) {
	var input models.NewCategory
	if !bindJSON(c, &input) {
		return
	}

	category, err := models.CreateCategory(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "category", "CreateCategoryHandler", err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func UpdateCategoryHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	var input models.NewCategory
	if !bindJSON(c, &input) {
		return
	}

	category, err := models.UpdateCategory(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, "category", "UpdateCategoryHandler", err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func DeleteCategoryHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}

	category, err := models.DeleteCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, "category", "DeleteCategoryHandler", err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func GetCategoryHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}

	category, err := models.GetCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, "category", "GetCategoryHandler", err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func GetCategoriesHandler(c *gin.Context) {
	categories, err := models.GetAllCategories(c.Request.Context())
	if err != nil {
		respondError(c, "category", "GetCategoriesHandler", err)
		return
	}
	c.JSON(http.StatusOK, categories)
}
