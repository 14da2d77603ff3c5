package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/storestock_backend/models"
)

func CreateExpenseHandler(c *gin.Context) {
	var input models.NewExpense
	if !bindJSON(c, &input) {
		return
	}

	expense, err := models.CreateExpense(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "expense", "CreateExpenseHandler", err)
		return
	}
	c.JSON(http.StatusCreated, expense)
}

func UpdateExpenseHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	var input models.NewExpense
	if !bindJSON(c, &input) {
		return
	}

	expense, err := models.UpdateExpense(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, "expense", "UpdateExpenseHandler", err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

func DeleteExpenseHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}

	expense, err := models.DeleteExpense(c.Request.Context(), id)
	if err != nil {
		respondError(c, "expense", "DeleteExpenseHandler", err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

func GetExpenseHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}

	expense, err := models.GetExpense(c.Request.Context(), id)
	if err != nil {
		respondError(c, "expense", "GetExpenseHandler", err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

func GetExpensesHandler(c *gin.Context) {
	var filter models.ExpenseFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	expenses, err := models.GetExpenses(c.Request.Context(), &filter)
	if err != nil {
		respondError(c, "expense", "GetExpensesHandler", err)
		return
	}
	c.JSON(http.StatusOK, expenses)
}
