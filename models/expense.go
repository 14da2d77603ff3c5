package models

import (
	"context"
	"time"

	"github.com/mmdatafocus/storestock_backend/config"
	"github.com/mmdatafocus/storestock_backend/utils"
	"github.com/shopspring/decimal"
)

type Expense struct {
	ID          int             `gorm:"primary_key" json:"id"`
	Category    ExpenseCategory `gorm:"type:enum('utilities','rent','salary','maintenance','other');not null" json:"category"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Description string          `gorm:"size:255" json:"description"`
	ExpenseDate time.Time       `gorm:"index;not null" json:"expense_date"`
	CreatedBy   int             `gorm:"index" json:"created_by"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewExpense struct {
	Category    ExpenseCategory `json:"category" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
	ExpenseDate *time.Time      `json:"expense_date"`
}

func (input *NewExpense) validate() error {
	if !input.Category.Valid() {
		return &utils.ValidationError{Field: "category", Reason: "unknown value"}
	}
	if !input.Amount.IsPositive() {
		return &utils.ValidationError{Field: "amount", Reason: "must be positive"}
	}
	return nil
}

func CreateExpense(ctx context.Context, input *NewExpense) (*Expense, error) {

	if err := input.validate(); err != nil {
		return nil, err
	}

	expenseDate := time.Now()
	if input.ExpenseDate != nil {
		expenseDate = *input.ExpenseDate
	}

	createdBy, _ := utils.GetUserIdFromContext(ctx)

	expense := Expense{
		Category:    input.Category,
		Amount:      input.Amount,
		Description: input.Description,
		ExpenseDate: expenseDate,
		CreatedBy:   createdBy,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&expense).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

func UpdateExpense(ctx context.Context, id int, input *NewExpense) (*Expense, error) {

	if err := input.validate(); err != nil {
		return nil, err
	}

	expense, err := utils.FetchModel[Expense](ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"Category":    input.Category,
		"Amount":      input.Amount,
		"Description": input.Description,
	}
	if input.ExpenseDate != nil {
		updates["ExpenseDate"] = *input.ExpenseDate
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&expense).Updates(updates).Error; err != nil {
		return nil, err
	}
	return utils.FetchModel[Expense](ctx, id)
}

func DeleteExpense(ctx context.Context, id int) (*Expense, error) {

	result, err := utils.FetchModel[Expense](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func GetExpense(ctx context.Context, id int) (*Expense, error) {
	return utils.FetchModel[Expense](ctx, id)
}

type ExpenseFilter struct {
	Category  ExpenseCategory `form:"category"`
	StartDate *time.Time      `form:"start_date" time_format:"2006-01-02"`
	EndDate   *time.Time      `form:"end_date" time_format:"2006-01-02"`
}

func GetExpenses(ctx context.Context, filter *ExpenseFilter) ([]*Expense, error) {

	db := config.GetDB()
	var results []*Expense

	dbCtx := db.WithContext(ctx).Model(&Expense{})
	if filter != nil {
		if filter.Category != "" {
			if !filter.Category.Valid() {
				return nil, &utils.ValidationError{Field: "category", Reason: "unknown value"}
			}
			dbCtx = dbCtx.Where("category = ?", filter.Category)
		}
		if filter.StartDate != nil {
			dbCtx = dbCtx.Where("expense_date >= ?", *filter.StartDate)
		}
		if filter.EndDate != nil {
			dbCtx = dbCtx.Where("expense_date < ?", *filter.EndDate)
		}
	}

	if err := dbCtx.Order("expense_date desc").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
