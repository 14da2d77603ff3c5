package models

import (
	"context"
	"errors"
	"time"

	"github.com/mmdatafocus/storestock_backend/config"
	"github.com/mmdatafocus/storestock_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Product struct {
	ID            int             `gorm:"primary_key" json:"id"`
	Code          string          `gorm:"index;size:50;not null;unique" json:"code" binding:"required"`
	Name          string          `gorm:"index;size:100;not null" json:"name" binding:"required"`
	CategoryId    int             `gorm:"index" json:"category_id"`
	Category      *Category       `json:"category,omitempty"`
	Unit          string          `gorm:"size:20;not null" json:"unit"`
	CostPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"cost_price"`
	SalePrice     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"sale_price"`
	StockQuantity int             `gorm:"not null;default:0" json:"stock_quantity"`
	MinStock      int             `gorm:"not null;default:0" json:"min_stock"`
	IsLowStock    bool            `gorm:"-" json:"is_low_stock"`
	IsActive      *bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// derive the low stock flag whenever a product row is loaded
func (p *Product) AfterFind(tx *gorm.DB) error {
	p.IsLowStock = p.StockQuantity <= p.MinStock
	return nil
}

type NewProduct struct {
	Code          string          `json:"code" binding:"required"`
	Name          string          `json:"name" binding:"required"`
	CategoryId    int             `json:"category_id"`
	Unit          string          `json:"unit" binding:"required"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	MinStock      int             `json:"min_stock"`
	StockQuantity int             `json:"stock_quantity"`
	IsActive      *bool           `json:"is_active"`
}

// validate input for both create & update. (id = 0 for create)
func (input *NewProduct) validate(ctx context.Context, id int) error {
	if err := utils.ValidateUnique[Product](ctx, "code", input.Code, id); err != nil {
		return err
	}
	// category is optional
	if input.CategoryId > 0 {
		if err := utils.ValidateResourceId[Category](ctx, input.CategoryId); err != nil {
			return &utils.ValidationError{Field: "category_id", Reason: "category not found"}
		}
	}
	if input.CostPrice.IsNegative() {
		return &utils.ValidationError{Field: "cost_price", Reason: "must not be negative"}
	}
	if input.SalePrice.IsNegative() {
		return &utils.ValidationError{Field: "sale_price", Reason: "must not be negative"}
	}
	if input.MinStock < 0 {
		return &utils.ValidationError{Field: "min_stock", Reason: "must not be negative"}
	}
	if input.StockQuantity < 0 {
		return &utils.ValidationError{Field: "stock_quantity", Reason: "must not be negative"}
	}
	return nil
}

func CreateProduct(ctx context.Context, input *NewProduct) (*Product, error) {

	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	product := Product{
		Code:          input.Code,
		Name:          input.Name,
		CategoryId:    input.CategoryId,
		Unit:          input.Unit,
		CostPrice:     input.CostPrice,
		SalePrice:     input.SalePrice,
		StockQuantity: input.StockQuantity,
		MinStock:      input.MinStock,
		IsActive:      utils.NewTrue(),
	}
	if input.IsActive != nil {
		product.IsActive = input.IsActive
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, err
	}
	product.IsLowStock = product.StockQuantity <= product.MinStock

	return &product, nil
}

func UpdateProduct(ctx context.Context, id int, input *NewProduct) (*Product, error) {

	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	product, err := utils.FetchModel[Product](ctx, id)
	if err != nil {
		return nil, err
	}

	// stock quantity only moves through purchases & sales
	updates := map[string]interface{}{
		"Code":       input.Code,
		"Name":       input.Name,
		"CategoryId": input.CategoryId,
		"Unit":       input.Unit,
		"CostPrice":  input.CostPrice,
		"SalePrice":  input.SalePrice,
		"MinStock":   input.MinStock,
	}
	if input.IsActive != nil {
		updates["IsActive"] = *input.IsActive
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&product).Updates(updates).Error; err != nil {
		return nil, err
	}
	return utils.FetchModel[Product](ctx, id)
}

func DeleteProduct(ctx context.Context, id int) (*Product, error) {

	result, err := utils.FetchModel[Product](ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := utils.ResourceCountWhere[PurchaseItem](ctx, "product_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, &utils.ValidationError{Field: "product", Reason: "purchase history exists"}
	}
	count, err = utils.ResourceCountWhere[SaleItem](ctx, "product_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, &utils.ValidationError{Field: "product", Reason: "sale history exists"}
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func GetProduct(ctx context.Context, id int) (*Product, error) {
	return utils.FetchModel[Product](ctx, id, "Category")
}

type ProductFilter struct {
	Keyword    string `form:"keyword"`
	CategoryId int    `form:"category_id"`
	LowStock   bool   `form:"low_stock"`
}

func GetProducts(ctx context.Context, filter *ProductFilter) ([]*Product, error) {

	db := config.GetDB()
	var results []*Product

	dbCtx := db.WithContext(ctx).Model(&Product{}).Preload("Category")
	if filter != nil {
		if filter.Keyword != "" {
			keyword := "%" + filter.Keyword + "%"
			dbCtx = dbCtx.Where("code LIKE ? OR name LIKE ?", keyword, keyword)
		}
		if filter.CategoryId > 0 {
			dbCtx = dbCtx.Where("category_id = ?", filter.CategoryId)
		}
		if filter.LowStock {
			dbCtx = dbCtx.Where("stock_quantity <= min_stock")
		}
	}

	if err := dbCtx.Order("code").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func lockForUpdate() clause.Locking {
	return clause.Locking{Strength: "UPDATE"}
}

// lockProduct loads a product row under FOR UPDATE inside the given
// transaction so concurrent stock movements serialize per product.
func lockProduct(tx *gorm.DB, productId int) (*Product, error) {
	var product Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", productId).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &product, nil
}
