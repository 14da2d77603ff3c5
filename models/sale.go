package models

import (
	"context"
	"errors"
	"time"

	"github.com/mmdatafocus/storestock_backend/config"
	"github.com/mmdatafocus/storestock_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Sale struct {
	ID            int             `gorm:"primary_key" json:"id"`
	SaleNumber    string          `gorm:"size:50;not null;unique" json:"sale_number"`
	SequenceNo    int64           `gorm:"not null" json:"sequence_no"`
	SaleDate      time.Time       `gorm:"not null" json:"sale_date"`
	CustomerName  string          `gorm:"size:100" json:"customer_name"`
	PaymentMethod PaymentMethod   `gorm:"type:enum('cash','transfer','card');not null;default:cash" json:"payment_method"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"total_amount"`
	Discount      decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"discount"`
	NetAmount     decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"net_amount"`
	Notes         string          `gorm:"type:text" json:"notes"`
	CreatedBy     int             `gorm:"index" json:"created_by"`
	Items         []SaleItem      `json:"items"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type SaleItem struct {
	ID         int             `gorm:"primary_key" json:"id"`
	SaleId     int             `gorm:"index;not null" json:"sale_id"`
	ProductId  int             `gorm:"index;not null" json:"product_id"`
	Product    *Product        `json:"product,omitempty"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_price"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

type NewSale struct {
	SaleDate      *time.Time       `json:"sale_date"`
	CustomerName  string           `json:"customer_name"`
	PaymentMethod PaymentMethod    `json:"payment_method"`
	Discount      *decimal.Decimal `json:"discount"`
	Notes         string           `json:"notes"`
	Items         []NewSaleItem    `json:"items"`
}

type NewSaleItem struct {
	ProductId int              `json:"product_id" binding:"required"`
	Quantity  int              `json:"quantity" binding:"required"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

func (input *NewSaleItem) validate() error {
	if input.Quantity <= 0 {
		return &utils.ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	if input.UnitPrice != nil && input.UnitPrice.IsNegative() {
		return &utils.ValidationError{Field: "unit_price", Reason: "must not be negative"}
	}
	return nil
}

// deductStock locks the product row, verifies availability and subtracts the
// quantity. Nothing is written when stock is insufficient.
func deductStock(tx *gorm.DB, productId int, quantity int) (*Product, error) {
	product, err := lockProduct(tx, productId)
	if err != nil {
		return nil, err
	}
	if product.StockQuantity < quantity {
		return nil, &utils.InsufficientStockError{
			ProductId:   product.ID,
			ProductName: product.Name,
			Unit:        product.Unit,
			Available:   product.StockQuantity,
		}
	}
	err = tx.Model(&Product{}).Where("id = ?", product.ID).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", quantity)).Error
	if err != nil {
		return nil, err
	}
	return product, nil
}

// resumSaleTotal recomputes the invoice total from its persisted lines and
// re-derives the net amount from the stored discount.
func resumSaleTotal(tx *gorm.DB, saleId int) error {
	var total decimal.Decimal
	err := tx.Model(&SaleItem{}).
		Where("sale_id = ?", saleId).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&total).Error
	if err != nil {
		return err
	}
	var sale Sale
	if err := tx.Where("id = ?", saleId).First(&sale).Error; err != nil {
		return err
	}
	return tx.Model(&Sale{}).Where("id = ?", saleId).Updates(map[string]interface{}{
		"TotalAmount": total,
		"NetAmount":   total.Sub(sale.Discount),
	}).Error
}

func CreateSale(ctx context.Context, input *NewSale) (*Sale, error) {

	db := config.GetDB()

	paymentMethod := input.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = PaymentMethodCash
	}
	if !paymentMethod.Valid() {
		return nil, &utils.ValidationError{Field: "payment_method", Reason: "unknown value"}
	}

	discount := decimal.Zero
	if input.Discount != nil {
		if input.Discount.IsNegative() {
			return nil, &utils.ValidationError{Field: "discount", Reason: "must not be negative"}
		}
		discount = *input.Discount
	}

	for _, item := range input.Items {
		if err := item.validate(); err != nil {
			return nil, err
		}
	}

	saleDate := time.Now()
	if input.SaleDate != nil {
		saleDate = *input.SaleDate
	}

	createdBy, _ := utils.GetUserIdFromContext(ctx)

	sale := Sale{
		SaleDate:      saleDate,
		CustomerName:  input.CustomerName,
		PaymentMethod: paymentMethod,
		Discount:      discount,
		Notes:         input.Notes,
		CreatedBy:     createdBy,
	}

	tx := db.Begin()

	seqNo, err := utils.GetSequence[Sale](ctx)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	sale.SequenceNo = seqNo
	sale.SaleNumber = FormatDocumentNumber(SaleNumberPrefix, seqNo)

	if err := tx.WithContext(ctx).Create(&sale).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	for _, item := range input.Items {
		product, err := deductStock(tx.WithContext(ctx), item.ProductId, item.Quantity)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		unitPrice := product.SalePrice
		if item.UnitPrice != nil {
			unitPrice = *item.UnitPrice
		}
		saleItem := SaleItem{
			SaleId:     sale.ID,
			ProductId:  item.ProductId,
			Quantity:   item.Quantity,
			UnitPrice:  unitPrice,
			TotalPrice: unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
		}
		if err := tx.WithContext(ctx).Create(&saleItem).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := resumSaleTotal(tx.WithContext(ctx), sale.ID); err != nil {
		tx.Rollback()
		return nil, err
	}

	// discount may not exceed what was actually sold
	var stored Sale
	if err := tx.WithContext(ctx).First(&stored, sale.ID).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if stored.Discount.GreaterThan(stored.TotalAmount) {
		tx.Rollback()
		return nil, &utils.ValidationError{Field: "discount", Reason: "exceeds total amount"}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return utils.FetchModel[Sale](ctx, sale.ID, "Items", "Items.Product")
}

func AddSaleItem(ctx context.Context, saleId int, input *NewSaleItem) (*Sale, error) {

	db := config.GetDB()

	if _, err := utils.FetchModel[Sale](ctx, saleId); err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	tx := db.Begin()

	product, err := deductStock(tx.WithContext(ctx), input.ProductId, input.Quantity)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	unitPrice := product.SalePrice
	if input.UnitPrice != nil {
		unitPrice = *input.UnitPrice
	}

	saleItem := SaleItem{
		SaleId:     saleId,
		ProductId:  input.ProductId,
		Quantity:   input.Quantity,
		UnitPrice:  unitPrice,
		TotalPrice: unitPrice.Mul(decimal.NewFromInt(int64(input.Quantity))),
	}
	if err := tx.WithContext(ctx).Create(&saleItem).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := resumSaleTotal(tx.WithContext(ctx), saleId); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return utils.FetchModel[Sale](ctx, saleId, "Items", "Items.Product")
}

// DeleteSaleItem removes a line and puts its quantity back into stock.
func DeleteSaleItem(ctx context.Context, saleId int, itemId int) (*Sale, error) {

	db := config.GetDB()

	if _, err := utils.FetchModel[Sale](ctx, saleId); err != nil {
		return nil, err
	}

	var item SaleItem
	err := db.WithContext(ctx).
		Where("id = ? AND sale_id = ?", itemId, saleId).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}

	tx := db.Begin()

	locked, err := lockProduct(tx.WithContext(ctx), item.ProductId)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	err = tx.WithContext(ctx).Model(&Product{}).Where("id = ?", locked.ID).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", item.Quantity)).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.WithContext(ctx).Delete(&item).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := resumSaleTotal(tx.WithContext(ctx), saleId); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return utils.FetchModel[Sale](ctx, saleId, "Items", "Items.Product")
}

func UpdateSaleDiscount(ctx context.Context, saleId int, discount decimal.Decimal) (*Sale, error) {

	db := config.GetDB()

	sale, err := utils.FetchModel[Sale](ctx, saleId)
	if err != nil {
		return nil, err
	}
	if discount.IsNegative() {
		return nil, &utils.ValidationError{Field: "discount", Reason: "must not be negative"}
	}
	if discount.GreaterThan(sale.TotalAmount) {
		return nil, &utils.ValidationError{Field: "discount", Reason: "exceeds total amount"}
	}

	err = db.WithContext(ctx).Model(&sale).Updates(map[string]interface{}{
		"Discount":  discount,
		"NetAmount": sale.TotalAmount.Sub(discount),
	}).Error
	if err != nil {
		return nil, err
	}
	return utils.FetchModel[Sale](ctx, saleId, "Items", "Items.Product")
}

// DeleteSale removes the invoice and its lines. Sold quantities are not
// returned to stock; remove lines one by one first when that is wanted.
func DeleteSale(ctx context.Context, saleId int) (*Sale, error) {

	db := config.GetDB()

	sale, err := utils.FetchModel[Sale](ctx, saleId, "Items")
	if err != nil {
		return nil, err
	}

	tx := db.Begin()

	err = tx.WithContext(ctx).Where("sale_id = ?", saleId).
		Delete(&SaleItem{}).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.WithContext(ctx).Delete(&sale).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return sale, nil
}

func GetSale(ctx context.Context, id int) (*Sale, error) {
	return utils.FetchModel[Sale](ctx, id, "Items", "Items.Product")
}

type SaleFilter struct {
	PaymentMethod PaymentMethod `form:"payment_method"`
	StartDate     *time.Time    `form:"start_date" time_format:"2006-01-02"`
	EndDate       *time.Time    `form:"end_date" time_format:"2006-01-02"`
}

func GetSales(ctx context.Context, filter *SaleFilter) ([]*Sale, error) {

	db := config.GetDB()
	var results []*Sale

	dbCtx := db.WithContext(ctx).Model(&Sale{}).Preload("Items")
	if filter != nil {
		if filter.PaymentMethod != "" {
			if !filter.PaymentMethod.Valid() {
				return nil, &utils.ValidationError{Field: "payment_method", Reason: "unknown value"}
			}
			dbCtx = dbCtx.Where("payment_method = ?", filter.PaymentMethod)
		}
		if filter.StartDate != nil {
			dbCtx = dbCtx.Where("sale_date >= ?", *filter.StartDate)
		}
		if filter.EndDate != nil {
			dbCtx = dbCtx.Where("sale_date < ?", *filter.EndDate)
		}
	}

	if err := dbCtx.Order("sequence_no desc").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
