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

type Purchase struct {
	ID             int             `gorm:"primary_key" json:"id"`
	PurchaseNumber string          `gorm:"size:50;not null;unique" json:"purchase_number"`
	SequenceNo     int64           `gorm:"not null" json:"sequence_no"`
	SupplierId     int             `gorm:"index;not null" json:"supplier_id"`
	Supplier       *Supplier       `json:"supplier,omitempty"`
	Status         PurchaseStatus  `gorm:"type:enum('pending','received','cancelled');not null;default:pending" json:"status"`
	PurchaseDate   time.Time       `gorm:"not null" json:"purchase_date"`
	ReceivedDate   *time.Time      `gorm:"default:null" json:"received_date"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"total_amount"`
	Notes          string          `gorm:"type:text" json:"notes"`
	CreatedBy      int             `gorm:"index" json:"created_by"`
	Items          []PurchaseItem  `json:"items"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type PurchaseItem struct {
	ID         int             `gorm:"primary_key" json:"id"`
	PurchaseId int             `gorm:"index;not null" json:"purchase_id"`
	ProductId  int             `gorm:"index;not null" json:"product_id"`
	Product    *Product        `json:"product,omitempty"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	UnitCost   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_cost"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_price"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

type NewPurchase struct {
	SupplierId   int               `json:"supplier_id" binding:"required"`
	PurchaseDate *time.Time        `json:"purchase_date"`
	Notes        string            `json:"notes"`
	Items        []NewPurchaseItem `json:"items"`
}

type NewPurchaseItem struct {
	ProductId int              `json:"product_id" binding:"required"`
	Quantity  int              `json:"quantity" binding:"required"`
	UnitCost  *decimal.Decimal `json:"unit_cost"`
}

func (input *NewPurchaseItem) validate(ctx context.Context) (*Product, error) {
	if input.Quantity <= 0 {
		return nil, &utils.ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	product, err := utils.FetchModel[Product](ctx, input.ProductId)
	if err != nil {
		return nil, &utils.ValidationError{Field: "product_id", Reason: "product not found"}
	}
	if input.UnitCost != nil && input.UnitCost.IsNegative() {
		return nil, &utils.ValidationError{Field: "unit_cost", Reason: "must not be negative"}
	}
	return product, nil
}

// resumPurchaseTotal recomputes the order total from its persisted lines.
// Totals are never adjusted incrementally.
func resumPurchaseTotal(tx *gorm.DB, purchaseId int) error {
	var total decimal.Decimal
	err := tx.Model(&PurchaseItem{}).
		Where("purchase_id = ?", purchaseId).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&total).Error
	if err != nil {
		return err
	}
	return tx.Model(&Purchase{}).Where("id = ?", purchaseId).
		Update("total_amount", total).Error
}

func CreatePurchase(ctx context.Context, input *NewPurchase) (*Purchase, error) {

	db := config.GetDB()

	if err := utils.ValidateResourceId[Supplier](ctx, input.SupplierId); err != nil {
		return nil, &utils.ValidationError{Field: "supplier_id", Reason: "supplier not found"}
	}

	var purchaseItems []PurchaseItem
	for _, item := range input.Items {
		product, err := item.validate(ctx)
		if err != nil {
			return nil, err
		}
		unitCost := product.CostPrice
		if item.UnitCost != nil {
			unitCost = *item.UnitCost
		}
		purchaseItems = append(purchaseItems, PurchaseItem{
			ProductId:  item.ProductId,
			Quantity:   item.Quantity,
			UnitCost:   unitCost,
			TotalPrice: unitCost.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}

	purchaseDate := time.Now()
	if input.PurchaseDate != nil {
		purchaseDate = *input.PurchaseDate
	}
	createdBy, _ := utils.GetUserIdFromContext(ctx)

	purchase := Purchase{
		SupplierId:   input.SupplierId,
		Status:       PurchaseStatusPending,
		PurchaseDate: purchaseDate,
		Notes:        input.Notes,
		CreatedBy:    createdBy,
		Items:        purchaseItems,
	}

	tx := db.Begin()

	seqNo, err := utils.GetSequence[Purchase](ctx)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	purchase.SequenceNo = seqNo
	purchase.PurchaseNumber = FormatDocumentNumber(PurchaseNumberPrefix, seqNo)

	if err := tx.WithContext(ctx).Create(&purchase).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := resumPurchaseTotal(tx.WithContext(ctx), purchase.ID); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return utils.FetchModel[Purchase](ctx, purchase.ID, "Items", "Supplier")
}

func AddPurchaseItem(ctx context.Context, purchaseId int, input *NewPurchaseItem) (*Purchase, error) {

	db := config.GetDB()

	product, err := input.validate(ctx)
	if err != nil {
		return nil, err
	}
	unitCost := product.CostPrice
	if input.UnitCost != nil {
		unitCost = *input.UnitCost
	}

	item := PurchaseItem{
		PurchaseId: purchaseId,
		ProductId:  input.ProductId,
		Quantity:   input.Quantity,
		UnitCost:   unitCost,
		TotalPrice: unitCost.Mul(decimal.NewFromInt(int64(input.Quantity))),
	}

	tx := db.Begin()

	// status decides the stock path, so it has to be read under the same
	// lock ReceivePurchase takes on the order row
	var purchase Purchase
	err = tx.WithContext(ctx).Clauses(lockForUpdate()).
		Where("id = ?", purchaseId).
		First(&purchase).Error
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	if purchase.Status == PurchaseStatusCancelled {
		tx.Rollback()
		return nil, &utils.ValidationError{Field: "status", Reason: "purchase is cancelled"}
	}

	if err := tx.WithContext(ctx).Create(&item).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	// lines added after a purchase is received arrive in stock immediately
	if purchase.Status == PurchaseStatusReceived {
		locked, err := lockProduct(tx.WithContext(ctx), input.ProductId)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		err = tx.WithContext(ctx).Model(&Product{}).Where("id = ?", locked.ID).
			Update("stock_quantity", gorm.Expr("stock_quantity + ?", input.Quantity)).Error
		if err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := resumPurchaseTotal(tx.WithContext(ctx), purchaseId); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return utils.FetchModel[Purchase](ctx, purchaseId, "Items", "Supplier")
}

// DeletePurchaseItem removes a line and recomputes the order total.
// Stock received through the line is not reversed.
func DeletePurchaseItem(ctx context.Context, purchaseId int, itemId int) (*Purchase, error) {

	db := config.GetDB()

	if _, err := utils.FetchModel[Purchase](ctx, purchaseId); err != nil {
		return nil, err
	}

	var item PurchaseItem
	err := db.WithContext(ctx).
		Where("id = ? AND purchase_id = ?", itemId, purchaseId).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}

	tx := db.Begin()

	if err := tx.WithContext(ctx).Delete(&item).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := resumPurchaseTotal(tx.WithContext(ctx), purchaseId); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return utils.FetchModel[Purchase](ctx, purchaseId, "Items", "Supplier")
}

// ReceivePurchase moves every line of a pending purchase into stock and
// stamps the received date. Calling it again on a non-pending purchase is
// a no-op, so retried requests cannot double-count stock.
func ReceivePurchase(ctx context.Context, purchaseId int) (*Purchase, error) {

	db := config.GetDB()

	tx := db.Begin()

	var purchase Purchase
	err := tx.WithContext(ctx).Clauses(lockForUpdate()).
		Preload("Items").
		Where("id = ?", purchaseId).
		First(&purchase).Error
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}

	if purchase.Status != PurchaseStatusPending {
		tx.Rollback()
		return utils.FetchModel[Purchase](ctx, purchaseId, "Items", "Supplier")
	}

	for _, item := range purchase.Items {
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
	}

	now := time.Now()
	err = tx.WithContext(ctx).Model(&purchase).Updates(map[string]interface{}{
		"Status":       PurchaseStatusReceived,
		"ReceivedDate": now,
	}).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return utils.FetchModel[Purchase](ctx, purchaseId, "Items", "Supplier")
}

func CancelPurchase(ctx context.Context, purchaseId int) (*Purchase, error) {

	db := config.GetDB()

	purchase, err := utils.FetchModel[Purchase](ctx, purchaseId)
	if err != nil {
		return nil, err
	}
	if purchase.Status == PurchaseStatusReceived {
		return nil, &utils.ValidationError{Field: "status", Reason: "purchase already received"}
	}

	err = db.WithContext(ctx).Model(&purchase).
		Update("Status", PurchaseStatusCancelled).Error
	if err != nil {
		return nil, err
	}
	return utils.FetchModel[Purchase](ctx, purchaseId, "Items", "Supplier")
}

// DeletePurchase removes the purchase and its lines. Stock already received
// stays in inventory.
func DeletePurchase(ctx context.Context, purchaseId int) (*Purchase, error) {

	db := config.GetDB()

	purchase, err := utils.FetchModel[Purchase](ctx, purchaseId, "Items")
	if err != nil {
		return nil, err
	}

	tx := db.Begin()

	err = tx.WithContext(ctx).Where("purchase_id = ?", purchaseId).
		Delete(&PurchaseItem{}).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.WithContext(ctx).Delete(&purchase).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return purchase, nil
}

func GetPurchase(ctx context.Context, id int) (*Purchase, error) {
	return utils.FetchModel[Purchase](ctx, id, "Items", "Items.Product", "Supplier")
}

type PurchaseFilter struct {
	Status     PurchaseStatus `form:"status"`
	SupplierId int            `form:"supplier_id"`
	StartDate  *time.Time     `form:"start_date" time_format:"2006-01-02"`
	EndDate    *time.Time     `form:"end_date" time_format:"2006-01-02"`
}

func GetPurchases(ctx context.Context, filter *PurchaseFilter) ([]*Purchase, error) {

	db := config.GetDB()
	var results []*Purchase

	dbCtx := db.WithContext(ctx).Model(&Purchase{}).
		Preload("Items").Preload("Supplier")
	if filter != nil {
		if filter.Status != "" {
			if !filter.Status.Valid() {
				return nil, &utils.ValidationError{Field: "status", Reason: "unknown value"}
			}
			dbCtx = dbCtx.Where("status = ?", filter.Status)
		}
		if filter.SupplierId > 0 {
			dbCtx = dbCtx.Where("supplier_id = ?", filter.SupplierId)
		}
		if filter.StartDate != nil {
			dbCtx = dbCtx.Where("purchase_date >= ?", *filter.StartDate)
		}
		if filter.EndDate != nil {
			dbCtx = dbCtx.Where("purchase_date < ?", *filter.EndDate)
		}
	}

	if err := dbCtx.Order("sequence_no desc").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
