package models

import (
	"context"
	"time"

	"github.com/mmdatafocus/storestock_backend/config"
	"github.com/mmdatafocus/storestock_backend/utils"
)

type Supplier struct {
	ID            int       `gorm:"primary_key" json:"id"`
	Name          string    `gorm:"index;size:100;not null" json:"name" binding:"required"`
	ContactPerson string    `gorm:"size:100" json:"contact_person"`
	Phone         string    `gorm:"size:20" json:"phone"`
	Email         *string   `gorm:"size:100" json:"email"`
	Address       string    `gorm:"size:255" json:"address"`
	IsActive      *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewSupplier struct {
	Name          string `json:"name" binding:"required"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	IsActive      *bool  `json:"is_active"`
}

func (input *NewSupplier) validate() error {
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return &utils.ValidationError{Field: "phone", Reason: "not a valid phone number"}
		}
	}
	if input.Email != "" && !utils.IsValidEmail(input.Email) {
		return &utils.ValidationError{Field: "email", Reason: "not a valid email address"}
	}
	return nil
}

func CreateSupplier(ctx context.Context, input *NewSupplier) (*Supplier, error) {

	if err := input.validate(); err != nil {
		return nil, err
	}

	supplier := Supplier{
		Name:          input.Name,
		ContactPerson: input.ContactPerson,
		Phone:         input.Phone,
		Address:       input.Address,
		IsActive:      utils.NewTrue(),
	}
	if input.Email != "" {
		supplier.Email = &input.Email
	}
	if input.IsActive != nil {
		supplier.IsActive = input.IsActive
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&supplier).Error; err != nil {
		return nil, err
	}

	return &supplier, nil
}

func UpdateSupplier(ctx context.Context, id int, input *NewSupplier) (*Supplier, error) {

	if err := input.validate(); err != nil {
		return nil, err
	}

	supplier, err := utils.FetchModel[Supplier](ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"Name":          input.Name,
		"ContactPerson": input.ContactPerson,
		"Phone":         input.Phone,
		"Address":       input.Address,
	}
	if input.Email != "" {
		updates["Email"] = input.Email
	}
	if input.IsActive != nil {
		updates["IsActive"] = *input.IsActive
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&supplier).Updates(updates).Error; err != nil {
		return nil, err
	}
	return supplier, nil
}

func DeleteSupplier(ctx context.Context, id int) (*Supplier, error) {

	result, err := utils.FetchModel[Supplier](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.Begin()

	// purchases belong to their supplier and go with it. Stock already
	// received through them stays in inventory.
	var purchaseIds []int
	err = tx.WithContext(ctx).Model(&Purchase{}).
		Where("supplier_id = ?", id).
		Select("id").Scan(&purchaseIds).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if len(purchaseIds) > 0 {
		err = tx.WithContext(ctx).Where("purchase_id IN ?", purchaseIds).
			Delete(&PurchaseItem{}).Error
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		err = tx.WithContext(ctx).Where("id IN ?", purchaseIds).
			Delete(&Purchase{}).Error
		if err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.WithContext(ctx).Delete(&result).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return result, nil
}

func GetSupplier(ctx context.Context, id int) (*Supplier, error) {
	return utils.FetchModel[Supplier](ctx, id)
}

func GetAllSuppliers(ctx context.Context) ([]*Supplier, error) {
	return utils.FetchAllModels[Supplier](ctx)
}
