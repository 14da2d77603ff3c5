package models

import (
	"log"

	"github.com/mmdatafocus/storestock_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&User{},
		&Category{}, &Product{},
		&Supplier{},
		&Purchase{}, &PurchaseItem{},
		&Sale{}, &SaleItem{},
		&Expense{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
