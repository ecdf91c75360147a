package models

import (
	"log"

	"github.com/experts-ly/money_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Category{}, &Currency{}, &ExchangeRate{},
		&Outcome{}, &OutcomeCategory{},
		&Income{}, &ExpenseTemplate{},
		&IdempotencyKey{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
