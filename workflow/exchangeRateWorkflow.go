package workflow

import (
	"errors"
	"time"

	"github.com/experts-ly/money_backend/config"
	"github.com/experts-ly/money_backend/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var errNonPositiveRate = errors.New("exchange rate must be positive")

type exchangeRateAddedPayload struct {
	FromCode  string          `json:"from_code" validate:"required,len=3"`
	ToCode    string          `json:"to_code" validate:"required,len=3"`
	Rate      decimal.Decimal `json:"rate"`
	ValidFrom time.Time       `json:"valid_from" validate:"required"`
}

// Rates are append-only; corrections arrive as new rows with a later
// valid_from, never as edits.
func ProcessExchangeRateWorkflow(tx *gorm.DB, logger *logrus.Logger, msg config.PubSubMessage) error {
	switch models.EventType(msg.EventType) {
	case models.EventTypeExchangeRateAdded:
		payload, err := decodePayload[exchangeRateAddedPayload](msg.Payload)
		if err != nil {
			logDroppedEvent(logger, "ExchangeRateWorkflow.go", "ProcessExchangeRateWorkflow > Added", msg, err)
			return nil
		}
		if payload.Rate.Cmp(decimal.Zero) <= 0 {
			logDroppedEvent(logger, "ExchangeRateWorkflow.go", "ProcessExchangeRateWorkflow > Added", msg,
				errNonPositiveRate)
			return nil
		}
		rate := models.ExchangeRate{
			OwnerId:   msg.OwnerId,
			FromCode:  payload.FromCode,
			ToCode:    payload.ToCode,
			Rate:      payload.Rate,
			ValidFrom: payload.ValidFrom,
		}
		return tx.Create(&rate).Error
	}
	return nil
}
