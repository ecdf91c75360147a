package workflow

import (
	"errors"

	"github.com/experts-ly/money_backend/config"
	"github.com/experts-ly/money_backend/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type currencyCreatedPayload struct {
	Symbol    string `json:"symbol"`
	IsDefault bool   `json:"is_default"`
}

// The currency aggregate id on the envelope is the ISO code itself;
// (owner, code) is the natural key.
func ProcessCurrencyWorkflow(tx *gorm.DB, logger *logrus.Logger, msg config.PubSubMessage) error {
	code := msg.AggregateId
	if len(code) != 3 {
		logDroppedEvent(logger, "CurrencyWorkflow.go", "ProcessCurrencyWorkflow", msg, errors.New("currency code must be 3 letters"))
		return nil
	}

	switch models.EventType(msg.EventType) {
	case models.EventTypeCurrencyCreated:
		payload, err := decodePayload[currencyCreatedPayload](msg.Payload)
		if err != nil {
			logDroppedEvent(logger, "CurrencyWorkflow.go", "ProcessCurrencyWorkflow > Created", msg, err)
			return nil
		}
		currency := models.Currency{
			OwnerId:   msg.OwnerId,
			Code:      code,
			Symbol:    payload.Symbol,
			IsDefault: payload.IsDefault,
		}
		// Insert before clearing the previous default: a redelivered create
		// bails out on the duplicate key without touching the existing flags.
		if err := tx.Create(&currency).Error; err != nil {
			if isDuplicateKeyErr(err) {
				logBenignMiss(logger, msg, "currency already projected")
				return nil
			}
			return err
		}
		if payload.IsDefault {
			return clearOtherDefaultCurrencies(tx, msg.OwnerId, code)
		}
		return nil

	case models.EventTypeCurrencyDefaultSet:
		var currency models.Currency
		err := tx.Where("owner_id = ? AND code = ?", msg.OwnerId, code).First(&currency).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logBenignMiss(logger, msg, "currency gone before default set")
			return nil
		}
		if err != nil {
			return err
		}
		// Clearing and setting in the same transaction keeps the
		// one-default-per-owner invariant.
		if err := clearOtherDefaultCurrencies(tx, msg.OwnerId, code); err != nil {
			return err
		}
		return tx.Model(&currency).Update("is_default", true).Error

	case models.EventTypeCurrencyDeleted:
		return tx.Model(&models.Currency{}).
			Where("owner_id = ? AND code = ?", msg.OwnerId, code).
			Update("is_deleted", true).Error
	}
	return nil
}

func clearOtherDefaultCurrencies(tx *gorm.DB, ownerId string, exceptCode string) error {
	return tx.Model(&models.Currency{}).
		Where("owner_id = ? AND is_default = ? AND code <> ?", ownerId, true, exceptCode).
		Update("is_default", false).Error
}
