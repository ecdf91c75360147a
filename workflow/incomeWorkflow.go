package workflow

import (
	"errors"
	"time"

	"github.com/experts-ly/money_backend/config"
	"github.com/experts-ly/money_backend/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type incomeCreatedPayload struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currency_code" validate:"required,len=3"`
	Description  string          `json:"description"`
	OccurredAt   time.Time       `json:"occurred_at" validate:"required"`
}

type incomeChangedPayload struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currency_code" validate:"required,len=3"`
	Description  string          `json:"description"`
	OccurredAt   time.Time       `json:"occurred_at" validate:"required"`
}

func ProcessIncomeWorkflow(tx *gorm.DB, logger *logrus.Logger, msg config.PubSubMessage) error {
	incomeId, err := uuid.Parse(msg.AggregateId)
	if err != nil {
		logDroppedEvent(logger, "IncomeWorkflow.go", "ProcessIncomeWorkflow", msg, err)
		return nil
	}

	switch models.EventType(msg.EventType) {
	case models.EventTypeIncomeCreated:
		payload, err := decodePayload[incomeCreatedPayload](msg.Payload)
		if err != nil {
			logDroppedEvent(logger, "IncomeWorkflow.go", "ProcessIncomeWorkflow > Created", msg, err)
			return nil
		}
		income := models.Income{
			ID:           incomeId,
			OwnerId:      msg.OwnerId,
			Amount:       payload.Amount,
			CurrencyCode: payload.CurrencyCode,
			Description:  payload.Description,
			OccurredAt:   payload.OccurredAt,
		}
		if err := tx.Create(&income).Error; err != nil {
			if isDuplicateKeyErr(err) {
				logBenignMiss(logger, msg, "income already projected")
				return nil
			}
			return err
		}
		return nil

	case models.EventTypeIncomeChanged:
		payload, err := decodePayload[incomeChangedPayload](msg.Payload)
		if err != nil {
			logDroppedEvent(logger, "IncomeWorkflow.go", "ProcessIncomeWorkflow > Changed", msg, err)
			return nil
		}
		var income models.Income
		err = tx.Where("id = ? AND owner_id = ?", incomeId, msg.OwnerId).First(&income).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logBenignMiss(logger, msg, "income gone before change")
			return nil
		}
		if err != nil {
			return err
		}
		return tx.Model(&income).Updates(map[string]interface{}{
			"amount":        payload.Amount,
			"currency_code": payload.CurrencyCode,
			"description":   payload.Description,
			"occurred_at":   payload.OccurredAt,
		}).Error

	case models.EventTypeIncomeDeleted:
		return tx.Where("id = ? AND owner_id = ?", incomeId, msg.OwnerId).
			Delete(&models.Income{}).Error
	}
	return nil
}
