package workflow

import (
	"errors"

	"github.com/experts-ly/money_backend/config"
	"github.com/experts-ly/money_backend/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type expenseTemplatePayload struct {
	Amount           *decimal.Decimal         `json:"amount"`
	CategoryId       *uuid.UUID               `json:"category_id"`
	CurrencyCode     string                   `json:"currency_code" validate:"required,len=3"`
	RecurrenceDay    *int                     `json:"recurrence_day" validate:"omitempty,min=1,max=31"`
	RecurrencePeriod *models.RecurrencePeriod `json:"recurrence_period" validate:"omitempty,oneof=Month Year"`
	Description      string                   `json:"description"`
	IsFixed          bool                     `json:"is_fixed"`
}

func ProcessExpenseTemplateWorkflow(tx *gorm.DB, logger *logrus.Logger, msg config.PubSubMessage) error {
	templateId, err := uuid.Parse(msg.AggregateId)
	if err != nil {
		logDroppedEvent(logger, "ExpenseTemplateWorkflow.go", "ProcessExpenseTemplateWorkflow", msg, err)
		return nil
	}

	switch models.EventType(msg.EventType) {
	case models.EventTypeExpenseTemplateCreated:
		payload, err := decodePayload[expenseTemplatePayload](msg.Payload)
		if err != nil {
			logDroppedEvent(logger, "ExpenseTemplateWorkflow.go", "ProcessExpenseTemplateWorkflow > Created", msg, err)
			return nil
		}
		template := models.ExpenseTemplate{
			ID:               templateId,
			OwnerId:          msg.OwnerId,
			Amount:           payload.Amount,
			CategoryId:       payload.CategoryId,
			CurrencyCode:     payload.CurrencyCode,
			RecurrenceDay:    payload.RecurrenceDay,
			RecurrencePeriod: payload.RecurrencePeriod,
			Description:      payload.Description,
			IsFixed:          payload.IsFixed,
		}
		if err := tx.Create(&template).Error; err != nil {
			if isDuplicateKeyErr(err) {
				logBenignMiss(logger, msg, "expense template already projected")
				return nil
			}
			return err
		}
		return nil

	case models.EventTypeExpenseTemplateChanged:
		payload, err := decodePayload[expenseTemplatePayload](msg.Payload)
		if err != nil {
			logDroppedEvent(logger, "ExpenseTemplateWorkflow.go", "ProcessExpenseTemplateWorkflow > Changed", msg, err)
			return nil
		}
		var template models.ExpenseTemplate
		err = tx.Where("id = ? AND owner_id = ?", templateId, msg.OwnerId).First(&template).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logBenignMiss(logger, msg, "expense template gone before change")
			return nil
		}
		if err != nil {
			return err
		}
		// Optional fields overwrite to NULL when absent; the event carries
		// the whole intended state, not a diff.
		return tx.Model(&template).Updates(map[string]interface{}{
			"amount":            payload.Amount,
			"category_id":       payload.CategoryId,
			"currency_code":     payload.CurrencyCode,
			"recurrence_day":    payload.RecurrenceDay,
			"recurrence_period": payload.RecurrencePeriod,
			"description":       payload.Description,
			"is_fixed":          payload.IsFixed,
		}).Error

	case models.EventTypeExpenseTemplateDeleted:
		return tx.Where("id = ? AND owner_id = ?", templateId, msg.OwnerId).
			Delete(&models.ExpenseTemplate{}).Error
	}
	return nil
}
