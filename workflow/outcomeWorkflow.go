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

type outcomeCreatedPayload struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currency_code" validate:"required,len=3"`
	Description  string          `json:"description"`
	OccurredAt   time.Time       `json:"occurred_at" validate:"required"`
	IsFixed      bool            `json:"is_fixed"`
	CategoryId   *uuid.UUID      `json:"category_id"`
}

type outcomeCategoryAddedPayload struct {
	CategoryId uuid.UUID `json:"category_id" validate:"required"`
}

type outcomeAmountChangedPayload struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currency_code" validate:"required,len=3"`
}

type outcomeDescriptionChangedPayload struct {
	Description string `json:"description"`
}

type outcomeWhenChangedPayload struct {
	OccurredAt time.Time `json:"occurred_at" validate:"required"`
}

func ProcessOutcomeWorkflow(tx *gorm.DB, logger *logrus.Logger, msg config.PubSubMessage) error {
	outcomeId, err := uuid.Parse(msg.AggregateId)
	if err != nil {
		logDroppedEvent(logger, "OutcomeWorkflow.go", "ProcessOutcomeWorkflow", msg, err)
		return nil
	}

	switch models.EventType(msg.EventType) {
	case models.EventTypeOutcomeCreated:
		payload, err := decodePayload[outcomeCreatedPayload](msg.Payload)
		if err != nil {
			logDroppedEvent(logger, "OutcomeWorkflow.go", "ProcessOutcomeWorkflow > Created", msg, err)
			return nil
		}
		outcome := models.Outcome{
			ID:           outcomeId,
			OwnerId:      msg.OwnerId,
			Amount:       payload.Amount,
			CurrencyCode: payload.CurrencyCode,
			Description:  payload.Description,
			OccurredAt:   payload.OccurredAt,
			IsFixed:      payload.IsFixed,
		}
		if err := tx.Create(&outcome).Error; err != nil {
			if isDuplicateKeyErr(err) {
				logBenignMiss(logger, msg, "outcome already projected")
				return nil
			}
			return err
		}
		if payload.CategoryId != nil {
			link := models.OutcomeCategory{
				OutcomeId:  outcomeId,
				CategoryId: *payload.CategoryId,
				OwnerId:    msg.OwnerId,
			}
			if err := tx.Create(&link).Error; err != nil && !isDuplicateKeyErr(err) {
				return err
			}
		}
		return nil

	case models.EventTypeOutcomeCategoryAdded:
		payload, err := decodePayload[outcomeCategoryAddedPayload](msg.Payload)
		if err != nil {
			logDroppedEvent(logger, "OutcomeWorkflow.go", "ProcessOutcomeWorkflow > CategoryAdded", msg, err)
			return nil
		}
		var outcome models.Outcome
		err = tx.Where("id = ? AND owner_id = ?", outcomeId, msg.OwnerId).First(&outcome).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logBenignMiss(logger, msg, "outcome gone before category link")
			return nil
		}
		if err != nil {
			return err
		}
		link := models.OutcomeCategory{
			OutcomeId:  outcomeId,
			CategoryId: payload.CategoryId,
			OwnerId:    msg.OwnerId,
		}
		// Composite PK makes redelivered links a no-op instead of a double count.
		if err := tx.Create(&link).Error; err != nil && !isDuplicateKeyErr(err) {
			return err
		}
		return nil

	case models.EventTypeOutcomeAmountChanged:
		payload, err := decodePayload[outcomeAmountChangedPayload](msg.Payload)
		if err != nil {
			logDroppedEvent(logger, "OutcomeWorkflow.go", "ProcessOutcomeWorkflow > AmountChanged", msg, err)
			return nil
		}
		return overwriteOutcomeFields(tx, logger, msg, outcomeId, map[string]interface{}{
			"amount":        payload.Amount,
			"currency_code": payload.CurrencyCode,
		})

	case models.EventTypeOutcomeDescriptionChanged:
		payload, err := decodePayload[outcomeDescriptionChangedPayload](msg.Payload)
		if err != nil {
			logDroppedEvent(logger, "OutcomeWorkflow.go", "ProcessOutcomeWorkflow > DescriptionChanged", msg, err)
			return nil
		}
		return overwriteOutcomeFields(tx, logger, msg, outcomeId, map[string]interface{}{
			"description": payload.Description,
		})

	case models.EventTypeOutcomeWhenChanged:
		payload, err := decodePayload[outcomeWhenChangedPayload](msg.Payload)
		if err != nil {
			logDroppedEvent(logger, "OutcomeWorkflow.go", "ProcessOutcomeWorkflow > WhenChanged", msg, err)
			return nil
		}
		return overwriteOutcomeFields(tx, logger, msg, outcomeId, map[string]interface{}{
			"occurred_at": payload.OccurredAt,
		})

	case models.EventTypeOutcomeDeleted:
		// Links first, then the row. Absent outcome is a no-op.
		if err := tx.Where("outcome_id = ? AND owner_id = ?", outcomeId, msg.OwnerId).
			Delete(&models.OutcomeCategory{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ? AND owner_id = ?", outcomeId, msg.OwnerId).
			Delete(&models.Outcome{}).Error
	}
	return nil
}

// overwriteOutcomeFields applies a last-write-wins field overwrite.
// Idempotent by construction; an absent row is a benign no-op.
func overwriteOutcomeFields(tx *gorm.DB, logger *logrus.Logger, msg config.PubSubMessage, outcomeId uuid.UUID, updates map[string]interface{}) error {
	var outcome models.Outcome
	err := tx.Where("id = ? AND owner_id = ?", outcomeId, msg.OwnerId).First(&outcome).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logBenignMiss(logger, msg, "outcome gone before field change")
		return nil
	}
	if err != nil {
		return err
	}
	return tx.Model(&outcome).Updates(updates).Error
}
