package workflow

import (
	"errors"

	"github.com/experts-ly/money_backend/config"
	"github.com/experts-ly/money_backend/models"
	"github.com/experts-ly/money_backend/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type rgbaPayload struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

type categoryCreatedPayload struct {
	Name        string      `json:"name" validate:"required"`
	Description string      `json:"description"`
	Icon        string      `json:"icon"`
	Color       rgbaPayload `json:"color"`
}

type categoryChangedPayload struct {
	Name        string      `json:"name" validate:"required"`
	Description string      `json:"description"`
	Icon        string      `json:"icon"`
	Color       rgbaPayload `json:"color"`
}

func ProcessCategoryWorkflow(tx *gorm.DB, logger *logrus.Logger, msg config.PubSubMessage) error {
	categoryId, err := uuid.Parse(msg.AggregateId)
	if err != nil {
		logDroppedEvent(logger, "CategoryWorkflow.go", "ProcessCategoryWorkflow", msg, err)
		return nil
	}

	switch models.EventType(msg.EventType) {
	case models.EventTypeCategoryCreated:
		payload, err := decodePayload[categoryCreatedPayload](msg.Payload)
		if err != nil {
			logDroppedEvent(logger, "CategoryWorkflow.go", "ProcessCategoryWorkflow > Created", msg, err)
			return nil
		}
		category := models.Category{
			ID:          categoryId,
			OwnerId:     msg.OwnerId,
			Name:        payload.Name,
			Description: payload.Description,
			Icon:        payload.Icon,
			ColorR:      payload.Color.R,
			ColorG:      payload.Color.G,
			ColorB:      payload.Color.B,
			ColorA:      payload.Color.A,
		}
		if err := tx.Create(&category).Error; err != nil {
			if isDuplicateKeyErr(err) {
				logBenignMiss(logger, msg, "category already projected")
				return nil
			}
			return err
		}
		return nil

	case models.EventTypeCategoryChanged:
		payload, err := decodePayload[categoryChangedPayload](msg.Payload)
		if err != nil {
			logDroppedEvent(logger, "CategoryWorkflow.go", "ProcessCategoryWorkflow > Changed", msg, err)
			return nil
		}
		var category models.Category
		err = tx.Where("id = ? AND owner_id = ?", categoryId, msg.OwnerId).First(&category).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logBenignMiss(logger, msg, "category gone before change")
			return nil
		}
		if err != nil {
			return err
		}
		err = tx.Model(&category).Updates(map[string]interface{}{
			"name":        payload.Name,
			"description": payload.Description,
			"icon":        payload.Icon,
			"color_r":     payload.Color.R,
			"color_g":     payload.Color.G,
			"color_b":     payload.Color.B,
			"color_a":     payload.Color.A,
		}).Error
		if err != nil {
			return err
		}
		_ = utils.RemoveRedisItem[models.Category](categoryId.String())
		return nil

	case models.EventTypeCategoryDeleted:
		// Soft delete; historical outcomes keep referencing the row.
		err := tx.Model(&models.Category{}).
			Where("id = ? AND owner_id = ?", categoryId, msg.OwnerId).
			Update("is_deleted", true).Error
		if err != nil {
			return err
		}
		_ = utils.RemoveRedisItem[models.Category](categoryId.String())
		return nil
	}
	return nil
}
