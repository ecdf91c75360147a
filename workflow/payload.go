package workflow

import (
	"encoding/json"

	"github.com/experts-ly/money_backend/config"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

var validate = validator.New()

// decodePayload unmarshals and validates one event payload. A payload that
// fails here will fail on every redelivery, so callers drop it permanently.
func decodePayload[T any](raw json.RawMessage) (*T, error) {
	var payload T
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	if err := validate.Struct(&payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// logBenignMiss records an event that targeted an absent aggregate. The
// aggregate's deletion may have outrun a stale event; treated as a no-op.
func logBenignMiss(logger *logrus.Logger, msg config.PubSubMessage, detail string) {
	if logger == nil {
		return
	}
	logger.WithFields(logrus.Fields{
		"owner_id":     msg.OwnerId,
		"event_type":   msg.EventType,
		"aggregate_id": msg.AggregateId,
		"message_id":   msg.ID,
	}).Warn(detail)
}

// logDroppedEvent records a permanently undecodable event before acking it.
func logDroppedEvent(logger *logrus.Logger, moduleName string, funcName string, msg config.PubSubMessage, err error) {
	config.LogError(logger, moduleName, funcName, "dropping undecodable event", msg.Payload, err)
}
