package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strconv"
	"sync"

	"cloud.google.com/go/pubsub"
	"github.com/experts-ly/money_backend/config"
	"github.com/experts-ly/money_backend/models"
	"github.com/experts-ly/money_backend/utils"
	"github.com/experts-ly/money_backend/workflow"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ownerMutexMap = make(map[string]*sync.Mutex)
	globalMutex   = &sync.Mutex{}
)

// RunProjectionWorkflow subscribes to the domain-event topic and projects
// each event into the read model. Delivery is at-least-once; dedup happens
// inside ProcessMessage, not here.
func RunProjectionWorkflow() error {
	logger := config.GetLogger()
	ctx := context.Background()
	client, err := config.GetClient(ctx)
	if err != nil {
		return err
	}
	topic, err := config.CreateTopicIfNotExists(client, os.Getenv("PUBSUB_TOPIC"))
	if err != nil {
		return err
	}
	sub, err := config.CreateSubscriptionIfNotExists(client, os.Getenv("PUBSUB_SUBSCRIPTION"), topic)
	if err != nil {
		return err
	}
	// Specify the number of concurrent processes
	sub.ReceiveSettings.MaxOutstandingMessages = 10

	callback := func(ctx context.Context, msg *pubsub.Message) {
		m := config.PubSubMessage{}
		err := json.Unmarshal(msg.Data, &m)
		if err != nil {
			config.LogError(logger, "ProjectionWorkflow.go", "RunProjectionWorkflow", "Unmarshaling pubsub message", msg.Data, err)
			// Malformed envelopes never become valid; ack so they stop redelivering.
			msg.Ack()
			return
		}

		// Get or create the mutex for the current OwnerId
		globalMutex.Lock()
		mutex, exists := ownerMutexMap[m.OwnerId]
		if !exists {
			mutex = &sync.Mutex{}
			ownerMutexMap[m.OwnerId] = mutex
		}
		globalMutex.Unlock()

		// Lock the specific owner mutex
		mutex.Lock()
		defer mutex.Unlock()

		ctx = utils.SetOwnerIdInContext(ctx, m.OwnerId)
		ctx = utils.SetCorrelationIdInContext(ctx, m.CorrelationId)
		if err := ProcessMessage(ctx, logger, m); err != nil {
			logger.WithFields(logrus.Fields{
				"field":        "ProjectionWorkflow",
				"owner_id":     m.OwnerId,
				"event_type":   m.EventType,
				"aggregate_id": m.AggregateId,
				"message_id":   msg.ID,
			}).Error("pubsub processing failed: " + err.Error())
			msg.Nack()
			return
		}
		msg.Ack()
	}

	go func() {
		err := sub.Receive(ctx, callback)

		if err != nil {
			config.LogError(logger, "ProjectionWorkflow.go", "RunProjectionWorkflow", "Failed to receive messages", nil, err)
		}
	}()

	return nil
}

// ProcessMessage applies one event transactionally: advisory lock per owner,
// dedup on (owner, event_type, message_id), then the projection itself.
// Returning an error tells the caller to Nack for redelivery.
func ProcessMessage(ctx context.Context, logger *logrus.Logger, m config.PubSubMessage) error {
	// Envelopes without a positive id or an owner must never reach dedup:
	// every id-less event would share the message id "0" and all but the
	// first would be skipped as duplicates. Drop them permanently instead.
	if m.ID <= 0 || m.OwnerId == "" {
		config.LogError(logger, "ProjectionWorkflow.go", "ProcessMessage", "dropping malformed envelope", m,
			errors.New("envelope requires a positive id and an owner_id"))
		return nil
	}

	db := config.GetDB()
	if db == nil {
		return errors.New("database not ready")
	}
	messageId := strconv.Itoa(m.ID)

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := workflow.AcquireOwnerProjectionLock(tx, m.OwnerId); err != nil {
			return err
		}
		defer workflow.ReleaseOwnerProjectionLock(tx, m.OwnerId)

		skip, err := workflow.BeginIdempotency(tx, m.OwnerId, m.EventType, messageId)
		if err != nil {
			return err
		}
		if skip {
			logger.WithFields(logrus.Fields{
				"owner_id":   m.OwnerId,
				"event_type": m.EventType,
				"message_id": messageId,
			}).Warn("duplicate event skipped")
			return nil
		}

		if err := ProcessProjection(tx, logger, m); err != nil {
			return err
		}
		return workflow.MarkIdempotencySucceeded(tx, m.OwnerId, m.EventType, messageId)
	})
	if err != nil {
		// The transaction rolled back, taking the STARTED row with it.
		// Record the failure outside the transaction so operators can see it.
		recordIdempotencyFailure(db.WithContext(ctx), m, messageId, err)
		return err
	}
	return nil
}

func recordIdempotencyFailure(db *gorm.DB, m config.PubSubMessage, messageId string, cause error) {
	_, beginErr := workflow.BeginIdempotency(db, m.OwnerId, m.EventType, messageId)
	if beginErr != nil {
		return
	}
	_ = workflow.MarkIdempotencyFailed(db, m.OwnerId, m.EventType, messageId, cause)
}

// ProcessProjection routes one event to its aggregate's workflow. Unknown
// event types are logged and acked so a newer publisher can't wedge the
// subscription.
func ProcessProjection(tx *gorm.DB, logger *logrus.Logger, m config.PubSubMessage) error {
	switch models.EventType(m.EventType) {
	case models.EventTypeCategoryCreated,
		models.EventTypeCategoryChanged,
		models.EventTypeCategoryDeleted:
		return workflow.ProcessCategoryWorkflow(tx, logger, m)

	case models.EventTypeCurrencyCreated,
		models.EventTypeCurrencyDefaultSet,
		models.EventTypeCurrencyDeleted:
		return workflow.ProcessCurrencyWorkflow(tx, logger, m)

	case models.EventTypeExchangeRateAdded:
		return workflow.ProcessExchangeRateWorkflow(tx, logger, m)

	case models.EventTypeOutcomeCreated,
		models.EventTypeOutcomeCategoryAdded,
		models.EventTypeOutcomeAmountChanged,
		models.EventTypeOutcomeDescriptionChanged,
		models.EventTypeOutcomeWhenChanged,
		models.EventTypeOutcomeDeleted:
		return workflow.ProcessOutcomeWorkflow(tx, logger, m)

	case models.EventTypeIncomeCreated,
		models.EventTypeIncomeChanged,
		models.EventTypeIncomeDeleted:
		return workflow.ProcessIncomeWorkflow(tx, logger, m)

	case models.EventTypeExpenseTemplateCreated,
		models.EventTypeExpenseTemplateChanged,
		models.EventTypeExpenseTemplateDeleted:
		return workflow.ProcessExpenseTemplateWorkflow(tx, logger, m)

	default:
		logger.WithFields(logrus.Fields{
			"owner_id":   m.OwnerId,
			"event_type": m.EventType,
			"message_id": m.ID,
		}).Warn("unknown event type skipped")
		return nil
	}
}
