package workflow

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/experts-ly/money_backend/config"
	"github.com/experts-ly/money_backend/models"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Handler tests run against in-memory sqlite. TranslateError maps unique
// violations to gorm.ErrDuplicatedKey, the same branch the MySQL duplicate
// key (1062) takes in production.
func newHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.Category{}, &models.Currency{}, &models.ExchangeRate{},
		&models.Outcome{}, &models.OutcomeCategory{},
		&models.Income{}, &models.ExpenseTemplate{},
		&models.IdempotencyKey{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func eventMsg(t *testing.T, id int, owner string, eventType models.EventType, aggregateId string, payload any) config.PubSubMessage {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return config.PubSubMessage{
		ID:          id,
		OwnerId:     owner,
		EventType:   string(eventType),
		AggregateId: aggregateId,
		OccurredAt:  time.Now().UTC(),
		Payload:     raw,
	}
}

func TestOutcomeDeleted_AbsentOutcomeIsNoOp(t *testing.T) {
	db := newHandlerTestDB(t)

	msg := eventMsg(t, 1, "owner-1", models.EventTypeOutcomeDeleted, uuid.NewString(), map[string]any{})
	if err := ProcessOutcomeWorkflow(db, quietLogger(), msg); err != nil {
		t.Fatalf("deleting an absent outcome must be a no-op, got %v", err)
	}
}

func TestOutcomeAmountChanged_AbsentOutcomeIsNoOp(t *testing.T) {
	db := newHandlerTestDB(t)

	msg := eventMsg(t, 1, "owner-1", models.EventTypeOutcomeAmountChanged, uuid.NewString(), map[string]any{
		"amount": "10", "currency_code": "USD",
	})
	if err := ProcessOutcomeWorkflow(db, quietLogger(), msg); err != nil {
		t.Fatalf("changing an absent outcome must be a no-op, got %v", err)
	}

	var count int64
	db.Model(&models.Outcome{}).Count(&count)
	if count != 0 {
		t.Fatalf("no-op change must not create rows, found %d", count)
	}
}

func TestOutcomeCategoryAdded_AbsentOutcomeSkipsLink(t *testing.T) {
	db := newHandlerTestDB(t)

	msg := eventMsg(t, 1, "owner-1", models.EventTypeOutcomeCategoryAdded, uuid.NewString(), map[string]any{
		"category_id": uuid.New(),
	})
	if err := ProcessOutcomeWorkflow(db, quietLogger(), msg); err != nil {
		t.Fatalf("linking an absent outcome must be a benign drop, got %v", err)
	}

	var links int64
	db.Model(&models.OutcomeCategory{}).Count(&links)
	if links != 0 {
		t.Fatalf("expected no link rows, found %d", links)
	}
}

func TestOutcomeCategoryAdded_RedeliveryKeepsOneLink(t *testing.T) {
	db := newHandlerTestDB(t)
	logger := quietLogger()

	outcomeId := uuid.NewString()
	created := eventMsg(t, 1, "owner-1", models.EventTypeOutcomeCreated, outcomeId, map[string]any{
		"amount": "50", "currency_code": "USD", "occurred_at": "2023-06-10T00:00:00Z",
	})
	if err := ProcessOutcomeWorkflow(db, logger, created); err != nil {
		t.Fatalf("create outcome: %v", err)
	}

	link := eventMsg(t, 2, "owner-1", models.EventTypeOutcomeCategoryAdded, outcomeId, map[string]any{
		"category_id": uuid.New(),
	})
	for i := 0; i < 3; i++ {
		if err := ProcessOutcomeWorkflow(db, logger, link); err != nil {
			t.Fatalf("redelivery %d: %v", i, err)
		}
	}

	var links int64
	db.Model(&models.OutcomeCategory{}).Count(&links)
	if links != 1 {
		t.Fatalf("redelivered link must not multiply, found %d rows", links)
	}
}

func TestOutcomeAmountChanged_RedeliveryIsIdempotent(t *testing.T) {
	db := newHandlerTestDB(t)
	logger := quietLogger()

	outcomeId := uuid.NewString()
	created := eventMsg(t, 1, "owner-1", models.EventTypeOutcomeCreated, outcomeId, map[string]any{
		"amount": "50", "currency_code": "USD", "occurred_at": "2023-06-10T00:00:00Z",
	})
	if err := ProcessOutcomeWorkflow(db, logger, created); err != nil {
		t.Fatalf("create outcome: %v", err)
	}

	changed := eventMsg(t, 2, "owner-1", models.EventTypeOutcomeAmountChanged, outcomeId, map[string]any{
		"amount": "75.25", "currency_code": "EUR",
	})
	for i := 0; i < 2; i++ {
		if err := ProcessOutcomeWorkflow(db, logger, changed); err != nil {
			t.Fatalf("apply %d: %v", i, err)
		}
	}

	var outcome models.Outcome
	if err := db.Where("id = ?", outcomeId).First(&outcome).Error; err != nil {
		t.Fatalf("load outcome: %v", err)
	}
	if outcome.Amount.String() != "75.25" || outcome.CurrencyCode != "EUR" {
		t.Fatalf("expected 75.25 EUR after overwrite, got %s %s", outcome.Amount, outcome.CurrencyCode)
	}
}

func TestCategoryChanged_AbsentCategoryIsNoOp(t *testing.T) {
	db := newHandlerTestDB(t)

	msg := eventMsg(t, 1, "owner-1", models.EventTypeCategoryChanged, uuid.NewString(), map[string]any{
		"name": "Groceries",
	})
	if err := ProcessCategoryWorkflow(db, quietLogger(), msg); err != nil {
		t.Fatalf("changing an absent category must be a no-op, got %v", err)
	}
}

func TestCurrencyCreated_DuplicateKeepsDefault(t *testing.T) {
	db := newHandlerTestDB(t)
	logger := quietLogger()

	created := eventMsg(t, 1, "owner-1", models.EventTypeCurrencyCreated, "USD", map[string]any{
		"symbol": "$", "is_default": true,
	})
	if err := ProcessCurrencyWorkflow(db, logger, created); err != nil {
		t.Fatalf("create currency: %v", err)
	}

	// Redelivered create with a fresh envelope id: must bail on the
	// duplicate key without disturbing the default flag.
	redelivered := eventMsg(t, 2, "owner-1", models.EventTypeCurrencyCreated, "USD", map[string]any{
		"symbol": "$", "is_default": true,
	})
	if err := ProcessCurrencyWorkflow(db, logger, redelivered); err != nil {
		t.Fatalf("redelivered create: %v", err)
	}

	currency, err := models.GetDefaultCurrency(db, "owner-1")
	if err != nil {
		t.Fatalf("owner lost its default currency: %v", err)
	}
	if currency.Code != "USD" {
		t.Fatalf("expected USD default, got %s", currency.Code)
	}
}

func TestCurrencyDefaultSet_MovesTheSingleDefault(t *testing.T) {
	db := newHandlerTestDB(t)
	logger := quietLogger()

	for i, c := range []struct {
		code      string
		isDefault bool
	}{{"USD", true}, {"EUR", false}} {
		msg := eventMsg(t, i+1, "owner-1", models.EventTypeCurrencyCreated, c.code, map[string]any{
			"symbol": c.code, "is_default": c.isDefault,
		})
		if err := ProcessCurrencyWorkflow(db, logger, msg); err != nil {
			t.Fatalf("create %s: %v", c.code, err)
		}
	}

	setDefault := eventMsg(t, 3, "owner-1", models.EventTypeCurrencyDefaultSet, "EUR", map[string]any{})
	if err := ProcessCurrencyWorkflow(db, logger, setDefault); err != nil {
		t.Fatalf("default set: %v", err)
	}

	var defaults int64
	db.Model(&models.Currency{}).Where("owner_id = ? AND is_default = ?", "owner-1", true).Count(&defaults)
	if defaults != 1 {
		t.Fatalf("expected exactly one default, found %d", defaults)
	}
	currency, err := models.GetDefaultCurrency(db, "owner-1")
	if err != nil {
		t.Fatalf("default lookup: %v", err)
	}
	if currency.Code != "EUR" {
		t.Fatalf("expected EUR default after set, got %s", currency.Code)
	}
}

func TestIncomeDeleted_AbsentIncomeIsNoOp(t *testing.T) {
	db := newHandlerTestDB(t)

	msg := eventMsg(t, 1, "owner-1", models.EventTypeIncomeDeleted, uuid.NewString(), map[string]any{})
	if err := ProcessIncomeWorkflow(db, quietLogger(), msg); err != nil {
		t.Fatalf("deleting an absent income must be a no-op, got %v", err)
	}
}

func TestBeginIdempotency_SecondDeliverySkips(t *testing.T) {
	db := newHandlerTestDB(t)

	skip, err := BeginIdempotency(db, "owner-1", "OutcomeCreated", "41")
	if err != nil || skip {
		t.Fatalf("first delivery: skip=%v err=%v", skip, err)
	}
	if err := MarkIdempotencySucceeded(db, "owner-1", "OutcomeCreated", "41"); err != nil {
		t.Fatalf("mark succeeded: %v", err)
	}

	skip, err = BeginIdempotency(db, "owner-1", "OutcomeCreated", "41")
	if err != nil {
		t.Fatalf("second delivery: %v", err)
	}
	if !skip {
		t.Fatal("second delivery of a succeeded message must skip")
	}

	// A different message of the same kind still processes.
	skip, err = BeginIdempotency(db, "owner-1", "OutcomeCreated", "42")
	if err != nil || skip {
		t.Fatalf("distinct message: skip=%v err=%v", skip, err)
	}
}
