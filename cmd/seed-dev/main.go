// Command seed-dev publishes a small, deterministic event stream so a local
// read model has something to project. Run against an emulator or a dev
// project; it creates the topic if needed.
//
// Usage:
//
//	PUBSUB_PROJECT_ID=dev PUBSUB_TOPIC=domain-events go run ./cmd/seed-dev -owner demo-owner
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/experts-ly/money_backend/config"
	"github.com/experts-ly/money_backend/models"
	"github.com/experts-ly/money_backend/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// amount parses human-formatted seed values ("1,200.00") into decimals.
func amount(value string) decimal.Decimal {
	d, err := utils.DecimalFromString(value)
	if err != nil {
		log.Fatalf("bad seed amount %q: %v", value, err)
	}
	return d
}

func main() {
	owner := flag.String("owner", "demo-owner", "owner id to seed")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, err := config.GetClient(ctx)
	if err != nil {
		log.Fatalf("pubsub client: %v", err)
	}
	if _, err := config.CreateTopicIfNotExists(client, os.Getenv("PUBSUB_TOPIC")); err != nil {
		log.Fatalf("create topic: %v", err)
	}

	groceriesId := uuid.New()
	rentId := uuid.New()
	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	seq := 0
	publish := func(eventType models.EventType, aggregateId string, payload any) {
		seq++
		raw, err := json.Marshal(payload)
		if err != nil {
			log.Fatalf("marshal %s: %v", eventType, err)
		}
		msg := config.PubSubMessage{
			ID:            seq,
			OwnerId:       *owner,
			EventType:     string(eventType),
			AggregateId:   aggregateId,
			OccurredAt:    now,
			Payload:       raw,
			CorrelationId: "seed-dev",
		}
		id, err := config.PublishDomainEvent(ctx, msg)
		if err != nil {
			log.Fatalf("publish %s: %v", eventType, err)
		}
		fmt.Printf("published %-28s aggregate=%s message=%s\n", eventType, aggregateId, id)
	}

	publish(models.EventTypeCurrencyCreated, "USD", map[string]any{
		"symbol": "$", "is_default": true,
	})
	publish(models.EventTypeCurrencyCreated, "EUR", map[string]any{
		"symbol": "€", "is_default": false,
	})
	publish(models.EventTypeExchangeRateAdded, uuid.NewString(), map[string]any{
		"from_code": "EUR", "to_code": "USD", "rate": amount("1.10"),
		"valid_from": monthStart.AddDate(0, -6, 0),
	})
	publish(models.EventTypeExchangeRateAdded, uuid.NewString(), map[string]any{
		"from_code": "EUR", "to_code": "USD", "rate": amount("1.20"),
		"valid_from": monthStart,
	})

	publish(models.EventTypeCategoryCreated, groceriesId.String(), map[string]any{
		"name": "Groceries", "description": "food and household", "icon": "cart",
		"color": map[string]any{"r": 76, "g": 175, "b": 80, "a": 255},
	})
	publish(models.EventTypeCategoryCreated, rentId.String(), map[string]any{
		"name": "Rent", "icon": "home",
		"color": map[string]any{"r": 33, "g": 150, "b": 243, "a": 255},
	})

	publish(models.EventTypeOutcomeCreated, uuid.NewString(), map[string]any{
		"amount": amount("84.50"), "currency_code": "USD", "description": "weekly groceries",
		"occurred_at": monthStart.AddDate(0, 0, 3), "category_id": groceriesId,
	})
	publish(models.EventTypeOutcomeCreated, uuid.NewString(), map[string]any{
		"amount": amount("1,200.00"), "currency_code": "USD", "description": "rent", "is_fixed": true,
		"occurred_at": monthStart.AddDate(0, 0, 1), "category_id": rentId,
	})
	publish(models.EventTypeOutcomeCreated, uuid.NewString(), map[string]any{
		"amount": amount("39.90"), "currency_code": "EUR", "description": "train tickets",
		"occurred_at": monthStart.AddDate(0, 0, 10),
	})
	publish(models.EventTypeIncomeCreated, uuid.NewString(), map[string]any{
		"amount": amount("4,200.00"), "currency_code": "USD", "description": "salary",
		"occurred_at": monthStart.AddDate(0, 0, 1),
	})
	publish(models.EventTypeExpenseTemplateCreated, uuid.NewString(), map[string]any{
		"amount": amount("1,200.00"), "category_id": rentId, "currency_code": "USD",
		"recurrence_day": 1, "recurrence_period": "Month",
		"description": "monthly rent", "is_fixed": true,
	})

	fmt.Printf("seeded %d events for owner %s\n", seq, *owner)
}
