package main

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/experts-ly/money_backend/config"
	"github.com/sirupsen/logrus"
)

// Malformed envelopes must be dropped (nil = ack) before they reach the
// idempotency table: an envelope without an id would dedup under message id
// "0" and silently swallow every later id-less event of the same kind.
func TestProcessMessage_DropsMalformedEnvelopes(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	cases := []struct {
		name string
		msg  config.PubSubMessage
	}{
		{"missing id", config.PubSubMessage{OwnerId: "owner-1", EventType: "OutcomeCreated", Payload: json.RawMessage(`{}`)}},
		{"negative id", config.PubSubMessage{ID: -4, OwnerId: "owner-1", EventType: "OutcomeCreated"}},
		{"missing owner", config.PubSubMessage{ID: 7, EventType: "OutcomeCreated"}},
	}
	for _, tc := range cases {
		if err := ProcessMessage(context.Background(), logger, tc.msg); err != nil {
			t.Fatalf("%s: expected nil (permanent drop), got %v", tc.name, err)
		}
	}
}

func TestProcessMessage_ValidEnvelopeNeedsDatabase(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	msg := config.PubSubMessage{ID: 1, OwnerId: "owner-1", EventType: "OutcomeCreated"}
	// No database connected in unit tests; a well-formed envelope must be
	// retried (error), never dropped.
	if err := ProcessMessage(context.Background(), logger, msg); err == nil {
		t.Fatal("expected error without a database, got nil")
	}
}
