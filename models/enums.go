package models

// EventType identifies one domain event kind on the envelope.
type EventType string

const (
	EventTypeCategoryCreated EventType = "CategoryCreated"
	EventTypeCategoryChanged EventType = "CategoryChanged"
	EventTypeCategoryDeleted EventType = "CategoryDeleted"

	EventTypeCurrencyCreated    EventType = "CurrencyCreated"
	EventTypeCurrencyDefaultSet EventType = "CurrencyDefaultSet"
	EventTypeCurrencyDeleted    EventType = "CurrencyDeleted"

	EventTypeExchangeRateAdded EventType = "ExchangeRateAdded"

	EventTypeOutcomeCreated            EventType = "OutcomeCreated"
	EventTypeOutcomeCategoryAdded      EventType = "OutcomeCategoryAdded"
	EventTypeOutcomeAmountChanged      EventType = "OutcomeAmountChanged"
	EventTypeOutcomeDescriptionChanged EventType = "OutcomeDescriptionChanged"
	EventTypeOutcomeWhenChanged        EventType = "OutcomeWhenChanged"
	EventTypeOutcomeDeleted            EventType = "OutcomeDeleted"

	EventTypeIncomeCreated EventType = "IncomeCreated"
	EventTypeIncomeChanged EventType = "IncomeChanged"
	EventTypeIncomeDeleted EventType = "IncomeDeleted"

	EventTypeExpenseTemplateCreated EventType = "ExpenseTemplateCreated"
	EventTypeExpenseTemplateChanged EventType = "ExpenseTemplateChanged"
	EventTypeExpenseTemplateDeleted EventType = "ExpenseTemplateDeleted"
)

// RecurrencePeriod is an expense template's repetition interval.
type RecurrencePeriod string

const (
	RecurrencePeriodMonth RecurrencePeriod = "Month"
	RecurrencePeriodYear  RecurrencePeriod = "Year"
)
