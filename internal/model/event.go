package model

import (
	"time"
)

// EventType identifies the kind of event submitted to the engine.
// The set is closed: inbound strings are mapped through ParseEventType so the
// router can switch exhaustively over known kinds.
type EventType string

// Known event types.
const (
	EventTransactionCreated EventType = "transaction_created"
	EventManualAnalysis     EventType = "manual_analysis"
	EventDocumentImported   EventType = "document_imported"
)

// Event source labels.
const (
	SourceWebhook   = "webhook"
	SourceManualAPI = "manual_api"
	SourceTest      = "test"
)

// ParseEventType maps an inbound event-type string to a known EventType.
// Unknown values return false; the caller decides how to fail.
func ParseEventType(s string) (EventType, bool) {
	switch EventType(s) {
	case EventTransactionCreated, EventManualAnalysis, EventDocumentImported:
		return EventType(s), true
	}
	return "", false
}

// RuleActionType is the action a matching rule asks for.
type RuleActionType string

// Rule action constants.
const (
	RuleActionCategorize RuleActionType = "categorize"
)

// Rule is a user-authored pattern rule. The pattern is matched as a
// case-insensitive substring of the transaction description.
type Rule struct {
	Pattern  string         `json:"pattern"`
	Action   RuleActionType `json:"action"`
	Category string         `json:"category"`
	ID       int64          `json:"id"`
}

// UserContext carries everything the engine needs to know about the
// requesting user. It is supplied fresh per request and never mutated.
type UserContext struct {
	Preferences map[string]bool `json:"preferences,omitempty"`
	Categories  []string        `json:"categories,omitempty"`
	Rules       []Rule          `json:"rules,omitempty"`
	UserID      int64           `json:"user_id"`
}

// AutoCategorize reports whether the user has opted into automatic
// categorization. Defaults to true when the preference is absent.
func (u UserContext) AutoCategorize() bool {
	v, ok := u.Preferences["auto_categorize"]
	if !ok {
		return true
	}
	return v
}

// EventData is the unit of work submitted to the engine.
type EventData struct {
	Timestamp   time.Time        `json:"timestamp"`
	EventType   string           `json:"event_type"`
	Source      string           `json:"source,omitempty"`
	Payload     map[string]any   `json:"event_data,omitempty"`
	Transaction *TransactionData `json:"transaction,omitempty"`
	UserContext *UserContext     `json:"user_context,omitempty"`
}

// DocumentText returns the raw document text carried in the event payload,
// if any. Document-style events have no transaction record and are processed
// through the extraction path instead.
func (e EventData) DocumentText() string {
	if e.Payload == nil {
		return ""
	}
	if s, ok := e.Payload["document_text"].(string); ok {
		return s
	}
	return ""
}

// HasTransaction reports whether the event carries a usable transaction.
func (e EventData) HasTransaction() bool {
	return e.Transaction != nil && !e.Transaction.IsZero()
}
