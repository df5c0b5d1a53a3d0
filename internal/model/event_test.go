package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEventType(t *testing.T) {
	tests := []struct {
		input string
		want  EventType
		ok    bool
	}{
		{input: "transaction_created", want: EventTransactionCreated, ok: true},
		{input: "manual_analysis", want: EventManualAnalysis, ok: true},
		{input: "document_imported", want: EventDocumentImported, ok: true},
		{input: "transaction_deleted", ok: false},
		{input: "", ok: false},
		{input: "Transaction_Created", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseEventType(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUserContext_AutoCategorize(t *testing.T) {
	assert.True(t, UserContext{}.AutoCategorize())
	assert.True(t, UserContext{Preferences: map[string]bool{"auto_categorize": true}}.AutoCategorize())
	assert.False(t, UserContext{Preferences: map[string]bool{"auto_categorize": false}}.AutoCategorize())
	assert.True(t, UserContext{Preferences: map[string]bool{"other": false}}.AutoCategorize())
}

func TestEventData_DocumentText(t *testing.T) {
	assert.Empty(t, EventData{}.DocumentText())
	assert.Empty(t, EventData{Payload: map[string]any{"document_text": 42}}.DocumentText())
	assert.Equal(t, "RECEIPT", EventData{Payload: map[string]any{"document_text": "RECEIPT"}}.DocumentText())
}

func TestEventData_HasTransaction(t *testing.T) {
	assert.False(t, EventData{}.HasTransaction())
	assert.False(t, EventData{Transaction: &TransactionData{}}.HasTransaction())
	assert.True(t, EventData{Transaction: &TransactionData{Description: "STORE"}}.HasTransaction())
}

func TestEventData_UnmarshalJSON(t *testing.T) {
	raw := `{
		"event_type": "transaction_created",
		"source": "webhook",
		"event_data": {"document_text": "RECEIPT"},
		"transaction": {"id": 9, "description": "COFFEE", "amount": "-4.50"},
		"user_context": {
			"user_id": 3,
			"rules": [{"id": 1, "pattern": "coffee", "category": "Dining"}]
		}
	}`

	var event EventData
	require.NoError(t, json.Unmarshal([]byte(raw), &event))

	assert.Equal(t, "transaction_created", event.EventType)
	assert.Equal(t, SourceWebhook, event.Source)
	assert.Equal(t, "RECEIPT", event.DocumentText())
	require.True(t, event.HasTransaction())
	assert.Equal(t, "-4.5", event.Transaction.Amount.String())
	require.NotNil(t, event.UserContext)
	require.Len(t, event.UserContext.Rules, 1)
	assert.Equal(t, "Dining", event.UserContext.Rules[0].Category)
}
