package model

// ActionType identifies the kind of state change an action proposes.
type ActionType string

// Known action types.
const (
	ActionCategorizeTransaction ActionType = "categorize_transaction"
)

// InsightType identifies the kind of observation an insight reports.
type InsightType string

// Known insight types.
const (
	InsightCategorization InsightType = "categorization"
	InsightAnomaly        InsightType = "anomaly"
	InsightPattern        InsightType = "pattern"
	InsightError          InsightType = "error"
)

// DecisionSource names which signal produced a categorization decision.
type DecisionSource string

// Decision source constants, in precedence order.
const (
	SourceRule       DecisionSource = "rule"
	SourceExtraction DecisionSource = "extraction"
	SourceHeuristic  DecisionSource = "heuristic"
)

// Decision is a single resolved categorization: one category, one confidence,
// and the reasoning that makes it auditable.
type Decision struct {
	Category     string         `json:"category"`
	Reasoning    string         `json:"reasoning"`
	Source       DecisionSource `json:"source"`
	Confidence   float64        `json:"confidence"`
	Disagreement bool           `json:"disagreement,omitempty"`
}

// AgentAction is a proposed, possibly approval-gated change to the ledger.
type AgentAction struct {
	Data             map[string]any `json:"data"`
	Type             ActionType     `json:"type"`
	Reason           string         `json:"reason"`
	TargetID         int64          `json:"target_id"`
	Confidence       float64        `json:"confidence"`
	RequiresApproval bool           `json:"requires_approval"`
}

// AgentInsight is an informational, never-gated observation about an event.
type AgentInsight struct {
	Data        map[string]any `json:"data,omitempty"`
	Type        InsightType    `json:"type"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Confidence  float64        `json:"confidence"`
}

// ResponseStatus is the overall outcome of processing one event.
type ResponseStatus string

// Response status constants.
const (
	StatusSuccess ResponseStatus = "success"
	StatusError   ResponseStatus = "error"
)

// AgentResponse is the engine's reply to one event. It is constructed exactly
// once per request and never mutated after assembly.
type AgentResponse struct {
	Status           ResponseStatus `json:"status"`
	RequestID        string         `json:"request_id,omitempty"`
	Actions          []AgentAction  `json:"actions"`
	Insights         []AgentInsight `json:"insights"`
	ProcessingTimeMs int64          `json:"processing_time_ms"`
}
