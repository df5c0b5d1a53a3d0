package engine

import (
	"time"

	"github.com/txintel/txintel/internal/model"
)

// assemble builds the success response. Responses are constructed exactly
// once and never mutated afterward.
func assemble(start time.Time, requestID string, actions []model.AgentAction, insights []model.AgentInsight) model.AgentResponse {
	if actions == nil {
		actions = []model.AgentAction{}
	}
	if insights == nil {
		insights = []model.AgentInsight{}
	}
	return model.AgentResponse{
		Status:           model.StatusSuccess,
		RequestID:        requestID,
		Actions:          actions,
		Insights:         insights,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}
}

// assembleError builds the error response: no actions, a single insight
// describing the failure. Callers still receive a well-formed response
// rather than a transport-level failure.
func assembleError(start time.Time, requestID string, err error) model.AgentResponse {
	return model.AgentResponse{
		Status:    model.StatusError,
		RequestID: requestID,
		Actions:   []model.AgentAction{},
		Insights: []model.AgentInsight{
			{
				Type:        model.InsightError,
				Title:       "Event processing failed",
				Description: err.Error(),
				Confidence:  1.0,
				Data:        map[string]any{"error": err.Error()},
			},
		},
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}
}
