// Package engine implements the transaction decision engine: it turns one
// financial event into a bounded set of proposed actions and informational
// insights, each confidence-scored and approval-gated.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/txintel/txintel/internal/common"
	"github.com/txintel/txintel/internal/extract"
	"github.com/txintel/txintel/internal/heuristic"
	"github.com/txintel/txintel/internal/model"
)

// Config holds the engine's per-request tunables. Engines are cheap to
// construct, so callers that need different settings per request build a
// fresh engine rather than mutating a shared one.
type Config struct {
	KeywordTable       []heuristic.Entry
	AutoApplyThreshold float64
	ExtractionPasses   int
	ExtractionBuffer   int
	ExtractionTimeout  time.Duration
	AnomalyMultiplier  float64
	AnomalyDetection   bool
	PatternInsights    bool
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		AutoApplyThreshold: 0.85,
		ExtractionPasses:   extract.DefaultPasses,
		ExtractionBuffer:   extract.DefaultMaxCharBuffer,
		ExtractionTimeout:  extract.DefaultTimeout,
		AnomalyMultiplier:  3.0,
		AnomalyDetection:   true,
		PatternInsights:    true,
	}
}

// Engine processes events. It holds no mutable state between requests and is
// safe for unbounded concurrent use; the only blocking collaborator is the
// extractor.
type Engine struct {
	extractor extract.Extractor
	logger    *slog.Logger
	heuristic *heuristic.Categorizer
	resolver  *resolver
	insights  *insightGenerator
	cfg       Config
}

// New creates an engine. The extractor may be nil, in which case the
// extraction signal is simply never available and the engine degrades to
// rules plus the heuristic floor.
func New(extractor extract.Extractor, cfg Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.AutoApplyThreshold <= 0 {
		cfg.AutoApplyThreshold = 0.85
	}
	if cfg.AnomalyMultiplier <= 0 {
		cfg.AnomalyMultiplier = 3.0
	}

	categorizer := heuristic.NewCategorizer(cfg.KeywordTable)

	return &Engine{
		extractor: extractor,
		logger:    logger,
		heuristic: categorizer,
		resolver:  newResolver(extractor, categorizer, cfg, logger),
		insights:  newInsightGenerator(cfg, logger),
		cfg:       cfg,
	}
}

// ProcessEvent runs one event through the decision pipeline and assembles
// the response. Recoverable extraction failures degrade to the heuristic
// floor; validation failures and unknown event types fail the request with
// an error response; cancellation aborts without a partial response.
func (e *Engine) ProcessEvent(ctx context.Context, event model.EventData) (model.AgentResponse, error) {
	start := time.Now()
	requestID := uuid.NewString()

	logger := e.logger.With("request_id", requestID, "event_type", event.EventType, "source", event.Source)
	logger.Info("processing event")

	eventType, ok := model.ParseEventType(event.EventType)
	if !ok {
		err := fmt.Errorf("%w: %q", common.ErrUnsupportedEventType, event.EventType)
		logger.Warn("rejecting event", "error", err)
		return assembleError(start, requestID, err), err
	}

	path, err := route(eventType, event)
	if err != nil {
		logger.Warn("rejecting event", "error", err)
		return assembleError(start, requestID, err), err
	}

	// Event-based insights run concurrently with the categorization path;
	// both consume the same immutable event and never communicate.
	insightCh := make(chan []model.AgentInsight, 1)
	go func() {
		insightCh <- e.insights.EventInsights(event)
	}()

	var actions []model.AgentAction
	var decisionInsights []model.AgentInsight

	switch path {
	case pathCategorization:
		actions, decisionInsights, err = e.processTransaction(ctx, event, logger)
	case pathExtraction:
		actions, decisionInsights, err = e.processDocument(ctx, event, logger)
	}

	eventInsights := <-insightCh

	if err != nil {
		if ctx.Err() != nil {
			// Cancelled requests never return a partial response.
			return model.AgentResponse{}, ctx.Err()
		}
		logger.Error("categorization path failed", "error", err)
		return assembleError(start, requestID, err), err
	}

	insights := append(eventInsights, decisionInsights...)

	response := assemble(start, requestID, actions, insights)
	logger.Info("event processed",
		"actions", len(response.Actions),
		"insights", len(response.Insights),
		"processing_time_ms", response.ProcessingTimeMs)

	return response, nil
}

// Categorize exposes the heuristic categorizer alone, as a lighter-weight
// callback for the document pipeline. It is pure and never fails.
func (e *Engine) Categorize(text string) model.Decision {
	return e.heuristic.Categorize(text)
}

// processTransaction handles the categorization path for events carrying a
// transaction record.
func (e *Engine) processTransaction(ctx context.Context, event model.EventData, logger *slog.Logger) ([]model.AgentAction, []model.AgentInsight, error) {
	txn := *event.Transaction

	userCtx := model.UserContext{}
	if event.UserContext != nil {
		userCtx = *event.UserContext
	}

	resolution, err := e.resolver.Resolve(ctx, txn, userCtx, event.DocumentText())
	if err != nil {
		return nil, nil, err
	}

	action := gate(resolution.Decision, txn.ID, userCtx, e.cfg)

	insights := []model.AgentInsight{e.insights.DecisionInsight(resolution.Decision)}
	insights = append(insights, resolution.Insights...)

	logger.Info("transaction categorized",
		"transaction_id", txn.ID,
		"category", resolution.Decision.Category,
		"confidence", resolution.Decision.Confidence,
		"decision_source", resolution.Decision.Source,
		"requires_approval", action.RequiresApproval)

	return []model.AgentAction{action}, insights, nil
}
