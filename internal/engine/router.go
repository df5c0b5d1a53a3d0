package engine

import (
	"fmt"
	"strings"

	"github.com/txintel/txintel/internal/common"
	"github.com/txintel/txintel/internal/model"
)

// processingPath selects which pipeline an event flows through.
type processingPath int

const (
	// pathCategorization runs rules, heuristics, and optional extraction
	// enrichment over the event's transaction record.
	pathCategorization processingPath = iota
	// pathExtraction runs document extraction and feeds categorization from
	// its output instead of a transaction record.
	pathExtraction
)

// route is a total, synchronous function from event type to processing path.
// Any event carrying a usable transaction takes the categorization path;
// document-only events take the extraction path; everything else is invalid.
func route(eventType model.EventType, event model.EventData) (processingPath, error) {
	switch eventType {
	case model.EventTransactionCreated, model.EventManualAnalysis:
		if event.HasTransaction() {
			if err := validateTransaction(*event.Transaction); err != nil {
				return 0, err
			}
			return pathCategorization, nil
		}
		if event.DocumentText() != "" {
			return pathExtraction, nil
		}
		return 0, fmt.Errorf("%w: %s event carries neither transaction nor document text", common.ErrInvalidTransaction, eventType)

	case model.EventDocumentImported:
		if event.HasTransaction() {
			if err := validateTransaction(*event.Transaction); err != nil {
				return 0, err
			}
			return pathCategorization, nil
		}
		if event.DocumentText() == "" {
			return 0, fmt.Errorf("%w: document event carries no document text", common.ErrInvalidTransaction)
		}
		return pathExtraction, nil
	}

	// ParseEventType screens unknown types before routing; reaching here
	// means a constant was added without a route.
	return 0, fmt.Errorf("%w: %q", common.ErrUnsupportedEventType, eventType)
}

// validateTransaction enforces the required transaction fields at the
// pipeline boundary.
func validateTransaction(txn model.TransactionData) error {
	if strings.TrimSpace(txn.Description) == "" {
		return fmt.Errorf("%w: description is required", common.ErrInvalidTransaction)
	}
	return nil
}
