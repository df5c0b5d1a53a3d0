// Package extract calls the external text-to-structured-entity inference
// service. The service is few-shot prompted: every call carries the document,
// a task description, and a small set of worked examples. Output is
// non-deterministic, so the client can run multiple passes over the same
// document and merge them into a single result.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/txintel/txintel/internal/common"
	"github.com/txintel/txintel/internal/model"
	"github.com/txintel/txintel/internal/service"
)

// Extractor is the narrow contract the engine depends on. Tests substitute a
// deterministic fake; production uses the HTTP client below.
type Extractor interface {
	Extract(ctx context.Context, document string, examples []model.ExampleDocument, params Params) (model.ExtractionResult, error)
}

// Params tunes a single extraction request.
type Params struct {
	TaskPrompt    string
	Passes        int
	MaxCharBuffer int
	StrictSchema  bool
}

// Defaults for Params fields left zero.
const (
	DefaultPasses        = 2
	DefaultMaxCharBuffer = 2000
	DefaultTimeout       = 30 * time.Second
)

// inference is the transport-level contract: one completion per call.
type inference interface {
	complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Config holds configuration for the extraction client.
type Config struct {
	Provider   string
	BaseURL    string
	APIKey     string
	Model      string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
	RateLimit  int
}

// Client implements Extractor against a remote inference endpoint.
type Client struct {
	provider    inference
	logger      *slog.Logger
	rateLimiter *rateLimiter
	retryOpts   service.RetryOptions
	timeout     time.Duration
}

// NewClient creates an extraction client for the configured provider.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	var provider inference
	var err error

	switch strings.ToLower(cfg.Provider) {
	case "", "ollama":
		provider, err = newOllamaProvider(cfg)
	case "openai":
		provider, err = newOpenAIProvider(cfg)
	default:
		return nil, fmt.Errorf("%w: unsupported extraction provider %q", common.ErrInvalidConfig, cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create extraction provider: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	retryOpts := service.RetryOptions{
		MaxAttempts:  cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     timeout,
		Multiplier:   2.0,
	}
	if retryOpts.MaxAttempts == 0 {
		retryOpts.MaxAttempts = 3
	}
	if retryOpts.InitialDelay == 0 {
		retryOpts.InitialDelay = time.Second
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		provider:    provider,
		logger:      logger,
		rateLimiter: newRateLimiter(cfg.RateLimit),
		retryOpts:   retryOpts,
		timeout:     timeout,
	}, nil
}

// Extract runs the configured number of passes over the document and merges
// them. Each pass is one call to the inference endpoint, bounded by the
// client timeout. Cancellation aborts immediately; transient pass failures
// only fail the whole extraction when no pass succeeded.
func (c *Client) Extract(ctx context.Context, document string, examples []model.ExampleDocument, params Params) (model.ExtractionResult, error) {
	if strings.TrimSpace(document) == "" {
		return model.ExtractionResult{}, fmt.Errorf("%w: empty document", common.ErrExtractionParse)
	}

	passes := params.Passes
	if passes <= 0 {
		passes = DefaultPasses
	}
	maxBuffer := params.MaxCharBuffer
	if maxBuffer <= 0 {
		maxBuffer = DefaultMaxCharBuffer
	}

	passResults := make([][]model.Entity, 0, passes)
	var lastErr error

	for pass := 1; pass <= passes; pass++ {
		entities, err := c.runPass(ctx, document, examples, params, maxBuffer, pass)
		if err != nil {
			if ctx.Err() != nil {
				// Cancelled requests abandon the remaining passes and never
				// return partial results.
				return model.ExtractionResult{}, ctx.Err()
			}
			c.logger.Warn("extraction pass failed",
				"pass", pass,
				"passes", passes,
				"error", err)
			lastErr = err
			continue
		}
		passResults = append(passResults, entities)
	}

	if len(passResults) == 0 {
		if lastErr == nil {
			lastErr = common.ErrExtractionUnavailable
		}
		return model.ExtractionResult{}, lastErr
	}

	merged := mergePasses(document, passResults)

	c.logger.Debug("extraction complete",
		"passes_requested", passes,
		"passes_succeeded", len(passResults),
		"entities", len(merged))

	return model.ExtractionResult{
		Document: document,
		Entities: merged,
		Passes:   len(passResults),
	}, nil
}

// runPass performs one full pass over the document, chunking when the
// document exceeds the character buffer.
func (c *Client) runPass(ctx context.Context, document string, examples []model.ExampleDocument, params Params, maxBuffer, pass int) ([]model.Entity, error) {
	var entities []model.Entity

	for _, chunk := range chunkDocument(document, maxBuffer) {
		chunkEntities, err := c.extractChunk(ctx, chunk, examples, params)
		if err != nil {
			return nil, fmt.Errorf("pass %d: %w", pass, err)
		}
		entities = append(entities, chunkEntities...)
	}

	return entities, nil
}

// extractChunk issues one rate-limited, retried inference call for a chunk.
func (c *Client) extractChunk(ctx context.Context, chunk string, examples []model.ExampleDocument, params Params) ([]model.Entity, error) {
	if err := c.rateLimiter.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit error: %w", err)
	}

	systemPrompt := buildSystemPrompt(params.StrictSchema)
	userPrompt := buildUserPrompt(chunk, params.TaskPrompt, examples)

	var entities []model.Entity
	var attemptErr error

	err := common.WithRetry(ctx, func() error {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		content, err := c.provider.complete(callCtx, systemPrompt, userPrompt)
		if err != nil {
			// Parse failures and rate limits classify themselves; anything
			// else from the transport is a service availability problem.
			if !errors.Is(err, common.ErrRateLimit) && !errors.Is(err, common.ErrExtractionUnavailable) {
				err = fmt.Errorf("%w: %v", common.ErrExtractionUnavailable, err)
			}
			attemptErr = err
			return &common.RetryableError{Err: err, Retryable: true}
		}

		parsed, err := parseEntities(content, chunk, c.logger)
		if err != nil {
			// A malformed response may be a one-off; retry it.
			attemptErr = err
			return &common.RetryableError{Err: err, Retryable: true}
		}

		attemptErr = nil
		entities = parsed
		return nil
	}, c.retryOpts)

	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// WithRetry flattens wrapped errors; report the classified error
		// from the final attempt when there is one.
		if attemptErr != nil {
			return nil, attemptErr
		}
		return nil, fmt.Errorf("%w: %v", common.ErrExtractionUnavailable, err)
	}

	return entities, nil
}

// chunkDocument splits a document into buffer-sized chunks on line
// boundaries. Lines longer than the buffer become their own chunk.
func chunkDocument(document string, maxBuffer int) []string {
	if len(document) <= maxBuffer {
		return []string{document}
	}

	var chunks []string
	var current strings.Builder

	for _, line := range strings.SplitAfter(document, "\n") {
		if current.Len() > 0 && current.Len()+len(line) > maxBuffer {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}

	return chunks
}

// Close stops background goroutines.
func (c *Client) Close() error {
	if c.rateLimiter != nil {
		c.rateLimiter.Close()
	}
	return nil
}
