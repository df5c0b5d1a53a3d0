package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/txintel/txintel/internal/common"
	"github.com/txintel/txintel/internal/config"
	"github.com/txintel/txintel/internal/engine"
	"github.com/txintel/txintel/internal/extract"
	"github.com/txintel/txintel/internal/model"
)

func processCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process [event.json]",
		Short: "Process one event through the decision engine",
		Long: `Process reads an event as JSON (from the given file, or stdin when no
file is given), runs it through the decision engine, and prints the
resulting response as JSON on stdout.

The response always carries a status; a processing failure yields an
error-status response and a non-zero exit code.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runProcess,
	}
	cmd.Flags().Bool("pretty", false, "indent the JSON output")
	return cmd
}

func runProcess(cmd *cobra.Command, args []string) error {
	event, err := readEvent(args)
	if err != nil {
		return err
	}

	eng, err := buildEngine()
	if err != nil {
		return err
	}

	response, processErr := eng.ProcessEvent(cmd.Context(), event)
	if processErr != nil && cmd.Context().Err() != nil {
		return processErr
	}

	pretty, _ := cmd.Flags().GetBool("pretty")
	if err := writeResponse(cmd.OutOrStdout(), response, pretty); err != nil {
		return err
	}

	if processErr != nil {
		common.LogError(processErr, "event processing failed", common.Fields{
			"request_id": response.RequestID,
			"status":     string(response.Status),
		})
		return fmt.Errorf("event processing failed: %w", processErr)
	}
	return nil
}

func readEvent(args []string) (model.EventData, error) {
	var raw []byte
	var err error

	if len(args) == 1 {
		raw, err = os.ReadFile(args[0]) //nolint:gosec // user-supplied path is the point
		if err != nil {
			return model.EventData{}, fmt.Errorf("failed to read event file: %w", err)
		}
	} else {
		raw, err = io.ReadAll(os.Stdin)
		if err != nil {
			return model.EventData{}, fmt.Errorf("failed to read event from stdin: %w", err)
		}
	}

	var event model.EventData
	if err := json.Unmarshal(raw, &event); err != nil {
		return model.EventData{}, fmt.Errorf("failed to parse event JSON: %w", err)
	}
	return event, nil
}

func buildEngine() (*engine.Engine, error) {
	engineCfg, err := config.LoadEngineConfig()
	if err != nil {
		return nil, err
	}

	extractCfg := config.LoadExtractionConfig()
	extractCfg.Timeout = engineCfg.ExtractionTimeout

	extractor, err := extract.NewClient(extractCfg, slog.Default())
	if err != nil {
		return nil, fmt.Errorf("failed to create extraction client: %w", err)
	}

	return engine.New(extractor, engineCfg, slog.Default()), nil
}

func writeResponse(w io.Writer, response model.AgentResponse, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(response); err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	return nil
}
