package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/txintel/txintel/internal/config"
	"github.com/txintel/txintel/internal/engine"
)

func categorizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categorize <description>",
		Short: "Categorize a description with keyword heuristics only",
		Long: `Categorize runs a transaction description through the keyword heuristic
table alone, without rules or document extraction. Useful for inspecting
what the fallback path would decide.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCategorize,
	}
}

func runCategorize(cmd *cobra.Command, args []string) error {
	engineCfg, err := config.LoadEngineConfig()
	if err != nil {
		return err
	}

	eng := engine.New(nil, engineCfg, nil)
	decision := eng.Categorize(strings.Join(args, " "))

	return writeDecision(cmd.OutOrStdout(), decision)
}

func writeDecision(w io.Writer, decision any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(decision); err != nil {
		return fmt.Errorf("failed to encode decision: %w", err)
	}
	return nil
}
