package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"greengain/domain"
	"greengain/service"
)

// documentFile is the JSON input of autofill and roadmap.
var documentFile string

var autofillCmd = &cobra.Command{
	Use:   "autofill",
	Short: "Pre-fill itemized costs from upgrade recommendations",
	Long: `Reads a JSON array of recommendations (--file, "-" for stdin), maps each
one to a cost field by keyword and prints the filled costs with their credit.`,
	RunE: runAutofill,
}

var roadmapCmd = &cobra.Command{
	Use:   "roadmap",
	Short: "Analyze an upgrade roadmap",
	Long: `Reads a roadmap JSON document (--file, "-" for stdin) and prints payback,
funding, CO2 and estimated federal credit figures. A summary is written by
the configured model when an API key is available.`,
	RunE: runRoadmap,
}

func init() {
	autofillCmd.Flags().StringVarP(&documentFile, "file", "f", "-", "JSON file with recommendations (- for stdin)")
	roadmapCmd.Flags().StringVarP(&documentFile, "file", "f", "-", "JSON roadmap file (- for stdin)")
}

func runAutofill(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd, documentFile)
	if err != nil {
		return fmt.Errorf("reading recommendations: %w", err)
	}
	var recs []domain.Recommendation
	if err := json.Unmarshal(data, &recs); err != nil {
		return fmt.Errorf("parsing recommendations: %w", err)
	}

	credits, err := newCLICreditService()
	if err != nil {
		return err
	}
	filled := service.NewAutoFiller(nil).Fill(recs)
	result := credits.Calculate(cmd.Context(), service.SourceAutoFill, "", filled.Costs)

	return printJSON(cmd, struct {
		service.AutoFillResult
		Result domain.CreditResult `json:"result"`
	}{filled, result})
}

func runRoadmap(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd, documentFile)
	if err != nil {
		return fmt.Errorf("reading roadmap: %w", err)
	}
	var roadmap domain.Roadmap
	if err := json.Unmarshal(data, &roadmap); err != nil {
		return fmt.Errorf("parsing roadmap: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	rules, err := activeRules(cfg)
	if err != nil {
		return err
	}

	credits := service.NewCreditService(service.NewCreditEngine(rules), nil, logger, nil)
	ai := service.NewAIService(service.AIConfig{
		APIKey:  cfg.AI.Key(),
		URL:     cfg.AI.URL,
		Model:   cfg.AI.Model,
		Timeout: cfg.AI.Timeout,
	}, logger)
	roadmaps := service.NewRoadmapService(credits, service.NewAutoFiller(nil), ai, logger, nil)

	analysis, err := roadmaps.Analyze(cmd.Context(), roadmap)
	if err != nil {
		return err
	}
	return printJSON(cmd, analysis)
}
