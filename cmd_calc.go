package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"greengain/domain"
	"greengain/service"
)

var (
	inputFile    string
	costFlags    []string
	doorCount    int
	fuelCellKW   float64
	exportOutDir string
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Compute the credit for itemized costs",
	Long: `Computes both Form 5695 credits. Costs come from a JSON file (--file,
"-" for stdin) and/or repeated --cost item=amount flags, which are added on
top of the file.

Example:
  greengain calc --cost heat_pump=10000 --cost insulation_air_sealing=3000`,
	RunE: runCalc,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the downloadable credit summary for itemized costs",
	Long: `Takes the same input as calc and prints the credit summary JSON.
With --out the summary is written to tax-credit-estimate-YYYY-MM-DD.json in
that directory instead.`,
	RunE: runExport,
}

func init() {
	for _, c := range []*cobra.Command{calcCmd, exportCmd} {
		c.Flags().StringVarP(&inputFile, "file", "f", "", "JSON file with itemized costs (- for stdin)")
		c.Flags().StringArrayVar(&costFlags, "cost", nil, "Item cost as item=amount (repeatable)")
		c.Flags().IntVar(&doorCount, "door-count", 0, "Number of exterior doors")
		c.Flags().Float64Var(&fuelCellKW, "fuel-cell-kw", 0, "Fuel cell capacity in kW")
	}
	exportCmd.Flags().StringVarP(&exportOutDir, "out", "o", "", "Directory to write the summary file into")
}

// readInput returns the contents of path, or stdin for "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

// buildCosts merges --file, --cost, --door-count and --fuel-cell-kw.
func buildCosts(cmd *cobra.Command) (domain.ItemizedCosts, error) {
	var costs domain.ItemizedCosts
	if inputFile != "" {
		data, err := readInput(cmd, inputFile)
		if err != nil {
			return costs, fmt.Errorf("reading costs: %w", err)
		}
		if err := json.Unmarshal(data, &costs); err != nil {
			return costs, fmt.Errorf("parsing costs: %w", err)
		}
	}

	for _, kv := range costFlags {
		name, amount, ok := strings.Cut(kv, "=")
		if !ok {
			return costs, fmt.Errorf("--cost %q: want item=amount", kv)
		}
		m, err := domain.ParseAmount(strings.TrimSpace(amount))
		if err != nil {
			return costs, fmt.Errorf("--cost %q: %w", kv, err)
		}
		if !costs.Add(domain.Item(strings.TrimSpace(name)), m) {
			return costs, fmt.Errorf("--cost %q: unknown item %q", kv, name)
		}
	}

	if cmd.Flags().Changed("door-count") {
		costs.DoorCount = doorCount
	}
	if cmd.Flags().Changed("fuel-cell-kw") {
		if math.IsNaN(fuelCellKW) || math.IsInf(fuelCellKW, 0) {
			return costs, fmt.Errorf("--fuel-cell-kw %v: want a finite number", fuelCellKW)
		}
		costs.FuelCellCapacityKW = fuelCellKW
	}
	return costs, nil
}

// newCLICreditService builds a credit service without session storage.
func newCLICreditService() (*service.CreditService, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	rules, err := activeRules(cfg)
	if err != nil {
		return nil, err
	}
	return service.NewCreditService(service.NewCreditEngine(rules), nil, logger, nil), nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runCalc(cmd *cobra.Command, args []string) error {
	costs, err := buildCosts(cmd)
	if err != nil {
		return err
	}
	credits, err := newCLICreditService()
	if err != nil {
		return err
	}
	return printJSON(cmd, credits.Calculate(cmd.Context(), service.SourceCLI, "", costs))
}

func runExport(cmd *cobra.Command, args []string) error {
	costs, err := buildCosts(cmd)
	if err != nil {
		return err
	}
	credits, err := newCLICreditService()
	if err != nil {
		return err
	}

	result := credits.Calculate(cmd.Context(), service.SourceCLI, "", costs)
	exports := service.NewExportService()
	summary := exports.Build(domain.Estimate{Costs: costs, Result: result}, credits.Rules().TaxYear)

	if exportOutDir == "" {
		return printJSON(cmd, summary)
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(exportOutDir, exports.FileName(summary.GeneratedAt))
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
