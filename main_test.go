package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"greengain/domain"
)

// newTestCmd resets the shared flag variables and returns a command whose
// output is captured.
func newTestCmd(t *testing.T, stdin string) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	logger = zap.NewNop()
	configPath, rulesPath = "", ""
	inputFile, documentFile, exportOutDir = "", "", ""
	costFlags = nil
	fuelCellKW = 0
	t.Setenv("GREENGAIN_RULES_PATH", "")

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetContext(context.Background())
	return cmd, &out
}

func TestRunCalc_CostFlags(t *testing.T) {
	cmd, out := newTestCmd(t, "")
	costFlags = []string{"insulation_air_sealing=3000", "windows_skylights=2000", "heat_pump=10000"}

	require.NoError(t, runCalc(cmd, nil))

	var res domain.CreditResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, "3200", res.TotalCredit.String())
	assert.Equal(t, "1200", res.GeneralCredit.String())
}

func TestRunCalc_FileAndFlagsAdd(t *testing.T) {
	cmd, out := newTestCmd(t, `{"solar_electric": 10000, "fuel_cell": 5000, "fuel_cell_capacity_kw": 1}`)
	inputFile = "-"
	costFlags = []string{"solar_electric=5000"}

	require.NoError(t, runCalc(cmd, nil))

	var res domain.CreditResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	// 0.30 * 15000 + min(1500, 1000 * 1kW)
	assert.Equal(t, "5500", res.CleanEnergyCredit.String())
}

func TestRunCalc_BadCostFlag(t *testing.T) {
	tests := []string{"heat_pump", "heat_pump=abc", "hot_tub=5000", "heat_pump=1e99999999", "heat_pump=10000001"}
	for _, flag := range tests {
		t.Run(flag, func(t *testing.T) {
			cmd, _ := newTestCmd(t, "")
			costFlags = []string{flag}
			assert.Error(t, runCalc(cmd, nil))
		})
	}
}

func TestRunCalc_HugeExponentFailsFast(t *testing.T) {
	cmd, _ := newTestCmd(t, "")
	costFlags = []string{"solar_electric=1e99999999"}

	done := make(chan error, 1)
	go func() { done <- runCalc(cmd, nil) }()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, domain.ErrAmountOutOfRange)
	case <-time.After(5 * time.Second):
		t.Fatal("runCalc did not return")
	}
}

func TestRunCalc_NonFiniteFuelCellCapacity(t *testing.T) {
	for _, v := range []string{"NaN", "Inf", "-Inf"} {
		t.Run(v, func(t *testing.T) {
			cmd, _ := newTestCmd(t, "")
			cmd.Flags().Float64Var(&fuelCellKW, "fuel-cell-kw", 0, "")
			require.NoError(t, cmd.Flags().Set("fuel-cell-kw", v))
			costFlags = []string{"fuel_cell=5000"}

			assert.ErrorContains(t, runCalc(cmd, nil), "--fuel-cell-kw")
		})
	}
}

func TestRunCalc_CustomRules(t *testing.T) {
	cmd, out := newTestCmd(t, "")
	rulesPath = filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(rulesPath, []byte("bucket_caps:\n  general: 1200\n  heat_pump: 1000\n"), 0o644))
	costFlags = []string{"heat_pump=10000"}

	require.NoError(t, runCalc(cmd, nil))

	var res domain.CreditResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, "1000", res.TotalCredit.String())
}

func TestRunExport_WritesFile(t *testing.T) {
	cmd, out := newTestCmd(t, "")
	costFlags = []string{"heat_pump=5000"}
	exportOutDir = t.TempDir()

	require.NoError(t, runExport(cmd, nil))

	path := strings.TrimSpace(out.String())
	assert.Regexp(t, `tax-credit-estimate-\d{4}-\d{2}-\d{2}\.json$`, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var summary domain.CreditSummary
	require.NoError(t, json.Unmarshal(data, &summary))
	assert.Equal(t, "1500", summary.TotalCredit.String())
	assert.Contains(t, summary.HomeImprovement.Costs, domain.ItemHeatPump.Label())
}

func TestRunAutofill(t *testing.T) {
	cmd, out := newTestCmd(t, `[{"name": "Attic Insulation", "estimated_cost": 4000}, {"name": "LED bulbs", "estimated_cost": 50}]`)
	documentFile = "-"

	require.NoError(t, runAutofill(cmd, nil))

	var got struct {
		Unmatched []string            `json:"unmatched"`
		Result    domain.CreditResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, []string{"LED bulbs"}, got.Unmatched)
	assert.Equal(t, "1200", got.Result.TotalCredit.String())
}

func TestRunRoadmap(t *testing.T) {
	cmd, out := newTestCmd(t, `{"recommendations": [{"name": "Heat Pump Water Heater", "type": "big_bet", "estimated_cost": 4000, "estimated_monthly_savings": 30}]}`)
	documentFile = "-"
	t.Setenv("OPENAI_API_KEY", "")

	require.NoError(t, runRoadmap(cmd, nil))

	var got domain.RoadmapAnalysis
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "1200", got.EstimatedCredit.HeatPumpCredit.String())
	assert.Contains(t, got.Summary, "1 big bet(s)")
}

func TestRunRoadmap_Invalid(t *testing.T) {
	cmd, _ := newTestCmd(t, `{"recommendations": [{"name": "Solar", "type": "someday"}]}`)
	documentFile = "-"

	assert.ErrorContains(t, runRoadmap(cmd, nil), "unknown type")
}
