package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greengain/domain"
)

func fixedExportService(at time.Time) *ExportService {
	s := NewExportService()
	s.now = func() time.Time { return at }
	s.newID = func() string { return "est-1" }
	return s
}

func TestExportService_Build(t *testing.T) {
	at := time.Date(2024, 4, 15, 18, 30, 0, 0, time.UTC)
	costs := domain.ItemizedCosts{
		SolarElectric:        usd(20000),
		InsulationAirSealing: usd(1500.5),
		HeatPump:             usd(8000),
	}
	est := domain.Estimate{Costs: costs, Result: newEngine().Compute(costs)}

	s := fixedExportService(at)
	summary := s.Build(est, 2024)

	assert.Equal(t, "est-1", summary.ID)
	assert.Equal(t, at, summary.GeneratedAt)
	assert.Equal(t, 2024, summary.TaxYear)
	assertMoney(t, 6000, summary.CleanEnergy.EstimatedCredit, "clean energy")
	assertMoney(t, 2450.15, summary.HomeImprovement.EstimatedCredit, "home improvement")
	assertMoney(t, 8450.15, summary.TotalCredit, "total")

	require.Len(t, summary.CleanEnergy.Costs, 1)
	assertMoney(t, 20000, summary.CleanEnergy.Costs["Solar Electric Property"], "solar cost")
	require.Len(t, summary.HomeImprovement.Costs, 2)
	assertMoney(t, 1500.5, summary.HomeImprovement.Costs["Insulation & Air Sealing"], "insulation cost")

	assert.Equal(t, "tax-credit-estimate-2024-04-15.json", s.FileName(summary.GeneratedAt))
}

func TestExportService_JSONShape(t *testing.T) {
	s := fixedExportService(time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC))
	summary := s.Build(domain.Estimate{Result: newEngine().Compute(domain.ItemizedCosts{})}, 2025)

	b, err := json.Marshal(summary)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, 0.0, got["total_credit"])
	assert.Contains(t, got, "home_improvement")
	assert.Contains(t, got, "clean_energy")
	assert.Equal(t, "2025-01-02T00:00:00Z", got["generated_at"])
}

func TestNewExportService_GeneratesUUIDs(t *testing.T) {
	s := NewExportService()
	a := s.Build(domain.Estimate{}, 2024).ID
	b := s.Build(domain.Estimate{}, 2024).ID
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
