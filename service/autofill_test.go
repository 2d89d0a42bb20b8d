package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"greengain/domain"
)

func TestAutoFiller_Fill(t *testing.T) {
	recs := []domain.Recommendation{
		{Name: "Attic Insulation", EstimatedCost: 2000},
		{Name: "Air Sealing Package", EstimatedCost: 500},
		{Name: "Double-pane Windows", EstimatedCost: 3000},
		{Name: "Cold Climate HEAT PUMP", EstimatedCost: 9000},
		{Name: "Rooftop Solar PV", EstimatedCost: 18000},
		{Name: "Home Battery", EstimatedCost: 8000},
		{Name: "Smart Thermostat", EstimatedCost: 250},
		{Name: "Free Weatherization", EstimatedCost: 0},
	}

	res := NewAutoFiller(nil).Fill(recs)

	assertMoney(t, 2500, res.Costs.InsulationAirSealing, "insulation")
	assertMoney(t, 3000, res.Costs.WindowsSkylights, "windows")
	assertMoney(t, 9000, res.Costs.HeatPump, "heat pump")
	assertMoney(t, 18000, res.Costs.SolarElectric, "solar")
	assertMoney(t, 8000, res.Costs.BatteryStorage, "battery")
	assert.Equal(t, []string{"Smart Thermostat"}, res.Unmatched)
	assert.Len(t, res.Matches, 6)
}

func TestAutoFiller_FirstMatchWins(t *testing.T) {
	filler := NewAutoFiller(nil)

	tests := []struct {
		name string
		want domain.Item
	}{
		{"Window insulation film", domain.ItemInsulation},
		{"Heat pump with solar assist", domain.ItemHeatPump},
		// Geothermal is checked before heat pump so it lands in clean energy, not the heat pump bucket.
		{"Geothermal heat pump", domain.ItemGeothermal},
		{"HVAC tune-up", domain.ItemHeatPump},
		{"Biomass stove", domain.ItemHeatPump},
		{"Storm door", domain.ItemExteriorDoors},
		{"Solar battery bundle", domain.ItemSolarElectric},
		{"Home Energy Audit", domain.ItemEnergyAudit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := filler.Match(tt.name)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAutoFiller_CustomRules(t *testing.T) {
	filler := NewAutoFiller([]KeywordRule{
		{Keywords: []string{"panel"}, Item: domain.ItemElectricalPanel},
	})
	res := filler.Fill([]domain.Recommendation{
		{Name: "200A Panel Upgrade", EstimatedCost: 2500},
		{Name: "Solar PV", EstimatedCost: 10000},
	})
	assertMoney(t, 2500, res.Costs.ElectricalPanel, "panel")
	assert.True(t, res.Costs.SolarElectric.IsZero())
	assert.Equal(t, []string{"Solar PV"}, res.Unmatched)
}

func TestAutoFiller_FeedsEngine(t *testing.T) {
	res := NewAutoFiller(nil).Fill([]domain.Recommendation{
		{Name: "Heat Pump", EstimatedCost: 10000},
		{Name: "Blown-in insulation", EstimatedCost: 5000},
	})
	credit := newEngine().Compute(res.Costs)
	assertMoney(t, 3200, credit.HomeImprovementCredit, "home improvement")
}
