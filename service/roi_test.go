package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateROI(t *testing.T) {
	m := CalculateROI(12000, 2500, 2000, 100)

	assert.Equal(t, 7500.0, m.NetCost)
	assert.Equal(t, 1200.0, m.AmountSavedPerYear)
	assert.Equal(t, 6.3, m.ROIYears)
	assert.Equal(t, 4500.0, m.TenYearSavings)
	assert.Equal(t, 12000.0, m.InitialCost)
	assert.Equal(t, 4500.0, m.TotalIncentives)
}

func TestCalculateROI_IncentivesExceedCost(t *testing.T) {
	m := CalculateROI(1000, 800, 600, 10)

	assert.Equal(t, 0.0, m.NetCost)
	assert.Equal(t, 0.0, m.ROIYears)
	assert.Equal(t, 1200.0, m.TenYearSavings)
}

func TestCalculateROI_NoSavings(t *testing.T) {
	m := CalculateROI(5000, 0, 0, 0)
	assert.Equal(t, ROIUndefinedYears, m.ROIYears)
	assert.Equal(t, -5000.0, m.TenYearSavings)
}

func TestCO2TonsPerYear(t *testing.T) {
	tests := []struct {
		name    string
		monthly float64
		want    float64
	}{
		{"Attic Insulation", 50, 3.6},
		{"Heat Pump Water Heater", 50, 2.4},
		{"Rooftop Solar", 100, 6},
		{"Level 2 EV Charger", 25, 0.9},
		{"Smart Thermostat", 10, 0.6},
		{"Nothing saved", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CO2TonsPerYear(tt.name, tt.monthly), 1e-9)
		})
	}
}
