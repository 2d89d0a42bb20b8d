package service

import (
	"math"
	"strings"

	"greengain/domain"
)

func roundTo2Decimals(value float64) float64 {
	return math.Round(value*100) / 100
}

func roundTo1Decimal(value float64) float64 {
	return math.Round(value*10) / 10
}

// CalculateROI returns payback metrics for one upgrade after incentives.
func CalculateROI(upfrontCost, rebates, federalCredit, monthlySavings float64) domain.ROIMetrics {
	netCost := math.Max(0, upfrontCost-rebates-federalCredit)
	annualSavings := monthlySavings * 12

	roiYears := ROIUndefinedYears
	if annualSavings > 0 {
		roiYears = roundTo1Decimal(netCost / annualSavings)
	}

	return domain.ROIMetrics{
		NetCost:            roundTo2Decimals(netCost),
		AmountSavedPerYear: roundTo2Decimals(annualSavings),
		ROIYears:           roiYears,
		TenYearSavings:     roundTo2Decimals(annualSavings*ROIHorizonYears - netCost),
		InitialCost:        roundTo2Decimals(upfrontCost),
		TotalIncentives:    roundTo2Decimals(rebates + federalCredit),
	}
}

type co2Factor struct {
	keywords     []string
	lbsPerDollar float64
}

// co2Factors approximate pounds of CO2 avoided per dollar of bill savings,
// by the energy source an upgrade most likely displaces. First match wins.
var co2Factors = []co2Factor{
	{keywords: []string{"insulation", "window", "door", "weatherization"}, lbsPerDollar: 12},
	{keywords: []string{"heat pump", "water heater", "hvac"}, lbsPerDollar: 8},
	{keywords: []string{"solar"}, lbsPerDollar: 10},
	{keywords: []string{"vehicle", "ev", "charger"}, lbsPerDollar: 6},
}

// CO2TonsPerYear estimates annual CO2 avoided, in short tons.
func CO2TonsPerYear(name string, monthlySavings float64) float64 {
	lower := strings.ToLower(name)
	factor := DefaultCO2LbsPerDollar
	for _, f := range co2Factors {
		if containsAny(lower, f.keywords) {
			factor = f.lbsPerDollar
			break
		}
	}
	return roundTo2Decimals(monthlySavings * 12 * factor / LbsPerTon)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
