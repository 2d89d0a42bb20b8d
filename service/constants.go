package service

import "greengain/domain"

const (
	MaxRecommendationsPerRequest = 50
	MaxRecommendationCost        = float64(domain.MaxAmount) // per upgrade
	MaxMonthlySavings            = 100_000.0

	// ROIUndefinedYears is reported when an upgrade saves nothing.
	ROIUndefinedYears = 999.0
	ROIHorizonYears   = 10

	LbsPerTon              = 2000.0
	DefaultCO2LbsPerDollar = 10.0
)
