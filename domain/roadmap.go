package domain

import "time"

type FundingSourceType string

const (
	FundingInstantRebate FundingSourceType = "instant_rebate"
	FundingTaxCredit     FundingSourceType = "tax_credit"
	FundingFutureGrant   FundingSourceType = "future_grant"
)

type RecommendationType string

const (
	RecommendationQuickWin RecommendationType = "quick_win"
	RecommendationBigBet   RecommendationType = "big_bet"
)

type FundingItem struct {
	SourceType FundingSourceType `json:"source_type"`
	Provider   string            `json:"provider"`
	Amount     float64           `json:"amount"`
	URL        string            `json:"url"`
}

type Recommendation struct {
	Name                    string             `json:"name"`
	Type                    RecommendationType `json:"type"`
	Description             string             `json:"description"`
	EstimatedCost           float64            `json:"estimated_cost"`
	FundingBreakdown        []FundingItem      `json:"funding_breakdown"`
	EstimatedMonthlySavings float64            `json:"estimated_monthly_savings"`
	ROIYears                *float64           `json:"roi_years,omitempty"`
	SourceCitation          string             `json:"source_citation"`
}

type Roadmap struct {
	TotalProjectedSavingsYearly float64          `json:"total_projected_savings_yearly"`
	Recommendations             []Recommendation `json:"recommendations"`
	SummaryText                 string           `json:"summary_text"`
}

type ROIMetrics struct {
	NetCost            float64 `json:"net_cost"`
	AmountSavedPerYear float64 `json:"amount_saved_per_year"`
	ROIYears           float64 `json:"roi_years"`
	TenYearSavings     float64 `json:"ten_year_savings"`
	InitialCost        float64 `json:"initial_cost"`
	TotalIncentives    float64 `json:"total_incentives"`
}

type RecommendationAnalysis struct {
	Name           string             `json:"name"`
	Type           RecommendationType `json:"type"`
	Rebates        float64            `json:"rebates"`
	TaxCredits     float64            `json:"tax_credits"`
	FundingTotal   float64            `json:"funding_total"`
	Metrics        ROIMetrics         `json:"metrics"`
	CO2TonsPerYear float64            `json:"co2_tons_per_year"`
	CreditItem     Item               `json:"credit_item,omitempty"`
}

type RoadmapAnalysis struct {
	Recommendations    []RecommendationAnalysis `json:"recommendations"`
	TotalUpfrontCost   float64                  `json:"total_upfront_cost"`
	TotalFunding       float64                  `json:"total_funding"`
	TotalYearlySavings float64                  `json:"total_yearly_savings"`
	TotalCO2TonsYearly float64                  `json:"total_co2_tons_yearly"`
	EstimatedCosts     ItemizedCosts            `json:"estimated_costs"`
	EstimatedCredit    CreditResult             `json:"estimated_credit"`
	Unmatched          []string                 `json:"unmatched,omitempty"`
	Summary            string                   `json:"summary"`
}

// CreditSummary is the downloadable artifact of one estimate.
type CreditSummary struct {
	ID              string         `json:"id"`
	GeneratedAt     time.Time      `json:"generated_at"`
	TaxYear         int            `json:"tax_year"`
	HomeImprovement SummarySection `json:"home_improvement"`
	CleanEnergy     SummarySection `json:"clean_energy"`
	TotalCredit     Money          `json:"total_credit"`
}

type SummarySection struct {
	Title           string           `json:"title"`
	Costs           map[string]Money `json:"costs"`
	EstimatedCredit Money            `json:"estimated_credit"`
}
