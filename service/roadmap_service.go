package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"greengain/domain"
	"greengain/metrics"
)

// ErrInvalidRoadmap wraps every validation failure of Analyze.
var ErrInvalidRoadmap = errors.New("invalid roadmap")

type RoadmapService struct {
	credits *CreditService
	filler  *AutoFiller
	ai      *AIService
	logger  *zap.Logger
	metrics *metrics.Registry
}

func NewRoadmapService(
	credits *CreditService,
	filler *AutoFiller,
	ai *AIService,
	logger *zap.Logger,
	reg *metrics.Registry,
) *RoadmapService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoadmapService{credits: credits, filler: filler, ai: ai, logger: logger, metrics: reg}
}

// Analyze computes funding, payback and CO2 figures for every
// recommendation, and the federal credit the roadmap's costs would earn.
func (s *RoadmapService) Analyze(ctx context.Context, roadmap domain.Roadmap) (domain.RoadmapAnalysis, error) {
	if err := validateRoadmap(roadmap); err != nil {
		s.metrics.Inc(metrics.RoadmapAnalyses, "invalid")
		return domain.RoadmapAnalysis{}, err
	}

	var analysis domain.RoadmapAnalysis
	for _, rec := range roadmap.Recommendations {
		var rebates, credits float64
		for _, f := range rec.FundingBreakdown {
			if f.SourceType == domain.FundingTaxCredit {
				credits += f.Amount
			} else {
				rebates += f.Amount
			}
		}

		ra := domain.RecommendationAnalysis{
			Name:           rec.Name,
			Type:           rec.Type,
			Rebates:        roundTo2Decimals(rebates),
			TaxCredits:     roundTo2Decimals(credits),
			FundingTotal:   roundTo2Decimals(rebates + credits),
			Metrics:        CalculateROI(rec.EstimatedCost, rebates, credits, rec.EstimatedMonthlySavings),
			CO2TonsPerYear: CO2TonsPerYear(rec.Name, rec.EstimatedMonthlySavings),
		}
		if item, ok := s.filler.Match(rec.Name); ok && rec.EstimatedCost > 0 {
			ra.CreditItem = item
		}

		analysis.Recommendations = append(analysis.Recommendations, ra)
		analysis.TotalUpfrontCost += rec.EstimatedCost
		analysis.TotalFunding += rebates + credits
		analysis.TotalYearlySavings += rec.EstimatedMonthlySavings * 12
		analysis.TotalCO2TonsYearly += ra.CO2TonsPerYear
	}
	analysis.TotalUpfrontCost = roundTo2Decimals(analysis.TotalUpfrontCost)
	analysis.TotalFunding = roundTo2Decimals(analysis.TotalFunding)
	analysis.TotalYearlySavings = roundTo2Decimals(analysis.TotalYearlySavings)
	analysis.TotalCO2TonsYearly = roundTo2Decimals(analysis.TotalCO2TonsYearly)

	filled := s.filler.Fill(roadmap.Recommendations)
	analysis.EstimatedCosts = filled.Costs
	analysis.Unmatched = filled.Unmatched
	analysis.EstimatedCredit = s.credits.Calculate(ctx, SourceRoadmap, "", filled.Costs)

	analysis.Summary = roadmap.SummaryText
	if analysis.Summary == "" {
		analysis.Summary = s.ai.GenerateRoadmapSummary(ctx, analysis)
	}

	s.metrics.Inc(metrics.RoadmapAnalyses, "ok")
	s.logger.Debug("roadmap analyzed",
		zap.Int("recommendations", len(analysis.Recommendations)),
		zap.String("estimated_credit", analysis.EstimatedCredit.TotalCredit.StringFixed(2)))

	return analysis, nil
}

func validateRoadmap(roadmap domain.Roadmap) error {
	if len(roadmap.Recommendations) > MaxRecommendationsPerRequest {
		return fmt.Errorf("%w: more than %d recommendations", ErrInvalidRoadmap, MaxRecommendationsPerRequest)
	}
	for i, rec := range roadmap.Recommendations {
		if rec.Name == "" {
			return fmt.Errorf("%w: recommendation %d has no name", ErrInvalidRoadmap, i)
		}
		switch rec.Type {
		case domain.RecommendationQuickWin, domain.RecommendationBigBet:
		default:
			return fmt.Errorf("%w: %s: unknown type %q", ErrInvalidRoadmap, rec.Name, rec.Type)
		}
		if rec.EstimatedCost < 0 || rec.EstimatedCost > MaxRecommendationCost {
			return fmt.Errorf("%w: %s: estimated cost out of range", ErrInvalidRoadmap, rec.Name)
		}
		if rec.EstimatedMonthlySavings < 0 || rec.EstimatedMonthlySavings > MaxMonthlySavings {
			return fmt.Errorf("%w: %s: monthly savings out of range", ErrInvalidRoadmap, rec.Name)
		}
		for _, f := range rec.FundingBreakdown {
			switch f.SourceType {
			case domain.FundingInstantRebate, domain.FundingTaxCredit, domain.FundingFutureGrant:
			default:
				return fmt.Errorf("%w: %s: unknown funding source %q", ErrInvalidRoadmap, rec.Name, f.SourceType)
			}
			if f.Amount < 0 {
				return fmt.Errorf("%w: %s: negative funding from %s", ErrInvalidRoadmap, rec.Name, f.Provider)
			}
		}
	}
	return nil
}
