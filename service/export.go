package service

import (
	"time"

	"github.com/google/uuid"

	"greengain/domain"
)

const exportDateLayout = "2006-01-02"

// ExportService turns an estimate into the downloadable credit summary.
type ExportService struct {
	now   func() time.Time
	newID func() string
}

func NewExportService() *ExportService {
	return &ExportService{
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Build assembles the summary for an estimate. Only items with a cost are
// listed in their program's section.
func (s *ExportService) Build(est domain.Estimate, taxYear int) domain.CreditSummary {
	summary := domain.CreditSummary{
		ID:          s.newID(),
		GeneratedAt: s.now().UTC(),
		TaxYear:     taxYear,
		HomeImprovement: domain.SummarySection{
			Title:           "Energy Efficient Home Improvement Credit",
			Costs:           map[string]domain.Money{},
			EstimatedCredit: est.Result.HomeImprovementCredit,
		},
		CleanEnergy: domain.SummarySection{
			Title:           "Residential Clean Energy Credit",
			Costs:           map[string]domain.Money{},
			EstimatedCredit: est.Result.CleanEnergyCredit,
		},
		TotalCredit: est.Result.TotalCredit,
	}

	for _, ic := range est.Result.Items {
		if !ic.Cost.IsPositive() {
			continue
		}
		section := &summary.HomeImprovement
		if ic.Bucket.Program() == domain.ProgramCleanEnergy {
			section = &summary.CleanEnergy
		}
		section.Costs[ic.Label] = ic.Cost.Cents()
	}
	return summary
}

// FileName is the suggested download name for a summary generated at t.
func (s *ExportService) FileName(t time.Time) string {
	return "tax-credit-estimate-" + t.Format(exportDateLayout) + ".json"
}
