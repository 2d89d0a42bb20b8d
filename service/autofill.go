package service

import (
	"strings"

	"github.com/shopspring/decimal"

	"greengain/domain"
)

// KeywordRule routes a recommendation to a cost field when its name
// contains any of Keywords (case-insensitive).
type KeywordRule struct {
	Keywords []string
	Item     domain.Item
}

// Matches reports whether name contains one of the rule's keywords.
func (r KeywordRule) Matches(name string) bool {
	lower := strings.ToLower(name)
	for _, k := range r.Keywords {
		if strings.Contains(lower, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

// DefaultKeywordRules is evaluated in order; the first match wins.
// Geothermal precedes the generic heat pump rule so ground-source systems
// land in the clean energy program.
var DefaultKeywordRules = []KeywordRule{
	{Keywords: []string{"insulation", "air seal"}, Item: domain.ItemInsulation},
	{Keywords: []string{"window", "skylight"}, Item: domain.ItemWindows},
	{Keywords: []string{"door"}, Item: domain.ItemExteriorDoors},
	{Keywords: []string{"geothermal"}, Item: domain.ItemGeothermal},
	{Keywords: []string{"heat pump", "hvac", "biomass"}, Item: domain.ItemHeatPump},
	{Keywords: []string{"solar"}, Item: domain.ItemSolarElectric},
	{Keywords: []string{"battery"}, Item: domain.ItemBatteryStorage},
	{Keywords: []string{"energy audit"}, Item: domain.ItemEnergyAudit},
}

// AutoFillMatch records which field a recommendation was summed into.
type AutoFillMatch struct {
	Name string      `json:"name"`
	Item domain.Item `json:"item"`
	Cost float64     `json:"cost"`
}

type AutoFillResult struct {
	Costs     domain.ItemizedCosts `json:"costs"`
	Matches   []AutoFillMatch      `json:"matches"`
	Unmatched []string             `json:"unmatched,omitempty"`
}

// AutoFiller pre-fills itemized costs from upgrade recommendations.
type AutoFiller struct {
	rules []KeywordRule
}

func NewAutoFiller(rules []KeywordRule) *AutoFiller {
	if rules == nil {
		rules = DefaultKeywordRules
	}
	return &AutoFiller{rules: rules}
}

// Match returns the item for name under first-match-wins.
func (a *AutoFiller) Match(name string) (domain.Item, bool) {
	for _, r := range a.rules {
		if r.Matches(name) {
			return r.Item, true
		}
	}
	return "", false
}

// Fill sums the cost of every matching recommendation into its field.
// Recommendations without a positive cost are ignored.
func (a *AutoFiller) Fill(recs []domain.Recommendation) AutoFillResult {
	var res AutoFillResult
	for _, rec := range recs {
		if rec.EstimatedCost <= 0 {
			continue
		}
		item, ok := a.Match(rec.Name)
		if !ok {
			res.Unmatched = append(res.Unmatched, rec.Name)
			continue
		}
		res.Costs.Add(item, domain.MoneyOf(decimal.NewFromFloat(rec.EstimatedCost)))
		res.Matches = append(res.Matches, AutoFillMatch{Name: rec.Name, Item: item, Cost: rec.EstimatedCost})
	}
	return res
}
