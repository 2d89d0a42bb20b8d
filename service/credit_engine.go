package service

import (
	"math"

	"github.com/shopspring/decimal"

	"greengain/domain"
)

// CreditEngine turns itemized costs into capped credits.
//
// Caps apply in three layers: per item (fixed, door-count dependent, or
// fuel-cell capacity based), per bucket aggregate, then the programs are
// summed. A bucket with no aggregate cap contributes its full sum.
// Compute is pure and safe for concurrent use.
type CreditEngine struct {
	rules  domain.RuleSet
	byItem map[domain.Item]domain.CreditRule
}

// NewCreditEngine builds an engine over a validated rule set.
func NewCreditEngine(rules domain.RuleSet) *CreditEngine {
	byItem := make(map[domain.Item]domain.CreditRule, len(rules.Rules))
	for _, r := range rules.Rules {
		byItem[r.Item] = r
	}
	return &CreditEngine{rules: rules, byItem: byItem}
}

// Rules returns the rule set the engine was built with.
func (e *CreditEngine) Rules() domain.RuleSet {
	return e.rules
}

// Compute never fails: absent inputs count as zero. Negative, non-finite
// or unrepresentable inputs are clamped to zero and reported in
// ClampedFields.
func (e *CreditEngine) Compute(costs domain.ItemizedCosts) domain.CreditResult {
	var result domain.CreditResult

	capacity := decimal.Zero
	switch kw := costs.FuelCellCapacityKW; {
	case math.IsNaN(kw) || math.IsInf(kw, 0) || kw < 0:
		result.ClampedFields = append(result.ClampedFields, "fuel_cell_capacity_kw")
	default:
		capacity = decimal.NewFromFloat(kw)
	}
	doors := costs.DoorCount
	if doors < 0 {
		result.ClampedFields = append(result.ClampedFields, "door_count")
	}

	sums := make(map[domain.Bucket]decimal.Decimal)
	for _, item := range domain.AllItems {
		rule, ok := e.byItem[item]
		if !ok {
			continue
		}

		entered := costs.Cost(item)
		cost := entered.Decimal
		switch {
		case cost.IsZero():
			cost = decimal.Zero
		case cost.IsNegative() || !entered.Representable():
			cost = decimal.Zero
			result.ClampedFields = append(result.ClampedFields, string(item))
		}

		uncapped := cost.Mul(rule.Rate.Decimal)
		credit := uncapped
		capped := false
		if limit, ok := e.itemCap(rule, doors, capacity); ok && credit.GreaterThan(limit) {
			credit = limit
			capped = true
		}

		sums[rule.Bucket] = sums[rule.Bucket].Add(credit)
		result.Items = append(result.Items, domain.ItemCredit{
			Item:     item,
			Label:    item.Label(),
			Bucket:   rule.Bucket,
			Cost:     domain.MoneyOf(cost),
			Uncapped: domain.MoneyOf(uncapped).Cents(),
			Credit:   domain.MoneyOf(credit).Cents(),
			Capped:   capped,
		})
	}

	general := e.bucketCredit(domain.BucketGeneral, sums[domain.BucketGeneral])
	heatPump := e.bucketCredit(domain.BucketHeatPump, sums[domain.BucketHeatPump])
	clean := e.bucketCredit(domain.BucketCleanEnergy, sums[domain.BucketCleanEnergy])

	result.GeneralSubtotal = domain.MoneyOf(sums[domain.BucketGeneral]).Cents()
	result.GeneralCredit = domain.MoneyOf(general).Cents()
	result.HeatPumpCredit = domain.MoneyOf(heatPump).Cents()
	result.CleanEnergyCredit = domain.MoneyOf(clean).Cents()
	result.HomeImprovementCredit = domain.MoneyOf(general.Add(heatPump)).Cents()
	result.TotalCredit = domain.MoneyOf(result.CleanEnergyCredit.Add(result.HomeImprovementCredit.Decimal))

	return result
}

// itemCap returns the per-item ceiling for rule, if any. Doors and fuel
// cells carry a computed ceiling on top of any fixed one.
func (e *CreditEngine) itemCap(rule domain.CreditRule, doors int, capacityKW decimal.Decimal) (decimal.Decimal, bool) {
	var limits []decimal.Decimal
	if rule.Cap != nil {
		limits = append(limits, rule.Cap.Decimal)
	}

	switch rule.Item {
	case domain.ItemExteriorDoors:
		// Approximates the per-door limit from the aggregate cost and a count.
		if doors >= 2 {
			limits = append(limits, e.rules.DoorCaps.Multiple.Decimal)
		} else {
			limits = append(limits, e.rules.DoorCaps.Single.Decimal)
		}
	case domain.ItemFuelCell:
		limits = append(limits, e.rules.FuelCellPerKW.Mul(capacityKW))
	}

	if len(limits) == 0 {
		return decimal.Zero, false
	}
	return decimal.Min(limits[0], limits[1:]...), true
}

func (e *CreditEngine) bucketCredit(bucket domain.Bucket, sum decimal.Decimal) decimal.Decimal {
	limit, ok := e.rules.BucketCaps[bucket]
	if !ok || sum.LessThanOrEqual(limit.Decimal) {
		return sum
	}
	return limit.Decimal
}
