package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// CreditRule is the static configuration of one item.
type CreditRule struct {
	Item   Item   `yaml:"item" json:"item"`
	Bucket Bucket `yaml:"bucket" json:"bucket"`
	Rate   Money  `yaml:"rate" json:"rate"`
	// Cap is the per-item ceiling on the credit. Nil means the item is
	// bounded only by its bucket.
	Cap *Money `yaml:"cap,omitempty" json:"cap,omitempty"`
}

// DoorCaps is the count-dependent per-item cap for exterior doors.
// One door (or an absent count) gets Single; two or more get Multiple.
type DoorCaps struct {
	Single   Money `yaml:"single" json:"single"`
	Multiple Money `yaml:"multiple" json:"multiple"`
}

// RuleSet is one revision of the credit rules.
type RuleSet struct {
	TaxYear int          `yaml:"tax_year" json:"tax_year"`
	Rules   []CreditRule `yaml:"rules" json:"rules"`
	// BucketCaps are aggregate ceilings on the sum of a bucket's item
	// credits. A bucket without an entry is uncapped.
	BucketCaps    map[Bucket]Money `yaml:"bucket_caps" json:"bucket_caps"`
	DoorCaps      DoorCaps         `yaml:"door_caps" json:"door_caps"`
	FuelCellPerKW Money            `yaml:"fuel_cell_per_kw" json:"fuel_cell_per_kw"`
}

func capOf(v int64) *Money {
	m := Money{decimal.NewFromInt(v)}
	return &m
}

// DefaultRuleSet is the canonical 2023-2032 rule revision.
func DefaultRuleSet() RuleSet {
	rate := Money{decimal.RequireFromString("0.30")}
	rule := func(item Item, bucket Bucket, c *Money) CreditRule {
		return CreditRule{Item: item, Bucket: bucket, Rate: rate, Cap: c}
	}
	return RuleSet{
		TaxYear: 2024,
		Rules: []CreditRule{
			rule(ItemSolarElectric, BucketCleanEnergy, nil),
			rule(ItemSolarWater, BucketCleanEnergy, nil),
			rule(ItemSmallWind, BucketCleanEnergy, nil),
			rule(ItemGeothermal, BucketCleanEnergy, nil),
			rule(ItemBatteryStorage, BucketCleanEnergy, nil),
			rule(ItemFuelCell, BucketCleanEnergy, nil),

			rule(ItemInsulation, BucketGeneral, nil),
			rule(ItemWindows, BucketGeneral, capOf(600)),
			rule(ItemExteriorDoors, BucketGeneral, nil),
			rule(ItemCentralAir, BucketGeneral, capOf(600)),
			rule(ItemWaterHeater, BucketGeneral, capOf(600)),
			rule(ItemFurnaceBoiler, BucketGeneral, capOf(600)),
			rule(ItemElectricalPanel, BucketGeneral, capOf(600)),
			rule(ItemEnergyAudit, BucketGeneral, capOf(150)),

			rule(ItemHeatPump, BucketHeatPump, nil),
			rule(ItemBiomass, BucketHeatPump, nil),
		},
		BucketCaps: map[Bucket]Money{
			BucketGeneral:  *capOf(1200),
			BucketHeatPump: *capOf(2000),
		},
		DoorCaps: DoorCaps{
			Single:   *capOf(250),
			Multiple: *capOf(500),
		},
		FuelCellPerKW: *capOf(1000),
	}
}

// Rule returns the rule for item.
func (rs RuleSet) Rule(item Item) (CreditRule, bool) {
	for _, r := range rs.Rules {
		if r.Item == item {
			return r, true
		}
	}
	return CreditRule{}, false
}

// Validate checks that every item has exactly one well-formed rule.
func (rs RuleSet) Validate() error {
	seen := make(map[Item]bool, len(rs.Rules))
	one := decimal.NewFromInt(1)
	for _, r := range rs.Rules {
		if !r.Item.Valid() {
			return fmt.Errorf("unknown item %q", r.Item)
		}
		if seen[r.Item] {
			return fmt.Errorf("duplicate rule for %q", r.Item)
		}
		seen[r.Item] = true
		switch r.Bucket {
		case BucketCleanEnergy, BucketGeneral, BucketHeatPump:
		default:
			return fmt.Errorf("%s: unknown bucket %q", r.Item, r.Bucket)
		}
		if r.Rate.IsNegative() || r.Rate.GreaterThan(one) {
			return fmt.Errorf("%s: rate %s outside [0, 1]", r.Item, r.Rate)
		}
		if r.Cap != nil && r.Cap.IsNegative() {
			return fmt.Errorf("%s: negative cap %s", r.Item, r.Cap)
		}
	}
	for _, item := range AllItems {
		if !seen[item] {
			return fmt.Errorf("missing rule for %q", item)
		}
	}
	for b, c := range rs.BucketCaps {
		if c.IsNegative() {
			return fmt.Errorf("bucket %q: negative cap %s", b, c)
		}
	}
	if _, ok := rs.BucketCaps[BucketCleanEnergy]; ok {
		return errors.New("clean energy bucket cannot carry an aggregate cap")
	}
	if rs.DoorCaps.Single.IsNegative() || rs.DoorCaps.Multiple.IsNegative() {
		return errors.New("door caps must not be negative")
	}
	if rs.FuelCellPerKW.IsNegative() {
		return errors.New("fuel cell per-kW limit must not be negative")
	}
	return nil
}
