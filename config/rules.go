package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"greengain/domain"
)

// LoadRules reads a YAML rule table. An empty path returns the built-in
// table. Sections omitted from the file keep their built-in values; a
// rules list, when present, replaces the built-in list entirely.
func LoadRules(path string) (domain.RuleSet, error) {
	rules := domain.DefaultRuleSet()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.RuleSet{}, fmt.Errorf("config: read rules: %w", err)
	}
	if err := ParseRules(data, &rules); err != nil {
		return domain.RuleSet{}, err
	}
	return rules, nil
}

// ParseRules decodes data over rules and validates the result.
func ParseRules(data []byte, rules *domain.RuleSet) error {
	var file struct {
		TaxYear       int                            `yaml:"tax_year"`
		Rules         []domain.CreditRule            `yaml:"rules"`
		BucketCaps    map[domain.Bucket]domain.Money `yaml:"bucket_caps"`
		DoorCaps      *domain.DoorCaps               `yaml:"door_caps"`
		FuelCellPerKW *domain.Money                  `yaml:"fuel_cell_per_kw"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("config: parse rules: %w", err)
	}

	if file.TaxYear != 0 {
		rules.TaxYear = file.TaxYear
	}
	if file.Rules != nil {
		rules.Rules = file.Rules
	}
	if file.BucketCaps != nil {
		rules.BucketCaps = file.BucketCaps
	}
	if file.DoorCaps != nil {
		rules.DoorCaps = *file.DoorCaps
	}
	if file.FuelCellPerKW != nil {
		rules.FuelCellPerKW = *file.FuelCellPerKW
	}

	if err := rules.Validate(); err != nil {
		return fmt.Errorf("config: rules: %w", err)
	}
	return nil
}
