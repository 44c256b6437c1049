package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kaptinlin/jsonrepair"

	"FubonScan-Backend/pkg/model"
)

// DefaultRules crosses each daily ranking (period × market) with the two
// tracked branches' net-buy lists for the same period.
func DefaultRules() []model.IntersectionRule {
	var rules []model.IntersectionRule
	for _, period := range []string{"單日", "3日", "5日"} {
		for _, market := range []string{"上市", "上櫃"} {
			dd := period + "_" + market
			rules = append(rules, model.IntersectionRule{
				Name: fmt.Sprintf("%s×1470×1650", dd),
				Groups: []string{
					dd,
					"ZGB_1470_" + period,
					"ZGB_1650_" + period,
				},
			})
		}
	}
	return rules
}

// LoadRules reads an overlap rule list from a JSON file. The file is meant
// to be hand-edited, so it is run through jsonrepair first; trailing commas
// and stray comments do not break a run.
func LoadRules(path string) ([]model.IntersectionRule, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rules file: %w", err)
	}
	repaired, err := jsonrepair.JSONRepair(string(raw))
	if err != nil {
		return nil, fmt.Errorf("rules file %s: %w", path, err)
	}
	var rules []model.IntersectionRule
	if err := json.Unmarshal([]byte(repaired), &rules); err != nil {
		return nil, fmt.Errorf("rules file %s: %w", path, err)
	}
	for i, rule := range rules {
		if rule.Name == "" {
			return nil, fmt.Errorf("rules file %s: rule %d has no name", path, i)
		}
	}
	return rules, nil
}
