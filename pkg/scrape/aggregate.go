package scrape

import (
	"fmt"

	"go.uber.org/zap"

	"FubonScan-Backend/pkg/model"
)

// Fetcher retrieves one page as decoded text. Retry, backoff and charset
// resolution live behind this interface, not in the pipeline.
type Fetcher interface {
	Fetch(url string) (string, error)
}

// Aggregator runs the whole batch: every configured target is built into a
// group, sequentially, then every rule is evaluated over the completed
// groups. Per-group failures are logged and replaced with an empty group so
// the batch always completes and every rule always yields a result.
type Aggregator struct {
	fetcher Fetcher
	logger  *zap.Logger
}

// NewAggregator wires an aggregator to its page fetcher and logger.
func NewAggregator(fetcher Fetcher, logger *zap.Logger) *Aggregator {
	return &Aggregator{fetcher: fetcher, logger: logger}
}

// Run is the batch entry point. It never fails: a target whose fetch,
// segmentation or extraction fails contributes an empty group, and rules
// referencing it degrade to smaller (possibly empty) overlaps.
func (a *Aggregator) Run(targets []Target, rules []model.IntersectionRule) (map[string]*model.Group, map[string]*model.OverlapResult) {
	groups := make(map[string]*model.Group, len(targets))
	for _, target := range targets {
		group, err := a.buildTarget(target)
		if err != nil {
			a.logger.Warn("group build failed, continuing with empty group",
				zap.String("group", target.Label),
				zap.Error(err))
			group = model.NewGroup(target.Label)
		} else {
			a.logger.Info("group built",
				zap.String("group", target.Label),
				zap.Int("rows", group.Len()))
		}
		groups[target.Label] = group
	}

	overlaps := make(map[string]*model.OverlapResult, len(rules))
	for _, rule := range rules {
		result, dropped := Intersect(rule, groups)
		if len(dropped) > 0 {
			// Indicates an upstream defect; the codes are already gone
			// from the result but operators need to see this.
			a.logger.Warn("membership validation dropped codes",
				zap.String("rule", rule.Name),
				zap.Strings("codes", dropped))
		}
		a.logger.Info("rule evaluated",
			zap.String("rule", rule.Name),
			zap.Int("overlap", result.Len()))
		overlaps[rule.Name] = result
	}
	return groups, overlaps
}

func (a *Aggregator) buildTarget(t Target) (*model.Group, error) {
	html, err := a.fetcher.Fetch(t.URL)
	if err != nil {
		return nil, fmt.Errorf("group %s: %w", t.Label, err)
	}
	return BuildGroup(t, html)
}
