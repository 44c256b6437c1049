// Package scrape turns fetched ranking pages into groups of instrument
// records and evaluates the configured cross-source intersections over
// them.
package scrape

import (
	"errors"
	"fmt"

	"FubonScan-Backend/pkg/extract"
	"FubonScan-Backend/pkg/model"
	"FubonScan-Backend/pkg/normalize"
)

// ErrExtractionExhausted means every extraction strategy came up empty for
// a page. Fatal to that one group's build, never to the batch.
var ErrExtractionExhausted = errors.New("no extraction strategy produced rows")

// Target is one configured page to scrape into a group.
type Target struct {
	Label     string
	URL       string
	DualSided bool   // page shows two ranked lists in one document
	Side      string // marker text of the wanted list, e.g. 買超
	Opposite  string // marker text of the other list, e.g. 賣超
}

// BuildGroup extracts, normalizes and deduplicates one page (or one side of
// a dual-list page) into a group. The first occurrence of a code wins;
// later duplicates from the same source are dropped silently.
func BuildGroup(t Target, html string) (*model.Group, error) {
	text := html
	if t.DualSided {
		segment, err := extract.Segment(html, t.Side, t.Opposite)
		if err != nil {
			return nil, fmt.Errorf("group %s: %w", t.Label, err)
		}
		text = segment
	}

	pairs := extract.Pairs(text)
	if len(pairs) == 0 {
		return nil, fmt.Errorf("group %s: %w", t.Label, ErrExtractionExhausted)
	}

	group := model.NewGroup(t.Label)
	for _, pair := range pairs {
		record, ok := normalize.Pair(pair.Code, pair.Name)
		if !ok {
			continue // scrape noise, not an error
		}
		group.Add(record)
	}
	return group, nil
}
