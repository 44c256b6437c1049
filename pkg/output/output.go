// Package output writes one run's results as a JSON file and keeps the
// output directory from growing without bound.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/tidwall/pretty"

	"FubonScan-Backend/pkg/model"
)

// Payload is the on-disk shape of one run. In simple mode only the date and
// the overlaps are written.
type Payload struct {
	RunID    string                          `json:"run_id"`
	Date     string                          `json:"date"`
	Summary  *Summary                        `json:"summary,omitempty"`
	Data     map[string]*model.Group         `json:"data,omitempty"`
	Overlaps map[string]*model.OverlapResult `json:"overlaps"`
}

// Summary carries per-group and per-rule row counts for quick eyeballing.
type Summary struct {
	GroupCounts   map[string]int `json:"group_counts"`
	OverlapCounts map[string]int `json:"overlap_counts"`
}

// BuildPayload assembles the output document for one finished run.
func BuildPayload(runID string, date time.Time, groups map[string]*model.Group, overlaps map[string]*model.OverlapResult, simple bool) *Payload {
	p := &Payload{
		RunID:    runID,
		Date:     date.Format("2006-01-02"),
		Overlaps: overlaps,
	}
	if simple {
		return p
	}

	summary := &Summary{
		GroupCounts:   make(map[string]int, len(groups)),
		OverlapCounts: make(map[string]int, len(overlaps)),
	}
	for label, group := range groups {
		summary.GroupCounts[label] = group.Len()
	}
	for name, result := range overlaps {
		summary.OverlapCounts[name] = result.Len()
	}
	p.Summary = summary
	p.Data = groups
	return p
}

// Write stores the payload as fubon_<timestamp>.json under dir, creating
// the directory if needed, and returns the file path.
func Write(dir string, p *Payload) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("output dir: %w", err)
	}

	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("fubon_%s.json", time.Now().Format("20060102_150405")))
	if err := os.WriteFile(path, pretty.Pretty(raw), 0o644); err != nil {
		return "", fmt.Errorf("write payload: %w", err)
	}
	return path, nil
}

// Housekeep prunes prior fubon_*.json files under dir: everything when
// cleanAll is set, otherwise all but the newest maxKeep. Missing files and
// a missing directory are not errors.
func Housekeep(dir string, cleanAll bool, maxKeep int) error {
	matches, err := filepath.Glob(filepath.Join(dir, "fubon_*.json"))
	if err != nil {
		return err
	}
	sort.Strings(matches) // timestamped names sort oldest first

	var stale []string
	switch {
	case cleanAll:
		stale = matches
	case maxKeep > 0 && len(matches) > maxKeep:
		stale = matches[:len(matches)-maxKeep]
	}

	for _, path := range stale {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("housekeep %s: %w", path, err)
		}
	}
	return nil
}
