// Package model holds the value types shared by the scraping pipeline:
// instrument records, per-source groups and cross-source overlap results.
package model

import (
	"encoding/json"
	"sort"
)

// Record is one instrument row extracted from a ranked list. The JSON keys
// mirror the site's own column labels so the output files can be diffed
// against what the pages show.
type Record struct {
	Code string `json:"代號"`
	Name string `json:"名稱"`
}

// Group is the deduplicated set of records scraped from one configured
// source for one run. Codes are unique within a group; the first occurrence
// of a code wins and later duplicates are dropped. A group is built once and
// treated as read-only afterwards.
type Group struct {
	Label string

	names map[string]string
	codes []string // insertion order
}

// NewGroup returns an empty group for the given source label.
func NewGroup(label string) *Group {
	return &Group{
		Label: label,
		names: make(map[string]string),
	}
}

// Add inserts a record unless its code is already present. It reports
// whether the record was inserted.
func (g *Group) Add(r Record) bool {
	if _, dup := g.names[r.Code]; dup {
		return false
	}
	g.names[r.Code] = r.Name
	g.codes = append(g.codes, r.Code)
	return true
}

// Len returns the number of records in the group.
func (g *Group) Len() int { return len(g.codes) }

// Has reports whether the group contains code.
func (g *Group) Has(code string) bool {
	_, ok := g.names[code]
	return ok
}

// Name returns the display name stored for code, or "" if absent.
func (g *Group) Name(code string) string { return g.names[code] }

// Codes returns the group's codes in insertion order. The slice is a copy.
func (g *Group) Codes() []string {
	out := make([]string, len(g.codes))
	copy(out, g.codes)
	return out
}

// Records returns the group's records in insertion order.
func (g *Group) Records() []Record {
	out := make([]Record, 0, len(g.codes))
	for _, code := range g.codes {
		out = append(out, Record{Code: code, Name: g.names[code]})
	}
	return out
}

// MarshalJSON serializes the group as its records in insertion order, the
// shape the output files and downstream writers expect.
func (g *Group) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.Records())
}

// IntersectionRule names one overlap to compute: the intersection of the
// listed groups' code sets. Order matters for display-name resolution;
// earlier groups are authoritative.
type IntersectionRule struct {
	Name   string   `json:"name"`
	Groups []string `json:"groups"`
}

// OverlapResult is the outcome of one intersection rule: the codes common
// to every member group, each with a resolved display name. Derived at
// aggregation time and never mutated afterwards.
type OverlapResult struct {
	Name string

	names map[string]string
}

// NewOverlapResult returns an empty result for the given rule name.
func NewOverlapResult(name string) *OverlapResult {
	return &OverlapResult{
		Name:  name,
		names: make(map[string]string),
	}
}

// Add stores a code with its resolved display name.
func (o *OverlapResult) Add(code, name string) {
	o.names[code] = name
}

// Remove drops a code from the result.
func (o *OverlapResult) Remove(code string) {
	delete(o.names, code)
}

// Len returns the number of codes in the result.
func (o *OverlapResult) Len() int { return len(o.names) }

// Has reports whether the result contains code.
func (o *OverlapResult) Has(code string) bool {
	_, ok := o.names[code]
	return ok
}

// NameOf returns the display name stored for code, or "" if absent.
func (o *OverlapResult) NameOf(code string) string { return o.names[code] }

// Codes returns the result's codes in ascending order.
func (o *OverlapResult) Codes() []string {
	out := make([]string, 0, len(o.names))
	for code := range o.names {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Records returns the result's records in ascending code order.
func (o *OverlapResult) Records() []Record {
	codes := o.Codes()
	out := make([]Record, 0, len(codes))
	for _, code := range codes {
		out = append(out, Record{Code: code, Name: o.names[code]})
	}
	return out
}

// MarshalJSON serializes the result as its records in ascending code order.
func (o *OverlapResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Records())
}
