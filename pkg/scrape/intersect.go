package scrape

import (
	"FubonScan-Backend/pkg/model"
)

// Intersect evaluates one rule against the built groups: the intersection
// of the member groups' code sets, with a display name per code resolved by
// scanning the members in rule order and taking the first non-empty name.
//
// A label with no built group resolves to an empty group, so a source that
// failed to scrape degrades the overlap to empty instead of aborting the
// run. Zero or one member yields that member's own set unchanged.
//
// The second return lists codes dropped by membership validation; an empty
// slice is the normal case.
func Intersect(rule model.IntersectionRule, groups map[string]*model.Group) (*model.OverlapResult, []string) {
	members := make([]*model.Group, 0, len(rule.Groups))
	for _, label := range rule.Groups {
		group := groups[label]
		if group == nil {
			group = model.NewGroup(label)
		}
		members = append(members, group)
	}

	result := model.NewOverlapResult(rule.Name)
	if len(members) == 0 {
		return result, nil
	}

	for _, code := range members[0].Codes() {
		inAll := true
		for _, group := range members[1:] {
			if !group.Has(code) {
				inAll = false
				break
			}
		}
		if !inAll {
			continue
		}
		result.Add(code, resolveName(code, members))
	}

	dropped := validateMembership(result, members)
	return result, dropped
}

// resolveName takes the first non-empty name for code across the members in
// rule order. Some sources carry placeholder or empty names; earlier-listed
// groups are authoritative.
func resolveName(code string, members []*model.Group) string {
	for _, group := range members {
		if group.Has(code) {
			if name := group.Name(code); name != "" {
				return name
			}
		}
	}
	return ""
}

// validateMembership re-checks every code in the result against every
// member's key set and removes the ones that fail, returning them in
// ascending order. The check is redundant with a correct intersection; it
// stays as a runtime assertion so an upstream inconsistency can never leak
// a phantom code into operator-facing output.
func validateMembership(result *model.OverlapResult, members []*model.Group) []string {
	var dropped []string
	for _, code := range result.Codes() {
		for _, group := range members {
			if !group.Has(code) {
				result.Remove(code)
				dropped = append(dropped, code)
				break
			}
		}
	}
	return dropped
}
