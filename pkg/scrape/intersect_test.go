package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FubonScan-Backend/pkg/model"
)

func groupOf(label string, records ...model.Record) *model.Group {
	g := model.NewGroup(label)
	for _, r := range records {
		g.Add(r)
	}
	return g
}

func TestIntersectThreeWay(t *testing.T) {
	groups := map[string]*model.Group{
		"A": groupOf("A",
			model.Record{Code: "2330", Name: "TSMC"},
			model.Record{Code: "2317", Name: "Foxconn"}),
		"B": groupOf("B",
			model.Record{Code: "2330", Name: "TSMC-dup"},
			model.Record{Code: "9999", Name: "X"}),
		"C": groupOf("C",
			model.Record{Code: "2330", Name: ""},
			model.Record{Code: "2317", Name: "Foxconn2"}),
	}
	rule := model.IntersectionRule{Name: "ABC", Groups: []string{"A", "B", "C"}}

	result, dropped := Intersect(rule, groups)
	require.Empty(t, dropped)
	assert.Equal(t, []string{"2330"}, result.Codes())
	assert.Equal(t, "TSMC", result.NameOf("2330"), "earliest member's non-empty name wins")
}

func TestIntersectNameFallsThroughEmpty(t *testing.T) {
	groups := map[string]*model.Group{
		"A": groupOf("A", model.Record{Code: "2330", Name: ""}),
		"B": groupOf("B", model.Record{Code: "2330", Name: "台積電"}),
	}
	rule := model.IntersectionRule{Name: "AB", Groups: []string{"A", "B"}}

	result, _ := Intersect(rule, groups)
	assert.Equal(t, "台積電", result.NameOf("2330"),
		"placeholder name in the earlier group is skipped")
}

func TestIntersectSingleMemberIsIdentity(t *testing.T) {
	groups := map[string]*model.Group{
		"A": groupOf("A",
			model.Record{Code: "2330", Name: "台積電"},
			model.Record{Code: "2317", Name: "鴻海"}),
	}
	rule := model.IntersectionRule{Name: "only-A", Groups: []string{"A"}}

	result, dropped := Intersect(rule, groups)
	require.Empty(t, dropped)
	assert.Equal(t, []string{"2317", "2330"}, result.Codes(), "codes sorted ascending")
}

func TestIntersectNoMembers(t *testing.T) {
	result, dropped := Intersect(model.IntersectionRule{Name: "empty"}, nil)
	assert.Empty(t, dropped)
	assert.Zero(t, result.Len())
}

func TestIntersectMissingLabelDegradesToEmpty(t *testing.T) {
	groups := map[string]*model.Group{
		"A": groupOf("A", model.Record{Code: "2330", Name: "台積電"}),
	}
	rule := model.IntersectionRule{Name: "A∩ghost", Groups: []string{"A", "ghost"}}

	result, dropped := Intersect(rule, groups)
	assert.Empty(t, dropped)
	assert.Zero(t, result.Len(), "unresolvable member empties the overlap, no error")
}

func TestIntersectDisjoint(t *testing.T) {
	groups := map[string]*model.Group{
		"A": groupOf("A", model.Record{Code: "2330", Name: "台積電"}),
		"B": groupOf("B", model.Record{Code: "2603", Name: "長榮"}),
	}
	rule := model.IntersectionRule{Name: "AB", Groups: []string{"A", "B"}}

	result, _ := Intersect(rule, groups)
	assert.Zero(t, result.Len())
}

// Subset invariant: the result's codes are contained in every member's key
// set, with equality to the full intersection absent violations.
func TestIntersectSubsetOfMembers(t *testing.T) {
	groups := map[string]*model.Group{
		"A": groupOf("A",
			model.Record{Code: "2330", Name: "台積電"},
			model.Record{Code: "2317", Name: "鴻海"},
			model.Record{Code: "2603", Name: "長榮"}),
		"B": groupOf("B",
			model.Record{Code: "2317", Name: ""},
			model.Record{Code: "2603", Name: "長榮海運"}),
	}
	rule := model.IntersectionRule{Name: "AB", Groups: []string{"A", "B"}}

	result, dropped := Intersect(rule, groups)
	require.Empty(t, dropped)
	for _, code := range result.Codes() {
		for _, label := range rule.Groups {
			assert.True(t, groups[label].Has(code), "code %s missing from %s", code, label)
		}
	}
	assert.Equal(t, []string{"2317", "2603"}, result.Codes())
}

// The validation pass is unreachable through Intersect when the
// intersection itself is correct, so exercise it directly with a doctored
// result.
func TestValidateMembershipDropsPhantomCodes(t *testing.T) {
	members := []*model.Group{
		groupOf("A", model.Record{Code: "2330", Name: "台積電"}),
		groupOf("B", model.Record{Code: "2330", Name: ""}),
	}
	result := model.NewOverlapResult("doctored")
	result.Add("2330", "台積電")
	result.Add("9999", "幽靈")

	dropped := validateMembership(result, members)
	assert.Equal(t, []string{"9999"}, dropped)
	assert.False(t, result.Has("9999"))
	assert.True(t, result.Has("2330"))
}
