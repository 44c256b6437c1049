package extract

import (
	"errors"
	"strings"
	"testing"
)

const dualPage = `
<html><body>
<td class="t10">買超</td>
<table><tr><td><a onclick="GenLink2stk('AS2330','台積電');">2330台積電</a></td></tr></table>
<td class="t10">賣超</td>
<table><tr><td><a onclick="GenLink2stk('AS2603','長榮');">2603長榮</a></td></tr></table>
</body></html>`

func TestSegmentBuySide(t *testing.T) {
	segment, err := Segment(dualPage, "買超", "賣超")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(segment, "2330") {
		t.Errorf("buy segment missing 2330: %q", segment)
	}
	if strings.Contains(segment, "2603") {
		t.Errorf("buy segment leaked sell side: %q", segment)
	}
}

func TestSegmentSellSide(t *testing.T) {
	// The opposite marker never recurs after the sell heading, so the
	// segment runs to end of document.
	segment, err := Segment(dualPage, "賣超", "買超")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(segment, "2603") {
		t.Errorf("sell segment missing 2603: %q", segment)
	}
	if strings.Contains(segment, "2330") {
		t.Errorf("sell segment leaked buy side: %q", segment)
	}
}

func TestSegmentPaddedMarker(t *testing.T) {
	page := `<td> 買超 </td><a onclick="GenLink2stk('AS2330','台積電');">台積電</a>`
	segment, err := Segment(page, "買超", "賣超")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(segment, "2330") {
		t.Errorf("padded marker segment missing 2330: %q", segment)
	}
}

func TestSegmentMissingSide(t *testing.T) {
	page := `<td>賣超</td><table><tr><td>2603 長榮</td></tr></table>`
	_, err := Segment(page, "買超", "賣超")
	if !errors.Is(err, ErrSegmentNotFound) {
		t.Fatalf("Segment err = %v, want ErrSegmentNotFound", err)
	}
}

func TestSegmentFeedsCascade(t *testing.T) {
	segment, err := Segment(dualPage, "買超", "賣超")
	if err != nil {
		t.Fatal(err)
	}
	pairs := Pairs(segment)
	if len(pairs) != 1 || pairs[0].Code != "2330" {
		t.Errorf("Pairs(buy segment) = %v, want exactly 2330", pairs)
	}
}
