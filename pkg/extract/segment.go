package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrSegmentNotFound means a dual-list page carried no marker for the
// requested side. A changed layout and a side rendered without its heading
// are indistinguishable here, so the condition is surfaced, not guessed at.
var ErrSegmentNotFound = errors.New("side marker not found")

var reSegmentSpace = regexp.MustCompile(`\s+`)

// Segment isolates one side of a page that shows two ranked lists in a
// single document (net-buy next to net-sell). It returns the substring from
// the requested side's ">side<" marker up to the opposite side's marker, or
// to end of document when the opposite marker is absent. The result is fed
// to the extraction cascade as if it were a full page.
func Segment(html, side, opposite string) (string, error) {
	compact := reSegmentSpace.ReplaceAllString(html, " ")

	start := strings.Index(compact, ">"+side+"<")
	if start == -1 {
		// Tolerate padding inside the tag text.
		re := regexp.MustCompile(`> *` + regexp.QuoteMeta(side) + ` *<`)
		if loc := re.FindStringIndex(compact); loc != nil {
			start = loc[0]
		}
	}
	if start == -1 {
		return "", fmt.Errorf("%q: %w", side, ErrSegmentNotFound)
	}

	end := strings.Index(compact[start+1:], ">"+opposite+"<")
	if end == -1 {
		return compact[start:], nil
	}
	return compact[start : start+1+end], nil
}
