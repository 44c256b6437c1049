// Package normalize canonicalizes raw code/name pairs scraped from the
// ranking pages. The site mixes full-width and half-width characters and
// decorates names with footnote asterisks; everything downstream works on
// the cleaned form only.
package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"FubonScan-Backend/pkg/model"
)

var (
	// Instrument codes: 4-6 digits with an optional letter suffix
	// (ETFs/warrants like 00632R). Stored uppercase.
	reCode = regexp.MustCompile(`^[0-9]{4,6}[A-Za-z]?$`)

	// \s plus the non-breaking and ideographic spaces the pages use.
	reSpace = regexp.MustCompile(`[\s\x{00A0}\x{3000}]+`)
)

// Pair canonicalizes one raw pair. The second return is false when the
// code cannot be brought to canonical form; such pairs are routine scrape
// noise (header fragments, rank numbers, ad cells) and carry no record.
func Pair(rawCode, rawName string) (model.Record, bool) {
	code := norm.NFKC.String(rawCode) // full-width digits/letters to half-width
	code = reSpace.ReplaceAllString(code, "")
	code = strings.ToUpper(code)
	if !reCode.MatchString(code) {
		return model.Record{}, false
	}

	name := strings.ReplaceAll(rawName, "*", "")
	name = reSpace.ReplaceAllString(name, " ")
	name = strings.TrimSpace(name)

	return model.Record{Code: code, Name: name}, true
}
