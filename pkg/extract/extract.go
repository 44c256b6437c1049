// Package extract pulls raw (code, name) pairs out of the brokerage ranking
// pages. The same site family serves three structurally different layouts,
// so extraction is a fixed cascade of strategies: the first one to yield
// anything wins and the rest are never consulted. Results from different
// strategies are structurally incompatible and must not be merged.
package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// RawPair is a candidate code/name pair straight off the page, before
// normalization. Codes may still carry full-width characters.
type RawPair struct {
	Code string
	Name string
}

var (
	// onclick="GenLink2stk('AS2330','台積電');" — the site's standard
	// "navigate to instrument" idiom. The code may carry a full-width
	// letter suffix.
	reLinkCode = regexp.MustCompile(`GenLink2stk\('[^0-9']*?([0-9]{4,6}[A-Za-zＡ-Ｚａ-ｚ]?)'`)

	// The same call with both arguments as quoted literals, matched over
	// the raw markup. Catches rows written entirely by script.
	reScriptCall = regexp.MustCompile(`(?i)GenLink2stk\('[^']*?([0-9]{4,6}[A-Za-zＡ-Ｚａ-ｚ]?)'\s*,\s*'([^']+)'\)`)

	// Row-level scan for tables without usable headers: a code run, then
	// either separator characters and a name, or a name starting with a
	// CJK ideograph glued straight onto the code.
	reRowPair = regexp.MustCompile(`(?:^|[^0-9A-Za-zＡ-Ｚａ-ｚ])([0-9]{4,6}[A-Za-zＡ-Ｚａ-ｚ]?)(?:[，,\s]+([\p{Han}A-Za-zＡ-Ｚａ-ｚ0-9\-._]+)|([\p{Han}][\p{Han}A-Za-zＡ-Ｚａ-ｚ0-9\-._]*))`)

	// First standalone 4-6 digit run in a cell.
	reCellCode = regexp.MustCompile(`(?:^|[^0-9])([0-9]{4,6})(?:[^0-9]|$)`)

	reWhitespace = regexp.MustCompile(`[\s\x{00A0}]+`)
)

// Header synonyms the site uses for the code and name columns.
var (
	codeHeaders = []string{"代號", "證券代號"}
	nameHeaders = []string{"名稱", "股票名稱", "證券名稱"}
)

// strategies is the fixed extraction order. Strategies share nothing and
// never call each other.
var strategies = []func(string) []RawPair{
	fromInstrumentLinks,
	fromScriptCalls,
	fromTables,
}

// Pairs runs the extraction cascade over one page (or one side-segment of a
// dual-list page) and returns the first non-empty strategy result, in
// document order. Nil means every strategy came up empty.
func Pairs(html string) []RawPair {
	for _, strategy := range strategies {
		if pairs := strategy(html); len(pairs) > 0 {
			return pairs
		}
	}
	return nil
}

// fromInstrumentLinks walks the DOM for elements whose onclick carries a
// GenLink2stk call and uses the element's visible text as the name. This is
// the most reliable shape: the pages link every listed instrument this way.
func fromInstrumentLinks(html string) []RawPair {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var pairs []RawPair
	doc.Find("[onclick]").Each(func(_ int, sel *goquery.Selection) {
		onclick, _ := sel.Attr("onclick")
		m := reLinkCode.FindStringSubmatch(onclick)
		if m == nil {
			return
		}
		code := m[1]
		name := strings.TrimSpace(sel.Text())
		if name == "" {
			return
		}
		// Visible text often repeats the code ("2330台積電").
		name = strings.TrimLeft(strings.TrimPrefix(name, code), " \t ")
		pairs = append(pairs, RawPair{Code: code, Name: name})
	})
	return pairs
}

// fromScriptCalls scans the raw markup for GenLink2stk('code','name')
// literals. Reaches rows the DOM walk cannot, e.g. cells populated by
// document.write.
func fromScriptCalls(html string) []RawPair {
	var pairs []RawPair
	for _, m := range reScriptCall.FindAllStringSubmatch(html, -1) {
		name := strings.TrimSpace(m[2])
		if name == "" {
			continue
		}
		pairs = append(pairs, RawPair{Code: m[1], Name: name})
	}
	return pairs
}

// fromTables parses every <table> independently. Tables whose header row
// names a code column and a name column are mapped directly; the first such
// table with at least one valid row wins. Otherwise every row of every
// table is scanned with a single code+name regex and the union is returned.
func fromTables(html string) []RawPair {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var grids [][][]string
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		if grid := tableGrid(table); len(grid) > 0 {
			grids = append(grids, grid)
		}
	})
	if len(grids) == 0 {
		return nil
	}

	for _, grid := range grids {
		if pairs := fromHeaderedGrid(grid); len(pairs) > 0 {
			return pairs
		}
	}

	// Fallback: row-level scan across every table.
	var pairs []RawPair
	for _, grid := range grids {
		for _, row := range grid {
			text := strings.Join(row, " ")
			m := reRowPair.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			name := m[2]
			if name == "" {
				name = m[3]
			}
			pairs = append(pairs, RawPair{Code: m[1], Name: name})
		}
	}
	return pairs
}

// fromHeaderedGrid maps a table through its header row, if the header names
// both a code and a name column.
func fromHeaderedGrid(grid [][]string) []RawPair {
	header := grid[0]
	codeCol := headerIndex(header, codeHeaders)
	nameCol := headerIndex(header, nameHeaders)
	if codeCol < 0 || nameCol < 0 {
		return nil
	}

	var pairs []RawPair
	for _, row := range grid[1:] {
		if codeCol >= len(row) || nameCol >= len(row) {
			continue
		}
		m := reCellCode.FindStringSubmatch(row[codeCol])
		if m == nil {
			continue
		}
		pairs = append(pairs, RawPair{Code: m[1], Name: row[nameCol]})
	}
	return pairs
}

func headerIndex(header []string, synonyms []string) int {
	for i, cell := range header {
		for _, syn := range synonyms {
			if strings.Contains(cell, syn) {
				return i
			}
		}
	}
	return -1
}

// tableGrid flattens one table's rows into trimmed cell text. Nested-table
// text is included in the outer cell, which is harmless for both the header
// mapping and the row scan.
func tableGrid(table *goquery.Selection) [][]string {
	var grid [][]string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var row []string
		tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			text := reWhitespace.ReplaceAllString(cell.Text(), " ")
			row = append(row, strings.TrimSpace(text))
		})
		if len(row) > 0 {
			grid = append(grid, row)
		}
	})
	return grid
}
