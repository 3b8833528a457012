package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// FlattenTable converts a table into one line per data row, pairing every
// header cell with the cell in the same column: "Name: Ann, Age: 30".
// It returns false when the table has fewer than two rows.
func FlattenTable(table *goquery.Selection) (string, bool) {
	return FlattenRows(tableRows(table))
}

// FlattenRows flattens rows whose first row is the header. Missing data
// cells become empty values and cells beyond the header width are ignored.
func FlattenRows(rows [][]string) (string, bool) {
	if len(rows) < 2 {
		return "", false
	}

	header := rows[0]
	lines := make([]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		pairs := make([]string, 0, len(header))
		for j, name := range header {
			var value string
			if j < len(row) {
				value = row[j]
			}
			pairs = append(pairs, name+": "+value)
		}
		lines = append(lines, strings.Join(pairs, ", "))
	}

	return strings.Join(lines, "\n"), true
}

// tableRows collects the rows owned by the table, including those inside
// thead, tbody and tfoot, but not rows of nested tables.
func tableRows(table *goquery.Selection) [][]string {
	if table.Length() == 0 {
		return nil
	}
	owner := table.Get(0)

	var rows [][]string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		if tr.Closest("table").Get(0) != owner {
			return
		}
		var cells []string
		tr.ChildrenFiltered("th, td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, cellText(cell))
		})
		rows = append(rows, cells)
	})
	return rows
}

func cellText(cell *goquery.Selection) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(cell.Text(), " "))
}
