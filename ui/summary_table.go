package ui

import (
	"math"
	"sort"
	"strconv"

	"craftcalc/calculator"
	"craftcalc/input"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

//
// A read-only table whose first row is a bold header. Used for the summary
// and the inventory views.
//

// DataTable wraps a *widget.Table over a [][]string.
type DataTable struct {
	Table  *widget.Table
	header []string
	rows   [][]string
}

// NewDataTable constructs a table with the given header and column widths.
func NewDataTable(header []string, widths ...float32) *DataTable {
	t := &DataTable{header: header, rows: [][]string{header}}
	t.Table = widget.NewTable(
		func() (int, int) {
			return len(t.rows), len(t.header)
		},
		func() fyne.CanvasObject {
			lbl := widget.NewLabel("")
			lbl.Alignment = fyne.TextAlignLeading
			return container.NewPadded(lbl)
		},
		func(id widget.TableCellID, cell fyne.CanvasObject) {
			cont := cell.(*fyne.Container)
			lbl := cont.Objects[0].(*widget.Label)
			if id.Row < len(t.rows) && id.Col < len(t.rows[id.Row]) {
				lbl.SetText(t.rows[id.Row][id.Col])
				if id.Row == 0 {
					lbl.TextStyle.Bold = true
					lbl.Alignment = fyne.TextAlignCenter
				} else {
					lbl.TextStyle.Bold = false
					if id.Col == len(t.header)-1 {
						lbl.Alignment = fyne.TextAlignTrailing
					} else {
						lbl.Alignment = fyne.TextAlignLeading
					}
				}
			} else {
				lbl.SetText("")
			}
			lbl.Refresh()
		},
	)
	for col, w := range widths {
		t.Table.SetColumnWidth(col, w)
	}
	return t
}

// SetRows replaces the body rows and refreshes the widget.
func (t *DataTable) SetRows(rows [][]string) {
	t.rows = append([][]string{t.header}, rows...)
	t.Table.Refresh()
}

// Rows returns the body rows.
func (t *DataTable) Rows() [][]string { return t.rows[1:] }

// SummaryRows flattens a product breakdown into Category | Item | Quantity
// rows. Base demand is rounded up to whole units.
func SummaryRows(p calculator.Products) [][]string {
	var rows [][]string
	add := func(category string, m map[string]float64, ceil bool) {
		for _, item := range sortedKeys(m) {
			v := m[item]
			if ceil {
				v = math.Ceil(v - calculator.Epsilon)
			}
			rows = append(rows, []string{category, item, input.FormatQuantity(v)})
		}
	}
	add("Base", p.Base, true)
	add("Finished", p.Finished, false)
	add("Intermediate", p.Intermediate, false)
	add("Byproduct", p.Byproduct, false)
	return rows
}

// StockRows lists an inventory as Item | Quantity rows, sorted by name.
func StockRows(stock map[string]float64) [][]string {
	rows := make([][]string, 0, len(stock))
	for _, item := range sortedKeys(stock) {
		rows = append(rows, []string{item, input.FormatQuantity(stock[item])})
	}
	return rows
}

// CraftableRows lists reverse results as Item | Craftable rows, sorted by name.
func CraftableRows(all map[string]int) [][]string {
	names := make([]string, 0, len(all))
	for item := range all {
		names = append(names, item)
	}
	sort.Strings(names)
	rows := make([][]string, 0, len(names))
	for _, item := range names {
		rows = append(rows, []string{item, strconv.Itoa(all[item])})
	}
	return rows
}
