package odt

import "github.com/beevik/etree"

// A Table is a table:table element of the document body.
type Table struct {
	El *etree.Element
}

// A Row is a table:table-row element.
type Row struct {
	El *etree.Element
}

// A Cell is a table:table-cell element. Covered cells of merged ranges are
// not represented.
type Cell struct {
	El *etree.Element
}

// Text returns the flattened text of the cell.
func (c Cell) Text() string { return Text(c.El) }

func (d *Document) body() *etree.Element {
	if b := d.Content.FindElement("//office:body"); b != nil {
		return b
	}
	return d.Content.Root()
}

func collect(el *etree.Element, match func(*etree.Element) bool, out []*etree.Element) []*etree.Element {
	for _, c := range el.ChildElements() {
		if match(c) {
			out = append(out, c)
		}
		out = collect(c, match, out)
	}
	return out
}

// Paragraphs returns every text:p and text:h of the body in document order,
// including those inside table cells.
func (d *Document) Paragraphs() []*etree.Element {
	return collect(d.body(), func(el *etree.Element) bool {
		tag := el.FullTag()
		return tag == "text:p" || tag == "text:h"
	}, nil)
}

// Tables returns every table of the body in document order, nested tables
// included.
func (d *Document) Tables() []Table {
	var tables []Table
	for _, el := range collect(d.body(), isTag("table:table"), nil) {
		tables = append(tables, Table{El: el})
	}
	return tables
}

// Cells returns every table cell of the body in document order.
func (d *Document) Cells() []Cell {
	var cells []Cell
	for _, t := range d.Tables() {
		for _, r := range t.Rows() {
			cells = append(cells, r.Cells()...)
		}
	}
	return cells
}

func isTag(tag string) func(*etree.Element) bool {
	return func(el *etree.Element) bool { return el.FullTag() == tag }
}

// Rows returns the rows of t, looking through header and row groups but not
// into nested tables.
func (t Table) Rows() []Row {
	return appendRows(nil, t.El)
}

func appendRows(rows []Row, el *etree.Element) []Row {
	for _, c := range el.ChildElements() {
		switch c.FullTag() {
		case "table:table-row":
			rows = append(rows, Row{El: c})
		case "table:table-header-rows", "table:table-rows", "table:table-row-group":
			rows = appendRows(rows, c)
		}
	}
	return rows
}

// Cells returns the cells of r in column order.
func (r Row) Cells() []Cell {
	var cells []Cell
	for _, c := range r.El.ChildElements() {
		if c.FullTag() == "table:table-cell" {
			cells = append(cells, Cell{El: c})
		}
	}
	return cells
}
