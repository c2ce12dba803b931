package pernoite

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/beevik/etree"

	"pernoite/internal/odt"
)

var tokenRe = regexp.MustCompile(`\{\{([^{}]+)\}\}`)

// SubstituteOptions controls how rewritten text is laid out.
type SubstituteOptions struct {
	// ParagraphLineBreaks keeps newlines as line breaks in paragraphs.
	ParagraphLineBreaks bool

	// CenterWhenEmpty fields center their paragraph when they substitute
	// Dash.
	CenterWhenEmpty map[string]bool

	// Numeric fields always center their paragraph.
	Numeric map[string]bool
}

// Options derives the substitution options configured in c.
func (c *Config) Options() SubstituteOptions {
	opts := SubstituteOptions{
		ParagraphLineBreaks: c.ParagraphLineBreaks,
		CenterWhenEmpty:     make(map[string]bool),
		Numeric:             make(map[string]bool),
	}
	for _, k := range c.CenterWhenEmpty {
		opts.CenterWhenEmpty[k] = true
	}
	for _, k := range c.Headcount.Keys() {
		opts.Numeric[k] = true
	}
	return opts
}

// Stats describes what a substitution pass changed.
type Stats struct {
	Paragraphs int
	Cells      int
	Replaced   map[string]int
	// Unresolved counts tokens left in place because no field has their
	// key.
	Unresolved map[string]int
}

// cleanValue trims whitespace and trailing hyphens from a field value.
func cleanValue(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimRight(v, "-")
	return strings.TrimRightFunc(v, unicode.IsSpace)
}

type substituter struct {
	doc    *odt.Document
	values FieldValues
	opts   SubstituteOptions
	stats  Stats
}

// rewrite replaces the tokens of text and reports the keys it replaced.
func (s *substituter) rewrite(text string) (string, []string) {
	var used []string
	out := tokenRe.ReplaceAllStringFunc(text, func(tok string) string {
		key := tok[2 : len(tok)-2]
		v, ok := s.values[key]
		if !ok {
			return tok
		}
		used = append(used, key)
		return cleanValue(v)
	})
	return out, used
}

func (s *substituter) centered(used []string) bool {
	for _, k := range used {
		if s.opts.Numeric[k] {
			return true
		}
		if s.opts.CenterWhenEmpty[k] && cleanValue(s.values[k]) == Dash {
			return true
		}
	}
	return false
}

func (s *substituter) record(used []string) {
	for _, k := range used {
		s.stats.Replaced[k]++
	}
}

func (s *substituter) center(p *etree.Element) {
	style := s.doc.CenteredStyle(p.SelectAttrValue("text:style-name", ""))
	p.CreateAttr("text:style-name", style)
}

func attached(el, root *etree.Element) bool {
	for ; el != nil; el = el.Parent() {
		if el == root {
			return true
		}
	}
	return false
}

// inCell reports whether p belongs to a table cell, where values always
// keep their line breaks.
func inCell(p *etree.Element) bool {
	for el := p.Parent(); el != nil; el = el.Parent() {
		if el.FullTag() == "table:table-cell" {
			return true
		}
	}
	return false
}

// Substitute replaces every {{KEY}} token in the paragraphs and table cells
// of doc with values[KEY]. Tokens without a value are left alone. Running it
// again on its own output changes nothing.
func Substitute(doc *odt.Document, values FieldValues, opts SubstituteOptions) Stats {
	s := &substituter{
		doc:    doc,
		values: values,
		opts:   opts,
		stats: Stats{
			Replaced:   make(map[string]int),
			Unresolved: make(map[string]int),
		},
	}
	root := doc.Content.Root()

	for _, p := range doc.Paragraphs() {
		if !attached(p, root) {
			continue
		}
		text := odt.Text(p)
		if text == "" {
			continue
		}
		out, used := s.rewrite(text)
		if out == text {
			continue
		}
		odt.SetText(p, out, opts.ParagraphLineBreaks || inCell(p))
		if s.centered(used) {
			s.center(p)
		}
		s.record(used)
		s.stats.Paragraphs++
	}

	// Tokens split across several paragraphs of one cell.
	for _, c := range doc.Cells() {
		if !attached(c.El, root) {
			continue
		}
		text := c.Text()
		if text == "" {
			continue
		}
		out, used := s.rewrite(text)
		if out == text {
			continue
		}
		var style string
		if first := c.El.SelectElement("text:p"); first != nil {
			style = first.SelectAttrValue("text:style-name", "")
		}
		for len(c.El.Child) > 0 {
			c.El.RemoveChildAt(len(c.El.Child) - 1)
		}
		p := c.El.CreateElement("text:p")
		if style != "" {
			p.CreateAttr("text:style-name", style)
		}
		odt.SetText(p, out, true)
		if s.centered(used) {
			s.center(p)
		}
		s.record(used)
		s.stats.Cells++
	}

	for key, n := range Tokens(doc) {
		s.stats.Unresolved[key] = n
	}
	return s.stats
}

// Tokens counts the {{KEY}} tokens left in the paragraphs of doc.
func Tokens(doc *odt.Document) map[string]int {
	tokens := make(map[string]int)
	for _, p := range doc.Paragraphs() {
		for _, m := range tokenRe.FindAllStringSubmatch(odt.Text(p), -1) {
			tokens[m[1]]++
		}
	}
	return tokens
}

// SortedKeys returns the keys of m in lexical order.
func SortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
