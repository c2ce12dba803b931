package pernoite

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"pernoite/internal/escala"
	"pernoite/internal/odt"
)

// Dash is the value of a field the roster leaves unstaffed.
const Dash = "–"

// NameIndex holds, per normalized role label, the names found in the
// roster rows carrying that label, in row and cell order.
type NameIndex map[string][]string

// FieldValues maps template field keys to their final text.
type FieldValues map[string]string

// normalize upper-cases s and collapses its whitespace.
func normalize(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}

// BuildIndex scans every row of tables whose first cell holds a configured
// role label and collects the non-empty text of the remaining cells.
// Repeated names are kept, so a row listing the same soldier twice fills
// two slots.
func BuildIndex(tables []odt.Table, roles RoleMapping) NameIndex {
	labels := make(map[string]bool)
	for _, r := range roles {
		labels[normalize(r.Label)] = true
	}
	idx := make(NameIndex)
	for _, t := range tables {
		for _, row := range t.Rows() {
			cells := row.Cells()
			if len(cells) == 0 {
				continue
			}
			label := normalize(cells[0].Text())
			if !labels[label] {
				continue
			}
			for _, c := range cells[1:] {
				if name := strings.TrimSpace(c.Text()); name != "" {
					idx[label] = append(idx[label], name)
				}
			}
		}
	}
	return idx
}

// Names returns the names indexed under label.
func (idx NameIndex) Names(label string) []string {
	return idx[normalize(label)]
}

func labelPrefix(label string) *regexp.Regexp {
	words := strings.Fields(label)
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)^\s*` + strings.Join(words, `\s+`) + `(?:[\s:\-–]+|$)`)
}

// stripLabel drops a copy of label that the roster repeats in front of the
// name, as in "SGT DE DIA: SILVA".
func stripLabel(value, label string) string {
	return strings.TrimSpace(labelPrefix(label).ReplaceAllString(value, ""))
}

// Staffed reports whether v names someone.
func Staffed(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && v != Dash && v != "-"
}

// A Count is the headcount of one category of a group.
type Count struct {
	Group    string
	Category string
	N        int
}

// Resolve computes the value of every field in cfg.FieldOrder from the
// roster names and the reference day.
func Resolve(cfg *Config, idx NameIndex, day time.Time) FieldValues {
	vals := make(FieldValues)

	optional := make(map[string]bool)
	for _, k := range cfg.Optional {
		optional[k] = true
	}

	slot := make(map[string]int)
	for _, r := range cfg.Roles {
		label := normalize(r.Label)
		i := slot[label]
		slot[label]++

		var v string
		if names := idx[label]; i < len(names) {
			v = stripLabel(names[i], r.Label)
		}
		if tag, ok := cfg.Prefixes[r.Key]; ok && v != "" {
			v = tag + ": " + v
		}
		if v == "" && optional[r.Key] {
			v = Dash
		}
		vals[r.Key] = v
	}

	for _, comp := range cfg.Composites {
		var lines []string
		for _, part := range comp.Parts {
			if v := vals[part]; Staffed(v) {
				lines = append(lines, "- "+v)
			}
		}
		if len(lines) == 0 {
			vals[comp.Key] = Dash
			continue
		}
		vals[comp.Key] = strings.Join(lines, "\n  ")
	}

	total := 0
	for _, c := range Tally(cfg, vals) {
		vals[c.Category] = fmt.Sprintf("%02d", c.N)
	}
	for _, g := range cfg.Headcount.Groups {
		sub := 0
		for _, cat := range g.Categories {
			sub += countStaffed(vals, cat.Fields)
		}
		vals[g.Key] = fmt.Sprintf("%02d", sub)
		total += sub
	}
	if cfg.Headcount.TotalKey != "" {
		vals[cfg.Headcount.TotalKey] = fmt.Sprintf("%02d", total)
	}

	vals[KeyDate] = escala.Label(day)
	vals[KeyNextDate] = escala.Label(day.AddDate(0, 0, 1))
	vals[KeyWeekday] = escala.Weekday(day)
	return vals
}

func countStaffed(vals FieldValues, keys []string) int {
	n := 0
	for _, k := range keys {
		if Staffed(vals[k]) {
			n++
		}
	}
	return n
}

// Tally counts the staffed fields of every headcount category.
func Tally(cfg *Config, vals FieldValues) []Count {
	var counts []Count
	for _, g := range cfg.Headcount.Groups {
		for _, cat := range g.Categories {
			counts = append(counts, Count{
				Group:    g.Key,
				Category: cat.Key,
				N:        countStaffed(vals, cat.Fields),
			})
		}
	}
	return counts
}
