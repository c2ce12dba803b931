package odt

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Text returns the text content of tok: character data as is, and for an
// element the depth-first concatenation of its descendants. The ODF space,
// tab and line-break elements render as the characters they stand for.
func Text(tok etree.Token) string {
	var sb strings.Builder
	writeText(&sb, tok)
	return sb.String()
}

func writeText(sb *strings.Builder, tok etree.Token) {
	switch t := tok.(type) {
	case *etree.CharData:
		sb.WriteString(t.Data)
	case *etree.Element:
		switch t.FullTag() {
		case "text:s":
			n, err := strconv.Atoi(t.SelectAttrValue("text:c", "1"))
			if err != nil || n < 1 {
				n = 1
			}
			sb.WriteString(strings.Repeat(" ", n))
			return
		case "text:tab":
			sb.WriteByte('\t')
			return
		case "text:line-break":
			sb.WriteByte('\n')
			return
		}
		if anchored(t) {
			return
		}
		for _, c := range t.Child {
			writeText(sb, c)
		}
	}
}

// anchored reports whether el is content anchored in a paragraph rather
// than part of its text: frames, images, shapes and comments.
func anchored(el *etree.Element) bool {
	switch el.FullTag() {
	case "office:annotation", "office:annotation-end":
		return true
	}
	return el.Space == "draw"
}

// SetText replaces the text of el with s. Anchored children such as
// draw:frame are kept, ahead of the new text; everything else is removed.
// Newlines become text:line-break elements when lineBreaks is set and
// single spaces otherwise. Runs of spaces and tabs are encoded so that ODF
// whitespace collapsing leaves them intact.
func SetText(el *etree.Element, s string, lineBreaks bool) {
	var kept []*etree.Element
	for _, c := range el.ChildElements() {
		if anchored(c) {
			kept = append(kept, c)
		}
	}
	for len(el.Child) > 0 {
		el.RemoveChildAt(len(el.Child) - 1)
	}
	for _, k := range kept {
		el.AddChild(k)
	}
	if !lineBreaks {
		s = strings.ReplaceAll(s, "\n", " ")
	}
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			el.CreateElement("text:line-break")
		}
		appendLine(el, line)
	}
}

func appendLine(el *etree.Element, line string) {
	var buf strings.Builder
	flush := func() {
		if buf.Len() > 0 {
			el.CreateText(buf.String())
			buf.Reset()
		}
	}
	for i := 0; i < len(line); {
		switch line[i] {
		case '\t':
			flush()
			el.CreateElement("text:tab")
			i++
		case ' ':
			j := i
			for j < len(line) && line[j] == ' ' {
				j++
			}
			n := j - i
			// A single space between words survives collapsing; anything
			// else (leading or repeated) needs text:s.
			if i > 0 && line[i-1] != '\t' {
				buf.WriteByte(' ')
				n--
			}
			if n > 0 {
				flush()
				sp := el.CreateElement("text:s")
				if n > 1 {
					sp.CreateAttr("text:c", strconv.Itoa(n))
				}
			}
			i = j
		default:
			buf.WriteByte(line[i])
			i++
		}
	}
	flush()
}
