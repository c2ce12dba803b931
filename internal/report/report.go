// Package report summarizes a run: a markdown table printed on the console
// and, on request, HTML and XLSX copies of it.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/Kunde21/markdownfmt/v2/markdown"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"pernoite/internal/pernoite"
)

// Field is one filled template field.
type Field struct {
	Key   string
	Value string
}

// Summary is what a run produced.
type Summary struct {
	Date   string
	Roster string
	Output string
	Fields []Field
	Counts []pernoite.Count
}

var cellReplacer = strings.NewReplacer("|", `\|`, "\n", " ")

func cell(s string) string {
	s = strings.Join(strings.Fields(cellReplacer.Replace(s)), " ")
	if s == "" {
		return " "
	}
	return s
}

func source(s Summary) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# Pernoite %s\n\n", s.Date)
	fmt.Fprintf(&buf, "Escala: `%s`\n\n", s.Roster)
	if s.Output != "" {
		fmt.Fprintf(&buf, "Saída: `%s`\n\n", s.Output)
	}
	buf.WriteString("| Campo | Valor |\n|---|---|\n")
	for _, f := range s.Fields {
		fmt.Fprintf(&buf, "| %s | %s |\n", cell(f.Key), cell(f.Value))
	}
	if len(s.Counts) > 0 {
		buf.WriteString("\n## Efetivo\n\n| Grupo | Categoria | Total |\n|---|---|--:|\n")
		for _, c := range s.Counts {
			fmt.Fprintf(&buf, "| %s | %s | %02d |\n", cell(c.Group), cell(c.Category), c.N)
		}
	}
	return buf.Bytes()
}

// Markdown renders s as markdown with aligned tables.
func Markdown(s Summary) ([]byte, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRenderer(markdown.NewRenderer()),
	)
	var buf bytes.Buffer
	if err := md.Convert(source(s), &buf); err != nil {
		return nil, fmt.Errorf("format report: %w", err)
	}
	return buf.Bytes(), nil
}
