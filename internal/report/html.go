package report

import (
	"fmt"
	"html"
	"io"

	"github.com/google/renameio"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
)

const footer = `</body>
</html>
`

func newGoldmark() goldmark.Markdown {
	return goldmark.New(
		// GFM is GitHub Flavored Markdown, which we need for tables.
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			goldmarkhtml.WithHardWraps(),
			goldmarkhtml.WithXHTML(),
		),
	)
}

// HTML writes s as a standalone XHTML page.
func HTML(w io.Writer, s Summary) error {
	fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta http-equiv="Content-Type" content="application/xhtml+xml; charset=UTF-8" />
<title>Pernoite %s</title>
</head>
<body>
`, html.EscapeString(s.Date))
	if err := newGoldmark().Convert(source(s), w); err != nil {
		return err
	}
	_, err := io.WriteString(w, footer)
	return err
}

// WriteHTML atomically writes the HTML report to fn.
func WriteHTML(fn string, s Summary) error {
	out, err := renameio.TempFile("", fn)
	if err != nil {
		return err
	}
	defer out.Cleanup()

	if err := HTML(out, s); err != nil {
		return err
	}
	return out.CloseAtomicallyReplace()
}
