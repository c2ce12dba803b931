package pernoite

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"pernoite/internal/odt"
)

const templateBody = `<text:h text:style-name="Titulo">PERNOITE DE {{DATA}} PARA {{DATA_SEGUINTE}}</text:h>
<text:p text:style-name="P2">Sargento: <text:span>{{SGT_DE_DIA}}</text:span></text:p>
<text:p>Guarnição: {{CB_GUARNICAO}}</text:p>
<text:p>{{CAMPO_DESCONHECIDO}}</text:p>
<table:table>
<table:table-row><table:table-cell><text:p>{{CMT_GDA}}</text:p></table:table-cell><table:table-cell><text:p text:style-name="Num">{{EFETIVO_TOTAL}}</text:p></table:table-cell></table:table-row>
<table:table-row><table:table-cell><text:p>{{PLAN</text:p><text:p>TAO_1}}</text:p></table:table-cell><table:table-cell><text:p>{{PLANTAO_2}}</text:p></table:table-cell></table:table-row>
</table:table>`

func texts(doc *odt.Document) []string {
	var out []string
	for _, p := range doc.Paragraphs() {
		out = append(out, odt.Text(p))
	}
	return out
}

func testValues() FieldValues {
	return FieldValues{
		"DATA":          "09 JULHO 25",
		"DATA_SEGUINTE": "10 JULHO 25",
		"SGT_DE_DIA":    "  SILVA --",
		"CB_GUARNICAO":  "- CB SOUZA\n  - CB LIMA",
		"CMT_GDA":       "CMT DA GUARDA: 2º SGT SOUZA",
		"EFETIVO_TOTAL": "08",
		"PLANTAO_1":     "SD D",
		"PLANTAO_2":     Dash,
	}
}

func testOptions() SubstituteOptions {
	return SubstituteOptions{
		ParagraphLineBreaks: true,
		CenterWhenEmpty:     map[string]bool{"PLANTAO_2": true, "PLANTAO_1": true},
		Numeric:             map[string]bool{"EFETIVO_TOTAL": true},
	}
}

func TestSubstituteParagraph(t *testing.T) {
	doc, err := odt.New(`<text:p>Sargento: {{SGT_DE_DIA}}</text:p>`)
	if err != nil {
		t.Fatal(err)
	}
	Substitute(doc, FieldValues{"SGT_DE_DIA": "SILVA"}, SubstituteOptions{})
	if diff := cmp.Diff([]string{"Sargento: SILVA"}, texts(doc)); diff != "" {
		t.Fatalf("unexpected text: diff (-want +got):\n%s", diff)
	}
}

func TestSubstitute(t *testing.T) {
	doc, err := odt.New(templateBody)
	if err != nil {
		t.Fatal(err)
	}
	stats := Substitute(doc, testValues(), testOptions())

	want := []string{
		"PERNOITE DE 09 JULHO 25 PARA 10 JULHO 25",
		"Sargento: SILVA",
		"Guarnição: - CB SOUZA\n  - CB LIMA",
		"{{CAMPO_DESCONHECIDO}}",
		"CMT DA GUARDA: 2º SGT SOUZA",
		"08",
		"SD D",
		Dash,
	}
	if diff := cmp.Diff(want, texts(doc)); diff != "" {
		t.Fatalf("unexpected text: diff (-want +got):\n%s", diff)
	}

	wantStats := Stats{
		Paragraphs: 6,
		Cells:      1,
		Replaced: map[string]int{
			"DATA":          1,
			"DATA_SEGUINTE": 1,
			"SGT_DE_DIA":    1,
			"CB_GUARNICAO":  1,
			"CMT_GDA":       1,
			"EFETIVO_TOTAL": 1,
			"PLANTAO_1":     1,
			"PLANTAO_2":     1,
		},
		Unresolved: map[string]int{"CAMPO_DESCONHECIDO": 1},
	}
	if diff := cmp.Diff(wantStats, stats); diff != "" {
		t.Errorf("unexpected stats: diff (-want +got):\n%s", diff)
	}

	var styles []string
	for _, p := range doc.Paragraphs() {
		styles = append(styles, p.SelectAttrValue("text:style-name", ""))
	}
	wantStyles := []string{
		"Titulo",
		"P2",
		"",
		"",
		"",
		"Num_Centro",
		"",
		"PernoiteCentro",
	}
	if diff := cmp.Diff(wantStyles, styles); diff != "" {
		t.Errorf("unexpected paragraph styles: diff (-want +got):\n%s", diff)
	}
}

func TestSubstituteParagraphWithoutLineBreaks(t *testing.T) {
	doc, err := odt.New(`<text:p>Guarnição: {{CB_GUARNICAO}}</text:p>`)
	if err != nil {
		t.Fatal(err)
	}
	Substitute(doc, testValues(), SubstituteOptions{})
	if diff := cmp.Diff([]string{"Guarnição: - CB SOUZA   - CB LIMA"}, texts(doc)); diff != "" {
		t.Fatalf("unexpected text: diff (-want +got):\n%s", diff)
	}
	if got := doc.Paragraphs()[0].SelectElements("text:line-break"); len(got) != 0 {
		t.Errorf("paragraph has %d line breaks, want none", len(got))
	}
}

func TestSubstituteIdempotent(t *testing.T) {
	doc, err := odt.New(templateBody)
	if err != nil {
		t.Fatal(err)
	}
	Substitute(doc, testValues(), testOptions())
	first, err := doc.Content.WriteToString()
	if err != nil {
		t.Fatal(err)
	}

	stats := Substitute(doc, testValues(), testOptions())
	if stats.Paragraphs != 0 || stats.Cells != 0 {
		t.Errorf("second pass rewrote %d paragraphs and %d cells, want none", stats.Paragraphs, stats.Cells)
	}
	second, err := doc.Content.WriteToString()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("second pass changed the document: diff (-first +second):\n%s", diff)
	}
}

func TestSubstituteRoundTrip(t *testing.T) {
	doc, err := odt.New(templateBody)
	if err != nil {
		t.Fatal(err)
	}
	values := testValues()
	Substitute(doc, values, testOptions())
	all := strings.Join(texts(doc), "\n")
	for key, v := range values {
		if strings.Contains(all, "{{"+key+"}}") {
			t.Errorf("token {{%s}} survived substitution", key)
		}
		if !strings.Contains(all, cleanValue(v)) {
			t.Errorf("value %q of %s missing from output", cleanValue(v), key)
		}
	}
}

func TestTokens(t *testing.T) {
	doc, err := odt.New(templateBody)
	if err != nil {
		t.Fatal(err)
	}
	got := Tokens(doc)
	want := map[string]int{
		"DATA":               1,
		"DATA_SEGUINTE":      1,
		"SGT_DE_DIA":         1,
		"CB_GUARNICAO":       1,
		"CAMPO_DESCONHECIDO": 1,
		"CMT_GDA":            1,
		"EFETIVO_TOTAL":      1,
		"PLANTAO_2":          1,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected tokens: diff (-want +got):\n%s", diff)
	}
}

func TestCleanValue(t *testing.T) {
	for in, want := range map[string]string{
		"  SILVA  ": "SILVA",
		"SILVA --":  "SILVA",
		"-":         "",
		Dash:        Dash,
		"- A\n  - B": "- A\n  - B",
	} {
		if got := cleanValue(in); got != want {
			t.Errorf("cleanValue(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSubstituteCellKeepsLineBreaks(t *testing.T) {
	doc, err := odt.New(`<text:p>Guarnição: {{CB_GUARNICAO}}</text:p>
<table:table><table:table-row><table:table-cell><text:p>{{CB_GUARNICAO}}</text:p></table:table-cell></table:table-row></table:table>`)
	if err != nil {
		t.Fatal(err)
	}
	Substitute(doc, testValues(), SubstituteOptions{ParagraphLineBreaks: false})
	want := []string{
		"Guarnição: - CB SOUZA   - CB LIMA",
		"- CB SOUZA\n  - CB LIMA",
	}
	if diff := cmp.Diff(want, texts(doc)); diff != "" {
		t.Fatalf("unexpected text: diff (-want +got):\n%s", diff)
	}
	if got := doc.Cells()[0].El.FindElements(".//text:line-break"); len(got) != 1 {
		t.Errorf("cell has %d line breaks, want 1", len(got))
	}
}
