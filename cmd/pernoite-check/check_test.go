package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"pernoite/internal/odt"
	"pernoite/internal/pernoite"
)

func TestCheck(t *testing.T) {
	doc, err := odt.New(`<text:p>{{SGT_DE_DIA}} {{SGT_DE_DIA}}</text:p><text:p>{{SARGENTO}}</text:p>`)
	if err != nil {
		t.Fatal(err)
	}
	fn := filepath.Join(t.TempDir(), "modelo_pernoite.odt")
	if err := doc.Save(fn); err != nil {
		t.Fatal(err)
	}

	cfg := &pernoite.Config{
		Roles: pernoite.RoleMapping{
			{Key: "SGT_DE_DIA", Label: "SGT DE DIA"},
			{Key: "CB_DE_DIA", Label: "CB DE DIA"},
		},
	}
	var buf bytes.Buffer
	err = check1(fn, cfg, &buf)
	if err == nil || !strings.Contains(err.Error(), "[SARGENTO]") {
		t.Fatalf("check1() = %v, want an error naming SARGENTO", err)
	}

	want := []string{
		"SARGENTO               1  UNKNOWN",
		"SGT_DE_DIA             2  ok",
		"CB_DE_DIA              0  unused",
		"DATA                   0  unused",
		"DATA_SEGUINTE          0  unused",
		"DIA_SEMANA             0  unused",
	}
	got := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected listing: diff (-want +got):\n%s", diff)
	}
}

func TestCheckClean(t *testing.T) {
	doc, err := odt.New(`<text:p>Pernoite de {{DATA}}</text:p>`)
	if err != nil {
		t.Fatal(err)
	}
	fn := filepath.Join(t.TempDir(), "modelo_pernoite.odt")
	if err := doc.Save(fn); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := check1(fn, pernoite.DefaultConfig(), &buf); err != nil {
		t.Fatal(err)
	}
}
