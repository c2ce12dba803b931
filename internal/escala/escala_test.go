package escala

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestLabel(t *testing.T) {
	for _, tt := range []struct {
		t    time.Time
		want string
	}{
		{date(2025, time.July, 9), "09 JULHO 25"},
		{date(2025, time.March, 31), "31 MARÇO 25"},
		{date(2009, time.December, 1), "01 DEZEMBRO 09"},
	} {
		if got := Label(tt.t); got != tt.want {
			t.Errorf("Label(%v) = %q, want %q", tt.t, got, tt.want)
		}
	}
}

func TestMatch(t *testing.T) {
	day := date(2025, time.July, 9)
	names := []string{
		"ADT 12 DE 10 JULHO 25.odt",
		"notas.txt",
		"ADT 12 DE 09 JULHO 25.odt",
		"ADT 13 DE 09 JULHO 25.odt",
	}
	got, ok := Match(names, day)
	if !ok {
		t.Fatal("Match found nothing")
	}
	if want := "ADT 12 DE 09 JULHO 25.odt"; got != want {
		t.Errorf("Match = %q, want %q", got, want)
	}

	if _, ok := Match([]string{"ADT 12 DE 10 JULHO 25.odt"}, day); ok {
		t.Error("Match accepted a roster of another day")
	}
	if _, ok := Match([]string{"ADT 12 DE 09 JULHO 25.odt.bak"}, day); ok {
		t.Error("Match is not anchored at the end of the name")
	}
	if _, ok := Match([]string{"adt 7 de 09 julho 25.ODT"}, day); !ok {
		t.Error("Match is case sensitive")
	}
	if _, ok := Match([]string{"Adt 7 de 31 março 25.odt"}, date(2025, time.March, 31)); !ok {
		t.Error("Match does not fold non-ASCII month names")
	}
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"ADT 12 DE 08 JULHO 25.odt", "ADT 12 DE 09 JULHO 25.odt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "ADT 1 DE 10 JULHO 25.odt"), 0755); err != nil {
		t.Fatal(err)
	}

	got, err := Find(dir, date(2025, time.July, 9))
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "ADT 12 DE 09 JULHO 25.odt"); got != want {
		t.Errorf("Find = %q, want %q", got, want)
	}

	if _, err := Find(dir, date(2025, time.July, 10)); !errors.Is(err, ErrNotFound) {
		t.Errorf("Find(directory entry) = %v, want ErrNotFound", err)
	}
	if _, err := Find(filepath.Join(dir, "missing"), date(2025, time.July, 9)); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("Find(missing dir) = %v, want an I/O error", err)
	}
}

func TestFindSymlink(t *testing.T) {
	dir := t.TempDir()
	archive := t.TempDir()
	target := filepath.Join(archive, "escala.odt")
	if err := os.WriteFile(target, nil, 0644); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(dir, "ADT 12 DE 09 JULHO 25.odt")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	if err := os.Symlink(filepath.Join(archive, "missing.odt"), filepath.Join(dir, "ADT 13 DE 10 JULHO 25.odt")); err != nil {
		t.Fatal(err)
	}

	got, err := Find(dir, date(2025, time.July, 9))
	if err != nil {
		t.Fatal(err)
	}
	if got != link {
		t.Errorf("Find = %q, want %q", got, link)
	}
	if _, err := Find(dir, date(2025, time.July, 10)); !errors.Is(err, ErrNotFound) {
		t.Errorf("Find(dangling link) = %v, want ErrNotFound", err)
	}
}

func TestReference(t *testing.T) {
	now := time.Date(2025, time.July, 10, 6, 30, 0, 0, time.UTC)
	got := []string{
		Label(Yesterday.Date(now)),
		Label(Today.Date(now)),
		OutputName(Yesterday.Date(now)),
		Weekday(Yesterday.Date(now)),
	}
	want := []string{"09 JULHO 25", "10 JULHO 25", "pernoite_09_JULHO_25.odt", "QUARTA-FEIRA"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected dates: diff (-want +got):\n%s", diff)
	}

	for in, want := range map[string]Reference{"": Yesterday, "Ontem": Yesterday, "today": Today} {
		got, err := ParseReference(in)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("ParseReference(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := ParseReference("amanhã"); err == nil {
		t.Error("ParseReference accepted an unknown day")
	}
}
