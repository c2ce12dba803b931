// Package escala locates the daily duty roster ("escala") by the date
// written in its file name.
package escala

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// ErrNotFound is returned by Find when no file in the directory carries the
// expected date.
var ErrNotFound = errors.New("roster not found")

var months = [12]string{
	"JANEIRO",
	"FEVEREIRO",
	"MARÇO",
	"ABRIL",
	"MAIO",
	"JUNHO",
	"JULHO",
	"AGOSTO",
	"SETEMBRO",
	"OUTUBRO",
	"NOVEMBRO",
	"DEZEMBRO",
}

var weekdays = [7]string{
	"DOMINGO",
	"SEGUNDA-FEIRA",
	"TERÇA-FEIRA",
	"QUARTA-FEIRA",
	"QUINTA-FEIRA",
	"SEXTA-FEIRA",
	"SÁBADO",
}

// Label formats t as "DD MONTHNAME YY", e.g. "09 JULHO 25".
func Label(t time.Time) string {
	return fmt.Sprintf("%02d %s %02d", t.Day(), months[t.Month()-1], t.Year()%100)
}

// Weekday returns the Portuguese name of t's weekday, upper-cased.
func Weekday(t time.Time) string {
	return weekdays[t.Weekday()]
}

// Pattern matches roster file names for t: "ADT <n> DE <label>.odt",
// case-insensitively and anchored at the end of the name.
func Pattern(t time.Time) *regexp.Regexp {
	words := strings.Fields(Label(t))
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)ADT\s+\d+\s+DE\s+` + strings.Join(words, `\s+`) + `\.odt$`)
}

// Match returns the first name in names that matches Pattern(t).
func Match(names []string, t time.Time) (string, bool) {
	re := Pattern(t)
	for _, name := range names {
		if re.MatchString(name) {
			return name, true
		}
	}
	return "", false
}

// Find looks in dir (not recursively) for the roster of t and returns its
// path. Symbolic links count when they point at a regular file. It returns
// an error wrapping ErrNotFound when no file matches.
func Find(dir string, t time.Time) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	var names []string
	for _, e := range entries {
		if isFile(dir, e) {
			names = append(names, e.Name())
		}
	}
	name, ok := Match(names, t)
	if !ok {
		return "", fmt.Errorf("%w: no file matching %q in %s", ErrNotFound, Pattern(t), dir)
	}
	return filepath.Join(dir, name), nil
}

func isFile(dir string, e fs.DirEntry) bool {
	if e.Type()&fs.ModeSymlink == 0 {
		return e.Type().IsRegular()
	}
	fi, err := os.Stat(filepath.Join(dir, e.Name()))
	return err == nil && fi.Mode().IsRegular()
}

// OutputName is the file name of the overnight sheet for t.
func OutputName(t time.Time) string {
	return "pernoite_" + strings.ReplaceAll(Label(t), " ", "_") + ".odt"
}

// Reference selects which day's roster a run processes.
type Reference string

const (
	Yesterday Reference = "ontem"
	Today     Reference = "hoje"
)

// ParseReference accepts the Portuguese and English spellings.
func ParseReference(s string) (Reference, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ontem", "yesterday", "":
		return Yesterday, nil
	case "hoje", "today":
		return Today, nil
	}
	return "", fmt.Errorf("unknown reference day %q (want ontem or hoje)", s)
}

// Date returns the calendar day ref designates relative to now.
func (ref Reference) Date(now time.Time) time.Time {
	d := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if ref == Yesterday {
		d = d.AddDate(0, 0, -1)
	}
	return d
}
