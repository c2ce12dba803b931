// pernoite fills the overnight guard sheet from the day's duty roster.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"pernoite/internal/escala"
	"pernoite/internal/pernoite"
	"pernoite/internal/report"
)

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.DisableStacktrace = true
	return cfg.Build()
}

func summarize(cfg *pernoite.Config, res *pernoite.Result, date time.Time) report.Summary {
	s := report.Summary{
		Date:   escala.Label(date),
		Roster: res.RosterPath,
		Output: res.OutputPath,
		Counts: res.Counts,
	}
	for _, key := range cfg.FieldOrder() {
		s.Fields = append(s.Fields, report.Field{Key: key, Value: res.Values[key]})
	}
	return s
}

// generate runs one day and prints the markdown report to w.
func generate(opts pernoite.Options, htmlPath, xlsxPath string, w io.Writer, logger *zap.Logger) error {
	if opts.Config == nil {
		opts.Config = pernoite.DefaultConfig()
	}
	res, err := pernoite.Run(opts, logger)
	if err != nil {
		return err
	}
	s := summarize(opts.Config, res, opts.Date)
	md, err := report.Markdown(s)
	if err != nil {
		return err
	}
	if _, err := w.Write(md); err != nil {
		return err
	}
	if htmlPath != "" {
		if err := report.WriteHTML(htmlPath, s); err != nil {
			return fmt.Errorf("write HTML report: %w", err)
		}
		logger.Info("HTML report written", zap.String("path", htmlPath))
	}
	if xlsxPath != "" {
		if err := report.WriteXLSX(xlsxPath, s); err != nil {
			return fmt.Errorf("write XLSX report: %w", err)
		}
		logger.Info("XLSX report written", zap.String("path", xlsxPath))
	}
	fmt.Fprintf(w, "\nPernoite gerado: %s\n", res.OutputPath)
	return nil
}

func referenceDate(now time.Time, reference, date string) (time.Time, error) {
	if date != "" {
		t, err := time.ParseInLocation("2006-01-02", date, now.Location())
		if err != nil {
			return time.Time{}, fmt.Errorf("-data: %w", err)
		}
		return t, nil
	}
	ref, err := escala.ParseReference(reference)
	if err != nil {
		return time.Time{}, err
	}
	return ref.Date(now), nil
}

func pernoiteMain() error {
	var (
		rosterDir = flag.String("escalas",
			"escalas",
			"directory holding the daily rosters, named ADT <n> DE <DD MÊS AA>.odt")
		templatePath = flag.String("modelo",
			"modelo_pernoite.odt",
			"template with {{KEY}} placeholders")
		outputDir = flag.String("saida",
			"pernoites",
			"directory the filled sheet is written to (created if missing)")
		configPath = flag.String("config",
			"",
			"YAML file overriding the built-in role mapping")
		reference = flag.String("referencia",
			"ontem",
			"which roster to read: ontem (yesterday) or hoje (today)")
		date = flag.String("data",
			"",
			"roster date as YYYY-MM-DD, overrides -referencia")
		htmlPath = flag.String("html",
			"",
			"if non-empty, also write the run report as HTML to this path")
		xlsxPath = flag.String("xlsx",
			"",
			"if non-empty, also write the filled fields as a spreadsheet to this path")
		verbose = flag.Bool("v",
			false,
			"log the names extracted for every role")
	)
	flag.Parse()
	if flag.NArg() != 0 {
		return fmt.Errorf("syntax: %s [flags]", os.Args[0])
	}

	logger, err := newLogger(*verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg, err := pernoite.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	day, err := referenceDate(time.Now(), *reference, *date)
	if err != nil {
		return err
	}
	logger.Info("processing roster", zap.String("date", escala.Label(day)))

	return generate(pernoite.Options{
		Date:         day,
		RosterDir:    *rosterDir,
		TemplatePath: *templatePath,
		OutputDir:    *outputDir,
		Config:       cfg,
	}, *htmlPath, *xlsxPath, os.Stdout, logger)
}

func main() {
	if err := pernoiteMain(); err != nil {
		log.Fatal(err)
	}
}
