package pernoite

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"pernoite/internal/escala"
	"pernoite/internal/odt"
)

// Options names the inputs and output of one run.
type Options struct {
	// Date is the day whose roster is read.
	Date time.Time

	RosterDir    string
	TemplatePath string
	OutputDir    string

	Config *Config
}

// Result describes a completed run.
type Result struct {
	RosterPath string
	OutputPath string
	Index      NameIndex
	Values     FieldValues
	Counts     []Count
	Stats      Stats
}

// Run fills the template with the roster of opts.Date and writes the sheet
// to opts.OutputDir. A missing roster yields an error wrapping
// escala.ErrNotFound; nothing is written in that case.
func Run(opts Options, logger *zap.Logger) (*Result, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	rosterPath, err := escala.Find(opts.RosterDir, opts.Date)
	if err != nil {
		return nil, err
	}
	logger.Info("roster found", zap.String("path", rosterPath))

	roster, err := odt.Open(rosterPath)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	idx := BuildIndex(roster.Tables(), cfg.Roles)
	for _, r := range cfg.Roles {
		if len(idx.Names(r.Label)) == 0 {
			logger.Debug("role not staffed", zap.String("key", r.Key), zap.String("label", r.Label))
		}
	}
	for label, names := range idx {
		logger.Debug("names extracted", zap.String("label", label), zap.Strings("names", names))
	}

	values := Resolve(cfg, idx, opts.Date)

	tmpl, err := odt.Open(opts.TemplatePath)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	stats := Substitute(tmpl, values, cfg.Options())
	if len(stats.Unresolved) > 0 {
		logger.Warn("template tokens without a field",
			zap.Strings("keys", SortedKeys(stats.Unresolved)))
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	outPath := filepath.Join(opts.OutputDir, escala.OutputName(opts.Date))
	if err := tmpl.Save(outPath); err != nil {
		return nil, fmt.Errorf("write %s: %w", outPath, err)
	}
	logger.Info("sheet written",
		zap.String("path", outPath),
		zap.Int("paragraphs", stats.Paragraphs),
		zap.Int("cells", stats.Cells))

	return &Result{
		RosterPath: rosterPath,
		OutputPath: outPath,
		Index:      idx,
		Values:     values,
		Counts:     Tally(cfg, values),
		Stats:      stats,
	}, nil
}
