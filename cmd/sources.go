package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/company-match/internal/config"
	"github.com/sells-group/company-match/internal/ingest"
	"github.com/sells-group/company-match/internal/matcher"
	"github.com/sells-group/company-match/internal/model"
	"github.com/sells-group/company-match/internal/normalize"
)

// loadSource reads one corpus: Postgres when a DSN is configured,
// otherwise a file dispatched on extension.
func loadSource(ctx context.Context, sc config.SourceConfig) ([]model.RawRecord, error) {
	if sc.DSN != "" {
		return loadTable(ctx, sc)
	}
	if sc.Path == "" {
		return nil, eris.Errorf("source %q: no path configured", sc.Name)
	}
	src := ingest.Source{
		Name:     model.Source(sc.Name),
		Path:     sc.Path,
		NameCol:  sc.NameCol,
		PhoneCol: sc.PhoneCol,
	}
	switch strings.ToLower(filepath.Ext(sc.Path)) {
	case ".xlsx", ".xlsm":
		return ingest.ReadXLSX(src, ingest.XLSXOptions{SheetName: sc.Sheet})
	case ".csv", ".txt":
		return ingest.ReadCSV(src)
	default:
		return nil, eris.Errorf("source %q: unsupported file type %s", sc.Name, filepath.Ext(sc.Path))
	}
}

// loadTable reads a corpus from a Postgres table.
func loadTable(ctx context.Context, sc config.SourceConfig) ([]model.RawRecord, error) {
	if sc.Table == "" || sc.NameCol == "" {
		return nil, eris.Errorf("source %q: table sources need table and name_col", sc.Name)
	}
	pool, err := pgxpool.New(ctx, sc.DSN)
	if err != nil {
		return nil, eris.Wrapf(err, "source %q: connect", sc.Name)
	}
	defer pool.Close()

	return ingest.NewPGSource(pool, model.Source(sc.Name), sc.Table, sc.NameCol, sc.PhoneCol).Read(ctx)
}

// loadReferences reads and concatenates every reference corpus.
func loadReferences(ctx context.Context, sources []config.SourceConfig) ([]model.RawRecord, error) {
	if len(sources) == 0 {
		return nil, eris.New("no reference sources configured")
	}
	var refs []model.RawRecord
	for _, sc := range sources {
		recs, err := loadSource(ctx, sc)
		if err != nil {
			return nil, err
		}
		refs = append(refs, recs...)
	}
	return refs, nil
}

// parseRefFlag parses a --ref flag value of the form "name=path".
func parseRefFlag(val string) (config.SourceConfig, error) {
	name, path, ok := strings.Cut(val, "=")
	if !ok || name == "" || path == "" {
		return config.SourceConfig{}, fmt.Errorf("invalid --ref %q, want name=path", val)
	}
	return config.SourceConfig{Name: name, Path: path}, nil
}

// matcherOptions translates config into engine options.
func matcherOptions(mc config.MatcherConfig) matcher.Options {
	return matcher.Options{
		Threshold:      mc.SimilarityThreshold,
		TopK:           mc.TopK,
		PhoneStage:     mc.PhoneStage,
		KeywordPruning: mc.KeywordPruning,
		Workers:        mc.Workers,
		CountryCode:    mc.PhoneCountryCode,
		Namer:          normalize.NewNamer(mc.SuffixTokens, mc.SuffixSubstrings),
	}
}
