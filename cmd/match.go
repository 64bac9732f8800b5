package main

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/company-match/internal/index"
	"github.com/sells-group/company-match/internal/matcher"
	"github.com/sells-group/company-match/internal/model"
	"github.com/sells-group/company-match/internal/report"
	"github.com/sells-group/company-match/internal/store"
)

var matchFlags struct {
	query      string
	querySheet string
	refs       []string
	out        string
	db         string
	threshold  float64
	topK       int
	noPhone    bool
	noPruning  bool
	workers    int
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Resolve query records against the reference corpora",
	RunE:  runMatch,
}

func init() {
	f := matchCmd.Flags()
	f.StringVar(&matchFlags.query, "query", "", "query corpus file (xlsx or csv); overrides config")
	f.StringVar(&matchFlags.querySheet, "query-sheet", "", "sheet name for xlsx query files")
	f.StringArrayVar(&matchFlags.refs, "ref", nil, "reference corpus as name=path; repeatable, overrides config")
	f.StringVar(&matchFlags.out, "out", "", "result file (xlsx or csv); overrides config")
	f.StringVar(&matchFlags.db, "db", "", "optional sqlite database to persist the run")
	f.Float64Var(&matchFlags.threshold, "threshold", 0, "similarity threshold; overrides config")
	f.IntVar(&matchFlags.topK, "top-k", 0, "max similarity hits per query, negative for unbounded; overrides config")
	f.BoolVar(&matchFlags.noPhone, "no-phone", false, "disable the phone-equality stage")
	f.BoolVar(&matchFlags.noPruning, "no-pruning", false, "disable keyword pruning (exhaustive similarity scan)")
	f.IntVar(&matchFlags.workers, "workers", 0, "concurrent query workers; overrides config")

	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := zap.L()

	queryCfg := cfg.Query
	if matchFlags.query != "" {
		queryCfg.Path = matchFlags.query
	}
	if queryCfg.Name == "" {
		queryCfg.Name = "query"
	}
	if matchFlags.querySheet != "" {
		queryCfg.Sheet = matchFlags.querySheet
	}

	refCfgs := cfg.Refs
	if len(matchFlags.refs) > 0 {
		refCfgs = refCfgs[:0:0]
		for _, val := range matchFlags.refs {
			sc, err := parseRefFlag(val)
			if err != nil {
				return err
			}
			refCfgs = append(refCfgs, sc)
		}
	}

	refs, err := loadReferences(ctx, refCfgs)
	if err != nil {
		return err
	}
	queries, err := loadSource(ctx, queryCfg)
	if err != nil {
		return err
	}
	log.Info("corpora loaded",
		zap.Int("reference_records", len(refs)),
		zap.Int("query_records", len(queries)),
	)

	opts := matcherOptions(cfg.Matcher)
	applyMatchOverrides(cmd.Flags(), &opts)

	// Progress logging, throttled so large runs don't flood the output.
	throttle := rate.Sometimes{Interval: 2 * time.Second}
	opts.OnProgress = func(done, total int) {
		throttle.Do(func() {
			log.Info("matching", zap.Int("done", done), zap.Int("total", total))
		})
	}

	start := time.Now()
	idx := index.Build(refs, index.Options{
		Namer:       opts.Namer,
		CountryCode: opts.CountryCode,
	})
	log.Info("index built",
		zap.Int("records", idx.Len()),
		zap.Duration("elapsed", time.Since(start)),
	)

	matchStart := time.Now()
	results, err := matcher.New(idx, opts).Match(ctx, queries)
	if err != nil {
		return err
	}

	summary := report.Summarize(results)
	log.Info("matching complete",
		zap.Int("matches", summary.Total),
		zap.Int("with_phone", summary.WithPhone),
		zap.Any("by_kind", summary.ByKind),
		zap.Any("by_source", summary.BySource),
		zap.Any("score_buckets", summary.ScoreBuckets),
		zap.Duration("elapsed", time.Since(matchStart)),
	)

	outPath := cfg.Output.Path
	if matchFlags.out != "" {
		outPath = matchFlags.out
	}
	if err := writeResults(outPath, results); err != nil {
		return err
	}
	log.Info("results written", zap.String("path", outPath))

	dbPath := cfg.Output.DB
	if matchFlags.db != "" {
		dbPath = matchFlags.db
	}
	if dbPath != "" {
		runID, err := persistRun(ctx, dbPath, opts, len(queries), matchStart, results)
		if err != nil {
			return err
		}
		log.Info("run persisted", zap.String("db", dbPath), zap.String("run_id", runID))
	}

	return nil
}

// applyMatchOverrides layers the command-line flags over the configured
// options. Threshold uses Changed so an explicit --threshold 0 is
// distinguishable from the flag being absent; it maps to a negative value,
// which the engine treats as no cutoff.
func applyMatchOverrides(f *pflag.FlagSet, opts *matcher.Options) {
	if f.Changed("threshold") {
		opts.Threshold = matchFlags.threshold
		if opts.Threshold == 0 {
			opts.Threshold = -1
		}
	}
	if matchFlags.topK != 0 {
		opts.TopK = matchFlags.topK
	}
	if matchFlags.noPhone {
		opts.PhoneStage = false
	}
	if matchFlags.noPruning {
		opts.KeywordPruning = false
	}
	if matchFlags.workers != 0 {
		opts.Workers = matchFlags.workers
	}
}

// writeResults dispatches on the output extension.
func writeResults(path string, results []model.MatchResult) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return report.WriteXLSX(path, results)
	case ".csv":
		return report.WriteCSV(path, results)
	default:
		return eris.Errorf("unsupported output type %s", filepath.Ext(path))
	}
}

func persistRun(ctx context.Context, dbPath string, opts matcher.Options, queries int, start time.Time, results []model.MatchResult) (string, error) {
	st, err := store.NewSQLite(dbPath)
	if err != nil {
		return "", err
	}
	defer st.Close() //nolint:errcheck

	if err := st.Migrate(ctx); err != nil {
		return "", err
	}
	return st.SaveRun(ctx, store.Run{
		Options: map[string]any{
			"threshold":       opts.Threshold,
			"top_k":           opts.TopK,
			"phone_stage":     opts.PhoneStage,
			"keyword_pruning": opts.KeywordPruning,
			"workers":         opts.Workers,
		},
		Queries:    queries,
		StartedAt:  start,
		FinishedAt: time.Now(),
	}, results)
}
