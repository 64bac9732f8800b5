// Package matcher resolves query records against an indexed reference
// corpus. One configurable engine covers the exact, normalized, phone and
// similarity stages; indexing shortcuts and keyword pruning toggle off to
// fall back to a full pairwise scan.
package matcher

import (
	"context"
	"sort"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/sells-group/company-match/internal/index"
	"github.com/sells-group/company-match/internal/model"
	"github.com/sells-group/company-match/internal/normalize"
	"github.com/sells-group/company-match/internal/similarity"
)

const (
	// DefaultThreshold is the minimum similarity score for acceptance.
	DefaultThreshold = 0.55
	// DefaultTopK caps similarity hits per query.
	DefaultTopK = 3

	exactScore      = 1.0
	normalizedScore = 0.95
)

// ProgressFunc receives (processed, total) after each query completes.
// Parallel runs invoke it from the worker goroutines, so implementations
// must be safe for concurrent use.
type ProgressFunc func(done, total int)

// Options configures a matching run. The zero value is usable: defaults
// are applied by New.
type Options struct {
	// Threshold is the minimum similarity score; 0 means DefaultThreshold,
	// negative means no cutoff (every candidate is accepted).
	Threshold float64
	// TopK caps accepted similarity hits per query; 0 means DefaultTopK,
	// negative means unbounded.
	TopK int
	// PhoneStage enables phone-equality matching.
	PhoneStage bool
	// KeywordPruning restricts similarity comparison to reference records
	// sharing at least one keyword with the query. Off means every
	// reference record is compared (the slow exhaustive mode).
	KeywordPruning bool
	// Workers is the number of concurrent query workers; values below 2
	// keep the run single-threaded.
	Workers int
	// Namer normalizes query names; nil uses the default vocabularies.
	Namer *normalize.Namer
	// CountryCode is the phone prefix to strip; "" uses the default.
	CountryCode string
	// OnProgress, when set, is called after each query is resolved.
	OnProgress ProgressFunc
}

// DefaultOptions returns the settings of the full-featured variant:
// phone stage and keyword pruning on, top-3 cap, 0.55 threshold.
func DefaultOptions() Options {
	return Options{
		Threshold:      DefaultThreshold,
		TopK:           DefaultTopK,
		PhoneStage:     true,
		KeywordPruning: true,
	}
}

// Engine matches query records against one reference index.
type Engine struct {
	idx   *index.Index
	opts  Options
	namer *normalize.Namer
	cc    string
}

// New creates an Engine over a built index, filling option defaults.
func New(idx *index.Index, opts Options) *Engine {
	if opts.Threshold == 0 {
		opts.Threshold = DefaultThreshold
	}
	if opts.TopK == 0 {
		opts.TopK = DefaultTopK
	}
	namer := opts.Namer
	if namer == nil {
		namer = normalize.NewNamer(nil, nil)
	}
	cc := opts.CountryCode
	if cc == "" {
		cc = normalize.DefaultCountryCode
	}
	return &Engine{idx: idx, opts: opts, namer: namer, cc: cc}
}

// Match resolves every query record and returns the accepted pairs in
// query order. Malformed or missing fields degrade to absent values and
// skip the corresponding stage; zero matches is a valid outcome.
func (e *Engine) Match(ctx context.Context, queries []model.RawRecord) ([]model.MatchResult, error) {
	if e.opts.Workers > 1 {
		return e.matchParallel(ctx, queries)
	}

	var out []model.MatchResult
	for i := range queries {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		out = append(out, e.matchOne(&queries[i])...)
		e.progress(i+1, len(queries))
	}
	return out, nil
}

// matchParallel fans queries out over a bounded errgroup. The index is
// read-only, so queries only share the per-query result slots, which are
// reassembled in query order afterwards. Progress is reported from the
// workers as queries finish, not after the whole scan.
func (e *Engine) matchParallel(ctx context.Context, queries []model.RawRecord) ([]model.MatchResult, error) {
	perQuery := make([][]model.MatchResult, len(queries))

	var done atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)
	for i := range queries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			perQuery[i] = e.matchOne(&queries[i])
			e.progress(int(done.Add(1)), len(queries))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []model.MatchResult
	for _, res := range perQuery {
		out = append(out, res...)
	}
	return out, nil
}

// matchOne runs the staged resolution for a single query record.
func (e *Engine) matchOne(q *model.RawRecord) []model.MatchResult {
	if q.Name == "" {
		return nil
	}

	qNorm := e.namer.Name(q.Name)
	qPhone := normalize.PhoneWithCountryCode(q.Phone, e.cc)
	qKeywords := normalize.Keywords(qNorm)

	var out []model.MatchResult

	// Accepted (source, reference original name) pairs for this query.
	// Two distinct reference records sharing source and name but differing
	// in phone collapse to one key here; that mirrors the historical
	// behavior and is deliberate.
	accepted := make(map[dedupKey]struct{})

	// Exact stage: the raw form wins over the normalized form.
	for _, ref := range e.idx.ByName(q.Name) {
		if !mark(accepted, ref) {
			continue
		}
		out = append(out, e.result(q, qPhone, ref, exactScore, model.MatchExact))
	}
	if qNorm != "" {
		for _, ref := range e.idx.ByName(qNorm) {
			if !mark(accepted, ref) {
				continue
			}
			out = append(out, e.result(q, qPhone, ref, normalizedScore, model.MatchNormalized))
		}
	}

	// Phone stage: equality of normalized phones accepts unconditionally,
	// even for pairs the exact stage already emitted. The key is still
	// marked so the similarity stage won't add a third copy.
	if e.opts.PhoneStage && qPhone != "" {
		for _, ref := range e.idx.ByPhone(qPhone) {
			accepted[keyOf(ref)] = struct{}{}
			r := e.result(q, qPhone, ref, similarity.Score(qNorm, ref.Name), model.MatchPhone)
			r.PhoneMatched = true
			out = append(out, r)
		}
	}

	// Similarity stage.
	if qNorm == "" {
		return out
	}
	var hits []model.MatchResult
	for _, ref := range e.candidates(qKeywords) {
		if ref.Name == "" {
			continue
		}
		if _, ok := accepted[keyOf(ref)]; ok {
			continue
		}
		score := similarity.Score(qNorm, ref.Name)
		if score < e.opts.Threshold {
			continue
		}
		hits = append(hits, e.result(q, qPhone, ref, score, model.MatchSimilarity))
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if e.opts.TopK > 0 && len(hits) > e.opts.TopK {
		hits = hits[:e.opts.TopK]
	}
	return append(out, hits...)
}

// candidates returns the reference records the similarity stage compares
// against: the keyword-index union when pruning is on (no keywords, no
// candidates), otherwise the whole corpus.
func (e *Engine) candidates(keywords []string) []*model.NormalizedRecord {
	if !e.opts.KeywordPruning {
		return e.idx.Records()
	}
	ids := e.idx.CandidatesByKeywords(keywords)
	recs := make([]*model.NormalizedRecord, len(ids))
	for i, id := range ids {
		recs[i] = e.idx.Record(id)
	}
	return recs
}

func (e *Engine) result(q *model.RawRecord, qPhone string, ref *model.NormalizedRecord, score float64, kind model.MatchKind) model.MatchResult {
	return model.MatchResult{
		QueryName:  q.Name,
		QueryPhone: qPhone,
		RefSource:  ref.Source,
		RefName:    ref.Raw.Name,
		RefPhone:   ref.Phone,
		Score:      score,
		Kind:       kind,
	}
}

func (e *Engine) progress(done, total int) {
	if e.opts.OnProgress != nil {
		e.opts.OnProgress(done, total)
	}
}

type dedupKey struct {
	source model.Source
	name   string
}

func keyOf(ref *model.NormalizedRecord) dedupKey {
	return dedupKey{source: ref.Source, name: ref.Raw.Name}
}

// mark records the reference's dedup key, reporting false when the pair
// was already accepted in an earlier stage of this query.
func mark(accepted map[dedupKey]struct{}, ref *model.NormalizedRecord) bool {
	if _, ok := accepted[keyOf(ref)]; ok {
		return false
	}
	accepted[keyOf(ref)] = struct{}{}
	return true
}
