// Package index builds the candidate-lookup structures over a reference
// corpus: exact-name, phone and keyword posting lists. The index is built
// once and is read-only afterwards.
package index

import (
	"slices"

	"github.com/sells-group/company-match/internal/model"
	"github.com/sells-group/company-match/internal/normalize"
)

// Index holds the lookup maps over one reference corpus. Duplicate names
// and phones are all retained; collisions never drop records.
type Index struct {
	records   []*model.NormalizedRecord
	byName    map[string][]*model.NormalizedRecord
	byPhone   map[string][]*model.NormalizedRecord
	byKeyword map[string][]int
}

// Options configures index construction.
type Options struct {
	// Namer normalizes reference names; nil uses the default vocabularies.
	Namer *normalize.Namer
	// CountryCode is the phone prefix to strip; "" uses the default.
	CountryCode string
}

func (o Options) namer() *normalize.Namer {
	if o.Namer != nil {
		return o.Namer
	}
	return normalize.NewNamer(nil, nil)
}

func (o Options) countryCode() string {
	if o.CountryCode != "" {
		return o.CountryCode
	}
	return normalize.DefaultCountryCode
}

// Build indexes the reference corpus in a single pass. Records without a
// usable name are skipped; records without a usable phone are indexed by
// name only.
func Build(refs []model.RawRecord, opts Options) *Index {
	namer := opts.namer()
	cc := opts.countryCode()

	idx := &Index{
		byName:    make(map[string][]*model.NormalizedRecord),
		byPhone:   make(map[string][]*model.NormalizedRecord),
		byKeyword: make(map[string][]int),
	}

	for i := range refs {
		raw := &refs[i]
		if raw.Name == "" {
			continue
		}

		norm := namer.Name(raw.Name)
		rec := &model.NormalizedRecord{
			Name:     norm,
			Phone:    normalize.PhoneWithCountryCode(raw.Phone, cc),
			Keywords: normalize.Keywords(norm),
			Source:   raw.Source,
			Raw:      raw,
		}

		id := len(idx.records)
		idx.records = append(idx.records, rec)

		// Both the pre- and post-normalization forms are exact keys, so a
		// verbatim query hits either way.
		idx.byName[raw.Name] = append(idx.byName[raw.Name], rec)
		if norm != "" && norm != raw.Name {
			idx.byName[norm] = append(idx.byName[norm], rec)
		}

		if rec.Phone != "" {
			idx.byPhone[rec.Phone] = append(idx.byPhone[rec.Phone], rec)
		}

		for _, kw := range rec.Keywords {
			idx.byKeyword[kw] = append(idx.byKeyword[kw], id)
		}
	}

	return idx
}

// Len returns the number of indexed records.
func (x *Index) Len() int { return len(x.records) }

// Record returns the indexed record with the given id.
func (x *Index) Record(id int) *model.NormalizedRecord { return x.records[id] }

// Records returns all indexed records in insertion order.
func (x *Index) Records() []*model.NormalizedRecord { return x.records }

// ByName returns every record stored under the exact name key.
func (x *Index) ByName(name string) []*model.NormalizedRecord {
	return x.byName[name]
}

// ByPhone returns every record stored under the normalized phone.
func (x *Index) ByPhone(phone string) []*model.NormalizedRecord {
	return x.byPhone[phone]
}

// CandidatesByKeywords returns the union of the posting lists for the
// given keywords, deduplicated, in ascending record-id order. No keywords
// means no candidates.
func (x *Index) CandidatesByKeywords(keywords []string) []int {
	if len(keywords) == 0 {
		return nil
	}
	seen := make(map[int]struct{})
	var out []int
	for _, kw := range keywords {
		for _, id := range x.byKeyword[kw] {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}
