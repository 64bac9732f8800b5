// Package model defines the record and match types shared across the
// ingest, index, matcher and report layers.
package model

// Source identifies the corpus a record was ingested from.
type Source string

// RawRecord is a single row from one of the input corpora, untouched by
// normalization. Name and Phone may be empty; Fields carries the full row
// payload for the writers and is never interpreted by the matching core.
type RawRecord struct {
	Source Source
	Name   string
	Phone  string
	Fields map[string]string
}

// NormalizedRecord is the index-side view of a RawRecord. Empty strings
// stand for absent values. Phone, when set, is digits only with at least
// seven digits; Name, when set, is non-empty after trimming.
type NormalizedRecord struct {
	Name     string
	Phone    string
	Keywords []string
	Source   Source
	Raw      *RawRecord
}

// MatchKind categorizes why a (query, reference) pair was accepted.
type MatchKind int

const (
	// MatchExact means the raw query name was found verbatim in the index.
	MatchExact MatchKind = iota
	// MatchNormalized means the normalized query name was found in the index.
	MatchNormalized
	// MatchPhone means the normalized phones were identical.
	MatchPhone
	// MatchSimilarity means the similarity score cleared the threshold.
	MatchSimilarity
)

// String returns the stable wire/report label for the match kind.
func (k MatchKind) String() string {
	switch k {
	case MatchExact:
		return "EXACT"
	case MatchNormalized:
		return "NORMALIZED"
	case MatchPhone:
		return "PHONE"
	case MatchSimilarity:
		return "SIMILARITY"
	default:
		return "UNKNOWN"
	}
}

// MarshalJSON renders the kind as its label so API and report output agree.
func (k MatchKind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

// MatchResult is one accepted (query, reference) pair with provenance.
type MatchResult struct {
	QueryName    string    `json:"query_name"`
	QueryPhone   string    `json:"query_phone,omitempty"`
	RefSource    Source    `json:"ref_source"`
	RefName      string    `json:"ref_name"`
	RefPhone     string    `json:"ref_phone,omitempty"`
	Score        float64   `json:"score"`
	Kind         MatchKind `json:"kind"`
	PhoneMatched bool      `json:"phone_matched"`
}
