// Package normalize canonicalizes company names and phone numbers for
// matching. All functions fail softly: unusable input yields the empty
// string rather than an error, and callers treat "" as absent.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// DefaultSuffixTokens are legal-entity tokens removed from names on word
// boundaries, case-insensitively.
var DefaultSuffixTokens = []string{
	"LTD", "LIMITED", "LLC", "INC", "CORP", "CO", "COMPANY",
	"EST", "ESTABLISHMENT",
}

// DefaultArabicSuffixes are corporate markers removed as plain substrings.
// Arabic script does not separate these from the name with stable word
// boundaries, so token matching would miss them.
var DefaultArabicSuffixes = []string{
	"شركة", "مصنع", "فرع", "المحدودة", "للصناعة", "للتجارة", "التجارية",
}

// DefaultCountryCode is the dialing prefix stripped from phone numbers.
const DefaultCountryCode = "966"

// minPhoneDigits is the shortest digit string accepted as a phone number.
const minPhoneDigits = 7

var (
	phoneSepRe   = regexp.MustCompile(`[\s\-()]`)
	bracketRe    = regexp.MustCompile(`\([^)]*\)|\[[^\]]*\]`)
	multiSpaceRe = regexp.MustCompile(`\s{2,}`)
)

// Namer normalizes company names with a configurable suffix vocabulary.
type Namer struct {
	suffixRe  *regexp.Regexp
	substring []string
}

// NewNamer builds a Namer. Empty slices fall back to the default
// vocabularies; pass a non-empty slice to extend or replace them.
func NewNamer(suffixTokens, suffixSubstrings []string) *Namer {
	if len(suffixTokens) == 0 {
		suffixTokens = DefaultSuffixTokens
	}
	if len(suffixSubstrings) == 0 {
		suffixSubstrings = DefaultArabicSuffixes
	}
	quoted := make([]string, len(suffixTokens))
	for i, t := range suffixTokens {
		quoted[i] = regexp.QuoteMeta(t)
	}
	re := regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`)
	return &Namer{suffixRe: re, substring: suffixSubstrings}
}

var defaultNamer = NewNamer(nil, nil)

// Name normalizes a company name with the default vocabularies.
func Name(raw string) string { return defaultNamer.Name(raw) }

// Name canonicalizes a company name: trims, folds compatibility forms,
// deletes bracketed segments, legal-suffix tokens and corporate substring
// markers, collapses whitespace and uppercases. Returns "" when nothing
// usable remains. Idempotent.
func (n *Namer) Name(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	s = norm.NFKC.String(s)

	s = bracketRe.ReplaceAllString(s, "")
	s = n.suffixRe.ReplaceAllString(s, "")
	for _, sub := range n.substring {
		s = strings.ReplaceAll(s, sub, "")
	}

	s = multiSpaceRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s)
}

// Phone canonicalizes a phone number using the default country code.
func Phone(raw string) string { return PhoneWithCountryCode(raw, DefaultCountryCode) }

// PhoneWithCountryCode strips separators and the leading country-code or
// zero prefix, then accepts only all-digit residuals of at least seven
// digits. Prefix stripping runs to a fixed point so the function is
// idempotent. Returns "" for anything unusable.
func PhoneWithCountryCode(raw, countryCode string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	s = phoneSepRe.ReplaceAllString(s, "")

	for {
		switch {
		case countryCode != "" && strings.HasPrefix(s, "+"+countryCode):
			s = s[len(countryCode)+1:]
		case countryCode != "" && strings.HasPrefix(s, countryCode) && len(s) > len(countryCode):
			s = s[len(countryCode):]
		case strings.HasPrefix(s, "0"):
			s = strings.TrimLeft(s, "0")
		default:
			if len(s) < minPhoneDigits || !allDigits(s) {
				return ""
			}
			return s
		}
	}
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Keywords extracts the significant tokens of a normalized name: unicode
// word runs of at least three runes, uppercased, duplicates collapsed.
// The returned order follows first appearance.
func Keywords(name string) []string {
	if name == "" {
		return nil
	}
	fields := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})

	seen := make(map[string]struct{}, len(fields))
	var out []string
	for _, f := range fields {
		if len([]rune(f)) < 3 {
			continue
		}
		f = strings.ToUpper(f)
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
