package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/company-match/internal/model"
)

func refRecord(source, name, phone string) model.RawRecord {
	return model.RawRecord{Source: model.Source(source), Name: name, Phone: phone}
}

func TestBuild_SkipsNamelessRecords(t *testing.T) {
	idx := Build([]model.RawRecord{
		refRecord("companysa", "", "0501234567"),
		refRecord("companysa", "Al Salem Trading Co", ""),
	}, Options{})
	assert.Equal(t, 1, idx.Len())
}

func TestBuild_IndexesBothNameForms(t *testing.T) {
	idx := Build([]model.RawRecord{
		refRecord("companysa", "Al Salem Trading Co", ""),
	}, Options{})

	raw := idx.ByName("Al Salem Trading Co")
	require.Len(t, raw, 1)

	norm := idx.ByName("AL SALEM TRADING")
	require.Len(t, norm, 1)
	assert.Same(t, raw[0], norm[0])
}

func TestBuild_RetainsDuplicateNames(t *testing.T) {
	idx := Build([]model.RawRecord{
		refRecord("companysa", "Al Salem Trading Co", "0501234567"),
		refRecord("findsaudi", "Al Salem Trading Co", "0507654321"),
	}, Options{})

	hits := idx.ByName("Al Salem Trading Co")
	require.Len(t, hits, 2)
	assert.Equal(t, model.Source("companysa"), hits[0].Source)
	assert.Equal(t, model.Source("findsaudi"), hits[1].Source)
}

func TestBuild_PhoneIndex(t *testing.T) {
	idx := Build([]model.RawRecord{
		refRecord("companysa", "Al Salem Trading Co", "+966 50-123-4567"),
		refRecord("findsaudi", "Unrelated Name", "0501234567"),
		refRecord("eyeofriyadh", "No Phone Here", "123"),
	}, Options{})

	hits := idx.ByPhone("501234567")
	require.Len(t, hits, 2)
	assert.Empty(t, idx.ByPhone("123"))
}

func TestCandidatesByKeywords_Union(t *testing.T) {
	idx := Build([]model.RawRecord{
		refRecord("companysa", "Riyadh Steel Works", ""),
		refRecord("companysa", "Jeddah Steel Mills", ""),
		refRecord("companysa", "Dammam Cement", ""),
	}, Options{})

	ids := idx.CandidatesByKeywords([]string{"STEEL", "CEMENT"})
	assert.Equal(t, []int{0, 1, 2}, ids)

	ids = idx.CandidatesByKeywords([]string{"RIYADH"})
	assert.Equal(t, []int{0}, ids)
}

func TestCandidatesByKeywords_NoKeywordsNoCandidates(t *testing.T) {
	idx := Build([]model.RawRecord{
		refRecord("companysa", "Riyadh Steel Works", ""),
	}, Options{})

	assert.Empty(t, idx.CandidatesByKeywords(nil))
	assert.Empty(t, idx.CandidatesByKeywords([]string{"GLASS"}))
}

func TestBuild_CustomCountryCode(t *testing.T) {
	idx := Build([]model.RawRecord{
		refRecord("uk", "Mueller Stahl", "+44 7911 123456"),
	}, Options{CountryCode: "44"})

	require.Len(t, idx.ByPhone("7911123456"), 1)
}
