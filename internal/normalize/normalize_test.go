package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestName_Empty(t *testing.T) {
	assert.Equal(t, "", Name(""))
	assert.Equal(t, "", Name("   "))
}

func TestName_Uppercase(t *testing.T) {
	assert.Equal(t, "AL SALEM TRADING", Name("Al Salem Trading"))
}

func TestName_StripLegalSuffixes(t *testing.T) {
	assert.Equal(t, "AL SALEM TRADING", Name("Al Salem Trading Co"))
	assert.Equal(t, "AL SALEM TRADING", Name("Al Salem Trading Company"))
	assert.Equal(t, "AL SALEM TRADING", Name("AL SALEM TRADING LLC"))
	assert.Equal(t, "AL SALEM TRADING", Name("Al Salem Trading Est"))
	assert.Equal(t, "RIYADH STEEL", Name("Riyadh Steel Ltd"))
	assert.Equal(t, "RIYADH STEEL", Name("riyadh steel limited"))
}

func TestName_SuffixInsideNameNotStripped(t *testing.T) {
	// "CO" must only match as a standalone token, never inside a word.
	assert.Equal(t, "COASTAL WORKS", Name("Coastal Works"))
	assert.Equal(t, "INCORE SYSTEMS", Name("Incore Systems"))
}

func TestName_RemovesBrackets(t *testing.T) {
	assert.Equal(t, "AL SALEM TRADING", Name("Al Salem Trading (Branch 12)"))
	assert.Equal(t, "AL SALEM TRADING", Name("Al Salem [4471] Trading"))
	assert.Equal(t, "", Name("(only a code)"))
}

func TestName_ArabicSuffixes(t *testing.T) {
	assert.Equal(t, "الفيصل", Name("شركة الفيصل المحدودة"))
	assert.Equal(t, "النخيل", Name("مصنع النخيل للصناعة"))
}

func TestName_CollapseSpaces(t *testing.T) {
	assert.Equal(t, "AL SALEM TRADING", Name("  Al   Salem \t Trading  "))
}

func TestName_Idempotent(t *testing.T) {
	inputs := []string{
		"Al Salem Trading Co",
		"شركة الفيصل المحدودة",
		"Acme (Riyadh) Industries Ltd",
		"  spaced   out  name  ",
		"UNCHANGED NAME",
	}
	for _, in := range inputs {
		once := Name(in)
		assert.Equal(t, once, Name(once), "input %q", in)
	}
}

func TestName_CustomVocabulary(t *testing.T) {
	n := NewNamer([]string{"GMBH", "AG"}, []string{"مؤسسة"})
	assert.Equal(t, "MUELLER STAHL", n.Name("Mueller Stahl GmbH"))
	// Default English tokens are replaced, not appended.
	assert.Equal(t, "ACME LLC", n.Name("Acme LLC"))
}

func TestPhone_Empty(t *testing.T) {
	assert.Equal(t, "", Phone(""))
	assert.Equal(t, "", Phone("   "))
}

func TestPhone_StripsSeparatorsAndPrefix(t *testing.T) {
	assert.Equal(t, "501234567", Phone("+966 50-123-4567"))
	assert.Equal(t, "501234567", Phone("0501234567"))
	assert.Equal(t, "501234567", Phone("966501234567"))
	assert.Equal(t, "501234567", Phone("(050) 123 4567"))
}

func TestPhone_EquivalentForms(t *testing.T) {
	assert.Equal(t, Phone("0501234567"), Phone("+966 50-123-4567"))
}

func TestPhone_TooShort(t *testing.T) {
	assert.Equal(t, "", Phone("12345"))
	assert.Equal(t, "", Phone("+966 123"))
	assert.Equal(t, "", Phone("0000000"))
}

func TestPhone_RejectsNonDigits(t *testing.T) {
	assert.Equal(t, "", Phone("CALL-US-NOW"))
	assert.Equal(t, "", Phone("50123456x"))
}

func TestPhone_Idempotent(t *testing.T) {
	inputs := []string{
		"+966 50-123-4567",
		"0501234567",
		"9669661234567",
		"501234567",
	}
	for _, in := range inputs {
		once := Phone(in)
		assert.Equal(t, once, Phone(once), "input %q", in)
	}
}

func TestPhone_CustomCountryCode(t *testing.T) {
	assert.Equal(t, "7911123456", PhoneWithCountryCode("+44 7911 123456", "44"))
	assert.Equal(t, "7911123456", PhoneWithCountryCode("07911123456", "44"))
}

func TestKeywords_Basic(t *testing.T) {
	assert.Equal(t, []string{"SALEM", "TRADING"}, Keywords("AL SALEM TRADING"))
}

func TestKeywords_MinLengthAndDedup(t *testing.T) {
	assert.Equal(t, []string{"ONE", "TWO"}, Keywords("one a two one of"))
}

func TestKeywords_Empty(t *testing.T) {
	assert.Empty(t, Keywords(""))
	assert.Empty(t, Keywords("a b cd"))
}

func TestKeywords_Arabic(t *testing.T) {
	// Rune length, not byte length, decides whether a token is kept.
	got := Keywords("الفيصل")
	assert.Equal(t, []string{"الفيصل"}, got)
}
