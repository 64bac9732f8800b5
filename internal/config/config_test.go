package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// Run from an empty directory so no config.yaml is picked up.
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 0.55, cfg.Matcher.SimilarityThreshold)
	assert.Equal(t, 3, cfg.Matcher.TopK)
	assert.True(t, cfg.Matcher.PhoneStage)
	assert.True(t, cfg.Matcher.KeywordPruning)
	assert.Equal(t, "966", cfg.Matcher.PhoneCountryCode)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	content := `
matcher:
  similarity_threshold: 0.6
  top_k: 5
  phone_stage: false
refs:
  - name: companysa
    path: companysa_companies.csv
  - name: eyeofriyadh
    path: eyeofriyadh_contacts.csv
    name_col: name
    phone_col: phone
  - name: registry
    dsn: postgres://localhost/registry
    table: registry.firms
    name_col: firm_name
    phone_col: phone
query:
  name: uncrawled
  path: uncrawled.xlsx
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 0.6, cfg.Matcher.SimilarityThreshold)
	assert.Equal(t, 5, cfg.Matcher.TopK)
	assert.False(t, cfg.Matcher.PhoneStage)
	require.Len(t, cfg.Refs, 3)
	assert.Equal(t, "eyeofriyadh", cfg.Refs[1].Name)
	assert.Equal(t, "phone", cfg.Refs[1].PhoneCol)
	assert.Equal(t, "postgres://localhost/registry", cfg.Refs[2].DSN)
	assert.Equal(t, "registry.firms", cfg.Refs[2].Table)
	assert.Equal(t, "uncrawled.xlsx", cfg.Query.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestInitLogger_BadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "nope", Format: "json"})
	assert.Error(t, err)
}
