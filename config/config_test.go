package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromLookupDefaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"DATABASE_URL": "postgres://localhost/ringstats",
	}))
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "postgres", cfg.Datastore)
	assert.Equal(t, 15*time.Minute, cfg.IngestInterval)
	assert.Equal(t, 5*time.Minute, cfg.StatsCacheTTL)
	assert.Equal(t, devJWTSecret, cfg.JWTSecret)
	assert.Equal(t, 0.7, cfg.Credibility.WilsonWeight)
	assert.Equal(t, 0.3, cfg.Credibility.RumorThreshold)
}

func TestFromLookupFileDatastore(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"WRESTLERS_FILE":  "data/wrestlers.json",
		"INGEST_INTERVAL": "0",
	}))
	require.NoError(t, err)
	assert.Equal(t, "file", cfg.Datastore)
	assert.Zero(t, cfg.IngestInterval)
}

func TestFromLookupRequiresDatabaseURL(t *testing.T) {
	_, err := FromLookup(lookupFrom(map[string]string{"DATASTORE": "postgres"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL is required")
}

func TestFromLookupProductionNeedsSecret(t *testing.T) {
	_, err := FromLookup(lookupFrom(map[string]string{
		"NODE_ENV":     "production",
		"DATABASE_URL": "postgres://db/ringstats",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestFromLookupRejectsBadValues(t *testing.T) {
	_, err := FromLookup(lookupFrom(map[string]string{
		"DATABASE_URL":    "postgres://db/ringstats",
		"INGEST_INTERVAL": "soon",
	}))
	require.Error(t, err)

	_, err = FromLookup(lookupFrom(map[string]string{
		"DATABASE_URL":                "postgres://db/ringstats",
		"CREDIBILITY_RUMOR_THRESHOLD": "0.9",
	}))
	require.Error(t, err)
}

func TestLoadSources(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yaml")
	data := `sources:
  - name: PWInsider
    rss_url: http://www.pwinsider.com/rss.php
    base_url: https://www.pwinsider.com
  - name: WWE
    base_url: https://www.wwe.com/news
    source_score: 0.8
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	sources, err := LoadSources(path)
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, 0.5, sources[0].SourceScore)
	assert.Equal(t, "", sources[1].RSSURL)
	assert.Equal(t, 0.8, sources[1].SourceScore)
}

func TestParseSourcesRequiresLocation(t *testing.T) {
	_, err := ParseSources([]byte("sources:\n  - name: Nowhere\n"))
	require.Error(t, err)
}
