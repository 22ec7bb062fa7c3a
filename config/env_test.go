package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "POSTGRES")
	t.Setenv("SLUG_SCOPE", "category")
	t.Setenv("CACHE_TTL_SECONDS", "0")
	t.Setenv("SEED_PRODUCTS", "5")

	assert.Equal(t, "postgres", DatabaseDriver())
	assert.Contains(t, DatabaseDSN(), "dbname=bazaar")
	assert.Equal(t, "category", SlugScope())
	assert.Equal(t, time.Duration(0), CacheTTL())
	assert.Equal(t, 5, SeedProducts())
	assert.Equal(t, defaultSeedVendors, SeedVendors())
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")
	t.Setenv("SLUG_SCOPE", "galaxy")
	t.Setenv("CACHE_TTL_SECONDS", "-3")
	t.Setenv("SEED_VENDORS", "zero")

	assert.Equal(t, "sqlite", DatabaseDriver())
	assert.Equal(t, defaultSQLiteDSN, DatabaseDSN())
	assert.Equal(t, "kind", SlugScope())
	assert.Equal(t, defaultCacheTTL, CacheTTL())
	assert.Equal(t, 1, SeedVendors())
}

func TestLoadFromFiles(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "app.json")
	envPath := filepath.Join(dir, ".env")

	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"app_port": 9090, "slug_scope": "category", "db_debug": true}`), 0o600))
	require.NoError(t, os.WriteFile(envPath, []byte("# comment\nAPP_PORT=7070\nJWT_SECRET=\"s3cret\"\nbroken line\n"), 0o600))

	t.Cleanup(func() {
		mu.Lock()
		values = defaultValues()
		mu.Unlock()
	})
	require.NoError(t, loadFromFiles(jsonPath, envPath))

	assert.Equal(t, "7070", get("APP_PORT", ""))
	assert.Equal(t, "s3cret", get("JWT_SECRET", ""))
	assert.Equal(t, "category", get("SLUG_SCOPE", ""))
	assert.Equal(t, "true", get("DB_DEBUG", ""))
}

func TestLoadFromMissingFiles(t *testing.T) {
	dir := t.TempDir()
	t.Cleanup(func() {
		mu.Lock()
		values = defaultValues()
		mu.Unlock()
	})
	require.NoError(t, loadFromFiles(filepath.Join(dir, "nope.json"), filepath.Join(dir, ".nope")))
	assert.Equal(t, defaultAppPort, get("APP_PORT", ""))
}
