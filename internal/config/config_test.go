package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultRegion, cfg.VectorStore.Region)
	assert.Equal(t, DefaultCacheVersion, cfg.Docs.CacheVersion)
	assert.Equal(t, DefaultSitemapURL, cfg.Docs.SitemapURL)
	assert.Equal(t, DefaultTopK, cfg.Docs.TopK)
	assert.NotEmpty(t, cfg.Docs.CachePath)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
platform:
  api_url: http://localhost:4200/api
vector_store:
  api_key: tpuf-test
  region: gcp-us-east4
docs:
  cache_version: 3
  namespace: custom-ns
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:4200/api", cfg.Platform.APIURL)
	assert.Equal(t, "tpuf-test", cfg.VectorStore.APIKey)
	assert.Equal(t, "gcp-us-east4", cfg.VectorStore.Region)
	assert.Equal(t, 3, cfg.Docs.CacheVersion)
	assert.Equal(t, "custom-ns", cfg.Docs.Namespace)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("vector_store:\n  region: from-file\n"), 0644))

	t.Setenv(EnvVectorStoreRegion, "from-env")
	t.Setenv(EnvCacheVersion, "7")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.VectorStore.Region)
	assert.Equal(t, 7, cfg.Docs.CacheVersion)
}

func TestLoad_InvalidCacheVersion(t *testing.T) {
	t.Setenv(EnvCacheVersion, "zero")

	_, err := Load("")
	assert.ErrorIs(t, err, ErrInvalidCacheVersion)
}

func TestNamespaceFor(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultTestNamespace, cfg.NamespaceFor(false))
	assert.Equal(t, DefaultProdNamespace, cfg.NamespaceFor(true))

	cfg.Docs.Namespace = "override"
	assert.Equal(t, "override", cfg.NamespaceFor(false))
	assert.Equal(t, "override", cfg.NamespaceFor(true))
}

func TestValidateForIngest(t *testing.T) {
	t.Setenv(EnvVectorStoreAPIKey, "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.ErrorIs(t, cfg.ValidateForIngest(), ErrMissingVectorStoreKey)

	cfg.VectorStore.APIKey = "tpuf-test"
	assert.NoError(t, cfg.ValidateForIngest())
}
