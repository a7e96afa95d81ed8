package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Environment variable names. Only this package reads the process environment;
// every component receives configuration through an explicit *Config.
const (
	EnvAPIURL            = "FLOWMCP_API_URL"
	EnvAPIKey            = "FLOWMCP_API_KEY"
	EnvEmbeddingProvider = "FLOWMCP_EMBEDDING_PROVIDER"
	EnvOpenAIAPIKey      = "OPENAI_API_KEY"
	EnvVectorStoreAPIKey = "VECTORSTORE_API_KEY"
	EnvVectorStoreRegion = "VECTORSTORE_REGION"
	EnvDocsNamespace     = "DOCS_NAMESPACE"
	EnvCacheVersion      = "DOCS_CACHE_VERSION"
	EnvCachePath         = "DOCS_CACHE_PATH"
	EnvConfigFile        = "FLOWMCP_CONFIG"
)

// Defaults
const (
	DefaultRegion        = "api"
	DefaultProdNamespace = "docs-v1"
	DefaultTestNamespace = "TESTING-docs-v1"
	DefaultSitemapURL    = "https://docs.prefect.io/sitemap.xml"
	DefaultCacheVersion  = 1
	DefaultTopK          = 5
)

var (
	ErrMissingVectorStoreKey = errors.New("vector store API key is required")
	ErrInvalidCacheVersion   = errors.New("cache version must be a positive integer")
)

// Config is the process-wide configuration, constructed once at startup and
// passed by reference into each component.
type Config struct {
	Platform    PlatformConfig    `yaml:"platform"`
	Embedding   EmbeddingConfig   `yaml:"embedding"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	Docs        DocsConfig        `yaml:"docs"`
}

// PlatformConfig locates the workflow-orchestration API the MCP server reads.
type PlatformConfig struct {
	APIURL string `yaml:"api_url"`
	APIKey string `yaml:"api_key"`
}

// EmbeddingConfig selects and credentials the embedding provider.
type EmbeddingConfig struct {
	Provider string `yaml:"provider"` // openai, local; empty = auto-detect
	APIKey   string `yaml:"api_key"`
}

// VectorStoreConfig credentials the hosted vector store.
type VectorStoreConfig struct {
	APIKey string `yaml:"api_key"`
	Region string `yaml:"region"`
}

// DocsConfig controls the ingestion pipeline and docs search.
type DocsConfig struct {
	SitemapURL string `yaml:"sitemap_url"`

	// Namespace overrides run-mode selection when non-empty. Normally the
	// namespace comes from the run mode: test runs write TESTING-docs-v1,
	// prod runs write docs-v1.
	Namespace string `yaml:"namespace"`

	// CacheVersion is the invalidation token for the fetch+chunk cache.
	// Bumping it makes every lookup miss, forcing a full re-ingestion.
	CacheVersion int `yaml:"cache_version"`

	// CachePath is the SQLite file backing the chunk cache.
	CachePath string `yaml:"cache_path"`

	TopK int `yaml:"top_k"`
}

// Load builds a Config from defaults, an optional YAML file, and environment
// variables, in increasing order of precedence.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDefault builds a Config honoring the FLOWMCP_CONFIG file path when set
func LoadDefault() (*Config, error) {
	return Load(os.Getenv(EnvConfigFile))
}

// Defaults returns a Config with every default applied and no file or
// environment input.
func Defaults() *Config {
	return &Config{
		VectorStore: VectorStoreConfig{Region: DefaultRegion},
		Docs: DocsConfig{
			SitemapURL:   DefaultSitemapURL,
			CacheVersion: DefaultCacheVersion,
			CachePath:    defaultCachePath(),
			TopK:         DefaultTopK,
		},
	}
}

func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "flowmcp-cache.db"
	}
	return filepath.Join(home, ".flowmcp", "cache.db")
}

func (c *Config) applyEnv() error {
	setString(&c.Platform.APIURL, EnvAPIURL)
	setString(&c.Platform.APIKey, EnvAPIKey)
	setString(&c.Embedding.Provider, EnvEmbeddingProvider)
	setString(&c.Embedding.APIKey, EnvOpenAIAPIKey)
	setString(&c.VectorStore.APIKey, EnvVectorStoreAPIKey)
	setString(&c.VectorStore.Region, EnvVectorStoreRegion)
	setString(&c.Docs.Namespace, EnvDocsNamespace)
	setString(&c.Docs.CachePath, EnvCachePath)

	if raw := os.Getenv(EnvCacheVersion); raw != "" {
		version, err := strconv.Atoi(raw)
		if err != nil || version <= 0 {
			return fmt.Errorf("%w: %q", ErrInvalidCacheVersion, raw)
		}
		c.Docs.CacheVersion = version
	}
	return nil
}

func setString(dst *string, env string) {
	if val := os.Getenv(env); val != "" {
		*dst = val
	}
}

// NamespaceFor resolves the vector-store namespace for a run. The explicit
// override wins; otherwise prod mode selects the production namespace and
// everything else selects the test namespace.
func (c *Config) NamespaceFor(prodMode bool) string {
	if c.Docs.Namespace != "" {
		return c.Docs.Namespace
	}
	if prodMode {
		return DefaultProdNamespace
	}
	return DefaultTestNamespace
}

// ValidateForIngest checks the credentials the ingestion pipeline cannot run
// without. A missing vector store key is fatal; a missing embedding key is
// allowed because the local provider covers offline runs.
func (c *Config) ValidateForIngest() error {
	if c.VectorStore.APIKey == "" {
		return ErrMissingVectorStoreKey
	}
	if c.Docs.CacheVersion <= 0 {
		return ErrInvalidCacheVersion
	}
	return nil
}
