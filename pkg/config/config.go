package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/umputun/newsstream/pkg/domain"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server struct {
		Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
		BaseURL string        `yaml:"base_url" json:"base_url" jsonschema:"default=http://localhost:8080,description=Public URL used in generated RSS feeds"`
	} `yaml:"server" json:"server" jsonschema:"description=Server configuration"`

	Database struct {
		DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:newsstream.db?cache=shared&mode=rwc,description=Database connection string"`
		MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
		MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
		ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
	} `yaml:"database" json:"database" jsonschema:"description=Database configuration"`

	Feeds      []FeedGroup     `yaml:"feeds" json:"feeds" jsonschema:"description=Feed groups to ingest"`
	Categories []string        `yaml:"categories" json:"categories" jsonschema:"description=Fixed set of article categories"`
	LLM        LLMConfig       `yaml:"llm" json:"llm" jsonschema:"description=Generative model configuration"`
	Embedding  EmbeddingConfig `yaml:"embedding" json:"embedding" jsonschema:"description=Embedding model configuration"`
	Ingest     IngestConfig    `yaml:"ingest" json:"ingest" jsonschema:"description=Feed ingestion and processing"`
	RAG        RAGConfig       `yaml:"rag" json:"rag" jsonschema:"description=Retrieval configuration"`
}

// FeedGroup is a named group of feed URLs
type FeedGroup struct {
	Group string   `yaml:"group" json:"group" jsonschema:"required,description=Topical bucket assigned to articles"`
	URLs  []string `yaml:"urls" json:"urls" jsonschema:"required,description=Feed URLs"`
}

// LLMConfig holds generative model configuration for enrichment and answers
type LLMConfig struct {
	Endpoint         string        `yaml:"endpoint" json:"endpoint" jsonschema:"required,description=OpenAI-compatible API endpoint"`
	APIKey           string        `yaml:"api_key" json:"api_key" jsonschema:"description=API key (can use environment variable)"`
	Model            string        `yaml:"model" json:"model" jsonschema:"required,description=Model name (e.g. llama-3.3-70b-versatile)"`
	Temperature      float64       `yaml:"temperature" json:"temperature" jsonschema:"default=0.3,description=Temperature for response generation"`
	MaxTokens        int           `yaml:"max_tokens" json:"max_tokens" jsonschema:"default=500,description=Maximum tokens in response"`
	Timeout          time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Request timeout"`
	MaxTextLength    int           `yaml:"max_text_length" json:"max_text_length" jsonschema:"default=6000,description=Article text is truncated to this many characters"`
	MaxContextLength int           `yaml:"max_context_length" json:"max_context_length" jsonschema:"default=12000,description=Maximum characters of retrieved context in answer prompt"`
	ResponseFormat   string        `yaml:"response_format" json:"response_format" jsonschema:"default=json_object,enum=json_object,enum=json_schema,enum=text,description=Structured response mode for enrichment"`
	Retries          int           `yaml:"retries" json:"retries" jsonschema:"default=3,description=Attempts on unparsable enrichment responses"`
}

// EmbeddingConfig holds embedding model configuration
type EmbeddingConfig struct {
	Endpoint  string        `yaml:"endpoint" json:"endpoint" jsonschema:"description=OpenAI-compatible embeddings endpoint"`
	APIKey    string        `yaml:"api_key" json:"api_key" jsonschema:"description=API key for embeddings endpoint"`
	Model     string        `yaml:"model" json:"model" jsonschema:"default=all-MiniLM-L6-v2,description=Embedding model name"`
	Dimension int           `yaml:"dimension" json:"dimension" jsonschema:"default=384,description=Vector dimension, 0 to learn from the model"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Model load and request timeout"`
	CacheSize int           `yaml:"cache_size" json:"cache_size" jsonschema:"default=256,description=Number of query vectors kept in LRU cache"`
}

// IngestConfig holds feed ingestion and batch processing settings
type IngestConfig struct {
	ItemsPerFeed   int           `yaml:"items_per_feed" json:"items_per_feed" jsonschema:"default=5,description=Latest entries taken from each feed"`
	FetchTimeout   time.Duration `yaml:"fetch_timeout" json:"fetch_timeout" jsonschema:"default=10s,description=Timeout for feed and article fetches"`
	HostRateLimit  time.Duration `yaml:"host_rate_limit" json:"host_rate_limit" jsonschema:"default=1s,description=Minimum delay between requests to the same host"`
	UserAgent      string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=Mozilla/5.0 (compatible; Newsstream/1.0),description=User agent for HTTP requests"`
	FullText       bool          `yaml:"full_text" json:"full_text" jsonschema:"default=true,description=Fetch full article text from links"`
	MinTextLength  int           `yaml:"min_text_length" json:"min_text_length" jsonschema:"default=100,description=Minimum extracted text length to accept"`
	Workers        int           `yaml:"workers" json:"workers" jsonschema:"default=1,description=Concurrent enrichment workers"`
	FeedWorkers    int           `yaml:"feed_workers" json:"feed_workers" jsonschema:"default=4,description=Concurrent feed fetches"`
	UpdateInterval time.Duration `yaml:"update_interval" json:"update_interval" jsonschema:"default=5m,description=Interval between periodic pipeline runs, 0 disables"`
}

// RAGConfig holds retrieval settings
type RAGConfig struct {
	TopK int `yaml:"top_k" json:"top_k" jsonschema:"default=5,description=Number of articles used as answer context"`
}

// DefaultCategories is the fixed category set used when none is configured
var DefaultCategories = []string{"Political", "Author Opinion", "Threatful", "Entertainment"}

// DefaultFeeds are the feed groups used when none are configured
var DefaultFeeds = []FeedGroup{
	{Group: "Sports", URLs: []string{
		"https://www.espn.com/espn/rss/news",
		"http://sportstechie.net/feed",
	}},
	{Group: "Tech", URLs: []string{
		"https://techcrunch.com/feed/",
		"https://www.wired.com/feed/rss",
		"https://feeds.feedburner.com/TheHackersNews",
	}},
	{Group: "India", URLs: []string{
		"https://timesofindia.indiatimes.com/rss.cms",
		"https://feeds.feedburner.com/ndtvnews-top-stories",
		"https://www.thehindu.com/news/national/feeder/default.rss",
	}},
	{Group: "Auto", URLs: []string{
		"https://www.autocarindia.com/RSS/rss.ashx",
		"https://www.motor1.com/rss/news/all/",
		"https://www.team-bhp.com/rss/rss.xml",
	}},
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	// defaults with meaningful zero values, kept unless the file sets them
	cfg.Ingest.FullText = true
	cfg.Ingest.UpdateInterval = 5 * time.Minute
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	// validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// log warning but don't fail - schema validation is supplementary
		fmt.Printf("warning: schema validation failed: %v\n", err)
	}

	return &cfg, nil
}

// setDefaults fills zero values with defaults
func (c *Config) setDefaults() {
	// server
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 30 * time.Second
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = "http://localhost:8080"
	}

	// database
	if c.Database.DSN == "" {
		c.Database.DSN = "file:newsstream.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 3600
	}

	if len(c.Feeds) == 0 {
		c.Feeds = DefaultFeeds
	}
	if len(c.Categories) == 0 {
		c.Categories = DefaultCategories
	}

	// llm
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.3
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 500
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = 30 * time.Second
	}
	if c.LLM.MaxTextLength == 0 {
		c.LLM.MaxTextLength = 6000
	}
	if c.LLM.MaxContextLength == 0 {
		c.LLM.MaxContextLength = 12000
	}
	if c.LLM.ResponseFormat == "" {
		c.LLM.ResponseFormat = "json_object"
	}
	if c.LLM.Retries == 0 {
		c.LLM.Retries = 3
	}

	// embedding
	if c.Embedding.Endpoint == "" {
		c.Embedding.Endpoint = c.LLM.Endpoint
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "all-MiniLM-L6-v2"
	}
	if c.Embedding.Timeout == 0 {
		c.Embedding.Timeout = 30 * time.Second
	}
	if c.Embedding.CacheSize == 0 {
		c.Embedding.CacheSize = 256
	}

	// ingest
	if c.Ingest.ItemsPerFeed == 0 {
		c.Ingest.ItemsPerFeed = 5
	}
	if c.Ingest.FetchTimeout == 0 {
		c.Ingest.FetchTimeout = 10 * time.Second
	}
	if c.Ingest.HostRateLimit == 0 {
		c.Ingest.HostRateLimit = time.Second
	}
	if c.Ingest.UserAgent == "" {
		c.Ingest.UserAgent = "Mozilla/5.0 (compatible; Newsstream/1.0)"
	}
	if c.Ingest.MinTextLength == 0 {
		c.Ingest.MinTextLength = 100
	}
	if c.Ingest.Workers == 0 {
		c.Ingest.Workers = 1
	}
	if c.Ingest.FeedWorkers == 0 {
		c.Ingest.FeedWorkers = 4
	}

	if c.RAG.TopK == 0 {
		c.RAG.TopK = 5
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	// validate LLM config
	if cfg.LLM.Endpoint == "" {
		return fmt.Errorf("llm.endpoint is required")
	}
	if cfg.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2")
	}
	switch cfg.LLM.ResponseFormat {
	case "json_object", "json_schema", "text":
	default:
		return fmt.Errorf("llm.response_format must be one of json_object, json_schema, text")
	}
	if cfg.LLM.Retries < 1 {
		return fmt.Errorf("llm.retries must be at least 1")
	}

	// validate embedding config
	if cfg.Embedding.Dimension < 0 {
		return fmt.Errorf("embedding.dimension must be non-negative")
	}

	// validate categories, the sentinel is implicit and can't be configured
	seen := make(map[string]bool, len(cfg.Categories))
	for _, c := range cfg.Categories {
		if strings.TrimSpace(c) == "" {
			return fmt.Errorf("categories must not contain empty names")
		}
		if strings.EqualFold(c, domain.CategoryUnclassified) {
			return fmt.Errorf("category %q is reserved", c)
		}
		if seen[strings.ToLower(c)] {
			return fmt.Errorf("duplicate category %q", c)
		}
		seen[strings.ToLower(c)] = true
	}

	// validate feeds
	for i, fg := range cfg.Feeds {
		if fg.Group == "" {
			return fmt.Errorf("feeds[%d].group is required", i)
		}
	}

	// validate ingest config
	if cfg.Ingest.Workers < 1 {
		return fmt.Errorf("ingest.workers must be at least 1")
	}
	if cfg.Ingest.FetchTimeout < time.Second {
		return fmt.Errorf("ingest fetch_timeout must be at least 1 second")
	}
	if cfg.RAG.TopK < 1 {
		return fmt.Errorf("rag.top_k must be at least 1")
	}

	// validate server config
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}

	return nil
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GetBaseURL returns public URL of the server
func (c *Config) GetBaseURL() string {
	return c.Server.BaseURL
}

// FeedGroups converts configured feeds to domain feed groups
func (c *Config) FeedGroups() []domain.FeedGroup {
	res := make([]domain.FeedGroup, 0, len(c.Feeds))
	for _, fg := range c.Feeds {
		res = append(res, domain.FeedGroup{Name: fg.Group, URLs: fg.URLs})
	}
	return res
}
