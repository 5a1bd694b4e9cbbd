package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	OpenAIAPIKey        string `envconfig:"OPENAI_API_KEY"`
	OpenAIBaseURL       string `envconfig:"OPENAI_BASE_URL"`
	EmbeddingModel      string `envconfig:"EMBEDDING_MODEL" default:"text-embedding-3-small"`
	EmbeddingDimensions int    `envconfig:"EMBEDDING_DIMENSIONS" default:"768"`

	// Default corpus partition seeded and searched when callers omit one.
	Namespace string `envconfig:"NAMESPACE" default:"lexi/platform"`

	// Content source: a local directory of .mdx articles, or an S3 prefix.
	ContentDir  string `envconfig:"CONTENT_DIR"`
	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"lexikb-articles"`
	S3Prefix    string `envconfig:"S3_PREFIX" default:"articles/"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`

	// APIToken protects the seed and search endpoints when set.
	APIToken string `envconfig:"API_TOKEN"`

	// ReseedInterval > 0 enables the background reseed worker.
	ReseedInterval time.Duration `envconfig:"RESEED_INTERVAL" default:"0"`

	EmbedTimeout time.Duration `envconfig:"EMBED_TIMEOUT" default:"30s"`
	StoreTimeout time.Duration `envconfig:"STORE_TIMEOUT" default:"30s"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("LEXIKB", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}

func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}
