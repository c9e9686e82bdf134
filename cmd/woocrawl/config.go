package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/woocrawl"
	"gopkg.in/yaml.v3"
)

// Portal base URLs.
const (
	DefaultOpenBaseURL          = "https://open.overheid.nl"
	DefaultOrganizationsBaseURL = "https://organisaties.overheid.nl"
)

// DefaultDelay is the pause between two requests to the same host.
const DefaultDelay = time.Second

// DefaultCacheTTL bounds how long known URLs and organizations are cached
// within one run.
const DefaultCacheTTL = time.Hour

// Config holds the settings read from the YAML configuration file. Command
// line flags override the file.
type Config struct {
	OpenBaseURL          string                   `yaml:"open_base_url"`
	OrganizationsBaseURL string                   `yaml:"organizations_base_url"`
	Delay                time.Duration            `yaml:"delay"`
	UserAgent            string                   `yaml:"user_agent"`
	Browser              bool                     `yaml:"browser"`
	DownloadDir          string                   `yaml:"download_dir"`
	CacheTTL             time.Duration            `yaml:"cache_ttl"`
	SectionAnchors       []woocrawl.SectionAnchor `yaml:"section_anchors"`
	Summarizer           SummarizerConfig         `yaml:"summarizer"`
}

// SummarizerConfig configures the optional Gemini summarizer.
type SummarizerConfig struct {
	Model          string `yaml:"model"`
	MaxInputTokens int    `yaml:"max_input_tokens"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		OpenBaseURL:          DefaultOpenBaseURL,
		OrganizationsBaseURL: DefaultOrganizationsBaseURL,
		Delay:                DefaultDelay,
		DownloadDir:          filepath.Join(defaultDataDir(), "files"),
		CacheTTL:             DefaultCacheTTL,
		SectionAnchors:       woocrawl.DefaultSectionAnchors(),
	}
}

// LoadConfig reads the YAML file at path on top of the defaults. An empty
// path returns the defaults. Unknown keys are rejected.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, woocrawl.Errorf(woocrawl.EINVALID, "invalid config %s: %v", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.OpenBaseURL == "" {
		return woocrawl.Errorf(woocrawl.EINVALID, "open_base_url required")
	}
	if c.OrganizationsBaseURL == "" {
		return woocrawl.Errorf(woocrawl.EINVALID, "organizations_base_url required")
	}
	if c.Delay < 0 {
		return woocrawl.Errorf(woocrawl.EINVALID, "delay must not be negative")
	}
	for _, a := range c.SectionAnchors {
		if a.Key == "" || a.Anchor == "" {
			return woocrawl.Errorf(woocrawl.EINVALID, "section anchor needs key and anchor")
		}
	}
	return nil
}

// ApplyFlags overrides file settings with the flags that were set.
func (c *Config) ApplyFlags(cli *CLI) {
	if cli.Delay > 0 {
		c.Delay = cli.Delay
	}
	if cli.UserAgent != "" {
		c.UserAgent = cli.UserAgent
	}
	if cli.Browser {
		c.Browser = true
	}
	if cli.DownloadDir != "" {
		c.DownloadDir = cli.DownloadDir
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".woocrawl"
	}
	return filepath.Join(home, ".woocrawl")
}

func defaultDBPath() string {
	if path := os.Getenv("WOOCRAWL_DB"); path != "" {
		return path
	}
	dir := defaultDataDir()
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "woocrawl.db")
}
