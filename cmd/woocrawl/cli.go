package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/woocrawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	Config *Config

	Documents     woocrawl.DocumentService
	Organizations woocrawl.OrganizationService
	Pids          woocrawl.PidService
	Sitemaps      woocrawl.SitemapService
	Fetcher       woocrawl.Fetcher
	Limiter       woocrawl.DomainLimiter
	Cache         woocrawl.Cache

	Detector      woocrawl.PageDetector
	Metadata      woocrawl.MetadataExtractor
	Detail        woocrawl.DetailExtractor
	Classifier    woocrawl.Classifier
	Converter     woocrawl.Converter
	Normalizer    woocrawl.APINormalizer
	OrgExtractor  woocrawl.OrganizationExtractor
	PidParser     PidParser
	DetailLinks   func(html, baseURL string) ([]string, error)
	Files         woocrawl.FileStore
	Summarizer    woocrawl.Summarizer
	Writer        woocrawl.DocumentWriter

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// PidParser parses a PID export into a tree and the number of dropped nodes.
type PidParser interface {
	ParsePidTree(body []byte) (*woocrawl.PidTree, int, error)
}

func (d *Dependencies) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config      string        `help:"YAML configuration file" type:"path" env:"WOOCRAWL_CONFIG"`
	DB          string        `help:"SQLite database path" type:"path" env:"WOOCRAWL_DB"`
	Delay       time.Duration `help:"Delay between requests to one host (overrides config)" env:"WOOCRAWL_DELAY"`
	UserAgent   string        `help:"User-Agent header" env:"WOOCRAWL_USER_AGENT"`
	Browser     bool          `help:"Render pages with headless Chrome"`
	DownloadDir string        `help:"Directory for downloaded files" type:"path" env:"WOOCRAWL_DOWNLOAD_DIR"`
	Verbose     bool          `short:"v" help:"Enable debug logging"`

	Collect       CollectCmd       `cmd:"" help:"Discover document URLs from search pages, sitemaps or an API response"`
	Process       ProcessCmd       `cmd:"" help:"Process discovered documents"`
	Organizations OrganizationsCmd `cmd:"" help:"Crawl the organization index and detail pages"`
	PidImport     PidImportCmd     `cmd:"" name:"pid-import" help:"Import a PID JSON export"`
	Normalize     NormalizeCmd     `cmd:"" help:"Normalize an API response file into document descriptors"`
	Classify      ClassifyCmd      `cmd:"" help:"Classify a URL or HTML file"`
	Stats         StatsCmd         `cmd:"" help:"Show crawl progress"`
	Monitor       MonitorCmd       `cmd:"" help:"Show crawl progress until every document is processed"`
	Show          ShowCmd          `cmd:"" help:"Show one document"`
	Export        ExportCmd        `cmd:"" help:"Export processed documents as Markdown files"`
}

// CollectCmd is the "collect" subcommand.
type CollectCmd struct {
	Source   string `enum:"search,sitemap,api" default:"search" help:"Discovery source (search, sitemap, api)"`
	File     string `type:"path" help:"API response file for --source=api"`
	MaxPages int    `help:"Maximum number of search pages"`
}

// ProcessCmd is the "process" subcommand.
type ProcessCmd struct {
	Limit      int    `short:"n" default:"100" help:"Maximum number of documents to process"`
	URL        string `help:"Process one document URL"`
	NoDownload bool   `help:"Do not download attached files"`
	Summarize  bool   `help:"Write missing summaries with Gemini (needs GEMINI_API_KEY)"`
}

// OrganizationsCmd is the "organizations" subcommand.
type OrganizationsCmd struct {
	IndexOnly   bool     `help:"Only walk the index pages"`
	DetailsOnly bool     `help:"Only fetch detail pages of known organizations"`
	Seeds       []string `help:"Index URLs to start from (default: portal root)"`
	MaxPages    int      `help:"Maximum number of index pages"`
	Limit       int      `short:"n" help:"Maximum number of detail pages (0 = all)"`
	Force       bool     `short:"f" help:"Refetch details of processed organizations"`
}

// PidImportCmd is the "pid-import" subcommand.
type PidImportCmd struct {
	File string `arg:"" type:"existingfile" help:"PID JSON export"`
}

// NormalizeCmd is the "normalize" subcommand.
type NormalizeCmd struct {
	File string `arg:"" type:"existingfile" help:"API response JSON file"`
	JSON bool   `help:"Print descriptors as JSON"`
}

// ClassifyCmd is the "classify" subcommand.
type ClassifyCmd struct {
	Target string `arg:"" help:"URL or HTML file"`
	URL    string `help:"URL to classify the file as"`
}

// StatsCmd is the "stats" subcommand.
type StatsCmd struct{}

// MonitorCmd is the "monitor" subcommand.
type MonitorCmd struct {
	Interval time.Duration `default:"30s" help:"Time between reports"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	Target string `arg:"" help:"Document ID or source URL"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Dir   string `arg:"" type:"path" help:"Output directory"`
	Limit int    `short:"n" help:"Maximum number of documents (0 = all)"`
}
