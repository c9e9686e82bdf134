package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/woocrawl"
	"github.com/fwojciec/woocrawl/crawl"
	"github.com/fwojciec/woocrawl/dateparse"
	"github.com/fwojciec/woocrawl/fs"
	"github.com/fwojciec/woocrawl/gemini"
	"github.com/fwojciec/woocrawl/gjson"
	"github.com/fwojciec/woocrawl/goquery"
	"github.com/fwojciec/woocrawl/htmltomarkdown"
	woohttp "github.com/fwojciec/woocrawl/http"
	"github.com/fwojciec/woocrawl/lingua"
	"github.com/fwojciec/woocrawl/memory"
	"github.com/fwojciec/woocrawl/readability"
	"github.com/fwojciec/woocrawl/rod"
	wooslog "github.com/fwojciec/woocrawl/slog"
	"github.com/fwojciec/woocrawl/sqlite"
	"github.com/fwojciec/woocrawl/trafilatura"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	DocumentService     woocrawl.DocumentService
	OrganizationService woocrawl.OrganizationService
	PidService          woocrawl.PidService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("woocrawl"),
		kong.Description("Crawl Woo publications and the organization register of the Dutch government."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'woocrawl --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	cfg, err := LoadConfig(cli.Config)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", woocrawl.ErrorMessage(err))
		return err
	}
	cfg.ApplyFlags(cli)
	deps.Config = cfg

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger

	if needsDB(cmd) {
		if cli.DB != "" {
			m.DBPath = cli.DB
		}
		m.DB = sqlite.NewDB(m.DBPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set WOOCRAWL_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
		}
		defer m.Close()

		m.DocumentService = wooslog.NewLoggingDocumentService(sqlite.NewDocumentService(m.DB), logger)
		m.OrganizationService = sqlite.NewOrganizationService(m.DB)
		m.PidService = sqlite.NewPidService(m.DB)
		deps.Documents = m.DocumentService
		deps.Organizations = m.OrganizationService
		deps.Pids = m.PidService
	}

	if err := wireParsers(deps, cfg, cmd); err != nil {
		fmt.Fprintf(stderr, "error: %s\n", woocrawl.ErrorMessage(err))
		return err
	}

	if needsFetcher(cmd) || (cmd == "classify" && isURL(cli.Classify.Target)) {
		fetcher, err := newFetcher(cfg, logger)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed for --browser")
			return fmt.Errorf("failed to create fetcher: %w", err)
		}
		defer fetcher.Close()

		deps.Fetcher = fetcher
		deps.Limiter = crawl.NewDomainLimiter(cfg.Delay)
		deps.Cache = memory.NewCache(cfg.CacheTTL)
		deps.Sitemaps = wooslog.NewLoggingSitemapService(woohttp.NewSitemapService(nil), logger)
	}

	if cmd == "process" && !cli.Process.NoDownload {
		deps.Files = fs.NewFileStore(cfg.DownloadDir)
	}

	if cmd == "process" && cli.Process.Summarize {
		summarizer, err := newSummarizer(ctx, cfg.Summarizer)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Set GEMINI_API_KEY. Get a key at https://aistudio.google.com/apikey")
			return err
		}
		deps.Summarizer = summarizer
	}

	if cmd == "export" {
		deps.Writer = fs.NewWriter(cli.Export.Dir)
	}

	return kongCtx.Run(deps)
}

// needsDB reports whether cmd reads or writes the database.
func needsDB(cmd string) bool {
	switch cmd {
	case "normalize", "classify":
		return false
	}
	return true
}

func needsFetcher(cmd string) bool {
	switch cmd {
	case "collect", "process", "organizations":
		return true
	}
	return false
}

// wireParsers sets the extractors of the crawl commands. None of them
// touches the network.
func wireParsers(deps *Dependencies, cfg *Config, cmd string) error {
	dates := dateparse.NewParser()
	classifier := goquery.NewClassifier()

	content := trafilatura.NewExtractor()
	content.Fallback = readability.NewExtractor()

	metadata := goquery.NewMetadataExtractor()
	metadata.Content = content
	metadata.Dates = dates
	metadata.Classifier = classifier
	if cmd == "process" {
		// Loading the language models takes a while.
		metadata.Language = lingua.NewDetector()
	}

	detail := gjson.NewDetailExtractor()
	detail.Dates = dates

	deps.Detector = goquery.NewDetector()
	deps.Metadata = metadata
	deps.Detail = detail
	deps.Classifier = classifier
	deps.Converter = htmltomarkdown.NewConverter(htmltomarkdown.WithDomain(cfg.OpenBaseURL))
	deps.Normalizer = gjson.NewNormalizer()
	deps.PidParser = &gjson.PidParser{Dates: dates}
	deps.DetailLinks = goquery.ExtractDetailLinks

	orgs, err := goquery.NewSectionExtractor(cfg.OrganizationsBaseURL, cfg.SectionAnchors)
	if err != nil {
		return err
	}
	deps.OrgExtractor = orgs
	return nil
}

// newFetcher returns the browser fetcher when rendering is enabled and the
// plain HTTP fetcher otherwise, wrapped with logging.
func newFetcher(cfg *Config, logger *slog.Logger) (woocrawl.Fetcher, error) {
	if cfg.Browser {
		f, err := rod.NewFetcher(rod.WithUserAgent(cfg.UserAgent))
		if err != nil {
			return nil, err
		}
		return wooslog.NewLoggingFetcher(f, logger), nil
	}

	var opts []woohttp.Option
	if cfg.UserAgent != "" {
		opts = append(opts, woohttp.WithUserAgent(cfg.UserAgent))
	}
	return wooslog.NewLoggingFetcher(woohttp.NewFetcher(opts...), logger), nil
}

func newSummarizer(ctx context.Context, cfg SummarizerConfig) (*gemini.Summarizer, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}

	s := gemini.NewSummarizer(client, cfg.Model)
	if cfg.MaxInputTokens > 0 {
		s.MaxInputTokens = cfg.MaxInputTokens
	}

	// The tokenizer only knows released models.
	counter, err := gemini.NewTokenCounter(gemini.DefaultModel)
	if err != nil {
		return nil, fmt.Errorf("failed to create token counter: %w", err)
	}
	s.Counter = counter
	return s, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
