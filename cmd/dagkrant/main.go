package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/dagkrant"
	"github.com/fwojciec/dagkrant/clean"
	"github.com/fwojciec/dagkrant/digest"
	"github.com/fwojciec/dagkrant/gemini"
	"github.com/fwojciec/dagkrant/goquery"
	"github.com/fwojciec/dagkrant/htmltomarkdown"
	"github.com/fwojciec/dagkrant/imap"
	"github.com/fwojciec/dagkrant/llm"
	"github.com/fwojciec/dagkrant/openai"
	"github.com/fwojciec/dagkrant/readability"
	"github.com/fwojciec/dagkrant/rod"
	dslog "github.com/fwojciec/dagkrant/slog"
	"github.com/fwojciec/dagkrant/smtp"
	"github.com/fwojciec/dagkrant/sqlite"
	"github.com/fwojciec/dagkrant/trafilatura"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "warning: .env:", err)
	}

	ctx := context.Background()

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

	// SQLite database used by the archive.
	DB *sqlite.DB

	// Services for end-to-end testing. Nil fields are wired from the
	// environment.
	Source    dagkrant.NewsletterSource
	Completer llm.Completer
	Renderer  dagkrant.Renderer
	Mailer    dagkrant.Mailer
	Now       func() time.Time
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
		kong.Name("dagkrant"),
		kong.Description("Bundle the day's newsletters into one Dutch PDF edition."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'dagkrant --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	sanitizer, err := newSanitizer(cli.RulesConfig)
	if err != nil {
		return err
	}
	deps.Sanitizer = dslog.NewLoggingSanitizer(sanitizer, deps.Logger)
	deps.Converter = htmltomarkdown.NewConverter()

	// The clean command works on a local file and never touches the archive.
	command := kongCtx.Command()
	if strings.HasPrefix(command, "clean") {
		return kongCtx.Run(deps)
	}

	if cli.DB != "" {
		m.DBPath = cli.DB
	}
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set DAGKRANT_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	deps.Newsletters = sqlite.NewNewsletterService(m.DB)

	if command == "run" {
		closeFn, err := m.wireDigest(ctx, &cli.Run, deps)
		if err != nil {
			fmt.Fprintf(stderr, "error: %s\n", dagkrant.ErrorMessage(err))
			return err
		}
		defer closeFn()
	}

	return kongCtx.Run(deps)
}

// wireDigest builds the pipeline for the run command. The returned
// function releases the browser.
func (m *Main) wireDigest(ctx context.Context, c *RunCmd, deps *Dependencies) (func(), error) {
	if err := m.checkSettings(c); err != nil {
		return nil, err
	}
	logger := deps.Logger

	source := m.Source
	if source == nil {
		source = imap.NewSource(
			imap.Dialer(c.IMAPServer, c.GmailUser, c.GmailPassword),
			imap.WithLabel(c.Label),
			imap.WithSenderResolver(goquery.NewSenderResolver()),
			imap.WithLogger(logger),
		)
	}

	completer := m.Completer
	if completer == nil {
		switch c.Provider {
		case "gemini":
			g, err := gemini.New(ctx, c.GeminiKey)
			if err != nil {
				fmt.Fprintln(deps.Stderr, "Hint: Check your GEMINI_API_KEY is valid")
				return nil, err
			}
			completer = g
		default:
			completer = openai.New(c.OpenAIKey)
		}
	}

	closeFn := func() {}
	renderer := m.Renderer
	if renderer == nil {
		r, err := rod.NewRenderer()
		if err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed")
			return nil, err
		}
		renderer = r
		closeFn = func() { _ = r.Close() }
	}

	mailer := m.Mailer
	if mailer == nil && c.DryRun == "" {
		addr := net.JoinHostPort(c.SMTPServer, strconv.Itoa(c.SMTPPort))
		mailer = smtp.NewMailer(addr, c.GmailUser, c.GmailPassword)
	}

	d := &digest.Digest{
		Source:      dslog.NewLoggingSource(source, logger),
		Sanitizer:   deps.Sanitizer,
		Detector:    dslog.NewLoggingLanguageDetector(goquery.NewLanguageDetector(), logger),
		Translator:  dslog.NewLoggingTranslator(llm.NewTranslator(completer, llm.WithLogger(logger)), logger),
		TOC:         dslog.NewLoggingTOCGenerator(llm.NewTOCGenerator(completer), logger),
		Renderer:    dslog.NewLoggingRenderer(renderer, logger),
		Archive:     deps.Newsletters,
		Logger:      logger,
		To:          c.To,
		MaxItems:    c.MaxItems,
		MaxWords:    c.MaxWords,
		Concurrency: c.Concurrency,
		Retention:   c.Retention,
		DryRun:      c.DryRun != "",
		Now:         m.Now,
	}
	if mailer != nil {
		d.Mailer = dslog.NewLoggingMailer(mailer, logger)
	}
	switch c.Rescue {
	case "trafilatura":
		d.Extractor = trafilatura.NewExtractor()
	case "readability":
		d.Extractor = readability.NewExtractor()
	}
	deps.Digest = d
	return closeFn, nil
}

// checkSettings reports the settings the run command needs but did not
// get. Injected services need no settings.
func (m *Main) checkSettings(c *RunCmd) error {
	var missing []string
	needMailbox := m.Source == nil || (m.Mailer == nil && c.DryRun == "")
	if needMailbox && c.GmailUser == "" {
		missing = append(missing, "GMAIL_USER")
	}
	if needMailbox && c.GmailPassword == "" {
		missing = append(missing, "GMAIL_APP_PASSWORD")
	}
	if c.To == "" && c.DryRun == "" {
		missing = append(missing, "TARGET_EMAIL")
	}
	if m.Completer == nil {
		switch c.Provider {
		case "gemini":
			if c.GeminiKey == "" {
				missing = append(missing, "GEMINI_API_KEY")
			}
		default:
			if c.OpenAIKey == "" {
				missing = append(missing, "OPENAI_API_KEY")
			}
		}
	}
	if len(missing) > 0 {
		return dagkrant.Errorf(dagkrant.EINVALID, "missing settings: %v", missing)
	}
	return nil
}

func newSanitizer(path string) (*clean.Sanitizer, error) {
	if path == "" {
		return clean.NewSanitizer(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rules config: %w", err)
	}
	defer f.Close()

	cfg, err := clean.LoadConfig(f)
	if err != nil {
		return nil, fmt.Errorf("load rules config %q: %w", path, err)
	}
	return clean.NewSanitizer(clean.WithConfig(cfg)), nil
}

func defaultDBPath() string {
	if path := os.Getenv("DAGKRANT_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "dagkrant.db"
	}
	dir := filepath.Join(home, ".dagkrant")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "dagkrant.db")
}
