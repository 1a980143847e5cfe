package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/dagkrant"
	"github.com/fwojciec/dagkrant/digest"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx         context.Context
	Stdout      io.Writer
	Stderr      io.Writer
	Logger      *slog.Logger
	Sanitizer   dagkrant.Sanitizer
	Converter   dagkrant.Converter
	Newsletters dagkrant.NewsletterService
	Digest      *digest.Digest
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose     bool   `short:"v" help:"Log debug output"`
	RulesConfig string `name:"rules-config" type:"existingfile" help:"YAML file overriding the sanitizer thresholds"`
	DB          string `name:"db" env:"DAGKRANT_DB" help:"Archive database path (default ~/.dagkrant/dagkrant.db)"`

	Run     RunCmd     `cmd:"" help:"Assemble today's edition and mail it"`
	Clean   CleanCmd   `cmd:"" help:"Sanitize a single newsletter HTML file"`
	History HistoryCmd `cmd:"" help:"List archived newsletters"`
}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	GmailUser     string        `name:"gmail-user" env:"GMAIL_USER" help:"Mailbox account, also used as sender"`
	GmailPassword string        `name:"gmail-password" env:"GMAIL_APP_PASSWORD" help:"Mailbox app password"`
	To            string        `name:"to" env:"TARGET_EMAIL" help:"Recipient of the edition"`
	Provider      string        `enum:"openai,gemini" default:"openai" help:"Translation provider (openai, gemini)"`
	OpenAIKey     string        `name:"openai-key" env:"OPENAI_API_KEY" help:"OpenAI API key"`
	GeminiKey     string        `name:"gemini-key" env:"GEMINI_API_KEY" help:"Gemini API key"`
	IMAPServer    string        `name:"imap-server" env:"IMAP_SERVER" default:"imap.gmail.com:993" help:"IMAP server address"`
	SMTPServer    string        `name:"smtp-server" env:"SMTP_SERVER" default:"smtp.gmail.com" help:"SMTP server host"`
	SMTPPort      int           `name:"smtp-port" env:"SMTP_PORT" default:"587" help:"SMTP submission port"`
	Label         string        `default:"Nieuwsbrieven" help:"Mailbox label holding the newsletters"`
	MaxItems      int           `name:"max-items" default:"20" help:"Newsletters per edition"`
	MaxWords      int           `name:"max-words" default:"0" help:"Truncate newsletters to this many words (0 disables)"`
	Concurrency   int           `short:"c" default:"4" help:"Newsletters processed at once"`
	Rescue        string        `enum:"off,trafilatura,readability" default:"off" help:"Extractor for newsletters the sanitizer empties (off, trafilatura, readability)"`
	Retention     time.Duration `default:"2160h" help:"Keep archived newsletters this long (0 keeps everything)"`
	DryRun        string        `name:"dry-run" type:"path" placeholder:"FILE" help:"Write the PDF to FILE instead of mailing it"`
}

// CleanCmd is the "clean" subcommand.
type CleanCmd struct {
	File     string `arg:"" type:"existingfile" help:"HTML file to sanitize"`
	Subject  string `help:"Subject line; removes a leading heading that repeats it"`
	MaxWords int    `name:"max-words" help:"Truncate to this many words"`
	Markdown bool   `help:"Print Markdown instead of HTML"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	Sender string        `help:"Only newsletters from this sender"`
	Since  time.Duration `help:"Only newsletters received within this period"`
	Limit  int           `short:"n" default:"20" help:"Maximum number of newsletters"`
}
