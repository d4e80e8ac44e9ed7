package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/newsstream/pkg/config"
	"github.com/umputun/newsstream/pkg/domain"
	"github.com/umputun/newsstream/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" default:"newsstream.yml" description:"configuration file"`

	Server struct {
		NoUpdate bool `long:"no-update" env:"NO_UPDATE" description:"disable periodic ingestion"`
	} `command:"server" description:"run HTTP API with periodic ingestion (default)"`
	Ingest   struct{} `command:"ingest" description:"fetch, enrich and store articles once"`
	Repair   struct{} `command:"repair" description:"compute missing embeddings"`
	Diagnose struct{} `command:"diagnose" description:"check corpus and retrieval health"`
	Ask      struct {
		Args struct {
			Query []string `positional-arg-name:"query" required:"1"`
		} `positional-args:"yes" required:"yes"`
	} `command:"ask" description:"answer a question over stored news"`

	// common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	parser.SubcommandsOptional = true
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	command := "server"
	if parser.Active != nil {
		command = parser.Active.Name
	}

	setupLog(opts.Debug, opts.NoColor)
	log.Printf("[INFO] starting newsstream version %s, command %s", revision, command)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts, command, os.Stdout)
	cancel()

	if err != nil {
		log.Printf("[ERROR] %s failed: %v", command, err)
		os.Exit(1)
	}
	log.Print("[DEBUG] done")
}

// run loads configuration, wires components and executes the command
func run(ctx context.Context, opts Opts, command string, out io.Writer) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// re-init logging with api keys hidden
	setupLog(opts.Debug, opts.NoColor, cfg.LLM.APIKey, cfg.Embedding.APIKey)

	a, err := newApp(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to init: %w", err)
	}
	defer a.Close()

	switch command {
	case "server":
		return runServer(ctx, a, cfg, opts.Server.NoUpdate, opts.Debug)
	case "ingest":
		stats, err := a.pipeline.Ingest(ctx)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "ingest complete, %s\n", stats)
		return nil
	case "repair":
		stats, err := a.pipeline.Repair(ctx)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "repair complete, %s\n", stats)
		return nil
	case "ask":
		return ask(ctx, a, strings.Join(opts.Ask.Args.Query, " "), out)
	case "diagnose":
		return diagnose(ctx, a, out)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func runServer(ctx context.Context, a *app, cfg *config.Config, noUpdate, debug bool) error {
	// warm up the embedding model, the server still starts without it and retries on first use
	if err := a.provider.Load(ctx); err != nil {
		log.Printf("[WARN] embedding model not ready: %v", err)
	}

	if !noUpdate && cfg.Ingest.UpdateInterval > 0 {
		go a.pipeline.Run(ctx, cfg.Ingest.UpdateInterval)
	}

	srv := server.New(cfg, server.Services{
		Store:     a.repos.Article,
		Searcher:  a.retriever,
		Responder: a.composer,
		Runner:    a.pipeline,
		DB:        a.repos,
		Model:     a.provider,
	}, revision, debug)
	if err := srv.Run(ctx); err != nil {
		return err
	}
	log.Print("[INFO] shutdown complete")
	return nil
}

// ask prints the answer followed by its sources
func ask(ctx context.Context, a *app, query string, out io.Writer) error {
	if strings.TrimSpace(query) == "" {
		return errors.New("empty query")
	}
	answer := a.composer.Answer(ctx, query)

	title := color.New(color.FgHiWhite, color.Bold).SprintFunc()
	_, _ = fmt.Fprintf(out, "%s\n%s\n", title("Answer:"), answer.Text)
	if answer.Date != "" {
		_, _ = fmt.Fprintf(out, "(date filter %s)\n", answer.Date)
	}
	if len(answer.Sources) == 0 {
		return nil
	}
	_, _ = fmt.Fprintf(out, "\n%s\n", title("Sources:"))
	for i, s := range answer.Sources {
		_, _ = fmt.Fprintf(out, "%d. [%.3f] %s\n   %s\n", i+1, s.Score, s.Article.Title, s.Article.Link)
	}
	return nil
}

// diagnose reports corpus and retrieval health
func diagnose(ctx context.Context, a *app, out io.Writer) error {
	store := a.repos.Article
	pass := color.New(color.FgGreen).SprintFunc()
	fail := color.New(color.FgRed).SprintFunc()

	if err := a.repos.Ping(ctx); err != nil {
		_, _ = fmt.Fprintf(out, "database: %s %v\n", fail("FAILED"), err)
		return fmt.Errorf("ping database: %w", err)
	}
	_, _ = fmt.Fprintf(out, "database: %s\n", pass("ok"))

	total, err := store.Count(ctx)
	if err != nil {
		return fmt.Errorf("count articles: %w", err)
	}
	_, _ = fmt.Fprintf(out, "total articles: %d\n", total)

	sports, err := store.CountMatching(ctx, "Sports")
	if err != nil {
		return fmt.Errorf("count sports articles: %w", err)
	}
	_, _ = fmt.Fprintf(out, "sports-related articles: %d\n", sports)

	embedded, err := store.FindByFilter(ctx, domain.ArticleFilter{HasEmbedding: true})
	if err != nil {
		return fmt.Errorf("find embedded articles: %w", err)
	}
	switch len(embedded) {
	case 0:
		_, _ = fmt.Fprintf(out, "sample embedding: %s\n", fail("none stored"))
	default:
		_, _ = fmt.Fprintf(out, "sample embedding length: %d (%d of %d embedded)\n", len(embedded[0].Embedding), len(embedded), total)
	}

	if err := a.provider.Load(ctx); err != nil {
		_, _ = fmt.Fprintf(out, "embedding model: %s %v\n", fail("FAILED"), err)
		return nil
	}
	_, _ = fmt.Fprintf(out, "embedding model: %s, dimension %d\n", pass("ok"), a.provider.Dimension())

	const query = "latest sports news"
	vec, err := a.provider.EmbedQuery(ctx, query)
	if err != nil {
		_, _ = fmt.Fprintf(out, "query embedding: %s %v\n", fail("FAILED"), err)
		return nil
	}
	_, _ = fmt.Fprintf(out, "query embedding: %s, length %d\n", pass("ok"), len(vec))

	results, err := a.retriever.Retrieve(ctx, query, 3, "")
	if err != nil {
		return fmt.Errorf("retrieve: %w", err)
	}
	_, _ = fmt.Fprintf(out, "top %d for %q:\n", len(results), query)
	for i, r := range results {
		_, _ = fmt.Fprintf(out, "%d. [%.3f] %s\n", i+1, r.Score, r.Article.Title)
	}
	return nil
}

func setupLog(dbg, noColor bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	color.NoColor = noColor
	if !noColor {
		colorizer := lgr.Mapper{
			ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
			WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
			InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
			DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
			CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
			TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
		}
		logOpts = append(logOpts, lgr.Map(colorizer))
	}

	var secrets []string
	for _, s := range secs {
		if s != "" {
			secrets = append(secrets, s)
		}
	}
	if len(secrets) > 0 {
		logOpts = append(logOpts, lgr.Secret(secrets...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
