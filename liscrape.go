// Package liscrape orchestrates LinkedIn profile scraping through the
// Lobstr.io API: it selects or creates a squid, attaches a LinkedIn sync
// account, submits target URLs, runs the squid to completion, and exports
// the results to JSON and CSV.
package liscrape

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/codeGROOVE-dev/liscrape/export"
	"github.com/codeGROOVE-dev/liscrape/lobstr"
	"github.com/codeGROOVE-dev/liscrape/squidcache"
)

// Common errors.
var (
	// ErrNoAccounts means the Lobstr.io account has no LinkedIn sync account
	// to run the crawler with.
	ErrNoAccounts = errors.New("no LinkedIn accounts available; add one on Lobstr.io first")
	// ErrNoTasks means there were no URLs to submit.
	ErrNoTasks = errors.New("no URLs to process")
)

// Job describes one scraping request.
type Job struct {
	// URLs are the LinkedIn profile URLs to scrape.
	URLs []string
	// EnrichEmail enables the vendor's email enrichment function.
	EnrichEmail bool
	// SkipCSV disables the CSV export; JSON is always written.
	SkipCSV bool
}

// Outcome reports what a completed job produced.
type Outcome struct {
	SquidID     string
	RunID       string
	JSONPath    string
	CSVPath     string
	ResultCount int
}

// Scraper runs scraping jobs against the Lobstr.io API.
type Scraper struct {
	client       *lobstr.Client
	cache        *squidcache.Cache
	prompt       Prompter
	logger       *slog.Logger
	pollInterval time.Duration
	csvWait      time.Duration
	outDir       string
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithPrompter sets the prompter used for interactive choices.
func WithPrompter(p Prompter) Option {
	return func(s *Scraper) { s.prompt = p }
}

// WithSquidCache sets the cache remembering the last-used squid. A nil
// cache disables remembering.
func WithSquidCache(c *squidcache.Cache) Option {
	return func(s *Scraper) { s.cache = c }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scraper) { s.logger = logger }
}

// WithPollInterval sets how often run progress is polled.
func WithPollInterval(d time.Duration) Option {
	return func(s *Scraper) { s.pollInterval = d }
}

// WithCSVWait sets how long to wait for the vendor to generate the CSV
// export before downloading it.
func WithCSVWait(d time.Duration) Option {
	return func(s *Scraper) { s.csvWait = d }
}

// WithOutputDir sets the directory result files are written to.
func WithOutputDir(dir string) Option {
	return func(s *Scraper) { s.outDir = dir }
}

// New creates a Scraper. Without options it prompts on stdin/stdout,
// polls every 10 seconds, and writes results to the current directory.
func New(client *lobstr.Client, opts ...Option) *Scraper {
	s := &Scraper{
		client:       client,
		logger:       slog.Default(),
		pollInterval: 10 * time.Second,
		csvWait:      5 * time.Second,
		outDir:       ".",
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.prompt == nil {
		s.prompt = NewTerminalPrompter(os.Stdin, os.Stdout)
	}
	return s
}

// Run executes one scraping job end to end and reports the outcome.
// Cancelling ctx during polling offers to abort the remote run; the
// returned error is then the context error.
func (s *Scraper) Run(ctx context.Context, job Job) (*Outcome, error) {
	if len(job.URLs) == 0 {
		return nil, ErrNoTasks
	}

	squidID, isNew, err := s.selectSquid(ctx)
	if err != nil {
		return nil, err
	}

	accountID, err := s.selectAccount(ctx)
	if err != nil {
		return nil, err
	}

	settings := lobstr.SquidSettings{
		Accounts:    []string{accountID},
		EnrichEmail: job.EnrichEmail,
	}
	if err := s.client.UpdateSquid(ctx, squidID, settings); err != nil {
		return nil, err
	}

	if !isNew {
		empty, err := s.prompt.ConfirmEmpty(squidID)
		if err != nil {
			return nil, err
		}
		if empty {
			if err := s.client.EmptySquid(ctx, squidID); err != nil {
				return nil, err
			}
		}
	}

	if _, err := s.client.AddTasks(ctx, squidID, job.URLs); err != nil {
		return nil, err
	}

	runID, err := s.client.StartRun(ctx, squidID)
	if err != nil {
		return nil, err
	}

	if err := s.poll(ctx, runID); err != nil {
		return nil, err
	}

	results, err := s.client.Results(ctx, runID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	outcome := &Outcome{
		SquidID:     squidID,
		RunID:       runID,
		JSONPath:    export.JSONPath(s.outDir, now),
		ResultCount: len(results),
	}

	if err := export.WriteJSON(outcome.JSONPath, results); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "results saved", "path", outcome.JSONPath, "count", len(results))

	if !job.SkipCSV {
		csvPath := export.CSVPath(s.outDir, now)
		// JSON is already on disk, so a failed CSV export is not fatal.
		if err := export.DownloadCSV(ctx, s.client, runID, csvPath, s.csvWait, s.logger); err != nil {
			s.logger.WarnContext(ctx, "CSV export failed", "run", runID, "error", err)
		} else {
			outcome.CSVPath = csvPath
		}
	}

	return outcome, nil
}

// selectSquid reuses an existing LinkedIn squid or creates a new one.
func (s *Scraper) selectSquid(ctx context.Context) (squidID string, isNew bool, err error) {
	squids, err := s.client.LinkedInSquids(ctx)
	if err != nil {
		return "", false, err
	}

	if len(squids) == 0 {
		s.logger.InfoContext(ctx, "no existing LinkedIn squids, creating one")
		id, err := s.client.CreateSquid(ctx, lobstr.LinkedInProfileCrawler)
		if err != nil {
			return "", false, err
		}
		s.remember(ctx, id)
		return id, true, nil
	}

	var lastUsed string
	if s.cache != nil {
		lastUsed, _ = s.cache.LastUsed(ctx, lobstr.LinkedInProfileCrawler)
	}

	id, createNew, err := s.prompt.SelectSquid(squids, lastUsed)
	if err != nil {
		return "", false, err
	}
	if createNew {
		id, err = s.client.CreateSquid(ctx, lobstr.LinkedInProfileCrawler)
		if err != nil {
			return "", false, err
		}
	} else {
		s.logger.InfoContext(ctx, "reusing squid", "squid", id)
	}
	s.remember(ctx, id)
	return id, createNew, nil
}

// selectAccount picks the LinkedIn sync account to crawl with.
func (s *Scraper) selectAccount(ctx context.Context) (string, error) {
	accounts, err := s.client.LinkedInAccounts(ctx)
	if err != nil {
		return "", err
	}

	switch len(accounts) {
	case 0:
		return "", ErrNoAccounts
	case 1:
		s.logger.InfoContext(ctx, "auto-selecting only LinkedIn account", "username", accounts[0].Username)
		return accounts[0].ID, nil
	default:
		return s.prompt.SelectAccount(accounts)
	}
}

// poll blocks until the run reports completion, logging progress on each
// stats response.
func (s *Scraper) poll(ctx context.Context, runID string) error {
	for {
		stats, err := s.client.RunStats(ctx, runID)
		if err != nil {
			if ctx.Err() != nil {
				return s.interrupted(ctx, runID)
			}
			return err
		}

		s.logger.InfoContext(ctx, "run progress", "run", runID, "percent_done", stats.PercentDone)
		if stats.IsDone {
			s.logger.InfoContext(ctx, "run completed", "run", runID)
			return nil
		}

		select {
		case <-ctx.Done():
			return s.interrupted(ctx, runID)
		case <-time.After(s.pollInterval):
		}
	}
}

// interrupted handles ctx cancellation mid-run: the user decides whether
// the remote run should be aborted too.
func (s *Scraper) interrupted(ctx context.Context, runID string) error {
	abort, err := s.prompt.ConfirmAbort(runID)
	if err != nil {
		s.logger.WarnContext(ctx, "abort prompt failed, leaving run alive", "run", runID, "error", err)
		return ctx.Err()
	}
	if abort {
		if err := s.client.AbortRun(context.WithoutCancel(ctx), runID); err != nil {
			s.logger.WarnContext(ctx, "failed to abort run", "run", runID, "error", err)
		}
	} else {
		s.logger.InfoContext(ctx, "leaving remote run alive", "run", runID)
	}
	return ctx.Err()
}

func (s *Scraper) remember(ctx context.Context, squidID string) {
	if s.cache != nil {
		s.cache.Record(ctx, lobstr.LinkedInProfileCrawler, squidID)
	}
}
