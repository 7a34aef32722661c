// Command liscrape scrapes LinkedIn profile data through the Lobstr.io API.
//
// Usage:
//
//	liscrape                       # scrape URLs listed in urls.txt
//	liscrape -l profiles.txt -e    # custom list, with email enrichment
//	liscrape -u https://www.linkedin.com/in/johndoe
//
// The API key is read from LOBSTR_API_KEY or API_KEY, or from a .env file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/liscrape"
	"github.com/codeGROOVE-dev/liscrape/auth"
	"github.com/codeGROOVE-dev/liscrape/lobstr"
	"github.com/codeGROOVE-dev/liscrape/squidcache"
)

func main() {
	urlFlag := flag.String("u", "", "single LinkedIn profile URL to scrape")
	listFlag := flag.String("l", "urls.txt", "file with LinkedIn profile URLs, one per line")
	emailFlag := flag.Bool("e", false, "enable email enrichment")
	verbose := flag.Bool("v", false, "verbose logging")
	outDir := flag.String("o", ".", "directory for result files")
	pollInterval := flag.Duration("poll", 10*time.Second, "run progress polling interval")
	noCSV := flag.Bool("no-csv", false, "skip the CSV export")
	noCache := flag.Bool("no-cache", false, "do not remember the selected squid")
	flag.Usage = usage
	flag.Parse()

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	apiKey, err := auth.ChainSources(ctx, auth.EnvSource{}, auth.DotenvSource{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving API key: %v\n", err)
		os.Exit(1)
	}
	if apiKey == "" {
		fmt.Fprintf(os.Stderr, "Error: no API key found. Set %s or add it to a .env file.\n",
			strings.Join(auth.EnvVarNames(), " or "))
		os.Exit(1)
	}

	urls, err := targetURLs(*urlFlag, *listFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(urls) == 0 {
		logger.Info("nothing to process", "list", *listFlag)
		return
	}

	client, err := lobstr.New(ctx, lobstr.WithAPIKey(apiKey), lobstr.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts := []liscrape.Option{
		liscrape.WithLogger(logger),
		liscrape.WithPollInterval(*pollInterval),
		liscrape.WithOutputDir(*outDir),
	}
	if !*noCache {
		cache, err := squidcache.New(ctx)
		if err != nil {
			logger.Warn("squid cache unavailable, continuing without it", "error", err)
		} else {
			defer func() {
				if err := cache.Close(); err != nil {
					logger.Warn("failed to close squid cache", "error", err)
				}
			}()
			opts = append(opts, liscrape.WithSquidCache(cache))
		}
	}

	scraper := liscrape.New(client, opts...)
	outcome, err := scraper.Run(ctx, liscrape.Job{
		URLs:        urls,
		EnrichEmail: *emailFlag,
		SkipCSV:     *noCSV,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("interrupted, exiting")
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1) //nolint:gocritic // exitAfterDefer is acceptable in main
	}

	fmt.Print("\nScrape complete\n")
	fmt.Print("===============\n")
	fmt.Printf("Squid:    %s\n", outcome.SquidID)
	fmt.Printf("Run:      %s\n", outcome.RunID)
	fmt.Printf("Profiles: %d\n", outcome.ResultCount)
	fmt.Printf("JSON:     %s\n", outcome.JSONPath)
	if outcome.CSVPath != "" {
		fmt.Printf("CSV:      %s\n", outcome.CSVPath)
	}
}

func targetURLs(single, listPath string) ([]string, error) {
	if s := strings.TrimSpace(single); s != "" {
		return []string{s}, nil
	}
	return liscrape.ReadURLList(listPath)
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "Flags:")
	flag.PrintDefaults()
	fmt.Fprintln(os.Stderr, "\nExamples:")
	fmt.Fprintf(os.Stderr, "  %s -l urls.txt -e\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  %s -u https://www.linkedin.com/in/johndoe\n", os.Args[0])
}
