// Package export writes run results to local JSON and CSV files.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/codeGROOVE-dev/liscrape/lobstr"
)

// timestampLayout matches the vendor dashboard's export naming.
const timestampLayout = "20060102_150405"

// JSONPath returns the default JSON output filename for the given time.
func JSONPath(dir string, now time.Time) string {
	return filepath.Join(dir, "results_"+now.Format(timestampLayout)+".json")
}

// CSVPath returns the default CSV output filename for the given time.
func CSVPath(dir string, now time.Time) string {
	return filepath.Join(dir, "results_"+now.Format(timestampLayout)+".csv")
}

// WriteJSON writes results to path as indented JSON. An empty result set
// still produces a file so downstream tooling sees the run happened.
func WriteJSON(path string, results []lobstr.Result) error {
	if results == nil {
		results = []lobstr.Result{}
	}

	data, err := json.MarshalIndent(results, "", "    ")
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// DownloadCSV fetches the CSV export for a run and writes it to path.
// The vendor generates the file asynchronously after the export URL is
// requested, so wait passes before the download starts.
func DownloadCSV(ctx context.Context, client *lobstr.Client, runID, path string, wait time.Duration, logger *slog.Logger) error {
	s3URL, err := client.ExportURL(ctx, runID)
	if err != nil {
		return err
	}

	if wait > 0 {
		logger.InfoContext(ctx, "waiting for CSV generation", "run", runID, "wait", wait)
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	data, err := client.Download(ctx, s3URL)
	if err != nil {
		return fmt.Errorf("download CSV for run %s: %w", runID, err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	logger.InfoContext(ctx, "CSV export saved", "run", runID, "path", path, "bytes", len(data))
	return nil
}
