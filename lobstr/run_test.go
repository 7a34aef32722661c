package lobstr

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAddTasks(t *testing.T) {
	var gotBody map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/tasks" {
			t.Errorf("got %s %s, want POST /tasks", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))

	urls := []string{
		"https://www.linkedin.com/in/jane",
		"https://www.linkedin.com/in/joe",
	}
	count, err := client.AddTasks(context.Background(), "squid-1", urls)
	if err != nil {
		t.Fatalf("AddTasks() error = %v", err)
	}
	if count != 2 {
		t.Errorf("AddTasks() = %d, want 2", count)
	}

	want := map[string]any{
		"squid": "squid-1",
		"tasks": []any{
			map[string]any{"url": "https://www.linkedin.com/in/jane"},
			map[string]any{"url": "https://www.linkedin.com/in/joe"},
		},
	}
	if diff := cmp.Diff(want, gotBody); diff != "" {
		t.Errorf("request body mismatch (-want +got):\n%s", diff)
	}
}

func TestAddTasks_NoURLs(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Error("no request expected for an empty URL list")
	}))

	count, err := client.AddTasks(context.Background(), "squid-1", nil)
	if err != nil {
		t.Fatalf("AddTasks() error = %v", err)
	}
	if count != 0 {
		t.Errorf("AddTasks() = %d, want 0", count)
	}
}

func TestStartRun(t *testing.T) {
	var gotBody map[string]string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"id":"run-7"}`)) //nolint:errcheck // test helper
	}))

	runID, err := client.StartRun(context.Background(), "squid-1")
	if err != nil {
		t.Fatalf("StartRun() error = %v", err)
	}
	if runID != "run-7" {
		t.Errorf("StartRun() = %q, want %q", runID, "run-7")
	}
	if gotBody["squid"] != "squid-1" {
		t.Errorf("squid = %q, want %q", gotBody["squid"], "squid-1")
	}
}

func TestRunStats(t *testing.T) {
	tests := []struct {
		name string
		json string
		want RunStats
	}{
		{
			name: "in progress",
			json: `{"percent_done":42.5,"is_done":false}`,
			want: RunStats{PercentDone: 42.5, IsDone: false},
		},
		{
			name: "done",
			json: `{"percent_done":100,"is_done":true}`,
			want: RunStats{PercentDone: 100, IsDone: true},
		},
		{
			name: "missing fields default to zero",
			json: `{}`,
			want: RunStats{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/runs/run-7/stats" {
					t.Errorf("path = %q, want /runs/run-7/stats", r.URL.Path)
				}
				_, _ = w.Write([]byte(tt.json)) //nolint:errcheck // test helper
			}))

			stats, err := client.RunStats(context.Background(), "run-7")
			if err != nil {
				t.Fatalf("RunStats() error = %v", err)
			}
			if diff := cmp.Diff(&tt.want, stats); diff != "" {
				t.Errorf("RunStats() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAbortRun(t *testing.T) {
	var gotPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))

	if err := client.AbortRun(context.Background(), "run-7"); err != nil {
		t.Fatalf("AbortRun() error = %v", err)
	}
	if gotPath != "/runs/run-7/abort" {
		t.Errorf("path = %q, want /runs/run-7/abort", gotPath)
	}
}

func TestResults(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/results" {
			t.Errorf("path = %q, want /results", r.URL.Path)
		}
		if got := r.URL.Query().Get("run"); got != "run-7" {
			t.Errorf("run query param = %q, want %q", got, "run-7")
		}
		_, _ = w.Write([]byte(`[
			{"name":"Jane Doe","headline":"Engineer"},
			{"name":"Joe Bloggs","headline":"Designer"}
		]`)) //nolint:errcheck // test helper
	}))

	results, err := client.Results(context.Background(), "run-7")
	if err != nil {
		t.Fatalf("Results() error = %v", err)
	}

	want := []Result{
		{"name": "Jane Doe", "headline": "Engineer"},
		{"name": "Joe Bloggs", "headline": "Designer"},
	}
	if diff := cmp.Diff(want, results); diff != "" {
		t.Errorf("Results() mismatch (-want +got):\n%s", diff)
	}
}

func TestExportURL(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/runs/run-7/download" {
			t.Errorf("path = %q, want /runs/run-7/download", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"s3":"https://exports.example.com/run-7.csv"}`)) //nolint:errcheck // test helper
	}))

	url, err := client.ExportURL(context.Background(), "run-7")
	if err != nil {
		t.Fatalf("ExportURL() error = %v", err)
	}
	if url != "https://exports.example.com/run-7.csv" {
		t.Errorf("ExportURL() = %q", url)
	}
}

func TestExportURL_MissingS3(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`)) //nolint:errcheck // test helper
	}))

	if _, err := client.ExportURL(context.Background(), "run-7"); err == nil {
		t.Error("ExportURL() expected error for missing S3 URL, got nil")
	}
}

func TestDownload_NoAuthHeader(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte("name,headline\nJane Doe,Engineer\n")) //nolint:errcheck // test helper
	}))

	data, err := client.Download(context.Background(), "http://"+clientHost(t, client)+"/file.csv")
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	if len(data) == 0 {
		t.Error("Download() returned empty body")
	}
	if gotAuth != "" {
		t.Errorf("Authorization = %q, want empty for pre-signed URLs", gotAuth)
	}
}

// clientHost extracts the test server host from the client's base URL.
func clientHost(t *testing.T, c *Client) string {
	t.Helper()
	const prefix = "http://"
	if len(c.baseURL) <= len(prefix) {
		t.Fatalf("unexpected base URL %q", c.baseURL)
	}
	return c.baseURL[len(prefix):]
}
