package auth

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestChainSources_Order(t *testing.T) {
	ctx := context.Background()

	key, err := ChainSources(ctx, NewStaticSource(""), NewStaticSource("second"), NewStaticSource("third"))
	if err != nil {
		t.Fatalf("ChainSources() error = %v", err)
	}
	if key != "second" {
		t.Errorf("ChainSources() = %q, want %q (first non-empty source wins)", key, "second")
	}
}

func TestChainSources_NoKey(t *testing.T) {
	ctx := context.Background()

	key, err := ChainSources(ctx, NewStaticSource(""))
	if err != nil {
		t.Fatalf("ChainSources() error = %v", err)
	}
	if key != "" {
		t.Errorf("ChainSources() = %q, want empty", key)
	}
}

func TestEnvSource(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "primary var",
			env:  map[string]string{"LOBSTR_API_KEY": "primary"},
			want: "primary",
		},
		{
			name: "legacy var",
			env:  map[string]string{"API_KEY": "legacy"},
			want: "legacy",
		},
		{
			name: "primary wins over legacy",
			env:  map[string]string{"LOBSTR_API_KEY": "primary", "API_KEY": "legacy"},
			want: "primary",
		},
		{
			name: "nothing set",
			env:  map[string]string{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LOBSTR_API_KEY", "")
			t.Setenv("API_KEY", "")
			os.Unsetenv("LOBSTR_API_KEY") //nolint:errcheck // test cleanup via Setenv
			os.Unsetenv("API_KEY")        //nolint:errcheck // test cleanup via Setenv
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			key, err := EnvSource{}.Key(context.Background())
			if err != nil {
				t.Fatalf("Key() error = %v", err)
			}
			if key != tt.want {
				t.Errorf("Key() = %q, want %q", key, tt.want)
			}
		})
	}
}

func TestDotenvSource(t *testing.T) {
	t.Setenv("LOBSTR_API_KEY", "")
	t.Setenv("API_KEY", "")
	os.Unsetenv("LOBSTR_API_KEY") //nolint:errcheck // test cleanup via Setenv
	os.Unsetenv("API_KEY")        //nolint:errcheck // test cleanup via Setenv

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("API_KEY=from-dotenv\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	key, err := DotenvSource{Path: path}.Key(context.Background())
	if err != nil {
		t.Fatalf("Key() error = %v", err)
	}
	if key != "from-dotenv" {
		t.Errorf("Key() = %q, want %q", key, "from-dotenv")
	}
}

func TestDotenvSource_MissingFile(t *testing.T) {
	t.Setenv("LOBSTR_API_KEY", "")
	t.Setenv("API_KEY", "")
	os.Unsetenv("LOBSTR_API_KEY") //nolint:errcheck // test cleanup via Setenv
	os.Unsetenv("API_KEY")        //nolint:errcheck // test cleanup via Setenv

	key, err := DotenvSource{Path: filepath.Join(t.TempDir(), "nope.env")}.Key(context.Background())
	if err != nil {
		t.Fatalf("Key() error = %v, want nil for missing file", err)
	}
	if key != "" {
		t.Errorf("Key() = %q, want empty", key)
	}
}

func TestEnvVarNames(t *testing.T) {
	names := EnvVarNames()
	if len(names) != 2 || names[0] != "LOBSTR_API_KEY" || names[1] != "API_KEY" {
		t.Errorf("EnvVarNames() = %v", names)
	}
}
