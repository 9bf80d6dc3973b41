package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load(New(), "")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Catalog.Type != "bigquery" || cfg.Catalog.Project != "YOUR_PROJECT" || cfg.Catalog.Dataset != "netflix_dw" {
		t.Errorf("unexpected catalog defaults %+v", cfg.Catalog)
	}
	if cfg.Catalog.Timeout != 60*time.Second {
		t.Errorf("expected 60s timeout, got %v", cfg.Catalog.Timeout)
	}
	if cfg.Output.Dir != "erd_generated" || cfg.Output.Format != "png" || cfg.Output.DotBinary != "dot" {
		t.Errorf("unexpected output defaults %+v", cfg.Output)
	}
	if cfg.Diagram.DimensionCap != 15 || cfg.Diagram.FactCap != 20 {
		t.Errorf("unexpected caps %+v", cfg.Diagram)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	doc := `
catalog:
  project: from-file
  dataset: file_ds
output:
  format: SVG
diagram:
  fact_cap: 0
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ERD_CATALOG_DATASET", "env_ds")

	cfg, err := Load(New(), path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Catalog.Project != "from-file" {
		t.Errorf("file value ignored: %s", cfg.Catalog.Project)
	}
	if cfg.Catalog.Dataset != "env_ds" {
		t.Errorf("environment should override file, got %s", cfg.Catalog.Dataset)
	}
	if cfg.Output.Format != "svg" {
		t.Errorf("format should be lower-cased, got %s", cfg.Output.Format)
	}
	if cfg.Diagram.FactCap != 0 {
		t.Errorf("zero cap should be kept, got %d", cfg.Diagram.FactCap)
	}
}

func TestBindFlags(t *testing.T) {
	chdir(t, t.TempDir())

	flags := pflag.NewFlagSet("scan", pflag.ContinueOnError)
	flags.String("project", "", "")
	flags.String("format", "", "")
	if err := flags.Parse([]string{"--project", "cli-proj"}); err != nil {
		t.Fatal(err)
	}

	v := New()
	if err := BindFlags(v, flags, map[string]string{
		"catalog.project": "project",
		"output.format":   "format",
	}); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}

	cfg, err := Load(v, "")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Catalog.Project != "cli-proj" {
		t.Errorf("flag should override default, got %s", cfg.Catalog.Project)
	}
	if cfg.Output.Format != "png" {
		t.Errorf("unset flag must not clobber default, got %q", cfg.Output.Format)
	}

	if err := BindFlags(v, flags, map[string]string{"x": "missing"}); err == nil {
		t.Error("expected error for unknown flag")
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"bad format", map[string]string{"ERD_OUTPUT_FORMAT": "jpeg"}, "Format"},
		{"bad catalog", map[string]string{"ERD_CATALOG_TYPE": "oracle"}, "Type"},
		{"negative cap", map[string]string{"ERD_DIAGRAM_DIMENSION_CAP": "-1"}, "DimensionCap"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(New(), "")
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected validation error mentioning %s, got %v", tt.want, err)
			}
		})
	}
}

func TestCatalogValidate(t *testing.T) {
	c := CatalogConfig{Type: "mysql", Project: "p", Dataset: "d", Timeout: time.Second}
	if err := c.Validate(); err == nil {
		t.Error("mysql without dsn should fail")
	}
	c.DSN = "user:pass@tcp(localhost:3306)/d"
	if err := c.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	bq := CatalogConfig{Type: "bigquery", Project: "p", Dataset: "d", Timeout: time.Second}
	if err := bq.Validate(); err != nil {
		t.Errorf("bigquery needs no dsn: %v", err)
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent to testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
