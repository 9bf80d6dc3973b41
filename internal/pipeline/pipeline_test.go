package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"os"
	"strings"
	"testing"

	"star-erd/internal/analyzer"
	"star-erd/internal/diagram"
	"star-erd/internal/graph"
	"star-erd/internal/schema"
	"star-erd/internal/static"
)

type fakeRenderer struct {
	fail  map[string]bool
	calls []string
}

func (f *fakeRenderer) Write(_ context.Context, g *graph.SchemaGraph, base string) (string, error) {
	f.calls = append(f.calls, base)
	if f.fail[base] {
		return "", errors.New("dot exited with status 1")
	}
	return base + ".png", nil
}

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func liveSnapshot(t *testing.T) *schema.Snapshot {
	t.Helper()
	s, err := schema.FromCatalog([]schema.CatalogRow{
		{Table: "dim_user", Column: "user_key", DataType: "INT64", Ordinal: 1},
		{Table: "dim_date", Column: "date_key", DataType: "INT64", Ordinal: 1},
		{Table: "fact_a", Column: "user_key", DataType: "INT64", Ordinal: 1},
		{Table: "fact_a", Column: "date_key", DataType: "INT64", Ordinal: 2},
		{Table: "fact_b", Column: "amount", DataType: "FLOAT64", Ordinal: 1},
		{Table: "staging_raw", Column: "payload", DataType: "STRING", Ordinal: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestRun(t *testing.T) {
	s := liveSnapshot(t)
	r := &fakeRenderer{}
	var out bytes.Buffer

	p := New(diagram.NewBuilder(analyzer.NewRelationshipInferer(s), diagram.DefaultCaps()), r, &out)
	report := p.Run(context.Background(), s)

	want := []string{
		"dim_date", "dim_user", "fact_a", "fact_b", "staging_raw",
		"star_fact_a", "star_fact_b",
		"full_erd",
	}
	if strings.Join(r.calls, ",") != strings.Join(want, ",") {
		t.Errorf("expected render order %v, got %v", want, r.calls)
	}
	if report.Failed() || len(report.Written) != len(want) {
		t.Errorf("unexpected report %+v", report)
	}

	progress := out.String()
	for _, line := range []string{
		"✓ fact_a (2 cols)",
		"✓ fact_a → 2 dims → star_fact_a.png",
		"✓ fact_b → 0 dims → star_fact_b.png",
		"✓ 4 tables, 2 relationships → full_erd.png",
	} {
		if !strings.Contains(progress, line) {
			t.Errorf("progress missing %q\n%s", line, progress)
		}
	}
}

func TestRunIsolatesFailures(t *testing.T) {
	s := liveSnapshot(t)
	r := &fakeRenderer{fail: map[string]bool{"star_fact_a": true}}

	p := New(diagram.NewBuilder(analyzer.NewRelationshipInferer(s), diagram.DefaultCaps()), r, io.Discard)
	report := p.Run(context.Background(), s)

	if !report.Failed() || len(report.Failures) != 1 {
		t.Fatalf("expected exactly one failure, got %v", report.Failures)
	}
	if len(r.calls) != 8 {
		t.Errorf("remaining diagrams must still render, got %v", r.calls)
	}
}

func TestRunCanceled(t *testing.T) {
	s := liveSnapshot(t)
	r := &fakeRenderer{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := New(diagram.NewBuilder(analyzer.NewRelationshipInferer(s), diagram.DefaultCaps()), r, io.Discard).Run(ctx, s)
	if len(r.calls) != 0 || !errors.Is(report.Failures[0], context.Canceled) {
		t.Errorf("canceled run should render nothing, got calls=%v failures=%v", r.calls, report.Failures)
	}
}

func TestStaticStars(t *testing.T) {
	s, err := static.Load()
	if err != nil {
		t.Fatal(err)
	}
	r := &fakeRenderer{}
	var out bytes.Buffer
	resolver := analyzer.NewExplicitResolver(analyzer.NewRelationshipInferer(s))

	p := New(diagram.NewBuilder(resolver, diagram.Caps{}), r, &out)
	report := &Report{}
	p.Stars(context.Background(), s, report)

	if len(report.Written) != 12 {
		t.Errorf("expected one star per fact (12), got %d", len(report.Written))
	}
	if !strings.Contains(out.String(), "✓ fact_device_link → 4 dims → star_fact_device_link.png") {
		t.Errorf("fact_device_link should connect 4 dimensions\n%s", out.String())
	}

	p.Full(context.Background(), s, StaticERDName, report)
	if last := r.calls[len(r.calls)-1]; last != "netflix_dw_erd" {
		t.Errorf("static image should be named netflix_dw_erd, got %s", last)
	}
}
