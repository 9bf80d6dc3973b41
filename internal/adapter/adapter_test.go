package adapter

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"star-erd/internal/schema"
)

type fakeReader struct {
	rows   []schema.CatalogRow
	err    error
	wait   bool
	closed bool
}

func (f *fakeReader) ReadColumns(ctx context.Context) ([]schema.CatalogRow, error) {
	if f.wait {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.rows, f.err
}

func (f *fakeReader) Close() error {
	f.closed = true
	return nil
}

func TestReadSnapshot(t *testing.T) {
	reader := &fakeReader{rows: []schema.CatalogRow{
		{Table: "fact_x", Column: "user_key", DataType: "INT64", Ordinal: 2},
		{Table: "dim_user", Column: "user_key", DataType: "INT64", Ordinal: 1},
		{Table: "fact_x", Column: "event_id", DataType: "STRING", Nullable: true, Ordinal: 1},
	}}

	snap, err := ReadSnapshot(context.Background(), reader, CatalogBigQuery, time.Second)
	if err != nil {
		t.Fatalf("ReadSnapshot returned error: %v", err)
	}
	if snap.Len() != 2 {
		t.Fatalf("expected 2 tables, got %d", snap.Len())
	}
	fact, _ := snap.Table("fact_x")
	if names := fact.ColumnNames(); names[0] != "event_id" || names[1] != "user_key" {
		t.Errorf("columns should follow ordinal order, got %v", names)
	}
}

func TestReadSnapshotFailure(t *testing.T) {
	tests := []struct {
		name   string
		reader *fakeReader
	}{
		{"query error", &fakeReader{err: errors.New("permission denied")}},
		{"timeout", &fakeReader{wait: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := ReadSnapshot(context.Background(), tt.reader, CatalogBigQuery, 10*time.Millisecond)
			if snap != nil {
				t.Error("no partial snapshot on failure")
			}
			if !errors.Is(err, ErrCatalogUnavailable) {
				t.Fatalf("expected ErrCatalogUnavailable, got %v", err)
			}
			var ce *CatalogError
			if !errors.As(err, &ce) || !strings.Contains(ce.Hint, "gcloud auth application-default login") {
				t.Errorf("expected BigQuery auth hint, got %+v", ce)
			}
		})
	}
}

func TestOpenUnsupported(t *testing.T) {
	_, err := Open(context.Background(), Options{Type: "oracle"})
	if err == nil || errors.Is(err, ErrCatalogUnavailable) {
		t.Errorf("unsupported type should be a usage error, got %v", err)
	}
}

func TestBigQueryMissingCredentialsFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "creds.json")
	_, err := Open(context.Background(), Options{
		Type:            CatalogBigQuery,
		Project:         "p",
		Dataset:         "d",
		CredentialsFile: missing,
	})
	if !errors.Is(err, ErrCatalogUnavailable) {
		t.Errorf("expected ErrCatalogUnavailable, got %v", err)
	}
}

func TestColumnsQuery(t *testing.T) {
	q := ColumnsQuery("proj", "netflix_dw")
	if !strings.Contains(q, "`proj.netflix_dw.INFORMATION_SCHEMA.COLUMNS`") {
		t.Errorf("unexpected query %s", q)
	}
	if !strings.HasSuffix(q, "ORDER BY table_name, ordinal_position") {
		t.Errorf("query must order by table and ordinal: %s", q)
	}
}
