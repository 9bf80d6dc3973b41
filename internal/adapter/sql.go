package adapter

import (
	"context"
	"database/sql"
	"strings"

	"star-erd/internal/schema"
)

// sqlReader database/sql 目录的公共实现，各方言只提供驱动名和查询语句
type sqlReader struct {
	catalog string
	db      *sql.DB
	query   string
	schema  string
}

func openSQL(ctx context.Context, catalog, driver, dsn, schemaName, query string) (*sqlReader, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, catalogError(catalog, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, catalogError(catalog, err)
	}
	return &sqlReader{catalog: catalog, db: db, query: query, schema: schemaName}, nil
}

// ReadColumns 查询 INFORMATION_SCHEMA.COLUMNS
func (r *sqlReader) ReadColumns(ctx context.Context) ([]schema.CatalogRow, error) {
	rows, err := r.db.QueryContext(ctx, r.query, r.schema)
	if err != nil {
		return nil, catalogError(r.catalog, err)
	}
	defer rows.Close()

	var out []schema.CatalogRow
	for rows.Next() {
		var (
			row      schema.CatalogRow
			nullable string
		)
		if err := rows.Scan(&row.Table, &row.Column, &row.DataType, &nullable, &row.Ordinal); err != nil {
			return nil, catalogError(r.catalog, err)
		}
		row.Nullable = strings.EqualFold(nullable, "YES")
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, catalogError(r.catalog, err)
	}
	return out, nil
}

// Close 关闭连接
func (r *sqlReader) Close() error {
	return r.db.Close()
}
