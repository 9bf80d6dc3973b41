package adapter

import (
	"context"

	_ "github.com/lib/pq"
)

const postgresColumnsQuery = `
	SELECT
		table_name,
		column_name,
		data_type,
		is_nullable,
		ordinal_position
	FROM information_schema.columns
	WHERE table_schema = $1
	ORDER BY table_name, ordinal_position
`

// PostgresReader PostgreSQL 目录读取器，dataset 对应 schema（如 public）
type PostgresReader struct {
	*sqlReader
}

// NewPostgresReader 创建 PostgreSQL 读取器
func NewPostgresReader(ctx context.Context, dsn, dataset string) (*PostgresReader, error) {
	r, err := openSQL(ctx, CatalogPostgres, "postgres", dsn, dataset, postgresColumnsQuery)
	if err != nil {
		return nil, err
	}
	return &PostgresReader{sqlReader: r}, nil
}
