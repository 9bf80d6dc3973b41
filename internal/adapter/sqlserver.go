package adapter

import (
	"context"

	_ "github.com/denisenkom/go-mssqldb"
)

const sqlServerColumnsQuery = `
	SELECT
		TABLE_NAME,
		COLUMN_NAME,
		DATA_TYPE,
		IS_NULLABLE,
		CAST(ORDINAL_POSITION AS BIGINT)
	FROM INFORMATION_SCHEMA.COLUMNS
	WHERE TABLE_SCHEMA = @p1
	ORDER BY TABLE_NAME, ORDINAL_POSITION
`

// SQLServerReader SQL Server 目录读取器，dataset 对应 schema（如 dbo）
type SQLServerReader struct {
	*sqlReader
}

// NewSQLServerReader 创建 SQL Server 读取器
func NewSQLServerReader(ctx context.Context, dsn, dataset string) (*SQLServerReader, error) {
	r, err := openSQL(ctx, CatalogSQLServer, "sqlserver", dsn, dataset, sqlServerColumnsQuery)
	if err != nil {
		return nil, err
	}
	return &SQLServerReader{sqlReader: r}, nil
}
