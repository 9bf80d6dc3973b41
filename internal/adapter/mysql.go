package adapter

import (
	"context"

	_ "github.com/go-sql-driver/mysql"
)

const mysqlColumnsQuery = `
	SELECT
		TABLE_NAME,
		COLUMN_NAME,
		DATA_TYPE,
		IS_NULLABLE,
		ORDINAL_POSITION
	FROM INFORMATION_SCHEMA.COLUMNS
	WHERE TABLE_SCHEMA = ?
	ORDER BY TABLE_NAME, ORDINAL_POSITION
`

// MySQLReader MySQL 目录读取器，dataset 对应 schema（数据库名）
type MySQLReader struct {
	*sqlReader
}

// NewMySQLReader 创建 MySQL 读取器
func NewMySQLReader(ctx context.Context, dsn, dataset string) (*MySQLReader, error) {
	r, err := openSQL(ctx, CatalogMySQL, "mysql", dsn, dataset, mysqlColumnsQuery)
	if err != nil {
		return nil, err
	}
	return &MySQLReader{sqlReader: r}, nil
}
