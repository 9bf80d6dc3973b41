// Package adapter 从在线目录读取列元数据（BigQuery、MySQL、PostgreSQL、SQL Server）
package adapter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"star-erd/internal/schema"
)

// 支持的目录类型
const (
	CatalogBigQuery  = "bigquery"
	CatalogMySQL     = "mysql"
	CatalogPostgres  = "postgres"
	CatalogSQLServer = "sqlserver"
)

// ErrCatalogUnavailable 目录无法访问（认证、网络、权限）
var ErrCatalogUnavailable = errors.New("schema catalog unavailable")

// CatalogReader 目录读取接口
type CatalogReader interface {
	// ReadColumns 返回数据集中所有表的所有列，一次查询，不分页不重试
	ReadColumns(ctx context.Context) ([]schema.CatalogRow, error)

	// Close 关闭连接
	Close() error
}

// Options 连接参数
type Options struct {
	Type            string
	Project         string
	Dataset         string
	DSN             string
	CredentialsFile string
	Location        string
}

// CatalogError 目录访问失败，附带修复提示
type CatalogError struct {
	Catalog string
	Hint    string
	Err     error
}

func (e *CatalogError) Error() string {
	return fmt.Sprintf("%s catalog: %v", e.Catalog, e.Err)
}

func (e *CatalogError) Unwrap() []error {
	return []error{ErrCatalogUnavailable, e.Err}
}

func hintFor(catalog string) string {
	if catalog == CatalogBigQuery {
		return "run `gcloud auth application-default login` or set catalog.credentials_file"
	}
	return "check catalog.dsn and that the database server is reachable"
}

func catalogError(catalog string, err error) error {
	var ce *CatalogError
	if errors.As(err, &ce) {
		return err
	}
	return &CatalogError{Catalog: catalog, Hint: hintFor(catalog), Err: err}
}

// Open 根据目录类型创建读取器
func Open(ctx context.Context, opts Options) (CatalogReader, error) {
	var (
		reader CatalogReader
		err    error
	)

	switch strings.ToLower(opts.Type) {
	case CatalogBigQuery, "":
		reader, err = NewBigQueryReader(ctx, opts.Project, opts.Dataset, opts.CredentialsFile, opts.Location)
	case CatalogMySQL:
		reader, err = NewMySQLReader(ctx, opts.DSN, opts.Dataset)
	case CatalogPostgres:
		reader, err = NewPostgresReader(ctx, opts.DSN, opts.Dataset)
	case CatalogSQLServer:
		reader, err = NewSQLServerReader(ctx, opts.DSN, opts.Dataset)
	default:
		return nil, fmt.Errorf("unsupported catalog type: %s", opts.Type)
	}
	if err != nil {
		return nil, err
	}
	return reader, nil
}

// ReadSnapshot 在超时内执行唯一一次目录查询并构建 Snapshot；失败时不产生部分结果
func ReadSnapshot(ctx context.Context, reader CatalogReader, catalog string, timeout time.Duration) (*schema.Snapshot, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	rows, err := reader.ReadColumns(ctx)
	if err != nil {
		return nil, catalogError(catalog, err)
	}
	return schema.FromCatalog(rows)
}
