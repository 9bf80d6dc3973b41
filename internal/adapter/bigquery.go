package adapter

import (
	"context"
	"errors"
	"fmt"
	"os"

	"cloud.google.com/go/bigquery"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"star-erd/internal/schema"
)

// BigQueryReader BigQuery 目录读取器
type BigQueryReader struct {
	client   *bigquery.Client
	project  string
	dataset  string
	location string
}

type bqColumnRow struct {
	TableName       string `bigquery:"table_name"`
	ColumnName      string `bigquery:"column_name"`
	DataType        string `bigquery:"data_type"`
	IsNullable      string `bigquery:"is_nullable"`
	OrdinalPosition int64  `bigquery:"ordinal_position"`
}

// NewBigQueryReader 创建 BigQuery 读取器；未指定凭据文件时要求存在应用默认凭据
func NewBigQueryReader(ctx context.Context, project, dataset, credentialsFile, location string) (*BigQueryReader, error) {
	if project == "" || dataset == "" {
		return nil, catalogError(CatalogBigQuery, errors.New("project and dataset are required"))
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		if _, err := os.Stat(credentialsFile); err != nil {
			return nil, catalogError(CatalogBigQuery, fmt.Errorf("credentials file: %w", err))
		}
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	} else if _, err := google.FindDefaultCredentials(ctx, bigquery.Scope); err != nil {
		return nil, catalogError(CatalogBigQuery, fmt.Errorf("application default credentials: %w", err))
	}

	client, err := bigquery.NewClient(ctx, project, opts...)
	if err != nil {
		return nil, catalogError(CatalogBigQuery, err)
	}

	return &BigQueryReader{
		client:   client,
		project:  project,
		dataset:  dataset,
		location: location,
	}, nil
}

// ColumnsQuery 数据集的列元数据查询
func ColumnsQuery(project, dataset string) string {
	return fmt.Sprintf("SELECT table_name, column_name, data_type, is_nullable, ordinal_position\n"+
		"FROM `%s.%s.INFORMATION_SCHEMA.COLUMNS`\n"+
		"ORDER BY table_name, ordinal_position", project, dataset)
}

// ReadColumns 执行 INFORMATION_SCHEMA.COLUMNS 查询
func (r *BigQueryReader) ReadColumns(ctx context.Context) ([]schema.CatalogRow, error) {
	q := r.client.Query(ColumnsQuery(r.project, r.dataset))
	if r.location != "" {
		q.Location = r.location
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, catalogError(CatalogBigQuery, err)
	}

	var out []schema.CatalogRow
	for {
		var row bqColumnRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, catalogError(CatalogBigQuery, err)
		}
		out = append(out, schema.CatalogRow{
			Table:    row.TableName,
			Column:   row.ColumnName,
			DataType: row.DataType,
			Nullable: row.IsNullable == "YES",
			Ordinal:  row.OrdinalPosition,
		})
	}
	return out, nil
}

// Close 关闭客户端
func (r *BigQueryReader) Close() error {
	return r.client.Close()
}
