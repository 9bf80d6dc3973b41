// Package export 基于静态表定义生成文本：QuickDBD 导入格式、元数据查询、外键描述 SQL
package export

import (
	"fmt"
	"strings"

	"star-erd/internal/schema"
)

// QuickDBD 生成 quickdatabasediagrams.com 可直接粘贴的文本，维度表在前
func QuickDBD(snap *schema.Snapshot) string {
	var sb strings.Builder

	sb.WriteString("# Netflix Data Warehouse ERD\n")
	sb.WriteString("# Paste this into https://www.quickdatabasediagrams.com/\n")
	sb.WriteString("#\n")

	sections := []struct {
		banner string
		kind   schema.Kind
	}{
		{"DIMENSIONS", schema.KindDimension},
		{"FACTS", schema.KindFact},
	}

	for _, section := range sections {
		sb.WriteString(fmt.Sprintf("# ========== %s ==========\n\n", section.banner))
		for _, t := range snap.Ordered() {
			if t.Kind != section.kind {
				continue
			}
			sb.WriteString(t.Name + "\n-\n")
			for _, col := range t.Columns {
				sb.WriteString(col.Name + " " + col.Type)
				if col.Role.IsPrimary() {
					sb.WriteString(" PK")
				}
				if col.Ref != nil {
					sb.WriteString(" FK >- " + col.Ref.String())
				}
				sb.WriteString("\n")
			}
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// MetadataQueries 生成提取 BigQuery 元数据的查询，仅做字符串替换
func MetadataQueries(project, dataset string) string {
	var sb strings.Builder

	sb.WriteString("-- Query 1: Get all tables in dataset\n")
	sb.WriteString(fmt.Sprintf("SELECT table_name \nFROM `%s.%s.INFORMATION_SCHEMA.TABLES`\nORDER BY table_name;\n\n", project, dataset))

	sb.WriteString("-- Query 2: Get columns for all tables\n")
	sb.WriteString(fmt.Sprintf(`SELECT
  table_name,
  column_name,
  data_type,
  is_nullable
FROM `+"`%s.%s.INFORMATION_SCHEMA.COLUMNS`"+`
ORDER BY table_name, ordinal_position;

`, project, dataset))

	sb.WriteString("-- Query 3: Get column descriptions (for bigquery-erd)\n")
	sb.WriteString(fmt.Sprintf(`SELECT
  table_name,
  column_name,
  description
FROM `+"`%s.%s.INFORMATION_SCHEMA.COLUMN_FIELD_PATHS`"+`
WHERE description IS NOT NULL
ORDER BY table_name, column_name;
`, project, dataset))

	return sb.String()
}

// FKDescriptions 为每个显式外键生成一条注释和一条 ALTER COLUMN 语句
func FKDescriptions(snap *schema.Snapshot, project, dataset string) string {
	var sb strings.Builder

	sb.WriteString("-- SQL statements to add FK descriptions for bigquery-erd\n")
	sb.WriteString("-- Run these to enable automatic ERD generation\n")
	sb.WriteString("-- Reference: https://pypi.org/project/bigquery-erd/\n\n")

	for _, t := range snap.Ordered() {
		for _, col := range t.Columns {
			if col.Ref == nil {
				continue
			}
			ref := col.Ref.String()
			sb.WriteString(fmt.Sprintf("-- %s.%s -> %s\n", t.Name, col.Name, ref))
			sb.WriteString(fmt.Sprintf("ALTER TABLE `%s.%s.%s`\nALTER COLUMN %s SET OPTIONS (description='-> %s');\n\n",
				project, dataset, t.Name, col.Name, ref))
		}
	}

	return sb.String()
}

// All 三种文本依次输出，每段前加标题横幅
func All(snap *schema.Snapshot, project, dataset string) string {
	var sb strings.Builder

	parts := []struct {
		title string
		body  string
	}{
		{"QUICKDBD FORMAT (paste into quickdatabasediagrams.com)", QuickDBD(snap)},
		{"BIGQUERY METADATA QUERIES", MetadataQueries(project, dataset)},
		{"BIGQUERY-ERD COLUMN DESCRIPTIONS", FKDescriptions(snap, project, dataset)},
	}

	for i, p := range parts {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(banner(p.title))
		sb.WriteString(p.body)
	}

	return sb.String()
}

func banner(title string) string {
	line := strings.Repeat("=", 60)
	return line + "\n" + title + "\n" + line + "\n"
}
