package analyzer

import (
	"strings"

	"star-erd/internal/schema"
)

// Resolver 为一张表给出外键关系
type Resolver interface {
	Relationships(table *schema.Table) []schema.FKEdge
}

// RelationshipInferer 关系推断器：按命名约定把事实表的 *_key 列匹配到维度表
type RelationshipInferer struct {
	dims []*schema.Table // 字典序，决定并列时的选择
}

// NewRelationshipInferer 创建推断器
func NewRelationshipInferer(snap *schema.Snapshot) *RelationshipInferer {
	return &RelationshipInferer{dims: snap.Dimensions()}
}

// ExpectedKeyName 维度表的期望键名：dim_user -> user_key
func ExpectedKeyName(dimTable string) string {
	return strings.TrimPrefix(dimTable, schema.DimensionPrefix) + schema.KeySuffix
}

// Match 按维度表顺序返回第一个匹配 column 的维度表
func (r *RelationshipInferer) Match(column string) (*schema.Table, bool) {
	if !strings.HasSuffix(column, schema.KeySuffix) {
		return nil, false
	}
	for _, dim := range r.dims {
		if matchesDimension(column, dim) {
			return dim, true
		}
	}
	return nil, false
}

func matchesDimension(column string, dim *schema.Table) bool {
	// 1. 期望键名完全相同，或以 "_<期望键名>" 结尾（referrer_user_key）
	expected := ExpectedKeyName(dim.Name)
	if column == expected || strings.HasSuffix(column, "_"+expected) {
		return true
	}
	// 2. 维度表里直接存在同名列（geo_key 在 dim_geography 中）
	return dim.HasColumn(column)
}

// InferRelationships 推断事实表的外键；非事实表返回空
func (r *RelationshipInferer) InferRelationships(table *schema.Table) []schema.FKEdge {
	if table.Kind != schema.KindFact {
		return nil
	}

	var edges []schema.FKEdge
	for _, col := range table.Columns {
		dim, ok := r.Match(col.Name)
		if !ok {
			continue
		}
		edges = append(edges, schema.FKEdge{
			FromTable:  table.Name,
			FromColumn: col.Name,
			ToTable:    dim.Name,
			ToColumn:   col.Name,
		})
	}
	return edges
}

// Relationships 实现 Resolver
func (r *RelationshipInferer) Relationships(table *schema.Table) []schema.FKEdge {
	return r.InferRelationships(table)
}

// Unmatched 返回推断后仍未匹配的 *_key 列
func (r *RelationshipInferer) Unmatched(table *schema.Table) []string {
	if table.Kind != schema.KindFact {
		return nil
	}
	var cols []string
	for _, col := range table.Columns {
		if !strings.HasSuffix(col.Name, schema.KeySuffix) {
			continue
		}
		if _, ok := r.Match(col.Name); !ok {
			cols = append(cols, col.Name)
		}
	}
	return cols
}

// ExplicitResolver 显式引用优先，其余事实表列回退到命名推断
type ExplicitResolver struct {
	inferer *RelationshipInferer
}

// NewExplicitResolver 创建显式优先解析器
func NewExplicitResolver(inferer *RelationshipInferer) *ExplicitResolver {
	return &ExplicitResolver{inferer: inferer}
}

// Relationships 实现 Resolver
func (e *ExplicitResolver) Relationships(table *schema.Table) []schema.FKEdge {
	var edges []schema.FKEdge
	for _, col := range table.Columns {
		if col.Ref != nil {
			edges = append(edges, schema.FKEdge{
				FromTable:  table.Name,
				FromColumn: col.Name,
				ToTable:    col.Ref.Table,
				ToColumn:   col.Ref.Column,
				Explicit:   true,
			})
			continue
		}
		if table.Kind != schema.KindFact {
			continue
		}
		if dim, ok := e.inferer.Match(col.Name); ok {
			edges = append(edges, schema.FKEdge{
				FromTable:  table.Name,
				FromColumn: col.Name,
				ToTable:    dim.Name,
				ToColumn:   col.Name,
			})
		}
	}
	return edges
}
