// Package diagram 将表集合和外键关系转换为图描述：单表卡片、星型图、全量 ERD
package diagram

import (
	"sort"

	"star-erd/internal/analyzer"
	"star-erd/internal/graph"
	"star-erd/internal/schema"
)

// 默认显示上限（仅影响全量 ERD 的显示，不影响推断）
const (
	DefaultDimensionCap = 15
	DefaultFactCap      = 20
)

// Caps 全量 ERD 中每张表最多显示的列数，<=0 表示不截断
type Caps struct {
	Dimension int
	Fact      int
}

// DefaultCaps 默认显示上限
func DefaultCaps() Caps {
	return Caps{Dimension: DefaultDimensionCap, Fact: DefaultFactCap}
}

// Builder 图构建器，所有模式共用同一个 Resolver
type Builder struct {
	resolver analyzer.Resolver
	caps     Caps
}

// NewBuilder 创建构建器
func NewBuilder(resolver analyzer.Resolver, caps Caps) *Builder {
	return &Builder{resolver: resolver, caps: caps}
}

// TableCard 单表卡片：全部列（名称、类型、可空），无边
func (b *Builder) TableCard(t *schema.Table) *graph.SchemaGraph {
	g := graph.NewSchemaGraph("table_schema", graph.Layout{RankDir: "TB", FontSize: 11})

	node := &graph.Node{
		ID:       t.Name,
		Type:     nodeType(t.Kind),
		Name:     t.Name,
		Nullable: true,
	}
	for _, c := range t.Columns {
		node.Rows = append(node.Rows, graph.Row{Name: c.Name, DataType: c.Type, Nullable: c.Nullable})
	}
	g.AddNode(node)
	return g
}

// Star 星型图：事实表 + 其引用的维度表，边即推断（或显式）关系
func (b *Builder) Star(snap *schema.Snapshot, fact *schema.Table) *graph.SchemaGraph {
	g := graph.NewSchemaGraph("star_schema", graph.Layout{
		RankDir:  "LR",
		Splines:  "ortho",
		NodeSep:  0.5,
		RankSep:  1.2,
		FontSize: 10,
	})

	center := tableNode(fact, 0)
	center.Emphasis = true
	g.AddNode(center)

	edges := b.resolver.Relationships(fact)

	var targets []string
	seen := make(map[string]bool)
	for _, e := range edges {
		if !seen[e.ToTable] {
			seen[e.ToTable] = true
			targets = append(targets, e.ToTable)
		}
	}
	sort.Strings(targets)

	for _, name := range targets {
		if t, ok := snap.Table(name); ok && name != fact.Name {
			g.AddNode(tableNode(t, 0))
		}
	}

	for _, e := range edges {
		addEdge(g, e)
	}
	return g
}

// FullERD 全量 ERD：全部维度表和事实表；超过显示上限的列被折叠为 "+N more"，
// 推断仍使用完整列集合
func (b *Builder) FullERD(snap *schema.Snapshot) *graph.SchemaGraph {
	g := graph.NewSchemaGraph("full_erd", graph.Layout{
		RankDir:  "LR",
		Splines:  "ortho",
		NodeSep:  0.5,
		FontSize: 9,
	})

	tables := append(snap.Dimensions(), snap.Facts()...)
	for _, t := range tables {
		limit := b.caps.Dimension
		if t.Kind == schema.KindFact {
			limit = b.caps.Fact
		}
		g.AddNode(tableNode(t, limit))
	}

	for _, t := range tables {
		for _, e := range b.resolver.Relationships(t) {
			addEdge(g, e)
		}
	}
	return g
}

// Relationships 返回 FullERD 使用的全部关系（供文本输出复用）
func (b *Builder) Relationships(snap *schema.Snapshot) []schema.FKEdge {
	var out []schema.FKEdge
	for _, t := range append(snap.Dimensions(), snap.Facts()...) {
		out = append(out, b.resolver.Relationships(t)...)
	}
	return out
}

func tableNode(t *schema.Table, limit int) *graph.Node {
	node := &graph.Node{ID: t.Name, Type: nodeType(t.Kind), Name: t.Name}

	shown := t.Columns
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
		node.Hidden = len(t.Columns) - limit
	}
	for _, c := range shown {
		node.Rows = append(node.Rows, graph.Row{Port: c.Name, Name: c.Name, DataType: c.Type, Nullable: c.Nullable})
	}
	return node
}

// addEdge 只连接图中已有的节点；被截断的列退化为连接到节点本身
func addEdge(g *graph.SchemaGraph, e schema.FKEdge) {
	from := g.GetNode(e.FromTable)
	to := g.GetNode(e.ToTable)
	if from == nil || to == nil {
		return
	}

	edge := &graph.Edge{
		ID:   e.String(),
		Type: graph.EdgeTypeInferredFK,
		From: e.FromTable,
		To:   e.ToTable,
	}
	if e.Explicit {
		edge.Type = graph.EdgeTypeFK
	}
	if from.HasPort(e.FromColumn) {
		edge.FromPort = e.FromColumn
	}
	if to.HasPort(e.ToColumn) {
		edge.ToPort = e.ToColumn
	}
	g.AddEdge(edge)
}

func nodeType(kind schema.Kind) graph.NodeType {
	switch kind {
	case schema.KindFact:
		return graph.NodeTypeFact
	case schema.KindDimension:
		return graph.NodeTypeDimension
	default:
		return graph.NodeTypeTable
	}
}
