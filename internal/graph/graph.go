package graph

import (
	"encoding/json"
)

// Layout 图级属性
type Layout struct {
	RankDir  string  `json:"rankdir"`
	Splines  string  `json:"splines,omitempty"`
	NodeSep  float64 `json:"nodesep,omitempty"`
	RankSep  float64 `json:"ranksep,omitempty"`
	FontSize int     `json:"fontsize"`
}

// SchemaGraph 一次渲染使用的图描述，节点和边保持插入顺序
type SchemaGraph struct {
	Name   string  `json:"name"`
	Layout Layout  `json:"layout"`
	Nodes  []*Node `json:"nodes"`
	Edges  []*Edge `json:"edges"`

	index map[string]*Node
}

// NewSchemaGraph 创建新图
func NewSchemaGraph(name string, layout Layout) *SchemaGraph {
	return &SchemaGraph{
		Name:   name,
		Layout: layout,
		index:  make(map[string]*Node),
	}
}

// AddNode 添加节点，重复 ID 被忽略
func (g *SchemaGraph) AddNode(node *Node) {
	if _, exists := g.index[node.ID]; exists {
		return
	}
	g.index[node.ID] = node
	g.Nodes = append(g.Nodes, node)
}

// AddEdge 添加边
func (g *SchemaGraph) AddEdge(edge *Edge) {
	g.Edges = append(g.Edges, edge)
}

// GetNode 获取节点
func (g *SchemaGraph) GetNode(id string) *Node {
	return g.index[id]
}

// ToJSON 导出为JSON
func (g *SchemaGraph) ToJSON() ([]byte, error) {
	return json.MarshalIndent(g, "", "  ")
}
