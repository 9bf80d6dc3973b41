package graph

// EdgeType 边类型
type EdgeType string

const (
	EdgeTypeFK         EdgeType = "foreign_key" // 显式外键
	EdgeTypeInferredFK EdgeType = "inferred_fk" // 推断外键
)

// Edge 图的边，端口为空时连接到节点本身
type Edge struct {
	ID       string   `json:"id"`
	Type     EdgeType `json:"type"`
	From     string   `json:"from"`
	FromPort string   `json:"from_port,omitempty"`
	To       string   `json:"to"`
	ToPort   string   `json:"to_port,omitempty"`
}
