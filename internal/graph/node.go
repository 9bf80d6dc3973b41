package graph

// NodeType 节点类型
type NodeType string

const (
	NodeTypeDimension NodeType = "dimension"
	NodeTypeFact      NodeType = "fact"
	NodeTypeTable     NodeType = "table"
)

// Node 图节点：一张表，渲染为属性列表
type Node struct {
	ID       string   `json:"id"`
	Type     NodeType `json:"type"`
	Name     string   `json:"name"`
	Rows     []Row    `json:"rows"`
	Hidden   int      `json:"hidden,omitempty"`   // 因显示上限被截断的列数
	Nullable bool     `json:"nullable,omitempty"` // 是否显示可空列
	Emphasis bool     `json:"emphasis,omitempty"` // 星型图中心表
}

// Row 节点中的一列
type Row struct {
	Port     string `json:"port,omitempty"`
	Name     string `json:"name"`
	DataType string `json:"data_type"`
	Nullable bool   `json:"nullable"`
}

// HasPort 判断节点是否显示了该端口
func (n *Node) HasPort(port string) bool {
	for _, r := range n.Rows {
		if r.Port == port {
			return true
		}
	}
	return false
}
