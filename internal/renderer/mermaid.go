package renderer

import (
	"fmt"
	"strings"

	"star-erd/internal/graph"
)

// MermaidRenderer Mermaid ER 图渲染器
type MermaidRenderer struct{}

// NewMermaidRenderer 创建渲染器
func NewMermaidRenderer() *MermaidRenderer {
	return &MermaidRenderer{}
}

// Render 渲染为 Mermaid 格式
func (m *MermaidRenderer) Render(g *graph.SchemaGraph) string {
	var sb strings.Builder

	sb.WriteString("erDiagram\n")

	// 表定义，顺序与图一致
	for _, node := range g.Nodes {
		sb.WriteString(fmt.Sprintf("    %s {\n", node.Name))
		for _, row := range node.Rows {
			sb.WriteString(fmt.Sprintf("        %s %s", mermaidToken(row.DataType), row.Name))
			if node.Nullable && row.Nullable {
				sb.WriteString(` "NULL"`)
			}
			sb.WriteString("\n")
		}
		if node.Hidden > 0 {
			sb.WriteString(fmt.Sprintf("        more hidden_%d\n", node.Hidden))
		}
		sb.WriteString("    }\n")
	}

	if len(g.Edges) > 0 {
		sb.WriteString("\n")
	}

	for _, edge := range g.Edges {
		// 关系类型
		relType := "||--o{"
		if edge.Type == graph.EdgeTypeInferredFK {
			relType = "||..o{" // 虚线表示推断关系
		}

		label := edge.FromPort
		if label == "" {
			label = "ref"
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s : %s\n", edge.To, relType, edge.From, label))
	}

	return sb.String()
}

// mermaidToken Mermaid 属性类型不能含空格和括号
func mermaidToken(s string) string {
	r := strings.NewReplacer(" ", "_", "(", "_", ")", "", ",", "_", "<", "_", ">", "")
	return r.Replace(s)
}
