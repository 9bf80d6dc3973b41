package renderer

import (
	"fmt"
	"html"
	"strings"

	"star-erd/internal/graph"
)

// 颜色方案：事实表金色，维度表（及其他表）蓝色
const (
	factHeaderColor = "#FFD700"
	factBgColor     = "#FFFACD"
	dimHeaderColor  = "#87CEEB"
	dimBgColor      = "#E6F3FF"
	gridHeaderColor = "#DDDDDD"
	edgeColor       = "#666666"
)

// DOTRenderer Graphviz DOT 渲染器
type DOTRenderer struct{}

// NewDOTRenderer 创建渲染器
func NewDOTRenderer() *DOTRenderer {
	return &DOTRenderer{}
}

// Render 渲染为 DOT 文本，节点和边按图中顺序输出
func (d *DOTRenderer) Render(g *graph.SchemaGraph) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("digraph %s {\n", g.Name))
	sb.WriteString(fmt.Sprintf("  graph [%s];\n", graphAttrs(g.Layout)))
	sb.WriteString(fmt.Sprintf("  node [shape=none, fontname=\"Helvetica\", fontsize=%d];\n", g.Layout.FontSize))
	if len(g.Edges) > 0 {
		sb.WriteString(fmt.Sprintf("  edge [arrowhead=crow, arrowtail=none, color=\"%s\"];\n", edgeColor))
	}
	sb.WriteString("\n")

	for _, node := range g.Nodes {
		d.renderNode(&sb, node)
	}

	if len(g.Edges) > 0 {
		sb.WriteString("\n")
	}
	for _, edge := range g.Edges {
		sb.WriteString(fmt.Sprintf("  %s -> %s;\n", endpoint(edge.From, edge.FromPort), endpoint(edge.To, edge.ToPort)))
	}

	sb.WriteString("}\n")
	return sb.String()
}

func (d *DOTRenderer) renderNode(sb *strings.Builder, node *graph.Node) {
	header, bg := dimHeaderColor, dimBgColor
	if node.Type == graph.NodeTypeFact {
		header, bg = factHeaderColor, factBgColor
	}
	border := 1
	if node.Emphasis {
		border = 2
	}
	span := 2
	if node.Nullable {
		span = 3
	}

	sb.WriteString(fmt.Sprintf("  %q [label=<<TABLE BORDER=\"%d\" CELLBORDER=\"0\" CELLSPACING=\"0\" BGCOLOR=\"%s\">\n", node.ID, border, bg))
	sb.WriteString(fmt.Sprintf("    <TR><TD COLSPAN=\"%d\" BGCOLOR=\"%s\"><B>%s</B></TD></TR>\n", span, header, html.EscapeString(node.Name)))

	if node.Nullable {
		sb.WriteString(fmt.Sprintf("    <TR><TD BGCOLOR=\"%[1]s\"><B>Column</B></TD><TD BGCOLOR=\"%[1]s\"><B>Type</B></TD><TD BGCOLOR=\"%[1]s\"><B>Nullable</B></TD></TR>\n", gridHeaderColor))
	}

	for _, row := range node.Rows {
		name := html.EscapeString(row.Name)
		dataType := html.EscapeString(row.DataType)

		sb.WriteString("    <TR>")
		if row.Port != "" {
			sb.WriteString(fmt.Sprintf("<TD ALIGN=\"LEFT\" PORT=\"%s\">%s</TD>", html.EscapeString(row.Port), name))
		} else {
			sb.WriteString(fmt.Sprintf("<TD ALIGN=\"LEFT\">%s</TD>", name))
		}
		sb.WriteString(fmt.Sprintf("<TD ALIGN=\"LEFT\">%s</TD>", dataType))
		if node.Nullable {
			nullable := "NOT NULL"
			if row.Nullable {
				nullable = "NULL"
			}
			sb.WriteString(fmt.Sprintf("<TD ALIGN=\"LEFT\">%s</TD>", nullable))
		}
		sb.WriteString("</TR>\n")
	}

	if node.Hidden > 0 {
		sb.WriteString(fmt.Sprintf("    <TR><TD COLSPAN=\"%d\">... +%d more</TD></TR>\n", span, node.Hidden))
	}
	sb.WriteString("  </TABLE>>];\n")
}

func graphAttrs(l graph.Layout) string {
	attrs := []string{"rankdir=" + l.RankDir}
	if l.Splines != "" {
		attrs = append(attrs, "splines="+l.Splines)
	}
	if l.NodeSep > 0 {
		attrs = append(attrs, fmt.Sprintf("nodesep=%g", l.NodeSep))
	}
	if l.RankSep > 0 {
		attrs = append(attrs, fmt.Sprintf("ranksep=%g", l.RankSep))
	}
	return strings.Join(attrs, ", ")
}

func endpoint(node, port string) string {
	if port == "" {
		return fmt.Sprintf("%q", node)
	}
	return fmt.Sprintf("%q:%q", node, port)
}
