package renderer

import (
	"fmt"
	"strings"

	"star-erd/internal/schema"
)

// MarkdownRenderer Markdown 数据字典渲染器
type MarkdownRenderer struct{}

// NewMarkdownRenderer 创建渲染器
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render 渲染为 Markdown 格式：维度表在前，事实表在后，其余表最后
func (m *MarkdownRenderer) Render(snap *schema.Snapshot, edges []schema.FKEdge) string {
	var sb strings.Builder

	sb.WriteString("# 数据仓库结构文档\n\n")
	sb.WriteString(fmt.Sprintf("维度表 %d 张，事实表 %d 张，关系 %d 条\n\n",
		len(snap.Dimensions()), len(snap.Facts()), len(edges)))

	sections := []struct {
		title  string
		tables []*schema.Table
	}{
		{"维度表", snap.Dimensions()},
		{"事实表", snap.Facts()},
		{"其他表", snap.OfKind(schema.KindOther)},
	}

	for _, section := range sections {
		if len(section.tables) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("## %s\n\n", section.title))
		for _, t := range section.tables {
			m.renderTable(&sb, t)
			m.renderTableRelations(&sb, edges, t.Name)
		}
	}

	return sb.String()
}

func (m *MarkdownRenderer) renderTable(sb *strings.Builder, t *schema.Table) {
	sb.WriteString(fmt.Sprintf("### %s\n\n", t.Name))

	// 表头
	sb.WriteString("| 列名 | 类型 | 可空 | 键 |\n")
	sb.WriteString("|------|------|------|----|\n")

	for _, col := range t.Columns {
		nullable := "否"
		if col.Nullable {
			nullable = "是"
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
			escapeCell(col.Name), escapeCell(col.Type), nullable, col.Role))
	}

	sb.WriteString("\n")
}

// renderTableRelations 渲染从该表出发的关系
func (m *MarkdownRenderer) renderTableRelations(sb *strings.Builder, edges []schema.FKEdge, tableName string) {
	var relations []schema.FKEdge
	for _, e := range edges {
		if e.FromTable == tableName {
			relations = append(relations, e)
		}
	}

	if len(relations) == 0 {
		return
	}

	sb.WriteString("#### 关系\n\n")

	for _, rel := range relations {
		relType := "推断外键"
		if rel.Explicit {
			relType = "外键"
		}
		sb.WriteString(fmt.Sprintf("- **%s** `%s.%s` → `%s.%s`\n",
			relType, rel.FromTable, rel.FromColumn, rel.ToTable, rel.ToColumn))
	}

	sb.WriteString("\n")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
